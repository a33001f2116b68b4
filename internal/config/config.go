package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Laximo LaximoConfig `mapstructure:"laximo"`
	Redis  RedisConfig  `mapstructure:"redis"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LaximoConfig holds the settings shared by both catalog services and the
// per-service credentials and endpoints.
type LaximoConfig struct {
	Locale               string `mapstructure:"locale"`
	Timeout              int    `mapstructure:"timeout"`
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`
	MaxWorkers           int    `mapstructure:"max_workers"`

	OEM         ServiceConfig `mapstructure:"oem"`
	Aftermarket ServiceConfig `mapstructure:"aftermarket"`
}

// ServiceConfig holds one upstream service's credentials and endpoints,
// tried in order.
type ServiceConfig struct {
	Login      string           `mapstructure:"login"`
	Password   string           `mapstructure:"password"`
	Namespace  string           `mapstructure:"namespace"`
	SOAPAction string           `mapstructure:"soap_action"`
	Endpoints  []EndpointConfig `mapstructure:"endpoints"`
}

type EndpointConfig struct {
	URL     string `mapstructure:"url"`
	Dialect string `mapstructure:"dialect"`
}

// RedisConfig holds Redis connection details for the catalog info cache
type RedisConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Password       string `mapstructure:"password"`
	Database       int    `mapstructure:"database"`
	CatalogInfoTTL int    `mapstructure:"catalog_info_ttl"`
}

// Load loads configuration from config.yaml in the working directory, if
// present, with environment variable overrides
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from the YAML file at path. An explicit path
// must exist; an empty path looks for an optional config.yaml.
func LoadFrom(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug("No config.yaml found, using defaults and environment")
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("laximo.locale", "ru_RU")
	v.SetDefault("laximo.timeout", 30)
	v.SetDefault("laximo.max_requests_per_second", 0)
	v.SetDefault("laximo.max_workers", 5)

	v.SetDefault("laximo.oem.login", "")
	v.SetDefault("laximo.oem.password", "")
	v.SetDefault("laximo.oem.namespace", "http://WebCatalog.Kito.ec")
	v.SetDefault("laximo.oem.soap_action", "urn:QueryDataLogin")
	v.SetDefault("laximo.oem.endpoints", []map[string]any{
		{"url": "https://ws.laximo.net/ec.Kito.WebCatalog/services/Catalog.CatalogHttpSoap11Endpoint/", "dialect": "legacy"},
		{"url": "https://ws.laximo.ru/ec.Kito.WebCatalog/services/Catalog.CatalogHttpSoap11Endpoint/", "dialect": "current"},
	})

	v.SetDefault("laximo.aftermarket.login", "")
	v.SetDefault("laximo.aftermarket.password", "")
	v.SetDefault("laximo.aftermarket.namespace", "http://Aftermarket.Kito.ec")
	v.SetDefault("laximo.aftermarket.soap_action", "urn:QueryDataLogin")
	v.SetDefault("laximo.aftermarket.endpoints", []map[string]any{
		{"url": "https://aws.laximo.net/ec.Kito.Aftermarket/services/Catalog.CatalogHttpSoap11Endpoint/", "dialect": "legacy"},
	})

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.catalog_info_ttl", 86400)
}

// SetupLogging applies the configured level and formatter to the global logger.
func SetupLogging(cfg LogConfig) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	log.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return nil
}
