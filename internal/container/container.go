package container

import (
	"context"
	"errors"
	"fmt"
	"time"

	"laximo/catalog/internal/cache"
	"laximo/catalog/internal/client"
	"laximo/catalog/internal/config"
	"laximo/catalog/internal/protocol"
	"laximo/catalog/internal/service"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config      *config.Config
	OEM         client.OEMClient
	Aftermarket client.AftermarketClient

	Service *service.Service

	oemTransport         *protocol.CommandClient
	aftermarketTransport *protocol.CommandClient
	redis                *redis.Client
}

// New creates a new container with all dependencies initialized. Blank
// credentials of either service fail here, before any call is made.
func New(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	oemTransport, err := protocol.NewCommandClient(serviceConfig("oem", cfg.Laximo, cfg.Laximo.OEM))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize catalog client: %w", err)
	}
	container.oemTransport = oemTransport

	aftermarketTransport, err := protocol.NewCommandClient(serviceConfig("aftermarket", cfg.Laximo, cfg.Laximo.Aftermarket))
	if err != nil {
		_ = oemTransport.Close()
		return nil, fmt.Errorf("failed to initialize aftermarket client: %w", err)
	}
	container.aftermarketTransport = aftermarketTransport

	container.OEM = client.NewOEMClient(oemTransport, cfg.Laximo.Locale)
	container.Aftermarket = client.NewAftermarketClient(aftermarketTransport, cfg.Laximo.Locale)

	var catalogInfoCache cache.CatalogInfoCache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})

		// Test connection
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			_ = container.Close()
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")

		container.redis = rdb
		catalogInfoCache = cache.NewRedisCatalogInfoCache(rdb, time.Duration(cfg.Redis.CatalogInfoTTL)*time.Second)
	}

	container.Service = service.NewService(
		container.OEM,
		container.Aftermarket,
		catalogInfoCache,
		cfg.Laximo.MaxWorkers,
	)

	log.Infof("✅ Catalog clients ready (%d catalog endpoints, %d aftermarket endpoints)",
		len(cfg.Laximo.OEM.Endpoints), len(cfg.Laximo.Aftermarket.Endpoints))

	return container, nil
}

func serviceConfig(name string, shared config.LaximoConfig, svc config.ServiceConfig) protocol.ServiceConfig {
	endpoints := make([]protocol.Endpoint, 0, len(svc.Endpoints))
	for _, ep := range svc.Endpoints {
		dialect := protocol.Dialect(ep.Dialect)
		if dialect == "" {
			dialect = protocol.DialectLegacy
		}
		endpoints = append(endpoints, protocol.Endpoint{URL: ep.URL, Dialect: dialect})
	}

	return protocol.ServiceConfig{
		Name:       name,
		Endpoints:  endpoints,
		Namespace:  svc.Namespace,
		SOAPAction: svc.SOAPAction,
		Credentials: protocol.Credentials{
			Login:  svc.Login,
			Secret: svc.Password,
		},
		Timeout:              time.Duration(shared.Timeout) * time.Second,
		MaxRequestsPerSecond: shared.MaxRequestsPerSecond,
	}
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Debug("Shutting down container...")

	var errs []error
	if c.oemTransport != nil {
		errs = append(errs, c.oemTransport.Close())
	}
	if c.aftermarketTransport != nil {
		errs = append(errs, c.aftermarketTransport.Close())
	}
	if c.redis != nil {
		errs = append(errs, c.redis.Close())
	}

	return errors.Join(errs...)
}
