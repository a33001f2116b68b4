package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"laximo/catalog/internal/domain"

	"github.com/redis/go-redis/v9"
)

// CatalogInfoCache stores per-brand catalog metadata. It never holds ssd
// values: those are vehicle-specific and stay with the caller.
type CatalogInfoCache interface {
	// Get returns nil without error on a miss.
	Get(ctx context.Context, catalog string) (*domain.CatalogInfo, error)
	Set(ctx context.Context, info *domain.CatalogInfo) error
}

type redisCatalogInfoCache struct {
	redisClient *redis.Client
	keyPrefix   string
	ttl         time.Duration
}

func NewRedisCatalogInfoCache(redisClient *redis.Client, ttl time.Duration) CatalogInfoCache {
	return &redisCatalogInfoCache{
		redisClient: redisClient,
		keyPrefix:   "laximo:catalog:info:",
		ttl:         ttl,
	}
}

func (c *redisCatalogInfoCache) key(catalog string) string {
	return c.keyPrefix + catalog
}

func (c *redisCatalogInfoCache) Get(ctx context.Context, catalog string) (*domain.CatalogInfo, error) {
	val, err := c.redisClient.Get(ctx, c.key(catalog)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get catalog info for %s: %w", catalog, err)
	}

	var info domain.CatalogInfo
	if err := json.Unmarshal(val, &info); err != nil {
		return nil, fmt.Errorf("failed to decode catalog info for %s: %w", catalog, err)
	}

	return &info, nil
}

func (c *redisCatalogInfoCache) Set(ctx context.Context, info *domain.CatalogInfo) error {
	if info == nil || info.Code == "" {
		return nil
	}

	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to encode catalog info for %s: %w", info.Code, err)
	}

	if err := c.redisClient.Set(ctx, c.key(info.Code), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set catalog info for %s: %w", info.Code, err)
	}
	return nil
}
