// Package cache provides a redis-backed product snapshot cache for catalogue
// display reads. Checkout never reads from it: the order transaction
// re-reads product rows under lock. A nil cache is a valid no-op.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"green-grocer/internal/config"
	"green-grocer/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ProductCache caches product records keyed by id.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// New connects to redis and returns a product cache. Connection failures
// are returned to the caller, which may choose to run without a cache.
func New(ctx context.Context, cfg config.RedisConfig, logger zerolog.Logger) (*ProductCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info().Str("addr", cfg.Address()).Msg("redis connection established")

	return &ProductCache{
		client: client,
		ttl:    time.Duration(cfg.TTL) * time.Second,
		logger: logger.With().Str("cache", "product").Logger(),
	}, nil
}

// Get returns the cached product, or nil on a miss. Errors degrade to a
// miss so a flaky cache never fails a catalogue read.
func (c *ProductCache) Get(ctx context.Context, id string) *model.Product {
	if c == nil {
		return nil
	}

	data, err := c.client.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Str("product_id", id).Msg("cache read failed")
		}
		return nil
	}

	var product model.Product
	if err := json.Unmarshal(data, &product); err != nil {
		c.logger.Warn().Err(err).Str("product_id", id).Msg("cache entry corrupt, dropping")
		c.Invalidate(ctx, id)
		return nil
	}

	return &product
}

// Set stores a product snapshot with the configured TTL.
func (c *ProductCache) Set(ctx context.Context, product *model.Product) {
	if c == nil || product == nil {
		return
	}

	data, err := json.Marshal(product)
	if err != nil {
		c.logger.Warn().Err(err).Str("product_id", product.ID).Msg("cache marshal failed")
		return
	}

	if err := c.client.Set(ctx, productKey(product.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("product_id", product.ID).Msg("cache write failed")
	}
}

// Invalidate removes cached entries for the given product ids. Called after
// a checkout commits so stock counts on display catch up quickly.
func (c *ProductCache) Invalidate(ctx context.Context, ids ...string) {
	if c == nil || len(ids) == 0 {
		return
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn().Err(err).Int("count", len(ids)).Msg("cache invalidation failed")
	}
}

// Close releases the redis connection.
func (c *ProductCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func productKey(id string) string {
	return "product:" + id
}
