// Package cache stores encoded range query answers keyed by dataset
// revision and query bounds.
package cache

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/go-sod/rangetree/internal/logging"
	"github.com/go-sod/rangetree/internal/util"
)

const keyPrefix = "rangetree:range:"

type Cache interface {
	// Get returns false when the key is absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// New returns a Redis backed cache, or a cache that never hits when no
// address is configured.
func New(ctx context.Context, cfg *Config) (Cache, error) {
	logger := logging.FromContext(ctx)
	if cfg.Addr == "" {
		logger.Info("cache is disabled")
		return Nop{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	logger.Infof("cache connected to %s", cfg.Addr)

	return &redisCache{client: client, ttl: cfg.TTL}, nil
}

// RangeKey identifies a range query against one revision of a dataset, so
// a replaced dataset never serves stale answers.
func RangeKey(revision string, low, high []float64) string {
	sum := util.HashVectors(low, high)
	return keyPrefix + revision + ":" + hex.EncodeToString(sum[:])
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return value, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *redisCache) Close() error {
	return c.client.Close()
}

type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (Nop) Set(context.Context, string, []byte) error {
	return nil
}

func (Nop) Close() error {
	return nil
}
