package utils

import (
	"context"       // Request-scoped cancellation
	"encoding/json" // Cached values are stored as JSON
	"time"          // Entry lifetimes

	"github.com/pkg/errors"        // Error wrapping
	"github.com/redis/go-redis/v9" // Redis client
)

// Cache stores JSON-encoded responses under string keys with a TTL
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// RedisCache is a Cache backed by Redis
type RedisCache struct {
	rdb *redis.Client
}

// NewRedisCache wraps a Redis client
func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

// Get loads the JSON stored under key into dest; a missing key is not an error
func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil // Cache miss
	}
	if err != nil {
		return false, errors.Wrapf(err, "redis get %s", key)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, errors.Wrapf(err, "decode cached %s", key)
	}
	return true, nil
}

// Set stores value as JSON under key for ttl
func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	return errors.Wrapf(c.rdb.Set(ctx, key, raw, ttl).Err(), "redis set %s", key)
}

// Delete evicts key
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return errors.Wrapf(c.rdb.Del(ctx, key).Err(), "redis del %s", key)
}

// DeletePrefix evicts every key starting with prefix
func (c *RedisCache) DeletePrefix(ctx context.Context, prefix string) error {
	var keys []string                                      // Keys to evict
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator() // Walk matching keys without blocking Redis
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return errors.Wrapf(err, "redis scan %s*", prefix)
	}
	if len(keys) == 0 {
		return nil // Nothing cached
	}
	return errors.Wrapf(c.rdb.Del(ctx, keys...).Err(), "redis del %s*", prefix)
}

// NoopCache never stores anything; used when Redis is not configured
type NoopCache struct{}

// Get always misses
func (NoopCache) Get(context.Context, string, any) (bool, error) { return false, nil }

// Set discards the value
func (NoopCache) Set(context.Context, string, any, time.Duration) error { return nil }

// Delete has nothing to evict
func (NoopCache) Delete(context.Context, string) error { return nil }

// DeletePrefix has nothing to evict
func (NoopCache) DeletePrefix(context.Context, string) error { return nil }
