// Package cache provides small JSON helpers over Redis for report caching.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client with JSON marshaling and a default TTL.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New constructs a cache. A zero ttl disables expiry.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// StatsKey is the cache key for a sale's daily statistics document.
func StatsKey(saleID int) string {
	return fmt.Sprintf("garagebuddy:sale:%d:stats", saleID)
}

// Get retrieves a value and unmarshals it into dest; the bool reports whether
// the key existed.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal([]byte(val), dest)
}

// Set stores a value as JSON with the cache's TTL.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

// Delete removes a key; missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}
