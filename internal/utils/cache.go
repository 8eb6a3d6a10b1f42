package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"fmt"           // Key formatting
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

const (
	quantityPrefix = "socks:qty:"    // Namespace of cached quantity results
	quantityGenKey = "socks:qty-gen" // Generation counter, outside quantityPrefix
)

// GetCache retrieves a value from Redis and unmarshals it into dest
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DeleteByPrefix deletes every key starting with prefix
func DeleteByPrefix(ctx context.Context, rdb *redis.Client, prefix string) error {
	iter := rdb.Scan(ctx, 0, prefix+"*", 100).Iterator() // Walk matching keys in pages
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil // Nothing cached
	}
	return rdb.Del(ctx, keys...).Err() // Delete collected keys
}

// QuantityCache caches quantity query results in Redis.
// Entries are keyed by a generation that Invalidate bumps, so a total computed
// before a mutation can never be served after it.
type QuantityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewQuantityCache creates a QuantityCache with the given entry lifetime
func NewQuantityCache(rdb *redis.Client, ttl time.Duration) *QuantityCache {
	return &QuantityCache{rdb: rdb, ttl: ttl}
}

// Generation returns the current cache generation, 0 before the first invalidation
func (c *QuantityCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, quantityGenKey).Int64()
	if err == redis.Nil {
		return 0, nil // Never invalidated
	}
	return gen, err
}

// Get returns a total cached under generation gen
func (c *QuantityCache) Get(ctx context.Context, gen int64, color, op string, cottonPart int) (int64, bool, error) {
	var total int64
	found, err := GetCache(ctx, c.rdb, quantityKey(gen, color, op, cottonPart), &total)
	return total, found, err
}

// Set stores a total under generation gen, which must be read before computing it
func (c *QuantityCache) Set(ctx context.Context, gen int64, color, op string, cottonPart int, total int64) error {
	return SetCache(ctx, c.rdb, quantityKey(gen, color, op, cottonPart), total, c.ttl)
}

// Invalidate moves to a new generation and drops the entries of older ones
func (c *QuantityCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, quantityGenKey).Err(); err != nil {
		return err
	}
	return DeleteByPrefix(ctx, c.rdb, quantityPrefix) // Older entries are unreachable, free them early
}

// quantityKey builds the cache key; %q keeps colors with separators distinct
func quantityKey(gen int64, color, op string, cottonPart int) string {
	return fmt.Sprintf("%s%d:%q:%s:%d", quantityPrefix, gen, color, op, cottonPart)
}
