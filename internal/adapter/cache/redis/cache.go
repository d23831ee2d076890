// Package redis provides the Redis-backed result cache.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/talentsift/resume-parser/internal/domain"
)

const keyPrefix = "resume:result:"

// ResultCache caches completed result envelopes with a TTL.
type ResultCache struct {
	client *redis.Client
}

// New constructs a ResultCache. Returns nil when rdb is nil so a
// missing Redis config degrades to uncached reads.
func New(rdb *redis.Client) *ResultCache {
	if rdb == nil {
		return nil
	}
	return &ResultCache{client: rdb}
}

// NewClient dials Redis at addr, or returns nil when addr is empty.
func NewClient(addr string) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr})
}

// Get returns the cached envelope for key, reporting a miss without error.
func (c *ResultCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("op=cache.get: %w", err)
	}
	return val, true, nil
}

// Set stores the envelope for key with the given TTL.
func (c *ResultCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, keyPrefix+key, val, ttl).Err(); err != nil {
		return fmt.Errorf("op=cache.set: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable, for readiness probing.
func (c *ResultCache) Ping(ctx domain.Context) error {
	return c.client.Ping(ctx).Err()
}
