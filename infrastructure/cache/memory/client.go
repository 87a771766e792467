// ABOUTME: In-memory cache implementation backed by patrickmn/go-cache
// ABOUTME: Used for single-instance deployments and tests; data does not survive restarts

package memory

import (
	"context"
	"time"

	"openmusic-api/core/interfaces"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultCleanupInterval is how often expired items are purged
const DefaultCleanupInterval = 10 * time.Minute

// MemoryCache implements the Cache interface using in-memory storage
type MemoryCache struct {
	items *gocache.Cache
}

var _ interfaces.Cache = (*MemoryCache)(nil)

// NewMemoryCache creates a new in-memory cache instance
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	return &MemoryCache{
		items: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	v, ok := c.items.Get(key)
	if !ok {
		return nil, false, nil
	}

	stored := v.([]byte)
	result := make([]byte, len(stored))
	copy(result, stored)
	return result, true, nil
}

// Set stores a value in the cache with the given TTL. A zero TTL never expires.
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	c.items.Set(key, valueCopy, ttl)
	return nil
}

// Delete removes a key from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.items.Delete(key)
	return nil
}

// Ping always succeeds
func (c *MemoryCache) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close drops every entry
func (c *MemoryCache) Close() error {
	c.items.Flush()
	return nil
}

// Len returns the number of stored items, including expired ones not yet purged
func (c *MemoryCache) Len() int {
	return c.items.ItemCount()
}
