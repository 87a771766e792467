// Package interfaces defines the core interfaces used throughout the application.
// These interfaces allow for dependency injection and make the code testable.
package interfaces

import (
	"context"
	"time"
)

// Cache defines the key/value contract behind the like counters.
// Implementations can be Redis, in-memory, or SQLite.
//
// A missing or expired key is not an error:
//
//	data, found, err := cache.Get(ctx, "user_album_likes:album-1")
//	switch {
//	case err != nil:
//		// transport failure, the store is unreachable
//	case !found:
//		// recoverable miss
//	}
type Cache interface {
	// Get retrieves a value by key. found is false when the key is absent or expired.
	// A non-nil error means the cache could not be consulted.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores a value with the given TTL, overwriting any existing entry.
	// If ttl is 0, the value should be stored indefinitely.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	// Returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the connection. The cache must not be used afterwards.
	Close() error
}
