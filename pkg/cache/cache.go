// Package cache stores deck snapshots.
//
// [Cache] is a small byte-oriented key/value interface with four
// implementations: [FileCache] for the CLI, [RedisCache] and [MongoCache]
// for the HTTP service, and [NullCache] when persistence is disabled.
// [Snapshots] layers JSON-encoded deck snapshots on top of any of them.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired key is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Lister is implemented by caches that can enumerate their keys.
type Lister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}
