package cache

import (
	"context"
	"strings"
	"time"
)

// ScopedCache prefixes every key of an inner cache, giving each tenant (a
// server instance, a user) its own namespace in a shared backend.
type ScopedCache struct {
	inner  Cache
	prefix string
}

// NewScopedCache wraps inner with a key prefix. A nil inner is a NullCache.
func NewScopedCache(inner Cache, prefix string) Cache {
	if inner == nil {
		inner = NewNullCache()
	}
	return &ScopedCache{inner: inner, prefix: prefix}
}

func (c *ScopedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.inner.Get(ctx, c.prefix+key)
}

func (c *ScopedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, c.prefix+key, data, ttl)
}

func (c *ScopedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, c.prefix+key)
}

// Keys lists the inner keys under the scope, with the scope prefix removed.
// Inner caches that cannot enumerate report no keys.
func (c *ScopedCache) Keys(ctx context.Context, prefix string) ([]string, error) {
	l, ok := c.inner.(Lister)
	if !ok {
		return nil, nil
	}
	keys, err := l.Keys(ctx, c.prefix+prefix)
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		keys[i] = strings.TrimPrefix(k, c.prefix)
	}
	return keys, nil
}

// Close closes the inner cache.
func (c *ScopedCache) Close() error { return c.inner.Close() }

var (
	_ Cache  = (*ScopedCache)(nil)
	_ Lister = (*ScopedCache)(nil)
)
