package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps entries in process memory; used when Redis is not configured
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a memory cache that evicts expired entries every cleanupInterval
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{cache: gocache.New(defaultTTL, cleanupInterval)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	val, found := c.cache.Get(key)
	if !found {
		return nil, ErrKeyNotFound
	}
	return val.([]byte), nil
}

// Set stores a copy of value; ttl <= 0 falls back to the default TTL
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	buf := make([]byte, len(value))
	copy(buf, value)
	c.cache.Set(key, buf, ttl)
	return nil
}

func (c *MemoryCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		c.cache.Delete(k)
	}
	return nil
}

func (c *MemoryCache) Close() error {
	c.cache.Flush()
	return nil
}
