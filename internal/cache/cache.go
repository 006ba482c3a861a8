package cache

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get when the key is absent or expired
var ErrKeyNotFound = errors.New("key not found")

// Cache is the byte-oriented store shared by the Redis and in-process backends
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Close() error
}
