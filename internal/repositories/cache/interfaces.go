package cacherepo

import (
	"context"
	"time"
)

// Cache is the key/value store behind sessions and record lookups. Keys are
// passed unprefixed; the implementation namespaces them.
type Cache interface {
	Get(ctx context.Context, key string) CacheResponse[string]
	Set(ctx context.Context, key string, value any, ttl time.Duration) CacheResponse[string]
	Del(ctx context.Context, keys ...string) CacheResponse[int64]
}

// CacheResponse reports a missing key as the zero value with a nil error.
type CacheResponse[T any] interface {
	Err() error
	Result() (T, error)
}
