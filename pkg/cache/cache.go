// Package cache stores analysis results keyed by a hash of their inputs.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for servers sharing results across instances, and [NullCache] when
// caching is disabled. Keys are built by a [Keyer] so that every option
// which changes a result also changes its key.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A zero ttl passed to Set means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
