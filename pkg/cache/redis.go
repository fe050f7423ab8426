package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis so that several API servers share
// analysis results. Expiry is delegated to Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the Redis server at addr, which is either a
// host:port pair or a redis:// URL. The connection is checked with PING,
// retried with backoff.
func NewRedisCache(ctx context.Context, addr string) (*RedisCache, error) {
	opts := &redis.Options{Addr: addr}
	if strings.Contains(addr, "://") {
		var err error
		if opts, err = redis.ParseURL(addr); err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
	}

	c := NewRedisCacheFromClient(redis.NewClient(opts))
	err := RetryWithBackoff(ctx, func() error {
		if err := c.client.Ping(ctx).Err(); err != nil {
			return Retryable(fmt.Errorf("%w: ping %s: %v", ErrUnavailable, opts.Addr, err))
		}
		return nil
	})
	if err != nil {
		_ = c.client.Close()
		return nil, err
	}
	return c, nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get retrieves a value from the cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return data, true, nil
}

// Set stores a value in the cache. A zero ttl keeps the entry until it is
// deleted or evicted.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes a value from the cache.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ Cache = (*RedisCache)(nil)
