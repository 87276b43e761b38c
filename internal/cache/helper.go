package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"pawcircle/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client. A Cache with a nil client is a no-op that always misses.
type Cache struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// Enabled reports whether a Redis client is attached.
func (c *Cache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	ctx, span := observability.TraceRedisOperation(ctx, "get")
	s, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		observability.EndSpan(span, nil)
		return false, nil
	}
	observability.EndSpan(span, err)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ctx, span := observability.TraceRedisOperation(ctx, "set")
	err = c.rdb.Set(ctx, key, b, ttl).Err()
	observability.EndSpan(span, err)
	return err
}

// Aside tries Redis first; on a miss or a Redis failure it calls fetch, which
// must populate dest, then stores dest with ttl on a best-effort basis.
func (c *Cache) Aside(ctx context.Context, collection, key string, dest any, ttl time.Duration, fetch func() error) error {
	if !c.Enabled() {
		return fetch()
	}
	found, err := c.GetJSON(ctx, key, dest)
	if err == nil && found {
		observability.CacheLookups.WithLabelValues(collection, "hit").Inc()
		return nil
	}
	observability.CacheLookups.WithLabelValues(collection, "miss").Inc()

	if err := fetch(); err != nil {
		return err
	}

	_ = c.SetJSON(ctx, key, dest, ttl)
	return nil
}

// Invalidate deletes keys, ignoring errors.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	c.rdb.Del(ctx, keys...)
}
