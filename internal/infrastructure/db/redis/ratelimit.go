package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window request counter backed by Redis.
// Key format: ratelimit:<scope>:<key>
type RateLimiter struct {
	client *redis.Client
	scope  string
}

// NewRateLimiter creates a RateLimiter wrapping the given Redis client. scope
// separates counters of unrelated endpoints.
func NewRateLimiter(client *redis.Client, scope string) *RateLimiter {
	return &RateLimiter{client: client, scope: scope}
}

// Allow counts one request for key in the current window and reports whether
// it is within limit. The counter expires with the window that created it.
func (l *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	k := l.key(key)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("rate limit: %w", err)
	}
	return incr.Val() <= int64(limit), nil
}

func (l *RateLimiter) key(key string) string {
	return fmt.Sprintf("ratelimit:%s:%s", l.scope, key)
}
