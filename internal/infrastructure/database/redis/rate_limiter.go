// internal/infrastructure/database/redis/rate_limiter.go
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter counts requests per key in fixed windows
type RateLimiter struct {
	client *Client
	window time.Duration
}

// NewRateLimiter creates a limiter with the given window length
func NewRateLimiter(client *Client, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, window: window}
}

// Window returns the window length
func (l *RateLimiter) Window() time.Duration {
	return l.window
}

// Allow records one hit for key and reports how many hits the window already
// held before it. Rejected hits are not recorded.
func (l *RateLimiter) Allow(ctx context.Context, key string, limit int) (int, bool, error) {
	redisKey := "rate_limit:" + key

	current, err := l.client.Redis.Get(ctx, redisKey).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, false, fmt.Errorf("read rate limit counter: %w", err)
	}

	if current >= limit {
		return current, false, nil
	}

	pipe := l.client.Redis.Pipeline()
	pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return current, true, fmt.Errorf("increment rate limit counter: %w", err)
	}

	return current, true, nil
}
