package insight

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimiter caps insight calls per user per window using a redis counter.
// A nil limiter (redis not configured) allows everything; the endpoint stays
// usable on a single-box deployment without redis.
type RateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

// NewRateLimiter returns nil when addr is empty.
func NewRateLimiter(addr, password string, limit int, window time.Duration) *RateLimiter {
	if addr == "" || limit <= 0 {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	return &RateLimiter{rdb: rdb, limit: limit, window: window}
}

// Allow increments the caller's counter and reports whether they are within
// the limit. Redis being down counts as allowed: insight is a convenience
// feature and must not fail closed because the cache is unreachable.
func (l *RateLimiter) Allow(ctx context.Context, userID uint) bool {
	if l == nil {
		return true
	}
	key := fmt.Sprintf("insight:rate:%d", userID)
	n, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return true
	}
	if n == 1 {
		l.rdb.Expire(ctx, key, l.window)
	}
	return n <= int64(l.limit)
}
