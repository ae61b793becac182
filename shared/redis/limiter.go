package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Decision is the result of one rate limit check
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// FixedWindowLimiter counts hits per key in windows of fixed length
type FixedWindowLimiter struct {
	rdb    goredis.Cmdable
	prefix string
	limit  int
	window time.Duration
}

// NewFixedWindowLimiter allows limit hits per key per window
func NewFixedWindowLimiter(rdb goredis.Cmdable, prefix string, limit int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		rdb:    rdb,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

// Allow records one hit for key and reports whether it fits the window
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	k := l.prefix + key

	var incr *goredis.IntCmd
	var ttl *goredis.DurationCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		ttl = pipe.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return Decision{}, fmt.Errorf("failed to count rate limit hit: %w", err)
	}

	count := int(incr.Val())
	remainingTTL := ttl.Val()

	// first hit of the window, or a key that lost its expiry
	if count == 1 || remainingTTL < 0 {
		if err := l.rdb.PExpire(ctx, k, l.window).Err(); err != nil {
			return Decision{}, fmt.Errorf("failed to set rate limit window: %w", err)
		}
		remainingTTL = l.window
	}

	return decide(count, l.limit, remainingTTL), nil
}

func decide(count, limit int, ttl time.Duration) Decision {
	if count > limit {
		return Decision{Allowed: false, Remaining: 0, RetryAfter: ttl}
	}
	return Decision{Allowed: true, Remaining: limit - count}
}
