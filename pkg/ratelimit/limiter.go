package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/richxcame/restaurant-backoffice/pkg/config"
)

// Rule describes how many requests are allowed per window
type Rule struct {
	Limit  int
	Window time.Duration
}

// Result is the outcome of a single Allow call
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
	ResetAt    time.Time
}

// Limiter is a fixed-window rate limiter backed by Redis counters
type Limiter struct {
	client redis.Cmdable
	cfg    config.RateLimitConfig
	now    func() time.Time
}

// NewLimiter creates a new Redis-backed limiter
func NewLimiter(client redis.Cmdable, cfg config.RateLimitConfig) *Limiter {
	return &Limiter{
		client: client,
		cfg:    cfg,
		now:    time.Now,
	}
}

// WithNow overrides the clock, for tests
func (l *Limiter) WithNow(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Rule returns the configured rule
func (l *Limiter) Rule() Rule {
	return Rule{Limit: l.cfg.Limit, Window: l.cfg.Window()}
}

// Allow counts one request for identity on endpoint and reports whether it fits the window
func (l *Limiter) Allow(ctx context.Context, endpoint, identity string) (*Result, error) {
	rule := l.Rule()
	if !l.cfg.Enabled || rule.Limit <= 0 {
		return &Result{Allowed: true, Limit: rule.Limit, Remaining: rule.Limit}, nil
	}

	now := l.now()
	windowStart := now.Truncate(rule.Window)
	resetAt := windowStart.Add(rule.Window)
	key := l.key(endpoint, identity, windowStart)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("increment rate limit counter: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, rule.Window).Err(); err != nil {
			return nil, fmt.Errorf("set rate limit expiry: %w", err)
		}
	}

	result := &Result{
		Allowed:   count <= int64(rule.Limit),
		Limit:     rule.Limit,
		Remaining: rule.Limit - int(count),
		ResetAt:   resetAt,
	}
	if result.Remaining < 0 {
		result.Remaining = 0
	}
	if !result.Allowed {
		result.RetryAfter = resetAt.Sub(now)
	}
	return result, nil
}

func (l *Limiter) key(endpoint, identity string, windowStart time.Time) string {
	return fmt.Sprintf("%s:%s:%s:%d", l.cfg.RedisPrefix, endpoint, identity, windowStart.Unix())
}
