package health

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// CheckerConfig configures dependency checks
type CheckerConfig struct {
	Timeout time.Duration
}

// DefaultCheckerConfig returns the default checker configuration
func DefaultCheckerConfig() CheckerConfig {
	return CheckerConfig{Timeout: 2 * time.Second}
}

// Pinger is anything that can report connectivity, such as the event bus or object storage
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatabaseChecker returns a health check function for the SQL database
func DatabaseChecker(db *sql.DB) func(ctx context.Context) error {
	cfg := DefaultCheckerConfig()
	return func(ctx context.Context) error {
		if db == nil {
			return errors.New("database connection is nil")
		}
		ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
		return db.PingContext(ctx)
	}
}

// RedisChecker returns a health check function for Redis
func RedisChecker(client redis.UniversalClient) func(ctx context.Context) error {
	cfg := DefaultCheckerConfig()
	return func(ctx context.Context) error {
		if client == nil {
			return errors.New("redis client is nil")
		}
		ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
		return client.Ping(ctx).Err()
	}
}

// PingChecker wraps a Pinger as a health check function
func PingChecker(p Pinger) func(ctx context.Context) error {
	cfg := DefaultCheckerConfig()
	return func(ctx context.Context) error {
		if p == nil {
			return errors.New("dependency is nil")
		}
		ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
		return p.Ping(ctx)
	}
}
