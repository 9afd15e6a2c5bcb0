package resilience

import (
	"context"

	"github.com/richxcame/restaurant-backoffice/pkg/logger"
	"go.uber.org/zap"
)

// FallbackFunc decides the result of a call the open breaker rejected.
type FallbackFunc func(ctx context.Context, err error) (interface{}, error)

// Degraded logs the rejection and returns ErrCircuitOpen, leaving the caller
// to take its own fallback path.
func Degraded(service string) FallbackFunc {
	return func(ctx context.Context, err error) (interface{}, error) {
		logger.WithContext(ctx).Warn("circuit breaker open, call skipped",
			zap.String("service", service),
			zap.Error(err),
		)
		return nil, ErrCircuitOpen
	}
}
