package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/richxcame/restaurant-backoffice/internal/receipts"
	"github.com/richxcame/restaurant-backoffice/internal/reservations"
	"github.com/richxcame/restaurant-backoffice/internal/reviews"
	"github.com/richxcame/restaurant-backoffice/pkg/common"
	"github.com/richxcame/restaurant-backoffice/pkg/logger"
	"github.com/richxcame/restaurant-backoffice/pkg/redis"
	"go.uber.org/zap"
)

const (
	// CacheKey holds the last computed stats
	CacheKey = "dashboard:stats"
	// DefaultTTL bounds how stale cached stats may get when no events arrive
	DefaultTTL = 30 * time.Second
)

var cacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "dashboard_cache_requests_total",
	Help: "Dashboard stats cache lookups by result (hit, miss, error)",
}, []string{"result"})

// Cache stores JSON values with an expiry
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Service computes dashboard stats over every feature's repository
type Service struct {
	receipts     receipts.RepositoryInterface
	reviews      reviews.RepositoryInterface
	reservations reservations.RepositoryInterface
	cache        Cache
	ttl          time.Duration
	now          func() time.Time
}

// NewService creates a new dashboard service. cache may be nil.
func NewService(
	receiptRepo receipts.RepositoryInterface,
	reviewRepo reviews.RepositoryInterface,
	reservationRepo reservations.RepositoryInterface,
	cache Cache,
) *Service {
	return &Service{
		receipts:     receiptRepo,
		reviews:      reviewRepo,
		reservations: reservationRepo,
		cache:        cache,
		ttl:          DefaultTTL,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithTTL overrides how long computed stats are cached
func (s *Service) WithTTL(ttl time.Duration) *Service {
	s.ttl = ttl
	return s
}

// Stats returns the cached stats or computes and caches fresh ones.
// Cache failures are logged and never fail the request.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	if s.cache != nil {
		var cached Stats
		err := s.cache.GetJSON(ctx, CacheKey, &cached)
		switch {
		case err == nil:
			cacheRequests.WithLabelValues("hit").Inc()
			return &cached, nil
		case errors.Is(err, redis.ErrCacheMiss):
			cacheRequests.WithLabelValues("miss").Inc()
		default:
			cacheRequests.WithLabelValues("error").Inc()
			logger.WithContext(ctx).Warn("Dashboard cache read failed", zap.Error(err))
		}
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return nil, common.NewInternalError("failed to compute dashboard stats", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, CacheKey, stats, s.ttl); err != nil {
			logger.WithContext(ctx).Warn("Dashboard cache write failed", zap.Error(err))
		}
	}

	return stats, nil
}

func (s *Service) compute(ctx context.Context) (*Stats, error) {
	rcpts, err := s.receipts.List(ctx)
	if err != nil {
		return nil, err
	}
	revs, err := s.reviews.List(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.reservations.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := Compute(rcpts, revs, bookings, s.now())
	return &stats, nil
}

// Invalidate drops the cached stats
func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, CacheKey)
}
