package dashboard

import (
	"context"
	"fmt"

	"github.com/richxcame/restaurant-backoffice/pkg/eventbus"
	"github.com/richxcame/restaurant-backoffice/pkg/logger"
	"go.uber.org/zap"
)

// InvalidationSubjects are the event subjects that change dashboard numbers
var InvalidationSubjects = []string{"receipts.>", "reviews.>", "reservations.>"}

// InvalidationQueue lets one instance per event clear the shared cache
const InvalidationQueue = "dashboard-cache"

// Subscriber registers event handlers
type Subscriber interface {
	Subscribe(ctx context.Context, subject, queue string, handler eventbus.Handler) error
}

// SubscribeInvalidation clears the cached stats whenever a receipt, review or
// reservation event arrives
func (s *Service) SubscribeInvalidation(ctx context.Context, sub Subscriber) error {
	for _, subject := range InvalidationSubjects {
		if err := sub.Subscribe(ctx, subject, InvalidationQueue, s.handleEvent); err != nil {
			return fmt.Errorf("subscribe dashboard invalidation: %w", err)
		}
	}
	return nil
}

func (s *Service) handleEvent(ctx context.Context, event *eventbus.Event) error {
	if err := s.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate dashboard cache: %w", err)
	}
	logger.Debug("Dashboard cache invalidated",
		zap.String("event_type", event.Type),
		zap.String("event_id", event.ID),
	)
	return nil
}
