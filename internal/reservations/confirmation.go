package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/richxcame/restaurant-backoffice/pkg/logger"
	"go.uber.org/zap"
)

var errNoWriter = errors.New("confirmation writer not configured")

var confirmationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "reservation_confirmations_total",
	Help: "Booking confirmations by path (model or fallback)",
}, []string{"path"})

// Confirmation is the message sent to a guest after booking
type Confirmation struct {
	Message  string
	Fallback bool
}

// ConfirmationService drafts booking confirmations. It never fails.
type ConfirmationService struct {
	writer ConfirmationWriter
}

// NewConfirmationService creates a new confirmation service. writer may be nil.
func NewConfirmationService(writer ConfirmationWriter) *ConfirmationService {
	return &ConfirmationService{writer: writer}
}

// Compose returns a confirmation for r, falling back to a fixed template
func (s *ConfirmationService) Compose(ctx context.Context, r *Reservation) Confirmation {
	err := errNoWriter
	if s.writer != nil {
		var msg string
		msg, err = s.writer.WriteConfirmation(ctx, r)
		if err == nil {
			if msg = strings.TrimSpace(msg); msg != "" {
				confirmationsTotal.WithLabelValues("model").Inc()
				return Confirmation{Message: msg}
			}
			err = errors.New("confirmation writer returned an empty message")
		}
	}

	logger.WithContext(ctx).Warn("Confirmation writer unavailable, using template",
		zap.Int64("reservation_id", r.ID),
		zap.Error(err),
	)
	confirmationsTotal.WithLabelValues("fallback").Inc()
	return Confirmation{Message: FallbackConfirmation(r), Fallback: true}
}

// FallbackConfirmation is the fixed confirmation text
func FallbackConfirmation(r *Reservation) string {
	return fmt.Sprintf(
		"Dear %s, your reservation for %d people on %s at %s has been confirmed. We look forward to welcoming you to our restaurant!",
		r.CustomerName, r.PartySize, r.Date, r.Time,
	)
}
