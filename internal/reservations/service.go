package reservations

import (
	"context"
	"strings"
	"time"

	"github.com/richxcame/restaurant-backoffice/pkg/common"
	"github.com/richxcame/restaurant-backoffice/pkg/eventbus"
	"github.com/richxcame/restaurant-backoffice/pkg/logger"
	"github.com/richxcame/restaurant-backoffice/pkg/sms"
	"go.uber.org/zap"
)

// Service handles reservation business logic
type Service struct {
	repo          RepositoryInterface
	confirmations *ConfirmationService
	notifier      sms.Sender
	publisher     eventbus.Publisher
	now           func() time.Time
}

// NewService creates a new reservations service. notifier and publisher may be nil.
func NewService(repo RepositoryInterface, confirmations *ConfirmationService, notifier sms.Sender, publisher eventbus.Publisher) *Service {
	return &Service{
		repo:          repo,
		confirmations: confirmations,
		notifier:      notifier,
		publisher:     publisher,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// ========================================
// RESERVATIONS
// ========================================

// CreateReservation books a table and drafts the guest's confirmation.
// The confirmation is texted to the guest when a phone number is given.
func (s *Service) CreateReservation(ctx context.Context, req *CreateReservationRequest) (*Confirmed, error) {
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return nil, common.NewBadRequestError("customer_name is required", nil)
	}
	if req.PartySize < 1 {
		return nil, common.NewBadRequestError("party_size must be at least 1", nil)
	}
	if _, err := time.Parse(DateLayout, req.Date); err != nil {
		return nil, common.NewBadRequestError("reservation_date must be YYYY-MM-DD", err)
	}
	if _, ok := ClockMinutes(req.Time); !ok {
		return nil, common.NewBadRequestError("reservation_time must be a time of day", nil)
	}

	status := StatusConfirmed
	if req.Status != nil {
		status = Status(*req.Status)
		if !status.Valid() {
			return nil, common.NewBadRequestError("invalid reservation status", nil)
		}
	}

	noShows := 0
	if status == StatusNoShow {
		noShows = 1
	}

	reservation, err := s.repo.Create(ctx, &NewReservation{
		CustomerName:    name,
		Email:           trimmed(req.Email),
		Phone:           trimmed(req.Phone),
		PartySize:       req.PartySize,
		Date:            req.Date,
		Time:            strings.TrimSpace(req.Time),
		Status:          status,
		SpecialRequests: trimmed(req.SpecialRequests),
		IsVIP:           req.IsVIP,
		NoShowCount:     noShows,
	})
	if err != nil {
		return nil, common.NewInternalError("failed to create reservation", err)
	}

	confirmation := s.confirmations.Compose(ctx, reservation)

	logger.WithContext(ctx).Info("Reservation created",
		zap.Int64("reservation_id", reservation.ID),
		zap.String("date", reservation.Date),
		zap.Int("party_size", reservation.PartySize),
		zap.Bool("fallback_confirmation", confirmation.Fallback),
	)

	s.sendConfirmation(ctx, reservation, confirmation.Message)
	s.notify(ctx, eventbus.SubjectReservationCreated, reservation)

	return &Confirmed{Reservation: reservation, ConfirmationMessage: confirmation.Message}, nil
}

// sendConfirmation texts the guest. Failures are logged and otherwise ignored.
func (s *Service) sendConfirmation(ctx context.Context, r *Reservation, message string) {
	if s.notifier == nil || r.Phone == nil || *r.Phone == "" {
		return
	}
	sid, err := s.notifier.SendSMS(ctx, *r.Phone, message)
	if err != nil {
		logger.WithContext(ctx).Warn("Failed to text booking confirmation",
			zap.Int64("reservation_id", r.ID),
			zap.Error(err),
		)
		return
	}
	logger.WithContext(ctx).Info("Booking confirmation sent",
		zap.Int64("reservation_id", r.ID),
		zap.String("message_sid", sid),
	)
}

// GetReservation returns a reservation by id
func (s *Service) GetReservation(ctx context.Context, id int64) (*Reservation, error) {
	reservation, err := s.repo.Get(ctx, id)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, common.NewNotFoundError("reservation not found", err)
		}
		return nil, common.NewInternalError("failed to get reservation", err)
	}
	return reservation, nil
}

// ListReservations returns every reservation ordered by date and time
func (s *Service) ListReservations(ctx context.Context) ([]Reservation, error) {
	reservations, err := s.repo.List(ctx)
	if err != nil {
		return nil, common.NewInternalError("failed to list reservations", err)
	}
	if reservations == nil {
		reservations = []Reservation{}
	}
	return reservations, nil
}

// TodayReservations returns the reservations for the current UTC date
func (s *Service) TodayReservations(ctx context.Context) ([]Reservation, error) {
	all, err := s.ListReservations(ctx)
	if err != nil {
		return nil, err
	}
	return OnDate(all, s.now().Format(DateLayout)), nil
}

// UpdateReservation applies a partial update. Moving into no-show adds one
// to the guest's no-show count.
func (s *Service) UpdateReservation(ctx context.Context, id int64, req *UpdateReservationRequest) (*Reservation, error) {
	if req == nil || req.Empty() {
		return nil, common.NewBadRequestError("no fields to update", nil)
	}

	current, err := s.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	patch, err := buildPatch(req)
	if err != nil {
		return nil, err
	}

	enteredNoShow := patch.Status != nil && *patch.Status == StatusNoShow && current.Status != StatusNoShow
	if enteredNoShow {
		count := current.NoShowCount + 1
		patch.NoShowCount = &count
	}

	reservation, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, common.NewNotFoundError("reservation not found", err)
		}
		return nil, common.NewInternalError("failed to update reservation", err)
	}

	s.notify(ctx, eventbus.SubjectReservationUpdated, reservation)
	if enteredNoShow {
		logger.WithContext(ctx).Info("Reservation marked as no-show",
			zap.Int64("reservation_id", reservation.ID),
			zap.Int("no_show_count", reservation.NoShowCount),
		)
		s.notify(ctx, eventbus.SubjectReservationNoShow, reservation)
	}

	return reservation, nil
}

func buildPatch(req *UpdateReservationRequest) (Patch, error) {
	var patch Patch
	if req.CustomerName != nil {
		name := strings.TrimSpace(*req.CustomerName)
		if name == "" {
			return patch, common.NewBadRequestError("customer_name cannot be empty", nil)
		}
		patch.CustomerName = &name
	}
	if req.PartySize != nil {
		if *req.PartySize < 1 {
			return patch, common.NewBadRequestError("party_size must be at least 1", nil)
		}
		patch.PartySize = req.PartySize
	}
	if req.Date != nil {
		if _, err := time.Parse(DateLayout, *req.Date); err != nil {
			return patch, common.NewBadRequestError("reservation_date must be YYYY-MM-DD", err)
		}
		patch.Date = req.Date
	}
	if req.Time != nil {
		if _, ok := ClockMinutes(*req.Time); !ok {
			return patch, common.NewBadRequestError("reservation_time must be a time of day", nil)
		}
		t := strings.TrimSpace(*req.Time)
		patch.Time = &t
	}
	if req.Status != nil {
		status := Status(*req.Status)
		if !status.Valid() {
			return patch, common.NewBadRequestError("invalid reservation status", nil)
		}
		patch.Status = &status
	}
	patch.Email = req.Email
	patch.Phone = req.Phone
	patch.SpecialRequests = req.SpecialRequests
	patch.IsVIP = req.IsVIP
	return patch, nil
}

func (s *Service) notify(ctx context.Context, subject string, r *Reservation) {
	eventbus.Notify(ctx, s.publisher, subject, "reservations", eventbus.ReservationData{
		ReservationID: r.ID,
		Status:        string(r.Status),
		Date:          r.Date,
		NoShowCount:   r.NoShowCount,
	})
}

// OnDate keeps the reservations booked for date, in date and time order
func OnDate(reservations []Reservation, date string) []Reservation {
	out := make([]Reservation, 0, len(reservations))
	for _, r := range reservations {
		if r.Date == date {
			out = append(out, r)
		}
	}
	SortByDateTime(out)
	return out
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
