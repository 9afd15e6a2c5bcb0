package reservations

import (
	"context"
	"time"

	"github.com/richxcame/restaurant-backoffice/pkg/common"
	"github.com/richxcame/restaurant-backoffice/pkg/memstore"
)

// MemoryRepository keeps reservations in process memory
type MemoryRepository struct {
	store *memstore.Store[Reservation]
}

// NewMemoryRepository creates an empty in-memory reservations repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: memstore.New(Reservation.Clone)}
}

// WithClock overrides the creation timestamp source
func (m *MemoryRepository) WithClock(now func() time.Time) *MemoryRepository {
	m.store.WithClock(now)
	return m
}

// Create stores a reservation under the next id
func (m *MemoryRepository) Create(ctx context.Context, in *NewReservation) (*Reservation, error) {
	r := m.store.Insert(func(id int64, createdAt time.Time) Reservation {
		if !in.CreatedAt.IsZero() {
			createdAt = in.CreatedAt
		}
		status := in.Status
		if status == "" {
			status = StatusConfirmed
		}
		return Reservation{
			ID:              id,
			CustomerName:    in.CustomerName,
			Email:           in.Email,
			Phone:           in.Phone,
			PartySize:       in.PartySize,
			Date:            in.Date,
			Time:            in.Time,
			Status:          status,
			SpecialRequests: in.SpecialRequests,
			IsVIP:           in.IsVIP,
			NoShowCount:     in.NoShowCount,
			CreatedAt:       createdAt,
		}
	})
	return &r, nil
}

// Get returns the reservation with id or common.ErrNotFound
func (m *MemoryRepository) Get(ctx context.Context, id int64) (*Reservation, error) {
	r, ok := m.store.Get(id)
	if !ok {
		return nil, common.ErrNotFound
	}
	return &r, nil
}

// Update applies the non-nil fields of patch
func (m *MemoryRepository) Update(ctx context.Context, id int64, patch Patch) (*Reservation, error) {
	r, ok := m.store.Update(id, func(r *Reservation) {
		if patch.CustomerName != nil {
			r.CustomerName = *patch.CustomerName
		}
		if patch.Email != nil {
			r.Email = cloneString(patch.Email)
		}
		if patch.Phone != nil {
			r.Phone = cloneString(patch.Phone)
		}
		if patch.PartySize != nil {
			r.PartySize = *patch.PartySize
		}
		if patch.Date != nil {
			r.Date = *patch.Date
		}
		if patch.Time != nil {
			r.Time = *patch.Time
		}
		if patch.Status != nil {
			r.Status = *patch.Status
		}
		if patch.SpecialRequests != nil {
			r.SpecialRequests = cloneString(patch.SpecialRequests)
		}
		if patch.IsVIP != nil {
			r.IsVIP = *patch.IsVIP
		}
		if patch.NoShowCount != nil {
			r.NoShowCount = *patch.NoShowCount
		}
	})
	if !ok {
		return nil, common.ErrNotFound
	}
	return &r, nil
}

// List returns every reservation ordered by date and time of day
func (m *MemoryRepository) List(ctx context.Context) ([]Reservation, error) {
	reservations := m.store.List()
	SortByDateTime(reservations)
	return reservations, nil
}
