package reservations

import "context"

// RepositoryInterface defines the repository methods for reservations
type RepositoryInterface interface {
	Create(ctx context.Context, r *NewReservation) (*Reservation, error)
	Get(ctx context.Context, id int64) (*Reservation, error)
	Update(ctx context.Context, id int64, patch Patch) (*Reservation, error)
	List(ctx context.Context) ([]Reservation, error)
}

// ConfirmationWriter drafts the confirmation message for a booking
type ConfirmationWriter interface {
	WriteConfirmation(ctx context.Context, r *Reservation) (string, error)
}
