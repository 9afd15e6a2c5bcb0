package reservations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/richxcame/restaurant-backoffice/pkg/common"
	"github.com/richxcame/restaurant-backoffice/pkg/database"
)

const reservationColumns = `id, customer_name, email, phone, party_size, reservation_date, reservation_time,
	status, special_requests, is_vip, no_show_count, created_at`

// Repository handles reservation data access on a SQL database
type Repository struct {
	db  *database.DB
	now func() time.Time
}

// NewRepository creates a new reservations repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func scanReservation(scan func(dest ...interface{}) error) (*Reservation, error) {
	var (
		r               Reservation
		email           sql.NullString
		phone           sql.NullString
		specialRequests sql.NullString
	)
	err := scan(
		&r.ID, &r.CustomerName, &email, &phone, &r.PartySize, &r.Date, &r.Time,
		&r.Status, &specialRequests, &r.IsVIP, &r.NoShowCount, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Email = database.StringPtr(email)
	r.Phone = database.StringPtr(phone)
	r.SpecialRequests = database.StringPtr(specialRequests)
	r.CreatedAt = r.CreatedAt.UTC()
	return &r, nil
}

// Create inserts a reservation and returns it with its assigned id
func (r *Repository) Create(ctx context.Context, in *NewReservation) (*Reservation, error) {
	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}
	status := in.Status
	if status == "" {
		status = StatusConfirmed
	}

	query := r.db.Rebind(`
		INSERT INTO reservations (customer_name, email, phone, party_size, reservation_date, reservation_time,
			status, special_requests, is_vip, no_show_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		in.CustomerName, database.NullString(in.Email), database.NullString(in.Phone),
		in.PartySize, in.Date, in.Time, string(status),
		database.NullString(in.SpecialRequests), in.IsVIP, in.NoShowCount, createdAt,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert reservation: %w", err)
	}

	out := Reservation{
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
	}.Clone()
	return &out, nil
}

// Get returns the reservation with id or common.ErrNotFound
func (r *Repository) Get(ctx context.Context, id int64) (*Reservation, error) {
	query := r.db.Rebind(`SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`)

	reservation, err := scanReservation(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return reservation, nil
}

// Update applies the non-nil fields of patch
func (r *Repository) Update(ctx context.Context, id int64, patch Patch) (*Reservation, error) {
	var (
		sets []string
		args []interface{}
	)
	set := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if patch.CustomerName != nil {
		set("customer_name", *patch.CustomerName)
	}
	if patch.Email != nil {
		set("email", *patch.Email)
	}
	if patch.Phone != nil {
		set("phone", *patch.Phone)
	}
	if patch.PartySize != nil {
		set("party_size", *patch.PartySize)
	}
	if patch.Date != nil {
		set("reservation_date", *patch.Date)
	}
	if patch.Time != nil {
		set("reservation_time", *patch.Time)
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	if patch.SpecialRequests != nil {
		set("special_requests", *patch.SpecialRequests)
	}
	if patch.IsVIP != nil {
		set("is_vip", *patch.IsVIP)
	}
	if patch.NoShowCount != nil {
		set("no_show_count", *patch.NoShowCount)
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}

	args = append(args, id)
	query := r.db.Rebind(`UPDATE reservations SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update reservation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update reservation: %w", err)
	}
	if affected == 0 {
		return nil, common.ErrNotFound
	}

	return r.Get(ctx, id)
}

// List returns every reservation ordered by date and time of day
func (r *Repository) List(ctx context.Context) ([]Reservation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+reservationColumns+` FROM reservations ORDER BY reservation_date, id`)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	reservations := make([]Reservation, 0)
	for rows.Next() {
		reservation, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, *reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Times are stored as written ("6:30 PM" or "18:30") so they sort here
	SortByDateTime(reservations)
	return reservations, nil
}
