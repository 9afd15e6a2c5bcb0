package reservations

import (
	"sort"
	"strings"
	"time"
)

// Status is where a reservation is in its lifecycle
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no-show"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// DateLayout is the calendar date format of reservation_date
const DateLayout = "2006-01-02"

// Reservation is a table booking
type Reservation struct {
	ID              int64     `json:"id"`
	CustomerName    string    `json:"customer_name"`
	Email           *string   `json:"email"`
	Phone           *string   `json:"phone"`
	PartySize       int       `json:"party_size"`
	Date            string    `json:"reservation_date"`
	Time            string    `json:"reservation_time"`
	Status          Status    `json:"status"`
	SpecialRequests *string   `json:"special_requests"`
	IsVIP           bool      `json:"is_vip"`
	NoShowCount     int       `json:"no_show_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// Clone returns a deep copy of r
func (r Reservation) Clone() Reservation {
	out := r
	out.Email = cloneString(r.Email)
	out.Phone = cloneString(r.Phone)
	out.SpecialRequests = cloneString(r.SpecialRequests)
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// NewReservation holds the fields of a reservation before it is assigned an id
type NewReservation struct {
	CustomerName    string
	Email           *string
	Phone           *string
	PartySize       int
	Date            string
	Time            string
	Status          Status
	SpecialRequests *string
	IsVIP           bool
	NoShowCount     int

	// CreatedAt backdates the record when set, as demo seeding does
	CreatedAt time.Time
}

// Patch lists the reservation fields that may change after creation
type Patch struct {
	CustomerName    *string
	Email           *string
	Phone           *string
	PartySize       *int
	Date            *string
	Time            *string
	Status          *Status
	SpecialRequests *string
	IsVIP           *bool
	NoShowCount     *int
}

// CreateReservationRequest is the body of POST /reservations
type CreateReservationRequest struct {
	CustomerName    string  `json:"customer_name" validate:"required,max=100"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Phone           *string `json:"phone" validate:"omitempty,phone"`
	PartySize       int     `json:"party_size" validate:"required,gte=1,lte=50"`
	Date            string  `json:"reservation_date" validate:"required,isodate"`
	Time            string  `json:"reservation_time" validate:"required,clock"`
	Status          *string `json:"status" validate:"omitempty,reservation_status"`
	SpecialRequests *string `json:"special_requests" validate:"omitempty,max=1000"`
	IsVIP           bool    `json:"is_vip"`
}

// UpdateReservationRequest is the body of PATCH /reservations/:id.
// no_show_count is not accepted; it only moves through status changes.
type UpdateReservationRequest struct {
	CustomerName    *string `json:"customer_name" validate:"omitempty,min=1,max=100"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Phone           *string `json:"phone" validate:"omitempty,phone"`
	PartySize       *int    `json:"party_size" validate:"omitempty,gte=1,lte=50"`
	Date            *string `json:"reservation_date" validate:"omitempty,isodate"`
	Time            *string `json:"reservation_time" validate:"omitempty,clock"`
	Status          *string `json:"status" validate:"omitempty,reservation_status"`
	SpecialRequests *string `json:"special_requests" validate:"omitempty,max=1000"`
	IsVIP           *bool   `json:"is_vip"`
}

// Empty reports whether the request changes nothing
func (r *UpdateReservationRequest) Empty() bool {
	return r.CustomerName == nil && r.Email == nil && r.Phone == nil &&
		r.PartySize == nil && r.Date == nil && r.Time == nil &&
		r.Status == nil && r.SpecialRequests == nil && r.IsVIP == nil
}

// Confirmed is a newly created reservation with the message sent to the guest
type Confirmed struct {
	*Reservation
	ConfirmationMessage string `json:"confirmation_message"`
}

// ========================================
// ORDERING
// ========================================

var clockLayouts = []string{"15:04", "3:04 PM", "3:04PM"}

// ClockMinutes converts "18:30" or "6:30 PM" to minutes after midnight
func ClockMinutes(clock string) (int, bool) {
	value := strings.ToUpper(strings.TrimSpace(clock))
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Hour()*60 + t.Minute(), true
		}
	}
	return 0, false
}

// SortByDateTime orders reservations by date, then time of day, then id.
// Unreadable times sort after readable ones on the same date.
func SortByDateTime(reservations []Reservation) {
	sort.SliceStable(reservations, func(i, j int) bool {
		a, b := reservations[i], reservations[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		am, aok := ClockMinutes(a.Time)
		bm, bok := ClockMinutes(b.Time)
		if aok != bok {
			return aok
		}
		if am != bm {
			return am < bm
		}
		return a.ID < b.ID
	})
}
