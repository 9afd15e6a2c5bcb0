package reservations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClockMinutes(t *testing.T) {
	tests := []struct {
		input    string
		expected int
		ok       bool
	}{
		{"18:30", 18*60 + 30, true},
		{"6:30 PM", 18*60 + 30, true},
		{"6:30pm", 18*60 + 30, true},
		{"12:15 AM", 15, true},
		{"12:00 PM", 12 * 60, true},
		{"07:05", 7*60 + 5, true},
		{"evening", 0, false},
		{"25:00", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			minutes, ok := ClockMinutes(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, minutes)
		})
	}
}

func TestSortByDateTime(t *testing.T) {
	reservations := []Reservation{
		{ID: 1, Date: "2024-06-02", Time: "6:00 PM"},
		{ID: 2, Date: "2024-06-01", Time: "8:00 PM"},
		{ID: 3, Date: "2024-06-01", Time: "19:00"},
		{ID: 4, Date: "2024-06-01", Time: "whenever"},
		{ID: 5, Date: "2024-06-01", Time: "6:30 PM"},
		{ID: 6, Date: "2024-06-01", Time: "18:30"},
	}

	SortByDateTime(reservations)

	ids := make([]int64, len(reservations))
	for i, r := range reservations {
		ids[i] = r.ID
	}
	assert.Equal(t, []int64{5, 6, 3, 2, 4, 1}, ids)
}

func TestOnDate(t *testing.T) {
	reservations := []Reservation{
		{ID: 1, Date: "2024-06-01", Time: "8:00 PM"},
		{ID: 2, Date: "2024-06-02", Time: "6:00 PM"},
		{ID: 3, Date: "2024-06-01", Time: "6:30 PM"},
	}

	today := OnDate(reservations, "2024-06-01")

	if assert.Len(t, today, 2) {
		assert.Equal(t, int64(3), today[0].ID)
		assert.Equal(t, int64(1), today[1].ID)
	}
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range []Status{StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("noShow").Valid())
	assert.False(t, Status("").Valid())
}

func TestReservation_Clone(t *testing.T) {
	phone := "+15550100"
	original := Reservation{ID: 1, Phone: &phone}

	clone := original.Clone()
	*clone.Phone = "+15550199"

	assert.Equal(t, "+15550100", *original.Phone)
}
