package reservations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockConfirmationWriter implements ConfirmationWriter for testing
type MockConfirmationWriter struct {
	mock.Mock
}

func (m *MockConfirmationWriter) WriteConfirmation(ctx context.Context, r *Reservation) (string, error) {
	args := m.Called(ctx, r)
	return args.String(0), args.Error(1)
}

func johnsonParty() *Reservation {
	return &Reservation{ID: 1, CustomerName: "Johnson Party", PartySize: 4, Date: "2024-06-01", Time: "6:30 PM"}
}

func TestFallbackConfirmation(t *testing.T) {
	assert.Equal(t,
		"Dear Johnson Party, your reservation for 4 people on 2024-06-01 at 6:30 PM has been confirmed. We look forward to welcoming you to our restaurant!",
		FallbackConfirmation(johnsonParty()))
}

func TestCompose(t *testing.T) {
	tests := []struct {
		name             string
		message          string
		err              error
		expectedFallback bool
	}{
		{"model message", "  See you Saturday, Johnson Party!  ", nil, false},
		{"model error", "", errors.New("timeout"), true},
		{"blank message", "   ", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := new(MockConfirmationWriter)
			r := johnsonParty()
			writer.On("WriteConfirmation", mock.Anything, r).Return(tt.message, tt.err)

			c := NewConfirmationService(writer).Compose(context.Background(), r)

			assert.Equal(t, tt.expectedFallback, c.Fallback)
			if tt.expectedFallback {
				assert.Equal(t, FallbackConfirmation(r), c.Message)
			} else {
				assert.Equal(t, "See you Saturday, Johnson Party!", c.Message)
			}
			writer.AssertExpectations(t)
		})
	}
}

func TestCompose_NoWriter(t *testing.T) {
	c := NewConfirmationService(nil).Compose(context.Background(), johnsonParty())

	assert.True(t, c.Fallback)
	assert.Contains(t, c.Message, "Dear Johnson Party")
}
