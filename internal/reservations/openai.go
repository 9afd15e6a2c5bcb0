package reservations

import (
	"context"
	"fmt"
	"strings"

	"github.com/richxcame/restaurant-backoffice/pkg/llm"
)

const confirmationSystemPrompt = `You are a friendly restaurant host writing booking confirmations.

Write a short, warm and personal confirmation message that thanks the guest, repeats the party size, date and time, and mentions any special requests. Keep it under 80 words.

Respond with JSON in this format:
{
  "message": "confirmation text"
}`

// OpenAIWriter implements ConfirmationWriter with a chat model
type OpenAIWriter struct {
	client *llm.Client
}

// NewOpenAIWriter creates a new confirmation writer
func NewOpenAIWriter(client *llm.Client) *OpenAIWriter {
	return &OpenAIWriter{client: client}
}

// WriteConfirmation asks the model for a personalised confirmation
func (w *OpenAIWriter) WriteConfirmation(ctx context.Context, r *Reservation) (string, error) {
	details := []string{
		fmt.Sprintf("Guest: %s", r.CustomerName),
		fmt.Sprintf("Party size: %d", r.PartySize),
		fmt.Sprintf("Date: %s", r.Date),
		fmt.Sprintf("Time: %s", r.Time),
	}
	if r.SpecialRequests != nil && *r.SpecialRequests != "" {
		details = append(details, fmt.Sprintf("Special requests: %s", *r.SpecialRequests))
	}
	if r.IsVIP {
		details = append(details, "The guest is a VIP.")
	}

	var result struct {
		Message string `json:"message"`
	}
	err := w.client.CompleteJSON(ctx, llm.Request{
		Operation:    "booking_confirmation",
		SystemPrompt: confirmationSystemPrompt,
		UserPrompt:   "Write a booking confirmation for this reservation:\n\n" + strings.Join(details, "\n"),
		MaxTokens:    300,
	}, &result)
	if err != nil {
		return "", err
	}
	return result.Message, nil
}
