package reviews

import (
	"time"

	"github.com/richxcame/restaurant-backoffice/internal/sentiment"
)

// Review is a customer review with its suggested reply
type Review struct {
	ID           int64               `json:"id"`
	CustomerName string              `json:"customer_name"`
	Rating       int                 `json:"rating"`
	Content      string              `json:"content"`
	Sentiment    sentiment.Sentiment `json:"sentiment,omitempty"`
	AIReply      *string             `json:"ai_reply"`
	HasReplied   bool                `json:"has_replied"`
	CreatedAt    time.Time           `json:"created_at"`
}

// Clone returns a deep copy of r
func (r Review) Clone() Review {
	out := r
	if r.AIReply != nil {
		v := *r.AIReply
		out.AIReply = &v
	}
	return out
}

// NewReview holds the fields of a review before it is assigned an id
type NewReview struct {
	CustomerName string
	Rating       int
	Content      string
	Sentiment    sentiment.Sentiment
	AIReply      *string
	HasReplied   bool

	// CreatedAt backdates the record when set, as demo seeding does
	CreatedAt time.Time
}

// Patch lists the review fields that may change after creation
type Patch struct {
	Sentiment  *sentiment.Sentiment
	AIReply    *string
	HasReplied *bool
}

// CreateReviewRequest is the body of POST /reviews
type CreateReviewRequest struct {
	CustomerName string `json:"customer_name" validate:"required,max=100"`
	Rating       int    `json:"rating" validate:"required,gte=1,lte=5"`
	Content      string `json:"content" validate:"required,max=5000"`
}

// ReplyRequest is the body of PATCH /reviews/:id/reply
type ReplyRequest struct {
	UseAIReply  bool    `json:"use_ai_reply"`
	CustomReply *string `json:"custom_reply" validate:"omitempty,max=2000"`
}

// ========================================
// INSIGHTS
// ========================================

// ExternalInsight is what a language model reports about a review.
// Every field is optional.
type ExternalInsight struct {
	Sentiment      *string  `json:"sentiment"`
	SuggestedReply *string  `json:"suggestedReply"`
	Confidence     *float64 `json:"confidence"`
}

// Insight is the normalized sentiment and reply for a review
type Insight struct {
	Sentiment      sentiment.Sentiment `json:"sentiment"`
	SuggestedReply string              `json:"suggested_reply"`
	Confidence     float64             `json:"confidence"`
	Fallback       bool                `json:"-"`
}

// ========================================
// WEEKLY SUMMARY
// ========================================

// SummaryInput is the part of a review sent for summarization
type SummaryInput struct {
	Rating  int    `json:"rating"`
	Content string `json:"content"`
}

// ExternalSummary is what a language model reports for a week of reviews
type ExternalSummary struct {
	Summary             *string  `json:"summary"`
	PositiveHighlights  []string `json:"positiveHighlights"`
	AreasForImprovement []string `json:"areasForImprovement"`
}

// WeeklySummary describes the reviews of the last seven days
type WeeklySummary struct {
	Summary             string   `json:"summary"`
	PositiveHighlights  []string `json:"positive_highlights"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	ReviewCount         int      `json:"review_count"`
	AverageRating       float64  `json:"average_rating"`
	Fallback            bool     `json:"-"`
}
