package dashboard

import (
	"time"

	"github.com/richxcame/restaurant-backoffice/internal/receipts"
	"github.com/richxcame/restaurant-backoffice/internal/reservations"
	"github.com/richxcame/restaurant-backoffice/internal/reviews"
	"github.com/richxcame/restaurant-backoffice/internal/scoring"
)

// Stats are the headline numbers shown on the back-office dashboard
type Stats struct {
	ReceiptsProcessed  int       `json:"receipts_processed"`
	TrustScore         float64   `json:"trust_score"`
	AverageReviewScore float64   `json:"average_review_score"`
	TotalReviews       int       `json:"total_reviews"`
	TodayReservations  int       `json:"today_reservations"`
	ReviewsLastWeek    int       `json:"reviews_last_week"`
	FlaggedReceipts    int       `json:"flagged_receipts"`
	PendingReplies     int       `json:"pending_replies"`
	GeneratedAt        time.Time `json:"generated_at"`
}

// Compute derives the dashboard numbers. Averages over nothing are 0.
func Compute(rcpts []receipts.Receipt, revs []reviews.Review, bookings []reservations.Reservation, now time.Time) Stats {
	stats := Stats{
		ReceiptsProcessed: len(rcpts),
		TotalReviews:      len(revs),
		GeneratedAt:       now,
	}

	var trustSum float64
	for _, r := range rcpts {
		trustSum += r.TrustScore
		if r.Status == scoring.StatusFlagged {
			stats.FlaggedReceipts++
		}
	}
	if len(rcpts) > 0 {
		stats.TrustScore = trustSum / float64(len(rcpts))
	}

	var ratingSum int
	for _, r := range revs {
		ratingSum += r.Rating
		if !r.HasReplied {
			stats.PendingReplies++
		}
	}
	if len(revs) > 0 {
		stats.AverageReviewScore = float64(ratingSum) / float64(len(revs))
	}
	stats.ReviewsLastWeek = len(reviews.RecentReviews(revs, now, reviews.SummaryWindow))

	stats.TodayReservations = len(reservations.OnDate(bookings, now.Format(reservations.DateLayout)))

	return stats
}
