package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/richxcame/restaurant-backoffice/pkg/logger"
	"go.uber.org/zap"
)

// DefaultSummary is used when the model omits the summary paragraph
const DefaultSummary = "Great week overall!"

const (
	emptyWeekSummary    = "No reviews this week. Focus on encouraging satisfied customers to share their experiences!"
	greatWeekTone       = "Your customers are loving their experience!"
	goodWeekTone        = "Good feedback overall with room for improvement."
	challengingWeekTone = "Some challenges this week, but every review is a learning opportunity."
)

var errNoGenerator = errors.New("summary generator not configured")

var summariesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "review_summaries_total",
	Help: "Weekly summaries by path (model, fallback or empty)",
}, []string{"path"})

// SummaryService summarizes a week of reviews. It never fails.
type SummaryService struct {
	generator SummaryGenerator
}

// NewSummaryService creates a new summary service. generator may be nil.
func NewSummaryService(generator SummaryGenerator) *SummaryService {
	return &SummaryService{generator: generator}
}

// Generate summarizes reviews. An empty week is answered locally.
func (s *SummaryService) Generate(ctx context.Context, reviews []Review) *WeeklySummary {
	if len(reviews) == 0 {
		summariesTotal.WithLabelValues("empty").Inc()
		return FallbackSummary(nil)
	}
	if s.generator == nil {
		return s.fallback(ctx, reviews, errNoGenerator)
	}

	inputs := make([]SummaryInput, len(reviews))
	for i, r := range reviews {
		inputs[i] = SummaryInput{Rating: r.Rating, Content: r.Content}
	}

	ext, err := s.generator.GenerateSummary(ctx, inputs)
	if err == nil && ext == nil {
		err = errors.New("summary generator returned no result")
	}
	if err != nil {
		return s.fallback(ctx, reviews, err)
	}

	summary := &WeeklySummary{
		Summary:             DefaultSummary,
		PositiveHighlights:  nonEmpty(ext.PositiveHighlights),
		AreasForImprovement: nonEmpty(ext.AreasForImprovement),
		ReviewCount:         len(reviews),
		AverageRating:       averageRating(reviews),
	}
	if ext.Summary != nil && strings.TrimSpace(*ext.Summary) != "" {
		summary.Summary = strings.TrimSpace(*ext.Summary)
	}

	summariesTotal.WithLabelValues("model").Inc()
	return summary
}

func (s *SummaryService) fallback(ctx context.Context, reviews []Review, cause error) *WeeklySummary {
	logger.WithContext(ctx).Warn("Weekly summary generation unavailable, using local summary", zap.Error(cause))
	summariesTotal.WithLabelValues("fallback").Inc()
	return FallbackSummary(reviews)
}

// FallbackSummary builds a summary from rating counts alone
func FallbackSummary(reviews []Review) *WeeklySummary {
	out := &WeeklySummary{ReviewCount: len(reviews), Fallback: true}

	if len(reviews) == 0 {
		out.Summary = emptyWeekSummary
		out.PositiveHighlights = []string{"Opportunity to focus on customer experience improvements"}
		out.AreasForImprovement = []string{
			"Encourage more customers to leave reviews",
			"Consider implementing a review collection strategy",
		}
		return out
	}

	avg := averageRating(reviews)
	out.AverageRating = avg

	tone := challengingWeekTone
	switch {
	case avg >= 4:
		tone = greatWeekTone
	case avg >= 3:
		tone = goodWeekTone
	}
	out.Summary = fmt.Sprintf("This week you received %s with an average rating of %.1f stars. %s",
		plural(len(reviews), "review"), avg, tone)

	var positive, negative int
	for _, r := range reviews {
		if r.Rating >= 4 {
			positive++
		}
		if r.Rating <= 2 {
			negative++
		}
	}

	if positive > 0 {
		out.PositiveHighlights = []string{
			fmt.Sprintf("%s (4+ stars)", plural(positive, "positive review")),
			"Customers appreciated your service",
		}
	} else {
		out.PositiveHighlights = []string{"Opportunity to focus on customer experience improvements"}
	}

	if negative > 0 {
		out.AreasForImprovement = []string{
			fmt.Sprintf("%s below 3 stars - consider following up", plural(negative, "review")),
			"Monitor common themes in feedback",
		}
	} else {
		out.AreasForImprovement = []string{"Keep up the excellent work!"}
	}

	return out
}

func averageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
