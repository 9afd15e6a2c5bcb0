package reviews

import (
	"context"
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/richxcame/restaurant-backoffice/internal/scoring"
	"github.com/richxcame/restaurant-backoffice/internal/sentiment"
	"github.com/richxcame/restaurant-backoffice/pkg/logger"
	"go.uber.org/zap"
)

// DefaultReply is used when the model omits its suggested reply
const DefaultReply = "Thank you for your feedback!"

// DefaultConfidence is used when the model omits its confidence
const DefaultConfidence = 0.8

var errNoAnalyzer = errors.New("text analyzer not configured")

var insightsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "review_insights_total",
	Help: "Review insights by path (model or fallback)",
}, []string{"path"})

// InsightService classifies review sentiment and drafts a reply. It never fails:
// when the model is missing or errors, the keyword classifier answers instead.
type InsightService struct {
	analyzer TextAnalyzer
}

// NewInsightService creates a new insight service. analyzer may be nil.
func NewInsightService(analyzer TextAnalyzer) *InsightService {
	return &InsightService{analyzer: analyzer}
}

// Analyze returns the sentiment and suggested reply for text
func (s *InsightService) Analyze(ctx context.Context, text string) Insight {
	if s.analyzer == nil {
		return s.fallback(ctx, text, errNoAnalyzer)
	}

	ext, err := s.analyzer.AnalyzeReview(ctx, text)
	if err == nil && ext == nil {
		err = errors.New("text analyzer returned no result")
	}
	if err != nil {
		return s.fallback(ctx, text, err)
	}

	insight := Insight{
		Sentiment:      sentiment.Neutral,
		SuggestedReply: DefaultReply,
		Confidence:     DefaultConfidence,
	}
	if ext.Sentiment != nil {
		insight.Sentiment = sentiment.Parse(*ext.Sentiment)
	}
	if ext.SuggestedReply != nil && strings.TrimSpace(*ext.SuggestedReply) != "" {
		insight.SuggestedReply = strings.TrimSpace(*ext.SuggestedReply)
	}
	if ext.Confidence != nil {
		insight.Confidence = scoring.Clamp(*ext.Confidence)
	}

	insightsTotal.WithLabelValues("model").Inc()
	return insight
}

func (s *InsightService) fallback(ctx context.Context, text string, cause error) Insight {
	logger.WithContext(ctx).Warn("Review analysis unavailable, using keyword classifier", zap.Error(cause))
	insightsTotal.WithLabelValues("fallback").Inc()

	result := sentiment.Classify(text)
	return Insight{
		Sentiment:      result.Sentiment,
		SuggestedReply: result.SuggestedReply,
		Confidence:     result.Confidence,
		Fallback:       true,
	}
}
