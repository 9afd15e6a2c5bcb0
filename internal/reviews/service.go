package reviews

import (
	"context"
	"strings"
	"time"

	"github.com/richxcame/restaurant-backoffice/pkg/common"
	"github.com/richxcame/restaurant-backoffice/pkg/eventbus"
	"github.com/richxcame/restaurant-backoffice/pkg/logger"
	"go.uber.org/zap"
)

// SummaryWindow is how far back the weekly summary looks
const SummaryWindow = 7 * 24 * time.Hour

// Service handles review business logic
type Service struct {
	repo      RepositoryInterface
	insights  *InsightService
	summaries *SummaryService
	publisher eventbus.Publisher
	now       func() time.Time
}

// NewService creates a new reviews service. publisher may be nil.
func NewService(repo RepositoryInterface, insights *InsightService, summaries *SummaryService, publisher eventbus.Publisher) *Service {
	return &Service{
		repo:      repo,
		insights:  insights,
		summaries: summaries,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ========================================
// REVIEWS
// ========================================

// CreateReview analyses a new review and stores it with its suggested reply
func (s *Service) CreateReview(ctx context.Context, req *CreateReviewRequest) (*Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, common.NewBadRequestError("rating must be between 1 and 5", nil)
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, common.NewBadRequestError("content is required", nil)
	}

	insight := s.insights.Analyze(ctx, content)
	reply := insight.SuggestedReply

	review, err := s.repo.Create(ctx, &NewReview{
		CustomerName: strings.TrimSpace(req.CustomerName),
		Rating:       req.Rating,
		Content:      content,
		Sentiment:    insight.Sentiment,
		AIReply:      &reply,
	})
	if err != nil {
		return nil, common.NewInternalError("failed to create review", err)
	}

	logger.WithContext(ctx).Info("Review created",
		zap.Int64("review_id", review.ID),
		zap.Int("rating", review.Rating),
		zap.String("sentiment", string(review.Sentiment)),
		zap.Bool("fallback", insight.Fallback),
	)

	eventbus.Notify(ctx, s.publisher, eventbus.SubjectReviewCreated, "reviews", eventbus.ReviewCreatedData{
		ReviewID:  review.ID,
		Rating:    review.Rating,
		Sentiment: string(review.Sentiment),
	})

	return review, nil
}

// GetReview returns a review by id
func (s *Service) GetReview(ctx context.Context, id int64) (*Review, error) {
	review, err := s.repo.Get(ctx, id)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, common.NewNotFoundError("review not found", err)
		}
		return nil, common.NewInternalError("failed to get review", err)
	}
	return review, nil
}

// ListReviews returns every review, newest first
func (s *Service) ListReviews(ctx context.Context) ([]Review, error) {
	reviews, err := s.repo.List(ctx)
	if err != nil {
		return nil, common.NewInternalError("failed to list reviews", err)
	}
	if reviews == nil {
		reviews = []Review{}
	}
	return reviews, nil
}

// ListNeedingReply returns the reviews nobody has answered yet
func (s *Service) ListNeedingReply(ctx context.Context) ([]Review, error) {
	reviews, err := s.ListReviews(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		if !r.HasReplied {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

// Reply marks a review as answered. A custom reply replaces the suggested one.
func (s *Service) Reply(ctx context.Context, id int64, req *ReplyRequest) (*Review, error) {
	var custom string
	if req.CustomReply != nil {
		custom = strings.TrimSpace(*req.CustomReply)
	}
	if !req.UseAIReply && custom == "" {
		return nil, common.NewBadRequestError("custom_reply is required when use_ai_reply is false", nil)
	}

	replied := true
	patch := Patch{HasReplied: &replied}
	if custom != "" {
		patch.AIReply = &custom
	}

	review, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, common.NewNotFoundError("review not found", err)
		}
		return nil, common.NewInternalError("failed to update review reply", err)
	}

	eventbus.Notify(ctx, s.publisher, eventbus.SubjectReviewReplied, "reviews", eventbus.ReviewCreatedData{
		ReviewID:  review.ID,
		Rating:    review.Rating,
		Sentiment: string(review.Sentiment),
	})

	return review, nil
}

// ========================================
// ANALYTICS
// ========================================

// WeeklySummary summarizes the reviews created in the last seven days
func (s *Service) WeeklySummary(ctx context.Context) (*WeeklySummary, error) {
	reviews, err := s.ListReviews(ctx)
	if err != nil {
		return nil, err
	}

	return s.summaries.Generate(ctx, RecentReviews(reviews, s.now(), SummaryWindow)), nil
}

// RecentReviews keeps the reviews created after now minus window
func RecentReviews(reviews []Review, now time.Time, window time.Duration) []Review {
	cutoff := now.Add(-window)
	recent := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		if r.CreatedAt.After(cutoff) {
			recent = append(recent, r)
		}
	}
	return recent
}
