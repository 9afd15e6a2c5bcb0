package reviews

import "context"

// RepositoryInterface defines the repository methods for reviews
type RepositoryInterface interface {
	Create(ctx context.Context, r *NewReview) (*Review, error)
	Get(ctx context.Context, id int64) (*Review, error)
	Update(ctx context.Context, id int64, patch Patch) (*Review, error)
	List(ctx context.Context) ([]Review, error)
}

// TextAnalyzer classifies a review and drafts a reply
type TextAnalyzer interface {
	AnalyzeReview(ctx context.Context, text string) (*ExternalInsight, error)
}

// SummaryGenerator writes a summary of a week of reviews
type SummaryGenerator interface {
	GenerateSummary(ctx context.Context, reviews []SummaryInput) (*ExternalSummary, error)
}
