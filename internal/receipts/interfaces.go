package receipts

import "context"

// RepositoryInterface defines the repository methods for receipts
type RepositoryInterface interface {
	Create(ctx context.Context, r *NewReceipt) (*Receipt, error)
	Get(ctx context.Context, id int64) (*Receipt, error)
	Update(ctx context.Context, id int64, patch Patch) (*Receipt, error)
	List(ctx context.Context) ([]Receipt, error)
}

// VisionAnalyzer extracts receipt details from an image
type VisionAnalyzer interface {
	AnalyzeReceipt(ctx context.Context, image []byte, contentType string) (*ExternalAnalysis, error)
}
