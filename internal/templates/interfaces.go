package templates

import "context"

// RepositoryInterface defines the repository methods for response templates
type RepositoryInterface interface {
	Create(ctx context.Context, t *NewTemplate) (*Template, error)
	Get(ctx context.Context, id int64) (*Template, error)
	Update(ctx context.Context, id int64, patch Patch) (*Template, error)
	List(ctx context.Context) ([]Template, error)
}
