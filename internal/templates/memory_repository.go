package templates

import (
	"context"
	"time"

	"github.com/richxcame/restaurant-backoffice/pkg/common"
	"github.com/richxcame/restaurant-backoffice/pkg/memstore"
)

// MemoryRepository keeps response templates in process memory
type MemoryRepository struct {
	store *memstore.Store[Template]
}

// NewMemoryRepository creates an empty in-memory templates repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: memstore.New(Template.Clone)}
}

// Create stores a template under the next id
func (m *MemoryRepository) Create(ctx context.Context, in *NewTemplate) (*Template, error) {
	t := m.store.Insert(func(id int64, createdAt time.Time) Template {
		if !in.CreatedAt.IsZero() {
			createdAt = in.CreatedAt
		}
		return Template{
			ID:        id,
			Name:      in.Name,
			Category:  in.Category,
			Template:  in.Template,
			IsActive:  in.IsActive,
			CreatedAt: createdAt,
		}
	})
	return &t, nil
}

// Get returns the template with id or common.ErrNotFound
func (m *MemoryRepository) Get(ctx context.Context, id int64) (*Template, error) {
	t, ok := m.store.Get(id)
	if !ok {
		return nil, common.ErrNotFound
	}
	return &t, nil
}

// Update applies the non-nil fields of patch
func (m *MemoryRepository) Update(ctx context.Context, id int64, patch Patch) (*Template, error) {
	t, ok := m.store.Update(id, func(t *Template) {
		if patch.Name != nil {
			t.Name = *patch.Name
		}
		if patch.Category != nil {
			t.Category = *patch.Category
		}
		if patch.Template != nil {
			t.Template = *patch.Template
		}
		if patch.IsActive != nil {
			t.IsActive = *patch.IsActive
		}
	})
	if !ok {
		return nil, common.ErrNotFound
	}
	return &t, nil
}

// List returns every template by id
func (m *MemoryRepository) List(ctx context.Context) ([]Template, error) {
	return m.store.List(), nil
}
