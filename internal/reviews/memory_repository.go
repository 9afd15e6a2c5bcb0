package reviews

import (
	"context"
	"sort"
	"time"

	"github.com/richxcame/restaurant-backoffice/pkg/common"
	"github.com/richxcame/restaurant-backoffice/pkg/memstore"
)

// MemoryRepository keeps reviews in process memory
type MemoryRepository struct {
	store *memstore.Store[Review]
}

// NewMemoryRepository creates an empty in-memory reviews repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: memstore.New(Review.Clone)}
}

// WithClock overrides the creation timestamp source
func (m *MemoryRepository) WithClock(now func() time.Time) *MemoryRepository {
	m.store.WithClock(now)
	return m
}

// Create stores a review under the next id
func (m *MemoryRepository) Create(ctx context.Context, in *NewReview) (*Review, error) {
	r := m.store.Insert(func(id int64, createdAt time.Time) Review {
		if !in.CreatedAt.IsZero() {
			createdAt = in.CreatedAt
		}
		return Review{
			ID:           id,
			CustomerName: in.CustomerName,
			Rating:       in.Rating,
			Content:      in.Content,
			Sentiment:    in.Sentiment,
			AIReply:      in.AIReply,
			HasReplied:   in.HasReplied,
			CreatedAt:    createdAt,
		}
	})
	return &r, nil
}

// Get returns the review with id or common.ErrNotFound
func (m *MemoryRepository) Get(ctx context.Context, id int64) (*Review, error) {
	r, ok := m.store.Get(id)
	if !ok {
		return nil, common.ErrNotFound
	}
	return &r, nil
}

// Update applies the non-nil fields of patch
func (m *MemoryRepository) Update(ctx context.Context, id int64, patch Patch) (*Review, error) {
	r, ok := m.store.Update(id, func(r *Review) {
		if patch.Sentiment != nil {
			r.Sentiment = *patch.Sentiment
		}
		if patch.AIReply != nil {
			v := *patch.AIReply
			r.AIReply = &v
		}
		if patch.HasReplied != nil {
			r.HasReplied = *patch.HasReplied
		}
	})
	if !ok {
		return nil, common.ErrNotFound
	}
	return &r, nil
}

// List returns every review, newest first
func (m *MemoryRepository) List(ctx context.Context) ([]Review, error) {
	reviews := m.store.List()
	sort.SliceStable(reviews, func(i, j int) bool {
		if reviews[i].CreatedAt.Equal(reviews[j].CreatedAt) {
			return reviews[i].ID > reviews[j].ID
		}
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return reviews, nil
}
