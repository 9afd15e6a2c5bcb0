package receipts

import (
	"context"
	"sort"
	"time"

	"github.com/richxcame/restaurant-backoffice/pkg/common"
	"github.com/richxcame/restaurant-backoffice/pkg/memstore"
)

// MemoryRepository keeps receipts in process memory
type MemoryRepository struct {
	store *memstore.Store[Receipt]
}

// NewMemoryRepository creates an empty in-memory receipts repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: memstore.New(Receipt.Clone)}
}

// Create stores a receipt under the next id
func (m *MemoryRepository) Create(ctx context.Context, in *NewReceipt) (*Receipt, error) {
	r := m.store.Insert(func(id int64, createdAt time.Time) Receipt {
		if !in.CreatedAt.IsZero() {
			createdAt = in.CreatedAt
		}
		out := Receipt{
			ID:              id,
			Filename:        in.Filename,
			OriginalName:    in.OriginalName,
			StorageKey:      in.StorageKey,
			MerchantName:    in.MerchantName,
			Amount:          in.Amount,
			TransactionDate: in.TransactionDate,
			Items:           in.Items,
			TrustScore:      in.TrustScore,
			FraudFlags:      in.FraudFlags,
			Confidence:      in.Confidence,
			TrustFactors:    in.TrustFactors,
			Status:          in.Status,
			CreatedAt:       createdAt,
		}.Clone()
		if out.Items == nil {
			out.Items = []string{}
		}
		if out.FraudFlags == nil {
			out.FraudFlags = []string{}
		}
		return out
	})
	return &r, nil
}

// Get returns the receipt with id or common.ErrNotFound
func (m *MemoryRepository) Get(ctx context.Context, id int64) (*Receipt, error) {
	r, ok := m.store.Get(id)
	if !ok {
		return nil, common.ErrNotFound
	}
	return &r, nil
}

// Update applies the non-nil fields of patch
func (m *MemoryRepository) Update(ctx context.Context, id int64, patch Patch) (*Receipt, error) {
	r, ok := m.store.Update(id, func(r *Receipt) {
		if patch.Status != nil {
			r.Status = *patch.Status
		}
		if patch.MerchantName != nil {
			v := *patch.MerchantName
			r.MerchantName = &v
		}
		if patch.Amount != nil {
			v := *patch.Amount
			r.Amount = &v
		}
	})
	if !ok {
		return nil, common.ErrNotFound
	}
	return &r, nil
}

// List returns every receipt, newest first
func (m *MemoryRepository) List(ctx context.Context) ([]Receipt, error) {
	receipts := m.store.List()
	sort.SliceStable(receipts, func(i, j int) bool {
		if receipts[i].CreatedAt.Equal(receipts[j].CreatedAt) {
			return receipts[i].ID > receipts[j].ID
		}
		return receipts[i].CreatedAt.After(receipts[j].CreatedAt)
	})
	return receipts, nil
}

// WithClock overrides the creation timestamp source, used by seeding and tests
func (m *MemoryRepository) WithClock(now func() time.Time) *MemoryRepository {
	m.store.WithClock(now)
	return m
}
