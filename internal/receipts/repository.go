package receipts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/richxcame/restaurant-backoffice/internal/scoring"
	"github.com/richxcame/restaurant-backoffice/pkg/common"
	"github.com/richxcame/restaurant-backoffice/pkg/database"
)

// Shared column list for receipt queries
const receiptColumns = `id, filename, original_name, storage_key, merchant_name, amount,
	transaction_date, items, trust_score, fraud_flags, confidence, trust_factors,
	status, created_at`

// Repository handles receipt data access on a SQL database
type Repository struct {
	db  *database.DB
	now func() time.Time
}

// NewRepository creates a new receipts repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// scanReceipt scans a row into a Receipt
func scanReceipt(scan func(dest ...interface{}) error) (*Receipt, error) {
	var (
		r            Receipt
		storageKey   sql.NullString
		merchant     sql.NullString
		amount       sql.NullFloat64
		txDate       sql.NullTime
		items        sql.NullString
		flags        sql.NullString
		trustFactors sql.NullString
		status       string
	)

	err := scan(
		&r.ID, &r.Filename, &r.OriginalName, &storageKey, &merchant, &amount,
		&txDate, &items, &r.TrustScore, &flags, &r.Confidence, &trustFactors,
		&status, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.StorageKey = storageKey.String
	r.MerchantName = database.StringPtr(merchant)
	r.Amount = database.FloatPtr(amount)
	r.TransactionDate = database.TimePtr(txDate)
	r.Status = scoring.ReceiptStatus(status)
	r.CreatedAt = r.CreatedAt.UTC()

	if err := database.ScanJSON(items, &r.Items); err != nil {
		return nil, err
	}
	if err := database.ScanJSON(flags, &r.FraudFlags); err != nil {
		return nil, err
	}
	if trustFactors.Valid && trustFactors.String != "" {
		var tf scoring.TrustFactors
		if err := database.ScanJSON(trustFactors, &tf); err != nil {
			return nil, err
		}
		r.TrustFactors = &tf
	}
	if r.Items == nil {
		r.Items = []string{}
	}
	if r.FraudFlags == nil {
		r.FraudFlags = []string{}
	}

	return &r, nil
}

// Create inserts a receipt and returns it with its assigned id
func (r *Repository) Create(ctx context.Context, in *NewReceipt) (*Receipt, error) {
	items, err := database.JSONText(in.Items)
	if err != nil {
		return nil, err
	}
	flags, err := database.JSONText(in.FraudFlags)
	if err != nil {
		return nil, err
	}
	var factors sql.NullString
	if in.TrustFactors != nil {
		text, err := database.JSONText(in.TrustFactors)
		if err != nil {
			return nil, err
		}
		factors = sql.NullString{String: text, Valid: true}
	}

	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}
	query := r.db.Rebind(`
		INSERT INTO receipts (
			filename, original_name, storage_key, merchant_name, amount,
			transaction_date, items, trust_score, fraud_flags, confidence,
			trust_factors, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	var id int64
	err = r.db.QueryRowContext(ctx, query,
		in.Filename, in.OriginalName, in.StorageKey,
		database.NullString(in.MerchantName), database.NullFloat(in.Amount),
		database.NullTime(in.TransactionDate), items, in.TrustScore, flags,
		in.Confidence, factors, string(in.Status), createdAt,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert receipt: %w", err)
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
	}
	out = out.Clone()
	if out.Items == nil {
		out.Items = []string{}
	}
	if out.FraudFlags == nil {
		out.FraudFlags = []string{}
	}
	return &out, nil
}

// Get returns the receipt with id or common.ErrNotFound
func (r *Repository) Get(ctx context.Context, id int64) (*Receipt, error) {
	query := r.db.Rebind(`SELECT ` + receiptColumns + ` FROM receipts WHERE id = ?`)

	receipt, err := scanReceipt(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("get receipt: %w", err)
	}
	return receipt, nil
}

// Update applies the non-nil fields of patch
func (r *Repository) Update(ctx context.Context, id int64, patch Patch) (*Receipt, error) {
	var (
		sets []string
		args []interface{}
	)
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*patch.Status))
	}
	if patch.MerchantName != nil {
		sets = append(sets, "merchant_name = ?")
		args = append(args, *patch.MerchantName)
	}
	if patch.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *patch.Amount)
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}

	args = append(args, id)
	query := r.db.Rebind(`UPDATE receipts SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update receipt: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update receipt: %w", err)
	}
	if affected == 0 {
		return nil, common.ErrNotFound
	}

	return r.Get(ctx, id)
}

// List returns every receipt, newest first
func (r *Repository) List(ctx context.Context) ([]Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	receipts := make([]Receipt, 0)
	for rows.Next() {
		receipt, err := scanReceipt(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		receipts = append(receipts, *receipt)
	}
	return receipts, rows.Err()
}
