package reviews

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/richxcame/restaurant-backoffice/internal/sentiment"
	"github.com/richxcame/restaurant-backoffice/pkg/common"
	"github.com/richxcame/restaurant-backoffice/pkg/database"
)

const reviewColumns = `id, customer_name, rating, content, sentiment, ai_reply, has_replied, created_at`

// Repository handles review data access on a SQL database
type Repository struct {
	db  *database.DB
	now func() time.Time
}

// NewRepository creates a new reviews repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func scanReview(scan func(dest ...interface{}) error) (*Review, error) {
	var (
		r       Review
		label   sql.NullString
		aiReply sql.NullString
	)
	if err := scan(&r.ID, &r.CustomerName, &r.Rating, &r.Content, &label, &aiReply, &r.HasReplied, &r.CreatedAt); err != nil {
		return nil, err
	}
	if label.Valid {
		r.Sentiment = sentiment.Sentiment(label.String)
	}
	r.AIReply = database.StringPtr(aiReply)
	r.CreatedAt = r.CreatedAt.UTC()
	return &r, nil
}

// Create inserts a review and returns it with its assigned id
func (r *Repository) Create(ctx context.Context, in *NewReview) (*Review, error) {
	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}

	var label sql.NullString
	if in.Sentiment != "" {
		label = sql.NullString{String: string(in.Sentiment), Valid: true}
	}

	query := r.db.Rebind(`
		INSERT INTO reviews (customer_name, rating, content, sentiment, ai_reply, has_replied, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		in.CustomerName, in.Rating, in.Content, label,
		database.NullString(in.AIReply), in.HasReplied, createdAt,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}

	out := Review{
		ID:           id,
		CustomerName: in.CustomerName,
		Rating:       in.Rating,
		Content:      in.Content,
		Sentiment:    in.Sentiment,
		AIReply:      in.AIReply,
		HasReplied:   in.HasReplied,
		CreatedAt:    createdAt,
	}.Clone()
	return &out, nil
}

// Get returns the review with id or common.ErrNotFound
func (r *Repository) Get(ctx context.Context, id int64) (*Review, error) {
	query := r.db.Rebind(`SELECT ` + reviewColumns + ` FROM reviews WHERE id = ?`)

	review, err := scanReview(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return review, nil
}

// Update applies the non-nil fields of patch
func (r *Repository) Update(ctx context.Context, id int64, patch Patch) (*Review, error) {
	var (
		sets []string
		args []interface{}
	)
	if patch.Sentiment != nil {
		sets = append(sets, "sentiment = ?")
		args = append(args, string(*patch.Sentiment))
	}
	if patch.AIReply != nil {
		sets = append(sets, "ai_reply = ?")
		args = append(args, *patch.AIReply)
	}
	if patch.HasReplied != nil {
		sets = append(sets, "has_replied = ?")
		args = append(args, *patch.HasReplied)
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}

	args = append(args, id)
	query := r.db.Rebind(`UPDATE reviews SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	if affected == 0 {
		return nil, common.ErrNotFound
	}

	return r.Get(ctx, id)
}

// List returns every review, newest first
func (r *Repository) List(ctx context.Context) ([]Review, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+reviewColumns+` FROM reviews ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]Review, 0)
	for rows.Next() {
		review, err := scanReview(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, *review)
	}
	return reviews, rows.Err()
}
