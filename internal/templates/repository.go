package templates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/richxcame/restaurant-backoffice/pkg/common"
	"github.com/richxcame/restaurant-backoffice/pkg/database"
)

const templateColumns = `id, name, category, template, is_active, created_at`

// Repository handles response template data access on a SQL database
type Repository struct {
	db  *database.DB
	now func() time.Time
}

// NewRepository creates a new templates repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func scanTemplate(scan func(dest ...interface{}) error) (*Template, error) {
	var t Template
	if err := scan(&t.ID, &t.Name, &t.Category, &t.Template, &t.IsActive, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return &t, nil
}

// Create inserts a template and returns it with its assigned id
func (r *Repository) Create(ctx context.Context, in *NewTemplate) (*Template, error) {
	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}

	query := r.db.Rebind(`
		INSERT INTO response_templates (name, category, template, is_active, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`)

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		in.Name, string(in.Category), in.Template, in.IsActive, createdAt,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert template: %w", err)
	}

	return &Template{
		ID:        id,
		Name:      in.Name,
		Category:  in.Category,
		Template:  in.Template,
		IsActive:  in.IsActive,
		CreatedAt: createdAt,
	}, nil
}

// Get returns the template with id or common.ErrNotFound
func (r *Repository) Get(ctx context.Context, id int64) (*Template, error) {
	query := r.db.Rebind(`SELECT ` + templateColumns + ` FROM response_templates WHERE id = ?`)

	tmpl, err := scanTemplate(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	return tmpl, nil
}

// Update applies the non-nil fields of patch
func (r *Repository) Update(ctx context.Context, id int64, patch Patch) (*Template, error) {
	var (
		sets []string
		args []interface{}
	)
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, string(*patch.Category))
	}
	if patch.Template != nil {
		sets = append(sets, "template = ?")
		args = append(args, *patch.Template)
	}
	if patch.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *patch.IsActive)
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}

	args = append(args, id)
	query := r.db.Rebind(`UPDATE response_templates SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	if affected == 0 {
		return nil, common.ErrNotFound
	}

	return r.Get(ctx, id)
}

// List returns every template by id
func (r *Repository) List(ctx context.Context) ([]Template, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+templateColumns+` FROM response_templates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	templates := make([]Template, 0)
	for rows.Next() {
		tmpl, err := scanTemplate(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *tmpl)
	}
	return templates, rows.Err()
}
