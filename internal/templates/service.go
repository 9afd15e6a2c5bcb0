package templates

import (
	"context"
	"strings"

	"github.com/richxcame/restaurant-backoffice/pkg/common"
	"github.com/richxcame/restaurant-backoffice/pkg/logger"
	"go.uber.org/zap"
)

// Service handles response template business logic
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new templates service
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// CreateTemplate stores a new template. It is active unless told otherwise.
func (s *Service) CreateTemplate(ctx context.Context, req *CreateTemplateRequest) (*Template, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, common.NewBadRequestError("name is required", nil)
	}
	if strings.TrimSpace(req.Template) == "" {
		return nil, common.NewBadRequestError("template is required", nil)
	}
	category := Category(req.Category)
	if !category.Valid() {
		return nil, common.NewBadRequestError("category must be booking, review or no-show", nil)
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	tmpl, err := s.repo.Create(ctx, &NewTemplate{
		Name:     name,
		Category: category,
		Template: req.Template,
		IsActive: active,
	})
	if err != nil {
		return nil, common.NewInternalError("failed to create template", err)
	}

	logger.WithContext(ctx).Info("Response template created",
		zap.Int64("template_id", tmpl.ID),
		zap.String("category", string(tmpl.Category)),
	)

	return tmpl, nil
}

// GetTemplate returns a template by id
func (s *Service) GetTemplate(ctx context.Context, id int64) (*Template, error) {
	tmpl, err := s.repo.Get(ctx, id)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, common.NewNotFoundError("template not found", err)
		}
		return nil, common.NewInternalError("failed to get template", err)
	}
	return tmpl, nil
}

// ListTemplates returns templates by id, optionally only one category
func (s *Service) ListTemplates(ctx context.Context, category string) ([]Template, error) {
	if category != "" && !Category(category).Valid() {
		return nil, common.NewBadRequestError("category must be booking, review or no-show", nil)
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, common.NewInternalError("failed to list templates", err)
	}

	out := make([]Template, 0, len(all))
	for _, t := range all {
		if category == "" || t.Category == Category(category) {
			out = append(out, t)
		}
	}
	return out, nil
}

// UpdateTemplate applies a partial update
func (s *Service) UpdateTemplate(ctx context.Context, id int64, req *UpdateTemplateRequest) (*Template, error) {
	if req == nil || req.Empty() {
		return nil, common.NewBadRequestError("no fields to update", nil)
	}

	var patch Patch
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, common.NewBadRequestError("name cannot be empty", nil)
		}
		patch.Name = &name
	}
	if req.Category != nil {
		category := Category(*req.Category)
		if !category.Valid() {
			return nil, common.NewBadRequestError("category must be booking, review or no-show", nil)
		}
		patch.Category = &category
	}
	if req.Template != nil {
		if strings.TrimSpace(*req.Template) == "" {
			return nil, common.NewBadRequestError("template cannot be empty", nil)
		}
		patch.Template = req.Template
	}
	patch.IsActive = req.IsActive

	tmpl, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, common.NewNotFoundError("template not found", err)
		}
		return nil, common.NewInternalError("failed to update template", err)
	}
	return tmpl, nil
}

// RenderTemplate fills a stored template with values
func (s *Service) RenderTemplate(ctx context.Context, id int64, values map[string]string) (*Rendered, error) {
	tmpl, err := s.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Rendered{
		TemplateID: tmpl.ID,
		Text:       Render(tmpl.Template, values),
		Missing:    missingKeys(tmpl.Template, values),
	}, nil
}
