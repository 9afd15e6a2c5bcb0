package templates

import "time"

// Category is the situation a template is written for
type Category string

const (
	CategoryBooking Category = "booking"
	CategoryReview  Category = "review"
	CategoryNoShow  Category = "no-show"
)

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	switch c {
	case CategoryBooking, CategoryReview, CategoryNoShow:
		return true
	}
	return false
}

// Template is a reusable message with {placeholder} slots
type Template struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  Category  `json:"category"`
	Template  string    `json:"template"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a copy of t
func (t Template) Clone() Template {
	return t
}

// NewTemplate holds the fields of a template before it is assigned an id
type NewTemplate struct {
	Name     string
	Category Category
	Template string
	IsActive bool

	// CreatedAt backdates the record when set, as demo seeding does
	CreatedAt time.Time
}

// Patch lists the template fields that may change after creation
type Patch struct {
	Name     *string
	Category *Category
	Template *string
	IsActive *bool
}

// CreateTemplateRequest is the body of POST /response-templates.
// is_active defaults to true.
type CreateTemplateRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Category string `json:"category" validate:"required,template_category"`
	Template string `json:"template" validate:"required,max=5000"`
	IsActive *bool  `json:"is_active"`
}

// UpdateTemplateRequest is the body of PATCH /response-templates/:id
type UpdateTemplateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Category *string `json:"category" validate:"omitempty,template_category"`
	Template *string `json:"template" validate:"omitempty,min=1,max=5000"`
	IsActive *bool   `json:"is_active"`
}

// Empty reports whether the request changes nothing
func (r *UpdateTemplateRequest) Empty() bool {
	return r.Name == nil && r.Category == nil && r.Template == nil && r.IsActive == nil
}

// RenderRequest is the body of POST /response-templates/:id/render
type RenderRequest struct {
	Values map[string]string `json:"values"`
}

// Rendered is a template filled in with values
type Rendered struct {
	TemplateID int64    `json:"template_id"`
	Text       string   `json:"text"`
	Missing    []string `json:"missing"`
}
