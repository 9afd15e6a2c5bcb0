package templates

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/restaurant-backoffice/pkg/common"
	"github.com/richxcame/restaurant-backoffice/pkg/middleware"
)

// Handler handles HTTP requests for response templates
type Handler struct {
	service *Service
}

// NewHandler creates a new templates handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListTemplates lists templates, optionally filtered by ?category=
// GET /api/response-templates
func (h *Handler) ListTemplates(c *gin.Context) {
	templates, err := h.service.ListTemplates(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, err, "failed to fetch templates")
		return
	}

	common.SuccessResponse(c, templates)
}

// GetTemplate gets a single template
// GET /api/response-templates/:id
func (h *Handler) GetTemplate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	tmpl, err := h.service.GetTemplate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to fetch template")
		return
	}

	common.SuccessResponse(c, tmpl)
}

// CreateTemplate creates a template
// POST /api/response-templates
func (h *Handler) CreateTemplate(c *gin.Context) {
	var req CreateTemplateRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	tmpl, err := h.service.CreateTemplate(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "failed to create template")
		return
	}

	common.CreatedResponse(c, tmpl)
}

// UpdateTemplate changes a template
// PATCH /api/response-templates/:id
func (h *Handler) UpdateTemplate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateTemplateRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	tmpl, err := h.service.UpdateTemplate(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "failed to update template")
		return
	}

	common.SuccessResponse(c, tmpl)
}

// RenderTemplate fills a template's placeholders
// POST /api/response-templates/:id/render
func (h *Handler) RenderTemplate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req RenderRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	rendered, err := h.service.RenderTemplate(c.Request.Context(), id, req.Values)
	if err != nil {
		respondError(c, err, "failed to render template")
		return
	}

	common.SuccessResponse(c, rendered)
}

// RegisterRoutes registers response template routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	templates := rg.Group("/response-templates")
	{
		templates.GET("", h.ListTemplates)
		templates.GET("/:id", h.GetTemplate)
		templates.POST("", h.CreateTemplate)
		templates.PATCH("/:id", h.UpdateTemplate)
		templates.POST("/:id/render", h.RenderTemplate)
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid template ID")
		return 0, false
	}
	return id, true
}

func respondError(c *gin.Context, err error, fallback string) {
	if appErr, ok := err.(*common.AppError); ok {
		common.AppErrorResponse(c, appErr)
		return
	}
	common.ErrorResponse(c, http.StatusInternalServerError, fallback)
}
