package reviews

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/restaurant-backoffice/pkg/common"
	"github.com/richxcame/restaurant-backoffice/pkg/middleware"
	"github.com/richxcame/restaurant-backoffice/pkg/pagination"
)

// Handler handles HTTP requests for reviews
type Handler struct {
	service *Service
}

// NewHandler creates a new reviews handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ========================================
// REVIEW ENDPOINTS
// ========================================

// ListReviews lists reviews, newest first
// GET /api/reviews
func (h *Handler) ListReviews(c *gin.Context) {
	params := pagination.ParseParams(c)

	reviews, err := h.service.ListReviews(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch reviews")
		return
	}

	meta := pagination.BuildMeta(params.Limit, params.Offset, int64(len(reviews)))
	common.SuccessResponseWithMeta(c, pagination.Slice(reviews, params), meta)
}

// ListNeedingReply lists reviews that have not been answered
// GET /api/reviews/needing-reply
func (h *Handler) ListNeedingReply(c *gin.Context) {
	reviews, err := h.service.ListNeedingReply(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch reviews needing reply")
		return
	}

	common.SuccessResponse(c, reviews)
}

// GetReview gets a single review
// GET /api/reviews/:id
func (h *Handler) GetReview(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid review ID")
		return
	}

	review, err := h.service.GetReview(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to fetch review")
		return
	}

	common.SuccessResponse(c, review)
}

// CreateReview stores a review with its sentiment and suggested reply
// POST /api/reviews
func (h *Handler) CreateReview(c *gin.Context) {
	var req CreateReviewRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	review, err := h.service.CreateReview(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "failed to create review")
		return
	}

	common.CreatedResponse(c, review)
}

// ReplyToReview marks a review as replied
// PATCH /api/reviews/:id/reply
func (h *Handler) ReplyToReview(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid review ID")
		return
	}

	var req ReplyRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	review, err := h.service.Reply(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "failed to update review reply")
		return
	}

	common.SuccessResponse(c, review)
}

// ========================================
// ANALYTICS ENDPOINTS
// ========================================

// GetWeeklySummary summarizes the last seven days of reviews
// GET /api/analytics/weekly-summary
func (h *Handler) GetWeeklySummary(c *gin.Context) {
	summary, err := h.service.WeeklySummary(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to generate weekly summary")
		return
	}

	common.SuccessResponse(c, summary)
}

// RegisterRoutes registers review and analytics routes.
// Extra handlers guard the endpoints that call the language model.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, analysisGuards ...gin.HandlerFunc) {
	reviews := rg.Group("/reviews")
	{
		reviews.GET("", h.ListReviews)
		reviews.GET("/needing-reply", h.ListNeedingReply)
		reviews.GET("/:id", h.GetReview)
		reviews.POST("", withGuards(analysisGuards, h.CreateReview)...)
		reviews.PATCH("/:id/reply", h.ReplyToReview)
	}

	analytics := rg.Group("/analytics")
	{
		analytics.GET("/weekly-summary", withGuards(analysisGuards, h.GetWeeklySummary)...)
	}
}

func withGuards(guards []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, len(guards)+1)
	chain = append(chain, guards...)
	return append(chain, handler)
}

func respondError(c *gin.Context, err error, fallback string) {
	if appErr, ok := err.(*common.AppError); ok {
		common.AppErrorResponse(c, appErr)
		return
	}
	common.ErrorResponse(c, http.StatusInternalServerError, fallback)
}
