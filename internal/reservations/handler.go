package reservations

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/restaurant-backoffice/pkg/common"
	"github.com/richxcame/restaurant-backoffice/pkg/middleware"
	"github.com/richxcame/restaurant-backoffice/pkg/pagination"
)

// Handler handles HTTP requests for reservations
type Handler struct {
	service *Service
}

// NewHandler creates a new reservations handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListReservations lists reservations by date and time
// GET /api/reservations
func (h *Handler) ListReservations(c *gin.Context) {
	params := pagination.ParseParams(c)

	reservations, err := h.service.ListReservations(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch reservations")
		return
	}

	meta := pagination.BuildMeta(params.Limit, params.Offset, int64(len(reservations)))
	common.SuccessResponseWithMeta(c, pagination.Slice(reservations, params), meta)
}

// TodayReservations lists today's reservations by time
// GET /api/reservations/today
func (h *Handler) TodayReservations(c *gin.Context) {
	reservations, err := h.service.TodayReservations(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch today's reservations")
		return
	}

	common.SuccessResponse(c, reservations)
}

// GetReservation gets a single reservation
// GET /api/reservations/:id
func (h *Handler) GetReservation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	reservation, err := h.service.GetReservation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to fetch reservation")
		return
	}

	common.SuccessResponse(c, reservation)
}

// CreateReservation books a table and returns the confirmation message
// POST /api/reservations
func (h *Handler) CreateReservation(c *gin.Context) {
	var req CreateReservationRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	confirmed, err := h.service.CreateReservation(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "failed to create reservation")
		return
	}

	common.CreatedResponse(c, confirmed)
}

// UpdateReservation changes a reservation
// PATCH /api/reservations/:id
func (h *Handler) UpdateReservation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateReservationRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	reservation, err := h.service.UpdateReservation(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "failed to update reservation")
		return
	}

	common.SuccessResponse(c, reservation)
}

// RegisterRoutes registers reservation routes.
// Extra handlers guard creation, which drafts the confirmation with the language model.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, analysisGuards ...gin.HandlerFunc) {
	create := make([]gin.HandlerFunc, 0, len(analysisGuards)+1)
	create = append(create, analysisGuards...)
	create = append(create, h.CreateReservation)

	reservations := rg.Group("/reservations")
	{
		reservations.GET("", h.ListReservations)
		reservations.GET("/today", h.TodayReservations)
		reservations.GET("/:id", h.GetReservation)
		reservations.POST("", create...)
		reservations.PATCH("/:id", h.UpdateReservation)
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid reservation ID")
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
