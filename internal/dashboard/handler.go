package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/restaurant-backoffice/pkg/common"
)

// Handler handles HTTP requests for the dashboard
type Handler struct {
	service *Service
}

// NewHandler creates a new dashboard handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetStats returns the dashboard stats
// GET /api/dashboard/stats
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to fetch dashboard stats")
		return
	}

	common.SuccessResponse(c, stats)
}

// RegisterRoutes registers dashboard routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("/stats", h.GetStats)
	}
}
