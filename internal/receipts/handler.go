package receipts

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/restaurant-backoffice/pkg/common"
	"github.com/richxcame/restaurant-backoffice/pkg/middleware"
	"github.com/richxcame/restaurant-backoffice/pkg/pagination"
	"github.com/richxcame/restaurant-backoffice/pkg/storage"
)

// FormField is the multipart field carrying the receipt image
const FormField = "receipt"

// Slack for multipart boundaries and headers on top of the image itself
const multipartOverhead = 1 << 20

// Handler handles HTTP requests for receipts
type Handler struct {
	service *Service
}

// NewHandler creates a new receipts handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListReceipts lists receipts, newest first
// GET /api/receipts
func (h *Handler) ListReceipts(c *gin.Context) {
	params := pagination.ParseParams(c)

	receipts, err := h.service.ListReceipts(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch receipts")
		return
	}

	meta := pagination.BuildMeta(params.Limit, params.Offset, int64(len(receipts)))
	common.SuccessResponseWithMeta(c, pagination.Slice(receipts, params), meta)
}

// GetReceipt gets a single receipt
// GET /api/receipts/:id
func (h *Handler) GetReceipt(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid receipt ID")
		return
	}

	receipt, err := h.service.GetReceipt(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to fetch receipt")
		return
	}

	common.SuccessResponse(c, receipt)
}

// UploadReceipt analyses and stores an uploaded receipt image
// POST /api/receipts
func (h *Handler) UploadReceipt(c *gin.Context) {
	maxBytes := h.service.MaxUploadBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)

	header, err := c.FormFile(FormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			common.ErrorResponse(c, http.StatusBadRequest, "receipt image is too large")
			return
		}
		common.ErrorResponse(c, http.StatusBadRequest, "no receipt image provided")
		return
	}
	if header.Size > maxBytes {
		common.ErrorResponse(c, http.StatusBadRequest, "receipt image is too large")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = storage.GetMimeTypeFromExtension(header.Filename)
	}
	if !storage.IsImageMimeType(contentType) {
		common.ErrorResponse(c, http.StatusBadRequest, "only image files are allowed")
		return
	}

	file, err := header.Open()
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "failed to read receipt image")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "failed to read receipt image")
		return
	}

	receipt, err := h.service.ProcessUpload(c.Request.Context(), &Upload{
		OriginalName: header.Filename,
		ContentType:  contentType,
		Data:         data,
	})
	if err != nil {
		respondError(c, err, "failed to process receipt")
		return
	}

	common.CreatedResponse(c, receipt)
}

// UpdateReceipt overrides the status or corrects extracted fields
// PATCH /api/receipts/:id
func (h *Handler) UpdateReceipt(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid receipt ID")
		return
	}

	var req UpdateReceiptRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	receipt, err := h.service.UpdateReceipt(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "failed to update receipt")
		return
	}

	common.SuccessResponse(c, receipt)
}

// RegisterRoutes registers receipt routes. Extra handlers guard the upload endpoint.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, uploadGuards ...gin.HandlerFunc) {
	receipts := rg.Group("/receipts")
	{
		receipts.GET("", h.ListReceipts)
		receipts.GET("/:id", h.GetReceipt)
		receipts.POST("", append(append([]gin.HandlerFunc{}, uploadGuards...), h.UploadReceipt)...)
		receipts.PATCH("/:id", h.UpdateReceipt)
	}
}

func respondError(c *gin.Context, err error, fallback string) {
	if appErr, ok := err.(*common.AppError); ok {
		common.AppErrorResponse(c, appErr)
		return
	}
	common.ErrorResponse(c, http.StatusInternalServerError, fallback)
}
