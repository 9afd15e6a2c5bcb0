package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/restaurant-backoffice/pkg/common"
	"github.com/richxcame/restaurant-backoffice/pkg/validation"
)

// ValidateJSON decodes the body into req, then applies the validate tags
func ValidateJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return err
	}
	return validation.ValidateStruct(req)
}

// RespondWithValidationError writes a 400. Field failures are listed under "fields",
// an oversized body gets 413 and anything else is reported as a malformed body.
func RespondWithValidationError(c *gin.Context, err error) {
	var (
		valErr  *validation.ValidationError
		tooLong *http.MaxBytesError
	)
	switch {
	case errors.As(err, &valErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   &common.ErrorInfo{Code: http.StatusBadRequest, Message: "validation failed"},
			"fields":  valErr.Errors,
		})
	case errors.As(err, &tooLong):
		common.ErrorResponse(c, http.StatusRequestEntityTooLarge, "request body too large")
	default:
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
	}
}

// ValidateAndBind reports whether req is usable; on false the response is already written
func ValidateAndBind(c *gin.Context, req interface{}) bool {
	if err := ValidateJSON(c, req); err != nil {
		RespondWithValidationError(c, err)
		return false
	}
	return true
}

// MaxBodySize caps every request body at maxSize bytes
func MaxBodySize(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		}
		c.Next()
	}
}
