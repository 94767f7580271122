package apperrors

import (
	"jobportal_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// HandleError writes an AppError to the gin response. Server errors are
// logged; signature failures are logged with a security marker so they can
// be alerted on separately from ordinary validation noise.
func HandleError(c *gin.Context, err *AppError) {
	ctx := c.Request.Context()

	switch {
	case err.Code == CodeInvalidSignature:
		logger.CtxWarn(ctx, "payment signature verification failed",
			"path", c.Request.URL.Path, "security", true)
	case err.HTTPCode >= 500:
		logger.CtxError(ctx, "server error", "error", err.Error(), "path", c.Request.URL.Path)
	}

	c.JSON(err.HTTPCode, ErrorResponse{Error: err})
}

// HandleValidationError converts gin binding errors into the standard
// validation payload.
func HandleValidationError(c *gin.Context, err error) {
	HandleError(c, ErrValidationFailed.WithDetails(gin.H{"details": err.Error()}))
}
