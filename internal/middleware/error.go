package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/logger"
)

// ErrorTemplate is the HTML template used for error pages.
const ErrorTemplate = "error.html"

// ErrorHandler returns a Gin middleware that converts errors set on the Gin
// context into error responses. API requests get the JSON envelope, all
// other requests get the HTML error page. Unexpected errors are logged and
// reported as a generic internal error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		// Process the last error (most relevant in a middleware chain)
		appErr := ToAppError(c, c.Errors.Last().Err)

		if IsAPIRequest(c) {
			c.JSON(appErr.StatusCode, gin.H{
				"error": gin.H{
					"code":    appErr.Code,
					"message": appErr.Message,
				},
			})
			return
		}

		c.HTML(appErr.StatusCode, ErrorTemplate, gin.H{
			"Title":       http.StatusText(appErr.StatusCode),
			"Status":      appErr.StatusCode,
			"Message":     appErr.Message,
			"CurrentUser": CurrentUser(c),
		})
	}
}

// ToAppError maps err to an *AppError, logging internal details.
func ToAppError(c *gin.Context, err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"message", appErr.Message,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		return appErr
	}

	// Unexpected error: log full details, return generic message
	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	return apperrors.ErrInternalServer
}

// IsAPIRequest reports whether the request targets the JSON API.
func IsAPIRequest(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}
