package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/middleware"
	"expensetracker/internal/models"
	"expensetracker/internal/uuid"
)

const (
	flashCookie     = "flash"
	flashMaxAge     = 60
	defaultRedirect = "/dashboard"
)

// CookieConfig controls the cookies written by the handlers.
type CookieConfig struct {
	Secure     bool
	SessionTTL time.Duration
}

// render executes an HTML template with the current user and any pending
// flash message added to data.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CurrentUser"] = middleware.CurrentUser(c)
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = popFlash(c)
	}
	c.HTML(status, name, data)
}

// renderForm re-renders a form page with the message of a user-facing
// AppError. Internal errors are handed to the error middleware instead.
func renderForm(c *gin.Context, name string, err error, data gin.H) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.StatusCode >= http.StatusInternalServerError {
		_ = c.Error(err)
		return
	}
	if data == nil {
		data = gin.H{}
	}
	data["Error"] = appErr.Message
	render(c, appErr.StatusCode, name, data)
}

// fail hands err to the error middleware, which renders the error page.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	appErr := middleware.ToAppError(c, err)
	c.JSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}

// currentUser returns the authenticated user or ErrUnauthorized.
func currentUser(c *gin.Context) (*models.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// parseExpenseID reads the :id path parameter. Malformed IDs cannot name an
// expense, so they are reported as not found.
func parseExpenseID(c *gin.Context) (string, error) {
	id := c.Param("id")
	if !uuid.IsValid(id) {
		return "", apperrors.ErrExpenseNotFound
	}
	return id, nil
}

// safeRedirect only allows local paths, falling back to the dashboard.
func safeRedirect(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return defaultRedirect
	}
	return next
}

func (cc CookieConfig) setSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(cc.SessionTTL.Seconds()), "/", "", cc.Secure, true)
}

func (cc CookieConfig) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", cc.Secure, true)
}

func (cc CookieConfig) setFlash(c *gin.Context, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, message, flashMaxAge, "/", "", cc.Secure, true)
}

// popFlash returns the pending flash message and clears it.
func popFlash(c *gin.Context) string {
	message, err := c.Cookie(flashCookie)
	if err != nil || message == "" {
		return ""
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	return message
}
