package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"expensetracker/internal/auth"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/logger"
	"expensetracker/internal/models"
)

const (
	// SessionCookie is the name of the cookie holding the session token.
	SessionCookie = "session"

	currentUserKey = "currentUser"
)

// UserLookup resolves the user behind a session.
type UserLookup interface {
	GetUserByID(id string) (*models.User, error)
}

// Authenticate resolves the session cookie into the current user and stores
// it on the request context. Requests without a valid session continue as
// anonymous; use RequireLogin or RequireAPIUser to reject them.
func Authenticate(tokens *auth.TokenManager, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookie)
		if err != nil || raw == "" {
			c.Next()
			return
		}

		claims, err := tokens.ParseSession(raw)
		if err != nil {
			c.Next()
			return
		}

		user, err := users.GetUserByID(claims.UserID)
		if err != nil {
			logger.Get().Debugw("session user not found", "user_id", claims.UserID, "error", err)
			c.Next()
			return
		}

		if !claims.MatchesPassword(user.Password) {
			logger.Get().Debugw("session predates password change", "user_id", user.ID)
			c.Next()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// SetCurrentUser stores the authenticated user on the context.
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(currentUserKey, user)
}

// RequireLogin redirects anonymous visitors to the login page, remembering
// where they were headed.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			target := "/login?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAPIUser rejects anonymous API requests with 401.
func RequireAPIUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			_ = c.Error(apperrors.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects users without the admin flag with 403.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin {
			_ = c.Error(apperrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
