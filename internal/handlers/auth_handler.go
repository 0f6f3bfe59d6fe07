package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"expensetracker/internal/auth"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/logger"
	"expensetracker/internal/middleware"
	"expensetracker/internal/models"
	"expensetracker/internal/notify"
	"expensetracker/internal/services"
	"expensetracker/internal/validator"
)

// AuthHandler handles registration, login and password reset pages.
type AuthHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
	tokens       *auth.TokenManager
	notifier     notify.Notifier
	cookies      CookieConfig
	cfg          AuthConfig
}

// AuthConfig holds the settings the auth pages need beyond cookies.
type AuthConfig struct {
	// BaseURL prefixes the reset links sent to users.
	BaseURL string
	// ShowResetLink also prints the reset link on the confirmation page.
	ShowResetLink bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(
	userService services.UserServicer,
	auditService services.AuditServicer,
	tokens *auth.TokenManager,
	notifier notify.Notifier,
	cookies CookieConfig,
	cfg AuthConfig,
) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		auditService: auditService,
		tokens:       tokens,
		notifier:     notifier,
		cookies:      cookies,
		cfg:          cfg,
	}
}

// RegisterForm is the registration form
type RegisterForm struct {
	Username        string `form:"username" binding:"required,username"`
	Email           string `form:"email" binding:"required,email,max=254"`
	Password        string `form:"password" binding:"required,min=8,max=128"`
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=Password"`
}

// LoginForm is the login form
type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

// ForgotPasswordForm asks for the email of the account to recover
type ForgotPasswordForm struct {
	Email string `form:"email" binding:"required,email"`
}

// ResetPasswordForm sets a new password
type ResetPasswordForm struct {
	Password        string `form:"password" binding:"required,min=8,max=128"`
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=Password"`
}

// Home renders the landing page, sending signed-in users to the dashboard.
func (h *AuthHandler) Home(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, defaultRedirect)
		return
	}
	render(c, http.StatusOK, "home.html", gin.H{"Title": "Welcome"})
}

// RegisterPage renders the registration form
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, defaultRedirect)
		return
	}
	render(c, http.StatusOK, "register.html", gin.H{"Title": "Register", "Form": RegisterForm{}})
}

// Register creates an account and signs the new user in
func (h *AuthHandler) Register(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "register.html", gin.H{
			"Title": "Register",
			"Form":  RegisterForm{Username: form.Username, Email: form.Email},
			"Error": validator.Describe(err),
		})
		return
	}

	user, err := h.userService.CreateUser(form.Username, form.Email, form.Password)
	if err != nil {
		renderForm(c, "register.html", err, gin.H{
			"Title": "Register",
			"Form":  RegisterForm{Username: form.Username, Email: form.Email},
		})
		return
	}

	h.auditService.Log(user.ID, services.AuditRegister, "user", user.ID, c.ClientIP(), nil)
	if err := h.startSession(c, user); err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, defaultRedirect)
}

// LoginPage renders the login form
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, defaultRedirect)
		return
	}
	render(c, http.StatusOK, "login.html", gin.H{
		"Title": "Log in",
		"Form":  LoginForm{},
		"Next":  c.Query("next"),
	})
}

// Login authenticates by username and password
func (h *AuthHandler) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "login.html", gin.H{
			"Title": "Log in",
			"Form":  LoginForm{Username: form.Username},
			"Next":  form.Next,
			"Error": validator.Describe(err),
		})
		return
	}

	user, err := h.userService.AttemptLogin(form.Username, form.Password)
	if err != nil {
		renderForm(c, "login.html", err, gin.H{
			"Title": "Log in",
			"Form":  LoginForm{Username: form.Username},
			"Next":  form.Next,
		})
		return
	}

	h.auditService.Log(user.ID, services.AuditLogin, "user", user.ID, c.ClientIP(), nil)
	if err := h.startSession(c, user); err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, safeRedirect(form.Next))
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookies.clearSession(c)
	c.Redirect(http.StatusFound, "/login")
}

// ForgotPasswordPage renders the forgot password form
func (h *AuthHandler) ForgotPasswordPage(c *gin.Context) {
	render(c, http.StatusOK, "forgot_password.html", gin.H{"Title": "Forgot password", "Form": ForgotPasswordForm{}})
}

// ForgotPassword sends a one-time reset link to the account's email
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var form ForgotPasswordForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "forgot_password.html", gin.H{
			"Title": "Forgot password",
			"Form":  form,
			"Error": validator.Describe(err),
		})
		return
	}

	user, err := h.userService.GetUserByEmail(form.Email)
	if err != nil {
		renderForm(c, "forgot_password.html", err, gin.H{"Title": "Forgot password", "Form": form})
		return
	}

	token, expiresAt, err := h.tokens.IssuePasswordReset(user)
	if err != nil {
		fail(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	resetURL := h.cfg.BaseURL + "/reset-password/" + token
	msg := notify.NewPasswordReset(user.ID, user.Username, user.Email, resetURL, expiresAt)
	if err := h.notifier.SendPasswordReset(c.Request.Context(), msg); err != nil {
		fail(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	data := gin.H{"Title": "Check your inbox", "ExpiresAt": expiresAt}
	if h.cfg.ShowResetLink {
		data["ResetURL"] = resetURL
	}
	render(c, http.StatusOK, "reset_link_sent.html", data)
}

// ResetPasswordPage renders the new password form for a valid reset link
func (h *AuthHandler) ResetPasswordPage(c *gin.Context) {
	token := c.Param("token")
	if _, err := h.resetUser(token); err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "reset_password.html", gin.H{"Title": "Reset password", "Token": token})
}

// ResetPassword stores the new password and signs the user in
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	token := c.Param("token")
	user, err := h.resetUser(token)
	if err != nil {
		fail(c, err)
		return
	}

	var form ResetPasswordForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "reset_password.html", gin.H{
			"Title": "Reset password",
			"Token": token,
			"Error": validator.Describe(err),
		})
		return
	}

	user, err = h.userService.SetPassword(user.ID, form.Password)
	if err != nil {
		renderForm(c, "reset_password.html", err, gin.H{"Title": "Reset password", "Token": token})
		return
	}

	h.auditService.Log(user.ID, services.AuditPasswordReset, "user", user.ID, c.ClientIP(), nil)
	if err := h.startSession(c, user); err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, defaultRedirect)
}

// resetUser resolves a reset token to its user. The token must still match
// the user's current password hash, so it works only once.
func (h *AuthHandler) resetUser(token string) (*models.User, error) {
	claims, err := h.tokens.ParsePasswordReset(token)
	if err != nil {
		return nil, apperrors.ErrInvalidResetToken
	}

	user, err := h.userService.GetUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidResetToken
		}
		return nil, err
	}

	if !claims.MatchesPassword(user.Password) {
		logger.Get().Infow("reset token already used", "user_id", user.ID)
		return nil, apperrors.ErrInvalidResetToken
	}
	return user, nil
}

func (h *AuthHandler) startSession(c *gin.Context, user *models.User) error {
	token, err := h.tokens.IssueSession(user)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	h.cookies.setSession(c, token)
	middleware.SetCurrentUser(c, user)
	return nil
}
