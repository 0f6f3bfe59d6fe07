// Package server wires services, handlers and middleware into the gin engine.
package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"expensetracker/internal/admin"
	"expensetracker/internal/auth"
	"expensetracker/internal/config"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/handlers"
	"expensetracker/internal/middleware"
	"expensetracker/internal/notify"
	"expensetracker/internal/services"
	"expensetracker/internal/validator"
	"expensetracker/internal/web"

	_ "expensetracker/internal/docs" // Import swagger docs
)

// Deps are the collaborators the router needs.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Notifier notify.Notifier
}

// NewRouter builds the application's HTTP handler.
func NewRouter(deps Deps) (*gin.Engine, error) {
	cfg := deps.Config
	validator.Register()

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	// Initialize services
	userService := services.NewUserService(deps.DB)
	expenseService := services.NewExpenseService(deps.DB)
	auditService := services.NewAuditService(deps.DB)
	registry := admin.NewRegistry(deps.DB, admin.DefaultEntities()...)
	tokens := auth.NewTokenManager(cfg.SessionSecret, cfg.SessionDuration, cfg.ResetTokenDuration)

	// Initialize handlers
	cookies := handlers.CookieConfig{Secure: cfg.CookieSecure, SessionTTL: tokens.SessionTTL()}
	authHandler := handlers.NewAuthHandler(userService, auditService, tokens, deps.Notifier, cookies, handlers.AuthConfig{
		BaseURL:       cfg.BaseURL,
		ShowResetLink: cfg.ShowResetLinkInPage,
	})
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService, cookies)
	summaryHandler := handlers.NewSummaryHandler(expenseService)
	adminHandler := handlers.NewAdminHandler(registry)
	apiHandler := handlers.NewAPIHandler(expenseService)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.SecurityHeaders(middleware.DefaultHeadersConfig()))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Authenticate(tokens, userService))

	router.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperrors.ErrNotFound)
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public pages
	router.GET("/", authHandler.Home)
	router.GET("/register", authHandler.RegisterPage)
	router.POST("/register", authHandler.Register)
	router.GET("/login", authHandler.LoginPage)
	router.POST("/login", authHandler.Login)
	router.GET("/forgot-password", authHandler.ForgotPasswordPage)
	router.POST("/forgot-password", authHandler.ForgotPassword)
	router.GET("/reset-password/:token", authHandler.ResetPasswordPage)
	router.POST("/reset-password/:token", authHandler.ResetPassword)

	// Signed-in pages
	pages := router.Group("/")
	pages.Use(middleware.RequireLogin())
	pages.GET("/logout", authHandler.Logout)
	pages.POST("/logout", authHandler.Logout)
	pages.GET("/dashboard", summaryHandler.Dashboard)

	expenses := pages.Group("/expense")
	expenses.GET("/add", expenseHandler.AddPage)
	expenses.POST("/add", expenseHandler.Add)
	expenses.GET("/edit/:id", expenseHandler.EditPage)
	expenses.POST("/edit/:id", expenseHandler.Edit)
	expenses.GET("/delete/:id", expenseHandler.DeletePage)
	expenses.POST("/delete/:id", expenseHandler.Delete)
	expenses.GET("/view", expenseHandler.View)
	expenses.GET("/filter", expenseHandler.Filter)
	expenses.GET("/monthly", summaryHandler.Monthly)
	expenses.GET("/chart", summaryHandler.Chart)
	expenses.GET("/chart/data", summaryHandler.ChartJSON)

	admins := pages.Group("/admin")
	admins.Use(middleware.RequireAdmin())
	admins.GET("", adminHandler.Index)
	admins.GET("/:entity", adminHandler.List)

	// Health check endpoint
	router.GET("/api/health", handlers.Health)

	// API v1 group
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequireAPIUser())
	v1.GET("/expenses", apiHandler.ListExpenses)
	v1.GET("/expenses/:id", apiHandler.GetExpense)
	v1.GET("/summary/monthly", apiHandler.MonthlySummary)
	v1.GET("/summary/categories", apiHandler.CategorySummary)

	return router, nil
}
