package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"expensetracker/internal/config"
	"expensetracker/internal/database"
	"expensetracker/internal/logger"
	"expensetracker/internal/notify"
	"expensetracker/internal/server"
)

// @title           Expense Tracker API
// @version         1.0
// @description     Read-only JSON API over the signed-in user's expenses and summaries.

// @host      localhost:8080
// @BasePath  /api

const shutdownTimeout = 30 * time.Second

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run(ctx context.Context) error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	dbConfig, err := database.NewConfig(appConfig)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	notifier, closeNotifier, err := newNotifier(appConfig)
	if err != nil {
		return err
	}
	defer closeNotifier()

	router, err := server.NewRouter(server.Deps{
		Config:   appConfig,
		DB:       dbManager.DB(),
		Notifier: notifier,
	})
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("Starting expense tracker on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at %s/swagger/index.html", appConfig.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		log.Info("Server stopped")
		return nil
	})

	return g.Wait()
}

// newNotifier publishes reset links to RabbitMQ when AMQP_URL is set and
// logs them otherwise.
func newNotifier(cfg *config.Config) (notify.Notifier, func(), error) {
	if cfg.AMQPURL == "" {
		logger.Get().Info("AMQP_URL not set; password reset links will be logged")
		return notify.NewLogNotifier(), func() {}, nil
	}

	n, err := notify.NewAMQPNotifier(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}
	return n, func() {
		if err := n.Close(); err != nil {
			logger.Get().Warnf("AMQP close error: %v", err)
		}
	}, nil
}
