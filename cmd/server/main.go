package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/morgancollado/mocingbird-task-manager/internal/app"
	"github.com/morgancollado/mocingbird-task-manager/internal/db"
	"github.com/morgancollado/mocingbird-task-manager/internal/handlers"
	"github.com/morgancollado/mocingbird-task-manager/internal/jobs/worker"
	"github.com/morgancollado/mocingbird-task-manager/internal/middleware"
	"github.com/morgancollado/mocingbird-task-manager/internal/observability"
	"github.com/morgancollado/mocingbird-task-manager/internal/pkg/logger"
	"github.com/morgancollado/mocingbird-task-manager/internal/repos"
	"github.com/morgancollado/mocingbird-task-manager/internal/server"
	"github.com/morgancollado/mocingbird-task-manager/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	log.Info("Loading configuration from main...")
	cfg, err := app.LoadConfig(log)
	if err != nil {
		log.Error("Could not load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	var otelShutdown func(context.Context) error
	if cfg.TracingEnabled {
		otelShutdown = observability.InitOTel(ctx, log, observability.OtelConfig{
			ServiceName: cfg.ServiceName,
			Environment: cfg.LogMode,
		})
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log, cfg.Postgres)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	taskRepo := repos.NewTaskRepo(thePG, log)

	// Notification worker
	log.Info("Setting up notification worker from main...")
	delivery := &worker.LogDelivery{Log: log}
	notifyPool := worker.New(log, delivery, cfg.NotifyQueueSize, cfg.NotifyWorkers)
	notifyPool.Start(ctx)

	// Services
	log.Info("Setting up Services from main...")
	tokenService := services.NewTokenService(log, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	authService := services.NewAuthService(thePG, log, userRepo, tokenService)
	userService := services.NewUserService(thePG, log, userRepo, taskRepo)
	taskNotifier := services.NewTaskNotifier(log, notifyPool)
	taskService := services.NewTaskService(thePG, log, taskRepo, taskNotifier)

	// Handlers
	log.Info("Setting up Handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(authService, userService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, tokenService, userRepo)

	// Router
	router := server.NewRouter(server.RouterConfig{
		ServiceName:    cfg.ServiceName,
		AllowOrigins:   cfg.CORSAllowOrigins,
		TracingEnabled: cfg.TracingEnabled,
		AuthHandler:    authHandler,
		UserHandler:    userHandler,
		TaskHandler:    taskHandler,
		AuthMiddleware: authMiddleware,
	})

	log.Info("Starting server", "port", cfg.Port)
	errCh := make(chan error, 1)
	go func() {
		errCh <- router.Run(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		log.Error("Server stopped", "error", err)
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	if otelShutdown != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			log.Warn("OTel shutdown failed", "error", err)
		}
	}
}
