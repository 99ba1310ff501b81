package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/morgancollado/mocingbird-task-manager/internal/handlers"
	"github.com/morgancollado/mocingbird-task-manager/internal/middleware"
)

type RouterConfig struct {
	ServiceName    string
	AllowOrigins   []string
	TracingEnabled bool
	AuthHandler    *handlers.AuthHandler
	UserHandler    *handlers.UserHandler
	TaskHandler    *handlers.TaskHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	if cfg.TracingEnabled {
		router.Use(otelgin.Middleware(cfg.ServiceName))
	}

	allowOrigins := cfg.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/users", cfg.UserHandler.Signup)
	router.POST("/login", cfg.AuthHandler.Login)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.DELETE("/logout", cfg.AuthHandler.Logout)
	// Users
	protected.GET("/users/:id", cfg.UserHandler.Get)
	protected.PUT("/users/:id", cfg.UserHandler.Update)
	protected.PATCH("/users/:id", cfg.UserHandler.Update)
	protected.DELETE("/users/:id", cfg.UserHandler.Delete)
	// Tasks
	protected.GET("/tasks", cfg.TaskHandler.Index)
	protected.GET("/tasks/:id", cfg.TaskHandler.Show)
	protected.POST("/tasks", cfg.TaskHandler.Create)
	protected.PUT("/tasks/:id", cfg.TaskHandler.Update)
	protected.PATCH("/tasks/:id", cfg.TaskHandler.Update)
	protected.DELETE("/tasks/:id", cfg.TaskHandler.Destroy)

	return router
}
