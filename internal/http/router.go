package http

import (
	"github.com/gin-gonic/gin"

	"github.com/taskdesk/taskdesk/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Public routes (health, login, register) are registered first; everything
// under /api requires a valid bearer token.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Login and register stay outside the authenticated group
	authController := auth.NewAuthController(cfg.AuthService, cfg.Auditor)
	authController.RegisterRoutes(router)

	tasksController := NewTasksController(cfg.Tasks, cfg.Users, cfg.Auditor)
	usersController := NewUsersController(cfg.Users, cfg.AuthService, cfg.Auditor)

	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.Handler())
	{
		// Task endpoints
		api.GET("/tasks", tasksController.GetTasks)
		api.POST("/tasks", tasksController.CreateTask)
		api.PUT("/tasks/:id", tasksController.UpdateTask)
		api.DELETE("/tasks/:id", tasksController.DeleteTask)
		api.GET("/tasks/dashboard/stats", tasksController.GetDashboardStats)

		// User management endpoints
		api.GET("/users", usersController.GetUsers)
		api.POST("/users", usersController.CreateUser)
		api.PUT("/users/:id", usersController.UpdateUser)
		api.DELETE("/users/:id", usersController.DeleteUser)
	}

	return router
}
