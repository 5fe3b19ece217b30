package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	auditdb "github.com/taskdesk/taskdesk/internal/database/audit"
	"github.com/taskdesk/taskdesk/internal/audit"
	"github.com/taskdesk/taskdesk/internal/auth"
	"github.com/taskdesk/taskdesk/internal/config"
	"github.com/taskdesk/taskdesk/internal/database"
	"github.com/taskdesk/taskdesk/internal/database/tasks"
	"github.com/taskdesk/taskdesk/internal/database/users"
	http_controllers "github.com/taskdesk/taskdesk/internal/http"
	"github.com/taskdesk/taskdesk/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve starts the HTTP server and blocks until an interrupt or
// termination signal arrives, then shuts down gracefully.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	// Wait for interrupt signal to gracefully shutdown the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the scheduler)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires up every component and starts serving.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting TaskDesk v%s", version)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Repositories
	userRepo := users.NewRepository(db.DB)
	taskRepo := tasks.NewRepository(db.DB)
	auditRepo := auditdb.NewRepository(db.DB)

	auditService := audit.NewService(auditRepo)

	// Authentication
	tokenService, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	if err != nil {
		log.Fatalf("Failed to initialize token service: %v", err)
	}
	authService := auth.NewService(userRepo, tokenService, cfg.Auth)
	authMiddleware := auth.NewMiddleware(tokenService)

	if hasUsers, err := authService.HasUsers(); err != nil {
		log.Printf("WARNING: could not check for existing users: %v", err)
	} else if !hasUsers {
		log.Printf("No users found. Register the first account via POST /auth/register or run '%s create-admin'.", os.Args[0])
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       db,
		Users:          userRepo,
		Tasks:          taskRepo,
		Auditor:        auditService,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		Version:        version,
	})

	// Periodic overdue reports and audit pruning
	reportScheduler := scheduler.NewReportScheduler(taskRepo, auditService, cfg.Reports, cfg.Audit.RetentionDays)
	if err := reportScheduler.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start report scheduler: %v", err)
	}

	Serve(router, cfg, func(ctx context.Context) {
		reportScheduler.Stop()
	})
}
