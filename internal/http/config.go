package http

import (
	"github.com/taskdesk/taskdesk/internal/audit"
	"github.com/taskdesk/taskdesk/internal/auth"
	"github.com/taskdesk/taskdesk/internal/database"
	"github.com/taskdesk/taskdesk/internal/database/tasks"
	"github.com/taskdesk/taskdesk/internal/database/users"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database
	Users    *users.Repository
	Tasks    *tasks.Repository
	Auditor  *audit.Service

	// Authentication
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware

	// Application info
	Version string
}
