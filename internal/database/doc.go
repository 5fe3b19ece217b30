// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations
//	├── users/           # User CRUD and counts
//	├── tasks/           # Task CRUD, filtered listing, dashboard counts
//	└── audit/           # Audit event log
//
// Each sub-package provides a Repository type with domain-specific
// operations:
//
//	db, err := database.NewDatabase("./app.db")
//	usersRepo := users.NewRepository(db.DB)
//	tasksRepo := tasks.NewRepository(db.DB)
//
// Repositories hold no state beyond the shared *gorm.DB handle; all
// reads and writes are single round-trips against one record or one
// filter, so no transaction boundaries are needed here.
package database
