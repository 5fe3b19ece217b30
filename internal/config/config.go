package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// ErrSecretRequired is returned by Validate when no JWT secret is
// configured. There is deliberately no built-in fallback secret.
var ErrSecretRequired = errors.New("JWT_SECRET is not set")

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		Audit
		Reports
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret   string
		TokenExpiry time.Duration
		BcryptCost  int
	}
	Audit struct {
		RetentionDays int // Days to keep audit events (default: 30)
	}
	Reports struct {
		Enabled  bool
		Schedule string // Cron format: "0 * * * *" = hourly
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("audit_retention_days", 30)

	// Auth defaults
	v.SetDefault("jwt_secret", "")       // Required; validated at startup
	v.SetDefault("token_expiry", "168h") // 7 days
	v.SetDefault("bcrypt_cost", 12)      // bcrypt cost factor

	// Overdue-report scheduler defaults
	v.SetDefault("reports_enabled", true)
	v.SetDefault("reports_schedule", "0 * * * *") // Hourly at :00

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Auth: Auth{
			JWTSecret:   v.GetString("JWT_SECRET"),
			TokenExpiry: v.GetDuration("TOKEN_EXPIRY"),
			BcryptCost:  v.GetInt("BCRYPT_COST"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Reports: Reports{
			Enabled:  v.GetBool("REPORTS_ENABLED"),
			Schedule: v.GetString("REPORTS_SCHEDULE"),
		},
	}
}

// Validate checks invariants that must hold before the server starts.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return ErrSecretRequired
	}
	return nil
}
