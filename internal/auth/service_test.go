package auth

import (
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/taskdesk/taskdesk/internal/config"
	"github.com/taskdesk/taskdesk/internal/database/users"
	"github.com/taskdesk/taskdesk/internal/entities"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	tokens, err := NewTokenService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("failed to create token service: %v", err)
	}

	return NewService(users.NewRepository(db), tokens, config.Auth{BcryptCost: 4})
}

func TestService_CreateUser(t *testing.T) {
	svc := setupTestService(t)

	tests := []struct {
		name    string
		input   CreateUserInput
		wantErr error
	}{
		{
			name: "valid admin user",
			input: CreateUserInput{
				Name:     "Admin",
				Email:    "admin@example.com",
				Password: "password12345",
				Phone:    "555-0100",
				Role:     entities.UserRoleAdmin,
			},
			wantErr: nil,
		},
		{
			name: "missing name",
			input: CreateUserInput{
				Email:    "test@example.com",
				Password: "password12345",
				Phone:    "555-0100",
			},
			wantErr: ErrNameRequired,
		},
		{
			name: "missing email",
			input: CreateUserInput{
				Name:     "Test User",
				Password: "password12345",
				Phone:    "555-0100",
			},
			wantErr: ErrEmailRequired,
		},
		{
			name: "missing phone",
			input: CreateUserInput{
				Name:     "Test User",
				Email:    "test@example.com",
				Password: "password12345",
			},
			wantErr: ErrPhoneRequired,
		},
		{
			name: "invalid email format",
			input: CreateUserInput{
				Name:     "Test User",
				Email:    "not-an-email",
				Password: "password12345",
				Phone:    "555-0100",
			},
			wantErr: ErrEmailInvalid,
		},
		{
			name: "missing password",
			input: CreateUserInput{
				Name:  "Test User",
				Email: "test@example.com",
				Phone: "555-0100",
			},
			wantErr: ErrPasswordRequired,
		},
		{
			name: "invalid role",
			input: CreateUserInput{
				Name:     "Test User",
				Email:    "test@example.com",
				Password: "password12345",
				Phone:    "555-0100",
				Role:     entities.UserRole("viewer"),
			},
			wantErr: ErrInvalidRole,
		},
		{
			name: "duplicate email",
			input: CreateUserInput{
				Name:     "Second Admin",
				Email:    "admin@example.com",
				Password: "password12345",
				Phone:    "555-0101",
			},
			wantErr: ErrUserExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.CreateUser(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateUser() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr != nil {
				return
			}
			if user.ID == 0 {
				t.Error("CreateUser() should assign an ID")
			}
			if user.PasswordHash == tt.input.Password {
				t.Error("CreateUser() stored the plaintext password")
			}
			if user.Status != entities.UserStatusActive {
				t.Errorf("new user status = %q, want %q", user.Status, entities.UserStatusActive)
			}
		})
	}
}

func TestService_CreateUser_DefaultsToStaff(t *testing.T) {
	svc := setupTestService(t)

	user, err := svc.CreateUser(CreateUserInput{
		Name:     "Regular User",
		Email:    "regular@example.com",
		Password: "password12345",
		Phone:    "555-0102",
	})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if user.Role != entities.UserRoleStaff {
		t.Errorf("default role = %q, want %q", user.Role, entities.UserRoleStaff)
	}
}

func TestService_CreateUser_NormalizesEmail(t *testing.T) {
	svc := setupTestService(t)

	user, err := svc.CreateUser(CreateUserInput{
		Name:     "Mixed Case",
		Email:    "  Mixed.Case@Example.COM ",
		Password: "password12345",
		Phone:    "555-0103",
	})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if user.Email != "mixed.case@example.com" {
		t.Errorf("stored email = %q, want lowercase trimmed", user.Email)
	}

	// Same address with different casing must collide
	_, err = svc.CreateUser(CreateUserInput{
		Name:     "Duplicate",
		Email:    "MIXED.CASE@example.com",
		Password: "password12345",
		Phone:    "555-0104",
	})
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("CreateUser() error = %v, want %v", err, ErrUserExists)
	}
}

func TestService_Login(t *testing.T) {
	svc := setupTestService(t)

	if _, err := svc.CreateUser(CreateUserInput{
		Name:     "Login User",
		Email:    "login@example.com",
		Password: "correct-password",
		Phone:    "555-0105",
	}); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "valid credentials",
			email:    "login@example.com",
			password: "correct-password",
			wantErr:  nil,
		},
		{
			name:     "case-insensitive email",
			email:    "LOGIN@Example.com",
			password: "correct-password",
			wantErr:  nil,
		},
		{
			name:     "wrong password",
			email:    "login@example.com",
			password: "wrong-password",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "correct-password",
			wantErr:  ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, token, err := svc.Login(tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Login() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr != nil {
				return
			}
			if token == "" {
				t.Error("Login() returned empty token")
			}
			if user.Email != "login@example.com" {
				t.Errorf("Login() user email = %q", user.Email)
			}
		})
	}
}

func TestService_Login_InactiveAccount(t *testing.T) {
	svc := setupTestService(t)

	user, err := svc.CreateUser(CreateUserInput{
		Name:     "Former Employee",
		Email:    "former@example.com",
		Password: "still-remembers-it",
		Phone:    "555-0106",
	})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if _, err := svc.users.UpdateUser(user.ID, map[string]any{"status": entities.UserStatusInactive}); err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}

	_, _, err = svc.Login("former@example.com", "still-remembers-it")
	if !errors.Is(err, ErrAccountInactive) {
		t.Errorf("Login() error = %v, want %v", err, ErrAccountInactive)
	}
}

func TestService_Register_IssuesToken(t *testing.T) {
	svc := setupTestService(t)

	user, token, err := svc.Register(CreateUserInput{
		Name:     "New Hire",
		Email:    "hire@example.com",
		Password: "p1",
		Phone:    "555-0107",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if token == "" {
		t.Fatal("Register() returned empty token")
	}

	claims, err := svc.tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("claims.UserID = %d, want %d", claims.UserID, user.ID)
	}
}

func TestService_HasUsers(t *testing.T) {
	svc := setupTestService(t)

	has, err := svc.HasUsers()
	if err != nil {
		t.Fatalf("HasUsers() error = %v", err)
	}
	if has {
		t.Error("HasUsers() = true on empty database")
	}

	if _, err := svc.CreateUser(CreateUserInput{
		Name:     "First",
		Email:    "first@example.com",
		Password: "password12345",
		Phone:    "555-0108",
	}); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	has, err = svc.HasUsers()
	if err != nil {
		t.Fatalf("HasUsers() error = %v", err)
	}
	if !has {
		t.Error("HasUsers() = false after creating a user")
	}
}
