package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/taskdesk/taskdesk/internal/config"
	"github.com/taskdesk/taskdesk/internal/database/users"
	"github.com/taskdesk/taskdesk/internal/entities"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	ErrUserExists      = errors.New("user already exists with this email")
	ErrNameRequired    = errors.New("name is required")
	ErrEmailRequired   = errors.New("email is required")
	ErrEmailInvalid    = errors.New("invalid email format")
	ErrPhoneRequired   = errors.New("phone is required")
	ErrInvalidRole     = errors.New("invalid role")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrAccountInactive = errors.New("account is deactivated")

	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password, so login responses cannot be used to probe which
	// emails exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUserInput carries the fields accepted when provisioning a user.
type CreateUserInput struct {
	Name       string
	Email      string
	Password   string
	Phone      string
	Department string
	Role       entities.UserRole
}

// Service handles authentication and user provisioning.
type Service struct {
	users  *users.Repository
	tokens *TokenService
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(repo *users.Repository, tokens *TokenService, cfg config.Auth) *Service {
	return &Service{
		users:  repo,
		tokens: tokens,
		config: cfg,
	}
}

// CreateUser validates input, hashes the password and persists a new
// user. The plaintext password never reaches the store.
func (s *Service) CreateUser(in CreateUserInput) (*entities.User, error) {
	if in.Name == "" {
		return nil, ErrNameRequired
	}
	if in.Email == "" {
		return nil, ErrEmailRequired
	}
	if in.Phone == "" {
		return nil, ErrPhoneRequired
	}

	email := NormalizeEmail(in.Email)
	// RFC 5321 length limit is 254
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}

	role := in.Role
	if role == "" {
		role = entities.UserRoleStaff
	}
	if !entities.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	// Check for an existing account first so the common case gets a
	// clean error; the unique index still catches races.
	if _, err := s.users.GetUserByEmail(email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, users.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := HashPassword(in.Password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Name:         in.Name,
		Email:        email,
		PasswordHash: passwordHash,
		Phone:        in.Phone,
		Department:   in.Department,
		Role:         role,
		Status:       entities.UserStatusActive,
	}

	if err := s.users.CreateUser(user); err != nil {
		if errors.Is(err, users.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Register provisions a user and issues a token for it.
func (s *Service) Register(in CreateUserInput) (*entities.User, string, error) {
	user, err := s.CreateUser(in)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return user, token, nil
}

// Login validates credentials and issues a token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(email, password string) (*entities.User, string, error) {
	user, err := s.users.GetUserByEmail(NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsActive() {
		return nil, "", ErrAccountInactive
	}

	if !CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// HasUsers returns true if any users exist in the database.
func (s *Service) HasUsers() (bool, error) {
	count, err := s.users.CountUsers()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
