package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskdesk/taskdesk/internal/entities"
)

// DefaultTokenExpiry is the validity window for issued tokens.
const DefaultTokenExpiry = 7 * 24 * time.Hour

var (
	ErrSecretRequired = errors.New("token secret is required")

	// ErrInvalidToken covers every verification failure: bad signature,
	// expired, malformed. Callers must not be able to distinguish the
	// cases through a response.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the identity payload embedded in a signed bearer token.
type Claims struct {
	UserID uint              `json:"uid"`
	Email  string            `json:"email"`
	Role   entities.UserRole `json:"role"`
	Name   string            `json:"name"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-limited bearer tokens.
type TokenService struct {
	secret []byte
	expiry time.Duration
}

// NewTokenService creates a token service. The secret is mandatory;
// a missing secret must abort startup instead of silently falling back
// to a guessable default.
func NewTokenService(secret string, expiry time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, ErrSecretRequired
	}
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}
	return &TokenService{secret: []byte(secret), expiry: expiry}, nil
}

// Issue signs a claim set for the user with the configured validity
// window.
func (s *TokenService) Issue(user *entities.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature integrity and expiry and returns the claims.
// Every failure mode returns ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
