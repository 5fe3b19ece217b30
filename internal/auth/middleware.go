package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taskdesk/taskdesk/internal/entities"
)

// Context keys for identity data attached by the middleware
const (
	ContextKeyUserID = "auth_user_id"
	ContextKeyEmail  = "auth_email"
	ContextKeyRole   = "auth_role"
	ContextKeyName   = "auth_name"
)

// Middleware authenticates requests from bearer tokens. Verification is
// purely against the token signature; the user record is not re-read.
type Middleware struct {
	tokens *TokenService
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(tokens *TokenService) *Middleware {
	return &Middleware{tokens: tokens}
}

// Handler returns a Gin middleware that requires a valid bearer token
// and attaches the token claims to the request context.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.extractClaims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "authentication required",
			})
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyRole, claims.Role)
		c.Set(ContextKeyName, claims.Name)
		c.Next()
	}
}

// extractClaims parses "Authorization: Bearer <token>" and verifies the
// token. Missing header, malformed header and failed verification are
// all reported the same way.
func (m *Middleware) extractClaims(c *gin.Context) (*Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, false
	}

	claims, err := m.tokens.Verify(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}

// RequireRole returns a middleware that rejects callers whose role is
// not in the given set. Must run after Handler.
func (m *Middleware) RequireRole(roles ...entities.UserRole) gin.HandlerFunc {
	roleSet := make(map[entities.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		if !roleSet[GetUserRole(c)] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "access denied",
			})
			return
		}
		c.Next()
	}
}

// Helper functions to extract identity data from the Gin context

// GetUserID retrieves the authenticated user's ID from the context.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyUserID); exists {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return 0
}

// GetUserRole retrieves the authenticated user's role from the context.
func GetUserRole(c *gin.Context) entities.UserRole {
	if r, exists := c.Get(ContextKeyRole); exists {
		if role, ok := r.(entities.UserRole); ok {
			return role
		}
	}
	return ""
}

// GetUserName retrieves the authenticated user's display name.
func GetUserName(c *gin.Context) string {
	if n, exists := c.Get(ContextKeyName); exists {
		if name, ok := n.(string); ok {
			return name
		}
	}
	return ""
}

// GetUserEmail retrieves the authenticated user's email.
func GetUserEmail(c *gin.Context) string {
	if e, exists := c.Get(ContextKeyEmail); exists {
		if email, ok := e.(string); ok {
			return email
		}
	}
	return ""
}
