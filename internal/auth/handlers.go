package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskdesk/taskdesk/internal/audit"
	"github.com/taskdesk/taskdesk/internal/entities"
)

// AuthController handles the login and registration endpoints.
type AuthController struct {
	service *Service
	auditor *audit.Service
}

// NewAuthController creates a new authentication controller.
func NewAuthController(service *Service, auditor *audit.Service) *AuthController {
	return &AuthController{service: service, auditor: auditor}
}

// RegisterRoutes registers the public authentication routes.
func (ac *AuthController) RegisterRoutes(router gin.IRouter) {
	router.POST("/auth/login", ac.Login)
	router.POST("/auth/register", ac.Register)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Password   string            `json:"password"`
	Phone      string            `json:"phone"`
	Department string            `json:"department"`
	Role       entities.UserRole `json:"role"`
}

// Login authenticates email+password credentials and returns a bearer
// token. Unknown email and wrong password get an identical response.
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
		return
	}

	user, token, err := ac.service.Login(req.Email, req.Password)
	if err != nil {
		ac.logAuth(0, "login", c, false)
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"message": ErrInvalidCredentials.Error()})
		case errors.Is(err, ErrAccountInactive):
			c.JSON(http.StatusUnauthorized, gin.H{"message": ErrAccountInactive.Error()})
		default:
			log.Printf("Internal error (login): %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		}
		return
	}

	ac.logAuth(user.ID, "login", c, true)
	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"token":   token,
		"user":    user,
	})
}

// Register creates an account and returns a bearer token for it.
func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	user, token, err := ac.service.Register(CreateUserInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		Department: req.Department,
		Role:       req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUserExists),
			errors.Is(err, ErrNameRequired),
			errors.Is(err, ErrEmailRequired),
			errors.Is(err, ErrEmailInvalid),
			errors.Is(err, ErrPhoneRequired),
			errors.Is(err, ErrInvalidRole),
			errors.Is(err, ErrPasswordRequired),
			errors.Is(err, ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			log.Printf("Internal error (register): %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		}
		return
	}

	ac.logAuth(user.ID, "register", c, true)
	c.JSON(http.StatusCreated, gin.H{
		"message": "user registered successfully",
		"token":   token,
		"user":    user,
	})
}

func (ac *AuthController) logAuth(userID uint, action string, c *gin.Context, success bool) {
	if ac.auditor == nil {
		return
	}
	ac.auditor.LogAuth(userID, action, c.ClientIP(), c.Request.UserAgent(), success)
}
