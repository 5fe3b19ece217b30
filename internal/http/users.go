package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskdesk/taskdesk/internal/audit"
	"github.com/taskdesk/taskdesk/internal/auth"
	"github.com/taskdesk/taskdesk/internal/database/users"
	"github.com/taskdesk/taskdesk/internal/entities"
)

// UsersController handles user management endpoints.
type UsersController struct {
	users   *users.Repository
	service *auth.Service
	auditor *audit.Service
}

// NewUsersController creates a new users controller.
func NewUsersController(repo *users.Repository, service *auth.Service, auditor *audit.Service) *UsersController {
	return &UsersController{users: repo, service: service, auditor: auditor}
}

// GetUsers lists all users (admin only). Password hashes are never
// serialized.
func (uc *UsersController) GetUsers(c *gin.Context) {
	if !auth.Can(auth.GetUserRole(c), auth.OpUserList, false) {
		respondForbidden(c)
		return
	}

	result, err := uc.users.GetAllUsers()
	if err != nil {
		respondInternalError(c, err, "list users")
		return
	}

	c.JSON(http.StatusOK, result)
}

type createUserRequest struct {
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Password   string            `json:"password"`
	Phone      string            `json:"phone"`
	Department string            `json:"department"`
	Role       entities.UserRole `json:"role"`
}

// CreateUser provisions a user (admin only).
func (uc *UsersController) CreateUser(c *gin.Context) {
	if !auth.Can(auth.GetUserRole(c), auth.OpUserCreate, false) {
		respondForbidden(c)
		return
	}

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := uc.service.CreateUser(auth.CreateUserInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		Department: req.Department,
		Role:       req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			respondConflict(c, auth.ErrUserExists.Error())
		case errors.Is(err, auth.ErrNameRequired),
			errors.Is(err, auth.ErrEmailRequired),
			errors.Is(err, auth.ErrEmailInvalid),
			errors.Is(err, auth.ErrPhoneRequired),
			errors.Is(err, auth.ErrInvalidRole),
			errors.Is(err, auth.ErrPasswordRequired),
			errors.Is(err, auth.ErrPasswordTooLong):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "create user")
		}
		return
	}

	uc.logUser(c, "user_create", "Created user: "+user.Email, user.ID)
	respondCreated(c, user)
}

type updateUserRequest struct {
	Name       *string              `json:"name"`
	Email      *string              `json:"email"`
	Password   *string              `json:"password"`
	Phone      *string              `json:"phone"`
	Department *string              `json:"department"`
	Role       *entities.UserRole   `json:"role"`
	Status     *entities.UserStatus `json:"status"`
}

// UpdateUser mutates a user record. Admins may update anyone and any
// field; everyone else may update only their own profile fields (not
// role or status). Passwords are re-hashed before storage.
func (uc *UsersController) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	role := auth.GetUserRole(c)
	actorID := auth.GetUserID(c)
	if !auth.Can(role, auth.OpUserUpdate, actorID == id) {
		respondForbidden(c)
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = auth.NormalizeEmail(*req.Email)
	}
	if req.Password != nil {
		updates["password"] = *req.Password
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Department != nil {
		updates["department"] = *req.Department
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		respondBadRequest(c, "no fields to update")
		return
	}

	for field := range updates {
		if !auth.CanUpdateUserField(role, field) {
			respondForbidden(c)
			return
		}
	}

	if req.Role != nil && !entities.ValidRole(*req.Role) {
		respondBadRequest(c, auth.ErrInvalidRole.Error())
		return
	}
	if req.Status != nil && !entities.ValidStatus(*req.Status) {
		respondBadRequest(c, auth.ErrInvalidStatus.Error())
		return
	}

	// Hash replaces the plaintext before the map reaches the store.
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password, auth.DefaultBcryptCost)
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		delete(updates, "password")
		updates["password_hash"] = hash
	}

	user, err := uc.users.UpdateUser(id, updates)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUserNotFound):
			respondNotFound(c, "user")
		case errors.Is(err, users.ErrDuplicateEmail):
			respondConflict(c, auth.ErrUserExists.Error())
		default:
			respondInternalError(c, err, "update user")
		}
		return
	}

	uc.logUser(c, "user_update", "Updated user: "+user.Email, user.ID)
	c.JSON(http.StatusOK, user)
}

// DeleteUser removes a user record (admin only). Deleting your own
// account is refused to avoid locking yourself out.
func (uc *UsersController) DeleteUser(c *gin.Context) {
	role := auth.GetUserRole(c)
	if !auth.Can(role, auth.OpUserDelete, false) {
		respondForbidden(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if id == auth.GetUserID(c) {
		respondBadRequest(c, "cannot delete your own account")
		return
	}

	if err := uc.users.DeleteUser(id); err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "delete user")
		return
	}

	uc.logUser(c, "user_delete", "Deleted user", id)
	respondSuccess(c, "user deleted successfully")
}

func (uc *UsersController) logUser(c *gin.Context, action, description string, targetID uint) {
	if uc.auditor == nil {
		return
	}
	uc.auditor.LogUser(auth.GetUserID(c), action, description, targetID)
}
