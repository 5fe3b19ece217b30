package entities

import "time"

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleStaff UserRole = "staff"
)

// ValidRole reports whether the role is one of the known roles.
func ValidRole(r UserRole) bool {
	return r == UserRoleAdmin || r == UserRoleStaff
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// ValidStatus reports whether the status is one of the known statuses.
func ValidStatus(s UserStatus) bool {
	return s == UserStatusActive || s == UserStatusInactive
}

// User is an identity record. Email is normalized to lowercase before
// storage and made unique by the database index. The password hash is
// never serialized.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"size:100" json:"name"`
	Email        string     `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string     `gorm:"size:100" json:"-"`
	Phone        string     `gorm:"size:30" json:"phone"`
	Department   string     `gorm:"size:100" json:"department,omitempty"`
	Role         UserRole   `gorm:"index;size:20;default:'staff'" json:"role"`
	Status       UserStatus `gorm:"index;size:20;default:'active'" json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsActive reports whether the account may log in.
func (u *User) IsActive() bool {
	return u.Status != UserStatusInactive
}
