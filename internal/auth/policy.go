package auth

import (
	"github.com/taskdesk/taskdesk/internal/entities"
)

// Operation names a protected mutation or read the policy knows about.
type Operation string

const (
	OpTaskList   Operation = "task:list"
	OpTaskCreate Operation = "task:create"
	OpTaskUpdate Operation = "task:update"
	OpTaskDelete Operation = "task:delete"
	OpUserList   Operation = "user:list"
	OpUserCreate Operation = "user:create"
	OpUserUpdate Operation = "user:update"
	OpUserDelete Operation = "user:delete"
)

// Decision is the outcome of a policy rule for a role.
type Decision int

const (
	// Deny rejects the operation outright.
	Deny Decision = iota
	// Allow permits the operation on any record.
	Allow
	// AllowOwn permits the operation only on records the caller owns
	// (the task assigned to them, or their own user record).
	AllowOwn
)

// rules is the closed policy table. Roles branch here and nowhere
// else; handlers consult the table instead of comparing role strings.
var rules = map[Operation]map[entities.UserRole]Decision{
	OpTaskList: {
		entities.UserRoleAdmin: Allow,
		entities.UserRoleStaff: AllowOwn,
	},
	OpTaskCreate: {
		entities.UserRoleAdmin: Allow,
	},
	OpTaskUpdate: {
		entities.UserRoleAdmin: Allow,
		entities.UserRoleStaff: AllowOwn,
	},
	OpTaskDelete: {
		entities.UserRoleAdmin: Allow,
	},
	OpUserList: {
		entities.UserRoleAdmin: Allow,
	},
	OpUserCreate: {
		entities.UserRoleAdmin: Allow,
	},
	OpUserUpdate: {
		entities.UserRoleAdmin: Allow,
		entities.UserRoleStaff: AllowOwn,
	},
	OpUserDelete: {
		entities.UserRoleAdmin: Allow,
	},
}

// Can evaluates the policy for a role, operation and ownership flag.
// Unknown roles and operations are denied.
func Can(role entities.UserRole, op Operation, owns bool) bool {
	switch rules[op][role] {
	case Allow:
		return true
	case AllowOwn:
		return owns
	default:
		return false
	}
}

// TaskScope returns the assignee filter for list/dashboard reads:
// 0 (unscoped) for roles that see everything, the caller's own ID
// otherwise.
func TaskScope(role entities.UserRole, userID uint) uint {
	if rules[OpTaskList][role] == Allow {
		return 0
	}
	return userID
}

// taskUpdateFields is the per-role allow-list for task mutations.
// GivenBy and CreatedBy are identity snapshots, immutable for everyone.
var taskUpdateFields = map[entities.UserRole]map[string]bool{
	entities.UserRoleAdmin: {
		"task":            true,
		"date_allocation": true,
		"given_to":        true,
		"target_date":     true,
		"steps_taken":     true,
		"last_updated":    true,
		"next_update":     true,
		"priority":        true,
		"status":          true,
	},
	entities.UserRoleStaff: {
		"steps_taken":  true,
		"status":       true,
		"last_updated": true,
	},
}

// CanUpdateTaskField reports whether the role may mutate the given
// task column.
func CanUpdateTaskField(role entities.UserRole, field string) bool {
	return taskUpdateFields[role][field]
}

// userUpdateFields is the allow-list for user mutations. Only admins
// may touch role and status; users editing their own record are
// limited to profile fields.
var userUpdateFields = map[entities.UserRole]map[string]bool{
	entities.UserRoleAdmin: {
		"name":       true,
		"email":      true,
		"phone":      true,
		"department": true,
		"role":       true,
		"status":     true,
		"password":   true,
	},
	entities.UserRoleStaff: {
		"name":       true,
		"email":      true,
		"phone":      true,
		"department": true,
		"password":   true,
	},
}

// CanUpdateUserField reports whether the role may mutate the given
// user attribute.
func CanUpdateUserField(role entities.UserRole, field string) bool {
	return userUpdateFields[role][field]
}
