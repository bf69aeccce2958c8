package models

import "time"

// Role is the database-level enumerated type assigned through RoleMapping.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleStaff   Role = "STAFF"
)

// Action is a capability checked against the static permission table.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// rolePermissions is the static capability table: ADMIN and MANAGER have full
// CRUD, STAFF is read-only.
var rolePermissions = map[Role][]Action{
	RoleAdmin:   {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
	RoleManager: {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
	RoleStaff:   {ActionRead},
}

// HasPermission reports whether the given role may perform the given action.
// It is a pure lookup with no state.
func HasPermission(role Role, action Action) bool {
	for _, a := range rolePermissions[role] {
		if a == action {
			return true
		}
	}
	return false
}

// ValidRole reports whether s names one of the known roles.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// User represents a row in Users, optionally joined with RoleMapping.
type User struct {
	UserID       string    `json:"user_id" db:"user_id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash *string   `json:"-" db:"password"` // '-' means don't send in JSON response
	Dob          time.Time `json:"dob" db:"dob"`
	Image        *string   `json:"image,omitempty" db:"image"`
	Role         *Role     `json:"role,omitempty"`    // From RoleMapping join
	RoleID       *string   `json:"role_id,omitempty"` // From RoleMapping join
}

// RoleMapping represents a row in RoleMapping. A user has at most one role.
type RoleMapping struct {
	RoleID string `json:"role_id" db:"role_id"`
	UserID string `json:"user_id" db:"user_id"`
	Role   Role   `json:"role" db:"role"`
}
