package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of account roles. Permission checks match on these
// values exhaustively; unknown strings are rejected at the edge by ParseRole.
type Role string

const (
	RoleMasterAdmin Role = "master_admin"
	RoleDeptAdmin   Role = "dept_admin"
	RoleStaff       Role = "staff"
	RoleUser        Role = "user"
)

// ParseRole validates a raw role string.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleMasterAdmin, RoleDeptAdmin, RoleStaff, RoleUser:
		return Role(value), nil
	}
	return "", fmt.Errorf("unknown role %q", value)
}

// IsStaffRole reports whether the role implies the is_staff flag.
func (r Role) IsStaffRole() bool {
	switch r {
	case RoleMasterAdmin, RoleDeptAdmin, RoleStaff:
		return true
	}
	return false
}

// IsSuperuser reports whether the role implies the is_superuser flag.
func (r Role) IsSuperuser() bool {
	return r == RoleMasterAdmin
}

// Display renders the role for profile responses, e.g. "Master Admin".
func (r Role) Display() string {
	parts := strings.Split(string(r), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// User is an account able to authenticate against the service.
type User struct {
	ID             string
	Username       string
	Email          string
	FirstName      string
	LastName       string
	PasswordHash   string
	Role           Role
	DepartmentCode *string
	IsStaff        bool
	IsSuperuser    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
