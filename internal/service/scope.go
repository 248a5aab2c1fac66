package service

import (
	"github.com/svn-hms/complaint-service/internal/domain"
	"github.com/svn-hms/complaint-service/internal/repository"
)

// Scope carries the row-level visibility of the caller. Department admins and
// staff only see complaints assigned to their own department; master admins
// and unprivileged accounts are unrestricted.
type Scope struct {
	Role           domain.Role
	DepartmentCode *string
}

// ScopeFor derives the visibility scope from an authenticated user.
func ScopeFor(user *domain.User) Scope {
	scope := Scope{Role: user.Role}
	switch user.Role {
	case domain.RoleDeptAdmin, domain.RoleStaff:
		scope.DepartmentCode = user.DepartmentCode
	case domain.RoleMasterAdmin, domain.RoleUser:
	}
	return scope
}

// Restricted reports whether the scope narrows visibility to one department.
func (s Scope) Restricted() bool {
	return s.DepartmentCode != nil
}

// Apply narrows a complaint filter to the scope's department.
func (s Scope) Apply(filter *repository.ComplaintFilter) {
	if s.DepartmentCode != nil {
		filter.DepartmentCode = s.DepartmentCode
	}
}

// Covers reports whether a complaint's assigned department is visible.
func (s Scope) Covers(assignedDepartment *string) bool {
	if s.DepartmentCode == nil {
		return true
	}
	return assignedDepartment != nil && *assignedDepartment == *s.DepartmentCode
}
