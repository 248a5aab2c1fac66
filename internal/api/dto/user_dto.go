package dto

import (
	"github.com/svn-hms/complaint-service/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// MessageResponse is a bare detail envelope.
type MessageResponse struct {
	Detail string `json:"detail"`
}

// UserProfileResponse describes the authenticated account.
type UserProfileResponse struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Role       string  `json:"role"`
	Department *string `json:"department"`
}

// NewUserProfileResponse maps a user to its profile payload. departmentName
// is nil for accounts without a department.
func NewUserProfileResponse(user *domain.User, departmentName *string) UserProfileResponse {
	return UserProfileResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Role:       user.Role.Display(),
		Department: departmentName,
	}
}

// CreateUserRequest is the admin account-creation payload.
type CreateUserRequest struct {
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Password       string  `json:"password"`
	Role           string  `json:"role"`
	DepartmentCode *string `json:"department_code"`
}

// StaffResponse is one staff row of the department staff listing.
type StaffResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// NewStaffResponses maps users to staff rows.
func NewStaffResponses(users []domain.User) []StaffResponse {
	result := make([]StaffResponse, 0, len(users))
	for _, u := range users {
		result = append(result, StaffResponse{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		})
	}
	return result
}
