package dto

import (
	"time"

	"github.com/svn-hms/complaint-service/internal/domain"
)

// DepartmentRequest is the create/update payload for a department.
type DepartmentRequest struct {
	DepartmentCode string `json:"department_code"`
	DepartmentName string `json:"department_name"`
	Status         string `json:"status"`
}

// DepartmentResponse payload.
type DepartmentResponse struct {
	DepartmentCode string    `json:"department_code"`
	DepartmentName string    `json:"department_name"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewDepartmentResponse maps a department.
func NewDepartmentResponse(dept *domain.Department) DepartmentResponse {
	return DepartmentResponse{
		DepartmentCode: dept.Code,
		DepartmentName: dept.Name,
		Status:         string(dept.Status),
		CreatedAt:      dept.CreatedAt,
		UpdatedAt:      dept.UpdatedAt,
	}
}

// IssueCategoryRequest is the create/update payload for an issue category.
type IssueCategoryRequest struct {
	IssueCategoryCode string `json:"issue_category_code"`
	DepartmentCode    string `json:"department_code"`
	IssueCategoryName string `json:"issue_category_name"`
	Status            string `json:"status"`
}

// IssueCategoryResponse payload.
type IssueCategoryResponse struct {
	IssueCategoryCode string    `json:"issue_category_code"`
	DepartmentCode    string    `json:"department_code"`
	IssueCategoryName string    `json:"issue_category_name"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewIssueCategoryResponse maps a category.
func NewIssueCategoryResponse(cat *domain.IssueCategory) IssueCategoryResponse {
	return IssueCategoryResponse{
		IssueCategoryCode: cat.Code,
		DepartmentCode:    cat.DepartmentCode,
		IssueCategoryName: cat.Name,
		Status:            string(cat.Status),
		CreatedAt:         cat.CreatedAt,
		UpdatedAt:         cat.UpdatedAt,
	}
}
