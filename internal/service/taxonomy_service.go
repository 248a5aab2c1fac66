package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/svn-hms/complaint-service/internal/domain"
	"github.com/svn-hms/complaint-service/internal/repository"
	apperrors "github.com/svn-hms/complaint-service/pkg/util"
)

// TaxonomyService manages the department and issue-category registries that
// complaints are routed through.
type TaxonomyService struct {
	departments repository.DepartmentRepository
	categories  repository.IssueCategoryRepository
}

// NewTaxonomyService constructs the service.
func NewTaxonomyService(departments repository.DepartmentRepository, categories repository.IssueCategoryRepository) *TaxonomyService {
	return &TaxonomyService{departments: departments, categories: categories}
}

// DepartmentInput is a create/update payload for a department.
type DepartmentInput struct {
	Code   string
	Name   string
	Status string
}

func (in *DepartmentInput) normalize() (domain.RecordStatus, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)

	details := map[string]any{}
	if in.Code == "" {
		details["department_code"] = "this field is required"
	}
	if in.Name == "" {
		details["department_name"] = "this field is required"
	}
	if len(details) > 0 {
		return "", apperrors.NewValidationError("missing required fields", details)
	}

	if in.Status == "" {
		return domain.StatusActive, nil
	}
	status, err := domain.ParseRecordStatus(in.Status)
	if err != nil {
		return "", apperrors.NewValidationError("invalid status", map[string]any{"status": in.Status})
	}
	return status, nil
}

// CreateDepartment registers a department. Names are unique case-insensitively.
func (s *TaxonomyService) CreateDepartment(ctx context.Context, input DepartmentInput) (*domain.Department, error) {
	status, err := input.normalize()
	if err != nil {
		return nil, err
	}

	taken, err := s.departments.ExistsByName(ctx, input.Name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewValidationError("a department with this name already exists",
			map[string]any{"department_name": input.Name})
	}

	dept := &domain.Department{Code: input.Code, Name: input.Name, Status: status}
	if err := s.departments.Create(ctx, dept); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, apperrors.NewValidationError("a department with this code or name already exists", nil)
		}
		return nil, err
	}
	return dept, nil
}

// UpdateDepartment modifies an existing department.
func (s *TaxonomyService) UpdateDepartment(ctx context.Context, code string, input DepartmentInput) (*domain.Department, error) {
	input.Code = code
	status, err := input.normalize()
	if err != nil {
		return nil, err
	}

	dept, err := s.departments.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("department", nil)
		}
		return nil, err
	}

	taken, err := s.departments.ExistsByName(ctx, input.Name, code)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewValidationError("a department with this name already exists",
			map[string]any{"department_name": input.Name})
	}

	dept.Name = input.Name
	dept.Status = status
	if err := s.departments.Update(ctx, dept); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, apperrors.NewValidationError("a department with this name already exists", nil)
		}
		return nil, err
	}
	return dept, nil
}

// GetDepartment fetches a department by code.
func (s *TaxonomyService) GetDepartment(ctx context.Context, code string) (*domain.Department, error) {
	dept, err := s.departments.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("department", nil)
		}
		return nil, err
	}
	return dept, nil
}

// ListDepartments returns departments matching the filter plus the total.
func (s *TaxonomyService) ListDepartments(ctx context.Context, filter repository.DepartmentFilter) ([]domain.Department, int64, error) {
	return s.departments.List(ctx, filter)
}

// DeleteDepartment removes a department and cascades to its categories.
func (s *TaxonomyService) DeleteDepartment(ctx context.Context, code string) error {
	if err := s.departments.Delete(ctx, code); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("department", nil)
		}
		return err
	}
	return nil
}

// IssueCategoryInput is a create/update payload for an issue category.
type IssueCategoryInput struct {
	Code           string
	DepartmentCode string
	Name           string
	Status         string
}

func (in *IssueCategoryInput) normalize() (domain.RecordStatus, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.DepartmentCode = strings.TrimSpace(in.DepartmentCode)
	in.Name = strings.TrimSpace(in.Name)

	details := map[string]any{}
	if in.Code == "" {
		details["issue_category_code"] = "this field is required"
	}
	if in.DepartmentCode == "" {
		details["department_code"] = "this field is required"
	}
	if in.Name == "" {
		details["issue_category_name"] = "this field is required"
	}
	if len(details) > 0 {
		return "", apperrors.NewValidationError("missing required fields", details)
	}

	if in.Status == "" {
		return domain.StatusActive, nil
	}
	status, err := domain.ParseRecordStatus(in.Status)
	if err != nil {
		return "", apperrors.NewValidationError("invalid status", map[string]any{"status": in.Status})
	}
	return status, nil
}

// CreateIssueCategory registers a category under an existing department.
// Category names are unique case-insensitively across all departments so
// complaint routing by name is unambiguous.
func (s *TaxonomyService) CreateIssueCategory(ctx context.Context, input IssueCategoryInput) (*domain.IssueCategory, error) {
	status, err := input.normalize()
	if err != nil {
		return nil, err
	}

	if err := s.requireActiveDepartment(ctx, input.DepartmentCode); err != nil {
		return nil, err
	}

	taken, err := s.categories.ExistsByName(ctx, input.Name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewValidationError("an issue category with this name already exists",
			map[string]any{"issue_category_name": input.Name})
	}

	cat := &domain.IssueCategory{
		Code:           input.Code,
		DepartmentCode: input.DepartmentCode,
		Name:           input.Name,
		Status:         status,
	}
	if err := s.categories.Create(ctx, cat); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, apperrors.NewValidationError("an issue category with this code or name already exists", nil)
		}
		return nil, err
	}
	return cat, nil
}

// UpdateIssueCategory modifies an existing category.
func (s *TaxonomyService) UpdateIssueCategory(ctx context.Context, code string, input IssueCategoryInput) (*domain.IssueCategory, error) {
	input.Code = code
	status, err := input.normalize()
	if err != nil {
		return nil, err
	}

	cat, err := s.categories.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("issue category", nil)
		}
		return nil, err
	}

	if err := s.requireActiveDepartment(ctx, input.DepartmentCode); err != nil {
		return nil, err
	}

	taken, err := s.categories.ExistsByName(ctx, input.Name, code)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewValidationError("an issue category with this name already exists",
			map[string]any{"issue_category_name": input.Name})
	}

	cat.DepartmentCode = input.DepartmentCode
	cat.Name = input.Name
	cat.Status = status
	if err := s.categories.Update(ctx, cat); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, apperrors.NewValidationError("an issue category with this name already exists", nil)
		}
		return nil, err
	}
	return cat, nil
}

// requireActiveDepartment verifies a category's owning department exists and
// is active. Categories under an inactive department would silently route
// complaints to a department that no longer takes them.
func (s *TaxonomyService) requireActiveDepartment(ctx context.Context, code string) error {
	dept, err := s.departments.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("unknown department",
				map[string]any{"department_code": code})
		}
		return err
	}
	if dept.Status != domain.StatusActive {
		return apperrors.NewValidationError("cannot assign issue category to an inactive department",
			map[string]any{"department_code": code})
	}
	return nil
}

// GetIssueCategory fetches a category by code.
func (s *TaxonomyService) GetIssueCategory(ctx context.Context, code string) (*domain.IssueCategory, error) {
	cat, err := s.categories.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("issue category", nil)
		}
		return nil, err
	}
	return cat, nil
}

// ListIssueCategories returns categories matching the filter plus the total.
func (s *TaxonomyService) ListIssueCategories(ctx context.Context, filter repository.IssueCategoryFilter) ([]domain.IssueCategory, int64, error) {
	return s.categories.List(ctx, filter)
}

// DeleteIssueCategory removes a category.
func (s *TaxonomyService) DeleteIssueCategory(ctx context.Context, code string) error {
	if err := s.categories.Delete(ctx, code); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("issue category", nil)
		}
		return err
	}
	return nil
}
