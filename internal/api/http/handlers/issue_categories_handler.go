package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/svn-hms/complaint-service/internal/api/dto"
	"github.com/svn-hms/complaint-service/internal/domain"
	"github.com/svn-hms/complaint-service/internal/repository"
	"github.com/svn-hms/complaint-service/internal/service"
	apperrors "github.com/svn-hms/complaint-service/pkg/util"
)

// IssueCategoriesHandler manages issue-category registry endpoints.
type IssueCategoriesHandler struct {
	service *service.TaxonomyService
}

// NewIssueCategoriesHandler constructs handler.
func NewIssueCategoriesHandler(taxonomyService *service.TaxonomyService) *IssueCategoriesHandler {
	return &IssueCategoriesHandler{service: taxonomyService}
}

// Create POST /issue-category.
func (h *IssueCategoriesHandler) Create(c *fiber.Ctx) error {
	var req dto.IssueCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	cat, err := h.service.CreateIssueCategory(c.Context(), service.IssueCategoryInput{
		Code:           req.IssueCategoryCode,
		DepartmentCode: req.DepartmentCode,
		Name:           req.IssueCategoryName,
		Status:         req.Status,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewIssueCategoryResponse(cat)})
}

// Update PUT /issue-category/:code.
func (h *IssueCategoriesHandler) Update(c *fiber.Ctx) error {
	var req dto.IssueCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	cat, err := h.service.UpdateIssueCategory(c.Context(), c.Params("code"), service.IssueCategoryInput{
		DepartmentCode: req.DepartmentCode,
		Name:           req.IssueCategoryName,
		Status:         req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewIssueCategoryResponse(cat)})
}

// Get GET /issue-category/:code.
func (h *IssueCategoriesHandler) Get(c *fiber.Ctx) error {
	cat, err := h.service.GetIssueCategory(c.Context(), c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewIssueCategoryResponse(cat)})
}

// List GET /issue-category. Public so the complaint form can populate its
// category picker.
func (h *IssueCategoriesHandler) List(c *fiber.Ctx) error {
	filter := repository.IssueCategoryFilter{}
	if status := c.Query("status"); status != "" {
		parsed, err := domain.ParseRecordStatus(status)
		if err != nil {
			return apperrors.NewValidationError("invalid status", map[string]any{"status": status})
		}
		filter.Status = &parsed
	}
	if dept := c.Query("department_code"); dept != "" {
		filter.DepartmentCode = &dept
	}
	if name := c.Query("name"); name != "" {
		filter.Name = &name
	}
	if search := c.Query("search"); search != "" {
		filter.Search = &search
	}
	filter.Limit, filter.Offset = parsePagination(c)

	categories, total, err := h.service.ListIssueCategories(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.IssueCategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, dto.NewIssueCategoryResponse(&categories[i]))
	}
	return c.JSON(paginated(c, total, filter.Limit, filter.Offset, items))
}

// Delete DELETE /issue-category/:code.
func (h *IssueCategoriesHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteIssueCategory(c.Context(), c.Params("code")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
