package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/svn-hms/complaint-service/internal/api/dto"
	"github.com/svn-hms/complaint-service/internal/domain"
	"github.com/svn-hms/complaint-service/internal/repository"
	"github.com/svn-hms/complaint-service/internal/service"
	apperrors "github.com/svn-hms/complaint-service/pkg/util"
)

// DepartmentsHandler manages department registry endpoints.
type DepartmentsHandler struct {
	service *service.TaxonomyService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(taxonomyService *service.TaxonomyService) *DepartmentsHandler {
	return &DepartmentsHandler{service: taxonomyService}
}

// Create POST /departments.
func (h *DepartmentsHandler) Create(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	dept, err := h.service.CreateDepartment(c.Context(), service.DepartmentInput{
		Code:   req.DepartmentCode,
		Name:   req.DepartmentName,
		Status: req.Status,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewDepartmentResponse(dept)})
}

// Update PUT /departments/:code.
func (h *DepartmentsHandler) Update(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	dept, err := h.service.UpdateDepartment(c.Context(), c.Params("code"), service.DepartmentInput{
		Name:   req.DepartmentName,
		Status: req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentResponse(dept)})
}

// Get GET /departments/:code.
func (h *DepartmentsHandler) Get(c *fiber.Ctx) error {
	dept, err := h.service.GetDepartment(c.Context(), c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentResponse(dept)})
}

// List GET /departments.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	filter := repository.DepartmentFilter{}
	if status := c.Query("status"); status != "" {
		parsed, err := domain.ParseRecordStatus(status)
		if err != nil {
			return apperrors.NewValidationError("invalid status", map[string]any{"status": status})
		}
		filter.Status = &parsed
	}
	if name := c.Query("name"); name != "" {
		filter.Name = &name
	}
	if search := c.Query("search"); search != "" {
		filter.Search = &search
	}
	filter.Limit, filter.Offset = parsePagination(c)

	departments, total, err := h.service.ListDepartments(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(departments))
	for i := range departments {
		items = append(items, dto.NewDepartmentResponse(&departments[i]))
	}
	return c.JSON(paginated(c, total, filter.Limit, filter.Offset, items))
}

// Delete DELETE /departments/:code.
func (h *DepartmentsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteDepartment(c.Context(), c.Params("code")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
