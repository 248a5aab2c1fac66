package handlers

import (
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/svn-hms/complaint-service/internal/api/dto"
	"github.com/svn-hms/complaint-service/internal/auth"
	"github.com/svn-hms/complaint-service/internal/domain"
	"github.com/svn-hms/complaint-service/internal/repository"
	"github.com/svn-hms/complaint-service/internal/service"
	apperrors "github.com/svn-hms/complaint-service/pkg/util"
)

// ComplaintsHandler manages ticket endpoints.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// Create POST /complaints. Anonymous submissions are allowed; authenticated
// callers are recorded by username. Photos arrive as multipart "images" parts.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	submittedBy := req.SubmittedBy
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.User != nil {
		submittedBy = principal.User.Username
	}

	images, err := readImageUploads(c)
	if err != nil {
		return err
	}

	record, err := h.service.Create(c.Context(), service.ComplaintCreateInput{
		RoomID:      req.RoomID,
		IssueType:   req.IssueType,
		Description: req.Description,
		Priority:    req.Priority,
		SubmittedBy: submittedBy,
		Images:      images,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": h.withImages(c, record)})
}

// Update PUT /complaints/:ticket_id.
func (h *ComplaintsHandler) Update(c *fiber.Ctx) error {
	scope, err := callerScope(c)
	if err != nil {
		return err
	}
	var req dto.UpdateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	images, err := readImageUploads(c)
	if err != nil {
		return err
	}

	record, err := h.service.Update(c.Context(), scope, c.Params("ticket_id"), service.ComplaintUpdateInput{
		Status:             req.Status,
		Description:        req.Description,
		Priority:           req.Priority,
		AssignedDepartment: req.AssignedDepartment,
		AssignedStaff:      req.AssignedStaff,
		Remarks:            req.Remarks,
		Images:             images,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.withImages(c, record)})
}

// Get GET /complaints/:ticket_id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	scope, err := callerScope(c)
	if err != nil {
		return err
	}
	record, err := h.service.Get(c.Context(), scope, c.Params("ticket_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.withImages(c, record)})
}

// List GET /complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	scope, err := callerScope(c)
	if err != nil {
		return err
	}
	filter, err := parseComplaintFilter(c)
	if err != nil {
		return err
	}
	return h.list(c, scope, filter)
}

// ByStatus GET /complaints/by_status?status=open.
func (h *ComplaintsHandler) ByStatus(c *fiber.Ctx) error {
	scope, err := callerScope(c)
	if err != nil {
		return err
	}
	raw := c.Query("status")
	if raw == "" {
		return apperrors.NewValidationError("status query parameter is required", nil)
	}
	status, err := domain.ParseComplaintStatus(raw)
	if err != nil {
		return apperrors.NewValidationError("invalid status", map[string]any{"status": raw})
	}
	filter, err := parseComplaintFilter(c)
	if err != nil {
		return err
	}
	filter.Status = &status
	return h.list(c, scope, filter)
}

// ByPriority GET /complaints/by_priority?priority=high.
func (h *ComplaintsHandler) ByPriority(c *fiber.Ctx) error {
	scope, err := callerScope(c)
	if err != nil {
		return err
	}
	raw := c.Query("priority")
	if raw == "" {
		return apperrors.NewValidationError("priority query parameter is required", nil)
	}
	priority, err := domain.ParseComplaintPriority(raw)
	if err != nil {
		return apperrors.NewValidationError("invalid priority", map[string]any{"priority": raw})
	}
	filter, err := parseComplaintFilter(c)
	if err != nil {
		return err
	}
	filter.Priority = &priority
	return h.list(c, scope, filter)
}

// Delete DELETE /complaints/:ticket_id.
func (h *ComplaintsHandler) Delete(c *fiber.Ctx) error {
	scope, err := callerScope(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), scope, c.Params("ticket_id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ComplaintsHandler) list(c *fiber.Ctx, scope service.Scope, filter repository.ComplaintFilter) error {
	records, total, err := h.service.List(c.Context(), scope, filter)
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintResponse, 0, len(records))
	for i := range records {
		items = append(items, dto.NewComplaintResponse(&records[i]))
	}
	return c.JSON(paginated(c, total, filter.Limit, filter.Offset, items))
}

// withImages decorates the detail payload with its uploaded photos. Image
// fetch failures degrade to the bare ticket.
func (h *ComplaintsHandler) withImages(c *fiber.Ctx, record *repository.ComplaintRecord) dto.ComplaintResponse {
	resp := dto.NewComplaintResponse(record)
	images, err := h.service.Images(c.Context(), record.Complaint.TicketID)
	if err != nil {
		return resp
	}
	return resp.WithImages(images)
}

func callerScope(c *fiber.Ctx) (service.Scope, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return service.Scope{}, apperrors.NewUnauthorized("authentication credentials were not provided")
	}
	return service.ScopeFor(principal.User), nil
}

func parseComplaintFilter(c *fiber.Ctx) (repository.ComplaintFilter, error) {
	filter := repository.ComplaintFilter{OrderBy: c.Query("ordering")}

	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseComplaintStatus(raw)
		if err != nil {
			return filter, apperrors.NewValidationError("invalid status", map[string]any{"status": raw})
		}
		filter.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority, err := domain.ParseComplaintPriority(raw)
		if err != nil {
			return filter, apperrors.NewValidationError("invalid priority", map[string]any{"priority": raw})
		}
		filter.Priority = &priority
	}
	if issueType := c.Query("issue_type"); issueType != "" {
		filter.IssueType = &issueType
	}
	if dept := c.Query("department"); dept != "" {
		filter.DepartmentName = &dept
	}
	if ward := c.Query("ward"); ward != "" {
		filter.Ward = &ward
	}
	if block := c.Query("block"); block != "" {
		filter.Block = &block
	}
	if search := c.Query("search"); search != "" {
		filter.Search = &search
	}
	if raw := c.Query("submitted_date"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, apperrors.NewValidationError("Invalid date format. Use YYYY-MM-DD",
				map[string]any{"submitted_date": raw})
		}
		filter.SubmittedDate = &day
	}
	filter.Limit, filter.Offset = parsePagination(c)
	return filter, nil
}

// readImageUploads collects multipart "images" parts. JSON requests simply
// have no multipart form and yield no uploads.
func readImageUploads(c *fiber.Ctx) ([]service.ImageUpload, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperrors.NewValidationError("invalid multipart form", nil)
	}

	var uploads []service.ImageUpload
	for _, header := range form.File["images"] {
		file, err := header.Open()
		if err != nil {
			return nil, apperrors.NewValidationError("unreadable image upload",
				map[string]any{"images": header.Filename})
		}
		data, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			return nil, apperrors.NewValidationError("unreadable image upload",
				map[string]any{"images": header.Filename})
		}
		uploads = append(uploads, service.ImageUpload{FileName: header.Filename, Data: data})
	}
	return uploads, nil
}
