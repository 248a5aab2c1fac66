package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/svn-hms/complaint-service/internal/api/dto"
	"github.com/svn-hms/complaint-service/internal/service"
)

// ReportsHandler serves statistics and turnaround reports.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// DepartmentPriorityStats GET /report/department_priority_stats.
func (h *ReportsHandler) DepartmentPriorityStats(c *fiber.Ctx) error {
	scope, err := callerScope(c)
	if err != nil {
		return err
	}
	report, err := h.service.DepartmentPriorityStats(c.Context(), scope, c.Query("department"), c.Query("priority"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

// AllStats GET /report/all_department_stats.
func (h *ReportsHandler) AllStats(c *fiber.Ctx) error {
	scope, err := callerScope(c)
	if err != nil {
		return err
	}
	filter := statsFilter(c)
	report, err := h.service.AllStats(c.Context(), scope, filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewStatsReportResponse(report))
}

// Export GET /report/export. Streams the breakdown as an xlsx workbook.
func (h *ReportsHandler) Export(c *fiber.Ctx) error {
	scope, err := callerScope(c)
	if err != nil {
		return err
	}
	filter := statsFilter(c)
	workbook, err := h.service.ExportStats(c.Context(), scope, filter)
	if err != nil {
		return err
	}

	fileName := fmt.Sprintf("department_stats_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	return c.Send(workbook)
}

// TurnaroundReport GET /TATView/all_department_TATS.
func (h *ReportsHandler) TurnaroundReport(c *fiber.Ctx) error {
	scope, err := callerScope(c)
	if err != nil {
		return err
	}
	limit, offset := parsePagination(c)
	report, err := h.service.TurnaroundReport(c.Context(), scope,
		c.Query("priority"), c.Query("date"), c.Query("start_time"), c.Query("end_time"), limit, offset)
	if err != nil {
		return err
	}
	page := paginated(c, report.TotalTickets, limit, offset, nil)
	return c.JSON(dto.NewTATReportResponse(report, page.Next, page.Previous))
}

func statsFilter(c *fiber.Ctx) service.StatsFilter {
	limit, offset := parsePagination(c)
	return service.StatsFilter{
		Priority:      c.Query("priority"),
		Status:        c.Query("status"),
		Department:    c.Query("department"),
		SubmittedDate: c.Query("submitted_date"),
		Limit:         limit,
		Offset:        offset,
	}
}
