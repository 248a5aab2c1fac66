package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/xuri/excelize/v2"

	"github.com/svn-hms/complaint-service/internal/domain"
	"github.com/svn-hms/complaint-service/internal/repository"
	apperrors "github.com/svn-hms/complaint-service/pkg/util"
)

// ReportService aggregates ticket statistics and turnaround figures.
type ReportService struct {
	complaints  repository.ComplaintRepository
	departments repository.DepartmentRepository
}

// NewReportService constructs the service.
func NewReportService(complaints repository.ComplaintRepository, departments repository.DepartmentRepository) *ReportService {
	return &ReportService{complaints: complaints, departments: departments}
}

// DepartmentPriorityReport is the single-bucket count response.
type DepartmentPriorityReport struct {
	Department      string `json:"department"`
	Priority        string `json:"priority"`
	ResolvedTickets int64  `json:"resolved_tickets"`
	PendingTickets  int64  `json:"pending_tickets"`
	TotalTickets    int64  `json:"total_tickets"`
}

// DepartmentPriorityStats counts tickets for one department and priority.
// Callers scoped to a department can only query their own.
func (s *ReportService) DepartmentPriorityStats(ctx context.Context, scope Scope, departmentName, priority string) (*DepartmentPriorityReport, error) {
	if departmentName == "" || priority == "" {
		return nil, apperrors.NewValidationError("both department and priority query parameters are required", nil)
	}
	parsedPriority, err := domain.ParseComplaintPriority(priority)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}

	dept, err := s.departments.GetByName(ctx, departmentName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("department", map[string]any{"department": departmentName})
		}
		return nil, err
	}
	if scope.Restricted() && (scope.DepartmentCode == nil || *scope.DepartmentCode != dept.Code) {
		return nil, apperrors.NewNotFound("department", map[string]any{"department": departmentName})
	}

	counts, err := s.complaints.DepartmentPriorityStats(ctx, dept.Code, parsedPriority)
	if err != nil {
		return nil, err
	}
	return &DepartmentPriorityReport{
		Department:      dept.Name,
		Priority:        string(parsedPriority),
		ResolvedTickets: counts.ResolvedTickets,
		PendingTickets:  counts.PendingTickets,
		TotalTickets:    counts.TotalTickets,
	}, nil
}

// StatsFilter carries the raw query parameters of the breakdown report.
type StatsFilter struct {
	Priority      string
	Status        string
	Department    string
	SubmittedDate string
	Limit         int
	Offset        int
}

// StatsReport is the grouped breakdown plus the echo of applied filters.
type StatsReport struct {
	Rows           []repository.StatsRow
	Total          int64
	Message        string
	FiltersApplied map[string]string
}

// AllStats breaks ticket counts down by department and priority.
func (s *ReportService) AllStats(ctx context.Context, scope Scope, input StatsFilter) (*StatsReport, error) {
	filter := repository.ComplaintFilter{Limit: input.Limit, Offset: input.Offset}
	applied := map[string]string{}

	if input.Priority != "" {
		priority, err := domain.ParseComplaintPriority(input.Priority)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": input.Priority})
		}
		filter.Priority = &priority
		applied["priority"] = string(priority)
	}
	if input.Status != "" {
		status, err := domain.ParseComplaintStatus(input.Status)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": input.Status})
		}
		filter.Status = &status
		applied["status"] = string(status)
	}
	if input.Department != "" {
		filter.DepartmentName = &input.Department
		applied["department"] = input.Department
	}
	if input.SubmittedDate != "" {
		day, err := time.Parse("2006-01-02", input.SubmittedDate)
		if err != nil {
			return nil, apperrors.NewValidationError("Invalid date format. Use YYYY-MM-DD",
				map[string]any{"submitted_date": input.SubmittedDate})
		}
		filter.SubmittedDate = &day
		applied["submitted_date"] = input.SubmittedDate
	}
	scope.Apply(&filter)

	rows, total, err := s.complaints.GroupedStats(ctx, filter)
	if err != nil {
		return nil, err
	}

	report := &StatsReport{Rows: rows, Total: total, FiltersApplied: applied}
	if len(rows) == 0 {
		report.Message = "no complaints found matching the provided filters"
	}
	return report, nil
}

// ExportStats renders the full grouped breakdown as an xlsx workbook.
func (s *ReportService) ExportStats(ctx context.Context, scope Scope, input StatsFilter) ([]byte, error) {
	input.Limit = 10000
	input.Offset = 0
	report, err := s.AllStats(ctx, scope, input)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Department Stats"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Department", "Priority", "Resolved Tickets", "Pending Tickets", "Total Tickets"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, apperrors.NewInternalError(err)
		}
	}

	for rowIdx, row := range report.Rows {
		deptName := "Unassigned"
		if row.DepartmentName != nil {
			deptName = *row.DepartmentName
		}
		values := []any{deptName, string(row.Priority), row.ResolvedTickets, row.PendingTickets, row.TotalTickets}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, apperrors.NewInternalError(err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return buf.Bytes(), nil
}

// TATRow is one resolved-or-closed ticket with its turnaround time.
type TATRow struct {
	TicketID    string
	Department  string
	Priority    string
	Status      string
	SubmittedAt time.Time
	ResolvedAt  *time.Time
	TAT         string
}

// TATReport is the turnaround report over a date or clock window. Rows hold
// one page; TotalTickets counts the whole filtered set.
type TATReport struct {
	Rows           []TATRow
	TotalTickets   int64
	ResolvedCount  int64
	AverageTAT     string
	FiltersApplied map[string]string
}

// TurnaroundReport computes per-ticket and average resolution times within
// the requested window. Date and time parameters are all optional; see
// parseTATWindow for how they combine. The average covers the full filtered
// set, not just the returned page.
func (s *ReportService) TurnaroundReport(ctx context.Context, scope Scope, priority, date, startTime, endTime string, limit, offset int) (*TATReport, error) {
	filter, applied, err := parseTATWindow(date, startTime, endTime)
	if err != nil {
		return nil, err
	}
	if priority != "" {
		parsed, err := domain.ParseComplaintPriority(priority)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
		}
		filter.Priority = &parsed
		applied["priority"] = string(parsed)
	}
	scope.Apply(&filter)

	listFilter := filter
	listFilter.Limit = limit
	listFilter.Offset = offset
	records, total, err := s.complaints.List(ctx, listFilter)
	if err != nil {
		return nil, err
	}

	rows := make([]TATRow, 0, len(records))
	for _, record := range records {
		complaint := record.Complaint
		deptName := "Unassigned"
		if record.DepartmentName != nil {
			deptName = *record.DepartmentName
		}
		row := TATRow{
			TicketID:    complaint.TicketID,
			Department:  deptName,
			Priority:    string(complaint.Priority),
			Status:      string(complaint.Status),
			SubmittedAt: complaint.SubmittedAt,
			ResolvedAt:  complaint.ResolvedAt,
			TAT:         "-",
		}
		if complaint.ResolvedAt != nil &&
			(complaint.Status == domain.ComplaintStatusResolved || complaint.Status == domain.ComplaintStatusClosed) {
			row.TAT = FormatDuration(complaint.ResolvedAt.Sub(complaint.SubmittedAt))
		}
		rows = append(rows, row)
	}

	count, avgSeconds, err := s.complaints.ResolvedAverageTAT(ctx, filter)
	if err != nil {
		return nil, err
	}
	average := "-"
	if count > 0 {
		average = FormatDuration(time.Duration(avgSeconds * float64(time.Second)))
	}

	return &TATReport{
		Rows:           rows,
		TotalTickets:   total,
		ResolvedCount:  count,
		AverageTAT:     average,
		FiltersApplied: applied,
	}, nil
}

const clockLayout = "15:04"

// parseTATWindow turns the raw date/start/end query values into a complaint
// filter. A bare date filters a calendar day; a date with times bounds the
// window to absolute instants inside that day; times without a date match
// the clock portion of submitted_at across all days.
func parseTATWindow(date, startTime, endTime string) (repository.ComplaintFilter, map[string]string, error) {
	var filter repository.ComplaintFilter
	applied := map[string]string{}

	var day *time.Time
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return filter, nil, tatFormatError("Invalid date format", "date must be YYYY-MM-DD", "2025-03-21")
		}
		day = &parsed
		applied["date"] = date
	}

	if startTime != "" {
		if _, err := time.Parse(clockLayout, startTime); err != nil {
			return filter, nil, tatFormatError("Invalid start time format. Use HH:MM (24-hour)",
				"start_time must be HH:MM in 24-hour clock", "09:30")
		}
		applied["start_time"] = startTime
	}
	if endTime != "" {
		if _, err := time.Parse(clockLayout, endTime); err != nil {
			return filter, nil, tatFormatError("Invalid end time format. Use HH:MM (24-hour)",
				"end_time must be HH:MM in 24-hour clock", "17:00")
		}
		applied["end_time"] = endTime
	}

	hasTimes := startTime != "" || endTime != ""
	switch {
	case day != nil && hasTimes:
		start := startTime
		if start == "" {
			start = "00:00"
		}
		end := endTime
		if end == "" {
			end = "23:59"
		}
		from, _ := time.Parse(clockLayout, start)
		to, _ := time.Parse(clockLayout, end)
		windowFrom := day.Add(time.Duration(from.Hour())*time.Hour + time.Duration(from.Minute())*time.Minute)
		windowTo := day.Add(time.Duration(to.Hour())*time.Hour + time.Duration(to.Minute())*time.Minute + 59*time.Second)
		filter.SubmittedFrom = &windowFrom
		filter.SubmittedTo = &windowTo
	case day != nil:
		filter.SubmittedDate = day
	case hasTimes:
		start := startTime
		if start == "" {
			start = "00:00"
		}
		end := endTime
		if end == "" {
			end = "23:59"
		}
		filter.ClockFrom = &start
		filter.ClockTo = &end
	}

	return filter, applied, nil
}

func tatFormatError(message, detail, example string) error {
	return apperrors.NewValidationError(message, map[string]any{
		"error":        message,
		"message":      detail,
		"example":      example,
		"format_guide": "date=YYYY-MM-DD start_time=HH:MM end_time=HH:MM",
	})
}

// FormatDuration renders a duration as a human string, listing days, hours,
// minutes and seconds and omitting zero units. A zero or negative duration
// reads "0 seconds".
func FormatDuration(d time.Duration) string {
	total := int64(d.Seconds())
	if total <= 0 {
		return "0 seconds"
	}

	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	var parts []string
	appendUnit := func(value int64, singular string) {
		if value == 0 {
			return
		}
		unit := singular
		if value != 1 {
			unit += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", value, unit))
	}
	appendUnit(days, "day")
	appendUnit(hours, "hour")
	appendUnit(minutes, "minute")
	appendUnit(seconds, "second")

	if len(parts) == 0 {
		return "0 seconds"
	}
	return strings.Join(parts, ", ")
}
