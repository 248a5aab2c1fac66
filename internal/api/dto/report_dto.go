package dto

import (
	"time"

	"github.com/svn-hms/complaint-service/internal/repository"
	"github.com/svn-hms/complaint-service/internal/service"
)

// StatsRowResponse is one (department, priority) bucket.
type StatsRowResponse struct {
	Department      string `json:"department"`
	Priority        string `json:"priority"`
	ResolvedTickets int64  `json:"resolved_tickets"`
	PendingTickets  int64  `json:"pending_tickets"`
	TotalTickets    int64  `json:"total_tickets"`
}

// StatsReportResponse is the grouped breakdown report.
type StatsReportResponse struct {
	Count          int64              `json:"count"`
	Results        []StatsRowResponse `json:"results"`
	Message        string             `json:"message,omitempty"`
	FiltersApplied map[string]string  `json:"filters_applied"`
}

// NewStatsReportResponse maps the service report.
func NewStatsReportResponse(report *service.StatsReport) StatsReportResponse {
	rows := make([]StatsRowResponse, 0, len(report.Rows))
	for _, row := range report.Rows {
		rows = append(rows, newStatsRowResponse(row))
	}
	return StatsReportResponse{
		Count:          report.Total,
		Results:        rows,
		Message:        report.Message,
		FiltersApplied: report.FiltersApplied,
	}
}

func newStatsRowResponse(row repository.StatsRow) StatsRowResponse {
	dept := "Unassigned"
	if row.DepartmentName != nil {
		dept = *row.DepartmentName
	}
	return StatsRowResponse{
		Department:      dept,
		Priority:        string(row.Priority),
		ResolvedTickets: row.ResolvedTickets,
		PendingTickets:  row.PendingTickets,
		TotalTickets:    row.TotalTickets,
	}
}

// TATRowResponse is one ticket with its turnaround time.
type TATRowResponse struct {
	TicketID    string     `json:"ticket_id"`
	Department  string     `json:"department"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	SubmittedAt time.Time  `json:"submitted_at"`
	ResolvedAt  *time.Time `json:"resolved_at"`
	TAT         string     `json:"tat"`
}

// TATReportResponse is the turnaround report: summary figures over the full
// filtered set plus one paginated page of per-ticket rows.
type TATReportResponse struct {
	TotalTickets   int64             `json:"total_tickets"`
	ResolvedCount  int64             `json:"resolved_count"`
	AverageTAT     string            `json:"average_tat"`
	FiltersApplied map[string]string `json:"filters_applied"`
	Count          int64             `json:"count"`
	Next           *string           `json:"next"`
	Previous       *string           `json:"previous"`
	Results        []TATRowResponse  `json:"results"`
}

// NewTATReportResponse maps the service report; next/previous come from the
// handler's pagination envelope.
func NewTATReportResponse(report *service.TATReport, next, previous *string) TATReportResponse {
	rows := make([]TATRowResponse, 0, len(report.Rows))
	for _, row := range report.Rows {
		rows = append(rows, TATRowResponse{
			TicketID:    row.TicketID,
			Department:  row.Department,
			Priority:    row.Priority,
			Status:      row.Status,
			SubmittedAt: row.SubmittedAt,
			ResolvedAt:  row.ResolvedAt,
			TAT:         row.TAT,
		})
	}
	return TATReportResponse{
		TotalTickets:   report.TotalTickets,
		ResolvedCount:  report.ResolvedCount,
		AverageTAT:     report.AverageTAT,
		FiltersApplied: report.FiltersApplied,
		Count:          report.TotalTickets,
		Next:           next,
		Previous:       previous,
		Results:        rows,
	}
}
