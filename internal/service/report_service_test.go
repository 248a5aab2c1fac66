package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svn-hms/complaint-service/internal/domain"
	apperrors "github.com/svn-hms/complaint-service/pkg/util"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"zero", 0, "0 seconds"},
		{"negative", -time.Minute, "0 seconds"},
		{"sub second", 500 * time.Millisecond, "0 seconds"},
		{"one second", time.Second, "1 second"},
		{"seconds", 45 * time.Second, "45 seconds"},
		{"one minute", time.Minute, "1 minute"},
		{"minutes and seconds", 2*time.Minute + 5*time.Second, "2 minutes, 5 seconds"},
		{"hours only", 3 * time.Hour, "3 hours"},
		{"one of each", 24*time.Hour + time.Hour + time.Minute + time.Second, "1 day, 1 hour, 1 minute, 1 second"},
		{"skips zero units", 48*time.Hour + 30*time.Second, "2 days, 30 seconds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.d))
		})
	}
}

func TestParseTATWindowDateOnly(t *testing.T) {
	filter, applied, err := parseTATWindow("2025-03-21", "", "")
	require.NoError(t, err)

	require.NotNil(t, filter.SubmittedDate)
	assert.Equal(t, time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC), *filter.SubmittedDate)
	assert.Nil(t, filter.SubmittedFrom)
	assert.Nil(t, filter.ClockFrom)
	assert.Equal(t, map[string]string{"date": "2025-03-21"}, applied)
}

func TestParseTATWindowDateWithTimes(t *testing.T) {
	filter, applied, err := parseTATWindow("2025-03-21", "09:30", "17:00")
	require.NoError(t, err)

	require.NotNil(t, filter.SubmittedFrom)
	require.NotNil(t, filter.SubmittedTo)
	assert.Equal(t, time.Date(2025, 3, 21, 9, 30, 0, 0, time.UTC), *filter.SubmittedFrom)
	assert.Equal(t, time.Date(2025, 3, 21, 17, 0, 59, 0, time.UTC), *filter.SubmittedTo)
	assert.Nil(t, filter.SubmittedDate)
	assert.Equal(t, "09:30", applied["start_time"])
	assert.Equal(t, "17:00", applied["end_time"])
}

func TestParseTATWindowDateWithStartOnly(t *testing.T) {
	filter, _, err := parseTATWindow("2025-03-21", "08:00", "")
	require.NoError(t, err)

	require.NotNil(t, filter.SubmittedFrom)
	require.NotNil(t, filter.SubmittedTo)
	assert.Equal(t, time.Date(2025, 3, 21, 8, 0, 0, 0, time.UTC), *filter.SubmittedFrom)
	assert.Equal(t, time.Date(2025, 3, 21, 23, 59, 59, 0, time.UTC), *filter.SubmittedTo)
}

func TestParseTATWindowTimesOnly(t *testing.T) {
	filter, _, err := parseTATWindow("", "22:00", "")
	require.NoError(t, err)

	require.NotNil(t, filter.ClockFrom)
	require.NotNil(t, filter.ClockTo)
	assert.Equal(t, "22:00", *filter.ClockFrom)
	assert.Equal(t, "23:59", *filter.ClockTo)
	assert.Nil(t, filter.SubmittedDate)
	assert.Nil(t, filter.SubmittedFrom)
}

func TestParseTATWindowEmpty(t *testing.T) {
	filter, applied, err := parseTATWindow("", "", "")
	require.NoError(t, err)
	assert.Nil(t, filter.SubmittedDate)
	assert.Nil(t, filter.SubmittedFrom)
	assert.Nil(t, filter.ClockFrom)
	assert.Empty(t, applied)
}

func TestParseTATWindowFormatErrors(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		startTime string
		endTime   string
		message   string
	}{
		{"bad date", "21-03-2025", "", "", "Invalid date format"},
		{"bad start time", "", "9am", "", "Invalid start time format. Use HH:MM (24-hour)"},
		{"bad end time", "", "", "25:99", "Invalid end time format. Use HH:MM (24-hour)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseTATWindow(tt.date, tt.startTime, tt.endTime)
			require.Error(t, err)

			var domainErr *apperrors.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.message, domainErr.Message)
			assert.Contains(t, domainErr.Details, "example")
			assert.Contains(t, domainErr.Details, "format_guide")
		})
	}
}

func seedResolvedComplaint(t *testing.T, repo *fakeComplaintRepo, dept string, priority domain.ComplaintPriority, tat time.Duration) {
	t.Helper()
	complaint := domain.Complaint{
		IssueType:          "Cleaning",
		Description:        "seed",
		Priority:           priority,
		SubmittedBy:        "Anonymous",
		Status:             domain.ComplaintStatusOpen,
		AssignedDepartment: &dept,
	}
	complaint.TicketID = domain.NewTicketID()
	require.NoError(t, repo.Create(context.Background(), &complaint))

	resolvedAt := complaint.SubmittedAt.Add(tat)
	complaint.Status = domain.ComplaintStatusResolved
	complaint.ResolvedAt = &resolvedAt
	require.NoError(t, repo.Update(context.Background(), &complaint))
}

func seedOpenComplaint(t *testing.T, repo *fakeComplaintRepo, dept string, priority domain.ComplaintPriority) {
	t.Helper()
	complaint := domain.Complaint{
		IssueType:          "Electrical",
		Description:        "seed",
		Priority:           priority,
		SubmittedBy:        "Anonymous",
		Status:             domain.ComplaintStatusOpen,
		AssignedDepartment: &dept,
	}
	complaint.TicketID = domain.NewTicketID()
	require.NoError(t, repo.Create(context.Background(), &complaint))
}

func newReportFixture() (*ReportService, *fakeComplaintRepo) {
	complaints := newFakeComplaintRepo()
	departments := newFakeDepartmentRepo(
		domain.Department{Code: "HK", Name: "Housekeeping", Status: domain.StatusActive},
		domain.Department{Code: "MT", Name: "Maintenance", Status: domain.StatusActive},
	)
	return NewReportService(complaints, departments), complaints
}

func TestDepartmentPriorityStatsCounts(t *testing.T) {
	svc, complaints := newReportFixture()

	seedResolvedComplaint(t, complaints, "HK", domain.ComplaintPriorityHigh, time.Hour)
	seedOpenComplaint(t, complaints, "HK", domain.ComplaintPriorityHigh)
	seedOpenComplaint(t, complaints, "HK", domain.ComplaintPriorityLow)
	seedOpenComplaint(t, complaints, "MT", domain.ComplaintPriorityHigh)

	report, err := svc.DepartmentPriorityStats(context.Background(), unrestrictedScope(), "Housekeeping", "high")
	require.NoError(t, err)

	assert.Equal(t, "Housekeeping", report.Department)
	assert.Equal(t, "high", report.Priority)
	assert.EqualValues(t, 1, report.ResolvedTickets)
	assert.EqualValues(t, 1, report.PendingTickets)
	assert.EqualValues(t, 2, report.TotalTickets)
}

func TestDepartmentPriorityStatsRequiresBothParams(t *testing.T) {
	svc, _ := newReportFixture()

	for _, pair := range [][2]string{{"", "high"}, {"Housekeeping", ""}, {"", ""}} {
		_, err := svc.DepartmentPriorityStats(context.Background(), unrestrictedScope(), pair[0], pair[1])
		require.Error(t, err)

		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "both department and priority query parameters are required", domainErr.Message)
	}
}

func TestDepartmentPriorityStatsUnknownDepartment(t *testing.T) {
	svc, _ := newReportFixture()

	_, err := svc.DepartmentPriorityStats(context.Background(), unrestrictedScope(), "Radiology", "high")
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestDepartmentPriorityStatsScopeHidesOtherDepartments(t *testing.T) {
	svc, complaints := newReportFixture()
	seedOpenComplaint(t, complaints, "HK", domain.ComplaintPriorityHigh)

	_, err := svc.DepartmentPriorityStats(context.Background(), departmentScope("MT"), "Housekeeping", "high")
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)

	_, err = svc.DepartmentPriorityStats(context.Background(), departmentScope("HK"), "Housekeeping", "high")
	require.NoError(t, err)
}

func TestAllStatsValidation(t *testing.T) {
	svc, _ := newReportFixture()

	_, err := svc.AllStats(context.Background(), unrestrictedScope(), StatsFilter{Priority: "urgent"})
	require.Error(t, err)

	_, err = svc.AllStats(context.Background(), unrestrictedScope(), StatsFilter{Status: "done"})
	require.Error(t, err)

	_, err = svc.AllStats(context.Background(), unrestrictedScope(), StatsFilter{SubmittedDate: "03/21/2025"})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "Invalid date format. Use YYYY-MM-DD", domainErr.Message)
}

func TestAllStatsEmptyResult(t *testing.T) {
	svc, _ := newReportFixture()

	report, err := svc.AllStats(context.Background(), unrestrictedScope(), StatsFilter{Priority: "high", Status: "open"})
	require.NoError(t, err)

	assert.Empty(t, report.Rows)
	assert.Equal(t, "no complaints found matching the provided filters", report.Message)
	assert.Equal(t, map[string]string{"priority": "high", "status": "open"}, report.FiltersApplied)
}

func TestTurnaroundReportComputesTAT(t *testing.T) {
	svc, complaints := newReportFixture()

	seedResolvedComplaint(t, complaints, "HK", domain.ComplaintPriorityHigh, 90*time.Minute)
	seedOpenComplaint(t, complaints, "HK", domain.ComplaintPriorityLow)

	report, err := svc.TurnaroundReport(context.Background(), unrestrictedScope(), "", "", "", "", 20, 0)
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)

	byStatus := map[string]TATRow{}
	for _, row := range report.Rows {
		byStatus[row.Status] = row
	}
	assert.Equal(t, "1 hour, 30 minutes", byStatus["resolved"].TAT)
	assert.Equal(t, "-", byStatus["open"].TAT)

	assert.EqualValues(t, 2, report.TotalTickets)
	assert.EqualValues(t, 1, report.ResolvedCount)
	assert.Equal(t, "1 hour, 30 minutes", report.AverageTAT)
}

func TestTurnaroundReportPaginatesRows(t *testing.T) {
	svc, complaints := newReportFixture()

	for range [3]struct{}{} {
		seedOpenComplaint(t, complaints, "HK", domain.ComplaintPriorityLow)
	}
	seedResolvedComplaint(t, complaints, "HK", domain.ComplaintPriorityHigh, time.Hour)

	report, err := svc.TurnaroundReport(context.Background(), unrestrictedScope(), "", "", "", "", 2, 0)
	require.NoError(t, err)
	assert.Len(t, report.Rows, 2)
	assert.EqualValues(t, 4, report.TotalTickets)

	// the average still covers the whole filtered set
	assert.EqualValues(t, 1, report.ResolvedCount)
	assert.Equal(t, "1 hour", report.AverageTAT)

	report, err = svc.TurnaroundReport(context.Background(), unrestrictedScope(), "", "", "", "", 2, 2)
	require.NoError(t, err)
	assert.Len(t, report.Rows, 2)

	report, err = svc.TurnaroundReport(context.Background(), unrestrictedScope(), "", "", "", "", 2, 4)
	require.NoError(t, err)
	assert.Empty(t, report.Rows)
	assert.EqualValues(t, 4, report.TotalTickets)
}

func TestTurnaroundReportNoResolved(t *testing.T) {
	svc, complaints := newReportFixture()
	seedOpenComplaint(t, complaints, "HK", domain.ComplaintPriorityLow)

	report, err := svc.TurnaroundReport(context.Background(), unrestrictedScope(), "", "", "", "", 20, 0)
	require.NoError(t, err)

	assert.EqualValues(t, 0, report.ResolvedCount)
	assert.Equal(t, "-", report.AverageTAT)
}

func TestTurnaroundReportScoped(t *testing.T) {
	svc, complaints := newReportFixture()

	seedResolvedComplaint(t, complaints, "HK", domain.ComplaintPriorityHigh, time.Hour)
	seedOpenComplaint(t, complaints, "MT", domain.ComplaintPriorityLow)

	report, err := svc.TurnaroundReport(context.Background(), departmentScope("MT"), "", "", "", "", 20, 0)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "-", report.Rows[0].TAT)
}

func TestTurnaroundReportPriorityFilter(t *testing.T) {
	svc, complaints := newReportFixture()

	seedResolvedComplaint(t, complaints, "HK", domain.ComplaintPriorityHigh, time.Hour)
	seedOpenComplaint(t, complaints, "HK", domain.ComplaintPriorityLow)

	report, err := svc.TurnaroundReport(context.Background(), unrestrictedScope(), "high", "", "", "", 20, 0)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "high", report.Rows[0].Priority)
	assert.Equal(t, "high", report.FiltersApplied["priority"])

	_, err = svc.TurnaroundReport(context.Background(), unrestrictedScope(), "urgent", "", "", "", 20, 0)
	require.Error(t, err)
}

func TestTurnaroundReportBadInputsSurfaceFormatErrors(t *testing.T) {
	svc, _ := newReportFixture()

	_, err := svc.TurnaroundReport(context.Background(), unrestrictedScope(), "", "yesterday", "", "", 20, 0)
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "Invalid date format", domainErr.Message)
}

func TestExportStatsProducesWorkbook(t *testing.T) {
	svc, _ := newReportFixture()

	data, err := svc.ExportStats(context.Background(), unrestrictedScope(), StatsFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, data)
	// xlsx files are zip archives
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}
