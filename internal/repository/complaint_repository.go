package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/svn-hms/complaint-service/internal/domain"
)

// ComplaintFilter captures listing and report parameters. DepartmentCode is
// the row-level scope applied for department admins and staff; DepartmentName
// is the caller-supplied filter.
type ComplaintFilter struct {
	Status         *domain.ComplaintStatus
	Priority       *domain.ComplaintPriority
	IssueType      *string
	DepartmentName *string
	DepartmentCode *string
	Ward           *string
	Block          *string
	Search         *string
	SubmittedDate  *time.Time
	SubmittedFrom  *time.Time
	SubmittedTo    *time.Time
	ClockFrom      *string
	ClockTo        *string
	OrderBy        string
	Limit          int
	Offset         int
}

// ComplaintRecord joins a complaint with its related display fields.
type ComplaintRecord struct {
	Complaint      domain.Complaint
	DepartmentName *string
	StaffUsername  *string
	Room           *domain.Room
}

// StatsCounts aggregates ticket counts for one bucket.
type StatsCounts struct {
	ResolvedTickets int64
	PendingTickets  int64
	TotalTickets    int64
}

// StatsRow is one (department, priority) bucket of the breakdown report.
type StatsRow struct {
	DepartmentCode *string
	DepartmentName *string
	Priority       domain.ComplaintPriority
	StatsCounts
}

// ComplaintRepository encapsulates complaint persistence and aggregation.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	Update(ctx context.Context, complaint *domain.Complaint) error
	Delete(ctx context.Context, ticketID string) error
	GetByTicketID(ctx context.Context, ticketID string) (*ComplaintRecord, error)
	List(ctx context.Context, filter ComplaintFilter) ([]ComplaintRecord, int64, error)
	ExistsOpenForRoomIssue(ctx context.Context, roomID int64, issueType string) (bool, error)
	DepartmentPriorityStats(ctx context.Context, departmentCode string, priority domain.ComplaintPriority) (*StatsCounts, error)
	GroupedStats(ctx context.Context, filter ComplaintFilter) ([]StatsRow, int64, error)
	ResolvedAverageTAT(ctx context.Context, filter ComplaintFilter) (int64, float64, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates the repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (ticket_id, room_id, issue_type, description, priority, submitted_by,
            status, assigned_department, assigned_staff_id, remarks)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING submitted_at`
	return r.pool.QueryRow(ctx, query,
		complaint.TicketID,
		complaint.RoomID,
		complaint.IssueType,
		complaint.Description,
		complaint.Priority,
		complaint.SubmittedBy,
		complaint.Status,
		complaint.AssignedDepartment,
		complaint.AssignedStaffID,
		complaint.Remarks,
	).Scan(&complaint.SubmittedAt)
}

func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET issue_type=$1, description=$2, priority=$3, status=$4,
            assigned_department=$5, assigned_staff_id=$6, resolved_by=$7, resolved_at=$8, remarks=$9
        WHERE ticket_id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		complaint.IssueType,
		complaint.Description,
		complaint.Priority,
		complaint.Status,
		complaint.AssignedDepartment,
		complaint.AssignedStaffID,
		complaint.ResolvedBy,
		complaint.ResolvedAt,
		complaint.Remarks,
		complaint.TicketID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) Delete(ctx context.Context, ticketID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM complaints WHERE ticket_id=$1`, ticketID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const complaintSelect = `
        SELECT c.ticket_id, c.room_id, c.issue_type, c.description, c.priority, c.submitted_by,
               c.status, c.assigned_department, c.assigned_staff_id, c.resolved_by, c.resolved_at,
               c.remarks, c.submitted_at, d.department_name, u.username,
               r.id, r.bed_no, r.room_no, r.block, r.floor_no, r.ward, r.speciality, r.room_type,
               r.status, r.dataenc, r.qr_status, r.qr_path`

const complaintFrom = `
        FROM complaints c
        LEFT JOIN departments d ON d.department_code = c.assigned_department
        LEFT JOIN users u ON u.id = c.assigned_staff_id
        LEFT JOIN rooms r ON r.id = c.room_id`

func (r *complaintRepository) GetByTicketID(ctx context.Context, ticketID string) (*ComplaintRecord, error) {
	query := complaintSelect + complaintFrom + ` WHERE c.ticket_id=$1`
	row := r.pool.QueryRow(ctx, query, ticketID)
	return scanComplaintRecord(row)
}

func (r *complaintRepository) ExistsOpenForRoomIssue(ctx context.Context, roomID int64, issueType string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM complaints
            WHERE room_id=$1 AND issue_type=$2 AND status IN ('open','in_progress')
        )`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, roomID, issueType).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func buildComplaintWhere(filter ComplaintFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.Status != nil {
		add("c.status=$%d", *filter.Status)
	}
	if filter.Priority != nil {
		add("c.priority=$%d", *filter.Priority)
	}
	if filter.IssueType != nil {
		add("c.issue_type=$%d", *filter.IssueType)
	}
	if filter.DepartmentName != nil {
		add("LOWER(d.department_name)=LOWER($%d)", *filter.DepartmentName)
	}
	if filter.DepartmentCode != nil {
		add("c.assigned_department=$%d", *filter.DepartmentCode)
	}
	if filter.Ward != nil {
		add("r.ward ILIKE $%d", "%"+*filter.Ward+"%")
	}
	if filter.Block != nil {
		add("r.block ILIKE $%d", "%"+*filter.Block+"%")
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(c.ticket_id) LIKE %s OR LOWER(r.room_no) LIKE %s OR LOWER(r.bed_no) LIKE %s OR LOWER(c.description) LIKE %s)",
			placeholder, placeholder, placeholder, placeholder))
	}
	if filter.SubmittedDate != nil {
		add("c.submitted_at::date=$%d::date", *filter.SubmittedDate)
	}
	if filter.SubmittedFrom != nil {
		add("c.submitted_at >= $%d", *filter.SubmittedFrom)
	}
	if filter.SubmittedTo != nil {
		add("c.submitted_at <= $%d", *filter.SubmittedTo)
	}
	if filter.ClockFrom != nil {
		add("c.submitted_at::time >= $%d::time", *filter.ClockFrom)
	}
	if filter.ClockTo != nil {
		add("c.submitted_at::time <= $%d::time", *filter.ClockTo)
	}

	return strings.Join(clauses, " AND "), args
}

var complaintOrderings = map[string]string{
	"submitted_at":  "c.submitted_at DESC",
	"-submitted_at": "c.submitted_at DESC",
	"priority":      "c.priority ASC",
	"status":        "c.status ASC",
}

func (r *complaintRepository) List(ctx context.Context, filter ComplaintFilter) ([]ComplaintRecord, int64, error) {
	where, args := buildComplaintWhere(filter)

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+complaintFrom+` WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy, ok := complaintOrderings[filter.OrderBy]
	if !ok {
		orderBy = "c.submitted_at DESC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(complaintSelect+complaintFrom+` WHERE %s ORDER BY %s LIMIT %d OFFSET %d`,
		where, orderBy, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []ComplaintRecord
	for rows.Next() {
		record, err := scanComplaintRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *record)
	}
	return result, total, rows.Err()
}

func (r *complaintRepository) DepartmentPriorityStats(ctx context.Context, departmentCode string, priority domain.ComplaintPriority) (*StatsCounts, error) {
	const query = `
        SELECT COUNT(*) FILTER (WHERE status IN ('resolved','closed')),
               COUNT(*) FILTER (WHERE status NOT IN ('resolved','closed')),
               COUNT(*)
        FROM complaints
        WHERE assigned_department=$1 AND priority=$2`
	var counts StatsCounts
	if err := r.pool.QueryRow(ctx, query, departmentCode, priority).Scan(
		&counts.ResolvedTickets,
		&counts.PendingTickets,
		&counts.TotalTickets,
	); err != nil {
		return nil, err
	}
	return &counts, nil
}

func (r *complaintRepository) GroupedStats(ctx context.Context, filter ComplaintFilter) ([]StatsRow, int64, error) {
	where, args := buildComplaintWhere(filter)

	var total int64
	countQuery := `
        SELECT COUNT(*) FROM (
            SELECT 1` + complaintFrom + ` WHERE ` + where + `
            GROUP BY c.assigned_department, d.department_name, c.priority
        ) AS buckets`
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
        SELECT c.assigned_department, d.department_name, c.priority,
               COUNT(*) FILTER (WHERE c.status IN ('resolved','closed')),
               COUNT(*) FILTER (WHERE c.status NOT IN ('resolved','closed')),
               COUNT(*)`+
		complaintFrom+` WHERE %s
        GROUP BY c.assigned_department, d.department_name, c.priority
        ORDER BY c.assigned_department, c.priority LIMIT %d OFFSET %d`, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []StatsRow
	for rows.Next() {
		var row StatsRow
		if err := rows.Scan(
			&row.DepartmentCode,
			&row.DepartmentName,
			&row.Priority,
			&row.ResolvedTickets,
			&row.PendingTickets,
			&row.TotalTickets,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, row)
	}
	return result, total, rows.Err()
}

// ResolvedAverageTAT returns the number of resolved-or-closed tickets in the
// filtered set and their average turnaround in seconds.
func (r *complaintRepository) ResolvedAverageTAT(ctx context.Context, filter ComplaintFilter) (int64, float64, error) {
	where, args := buildComplaintWhere(filter)
	query := `
        SELECT COUNT(*),
               COALESCE(EXTRACT(EPOCH FROM AVG(c.resolved_at - c.submitted_at)), 0)` +
		complaintFrom + ` WHERE ` + where + `
          AND c.status IN ('resolved','closed') AND c.resolved_at IS NOT NULL`

	var count int64
	var avgSeconds float64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count, &avgSeconds); err != nil {
		return 0, 0, err
	}
	return count, avgSeconds, nil
}

func scanComplaintRecord(row pgx.Row) (*ComplaintRecord, error) {
	var record ComplaintRecord
	var (
		roomID     *int64
		bedNo      *string
		roomNo     *string
		block      *string
		floorNo    *int
		ward       *string
		speciality *string
		roomType   *string
		roomStatus *string
		dataenc    *string
		qrStatus   *string
		qrPath     *string
	)
	if err := row.Scan(
		&record.Complaint.TicketID,
		&record.Complaint.RoomID,
		&record.Complaint.IssueType,
		&record.Complaint.Description,
		&record.Complaint.Priority,
		&record.Complaint.SubmittedBy,
		&record.Complaint.Status,
		&record.Complaint.AssignedDepartment,
		&record.Complaint.AssignedStaffID,
		&record.Complaint.ResolvedBy,
		&record.Complaint.ResolvedAt,
		&record.Complaint.Remarks,
		&record.Complaint.SubmittedAt,
		&record.DepartmentName,
		&record.StaffUsername,
		&roomID,
		&bedNo,
		&roomNo,
		&block,
		&floorNo,
		&ward,
		&speciality,
		&roomType,
		&roomStatus,
		&dataenc,
		&qrStatus,
		&qrPath,
	); err != nil {
		return nil, err
	}

	if roomID != nil {
		record.Room = &domain.Room{
			ID:         *roomID,
			BedNo:      *bedNo,
			RoomNo:     *roomNo,
			Block:      *block,
			FloorNo:    *floorNo,
			Ward:       *ward,
			Speciality: *speciality,
			RoomType:   *roomType,
			Status:     domain.RecordStatus(*roomStatus),
			DataEnc:    *dataenc,
			QRStatus:   domain.QRStatus(*qrStatus),
			QRPath:     qrPath,
		}
	}
	return &record, nil
}
