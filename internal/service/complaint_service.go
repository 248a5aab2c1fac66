package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/svn-hms/complaint-service/internal/domain"
	"github.com/svn-hms/complaint-service/internal/events"
	"github.com/svn-hms/complaint-service/internal/repository"
	"github.com/svn-hms/complaint-service/internal/storage"
	apperrors "github.com/svn-hms/complaint-service/pkg/util"
)

const ticketIDMaxAttempts = 5

// ComplaintService coordinates the ticket lifecycle.
type ComplaintService struct {
	complaints  repository.ComplaintRepository
	images      repository.ComplaintImageRepository
	rooms       repository.RoomRepository
	categories  repository.IssueCategoryRepository
	departments repository.DepartmentRepository
	users       repository.UserRepository
	media       storage.MediaStore
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	now         func() time.Time
}

// ComplaintDependencies bundles repositories for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	ImageRepo     repository.ComplaintImageRepository
	RoomRepo      repository.RoomRepository
	CategoryRepo  repository.IssueCategoryRepository
	DeptRepo      repository.DepartmentRepository
	UserRepo      repository.UserRepository
	Media         storage.MediaStore
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		complaints:  deps.ComplaintRepo,
		images:      deps.ImageRepo,
		rooms:       deps.RoomRepo,
		categories:  deps.CategoryRepo,
		departments: deps.DeptRepo,
		users:       deps.UserRepo,
		media:       deps.Media,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
		now:         time.Now,
	}
}

// ImageUpload is one uploaded complaint photo.
type ImageUpload struct {
	FileName string
	Data     []byte
}

// ComplaintCreateInput describes a complaint submission.
type ComplaintCreateInput struct {
	RoomID      int64
	IssueType   string
	Description string
	Priority    string
	SubmittedBy string
	Images      []ImageUpload
}

// Create validates a submission, routes it to the category's owning
// department and persists the ticket. All validation happens before any
// write; a failed submission leaves no rows behind.
func (s *ComplaintService) Create(ctx context.Context, input ComplaintCreateInput) (*repository.ComplaintRecord, error) {
	priority, err := domain.ParseComplaintPriority(input.Priority)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": input.Priority})
	}
	if input.Description == "" {
		return nil, apperrors.NewValidationError("description is required", map[string]any{"description": "this field is required"})
	}

	room, err := s.rooms.GetByID(ctx, input.RoomID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("invalid room", map[string]any{"room": input.RoomID})
		}
		return nil, err
	}
	if room.Status != domain.StatusActive {
		return nil, apperrors.NewValidationError("the specified room is not active", nil)
	}

	category, err := s.categories.GetActiveByName(ctx, input.IssueType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("invalid or inactive issue category",
				map[string]any{"issue_type": "please select a valid issue category"})
		}
		return nil, err
	}

	duplicate, err := s.complaints.ExistsOpenForRoomIssue(ctx, room.ID, category.Name)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, duplicateComplaintError()
	}

	submittedBy := input.SubmittedBy
	if submittedBy == "" {
		submittedBy = "Anonymous"
	}

	complaint := &domain.Complaint{
		RoomID:             &room.ID,
		IssueType:          category.Name,
		Description:        input.Description,
		Priority:           priority,
		SubmittedBy:        submittedBy,
		Status:             domain.ComplaintStatusOpen,
		AssignedDepartment: &category.DepartmentCode,
	}

	if err := s.insertWithRetry(ctx, complaint); err != nil {
		return nil, err
	}

	if err := s.storeImages(ctx, complaint.TicketID, input.Images); err != nil {
		s.logger.Error("store complaint images", zap.String("ticket_id", complaint.TicketID), zap.Error(err))
	}

	s.publish(ctx, events.Event{
		Type:      events.EventComplaintCreated,
		TicketID:  complaint.TicketID,
		Actor:     submittedBy,
		Timestamp: s.now(),
		Payload: events.ComplaintCreatedPayload{
			RoomID:             complaint.RoomID,
			IssueType:          complaint.IssueType,
			Priority:           complaint.Priority,
			AssignedDepartment: complaint.AssignedDepartment,
		},
	})

	return s.complaints.GetByTicketID(ctx, complaint.TicketID)
}

// insertWithRetry regenerates the ticket identifier on primary-key clashes.
// The 5-digit suffix space is sparse, not unique, so collisions are expected
// eventually. A clash on the open-ticket partial index means a concurrent
// duplicate submission won the race.
func (s *ComplaintService) insertWithRetry(ctx context.Context, complaint *domain.Complaint) error {
	var err error
	for attempt := 0; attempt < ticketIDMaxAttempts; attempt++ {
		complaint.TicketID = domain.NewTicketID()
		err = s.complaints.Create(ctx, complaint)
		if err == nil {
			return nil
		}
		if repository.IsUniqueViolation(err, "complaints_open_room_issue_unique") {
			return duplicateComplaintError()
		}
		if repository.IsUniqueViolation(err, "complaints_pkey") {
			continue
		}
		return err
	}
	return apperrors.NewInternalError(err)
}

// ComplaintUpdateInput describes a staff/admin ticket mutation. Nil fields
// are left untouched.
type ComplaintUpdateInput struct {
	Status             *string
	Description        *string
	Priority           *string
	AssignedDepartment *string
	AssignedStaff      *string
	Remarks            *string
	Images             []ImageUpload
}

// Update applies field changes and the status state machine to a ticket.
func (s *ComplaintService) Update(ctx context.Context, scope Scope, ticketID string, input ComplaintUpdateInput) (*repository.ComplaintRecord, error) {
	record, err := s.getScoped(ctx, scope, ticketID)
	if err != nil {
		return nil, err
	}
	complaint := &record.Complaint
	oldStatus := complaint.Status

	if input.Description != nil {
		complaint.Description = *input.Description
	}
	if input.Priority != nil {
		priority, err := domain.ParseComplaintPriority(*input.Priority)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": *input.Priority})
		}
		complaint.Priority = priority
	}
	if input.Remarks != nil {
		complaint.Remarks = input.Remarks
	}

	assignmentChanged := false
	if input.AssignedDepartment != nil {
		dept, err := s.departments.GetByName(ctx, *input.AssignedDepartment)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("unknown department",
					map[string]any{"assigned_department": *input.AssignedDepartment})
			}
			return nil, err
		}
		complaint.AssignedDepartment = &dept.Code
		record.DepartmentName = &dept.Name
		assignmentChanged = true
	}

	staffUsername := record.StaffUsername
	if input.AssignedStaff != nil {
		staff, err := s.users.GetStaffByUsername(ctx, *input.AssignedStaff)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("assigned staff must be an existing staff user",
					map[string]any{"assigned_staff": *input.AssignedStaff})
			}
			return nil, err
		}
		complaint.AssignedStaffID = &staff.ID
		staffUsername = &staff.Username
		record.StaffUsername = staffUsername
		assignmentChanged = true
	}

	if input.Status != nil {
		status, err := domain.ParseComplaintStatus(*input.Status)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
		}
		if err := complaint.Transition(status, staffUsername, s.now()); err != nil {
			return nil, apperrors.NewValidationError(err.Error(), map[string]any{"status": *input.Status})
		}
	}

	if err := s.complaints.Update(ctx, complaint); err != nil {
		if repository.IsUniqueViolation(err, "complaints_open_room_issue_unique") {
			return nil, duplicateComplaintError()
		}
		return nil, err
	}

	if err := s.storeImages(ctx, complaint.TicketID, input.Images); err != nil {
		s.logger.Error("store complaint images", zap.String("ticket_id", complaint.TicketID), zap.Error(err))
	}

	if input.Status != nil && complaint.Status != oldStatus {
		s.publish(ctx, events.Event{
			Type:      events.EventComplaintStatusChanged,
			TicketID:  complaint.TicketID,
			Timestamp: s.now(),
			Payload: events.ComplaintStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: complaint.Status,
			},
		})
	}
	if assignmentChanged {
		s.publish(ctx, events.Event{
			Type:      events.EventComplaintAssigned,
			TicketID:  complaint.TicketID,
			Timestamp: s.now(),
			Payload: events.ComplaintAssignedPayload{
				AssignedDepartment: complaint.AssignedDepartment,
				AssignedStaff:      staffUsername,
			},
		})
	}

	return record, nil
}

// Get returns one ticket visible to the caller.
func (s *ComplaintService) Get(ctx context.Context, scope Scope, ticketID string) (*repository.ComplaintRecord, error) {
	return s.getScoped(ctx, scope, ticketID)
}

// List returns tickets visible to the caller plus the unpaginated total.
func (s *ComplaintService) List(ctx context.Context, scope Scope, filter repository.ComplaintFilter) ([]repository.ComplaintRecord, int64, error) {
	scope.Apply(&filter)
	return s.complaints.List(ctx, filter)
}

// Delete removes a ticket and its images by cascade.
func (s *ComplaintService) Delete(ctx context.Context, scope Scope, ticketID string) error {
	if _, err := s.getScoped(ctx, scope, ticketID); err != nil {
		return err
	}
	if err := s.complaints.Delete(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("complaint", nil)
		}
		return err
	}
	return nil
}

// Images lists the photos attached to a ticket.
func (s *ComplaintService) Images(ctx context.Context, ticketID string) ([]domain.ComplaintImage, error) {
	return s.images.ListByTicket(ctx, ticketID)
}

// getScoped fetches a ticket, hiding rows outside the caller's department as
// not-found rather than forbidden.
func (s *ComplaintService) getScoped(ctx context.Context, scope Scope, ticketID string) (*repository.ComplaintRecord, error) {
	record, err := s.complaints.GetByTicketID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", nil)
		}
		return nil, err
	}
	if !scope.Covers(record.Complaint.AssignedDepartment) {
		return nil, apperrors.NewNotFound("complaint", nil)
	}
	return record, nil
}

func (s *ComplaintService) storeImages(ctx context.Context, ticketID string, uploads []ImageUpload) error {
	for _, upload := range uploads {
		path, err := s.media.Save(upload.FileName, upload.Data)
		if err != nil {
			return err
		}
		image := &domain.ComplaintImage{TicketID: ticketID, ImagePath: path}
		if err := s.images.Create(ctx, image); err != nil {
			return err
		}
	}
	return nil
}

func (s *ComplaintService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	_ = s.dispatcher.Publish(ctx, event)
}

func duplicateComplaintError() error {
	return apperrors.NewValidationError(
		"a complaint with the same issue type is already open or in progress for this room", nil)
}
