package dto

import (
	"time"

	"github.com/svn-hms/complaint-service/internal/domain"
	"github.com/svn-hms/complaint-service/internal/repository"
)

// CreateComplaintRequest is the public submission payload. Images arrive as
// multipart parts alongside these fields.
type CreateComplaintRequest struct {
	RoomID      int64  `json:"room_id" form:"room_id"`
	IssueType   string `json:"issue_type" form:"issue_type"`
	Description string `json:"description" form:"description"`
	Priority    string `json:"priority" form:"priority"`
	SubmittedBy string `json:"submitted_by" form:"submitted_by"`
}

// UpdateComplaintRequest mutates a ticket; nil fields stay untouched.
type UpdateComplaintRequest struct {
	Status             *string `json:"status" form:"status"`
	Description        *string `json:"description" form:"description"`
	Priority           *string `json:"priority" form:"priority"`
	AssignedDepartment *string `json:"assigned_department" form:"assigned_department"`
	AssignedStaff      *string `json:"assigned_staff" form:"assigned_staff"`
	Remarks            *string `json:"remarks" form:"remarks"`
}

// ComplaintRoomSummary embeds the room a ticket was raised against.
type ComplaintRoomSummary struct {
	ID         int64  `json:"id"`
	BedNo      string `json:"bed_no"`
	RoomNo     string `json:"room_no"`
	Block      string `json:"block"`
	FloorNo    int    `json:"floor_no"`
	Ward       string `json:"ward"`
	Speciality string `json:"speciality"`
	RoomType   string `json:"room_type"`
}

// ComplaintResponse is the full ticket payload.
type ComplaintResponse struct {
	TicketID           string                `json:"ticket_id"`
	Room               *ComplaintRoomSummary `json:"room"`
	IssueType          string                `json:"issue_type"`
	Description        string                `json:"description"`
	Priority           string                `json:"priority"`
	SubmittedBy        string                `json:"submitted_by"`
	Status             string                `json:"status"`
	AssignedDepartment *string               `json:"assigned_department"`
	AssignedStaff      *string               `json:"assigned_staff"`
	ResolvedBy         *string               `json:"resolved_by"`
	ResolvedAt         *time.Time            `json:"resolved_at"`
	Remarks            *string               `json:"remarks"`
	SubmittedAt        time.Time             `json:"submitted_at"`
	Images             []ComplaintImageInfo  `json:"images,omitempty"`
}

// ComplaintImageInfo is one uploaded photo.
type ComplaintImageInfo struct {
	ID        int64  `json:"id"`
	ImagePath string `json:"image"`
}

// NewComplaintResponse maps a joined ticket record. The assigned department
// renders as its display name, the assigned staff as a username.
func NewComplaintResponse(record *repository.ComplaintRecord) ComplaintResponse {
	resp := ComplaintResponse{
		TicketID:           record.Complaint.TicketID,
		IssueType:          record.Complaint.IssueType,
		Description:        record.Complaint.Description,
		Priority:           string(record.Complaint.Priority),
		SubmittedBy:        record.Complaint.SubmittedBy,
		Status:             string(record.Complaint.Status),
		AssignedDepartment: record.DepartmentName,
		AssignedStaff:      record.StaffUsername,
		ResolvedBy:         record.Complaint.ResolvedBy,
		ResolvedAt:         record.Complaint.ResolvedAt,
		Remarks:            record.Complaint.Remarks,
		SubmittedAt:        record.Complaint.SubmittedAt,
	}
	if record.Room != nil {
		resp.Room = &ComplaintRoomSummary{
			ID:         record.Room.ID,
			BedNo:      record.Room.BedNo,
			RoomNo:     record.Room.RoomNo,
			Block:      record.Room.Block,
			FloorNo:    record.Room.FloorNo,
			Ward:       record.Room.Ward,
			Speciality: record.Room.Speciality,
			RoomType:   record.Room.RoomType,
		}
	}
	return resp
}

// WithImages attaches uploaded photos to the response.
func (r ComplaintResponse) WithImages(images []domain.ComplaintImage) ComplaintResponse {
	for _, img := range images {
		r.Images = append(r.Images, ComplaintImageInfo{ID: img.ID, ImagePath: img.ImagePath})
	}
	return r
}

// PaginatedResponse wraps list results with navigation metadata.
type PaginatedResponse struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}
