package domain

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// ComplaintStatus enumerates ticket lifecycle states.
type ComplaintStatus string

const (
	ComplaintStatusOpen       ComplaintStatus = "open"
	ComplaintStatusInProgress ComplaintStatus = "in_progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
	ComplaintStatusClosed     ComplaintStatus = "closed"
	ComplaintStatusOnHold     ComplaintStatus = "on_hold"
)

// ParseComplaintStatus validates a raw status string.
func ParseComplaintStatus(value string) (ComplaintStatus, error) {
	switch ComplaintStatus(value) {
	case ComplaintStatusOpen, ComplaintStatusInProgress, ComplaintStatusResolved,
		ComplaintStatusClosed, ComplaintStatusOnHold:
		return ComplaintStatus(value), nil
	}
	return "", fmt.Errorf("invalid status %q", value)
}

// ComplaintPriority enumerates urgency levels.
type ComplaintPriority string

const (
	ComplaintPriorityLow    ComplaintPriority = "low"
	ComplaintPriorityMedium ComplaintPriority = "medium"
	ComplaintPriorityHigh   ComplaintPriority = "high"
)

// ParseComplaintPriority validates a raw priority string.
func ParseComplaintPriority(value string) (ComplaintPriority, error) {
	switch ComplaintPriority(value) {
	case ComplaintPriorityLow, ComplaintPriorityMedium, ComplaintPriorityHigh:
		return ComplaintPriority(value), nil
	}
	return "", fmt.Errorf("invalid priority %q", value)
}

// ErrCloseRequiresResolved rejects closing a ticket that is not resolved yet.
var ErrCloseRequiresResolved = errors.New("a ticket can only be closed if it is already resolved")

// Complaint is a ticket raised against a room for an issue category.
type Complaint struct {
	TicketID           string
	RoomID             *int64
	IssueType          string
	Description        string
	Priority           ComplaintPriority
	SubmittedBy        string
	Status             ComplaintStatus
	AssignedDepartment *string
	AssignedStaffID    *string
	ResolvedBy         *string
	ResolvedAt         *time.Time
	Remarks            *string
	SubmittedAt        time.Time
}

// Transition moves the ticket to the requested status, applying resolution
// side effects. resolvedBy is the assigned staff username at transition time,
// nil when unassigned; it is only consulted for the resolved state.
func (c *Complaint) Transition(next ComplaintStatus, resolvedBy *string, now time.Time) error {
	switch next {
	case ComplaintStatusClosed:
		if c.Status != ComplaintStatusResolved {
			return ErrCloseRequiresResolved
		}
	case ComplaintStatusResolved:
		c.ResolvedBy = resolvedBy
		c.ResolvedAt = &now
	case ComplaintStatusOpen, ComplaintStatusInProgress, ComplaintStatusOnHold:
		c.ResolvedBy = nil
		c.ResolvedAt = nil
	default:
		return fmt.Errorf("invalid status %q", next)
	}
	c.Status = next
	return nil
}

// TicketIDPrefix heads every generated ticket identifier.
const TicketIDPrefix = "SVN"

// NewTicketID synthesizes a ticket identifier from a random 128-bit value,
// truncated to a zero-padded 5-digit suffix. The suffix space is tiny, so the
// insert path retries on primary-key collisions instead of trusting it.
func NewTicketID() string {
	id := uuid.New()
	digits := new(big.Int).SetBytes(id[:]).String()
	if len(digits) > 5 {
		digits = digits[:5]
	}
	return fmt.Sprintf("%s%05s", TicketIDPrefix, digits)
}

// ComplaintImage is an uploaded photo owned by exactly one complaint.
type ComplaintImage struct {
	ID        int64
	TicketID  string
	ImagePath string
	CreatedAt time.Time
}
