package domain

import (
	"fmt"
	"time"
)

// RecordStatus marks registry records as usable or retired.
type RecordStatus string

const (
	StatusActive   RecordStatus = "active"
	StatusInactive RecordStatus = "inactive"
)

// ParseRecordStatus validates a raw status string.
func ParseRecordStatus(value string) (RecordStatus, error) {
	switch RecordStatus(value) {
	case StatusActive, StatusInactive:
		return RecordStatus(value), nil
	}
	return "", fmt.Errorf("invalid status %q", value)
}

// Department receives complaints routed through its issue categories.
type Department struct {
	Code      string
	Name      string
	Status    RecordStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IssueCategory classifies a complaint and determines the owning department.
type IssueCategory struct {
	Code           string
	DepartmentCode string
	Name           string
	Status         RecordStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
