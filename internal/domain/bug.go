package domain

import "time"

// BugStatus enumerates lifecycle states for bugs.
type BugStatus string

const (
	BugStatusOpen       BugStatus = "Open"
	BugStatusInProgress BugStatus = "In Progress"
	BugStatusResolved   BugStatus = "Resolved"
)

// Valid reports whether the status is one of the known states.
func (s BugStatus) Valid() bool {
	switch s {
	case BugStatusOpen, BugStatusInProgress, BugStatusResolved:
		return true
	}
	return false
}

// BugPriority enumerates triage urgency.
type BugPriority string

const (
	BugPriorityLow    BugPriority = "Low"
	BugPriorityMedium BugPriority = "Medium"
	BugPriorityHigh   BugPriority = "High"
)

// Valid reports whether the priority is one of the known levels.
func (p BugPriority) Valid() bool {
	switch p {
	case BugPriorityLow, BugPriorityMedium, BugPriorityHigh:
		return true
	}
	return false
}

// Bug is the aggregate for tracked issues. The username fields are filled
// from joins against the users table and are read-only.
type Bug struct {
	ID                 int64
	Title              string
	Description        string
	Status             BugStatus
	Priority           BugPriority
	CreatedBy          int64
	AssignedTo         *int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
	CreatedByUsername  string
	AssignedToUsername *string
}
