package domain

import "time"

// BugHistory is an append-only audit record of a single field change on a
// bug. One row is written per changed field per update.
type BugHistory struct {
	ID                int64
	BugID             int64
	ChangedField      string
	OldValue          *string
	NewValue          *string
	ChangedBy         int64
	ChangedAt         time.Time
	ChangedByUsername string
}
