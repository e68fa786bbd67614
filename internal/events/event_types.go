package events

import (
	"time"

	"github.com/spec-kit/bug-tracker/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventBugCreated     EventType = "bug_created"
	EventBugUpdated     EventType = "bug_updated"
	EventBugDeleted     EventType = "bug_deleted"
	EventCommentAdded   EventType = "comment_added"
)

// Actor identifies the user that triggered an event.
type Actor struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	BugID     int64       `json:"bug_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Username string `json:"username"`
}

// BugCreatedPayload payload.
type BugCreatedPayload struct {
	Title      string             `json:"title"`
	Priority   domain.BugPriority `json:"priority"`
	AssignedTo *int64             `json:"assigned_to,omitempty"`
}

// FieldChange captures one audited field mutation.
type FieldChange struct {
	Field    string  `json:"field"`
	OldValue *string `json:"old_value"`
	NewValue *string `json:"new_value"`
}

// BugUpdatedPayload payload.
type BugUpdatedPayload struct {
	Changes []FieldChange `json:"changes"`
}

// BugDeletedPayload payload.
type BugDeletedPayload struct {
	Title string `json:"title"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID      int64  `json:"comment_id"`
	ContentPreview string `json:"content_preview"`
}
