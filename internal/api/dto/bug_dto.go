package dto

import (
	"encoding/json"
	"time"
)

// OptionalInt64 distinguishes an absent field from an explicit null, which
// matters for clearing a bug's assignee.
type OptionalInt64 struct {
	Set   bool
	Value *int64
}

// UnmarshalJSON marks the field as present and captures null or a number.
func (o *OptionalInt64) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// CreateBugRequest payload.
type CreateBugRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	AssignedTo  *int64 `json:"assigned_to"`
}

// UpdateBugRequest payload; every field is optional.
type UpdateBugRequest struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Status      *string       `json:"status"`
	Priority    *string       `json:"priority"`
	AssignedTo  OptionalInt64 `json:"assigned_to"`
}

// BugResponse mirrors a bug row joined with usernames.
type BugResponse struct {
	ID                 int64     `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Status             string    `json:"status"`
	Priority           string    `json:"priority"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	CreatedBy          int64     `json:"created_by"`
	AssignedTo         *int64    `json:"assigned_to"`
	CreatedByUsername  string    `json:"created_by_username"`
	AssignedToUsername *string   `json:"assigned_to_username"`
}

// DeleteBugResponse acknowledges a deletion.
type DeleteBugResponse struct {
	Success bool `json:"success"`
}

// BugHistoryResponse is one audit row joined with the changer's username.
type BugHistoryResponse struct {
	ID                int64     `json:"id"`
	BugID             int64     `json:"bug_id"`
	ChangedField      string    `json:"changed_field"`
	OldValue          *string   `json:"old_value"`
	NewValue          *string   `json:"new_value"`
	ChangedBy         int64     `json:"changed_by"`
	ChangedAt         time.Time `json:"changed_at"`
	ChangedByUsername string    `json:"changed_by_username"`
}
