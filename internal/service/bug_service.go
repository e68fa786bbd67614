package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/bug-tracker/internal/domain"
	"github.com/spec-kit/bug-tracker/internal/events"
	"github.com/spec-kit/bug-tracker/internal/repository"
	apperrors "github.com/spec-kit/bug-tracker/pkg/util"
)

// BugService coordinates bug workflows including audit logging.
type BugService struct {
	bugs       repository.BugRepository
	history    repository.BugHistoryRepository
	dispatcher events.Dispatcher
}

// BugDependencies bundles repositories for the bug service.
type BugDependencies struct {
	BugRepo     repository.BugRepository
	HistoryRepo repository.BugHistoryRepository
	Dispatcher  events.Dispatcher
}

// BugCreateInput describes bug creation payload.
type BugCreateInput struct {
	Title       string
	Description string
	Priority    domain.BugPriority
	AssignedTo  *int64
}

// BugUpdateInput describes a partial update. Nil fields are absent from the
// request; assigned_to carries an explicit flag because null is a legal value.
type BugUpdateInput struct {
	Title         *string
	Description   *string
	Status        *domain.BugStatus
	Priority      *domain.BugPriority
	SetAssignedTo bool
	AssignedTo    *int64
}

// NewBugService constructs the service.
func NewBugService(deps BugDependencies) *BugService {
	return &BugService{
		bugs:       deps.BugRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Create inserts a bug owned by the caller and returns the joined row.
func (s *BugService) Create(ctx context.Context, actor events.Actor, input BugCreateInput) (*domain.Bug, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required", nil)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.BugPriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}

	bug := &domain.Bug{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      domain.BugStatusOpen,
		Priority:    priority,
		CreatedBy:   actor.UserID,
		AssignedTo:  input.AssignedTo,
	}
	if err := s.bugs.Create(ctx, bug); err != nil {
		return nil, err
	}

	created, err := s.bugs.GetByID(ctx, bug.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:  events.EventBugCreated,
		BugID: created.ID,
		Actor: actor,
		Payload: events.BugCreatedPayload{
			Title:      created.Title,
			Priority:   created.Priority,
			AssignedTo: created.AssignedTo,
		},
	})
	return created, nil
}

// List returns bugs matching the filter, most recently updated first.
func (s *BugService) List(ctx context.Context, filter repository.BugFilter) ([]domain.Bug, error) {
	return s.bugs.List(ctx, filter)
}

// Get fetches a single bug by id.
func (s *BugService) Get(ctx context.Context, id int64) (*domain.Bug, error) {
	bug, err := s.bugs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return bug, nil
}

// Update applies a partial update. One history row is appended per supplied
// field, capturing prior and new values before the write; updated_at always
// advances.
func (s *BugService) Update(ctx context.Context, actor events.Actor, id int64, input BugUpdateInput) (*domain.Bug, error) {
	if input.Title == nil && input.Description == nil && input.Status == nil &&
		input.Priority == nil && !input.SetAssignedTo {
		return nil, apperrors.NewValidationError("no valid fields to update", nil)
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": *input.Status})
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
	}

	current, err := s.bugs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := collectChanges(current, input)
	for _, change := range changes {
		entry := &domain.BugHistory{
			BugID:        id,
			ChangedField: change.Field,
			OldValue:     change.OldValue,
			NewValue:     change.NewValue,
			ChangedBy:    actor.UserID,
		}
		if err := s.history.Create(ctx, entry); err != nil {
			return nil, err
		}
	}

	update := repository.BugUpdate{
		Title:         input.Title,
		Description:   input.Description,
		Status:        input.Status,
		Priority:      input.Priority,
		SetAssignedTo: input.SetAssignedTo,
		AssignedTo:    input.AssignedTo,
	}
	if err := s.bugs.Update(ctx, id, update); err != nil {
		return nil, err
	}

	updated, err := s.bugs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:    events.EventBugUpdated,
		BugID:   id,
		Actor:   actor,
		Payload: events.BugUpdatedPayload{Changes: changes},
	})
	return updated, nil
}

// Delete removes a bug by id.
func (s *BugService) Delete(ctx context.Context, actor events.Actor, id int64) error {
	bug, err := s.bugs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.bugs.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.Event{
		Type:    events.EventBugDeleted,
		BugID:   id,
		Actor:   actor,
		Payload: events.BugDeletedPayload{Title: bug.Title},
	})
	return nil
}

// ListHistory returns the audit trail for a bug, newest first.
func (s *BugService) ListHistory(ctx context.Context, bugID int64) ([]domain.BugHistory, error) {
	return s.history.ListByBug(ctx, bugID)
}

func collectChanges(current *domain.Bug, input BugUpdateInput) []events.FieldChange {
	var changes []events.FieldChange
	if input.Title != nil {
		changes = append(changes, events.FieldChange{
			Field:    "title",
			OldValue: strPtr(current.Title),
			NewValue: input.Title,
		})
	}
	if input.Description != nil {
		changes = append(changes, events.FieldChange{
			Field:    "description",
			OldValue: strPtr(current.Description),
			NewValue: input.Description,
		})
	}
	if input.Status != nil {
		changes = append(changes, events.FieldChange{
			Field:    "status",
			OldValue: strPtr(string(current.Status)),
			NewValue: strPtr(string(*input.Status)),
		})
	}
	if input.Priority != nil {
		changes = append(changes, events.FieldChange{
			Field:    "priority",
			OldValue: strPtr(string(current.Priority)),
			NewValue: strPtr(string(*input.Priority)),
		})
	}
	if input.SetAssignedTo {
		changes = append(changes, events.FieldChange{
			Field:    "assigned_to",
			OldValue: int64Str(current.AssignedTo),
			NewValue: int64Str(input.AssignedTo),
		})
	}
	return changes
}

func (s *BugService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func strPtr(s string) *string {
	return &s
}

func int64Str(v *int64) *string {
	if v == nil {
		return nil
	}
	s := strconv.FormatInt(*v, 10)
	return &s
}
