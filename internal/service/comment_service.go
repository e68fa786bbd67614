package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/bug-tracker/internal/domain"
	"github.com/spec-kit/bug-tracker/internal/events"
	"github.com/spec-kit/bug-tracker/internal/repository"
	apperrors "github.com/spec-kit/bug-tracker/pkg/util"
)

// CommentService manages bug comments.
type CommentService struct {
	comments   repository.CommentRepository
	bugs       repository.BugRepository
	dispatcher events.Dispatcher
}

// CommentDependencies bundles repositories for the comment service.
type CommentDependencies struct {
	CommentRepo repository.CommentRepository
	BugRepo     repository.BugRepository
	Dispatcher  events.Dispatcher
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	return &CommentService{
		comments:   deps.CommentRepo,
		bugs:       deps.BugRepo,
		dispatcher: deps.Dispatcher,
	}
}

// ListByBug returns comments for a bug, newest first, with author usernames.
func (s *CommentService) ListByBug(ctx context.Context, bugID int64) ([]domain.Comment, error) {
	return s.comments.ListByBug(ctx, bugID)
}

// Create appends a comment authored by the caller to an existing bug.
func (s *CommentService) Create(ctx context.Context, actor events.Actor, bugID int64, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content is required", nil)
	}

	if _, err := s.bugs.GetByID(ctx, bugID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		BugID:   bugID,
		UserID:  actor.UserID,
		Content: content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	created, err := s.comments.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventCommentAdded,
			BugID:     bugID,
			Actor:     actor,
			Timestamp: time.Now(),
			Payload: events.CommentAddedPayload{
				CommentID:      created.ID,
				ContentPreview: contentPreview(created.Content, 120),
			},
		})
	}
	return created, nil
}

func contentPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
