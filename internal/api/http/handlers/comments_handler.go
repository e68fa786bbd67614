package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bug-tracker/internal/api/dto"
	"github.com/spec-kit/bug-tracker/internal/domain"
	"github.com/spec-kit/bug-tracker/internal/service"
	apperrors "github.com/spec-kit/bug-tracker/pkg/util"
)

// CommentsHandler manages comment endpoints nested under bugs.
type CommentsHandler struct {
	service *service.CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(commentService *service.CommentService) *CommentsHandler {
	return &CommentsHandler{service: commentService}
}

// List handles GET /api/bugs/:id/comments.
func (h *CommentsHandler) List(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	comments, err := h.service.ListByBug(c.UserContext(), id)
	if err != nil {
		return err
	}
	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, commentResponse(&comments[i]))
	}
	return c.JSON(items)
}

// Create handles POST /api/bugs/:id/comments.
func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.service.Create(c.UserContext(), actor, id, req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(commentResponse(comment))
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        comment.ID,
		BugID:     comment.BugID,
		UserID:    comment.UserID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		Username:  comment.Username,
	}
}
