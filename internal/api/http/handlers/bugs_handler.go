package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bug-tracker/internal/api/dto"
	"github.com/spec-kit/bug-tracker/internal/auth"
	"github.com/spec-kit/bug-tracker/internal/domain"
	"github.com/spec-kit/bug-tracker/internal/events"
	"github.com/spec-kit/bug-tracker/internal/repository"
	"github.com/spec-kit/bug-tracker/internal/service"
	apperrors "github.com/spec-kit/bug-tracker/pkg/util"
)

// BugsHandler manages bug CRUD and history endpoints.
type BugsHandler struct {
	service *service.BugService
}

// NewBugsHandler constructs handler.
func NewBugsHandler(bugService *service.BugService) *BugsHandler {
	return &BugsHandler{service: bugService}
}

// List handles GET /api/bugs.
func (h *BugsHandler) List(c *fiber.Ctx) error {
	filter := repository.BugFilter{}
	if status := c.Query("status"); status != "" {
		s := domain.BugStatus(status)
		filter.Status = &s
	}
	if priority := c.Query("priority"); priority != "" {
		p := domain.BugPriority(priority)
		filter.Priority = &p
	}
	if assignedTo := c.Query("assignedTo"); assignedTo != "" {
		id, err := strconv.ParseInt(assignedTo, 10, 64)
		if err != nil {
			return apperrors.NewValidationError("invalid assignedTo", nil)
		}
		filter.AssignedTo = &id
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}

	bugs, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.BugResponse, 0, len(bugs))
	for i := range bugs {
		items = append(items, bugResponse(&bugs[i]))
	}
	return c.JSON(items)
}

// Get handles GET /api/bugs/:id.
func (h *BugsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	bug, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(bugResponse(bug))
}

// Create handles POST /api/bugs.
func (h *BugsHandler) Create(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateBugRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.BugCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.BugPriority(req.Priority),
		AssignedTo:  req.AssignedTo,
	}
	bug, err := h.service.Create(c.UserContext(), actor, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(bugResponse(bug))
}

// Update handles PATCH /api/bugs/:id.
func (h *BugsHandler) Update(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateBugRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.BugUpdateInput{
		Title:         req.Title,
		Description:   req.Description,
		SetAssignedTo: req.AssignedTo.Set,
		AssignedTo:    req.AssignedTo.Value,
	}
	if req.Status != nil {
		s := domain.BugStatus(*req.Status)
		input.Status = &s
	}
	if req.Priority != nil {
		p := domain.BugPriority(*req.Priority)
		input.Priority = &p
	}

	bug, err := h.service.Update(c.UserContext(), actor, id, input)
	if err != nil {
		return err
	}
	return c.JSON(bugResponse(bug))
}

// Delete handles DELETE /api/bugs/:id.
func (h *BugsHandler) Delete(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), actor, id); err != nil {
		return err
	}
	return c.JSON(dto.DeleteBugResponse{Success: true})
}

// History handles GET /api/bugs/:id/history.
func (h *BugsHandler) History(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	entries, err := h.service.ListHistory(c.UserContext(), id)
	if err != nil {
		return err
	}
	items := make([]dto.BugHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.BugHistoryResponse{
			ID:                entry.ID,
			BugID:             entry.BugID,
			ChangedField:      entry.ChangedField,
			OldValue:          entry.OldValue,
			NewValue:          entry.NewValue,
			ChangedBy:         entry.ChangedBy,
			ChangedAt:         entry.ChangedAt,
			ChangedByUsername: entry.ChangedByUsername,
		})
	}
	return c.JSON(items)
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid bug id", nil)
	}
	return id, nil
}

func requireActor(c *fiber.Ctx) (events.Actor, error) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return events.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	return events.Actor{UserID: identity.UserID, Username: identity.Username}, nil
}

func bugResponse(bug *domain.Bug) dto.BugResponse {
	return dto.BugResponse{
		ID:                 bug.ID,
		Title:              bug.Title,
		Description:        bug.Description,
		Status:             string(bug.Status),
		Priority:           string(bug.Priority),
		CreatedAt:          bug.CreatedAt,
		UpdatedAt:          bug.UpdatedAt,
		CreatedBy:          bug.CreatedBy,
		AssignedTo:         bug.AssignedTo,
		CreatedByUsername:  bug.CreatedByUsername,
		AssignedToUsername: bug.AssignedToUsername,
	}
}
