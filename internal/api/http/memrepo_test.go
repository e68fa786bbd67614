package http

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/bug-tracker/internal/api/http/handlers"
	"github.com/spec-kit/bug-tracker/internal/auth"
	"github.com/spec-kit/bug-tracker/internal/config"
	"github.com/spec-kit/bug-tracker/internal/domain"
	"github.com/spec-kit/bug-tracker/internal/events"
	"github.com/spec-kit/bug-tracker/internal/observability"
	"github.com/spec-kit/bug-tracker/internal/repository"
	"github.com/spec-kit/bug-tracker/internal/service"
)

// In-memory repositories backing the route-level tests.

type memUserRepo struct {
	nextID int64
	users  map[int64]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) List(_ context.Context) ([]domain.User, error) {
	ids := make([]int64, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	result := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		result = append(result, *r.users[id])
	}
	return result, nil
}

func (r *memUserRepo) username(id int64) string {
	if user, ok := r.users[id]; ok {
		return user.Username
	}
	return ""
}

type memBugRepo struct {
	nextID int64
	bugs   map[int64]*domain.Bug
	users  *memUserRepo
}

func newMemBugRepo(users *memUserRepo) *memBugRepo {
	return &memBugRepo{bugs: make(map[int64]*domain.Bug), users: users}
}

func (r *memBugRepo) Create(_ context.Context, bug *domain.Bug) error {
	r.nextID++
	bug.ID = r.nextID
	now := time.Now()
	bug.CreatedAt = now
	bug.UpdatedAt = now
	clone := *bug
	r.bugs[bug.ID] = &clone
	return nil
}

func (r *memBugRepo) GetByID(_ context.Context, id int64) (*domain.Bug, error) {
	bug, ok := r.bugs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *bug
	r.join(&clone)
	return &clone, nil
}

func (r *memBugRepo) List(_ context.Context, filter repository.BugFilter) ([]domain.Bug, error) {
	var result []domain.Bug
	for _, bug := range r.bugs {
		if filter.Status != nil && bug.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && bug.Priority != *filter.Priority {
			continue
		}
		if filter.AssignedTo != nil && (bug.AssignedTo == nil || *bug.AssignedTo != *filter.AssignedTo) {
			continue
		}
		if filter.SearchTerm != nil {
			needle := strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
			if !strings.Contains(strings.ToLower(bug.Title), needle) &&
				!strings.Contains(strings.ToLower(bug.Description), needle) {
				continue
			}
		}
		clone := *bug
		r.join(&clone)
		result = append(result, clone)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

func (r *memBugRepo) Update(_ context.Context, id int64, update repository.BugUpdate) error {
	bug, ok := r.bugs[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if update.Title != nil {
		bug.Title = *update.Title
	}
	if update.Description != nil {
		bug.Description = *update.Description
	}
	if update.Status != nil {
		bug.Status = *update.Status
	}
	if update.Priority != nil {
		bug.Priority = *update.Priority
	}
	if update.SetAssignedTo {
		bug.AssignedTo = update.AssignedTo
	}
	now := time.Now()
	if !now.After(bug.UpdatedAt) {
		now = bug.UpdatedAt.Add(time.Millisecond)
	}
	bug.UpdatedAt = now
	return nil
}

func (r *memBugRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.bugs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.bugs, id)
	return nil
}

func (r *memBugRepo) join(bug *domain.Bug) {
	bug.CreatedByUsername = r.users.username(bug.CreatedBy)
	if bug.AssignedTo != nil {
		name := r.users.username(*bug.AssignedTo)
		bug.AssignedToUsername = &name
	}
}

type memHistoryRepo struct {
	nextID  int64
	entries []domain.BugHistory
	users   *memUserRepo
}

func newMemHistoryRepo(users *memUserRepo) *memHistoryRepo {
	return &memHistoryRepo{users: users}
}

func (r *memHistoryRepo) Create(_ context.Context, entry *domain.BugHistory) error {
	r.nextID++
	entry.ID = r.nextID
	entry.ChangedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memHistoryRepo) ListByBug(_ context.Context, bugID int64) ([]domain.BugHistory, error) {
	var result []domain.BugHistory
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].BugID != bugID {
			continue
		}
		entry := r.entries[i]
		entry.ChangedByUsername = r.users.username(entry.ChangedBy)
		result = append(result, entry)
	}
	return result, nil
}

type memCommentRepo struct {
	nextID   int64
	comments map[int64]*domain.Comment
	users    *memUserRepo
}

func newMemCommentRepo(users *memUserRepo) *memCommentRepo {
	return &memCommentRepo{comments: make(map[int64]*domain.Comment), users: users}
}

func (r *memCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.nextID++
	comment.ID = r.nextID
	comment.CreatedAt = time.Now()
	clone := *comment
	r.comments[comment.ID] = &clone
	return nil
}

func (r *memCommentRepo) GetByID(_ context.Context, id int64) (*domain.Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *comment
	clone.Username = r.users.username(clone.UserID)
	return &clone, nil
}

func (r *memCommentRepo) ListByBug(_ context.Context, bugID int64) ([]domain.Comment, error) {
	var result []domain.Comment
	for _, comment := range r.comments {
		if comment.BugID != bugID {
			continue
		}
		clone := *comment
		clone.Username = r.users.username(clone.UserID)
		result = append(result, clone)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	users := newMemUserRepo()
	bugs := newMemBugRepo(users)
	history := newMemHistoryRepo(users)
	comments := newMemCommentRepo(users)

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "route-test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            bcrypt.MinCost,
		},
	}
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	authSvc := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:   users,
		Dispatcher: dispatcher,
	})
	bugSvc := service.NewBugService(service.BugDependencies{
		BugRepo:     bugs,
		HistoryRepo: history,
		Dispatcher:  dispatcher,
	})
	commentSvc := service.NewCommentService(service.CommentDependencies{
		CommentRepo: comments,
		BugRepo:     bugs,
		Dispatcher:  dispatcher,
	})
	userSvc := service.NewUserService(users, nil, logger, time.Minute)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("bug-tracker", "test", nil, nil, metrics),
		Users:          handlers.NewUsersHandler(authSvc, userSvc),
		Bugs:           handlers.NewBugsHandler(bugSvc),
		Comments:       handlers.NewCommentsHandler(commentSvc),
		AuthMiddleware: auth.NewMiddleware(authSvc.TokenManager()),
	})
	return app
}
