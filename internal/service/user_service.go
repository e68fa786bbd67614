package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/bug-tracker/internal/domain"
	"github.com/spec-kit/bug-tracker/internal/events"
	"github.com/spec-kit/bug-tracker/internal/persistence"
	"github.com/spec-kit/bug-tracker/internal/repository"
)

const userDirectoryKey = "users:directory"

// UserSummary is the public view of a user account.
type UserSummary struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// UserService serves the user directory with a Redis read-through cache. The
// cache is best-effort: a miss or an unreachable Redis falls back to the
// database.
type UserService struct {
	users  repository.UserRepository
	cache  *persistence.Redis
	logger *zap.Logger
	ttl    time.Duration
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, cache *persistence.Redis, logger *zap.Logger, ttl time.Duration) *UserService {
	return &UserService{users: users, cache: cache, logger: logger, ttl: ttl}
}

// List returns all users as public summaries.
func (s *UserService) List(ctx context.Context) ([]UserSummary, error) {
	if cached, err := s.cache.GetString(ctx, userDirectoryKey); err == nil {
		var summaries []UserSummary
		if err := json.Unmarshal([]byte(cached), &summaries); err == nil {
			return summaries, nil
		}
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]UserSummary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, UserSummary{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
		})
	}

	if encoded, err := json.Marshal(summaries); err == nil {
		if err := s.cache.SetString(ctx, userDirectoryKey, string(encoded), s.ttl); err != nil {
			s.logger.Warn("user directory cache write failed", zap.Error(err))
		}
	}
	return summaries, nil
}

// RegisterHandlers subscribes cache invalidation to registration events.
func (s *UserService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventUserRegistered, func(ctx context.Context, event events.Event) error {
		if err := s.cache.Delete(ctx, userDirectoryKey); err != nil {
			s.logger.Warn("user directory cache invalidation failed", zap.Error(err))
		}
		return nil
	})
}
