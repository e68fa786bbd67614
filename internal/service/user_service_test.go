package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/bug-tracker/internal/persistence"
)

func TestUserServiceListWithoutCache(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "alice")
	seedUser(t, users, "bob")

	// A nil Redis wrapper degrades to direct reads.
	var cache *persistence.Redis
	svc := NewUserService(users, cache, zap.NewNop(), time.Minute)

	summaries, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("summaries = %d, want 2", len(summaries))
	}
	if summaries[0].Username != "alice" || summaries[1].Username != "bob" {
		t.Fatalf("unexpected order: %+v", summaries)
	}
	if summaries[0].ID == 0 {
		t.Fatal("id not populated")
	}
}
