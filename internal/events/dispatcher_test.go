package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []Event
	d.Subscribe(EventBugCreated, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})
	d.Subscribe(EventBugDeleted, func(_ context.Context, e Event) error {
		t.Fatal("wrong event type delivered")
		return nil
	})

	event := Event{ID: "e1", Type: EventBugCreated, BugID: 5}
	if err := d.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(got) != 1 || got[0].BugID != 5 {
		t.Fatalf("unexpected delivery: %+v", got)
	}
}

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher()

	var secondCalled bool
	d.Subscribe(EventCommentAdded, func(_ context.Context, _ Event) error {
		return errors.New("handler failed")
	})
	d.Subscribe(EventCommentAdded, func(_ context.Context, _ Event) error {
		secondCalled = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventCommentAdded}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !secondCalled {
		t.Fatal("second handler not invoked after first errored")
	}
}
