package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"hardsub/internal/queue"
)

func TestHubAssignsIncreasingSequences(t *testing.T) {
	hub := NewHub(16)
	hub.Publish(Event{JobID: 1, Percent: 5})
	hub.Publish(Event{JobID: 1, Percent: 15})
	hub.Publish(Event{JobID: 1, Percent: 30})

	events, next, err := hub.Fetch(context.Background(), 0, 0, false)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i, evt := range events {
		if evt.Sequence != uint64(i+1) {
			t.Errorf("event %d sequence = %d, want %d", i, evt.Sequence, i+1)
		}
		if evt.Timestamp.IsZero() {
			t.Errorf("event %d has no timestamp", i)
		}
	}
	if next != 3 {
		t.Fatalf("next cursor = %d, want 3", next)
	}
}

func TestHubFetchSinceCursor(t *testing.T) {
	hub := NewHub(16)
	for i := 1; i <= 5; i++ {
		hub.Publish(Event{JobID: int64(i)})
	}
	events, next, err := hub.Fetch(context.Background(), 3, 0, false)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events after cursor 3, got %d", len(events))
	}
	if events[0].Sequence != 4 || events[1].Sequence != 5 {
		t.Fatalf("unexpected sequences: %d, %d", events[0].Sequence, events[1].Sequence)
	}
	if next != 5 {
		t.Fatalf("next = %d, want 5", next)
	}
}

func TestHubFetchLimit(t *testing.T) {
	hub := NewHub(16)
	for i := 0; i < 5; i++ {
		hub.Publish(Event{})
	}
	events, next, err := hub.Fetch(context.Background(), 0, 2, false)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if next != 2 {
		t.Fatalf("next = %d, want 2 so callers can resume", next)
	}
}

func TestHubDropsOldestAtCapacity(t *testing.T) {
	hub := NewHub(3)
	for i := 0; i < 5; i++ {
		hub.Publish(Event{})
	}
	events, _, err := hub.Fetch(context.Background(), 0, 0, false)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 buffered events, got %d", len(events))
	}
	if events[0].Sequence != 3 {
		t.Fatalf("oldest surviving sequence = %d, want 3", events[0].Sequence)
	}
}

func TestHubFetchWaitWakesOnPublish(t *testing.T) {
	hub := NewHub(16)
	done := make(chan []Event, 1)
	go func() {
		events, _, err := hub.Fetch(context.Background(), 0, 0, true)
		if err != nil {
			done <- nil
			return
		}
		done <- events
	}()

	time.Sleep(20 * time.Millisecond)
	hub.Publish(Event{JobID: 7, Status: string(queue.StatusExtracting)})

	select {
	case events := <-done:
		if len(events) != 1 || events[0].JobID != 7 {
			t.Fatalf("unexpected events: %+v", events)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Fetch did not wake after Publish")
	}
}

func TestHubFetchWaitHonorsContext(t *testing.T) {
	hub := NewHub(16)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, err := hub.Fetch(ctx, 0, 0, true)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestHubPublishItem(t *testing.T) {
	hub := NewHub(16)
	item := &queue.Item{
		ID:              42,
		Status:          queue.StatusTranscribing,
		ProgressStage:   "Transcribing speech",
		ProgressPercent: 30,
		ProgressMessage: "Running recognition",
	}
	hub.PublishItem(item)

	events, _, err := hub.Fetch(context.Background(), 0, 0, false)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	evt := events[0]
	if evt.JobID != 42 || evt.Status != string(queue.StatusTranscribing) || evt.Percent != 30 {
		t.Fatalf("unexpected event: %+v", evt)
	}
}

func TestHubNilSafe(t *testing.T) {
	var hub *Hub
	hub.Publish(Event{})
	hub.PublishItem(&queue.Item{})
	events, next, err := hub.Fetch(context.Background(), 4, 0, false)
	if err != nil || events != nil || next != 4 {
		t.Fatalf("nil hub Fetch = (%v, %d, %v)", events, next, err)
	}
}
