package progress

import (
	"context"
	"sync"
	"time"

	"hardsub/internal/queue"
)

// Event is one status/progress notification produced by the pipeline worker.
// Sequence numbers preserve production order so consumers observe updates in
// the order the worker emitted them.
type Event struct {
	Sequence  uint64    `json:"seq"`
	Timestamp time.Time `json:"ts"`
	JobID     int64     `json:"job_id"`
	Status    string    `json:"status"`
	Stage     string    `json:"stage,omitempty"`
	Percent   float64   `json:"percent"`
	Message   string    `json:"message,omitempty"`
}

// Hub stores recent progress events and wakes waiters when new events arrive.
// It is the single-producer/single-consumer channel between the pipeline
// worker and whatever surface presents progress to the user.
type Hub struct {
	mu       sync.Mutex
	cond     *sync.Cond
	capacity int
	buffer   []Event
	nextSeq  uint64
}

// NewHub constructs a bounded in-memory event buffer.
func NewHub(capacity int) *Hub {
	if capacity <= 0 {
		capacity = 512
	}
	h := &Hub{capacity: capacity}
	h.cond = sync.NewCond(&h.mu)
	return h
}

// Publish appends a new event to the hub, assigning the next sequence number.
func (h *Hub) Publish(evt Event) {
	if h == nil {
		return
	}
	h.mu.Lock()
	h.nextSeq++
	evt.Sequence = h.nextSeq
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	if len(h.buffer) == h.capacity {
		copy(h.buffer, h.buffer[1:])
		h.buffer = h.buffer[:h.capacity-1]
	}
	h.buffer = append(h.buffer, evt)
	h.cond.Broadcast()
	h.mu.Unlock()
}

// PublishItem publishes the current progress state of a job.
func (h *Hub) PublishItem(item *queue.Item) {
	if h == nil || item == nil {
		return
	}
	h.Publish(Event{
		JobID:   item.ID,
		Status:  string(item.Status),
		Stage:   item.ProgressStage,
		Percent: item.ProgressPercent,
		Message: item.ProgressMessage,
	})
}

// Fetch returns events with sequence greater than since, in order. When wait
// is true, Fetch blocks until at least one event is available or the context
// ends.
func (h *Hub) Fetch(ctx context.Context, since uint64, limit int, wait bool) ([]Event, uint64, error) {
	if h == nil {
		return nil, since, nil
	}
	if limit <= 0 || limit > h.capacity {
		limit = h.capacity
	}

	cancelWait := make(chan struct{})
	if wait && ctx != nil && ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				h.cond.Broadcast()
			case <-cancelWait:
			}
		}()
	}
	defer close(cancelWait)

	h.mu.Lock()
	defer h.mu.Unlock()

	for {
		events, next := h.snapshotLocked(since, limit)
		if len(events) > 0 || !wait {
			return events, next, nil
		}
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return nil, since, err
			}
		}
		h.cond.Wait()
	}
}

func (h *Hub) snapshotLocked(since uint64, limit int) ([]Event, uint64) {
	next := since
	var events []Event
	for _, evt := range h.buffer {
		if evt.Sequence <= since {
			continue
		}
		events = append(events, evt)
		if evt.Sequence > next {
			next = evt.Sequence
		}
		if len(events) >= limit {
			break
		}
	}
	return events, next
}
