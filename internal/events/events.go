// Package events publishes domain events after pipeline writes commit.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type names a domain event.
type Type string

// Event types.
const (
	CompatibilityComputed Type = "compatibility.computed"
	RoadmapGenerated      Type = "roadmap.generated"
	ItemCompleted         Type = "roadmap.item_completed"
)

// Event is the JSON envelope sent to subscribers.
type Event struct {
	ID          uuid.UUID      `json:"id"`
	Type        Type           `json:"type"`
	CandidateID uuid.UUID      `json:"candidate_id"`
	OccurredAt  time.Time      `json:"occurred_at"`
	Data        map[string]any `json:"data,omitempty"`
}

// New builds an event with a fresh id and the current time.
func New(t Type, candidateID uuid.UUID, data map[string]any) Event {
	return Event{
		ID:          uuid.New(),
		Type:        t,
		CandidateID: candidateID,
		OccurredAt:  time.Now().UTC(),
		Data:        data,
	}
}

// Publisher delivers events. Callers treat failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// Recorder keeps published events in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types lists the recorded event types in order.
func (r *Recorder) Types() []Type {
	events := r.Events()
	out := make([]Type, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}
