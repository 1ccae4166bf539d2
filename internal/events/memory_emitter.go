package events

import (
	"context"
	"sync"
)

// PublishedEvent is one recorded Publish call.
type PublishedEvent struct {
	Topic   string
	Payload any
}

// MemoryEmitter records published events in memory for tests.
type MemoryEmitter struct {
	mu     sync.Mutex
	events []PublishedEvent
}

// NewMemoryEmitter returns an empty emitter.
func NewMemoryEmitter() *MemoryEmitter {
	return &MemoryEmitter{}
}

// Publish records the event.
func (e *MemoryEmitter) Publish(ctx context.Context, topic string, payload any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, PublishedEvent{Topic: topic, Payload: payload})
	return nil
}

// Events returns a copy of everything published so far.
func (e *MemoryEmitter) Events() []PublishedEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]PublishedEvent, len(e.events))
	copy(out, e.events)
	return out
}
