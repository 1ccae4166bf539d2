// Package events defines the publish contract toward downstream consumers
// and the topics this service produces and consumes.
package events

import "context"

// Topics. The inbound two are consumed by the queue package; TicketTriaged
// is the only topic this service publishes.
const (
	TopicTicketCreated  = "ticket::created"
	TopicTicketBreached = "ticket::sla-breached"
	TopicTicketTriaged  = "ticket::triaged"
)

// Emitter publishes an event payload to a topic. Delivery is at-least-once
// and fire-and-forget from the stage's point of view; an error only means
// the publish itself failed.
type Emitter interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// TicketTriaged is the payload published on every triage, regardless of
// which stimulus drove it.
type TicketTriaged struct {
	TicketID string `json:"ticketId"`
	Assignee string `json:"assignee"`
	Priority string `json:"priority"`
	Title    string `json:"title"`
}
