// Package dto declares the wire types for the ticket endpoints. Field names
// are camelCase: the payload shapes are fixed by the flow contract shared
// with the queue producers and downstream consumers.
package dto

import (
	"time"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// TriageTicketRequest is the body of POST /tickets/triage.
type TriageTicketRequest struct {
	TicketID string                `json:"ticketId"`
	Assignee string                `json:"assignee"`
	Priority domain.TicketPriority `json:"priority"`
}

// EscalateTicketRequest is the body of POST /tickets/escalate.
type EscalateTicketRequest struct {
	TicketID string `json:"ticketId"`
	Reason   string `json:"reason"`
}

// AuditEntryResponse is one element of GET /tickets/:id/audit.
type AuditEntryResponse struct {
	ID            string    `json:"id"`
	TicketID      string    `json:"ticketId"`
	Stage         string    `json:"stage"`
	StimulusKind  string    `json:"stimulusKind"`
	Outcome       string    `json:"outcome"`
	CorrelationID string    `json:"correlationId"`
	CreatedAt     time.Time `json:"createdAt"`
}
