// Package trigger defines the closed set of stimuli that can invoke a
// workflow stage. Each stage operation accepts exactly one variant, so
// adding a new stimulus kind forces a decision at every dispatch site.
package trigger

import (
	"time"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// Kind tags the transport a stimulus arrived on.
type Kind string

const (
	KindQueue   Kind = "queue"
	KindRequest Kind = "request"
	KindTimer   Kind = "timer"
)

// Stimulus is the sealed union of everything that can invoke a stage.
// TicketID is the shared correlation field, defined per variant rather than
// looked up structurally; the timer tick has none and returns "".
type Stimulus interface {
	Kind() Kind
	TicketID() string
	stimulus()
}

// TicketCreated is the payload of a ticket::created queue message.
type TicketCreated struct {
	ID            string `json:"ticketId"`
	Title         string `json:"title"`
	Priority      string `json:"priority"`
	CustomerEmail string `json:"customerEmail"`
}

func (TicketCreated) Kind() Kind         { return KindQueue }
func (m TicketCreated) TicketID() string { return m.ID }
func (TicketCreated) stimulus()          {}

// SLABreached is the payload of a ticket::sla-breached queue message.
type SLABreached struct {
	ID         string `json:"ticketId"`
	Priority   string `json:"priority"`
	Title      string `json:"title"`
	AgeMinutes int    `json:"ageMinutes"`
}

func (SLABreached) Kind() Kind         { return KindQueue }
func (m SLABreached) TicketID() string { return m.ID }
func (SLABreached) stimulus()          {}

// TriageRequest is the body of POST /tickets/triage. Priority is the one
// place the enum is enforced; the handler validates it before dispatch.
type TriageRequest struct {
	ID       string                `json:"ticketId"`
	Assignee string                `json:"assignee"`
	Priority domain.TicketPriority `json:"priority"`
}

func (TriageRequest) Kind() Kind         { return KindRequest }
func (r TriageRequest) TicketID() string { return r.ID }
func (TriageRequest) stimulus()          {}

// EscalateRequest is the body of POST /tickets/escalate.
type EscalateRequest struct {
	ID     string `json:"ticketId"`
	Reason string `json:"reason"`
}

func (EscalateRequest) Kind() Kind         { return KindRequest }
func (r EscalateRequest) TicketID() string { return r.ID }
func (EscalateRequest) stimulus()          {}

// SweepTick is the periodic timer firing. It carries no payload beyond the
// time it fired.
type SweepTick struct {
	FiredAt time.Time
}

func (SweepTick) Kind() Kind       { return KindTimer }
func (SweepTick) TicketID() string { return "" }
func (SweepTick) stimulus()        {}
