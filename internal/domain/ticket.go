package domain

import "time"

// TicketPriority enumerates the priorities accepted on the manual triage
// path. The Ticket entity itself keeps Priority as an open string: the
// queue-originated paths pass priorities through without constraining them.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

// Valid reports whether the priority is one of the enumerated values.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// TriageMethod records how a ticket acquired its assignee.
type TriageMethod string

const (
	TriageMethodAuto   TriageMethod = "auto"
	TriageMethodManual TriageMethod = "manual"
	TriageMethodSweep  TriageMethod = "auto-sweep"
)

// EscalationMethod records how a ticket was escalated.
type EscalationMethod string

const (
	EscalationMethodAuto   EscalationMethod = "auto"
	EscalationMethodManual EscalationMethod = "manual"
)

// StatusOpen is the status a ticket carries between creation and triage.
const StatusOpen = "open"

// Ticket is the persistent record shared by the triage and escalation
// stages. Stage updates are merge-patches: a stage overwrites only the
// fields it names and carries everything else forward unchanged.
type Ticket struct {
	ID            string `json:"id"`
	Title         string `json:"title,omitempty"`
	Priority      string `json:"priority,omitempty"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	Status        string `json:"status,omitempty"`

	Assignee     string       `json:"assignee,omitempty"`
	TriagedAt    *time.Time   `json:"triagedAt,omitempty"`
	TriageMethod TriageMethod `json:"triageMethod,omitempty"`

	EscalatedTo      string           `json:"escalatedTo,omitempty"`
	EscalatedAt      *time.Time       `json:"escalatedAt,omitempty"`
	EscalationReason string           `json:"escalationReason,omitempty"`
	EscalationMethod EscalationMethod `json:"escalationMethod,omitempty"`
}

// Triaged reports whether the ticket has been through any triage path.
func (t Ticket) Triaged() bool {
	return t.Assignee != ""
}
