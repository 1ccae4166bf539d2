package stage

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/events"
	"github.com/spec-kit/ticket-triage/internal/store"
	"github.com/spec-kit/ticket-triage/internal/trigger"
)

// Triage assignees and sweep fallbacks.
const (
	AssigneeSeniorSupport = "senior-support"
	AssigneeSupportPool   = "support-pool"

	sweepDefaultPriority = string(domain.TicketPriorityMedium)
	sweepDefaultTitle    = "unknown"
)

// TriageAccepted is the 200 body for a manual triage.
type TriageAccepted struct {
	TicketID string `json:"ticketId"`
	Assignee string `json:"assignee"`
	Status   string `json:"status"`
}

// triagePatch names the fields a triage pass overwrites on the stored
// record; empty priority/title leave the existing values in place.
type triagePatch struct {
	assignee string
	priority string
	title    string
	method   domain.TriageMethod
}

// applyTriage is the shared state transition for all three triage paths:
// merge-patch the record if it exists, then publish ticket::triaged either
// way. Downstream consumers are notified even when local state tracking
// lapsed.
func applyTriage(ctx context.Context, env Env, existing *domain.Ticket, patch triagePatch, evt events.TicketTriaged) error {
	if existing != nil {
		updated := *existing
		updated.Assignee = patch.assignee
		if patch.priority != "" {
			updated.Priority = patch.priority
		}
		if patch.title != "" {
			updated.Title = patch.title
		}
		updated.TriageMethod = patch.method
		now := env.Now()
		updated.TriagedAt = &now
		if err := env.Store.Set(ctx, store.NamespaceTickets, existing.ID, updated); err != nil {
			return err
		}
	}
	return env.Emitter.Publish(ctx, events.TopicTicketTriaged, evt)
}

// assigneeFor routes high and critical tickets to senior support.
func assigneeFor(priority string) string {
	switch domain.TicketPriority(priority) {
	case domain.TicketPriorityHigh, domain.TicketPriorityCritical:
		return AssigneeSeniorSupport
	default:
		return AssigneeSupportPool
	}
}

// AutoTriage handles a ticket::created queue message. A missing record is
// not an error: the store update is skipped but the event still goes out.
func AutoTriage(ctx context.Context, env Env, msg trigger.TicketCreated) error {
	env.Logger.Info("auto-triaging ticket from queue",
		zap.String("ticket_id", msg.ID),
		zap.String("priority", msg.Priority))

	assignee := assigneeFor(msg.Priority)
	existing, err := env.Store.Get(ctx, store.NamespaceTickets, msg.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	err = applyTriage(ctx, env, existing,
		triagePatch{assignee: assignee, method: domain.TriageMethodAuto},
		events.TicketTriaged{TicketID: msg.ID, Assignee: assignee, Priority: msg.Priority, Title: msg.Title})
	if err != nil {
		return err
	}

	env.Logger.Info("ticket auto-triaged",
		zap.String("ticket_id", msg.ID),
		zap.String("assignee", assignee))
	return nil
}

// ManualTriage handles POST /tickets/triage. The ticket must exist; absence
// yields a 404 response with no mutation and no event.
func ManualTriage(ctx context.Context, env Env, req trigger.TriageRequest) (Response, error) {
	existing, err := env.Store.Get(ctx, store.NamespaceTickets, req.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFoundResponse(req.ID), nil
		}
		return Response{}, err
	}

	env.Logger.Info("manual triage via API",
		zap.String("ticket_id", req.ID),
		zap.String("assignee", req.Assignee))

	err = applyTriage(ctx, env, existing,
		triagePatch{assignee: req.Assignee, priority: string(req.Priority), method: domain.TriageMethodManual},
		events.TicketTriaged{TicketID: req.ID, Assignee: req.Assignee, Priority: string(req.Priority), Title: existing.Title})
	if err != nil {
		return Response{}, err
	}

	return Response{
		Status: 200,
		Body:   TriageAccepted{TicketID: req.ID, Assignee: req.Assignee, Status: "triaged"},
	}, nil
}

// Sweep visits every open, unassigned ticket once and triages it into the
// support pool. The swept count is reported through the logger only.
func Sweep(ctx context.Context, env Env, _ trigger.SweepTick) error {
	env.Logger.Info("running untriaged ticket sweep")

	tickets, err := env.Store.List(ctx, store.NamespaceTickets)
	if err != nil {
		return err
	}

	swept := 0
	for _, ticket := range tickets {
		if ticket.Triaged() || ticket.Status != domain.StatusOpen {
			continue
		}
		env.Logger.Warn("found untriaged ticket during sweep", zap.String("ticket_id", ticket.ID))

		priority := ticket.Priority
		if priority == "" {
			priority = sweepDefaultPriority
		}
		title := ticket.Title
		if title == "" {
			title = sweepDefaultTitle
		}

		existing := ticket
		err := applyTriage(ctx, env, &existing,
			triagePatch{assignee: AssigneeSupportPool, priority: priority, title: title, method: domain.TriageMethodSweep},
			events.TicketTriaged{TicketID: ticket.ID, Assignee: AssigneeSupportPool, Priority: priority, Title: title})
		if err != nil {
			return err
		}
		swept++
	}

	env.Logger.Info("sweep complete", zap.Int("swept_count", swept))
	return nil
}
