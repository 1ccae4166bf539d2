package stage

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/store"
	"github.com/spec-kit/ticket-triage/internal/trigger"
)

// EscalationTarget receives every escalation regardless of path.
const EscalationTarget = "engineering-lead"

// EscalateAccepted is the 200 body for a manual escalation.
type EscalateAccepted struct {
	TicketID    string `json:"ticketId"`
	EscalatedTo string `json:"escalatedTo"`
	Message     string `json:"message"`
}

// applyEscalation is the shared state transition for both escalation paths:
// fetch the ticket, merge-patch the escalation fields, and return the
// pre-update record. A missing ticket returns (nil, nil); the caller decides
// whether that is a silent skip or a not-found.
func applyEscalation(ctx context.Context, env Env, ticketID, reason string, method domain.EscalationMethod) (*domain.Ticket, error) {
	existing, err := env.Store.Get(ctx, store.NamespaceTickets, ticketID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	updated := *existing
	updated.EscalatedTo = EscalationTarget
	now := env.Now()
	updated.EscalatedAt = &now
	updated.EscalationReason = reason
	updated.EscalationMethod = method
	if err := env.Store.Set(ctx, store.NamespaceTickets, ticketID, updated); err != nil {
		return nil, err
	}
	return existing, nil
}

// AutoEscalate handles a ticket::sla-breached queue message. Breach events
// for tickets that no longer exist are not actionable and are skipped.
func AutoEscalate(ctx context.Context, env Env, msg trigger.SLABreached) error {
	env.Logger.Warn("auto-escalation from SLA breach",
		zap.String("ticket_id", msg.ID),
		zap.Int("age_minutes", msg.AgeMinutes),
		zap.String("priority", msg.Priority))

	reason := fmt.Sprintf("SLA breach: %d minutes without resolution", msg.AgeMinutes)
	existing, err := applyEscalation(ctx, env, msg.ID, reason, domain.EscalationMethodAuto)
	if err != nil {
		return err
	}
	if existing == nil {
		env.Logger.Info("breach for unknown ticket, skipping", zap.String("ticket_id", msg.ID))
	}
	return nil
}

// ManualEscalate handles POST /tickets/escalate. The ticket must exist;
// absence yields a 404 response with no mutation.
func ManualEscalate(ctx context.Context, env Env, req trigger.EscalateRequest) (Response, error) {
	existing, err := applyEscalation(ctx, env, req.ID, req.Reason, domain.EscalationMethodManual)
	if err != nil {
		return Response{}, err
	}
	if existing == nil {
		return notFoundResponse(req.ID), nil
	}

	env.Logger.Info("manual escalation via API",
		zap.String("ticket_id", req.ID),
		zap.String("reason", req.Reason))

	return Response{
		Status: 200,
		Body: EscalateAccepted{
			TicketID:    req.ID,
			EscalatedTo: EscalationTarget,
			Message:     "Ticket escalated successfully",
		},
	}, nil
}
