package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-triage/internal/api/dto"
	"github.com/spec-kit/ticket-triage/internal/dispatch"
	"github.com/spec-kit/ticket-triage/internal/repository"
	"github.com/spec-kit/ticket-triage/internal/trigger"
	apperrors "github.com/spec-kit/ticket-triage/pkg/util"
)

// TicketsHandler exposes the manual triage and escalation endpoints plus the
// audit trail read. The write endpoints hand a request stimulus to the
// dispatcher and write whatever response the stage produced.
type TicketsHandler struct {
	dispatcher *dispatch.Dispatcher
	audit      repository.AuditRepository
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(dispatcher *dispatch.Dispatcher, audit repository.AuditRepository) *TicketsHandler {
	return &TicketsHandler{dispatcher: dispatcher, audit: audit}
}

// Triage POST /tickets/triage.
func (h *TicketsHandler) Triage(c *fiber.Ctx) error {
	var req dto.TriageTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.TicketID) == "" || strings.TrimSpace(req.Assignee) == "" {
		return apperrors.NewValidationError("ticketId, assignee required", nil)
	}
	if !req.Priority.Valid() {
		return apperrors.NewValidationError("priority must be one of low, medium, high, critical", nil)
	}

	resp, err := h.dispatcher.Dispatch(c.UserContext(), trigger.TriageRequest{
		ID:       req.TicketID,
		Assignee: req.Assignee,
		Priority: req.Priority,
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(resp.Status).JSON(resp.Body)
}

// AuditTrail GET /tickets/:id/audit lists dispatched-stimulus records for
// one ticket, oldest first. An unknown ticket yields an empty list rather
// than 404: a ticket with no history and no ticket look the same here.
func (h *TicketsHandler) AuditTrail(c *fiber.Ctx) error {
	ticketID := strings.TrimSpace(c.Params("id"))
	if ticketID == "" {
		return apperrors.NewValidationError("ticket id required", nil)
	}

	entries, err := h.audit.ListByTicket(c.UserContext(), ticketID)
	if err != nil {
		return apperrors.MapError(err)
	}

	items := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.AuditEntryResponse{
			ID:            entry.ID,
			TicketID:      entry.TicketID,
			Stage:         entry.Stage,
			StimulusKind:  entry.StimulusKind,
			Outcome:       entry.Outcome,
			CorrelationID: entry.CorrelationID,
			CreatedAt:     entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Escalate POST /tickets/escalate.
func (h *TicketsHandler) Escalate(c *fiber.Ctx) error {
	var req dto.EscalateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.TicketID) == "" || strings.TrimSpace(req.Reason) == "" {
		return apperrors.NewValidationError("ticketId, reason required", nil)
	}

	resp, err := h.dispatcher.Dispatch(c.UserContext(), trigger.EscalateRequest{
		ID:     req.TicketID,
		Reason: req.Reason,
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(resp.Status).JSON(resp.Body)
}
