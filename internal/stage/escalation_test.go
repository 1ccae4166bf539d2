package stage

import (
	"context"
	"testing"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/store"
	"github.com/spec-kit/ticket-triage/internal/trigger"
)

func TestManualEscalatePatchesAndResponds(t *testing.T) {
	env, tickets, _ := testEnv(t)
	mustSet(t, tickets, domain.Ticket{
		ID: "t1", Title: "vip issue", Priority: "high", Status: domain.StatusOpen, Assignee: "alice",
	})

	resp, err := ManualEscalate(context.Background(), env, trigger.EscalateRequest{
		ID: "t1", Reason: "customer VIP",
	})
	if err != nil {
		t.Fatalf("ManualEscalate failed: %v", err)
	}
	if resp.Status != 200 {
		t.Fatalf("status = %d, want 200", resp.Status)
	}
	body, ok := resp.Body.(EscalateAccepted)
	if !ok {
		t.Fatalf("body type %T", resp.Body)
	}
	if body.TicketID != "t1" || body.EscalatedTo != EscalationTarget || body.Message != "Ticket escalated successfully" {
		t.Fatalf("body = %+v", body)
	}

	got := mustGet(t, tickets, "t1")
	if got.EscalatedTo != EscalationTarget {
		t.Fatalf("escalatedTo = %q", got.EscalatedTo)
	}
	if got.EscalationReason != "customer VIP" || got.EscalationMethod != domain.EscalationMethodManual {
		t.Fatalf("escalation fields = %+v", got)
	}
	if got.EscalatedAt == nil || !got.EscalatedAt.Equal(env.Now()) {
		t.Fatalf("escalatedAt = %v", got.EscalatedAt)
	}
	// Merge-patch: triage-side fields survive.
	if got.Assignee != "alice" || got.Title != "vip issue" || got.Priority != "high" {
		t.Fatalf("unrelated fields lost: %+v", got)
	}
}

func TestManualEscalateNotFound(t *testing.T) {
	env, tickets, _ := testEnv(t)

	resp, err := ManualEscalate(context.Background(), env, trigger.EscalateRequest{
		ID: "missing_id", Reason: "whatever",
	})
	if err != nil {
		t.Fatalf("ManualEscalate failed: %v", err)
	}
	if resp.Status != 404 {
		t.Fatalf("status = %d, want 404", resp.Status)
	}
	body, ok := resp.Body.(ErrorBody)
	if !ok {
		t.Fatalf("body type %T", resp.Body)
	}
	if body.Error != "Ticket missing_id not found" {
		t.Fatalf("error = %q", body.Error)
	}

	all, err := tickets.List(context.Background(), store.NamespaceTickets)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("no mutation expected, store has %d tickets", len(all))
	}
}

func TestAutoEscalateFormatsBreachReason(t *testing.T) {
	env, tickets, _ := testEnv(t)
	mustSet(t, tickets, domain.Ticket{ID: "t2", Status: domain.StatusOpen, Priority: "high"})

	err := AutoEscalate(context.Background(), env, trigger.SLABreached{
		ID: "t2", Priority: "high", Title: "stuck", AgeMinutes: 95,
	})
	if err != nil {
		t.Fatalf("AutoEscalate failed: %v", err)
	}

	got := mustGet(t, tickets, "t2")
	if got.EscalationReason != "SLA breach: 95 minutes without resolution" {
		t.Fatalf("reason = %q", got.EscalationReason)
	}
	if got.EscalationMethod != domain.EscalationMethodAuto || got.EscalatedTo != EscalationTarget {
		t.Fatalf("escalation fields = %+v", got)
	}
}

func TestAutoEscalateMissingTicketSilentlySkips(t *testing.T) {
	env, tickets, emitter := testEnv(t)

	err := AutoEscalate(context.Background(), env, trigger.SLABreached{
		ID: "missing_id", Priority: "low", AgeMinutes: 10,
	})
	if err != nil {
		t.Fatalf("AutoEscalate should not error on missing ticket: %v", err)
	}

	all, err := tickets.List(context.Background(), store.NamespaceTickets)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("no mutation expected, store has %d tickets", len(all))
	}
	if len(emitter.Events()) != 0 {
		t.Fatalf("escalation publishes no events")
	}
}

func TestEscalationReEscalationOverwrites(t *testing.T) {
	env, tickets, _ := testEnv(t)
	mustSet(t, tickets, domain.Ticket{ID: "t3", Status: domain.StatusOpen})

	if err := AutoEscalate(context.Background(), env, trigger.SLABreached{ID: "t3", AgeMinutes: 60}); err != nil {
		t.Fatalf("AutoEscalate failed: %v", err)
	}
	if _, err := ManualEscalate(context.Background(), env, trigger.EscalateRequest{ID: "t3", Reason: "still stuck"}); err != nil {
		t.Fatalf("ManualEscalate failed: %v", err)
	}

	got := mustGet(t, tickets, "t3")
	if got.EscalationMethod != domain.EscalationMethodManual || got.EscalationReason != "still stuck" {
		t.Fatalf("second escalation should overwrite: %+v", got)
	}
}
