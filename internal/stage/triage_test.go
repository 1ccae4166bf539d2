package stage

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/events"
	"github.com/spec-kit/ticket-triage/internal/store"
	"github.com/spec-kit/ticket-triage/internal/trigger"
)

func testEnv(t *testing.T) (Env, *store.MemoryStore, *events.MemoryEmitter) {
	t.Helper()
	tickets := store.NewMemoryStore()
	emitter := events.NewMemoryEmitter()
	env := Env{
		Store:         tickets,
		Emitter:       emitter,
		Logger:        zap.NewNop(),
		CorrelationID: "test-correlation",
		Clock:         func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) },
	}
	return env, tickets, emitter
}

func mustSet(t *testing.T, s *store.MemoryStore, ticket domain.Ticket) {
	t.Helper()
	if err := s.Set(context.Background(), store.NamespaceTickets, ticket.ID, ticket); err != nil {
		t.Fatalf("Set(%s) failed: %v", ticket.ID, err)
	}
}

func mustGet(t *testing.T, s *store.MemoryStore, id string) domain.Ticket {
	t.Helper()
	ticket, err := s.Get(context.Background(), store.NamespaceTickets, id)
	if err != nil {
		t.Fatalf("Get(%s) failed: %v", id, err)
	}
	return *ticket
}

func triagedEvents(t *testing.T, emitter *events.MemoryEmitter) []events.TicketTriaged {
	t.Helper()
	var out []events.TicketTriaged
	for _, e := range emitter.Events() {
		if e.Topic != events.TopicTicketTriaged {
			t.Fatalf("unexpected topic %q", e.Topic)
		}
		payload, ok := e.Payload.(events.TicketTriaged)
		if !ok {
			t.Fatalf("unexpected payload type %T", e.Payload)
		}
		out = append(out, payload)
	}
	return out
}

func TestAutoTriageAssigneePolicy(t *testing.T) {
	cases := []struct {
		priority string
		want     string
	}{
		{"critical", AssigneeSeniorSupport},
		{"high", AssigneeSeniorSupport},
		{"medium", AssigneeSupportPool},
		{"low", AssigneeSupportPool},
		{"weird", AssigneeSupportPool},
	}
	for _, tc := range cases {
		t.Run(tc.priority, func(t *testing.T) {
			env, tickets, emitter := testEnv(t)
			mustSet(t, tickets, domain.Ticket{ID: "t1", Status: domain.StatusOpen, Priority: tc.priority})

			err := AutoTriage(context.Background(), env, trigger.TicketCreated{
				ID: "t1", Title: "printer on fire", Priority: tc.priority, CustomerEmail: "a@b.c",
			})
			if err != nil {
				t.Fatalf("AutoTriage failed: %v", err)
			}

			got := mustGet(t, tickets, "t1")
			if got.Assignee != tc.want {
				t.Fatalf("assignee = %q, want %q", got.Assignee, tc.want)
			}
			if got.TriageMethod != domain.TriageMethodAuto {
				t.Fatalf("triageMethod = %q, want %q", got.TriageMethod, domain.TriageMethodAuto)
			}
			if got.TriagedAt == nil || !got.TriagedAt.Equal(env.Now()) {
				t.Fatalf("triagedAt = %v, want %v", got.TriagedAt, env.Now())
			}

			evts := triagedEvents(t, emitter)
			if len(evts) != 1 {
				t.Fatalf("published %d events, want 1", len(evts))
			}
			if evts[0].Assignee != tc.want || evts[0].TicketID != "t1" {
				t.Fatalf("event = %+v", evts[0])
			}
		})
	}
}

func TestAutoTriageMissingTicketStillPublishes(t *testing.T) {
	env, tickets, emitter := testEnv(t)

	err := AutoTriage(context.Background(), env, trigger.TicketCreated{
		ID: "ghost", Title: "lost", Priority: "high",
	})
	if err != nil {
		t.Fatalf("AutoTriage failed: %v", err)
	}

	if _, err := tickets.Get(context.Background(), store.NamespaceTickets, "ghost"); err != store.ErrNotFound {
		t.Fatalf("Get after skip = %v, want ErrNotFound", err)
	}
	evts := triagedEvents(t, emitter)
	if len(evts) != 1 {
		t.Fatalf("published %d events, want 1 even when store update skipped", len(evts))
	}
	if evts[0].Assignee != AssigneeSeniorSupport {
		t.Fatalf("event assignee = %q", evts[0].Assignee)
	}
}

func TestManualTriagePreservesUnrelatedFields(t *testing.T) {
	env, tickets, emitter := testEnv(t)
	escalatedAt := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	mustSet(t, tickets, domain.Ticket{
		ID:               "t2",
		Title:            "vpn down",
		Priority:         "low",
		CustomerEmail:    "vip@example.com",
		Status:           domain.StatusOpen,
		EscalatedTo:      EscalationTarget,
		EscalatedAt:      &escalatedAt,
		EscalationReason: "customer VIP",
		EscalationMethod: domain.EscalationMethodManual,
	})

	resp, err := ManualTriage(context.Background(), env, trigger.TriageRequest{
		ID: "t2", Assignee: "alice", Priority: domain.TicketPriorityHigh,
	})
	if err != nil {
		t.Fatalf("ManualTriage failed: %v", err)
	}
	if resp.Status != 200 {
		t.Fatalf("status = %d, want 200", resp.Status)
	}
	body, ok := resp.Body.(TriageAccepted)
	if !ok {
		t.Fatalf("body type %T", resp.Body)
	}
	if body.TicketID != "t2" || body.Assignee != "alice" || body.Status != "triaged" {
		t.Fatalf("body = %+v", body)
	}

	got := mustGet(t, tickets, "t2")
	if got.Assignee != "alice" || got.Priority != "high" || got.TriageMethod != domain.TriageMethodManual {
		t.Fatalf("patched fields wrong: %+v", got)
	}
	// Merge-patch: everything not named by the update survives.
	if got.Title != "vpn down" || got.CustomerEmail != "vip@example.com" || got.Status != domain.StatusOpen {
		t.Fatalf("unrelated fields lost: %+v", got)
	}
	if got.EscalatedTo != EscalationTarget || got.EscalationReason != "customer VIP" {
		t.Fatalf("escalation fields lost: %+v", got)
	}
	if got.EscalatedAt == nil || !got.EscalatedAt.Equal(escalatedAt) {
		t.Fatalf("escalatedAt lost: %v", got.EscalatedAt)
	}

	evts := triagedEvents(t, emitter)
	if len(evts) != 1 || evts[0].Title != "vpn down" {
		t.Fatalf("event should carry the ticket's own title: %+v", evts)
	}
}

func TestManualTriageNotFound(t *testing.T) {
	env, tickets, emitter := testEnv(t)

	resp, err := ManualTriage(context.Background(), env, trigger.TriageRequest{
		ID: "missing_id", Assignee: "alice", Priority: domain.TicketPriorityLow,
	})
	if err != nil {
		t.Fatalf("ManualTriage failed: %v", err)
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

	if len(emitter.Events()) != 0 {
		t.Fatalf("no event should be published on not-found")
	}
	all, err := tickets.List(context.Background(), store.NamespaceTickets)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("no mutation expected, store has %d tickets", len(all))
	}
}

func TestManualTriageIdempotent(t *testing.T) {
	env, tickets, _ := testEnv(t)
	mustSet(t, tickets, domain.Ticket{ID: "t3", Title: "slow wifi", Priority: "low", Status: domain.StatusOpen})

	req := trigger.TriageRequest{ID: "t3", Assignee: "bob", Priority: domain.TicketPriorityMedium}
	if _, err := ManualTriage(context.Background(), env, req); err != nil {
		t.Fatalf("first ManualTriage failed: %v", err)
	}
	first := mustGet(t, tickets, "t3")

	// Second invocation at a later clock reading.
	env.Clock = func() time.Time { return time.Date(2026, 8, 31, 13, 0, 0, 0, time.UTC) }
	if _, err := ManualTriage(context.Background(), env, req); err != nil {
		t.Fatalf("second ManualTriage failed: %v", err)
	}
	second := mustGet(t, tickets, "t3")

	if second.TriagedAt == nil || !second.TriagedAt.After(*first.TriagedAt) {
		t.Fatalf("triagedAt should advance: first %v second %v", first.TriagedAt, second.TriagedAt)
	}
	first.TriagedAt, second.TriagedAt = nil, nil
	if first != second {
		t.Fatalf("state diverged beyond triagedAt:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestSweepSelectsOnlyOpenUnassigned(t *testing.T) {
	env, tickets, emitter := testEnv(t)
	mustSet(t, tickets, domain.Ticket{ID: "A", Status: domain.StatusOpen})
	mustSet(t, tickets, domain.Ticket{ID: "B", Status: domain.StatusOpen, Assignee: "x"})
	mustSet(t, tickets, domain.Ticket{ID: "C", Status: "closed"})

	if err := Sweep(context.Background(), env, trigger.SweepTick{}); err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	a := mustGet(t, tickets, "A")
	if a.Assignee != AssigneeSupportPool || a.TriageMethod != domain.TriageMethodSweep {
		t.Fatalf("A not swept: %+v", a)
	}
	if a.Priority != "medium" || a.Title != "unknown" {
		t.Fatalf("A defaults not applied: %+v", a)
	}

	b := mustGet(t, tickets, "B")
	if b.Assignee != "x" || b.TriagedAt != nil {
		t.Fatalf("B should be untouched: %+v", b)
	}
	c := mustGet(t, tickets, "C")
	if c.Assignee != "" || c.TriagedAt != nil {
		t.Fatalf("C should be untouched: %+v", c)
	}

	evts := triagedEvents(t, emitter)
	if len(evts) != 1 || evts[0].TicketID != "A" {
		t.Fatalf("swept events = %+v, want exactly A", evts)
	}
}

func TestSweepKeepsExistingPriorityAndTitle(t *testing.T) {
	env, tickets, emitter := testEnv(t)
	mustSet(t, tickets, domain.Ticket{ID: "D", Status: domain.StatusOpen, Priority: "critical", Title: "db down"})

	if err := Sweep(context.Background(), env, trigger.SweepTick{}); err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	d := mustGet(t, tickets, "D")
	if d.Priority != "critical" || d.Title != "db down" {
		t.Fatalf("existing values overwritten: %+v", d)
	}
	evts := triagedEvents(t, emitter)
	if len(evts) != 1 || evts[0].Priority != "critical" || evts[0].Title != "db down" {
		t.Fatalf("event = %+v", evts)
	}
}
