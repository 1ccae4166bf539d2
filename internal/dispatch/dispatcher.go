// Package dispatch routes one stimulus to the single stage branch that
// accepts it.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/events"
	"github.com/spec-kit/ticket-triage/internal/observability"
	"github.com/spec-kit/ticket-triage/internal/repository"
	"github.com/spec-kit/ticket-triage/internal/stage"
	"github.com/spec-kit/ticket-triage/internal/store"
	"github.com/spec-kit/ticket-triage/internal/trigger"
)

// Stage names used in audit rows and metrics.
const (
	StageTriage     = "triage"
	StageEscalation = "escalation"
)

// Dependencies bundles the collaborators handed to stage operations.
type Dependencies struct {
	Store   store.TicketStore
	Emitter events.Emitter
	Audit   repository.AuditRepository
	Metrics *observability.Metrics
	Logger  *zap.Logger
	Clock   func() time.Time
}

// Dispatcher invokes exactly one stage branch per stimulus, synchronously:
// the caller (HTTP handler, queue consumer, sweeper) is done only when the
// branch is.
type Dispatcher struct {
	deps Dependencies
}

// New builds a dispatcher. Audit may be the noop repository; Clock defaults
// to time.Now.
func New(deps Dependencies) *Dispatcher {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Audit == nil {
		deps.Audit = repository.NoopAuditRepository{}
	}
	return &Dispatcher{deps: deps}
}

// Dispatch routes the stimulus. The returned Response is non-nil only for
// request-kind stimuli; queue and timer branches are fire-and-forget toward
// their source. A stimulus variant with no branch here is a configuration
// error, not a runtime decision.
func (d *Dispatcher) Dispatch(ctx context.Context, s trigger.Stimulus) (*stage.Response, error) {
	correlationID := uuid.NewString()
	d.deps.Logger.Info("dispatching stimulus",
		zap.String("kind", string(s.Kind())),
		zap.String("ticket_id", s.TicketID()),
		zap.String("correlation_id", correlationID))

	env := stage.Env{
		Store:         d.deps.Store,
		Emitter:       d.deps.Emitter,
		Logger:        d.deps.Logger.With(zap.String("correlation_id", correlationID)),
		CorrelationID: correlationID,
		Clock:         d.deps.Clock,
	}

	var (
		stageName string
		resp      *stage.Response
		err       error
	)
	switch st := s.(type) {
	case trigger.TicketCreated:
		stageName = StageTriage
		err = stage.AutoTriage(ctx, env, st)
	case trigger.TriageRequest:
		stageName = StageTriage
		var r stage.Response
		if r, err = stage.ManualTriage(ctx, env, st); err == nil {
			resp = &r
		}
	case trigger.SweepTick:
		stageName = StageTriage
		err = stage.Sweep(ctx, env, st)
	case trigger.SLABreached:
		stageName = StageEscalation
		err = stage.AutoEscalate(ctx, env, st)
	case trigger.EscalateRequest:
		stageName = StageEscalation
		var r stage.Response
		if r, err = stage.ManualEscalate(ctx, env, st); err == nil {
			resp = &r
		}
	default:
		return nil, fmt.Errorf("dispatch: no stage accepts stimulus %T", s)
	}

	outcome := outcomeFor(resp, err)
	d.deps.Metrics.RecordStimulus(string(s.Kind()), stageName, outcome)
	if err != nil {
		return nil, err
	}

	d.recordAudit(ctx, s, stageName, outcome, correlationID)
	return resp, nil
}

func outcomeFor(resp *stage.Response, err error) string {
	switch {
	case err != nil:
		return "error"
	case resp != nil && resp.Status == 404:
		return "not_found"
	default:
		return "ok"
	}
}

// recordAudit appends the trail row. The trail is supplemental, so a write
// failure is logged rather than failing the stimulus.
func (d *Dispatcher) recordAudit(ctx context.Context, s trigger.Stimulus, stageName, outcome, correlationID string) {
	entry := repository.AuditEntry{
		ID:            uuid.NewString(),
		TicketID:      s.TicketID(),
		Stage:         stageName,
		StimulusKind:  string(s.Kind()),
		Outcome:       outcome,
		CorrelationID: correlationID,
	}
	if err := d.deps.Audit.Record(ctx, &entry); err != nil {
		d.deps.Logger.Warn("failed to record stage audit entry",
			zap.String("ticket_id", entry.TicketID),
			zap.Error(err))
	}
}
