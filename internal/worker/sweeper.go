// Package worker runs the background loops of the service.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/dispatch"
	"github.com/spec-kit/ticket-triage/internal/trigger"
)

// Sweeper fires the periodic timer stimulus that reconciles tickets missed
// by the event-driven triage path.
type Sweeper struct {
	dispatcher *dispatch.Dispatcher
	interval   time.Duration
	logger     *zap.Logger
}

// NewSweeper builds the sweeper.
func NewSweeper(dispatcher *dispatch.Dispatcher, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{dispatcher: dispatcher, interval: interval, logger: logger}
}

// Run dispatches a SweepTick every interval until the context is canceled.
// Sweep failures are logged and the next tick retries naturally.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("sweeper started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case firedAt := <-ticker.C:
			if _, err := s.dispatcher.Dispatch(ctx, trigger.SweepTick{FiredAt: firedAt}); err != nil {
				s.logger.Error("sweep failed", zap.Error(err))
			}
		}
	}
}
