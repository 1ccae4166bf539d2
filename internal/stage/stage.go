// Package stage holds the workflow stages. A stage operation is invoked by
// the dispatcher with the stimulus variant it accepts plus an Env carrying
// the collaborators for that one invocation; nothing is ambient.
package stage

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/events"
	"github.com/spec-kit/ticket-triage/internal/store"
)

// Env is the per-operation context for a stage: the store and emitter
// handles, a logger already tagged with the correlation id, and the clock
// used for triagedAt/escalatedAt stamps.
type Env struct {
	Store         store.TicketStore
	Emitter       events.Emitter
	Logger        *zap.Logger
	CorrelationID string
	Clock         func() time.Time
}

// Now returns the operation timestamp in UTC.
func (e Env) Now() time.Time {
	if e.Clock == nil {
		return time.Now().UTC()
	}
	return e.Clock().UTC()
}

// Response is what a request-kind stimulus returns to its caller. The HTTP
// handler writes Status and Body verbatim; queue and timer branches produce
// no Response.
type Response struct {
	Status int
	Body   any
}

// ErrorBody is the error envelope for request-kind failures.
type ErrorBody struct {
	Error string `json:"error"`
}

func notFoundResponse(ticketID string) Response {
	return Response{
		Status: 404,
		Body:   ErrorBody{Error: fmt.Sprintf("Ticket %s not found", ticketID)},
	}
}
