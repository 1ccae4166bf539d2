// Package store provides the keyed persistence boundary for tickets.
package store

import (
	"context"
	"errors"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// NamespaceTickets is the namespace all stage operations read and write.
const NamespaceTickets = "tickets"

// ErrNotFound is returned by Get when no record exists under the id.
var ErrNotFound = errors.New("ticket not found")

// TicketStore is the keyed store the stages operate against. Get returns
// ErrNotFound for absent ids; List returns an unordered snapshot. The
// Get/Set pair is not atomic: concurrent merge-patches against the same id
// can lose one side's update, which callers accept (serialize upstream or
// swap in a CAS-capable implementation if that stops being acceptable).
type TicketStore interface {
	Get(ctx context.Context, namespace, id string) (*domain.Ticket, error)
	Set(ctx context.Context, namespace, id string, ticket domain.Ticket) error
	List(ctx context.Context, namespace string) ([]domain.Ticket, error)
}
