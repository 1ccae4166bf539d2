package store

import (
	"context"
	"sync"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// MemoryStore is a mutex-guarded in-process TicketStore. Tests use it
// directly; it also backs local runs without Redis.
type MemoryStore struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]domain.Ticket
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{namespaces: make(map[string]map[string]domain.Ticket)}
}

// Get returns a copy of the stored ticket or ErrNotFound.
func (s *MemoryStore) Get(ctx context.Context, namespace, id string) (*domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ticket, ok := s.namespaces[namespace][id]
	if !ok {
		return nil, ErrNotFound
	}
	return &ticket, nil
}

// Set stores the ticket under the id.
func (s *MemoryStore) Set(ctx context.Context, namespace, id string, ticket domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns, ok := s.namespaces[namespace]
	if !ok {
		ns = make(map[string]domain.Ticket)
		s.namespaces[namespace] = ns
	}
	ns[id] = ticket
	return nil
}

// List returns a snapshot of the namespace in unspecified order.
func (s *MemoryStore) List(ctx context.Context, namespace string) ([]domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ns := s.namespaces[namespace]
	tickets := make([]domain.Ticket, 0, len(ns))
	for _, ticket := range ns {
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}
