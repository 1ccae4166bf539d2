package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// RedisStore keeps each namespace as one Redis hash: field is the ticket id,
// value is the JSON document. HGETALL gives List its snapshot semantics.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps a connected client. keyPrefix namespaces the hashes so
// several deployments can share an instance; empty means no prefix.
func NewRedisStore(client *redis.Client, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, prefix: keyPrefix}
}

func (s *RedisStore) key(namespace string) string {
	if s.prefix == "" {
		return namespace
	}
	return s.prefix + ":" + namespace
}

// Get fetches one ticket, returning ErrNotFound when the field is absent.
func (s *RedisStore) Get(ctx context.Context, namespace, id string) (*domain.Ticket, error) {
	raw, err := s.client.HGet(ctx, s.key(namespace), id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("hget %s/%s: %w", namespace, id, err)
	}
	var ticket domain.Ticket
	if err := json.Unmarshal([]byte(raw), &ticket); err != nil {
		return nil, fmt.Errorf("decode ticket %s: %w", id, err)
	}
	return &ticket, nil
}

// Set writes the full record under the id, replacing any previous value.
func (s *RedisStore) Set(ctx context.Context, namespace, id string, ticket domain.Ticket) error {
	raw, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("encode ticket %s: %w", id, err)
	}
	if err := s.client.HSet(ctx, s.key(namespace), id, raw).Err(); err != nil {
		return fmt.Errorf("hset %s/%s: %w", namespace, id, err)
	}
	return nil
}

// List returns every ticket in the namespace in unspecified order.
func (s *RedisStore) List(ctx context.Context, namespace string) ([]domain.Ticket, error) {
	values, err := s.client.HGetAll(ctx, s.key(namespace)).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", namespace, err)
	}
	tickets := make([]domain.Ticket, 0, len(values))
	for id, raw := range values {
		var ticket domain.Ticket
		if err := json.Unmarshal([]byte(raw), &ticket); err != nil {
			return nil, fmt.Errorf("decode ticket %s: %w", id, err)
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}
