package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// PayloadField is the stream entry field carrying the JSON payload, shared
// with the queue consumer so both sides agree on the envelope.
const PayloadField = "payload"

// StreamEmitter publishes events by appending to a Redis stream named after
// the topic.
type StreamEmitter struct {
	client *redis.Client
}

// NewStreamEmitter wraps a connected client.
func NewStreamEmitter(client *redis.Client) *StreamEmitter {
	return &StreamEmitter{client: client}
}

// Publish appends the payload as one stream entry.
func (e *StreamEmitter) Publish(ctx context.Context, topic string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode event for %s: %w", topic, err)
	}
	err = e.client.XAdd(ctx, &redis.XAddArgs{
		Stream: topic,
		Values: map[string]any{PayloadField: raw},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", topic, err)
	}
	return nil
}
