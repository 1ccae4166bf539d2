// Package queue reads inbound ticket events off Redis Streams and feeds
// them to the dispatcher.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/config"
	"github.com/spec-kit/ticket-triage/internal/dispatch"
	"github.com/spec-kit/ticket-triage/internal/events"
	"github.com/spec-kit/ticket-triage/internal/trigger"
)

// Consumer is a consumer-group reader over the two inbound topics. A
// message is acknowledged only after its stage branch completes without
// error, so failed messages stay pending for redelivery.
type Consumer struct {
	client     *redis.Client
	dispatcher *dispatch.Dispatcher
	cfg        config.QueueConfig
	logger     *zap.Logger
}

// NewConsumer builds the consumer.
func NewConsumer(client *redis.Client, dispatcher *dispatch.Dispatcher, cfg config.QueueConfig, logger *zap.Logger) *Consumer {
	return &Consumer{client: client, dispatcher: dispatcher, cfg: cfg, logger: logger}
}

var inboundTopics = []string{events.TopicTicketCreated, events.TopicTicketBreached}

// Run blocks reading the streams until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ensureGroups(ctx); err != nil {
		return err
	}

	streams := make([]string, 0, len(inboundTopics)*2)
	streams = append(streams, inboundTopics...)
	for range inboundTopics {
		streams = append(streams, ">")
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		res, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.cfg.Group,
			Consumer: c.cfg.Consumer,
			Streams:  streams,
			Count:    10,
			Block:    c.cfg.Block(),
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("queue read failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		for _, stream := range res {
			for _, msg := range stream.Messages {
				c.handle(ctx, stream.Stream, msg)
			}
		}
	}
}

func (c *Consumer) ensureGroups(ctx context.Context) error {
	for _, topic := range inboundTopics {
		err := c.client.XGroupCreateMkStream(ctx, topic, c.cfg.Group, "$").Err()
		if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
			return err
		}
	}
	return nil
}

func (c *Consumer) handle(ctx context.Context, topic string, msg redis.XMessage) {
	stimulus, err := decode(topic, msg)
	if err != nil {
		// Malformed entries would never succeed on redelivery; drop them.
		c.logger.Error("discarding undecodable queue message",
			zap.String("topic", topic),
			zap.String("message_id", msg.ID),
			zap.Error(err))
		c.ack(ctx, topic, msg.ID)
		return
	}

	if _, err := c.dispatcher.Dispatch(ctx, stimulus); err != nil {
		c.logger.Error("queue message handling failed, leaving pending",
			zap.String("topic", topic),
			zap.String("message_id", msg.ID),
			zap.Error(err))
		return
	}
	c.ack(ctx, topic, msg.ID)
}

func decode(topic string, msg redis.XMessage) (trigger.Stimulus, error) {
	raw, ok := msg.Values[events.PayloadField].(string)
	if !ok {
		return nil, errors.New("missing payload field")
	}
	switch topic {
	case events.TopicTicketCreated:
		var m trigger.TicketCreated
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, err
		}
		return m, nil
	case events.TopicTicketBreached:
		var m trigger.SLABreached
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, errors.New("unknown topic " + topic)
	}
}

func (c *Consumer) ack(ctx context.Context, topic, messageID string) {
	if err := c.client.XAck(ctx, topic, c.cfg.Group, messageID).Err(); err != nil {
		c.logger.Warn("failed to ack queue message",
			zap.String("topic", topic),
			zap.String("message_id", messageID),
			zap.Error(err))
	}
}
