package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Handler processes one decoded event. Returning an error leaves the
// message un-ACKed so the consumer group redelivers it.
type Handler func(ctx context.Context, event Event) error

// Subscriber reads a Redis Stream through a consumer group and feeds each
// event to its handler.
type Subscriber struct {
	client    *redis.Client
	stream    string
	group     string
	consumer  string
	handler   Handler
	batchSize int64
	block     time.Duration
}

type SubscriberConfig struct {
	Stream    string
	Group     string
	Consumer  string
	Handler   Handler
	BatchSize int64         // messages per read, default 10
	Block     time.Duration // XREADGROUP block, default 5s
}

func NewSubscriber(client *redis.Client, cfg SubscriberConfig) *Subscriber {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 10
	}
	if cfg.Block == 0 {
		cfg.Block = 5 * time.Second
	}
	return &Subscriber{
		client:    client,
		stream:    cfg.Stream,
		group:     cfg.Group,
		consumer:  cfg.Consumer,
		handler:   cfg.Handler,
		batchSize: cfg.BatchSize,
		block:     cfg.Block,
	}
}

// Start blocks until ctx is cancelled, consuming the stream in batches.
func (s *Subscriber) Start(ctx context.Context) error {
	err := s.client.XGroupCreateMkStream(ctx, s.stream, s.group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	log.Printf("Subscriber started: stream=%s group=%s consumer=%s", s.stream, s.group, s.consumer)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Subscriber stopping: %s", s.stream)
			return ctx.Err()
		default:
			if err := s.consume(ctx); err != nil && ctx.Err() == nil {
				log.Printf("Error consuming %s: %v", s.stream, err)
				time.Sleep(time.Second)
			}
		}
	}
}

func (s *Subscriber) consume(ctx context.Context) error {
	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.group,
		Consumer: s.consumer,
		Streams:  []string{s.stream, ">"},
		Count:    s.batchSize,
		Block:    s.block,
	}).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read from stream: %w", err)
	}

	for _, stream := range streams {
		for _, message := range stream.Messages {
			event, err := decodeMessage(message)
			if err != nil {
				log.Printf("Dropping malformed message %s: %v", message.ID, err)
				s.client.XAck(ctx, s.stream, s.group, message.ID)
				continue
			}
			if err := s.handler(ctx, event); err != nil {
				// Leave un-ACKed for redelivery.
				log.Printf("Failed to handle message %s: %v", message.ID, err)
				continue
			}
			if err := s.client.XAck(ctx, s.stream, s.group, message.ID).Err(); err != nil {
				log.Printf("Failed to ACK message %s: %v", message.ID, err)
			}
		}
	}
	return nil
}

func decodeMessage(message redis.XMessage) (Event, error) {
	raw, ok := message.Values["event"].(string)
	if !ok {
		return Event{}, fmt.Errorf("missing event payload")
	}
	var event Event
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return Event{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return event, nil
}
