package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Sink is where ledger operations publish their domain events. The Redis
// Streams Publisher implements it in production; tests use NopSink.
type Sink interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// Publisher appends events to Redis Streams. Publishing happens after the
// owning store transaction commits, so a failed publish never rolls back
// ledger state; callers log and move on.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) Publish(ctx context.Context, stream, eventType string, data any) error {
	payload, err := json.Marshal(Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{"event": payload},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish %s to %s: %w", eventType, stream, err)
	}
	return nil
}

// NopSink discards events. Used where no event transport is configured.
type NopSink struct{}

func (NopSink) Publish(ctx context.Context, stream, eventType string, data any) error {
	return nil
}

var (
	_ Sink = (*Publisher)(nil)
	_ Sink = NopSink{}
)
