// Package notify bridges notification events onto RabbitMQ for external
// delivery channels (mail and push workers live outside this service). The
// in-app notification row is already committed by the time an event arrives
// here, so delivery is at-least-once and consumers dedupe on notificationId.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/novabank/banking/internal/events"
	"github.com/novabank/banking/internal/redis"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Config struct {
	RabbitMQURL        string
	RabbitMQExchange   string // default "notifications"
	RabbitMQQueue      string // default "notifications.dispatch"
	RabbitMQRoutingKey string // default "notification.created"
	Consumer           string // consumer name within the stream group
}

// Dispatcher consumes notification.created events from the Redis stream and
// republishes them to RabbitMQ. An empty RabbitMQURL disables the bridge;
// events are then consumed and dropped so the stream does not grow unbounded.
type Dispatcher struct {
	cfg        Config
	subscriber *events.Subscriber

	rabbitConn *amqp.Connection
	rabbitChan *amqp.Channel
}

func NewDispatcher(client *redis.Client, cfg Config) *Dispatcher {
	if cfg.RabbitMQExchange == "" {
		cfg.RabbitMQExchange = "notifications"
	}
	if cfg.RabbitMQQueue == "" {
		cfg.RabbitMQQueue = "notifications.dispatch"
	}
	if cfg.RabbitMQRoutingKey == "" {
		cfg.RabbitMQRoutingKey = "notification.created"
	}
	if cfg.Consumer == "" {
		cfg.Consumer = "dispatcher-1"
	}

	d := &Dispatcher{cfg: cfg}
	d.subscriber = events.NewSubscriber(client.Client, events.SubscriberConfig{
		Stream:   events.NotificationEventsStream,
		Group:    "notification-dispatchers",
		Consumer: cfg.Consumer,
		Handler:  d.handle,
	})
	return d
}

// Start connects to RabbitMQ and consumes the stream until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) error {
	if d.cfg.RabbitMQURL == "" {
		log.Println("Notification dispatcher: RabbitMQ not configured, events will be drained without delivery")
	} else if err := d.initRabbitMQ(); err != nil {
		return fmt.Errorf("failed to initialize RabbitMQ: %w", err)
	}
	defer d.close()

	return d.subscriber.Start(ctx)
}

func (d *Dispatcher) initRabbitMQ() error {
	var err error
	d.rabbitConn, err = amqp.Dial(d.cfg.RabbitMQURL)
	if err != nil {
		return err
	}

	d.rabbitChan, err = d.rabbitConn.Channel()
	if err != nil {
		return err
	}

	err = d.rabbitChan.ExchangeDeclare(
		d.cfg.RabbitMQExchange, // name
		"topic",                // type
		true,                   // durable
		false,                  // auto-deleted
		false,                  // internal
		false,                  // no-wait
		nil,                    // arguments
	)
	if err != nil {
		return err
	}

	_, err = d.rabbitChan.QueueDeclare(
		d.cfg.RabbitMQQueue, // name
		true,                // durable
		false,               // delete when unused
		false,               // exclusive
		false,               // no-wait
		nil,                 // arguments
	)
	if err != nil {
		return err
	}

	return d.rabbitChan.QueueBind(
		d.cfg.RabbitMQQueue,
		d.cfg.RabbitMQRoutingKey,
		d.cfg.RabbitMQExchange,
		false,
		nil,
	)
}

func (d *Dispatcher) close() {
	if d.rabbitChan != nil {
		d.rabbitChan.Close()
	}
	if d.rabbitConn != nil {
		d.rabbitConn.Close()
	}
}

// handle forwards one event. A publish failure leaves the stream message
// un-ACKed so the consumer group redelivers it.
func (d *Dispatcher) handle(ctx context.Context, event events.Event) error {
	if event.Type != events.NotificationCreated {
		return nil
	}
	if d.rabbitChan == nil {
		return nil
	}

	body, err := json.Marshal(event.Data)
	if err != nil {
		return err
	}

	return d.rabbitChan.PublishWithContext(ctx,
		d.cfg.RabbitMQExchange,
		d.cfg.RabbitMQRoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
}
