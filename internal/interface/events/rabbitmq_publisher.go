package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"flightwatch-service/internal/domain/repository"
	"flightwatch-service/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultQueue receives subscription change events
const DefaultQueue = "flight.subscription.changed"

// RabbitMQPublisher publishes subscription events to a durable queue.
// The connection is reopened lazily after the broker drops it.
type RabbitMQPublisher struct {
	url    string
	queue  string
	logger logger.Logger

	mu   sync.Mutex
	conn *amqp.Connection
}

// NewEventPublisher returns a RabbitMQ publisher, or a no-op publisher when
// url is empty.
func NewEventPublisher(url, queue string, logger logger.Logger) repository.EventPublisher {
	if url == "" {
		return NoopPublisher{}
	}
	if queue == "" {
		queue = DefaultQueue
	}
	return &RabbitMQPublisher{url: url, queue: queue, logger: logger}
}

// PublishSubscriptionChanged sends event as a persistent JSON message
func (p *RabbitMQPublisher) PublishSubscriptionChanged(ctx context.Context, event repository.SubscriptionChangedEvent) error {
	publishing, err := NewPublishing(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channelLocked()
	if err != nil {
		return err
	}
	defer ch.Close()

	// Durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: queue declare failed: %w", err)
	}

	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, publishing); err != nil {
		return fmt.Errorf("rabbitmq: publish failed: %w", err)
	}

	p.logger.Debug("Published subscription event", "queue", p.queue, "action", event.Action, "flights", len(event.FlightKeys))
	return nil
}

// Close closes the broker connection
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	return p.conn.Close()
}

func (p *RabbitMQPublisher) channelLocked() (*amqp.Channel, error) {
	if p.conn == nil || p.conn.IsClosed() {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq: dial failed: %w", err)
		}
		p.conn = conn
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: channel open failed: %w", err)
	}
	return ch, nil
}

// NewPublishing encodes event as a persistent JSON message
func NewPublishing(event repository.SubscriptionChangedEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("rabbitmq: marshal event failed: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         "subscription." + event.Action,
		Body:         body,
	}, nil
}

// NoopPublisher drops every event
type NoopPublisher struct{}

func (NoopPublisher) PublishSubscriptionChanged(ctx context.Context, event repository.SubscriptionChangedEvent) error {
	return nil
}
