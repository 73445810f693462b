package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

// Routing keys for order lifecycle events.
const (
	OrderPaid      = "order.paid"
	OrderCancelled = "order.cancelled"
	OrderRefunded  = "order.refunded"
)

// OrderEvent is the payload published for every order lifecycle event.
type OrderEvent struct {
	OrderID    string    `json:"orderId"`
	UserID     string    `json:"userId,omitempty"`
	Status     string    `json:"status"`
	Total      float64   `json:"total"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher emits order lifecycle events. Publishing is best-effort and
// happens after the database transaction committed; failures are logged by
// callers, never propagated to clients.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event OrderEvent) error
	Close() error
}

// amqpPublisher implements Publisher over a RabbitMQ topic exchange.
type amqpPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   zerolog.Logger
}

// NewAMQPPublisher connects to RabbitMQ and declares the topic exchange.
func NewAMQPPublisher(amqpURL, exchange string, logger zerolog.Logger) (Publisher, error) {
	logger = logger.With().Str("component", "event-publisher").Logger()

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logger.Info().Str("exchange", exchange).Msg("event publisher connected")

	return &amqpPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

func (p *amqpPublisher) Publish(ctx context.Context, routingKey string, event OrderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.Publish(p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   event.OccurredAt,
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug().
		Str("routing_key", routingKey).
		Str("order_id", event.OrderID).
		Msg("order event published")
	return nil
}

func (p *amqpPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// noopPublisher swallows events when publishing is disabled.
type noopPublisher struct{}

// NewNoopPublisher returns a Publisher that discards all events.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(ctx context.Context, routingKey string, event OrderEvent) error {
	return nil
}

func (noopPublisher) Close() error { return nil }
