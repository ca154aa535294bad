package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DecisionPublisher publishes claim decision events to RabbitMQ
type DecisionPublisher struct {
	conn              *RabbitMQConnection
	messagesPublished int64
	messagesFailed    int64
	lastPublishTime   time.Time
}

// NewDecisionPublisher creates a new claim decision event publisher
func NewDecisionPublisher(conn *RabbitMQConnection) *DecisionPublisher {
	return &DecisionPublisher{
		conn:            conn,
		lastPublishTime: time.Now(),
	}
}

// PublishDecision publishes a decision event to the claim_decision_events queue
func (p *DecisionPublisher) PublishDecision(ctx context.Context, evt ClaimDecidedEvent) error {
	_, err := p.conn.Channel.QueueDeclare(
		ClaimDecisionQueue, // queue name
		true,               // durable
		false,              // delete when unused
		false,              // exclusive
		false,              // no-wait
		nil,                // arguments
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	body, err := json.Marshal(evt)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to marshal decision event: %w", err)
	}

	err = p.conn.Channel.PublishWithContext(
		ctx,
		"",                 // exchange
		ClaimDecisionQueue, // routing key (queue name)
		false,              // mandatory
		false,              // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to publish decision event: %w", err)
	}

	p.messagesPublished++
	p.lastPublishTime = time.Now()

	slog.Info("Claim decision event published",
		"queue", ClaimDecisionQueue,
		"claim_id", evt.ClaimID,
		"status", evt.Status,
	)

	return nil
}
