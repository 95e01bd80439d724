package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// CleanupRequest asks the sweep worker to delete expired documents.
type CleanupRequest struct {
	RequestedAt time.Time `json:"requested_at"`
}

// CleanupPublisher enqueues retention sweep requests. Uploads publish here
// instead of sweeping inline, keeping the upload path off the deletion work.
type CleanupPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewCleanupPublisher(conn *amqp.Connection, queueName string) *CleanupPublisher {
	return &CleanupPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *CleanupPublisher) PublishCleanupRequest(ctx context.Context) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare cleanup queue failed: %w", err)
	}

	payload, err := json.Marshal(CleanupRequest{RequestedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal cleanup request failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish cleanup request failed: %w", err)
	}
	return nil
}
