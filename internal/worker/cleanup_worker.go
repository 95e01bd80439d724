package worker

import (
	"context"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"pdftutor/internal/app"
)

// CleanupWorker consumes retention sweep requests and deletes expired
// documents and their chunks. Requests are fire-and-forget triggers; the
// payload carries no state, so a redelivered message just re-runs an
// idempotent sweep.
type CleanupWorker struct {
	conn      *amqp.Connection
	documents *app.DocumentService
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewCleanupWorker(conn *amqp.Connection, documents *app.DocumentService, queueName string) *CleanupWorker {
	return &CleanupWorker{
		conn:      conn,
		documents: documents,
		queueName: queueName,
	}
}

func (w *CleanupWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				removed, err := w.documents.CleanupExpired(workerCtx)
				if err != nil {
					log.Printf("worker retention sweep failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}
				if removed > 0 {
					log.Printf("worker retention sweep removed %d expired documents", removed)
				}
				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *CleanupWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
