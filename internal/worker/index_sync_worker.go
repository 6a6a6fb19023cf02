package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"shopy/internal/model"
)

// IndexSyncer applies one catalog event to the assistant's embedding index.
type IndexSyncer interface {
	SyncProduct(ctx context.Context, productID uint) error
	RemoveProduct(productID uint) error
}

// IndexSyncWorker consumes catalog events and keeps the embedding index in
// step with product edits, off the admin request path.
type IndexSyncWorker struct {
	conn      *amqp.Connection
	syncer    IndexSyncer
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewIndexSyncWorker(conn *amqp.Connection, syncer IndexSyncer, queueName string) *IndexSyncWorker {
	return &IndexSyncWorker{
		conn:      conn,
		syncer:    syncer,
		queueName: queueName,
	}
}

func (w *IndexSyncWorker) Start(ctx context.Context) error {
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

				var event model.CatalogEvent
				if err := json.Unmarshal(d.Body, &event); err != nil {
					log.Printf("worker decode catalog event failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				if err := ApplyCatalogEvent(workerCtx, w.syncer, event); err != nil {
					log.Printf("worker apply catalog event failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

// ApplyCatalogEvent routes a single event to the right index operation.
func ApplyCatalogEvent(ctx context.Context, syncer IndexSyncer, event model.CatalogEvent) error {
	if event.ProductID == 0 {
		return fmt.Errorf("catalog event missing product id")
	}
	switch event.Type {
	case model.CatalogEventUpserted:
		return syncer.SyncProduct(ctx, event.ProductID)
	case model.CatalogEventDeleted:
		return syncer.RemoveProduct(event.ProductID)
	default:
		return fmt.Errorf("unknown catalog event type %q", event.Type)
	}
}

func (w *IndexSyncWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
