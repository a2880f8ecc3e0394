package outbox

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/corray333/kitchenpos/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/iuow"
	"github.com/corray333/kitchenpos/internal/service/models/outbox"
	"github.com/spf13/viper"
)

type publisher interface {
	Publish(ctx context.Context, msg outbox.OutboxMessage) error
}

type unitOfWork interface {
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

// Worker relays outbox messages to the broker.
type Worker struct {
	uowFactory    iuow.Factory
	publisher     publisher
	pollInterval  time.Duration
	batchSize     int
	retryInterval time.Duration
	now           func() time.Time
	stopCh        chan struct{}
}

// NewWorker creates a new outbox worker configured from rabbitmq.outbox.*.
func NewWorker(uowFactory iuow.Factory, publisher publisher) *Worker {
	pollIntervalSeconds := viper.GetInt("rabbitmq.outbox.poll_interval_seconds")
	if pollIntervalSeconds == 0 {
		pollIntervalSeconds = 10
	}

	batchSize := viper.GetInt("rabbitmq.outbox.batch_size")
	if batchSize == 0 {
		batchSize = 100
	}

	retryIntervalSeconds := viper.GetInt("rabbitmq.outbox.retry_interval_seconds")
	if retryIntervalSeconds == 0 {
		retryIntervalSeconds = 30
	}

	return &Worker{
		uowFactory:    uowFactory,
		publisher:     publisher,
		pollInterval:  time.Duration(pollIntervalSeconds) * time.Second,
		batchSize:     batchSize,
		retryInterval: time.Duration(retryIntervalSeconds) * time.Second,
		now:           time.Now,
		stopCh:        make(chan struct{}),
	}
}

func (w *Worker) newUOW() unitOfWork {
	return w.uowFactory.New()
}

// Start polls the outbox until ctx is done or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.Info("Outbox worker started", "poll_interval", w.pollInterval, "batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Outbox worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Outbox worker stopped")

			return
		case <-ticker.C:
			w.ProcessMessages(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

// ProcessMessages publishes one batch of due messages.
// Published messages are deleted; failed ones are rescheduled with exponential backoff.
func (w *Worker) ProcessMessages(ctx context.Context) {
	repo := w.newUOW().OutboxRepository()

	messages, err := repo.GetPendingMessages(ctx, w.batchSize)
	if err != nil {
		slog.Error("Failed to get pending messages from outbox", "error", err)

		return
	}

	if len(messages) == 0 {
		return
	}

	slog.Info("Processing outbox messages", "count", len(messages))

	for _, msg := range messages {
		if err := w.publisher.Publish(ctx, msg); err != nil {
			newRetryCount := msg.RetryCount + 1
			nextRetryAt := w.now().Add(w.backoff(newRetryCount))

			slog.Warn("Failed to publish message from outbox, will retry",
				"outbox_id", msg.ID,
				"retry_count", newRetryCount,
				"next_retry", nextRetryAt,
				"error", err,
			)

			if err := repo.UpdateRetry(ctx, msg.ID, newRetryCount, err.Error(), nextRetryAt); err != nil {
				slog.Error("Failed to update retry information", "outbox_id", msg.ID, "error", err)
			}

			continue
		}

		if err := repo.Delete(ctx, msg.ID); err != nil {
			slog.Error("Failed to delete message from outbox after successful publish",
				"outbox_id", msg.ID,
				"error", err,
			)

			continue
		}

		slog.Info("Message successfully published and removed from outbox", "outbox_id", msg.ID)
	}
}

// backoff doubles the retry interval for every failed attempt.
func (w *Worker) backoff(retryCount int) time.Duration {
	return time.Duration(math.Pow(2, float64(retryCount-1))) * w.retryInterval
}
