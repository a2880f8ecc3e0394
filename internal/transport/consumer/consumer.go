package consumer

import (
	"context"
	"log/slog"

	"github.com/corray333/kitchenpos/internal/dal/rabbitmq"
	"github.com/corray333/kitchenpos/internal/service/errs"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

// service represents the service layer interface.
type service interface {
	Record(ctx context.Context, messageID string, payload []byte) error
}

type broker interface {
	Consume(cfg rabbitmq.ConsumeConfig) (<-chan amqp.Delivery, error)
	CancelConsumer(consumer string) error
}

// Consumer feeds order events from the audit queue into the audit trail.
type Consumer struct {
	broker      broker
	service     service
	queue       string
	tag         string
	prefetch    int
	concurrency int
}

// NewConsumer creates a new Consumer configured from rabbitmq.audit_queue and rabbitmq.consumer.*.
func NewConsumer(broker broker, service service) *Consumer {
	queue := viper.GetString("rabbitmq.audit_queue")
	if queue == "" {
		panic("rabbitmq.audit_queue is not set in config")
	}

	tag := viper.GetString("rabbitmq.consumer.tag")
	if tag == "" {
		tag = "kitchenpos-audit"
	}

	prefetch := viper.GetInt("rabbitmq.consumer.prefetch")
	if prefetch == 0 {
		prefetch = 10
	}

	concurrency := viper.GetInt("rabbitmq.consumer.concurrency")
	if concurrency == 0 {
		concurrency = 10
	}

	return &Consumer{
		broker:      broker,
		service:     service,
		queue:       queue,
		tag:         tag,
		prefetch:    prefetch,
		concurrency: concurrency,
	}
}

// Run consumes until ctx is done or the delivery channel closes,
// then waits for in-flight messages.
func (c *Consumer) Run(ctx context.Context) error {
	msgs, err := c.broker.Consume(rabbitmq.ConsumeConfig{
		Queue:    c.queue,
		Consumer: c.tag,
		Prefetch: c.prefetch,
	})
	if err != nil {
		return err
	}

	slog.Info("Consumer started", "queue", c.queue, "consumer_tag", c.tag)

	var g errgroup.Group
	g.SetLimit(c.concurrency)

loop:
	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping consumer")
			if err := c.broker.CancelConsumer(c.tag); err != nil {
				slog.Error("Failed to cancel consumer", "error", err)
			}

			break loop
		case msg, ok := <-msgs:
			if !ok {
				slog.Info("Message channel closed")

				break loop
			}

			g.Go(func() error {
				c.processMessage(context.WithoutCancel(ctx), msg)

				return nil
			})
		}
	}

	return g.Wait()
}

// processMessage records one delivery. Malformed events are dropped,
// infrastructure failures are requeued.
func (c *Consumer) processMessage(ctx context.Context, msg amqp.Delivery) {
	ctx, span := otel.Tracer("consumer").Start(ctx, "Consumer.processMessage")
	defer span.End()

	slog.Info("Received message", "delivery_tag", msg.DeliveryTag, "routing_key", msg.RoutingKey)

	if err := c.service.Record(ctx, msg.MessageId, msg.Body); err != nil {
		requeue := !errs.IsDomain(err)
		slog.Error("Failed to record order event",
			"error", err,
			"message_id", msg.MessageId,
			"requeue", requeue,
		)

		if err := msg.Nack(false, requeue); err != nil {
			slog.Error("Failed to nack message", "error", err)
		}

		return
	}

	if err := msg.Ack(false); err != nil {
		slog.Error("Failed to ack message", "error", err)

		return
	}

	slog.Info("Message processed successfully", "message_id", msg.MessageId)
}
