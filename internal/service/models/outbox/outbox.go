package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/corray333/kitchenpos/internal/service/models/order"
	"github.com/google/uuid"
)

const (
	RoutingKeyOrderCreated       = "order.created"
	RoutingKeyOrderStatusChanged = "order.status_changed"

	contentTypeJSON   = "application/json"
	defaultMaxRetries = 5
)

// OutboxMessage is an event waiting to be published to RabbitMQ.
// It is written in the same transaction as the change it describes.
type OutboxMessage struct {
	ID           int64
	MessageID    string
	ExchangeName string
	RoutingKey   string
	Payload      []byte
	ContentType  string
	RetryCount   int
	MaxRetries   int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NextRetryAt  time.Time
}

// OrderEvent is the payload published for order lifecycle changes.
type OrderEvent struct {
	Type       string     `json:"type"`
	OccurredAt time.Time  `json:"occurredAt"`
	Order      order.View `json:"order"`
}

// NewOrderEventMessage serialises an order event into a message ready for the outbox.
func NewOrderEventMessage(exchange, routingKey string, o order.Order, now time.Time) (OutboxMessage, error) {
	payload, err := json.Marshal(OrderEvent{
		Type:       routingKey,
		OccurredAt: now,
		Order:      o.View(),
	})
	if err != nil {
		return OutboxMessage{}, fmt.Errorf("failed to marshal order event: %w", err)
	}

	return OutboxMessage{
		MessageID:    uuid.NewString(),
		ExchangeName: exchange,
		RoutingKey:   routingKey,
		Payload:      payload,
		ContentType:  contentTypeJSON,
		MaxRetries:   defaultMaxRetries,
		CreatedAt:    now,
		UpdatedAt:    now,
		NextRetryAt:  now,
	}, nil
}
