package orderaudit

import (
	"encoding/json"
	"time"

	"github.com/corray333/kitchenpos/internal/service/errs"
	"github.com/corray333/kitchenpos/internal/service/models/order"
	"github.com/corray333/kitchenpos/internal/service/models/outbox"
)

// Entry is one recorded order event. MessageID is unique, so redelivered
// events are stored once.
type Entry struct {
	ID           int64        `json:"id"`
	MessageID    string       `json:"messageId"`
	EventType    string       `json:"eventType"`
	OrderID      int64        `json:"orderId"`
	OrderTableID int64        `json:"orderTableId"`
	OrderStatus  order.Status `json:"orderStatus"`
	OccurredAt   time.Time    `json:"occurredAt"`
	RecordedAt   time.Time    `json:"recordedAt"`
}

// FromEvent decodes an order event payload into an entry.
func FromEvent(messageID string, payload []byte, recordedAt time.Time) (Entry, error) {
	if messageID == "" {
		return Entry{}, errs.Validation("order event has no message id")
	}

	var event outbox.OrderEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return Entry{}, errs.Validation("malformed order event %s: %v", messageID, err)
	}

	switch event.Type {
	case outbox.RoutingKeyOrderCreated, outbox.RoutingKeyOrderStatusChanged:
	default:
		return Entry{}, errs.Validation("unknown order event type %q", event.Type)
	}

	status, err := order.ParseStatus(event.Order.OrderStatus)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		MessageID:    messageID,
		EventType:    event.Type,
		OrderID:      event.Order.ID,
		OrderTableID: event.Order.OrderTableID,
		OrderStatus:  status,
		OccurredAt:   event.OccurredAt,
		RecordedAt:   recordedAt,
	}, nil
}
