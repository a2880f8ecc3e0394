package orderaudit

import (
	"testing"
	"time"

	"github.com/corray333/kitchenpos/internal/service/errs"
	"github.com/corray333/kitchenpos/internal/service/models/order"
	"github.com/corray333/kitchenpos/internal/service/models/outbox"
	"github.com/stretchr/testify/require"
)

func TestFromEvent(t *testing.T) {
	occurred := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	o := order.New(3, occurred)
	o.ID = 7

	msg, err := outbox.NewOrderEventMessage("kitchenpos.events", outbox.RoutingKeyOrderCreated, o, occurred)
	require.NoError(t, err)

	recorded := occurred.Add(time.Minute)
	entry, err := FromEvent(msg.MessageID, msg.Payload, recorded)
	require.NoError(t, err)

	require.Equal(t, Entry{
		MessageID:    msg.MessageID,
		EventType:    outbox.RoutingKeyOrderCreated,
		OrderID:      7,
		OrderTableID: 3,
		OrderStatus:  order.StatusCooking,
		OccurredAt:   occurred,
		RecordedAt:   recorded,
	}, entry)
}

func TestFromEvent_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		messageID string
		payload   string
	}{
		{name: "missing message id", messageID: "", payload: `{}`},
		{name: "malformed json", messageID: "m1", payload: `{`},
		{name: "unknown type", messageID: "m1", payload: `{"type":"order.deleted","order":{"orderStatus":"MEAL"}}`},
		{name: "unknown status", messageID: "m1", payload: `{"type":"order.created","order":{"orderStatus":"EATING"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEvent(tt.messageID, []byte(tt.payload), time.Now())
			require.ErrorIs(t, err, errs.ErrValidation)
		})
	}
}
