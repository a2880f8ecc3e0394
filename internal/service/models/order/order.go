package order

import (
	"time"

	"github.com/corray333/kitchenpos/internal/service/errs"
	"github.com/corray333/kitchenpos/internal/service/models/orderlineitem"
)

// Order represents an order placed on a table.
type Order struct {
	ID             int64                         `json:"id"`
	OrderTableID   int64                         `json:"orderTableId"`
	OrderStatus    Status                        `json:"orderStatus"`
	OrderedTime    time.Time                     `json:"orderedTime"`
	OrderLineItems []orderlineitem.OrderLineItem `json:"orderLineItems"`
}

// New starts an order in COOKING at orderedTime.
func New(orderTableID int64, orderedTime time.Time) Order {
	return Order{
		OrderTableID: orderTableID,
		OrderStatus:  StatusCooking,
		OrderedTime:  orderedTime,
	}
}

// ValidateNotCompleted rejects any change to an order that reached COMPLETION.
func (o Order) ValidateNotCompleted() error {
	if o.OrderStatus.IsTerminal() {
		return errs.Conflict("order %d is already %s", o.ID, StatusCompletion)
	}

	return nil
}

// ChangeStatus overwrites the status unless the order is completed.
// No ordering between COOKING and MEAL is enforced.
func (o *Order) ChangeStatus(status Status) error {
	if err := o.ValidateNotCompleted(); err != nil {
		return err
	}
	o.OrderStatus = status

	return nil
}
