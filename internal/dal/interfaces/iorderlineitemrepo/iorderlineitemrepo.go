package iorderlineitemrepo

import (
	"context"

	"github.com/corray333/kitchenpos/internal/service/models/orderlineitem"
)

// IOrderLineItemRepository is an interface for order line item repository.
type IOrderLineItemRepository interface {
	BulkInsert(ctx context.Context, items []orderlineitem.OrderLineItem) ([]orderlineitem.OrderLineItem, error)
	FindByOrderIDs(ctx context.Context, orderIDs []int64) ([]orderlineitem.OrderLineItem, error)
}
