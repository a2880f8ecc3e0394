package iorderrepo

import (
	"context"

	"github.com/corray333/kitchenpos/internal/service/models/order"
)

// IOrderRepository is an interface for order repository.
type IOrderRepository interface {
	Insert(ctx context.Context, o order.Order) (order.Order, error)
	// FindByID returns nil when the order does not exist.
	FindByID(ctx context.Context, id int64) (*order.Order, error)
	FindAll(ctx context.Context) ([]order.Order, error)
	// UpdateStatusGuard sets the status of an order that is not yet completed
	// and returns the number of affected rows.
	UpdateStatusGuard(ctx context.Context, id int64, status order.Status) (int64, error)
	ExistsByTableIDsAndStatuses(ctx context.Context, tableIDs []int64, statuses []order.Status) (bool, error)
}
