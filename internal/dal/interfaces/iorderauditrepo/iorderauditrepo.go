package iorderauditrepo

import (
	"context"

	"github.com/corray333/kitchenpos/internal/service/models/orderaudit"
)

// IOrderAuditRepository is an interface for the order event audit trail.
type IOrderAuditRepository interface {
	// Insert stores e and reports false when an entry with the same message id exists.
	Insert(ctx context.Context, e orderaudit.Entry) (bool, error)
	// FindByOrderID returns the entries of an order ordered by occurrence.
	FindByOrderID(ctx context.Context, orderID int64) ([]orderaudit.Entry, error)
}
