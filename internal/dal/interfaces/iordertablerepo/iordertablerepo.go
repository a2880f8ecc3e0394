package iordertablerepo

import (
	"context"

	"github.com/corray333/kitchenpos/internal/service/models/ordertable"
)

// IOrderTableRepository is an interface for order table repository.
type IOrderTableRepository interface {
	Insert(ctx context.Context, t ordertable.OrderTable) (ordertable.OrderTable, error)
	// FindByID returns nil when the table does not exist.
	FindByID(ctx context.Context, id int64) (*ordertable.OrderTable, error)
	FindByIDs(ctx context.Context, ids []int64) ([]ordertable.OrderTable, error)
	FindAll(ctx context.Context) ([]ordertable.OrderTable, error)
	FindByTableGroupID(ctx context.Context, tableGroupID int64) ([]ordertable.OrderTable, error)
	Update(ctx context.Context, t ordertable.OrderTable) error
}
