package iorderedmenurepo

import (
	"context"

	"github.com/corray333/kitchenpos/internal/service/models/orderedmenu"
)

// IOrderedMenuRepository is an interface for ordered menu snapshot repository.
// Snapshots are insert-only.
type IOrderedMenuRepository interface {
	Insert(ctx context.Context, om orderedmenu.OrderedMenu) (orderedmenu.OrderedMenu, error)
	FindByIDs(ctx context.Context, ids []int64) ([]orderedmenu.OrderedMenu, error)
}
