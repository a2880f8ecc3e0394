package imenuproductrepo

import (
	"context"

	"github.com/corray333/kitchenpos/internal/service/models/menu"
)

// IMenuProductRepository is an interface for menu product repository.
type IMenuProductRepository interface {
	BulkInsert(ctx context.Context, items []menu.MenuProduct) ([]menu.MenuProduct, error)
	FindByMenuIDs(ctx context.Context, menuIDs []int64) ([]menu.MenuProduct, error)
}
