package imenurepo

import (
	"context"

	"github.com/corray333/kitchenpos/internal/service/models/menu"
)

// IMenuRepository is an interface for menu repository.
// Menus returned here carry no MenuProducts, those live in IMenuProductRepository.
type IMenuRepository interface {
	Insert(ctx context.Context, m menu.Menu) (menu.Menu, error)
	// FindByID returns nil when the menu does not exist.
	FindByID(ctx context.Context, id int64) (*menu.Menu, error)
	FindAll(ctx context.Context) ([]menu.Menu, error)
	Update(ctx context.Context, m menu.Menu) error
}
