package imenugrouprepo

import (
	"context"

	"github.com/corray333/kitchenpos/internal/service/models/menugroup"
)

// IMenuGroupRepository is an interface for menu group repository.
type IMenuGroupRepository interface {
	Insert(ctx context.Context, mg menugroup.MenuGroup) (menugroup.MenuGroup, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	FindAll(ctx context.Context) ([]menugroup.MenuGroup, error)
}
