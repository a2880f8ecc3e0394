package itablegrouprepo

import (
	"context"

	"github.com/corray333/kitchenpos/internal/service/models/tablegroup"
)

// ITableGroupRepository is an interface for table group repository.
type ITableGroupRepository interface {
	Insert(ctx context.Context, tg tablegroup.TableGroup) (tablegroup.TableGroup, error)
	// FindByID returns nil when the group does not exist.
	FindByID(ctx context.Context, id int64) (*tablegroup.TableGroup, error)
	Delete(ctx context.Context, id int64) error
}
