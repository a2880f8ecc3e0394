// Package iuow describes the transactional boundary services work through.
package iuow

import (
	"context"
	"log/slog"

	"github.com/corray333/kitchenpos/internal/dal/interfaces/imenugrouprepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/imenuproductrepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/imenurepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/iorderauditrepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/iorderedmenurepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/iorderlineitemrepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/iordertablerepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/itablegrouprepo"
)

// UnitOfWork groups repositories behind one transaction.
// Repositories used before Begin run outside of any transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	// Rollback is a no-op after Commit.
	Rollback(ctx context.Context) error

	ProductRepository() iproductrepo.IProductRepository
	MenuGroupRepository() imenugrouprepo.IMenuGroupRepository
	MenuRepository() imenurepo.IMenuRepository
	MenuProductRepository() imenuproductrepo.IMenuProductRepository
	OrderTableRepository() iordertablerepo.IOrderTableRepository
	TableGroupRepository() itablegrouprepo.ITableGroupRepository
	OrderRepository() iorderrepo.IOrderRepository
	OrderedMenuRepository() iorderedmenurepo.IOrderedMenuRepository
	OrderLineItemRepository() iorderlineitemrepo.IOrderLineItemRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
	OrderAuditRepository() iorderauditrepo.IOrderAuditRepository
}

// Factory opens a fresh unit of work per call.
type Factory interface {
	New() UnitOfWork
}

// Rollback rolls work back and logs a failure. It is meant to be deferred.
func Rollback(ctx context.Context, work interface{ Rollback(context.Context) error }) {
	if err := work.Rollback(ctx); err != nil {
		slog.Error("Error rolling back transaction", "error", err)
	}
}
