package memory

import (
	"context"
	"errors"

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

// unitOfWork holds the store lock between Begin and Commit or Rollback,
// so transactions are serialised.
type unitOfWork struct {
	store *Store
	tx    *tables
}

func newUnitOfWork(store *Store) *unitOfWork {
	return &unitOfWork{store: store}
}

// with runs fn against the transaction copy, or against the shared tables under the lock.
func (u *unitOfWork) with(fn func(t *tables) error) error {
	if u.tx != nil {
		return fn(u.tx)
	}

	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	return fn(u.store.data)
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return errors.New("transaction already started")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	u.store.mu.Lock()
	u.tx = u.store.data.clone()

	return nil
}

func (u *unitOfWork) Commit(context.Context) error {
	if u.tx == nil {
		return nil
	}

	u.store.data = u.tx
	u.tx = nil
	u.store.mu.Unlock()

	return nil
}

func (u *unitOfWork) Rollback(context.Context) error {
	if u.tx == nil {
		return nil
	}

	u.tx = nil
	u.store.mu.Unlock()

	return nil
}

func (u *unitOfWork) ProductRepository() iproductrepo.IProductRepository {
	return &productRepository{u: u}
}

func (u *unitOfWork) MenuGroupRepository() imenugrouprepo.IMenuGroupRepository {
	return &menuGroupRepository{u: u}
}

func (u *unitOfWork) MenuRepository() imenurepo.IMenuRepository {
	return &menuRepository{u: u}
}

func (u *unitOfWork) MenuProductRepository() imenuproductrepo.IMenuProductRepository {
	return &menuProductRepository{u: u}
}

func (u *unitOfWork) OrderTableRepository() iordertablerepo.IOrderTableRepository {
	return &orderTableRepository{u: u}
}

func (u *unitOfWork) TableGroupRepository() itablegrouprepo.ITableGroupRepository {
	return &tableGroupRepository{u: u}
}

func (u *unitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return &orderRepository{u: u}
}

func (u *unitOfWork) OrderedMenuRepository() iorderedmenurepo.IOrderedMenuRepository {
	return &orderedMenuRepository{u: u}
}

func (u *unitOfWork) OrderLineItemRepository() iorderlineitemrepo.IOrderLineItemRepository {
	return &orderLineItemRepository{u: u}
}

func (u *unitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return &outboxRepository{u: u}
}

func (u *unitOfWork) OrderAuditRepository() iorderauditrepo.IOrderAuditRepository {
	return &orderAuditRepository{u: u}
}
