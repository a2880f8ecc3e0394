package uow

import (
	"context"
	"errors"
	"fmt"

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
	"github.com/corray333/kitchenpos/internal/dal/interfaces/iuow"
	"github.com/corray333/kitchenpos/internal/dal/postgres"
	menurepo "github.com/corray333/kitchenpos/internal/dal/repositories/menu/postgres"
	menugrouprepo "github.com/corray333/kitchenpos/internal/dal/repositories/menugroup/postgres"
	menuproductrepo "github.com/corray333/kitchenpos/internal/dal/repositories/menuproduct/postgres"
	orderrepo "github.com/corray333/kitchenpos/internal/dal/repositories/order/postgres"
	orderauditrepo "github.com/corray333/kitchenpos/internal/dal/repositories/orderaudit/postgres"
	orderedmenurepo "github.com/corray333/kitchenpos/internal/dal/repositories/orderedmenu/postgres"
	orderlineitemrepo "github.com/corray333/kitchenpos/internal/dal/repositories/orderlineitem/postgres"
	ordertablerepo "github.com/corray333/kitchenpos/internal/dal/repositories/ordertable/postgres"
	outboxrepo "github.com/corray333/kitchenpos/internal/dal/repositories/outbox/postgres"
	productrepo "github.com/corray333/kitchenpos/internal/dal/repositories/product/postgres"
	tablegrouprepo "github.com/corray333/kitchenpos/internal/dal/repositories/tablegroup/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type unitOfWork struct {
	pool *pgxpool.Pool
	tx   pgx.Tx

	productRepo       iproductrepo.IProductRepository
	menuGroupRepo     imenugrouprepo.IMenuGroupRepository
	menuRepo          imenurepo.IMenuRepository
	menuProductRepo   imenuproductrepo.IMenuProductRepository
	orderTableRepo    iordertablerepo.IOrderTableRepository
	tableGroupRepo    itablegrouprepo.ITableGroupRepository
	orderRepo         iorderrepo.IOrderRepository
	orderedMenuRepo   iorderedmenurepo.IOrderedMenuRepository
	orderLineItemRepo iorderlineitemrepo.IOrderLineItemRepository
	outboxRepo        ioutboxrepo.IOutboxRepository
	orderAuditRepo    iorderauditrepo.IOrderAuditRepository
}

func (u *unitOfWork) ProductRepository() iproductrepo.IProductRepository {
	return u.productRepo
}

func (u *unitOfWork) MenuGroupRepository() imenugrouprepo.IMenuGroupRepository {
	return u.menuGroupRepo
}

func (u *unitOfWork) MenuRepository() imenurepo.IMenuRepository {
	return u.menuRepo
}

func (u *unitOfWork) MenuProductRepository() imenuproductrepo.IMenuProductRepository {
	return u.menuProductRepo
}

func (u *unitOfWork) OrderTableRepository() iordertablerepo.IOrderTableRepository {
	return u.orderTableRepo
}

func (u *unitOfWork) TableGroupRepository() itablegrouprepo.ITableGroupRepository {
	return u.tableGroupRepo
}

func (u *unitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *unitOfWork) OrderedMenuRepository() iorderedmenurepo.IOrderedMenuRepository {
	return u.orderedMenuRepo
}

func (u *unitOfWork) OrderLineItemRepository() iorderlineitemrepo.IOrderLineItemRepository {
	return u.orderLineItemRepo
}

func (u *unitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return u.outboxRepo
}

func (u *unitOfWork) OrderAuditRepository() iorderauditrepo.IOrderAuditRepository {
	return u.orderAuditRepo
}

// NewUnitOfWork creates a unit of work whose repositories use the pool until Begin.
func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	u := &unitOfWork{
		pool: client.Pool(),
	}
	u.bind(client.Pool())

	return u
}

func (u *unitOfWork) bind(conn postgres.Conn) {
	u.productRepo = productrepo.NewPostgresProductRepository(conn)
	u.menuGroupRepo = menugrouprepo.NewPostgresMenuGroupRepository(conn)
	u.menuRepo = menurepo.NewPostgresMenuRepository(conn)
	u.menuProductRepo = menuproductrepo.NewPostgresMenuProductRepository(conn)
	u.orderTableRepo = ordertablerepo.NewPostgresOrderTableRepository(conn)
	u.tableGroupRepo = tablegrouprepo.NewPostgresTableGroupRepository(conn)
	u.orderRepo = orderrepo.NewPostgresOrderRepository(conn)
	u.orderedMenuRepo = orderedmenurepo.NewPostgresOrderedMenuRepository(conn)
	u.orderLineItemRepo = orderlineitemrepo.NewPostgresOrderLineItemRepository(conn)
	u.outboxRepo = outboxrepo.NewOutboxRepository(conn)
	u.orderAuditRepo = orderauditrepo.NewPostgresOrderAuditRepository(conn)
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return errors.New("transaction already started")
	}

	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	// Rebind repositories to the transaction
	u.bind(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Commit(ctx)
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}

	return err
}

// Factory opens Postgres-backed units of work.
type Factory struct {
	client *postgres.Client
}

// NewFactory creates a factory over client.
func NewFactory(client *postgres.Client) *Factory {
	return &Factory{client: client}
}

// New returns a fresh unit of work.
func (f *Factory) New() iuow.UnitOfWork {
	return NewUnitOfWork(f.client)
}

// Ping checks the underlying database.
func (f *Factory) Ping(ctx context.Context) error {
	return f.client.Ping(ctx)
}
