package uow

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/corray333/kitchenpos/internal/dal/postgres"
	"github.com/corray333/kitchenpos/internal/service/models/menu"
	"github.com/corray333/kitchenpos/internal/service/models/menugroup"
	"github.com/corray333/kitchenpos/internal/service/models/order"
	"github.com/corray333/kitchenpos/internal/service/models/orderedmenu"
	"github.com/corray333/kitchenpos/internal/service/models/orderlineitem"
	"github.com/corray333/kitchenpos/internal/service/models/ordertable"
	"github.com/corray333/kitchenpos/internal/service/models/outbox"
	"github.com/corray333/kitchenpos/internal/service/models/product"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// PostgresTestSuite runs against the database in KITCHENPOS_TEST_PG_DSN.
type PostgresTestSuite struct {
	suite.Suite
	ctx     context.Context
	client  *postgres.Client
	factory *Factory
}

func TestPostgresSuite(t *testing.T) {
	dsn := os.Getenv("KITCHENPOS_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("KITCHENPOS_TEST_PG_DSN is not set")
	}

	client, err := postgres.NewClient(context.Background(), dsn)
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, client.Migrate())

	suite.Run(t, &PostgresTestSuite{client: client, factory: NewFactory(client)})
}

func (s *PostgresTestSuite) SetupTest() {
	s.ctx = context.Background()

	_, err := s.client.Pool().Exec(s.ctx, `TRUNCATE product, menu_group, menu, menu_product, table_group,
		order_table, orders, ordered_menu, order_line_item, outbox RESTART IDENTITY CASCADE`)
	require.NoError(s.T(), err)
}

func (s *PostgresTestSuite) seedMenu() (product.Product, menu.Menu) {
	work := s.factory.New()

	p, err := work.ProductRepository().Insert(s.ctx, product.Product{
		Name:  "fried chicken",
		Price: decimal.RequireFromString("16000.50"),
	})
	require.NoError(s.T(), err)

	g, err := work.MenuGroupRepository().Insert(s.ctx, menugroup.MenuGroup{Name: "chicken"})
	require.NoError(s.T(), err)

	m, err := work.MenuRepository().Insert(s.ctx, menu.Menu{
		Name:        "fried chicken",
		Price:       decimal.NewFromInt(16000),
		MenuGroupID: g.ID,
	})
	require.NoError(s.T(), err)

	return p, m
}

func (s *PostgresTestSuite) TestRollbackDiscardsWrites() {
	work := s.factory.New()
	require.NoError(s.T(), work.Begin(s.ctx))

	_, err := work.ProductRepository().Insert(s.ctx, product.Product{Name: "fried chicken", Price: decimal.NewFromInt(1)})
	require.NoError(s.T(), err)
	require.NoError(s.T(), work.Rollback(s.ctx))

	products, err := s.factory.New().ProductRepository().FindAll(s.ctx)
	require.NoError(s.T(), err)
	require.Empty(s.T(), products)
}

func (s *PostgresTestSuite) TestBeginTwice() {
	work := s.factory.New()
	require.NoError(s.T(), work.Begin(s.ctx))
	defer func() { _ = work.Rollback(s.ctx) }()

	require.Error(s.T(), work.Begin(s.ctx))
}

func (s *PostgresTestSuite) TestCatalog() {
	p, m := s.seedMenu()
	work := s.factory.New()

	found, err := work.ProductRepository().FindByIDs(s.ctx, []int64{p.ID, 999})
	require.NoError(s.T(), err)
	require.Len(s.T(), found, 1)
	require.True(s.T(), decimal.RequireFromString("16000.5").Equal(found[0].Price))

	exists, err := work.MenuGroupRepository().ExistsByID(s.ctx, m.MenuGroupID)
	require.NoError(s.T(), err)
	require.True(s.T(), exists)

	items, err := work.MenuProductRepository().BulkInsert(s.ctx, []menu.MenuProduct{
		{MenuID: m.ID, ProductID: p.ID, Quantity: 2},
	})
	require.NoError(s.T(), err)
	require.Len(s.T(), items, 1)
	require.NotZero(s.T(), items[0].Seq)

	byMenu, err := work.MenuProductRepository().FindByMenuIDs(s.ctx, []int64{m.ID})
	require.NoError(s.T(), err)
	require.Equal(s.T(), items, byMenu)

	m.Price = decimal.NewFromInt(15000)
	require.NoError(s.T(), work.MenuRepository().Update(s.ctx, m))
	updated, err := work.MenuRepository().FindByID(s.ctx, m.ID)
	require.NoError(s.T(), err)
	require.True(s.T(), m.Price.Equal(updated.Price))

	missing, err := work.MenuRepository().FindByID(s.ctx, 999)
	require.NoError(s.T(), err)
	require.Nil(s.T(), missing)
}

func (s *PostgresTestSuite) TestOrders() {
	_, m := s.seedMenu()
	work := s.factory.New()
	require.NoError(s.T(), work.Begin(s.ctx))

	table, err := work.OrderTableRepository().Insert(s.ctx, ordertable.OrderTable{NumberOfGuests: 2})
	require.NoError(s.T(), err)

	snapshot, err := work.OrderedMenuRepository().Insert(s.ctx, orderedmenu.FromMenu(m))
	require.NoError(s.T(), err)

	o, err := work.OrderRepository().Insert(s.ctx, order.New(table.ID, time.Now().UTC().Truncate(time.Microsecond)))
	require.NoError(s.T(), err)

	items, err := work.OrderLineItemRepository().BulkInsert(s.ctx, []orderlineitem.OrderLineItem{
		{OrderID: o.ID, OrderedMenuID: snapshot.ID, OrderedMenu: snapshot, Quantity: 3},
	})
	require.NoError(s.T(), err)
	require.Len(s.T(), items, 1)
	require.Equal(s.T(), snapshot, items[0].OrderedMenu)
	require.NoError(s.T(), work.Commit(s.ctx))

	work = s.factory.New()
	busy, err := work.OrderRepository().ExistsByTableIDsAndStatuses(s.ctx, []int64{table.ID}, order.InProgressStatuses)
	require.NoError(s.T(), err)
	require.True(s.T(), busy)

	affected, err := work.OrderRepository().UpdateStatusGuard(s.ctx, o.ID, order.StatusCompletion)
	require.NoError(s.T(), err)
	require.Equal(s.T(), int64(1), affected)

	affected, err = work.OrderRepository().UpdateStatusGuard(s.ctx, o.ID, order.StatusMeal)
	require.NoError(s.T(), err)
	require.Zero(s.T(), affected)

	busy, err = work.OrderRepository().ExistsByTableIDsAndStatuses(s.ctx, []int64{table.ID}, order.InProgressStatuses)
	require.NoError(s.T(), err)
	require.False(s.T(), busy)

	stored, err := work.OrderRepository().FindByID(s.ctx, o.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), order.StatusCompletion, stored.OrderStatus)
}

func (s *PostgresTestSuite) TestOutbox() {
	repo := s.factory.New().OutboxRepository()

	msg, err := outbox.NewOrderEventMessage("kitchenpos.events", outbox.RoutingKeyOrderCreated,
		order.New(1, time.Now()), time.Now().Add(-time.Minute))
	require.NoError(s.T(), err)
	require.NoError(s.T(), repo.Insert(s.ctx, msg))

	pending, err := repo.GetPendingMessages(s.ctx, 10)
	require.NoError(s.T(), err)
	require.Len(s.T(), pending, 1)
	require.Equal(s.T(), msg.MessageID, pending[0].MessageID)
	require.JSONEq(s.T(), string(msg.Payload), string(pending[0].Payload))

	require.NoError(s.T(), repo.UpdateRetry(s.ctx, pending[0].ID, 1, "broker down", time.Now().Add(time.Hour)))
	pending, err = repo.GetPendingMessages(s.ctx, 10)
	require.NoError(s.T(), err)
	require.Empty(s.T(), pending)
}
