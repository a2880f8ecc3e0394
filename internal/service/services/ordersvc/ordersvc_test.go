package ordersvc

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/corray333/kitchenpos/internal/dal/memory"
	"github.com/corray333/kitchenpos/internal/service/errs"
	"github.com/corray333/kitchenpos/internal/service/models/menu"
	"github.com/corray333/kitchenpos/internal/service/models/menugroup"
	"github.com/corray333/kitchenpos/internal/service/models/order"
	"github.com/corray333/kitchenpos/internal/service/models/ordertable"
	"github.com/corray333/kitchenpos/internal/service/models/outbox"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type OrderServiceTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	svc   *OrderService
	now   time.Time

	table ordertable.OrderTable
	menu  menu.Menu
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.svc = MustNewOrderService(
		WithUnitOfWorkFactory(s.store),
		WithEventExchange("kitchenpos.events"),
		WithClock(func() time.Time { return s.now }),
	)

	work := s.store.New()
	var err error
	s.table, err = work.OrderTableRepository().Insert(s.ctx, ordertable.OrderTable{NumberOfGuests: 2})
	require.NoError(s.T(), err)

	group, err := work.MenuGroupRepository().Insert(s.ctx, menugroup.MenuGroup{Name: "chicken"})
	require.NoError(s.T(), err)
	s.menu, err = work.MenuRepository().Insert(s.ctx, menu.Menu{
		Name:        "fried chicken",
		Price:       decimal.NewFromInt(16000),
		MenuGroupID: group.ID,
	})
	require.NoError(s.T(), err)
}

func (s *OrderServiceTestSuite) countRows() (orders, outboxMessages int) {
	work := s.store.New()

	all, err := work.OrderRepository().FindAll(s.ctx)
	require.NoError(s.T(), err)
	pending, err := work.OutboxRepository().GetPendingMessages(s.ctx, 100)
	require.NoError(s.T(), err)

	return len(all), len(pending)
}

func (s *OrderServiceTestSuite) TestCreate() {
	o, err := s.svc.Create(s.ctx, s.table.ID, []LineItemInput{{MenuID: s.menu.ID, Quantity: 2}})
	require.NoError(s.T(), err)

	require.NotZero(s.T(), o.ID)
	require.Equal(s.T(), order.StatusCooking, o.OrderStatus)
	require.Equal(s.T(), s.now, o.OrderedTime)
	require.Len(s.T(), o.OrderLineItems, 1)
	require.Equal(s.T(), s.menu.ID, o.OrderLineItems[0].MenuID())
	require.Equal(s.T(), int64(2), o.OrderLineItems[0].Quantity.Int64())
	require.True(s.T(), s.menu.Price.Equal(o.OrderLineItems[0].OrderedMenu.Price))

	orders, events := s.countRows()
	require.Equal(s.T(), 1, orders)
	require.Equal(s.T(), 1, events)
}

func (s *OrderServiceTestSuite) TestCreate_OrderedTimeKeepsMicroseconds() {
	s.now = s.now.Add(123456789 * time.Nanosecond)

	o, err := s.svc.Create(s.ctx, s.table.ID, []LineItemInput{{MenuID: s.menu.ID, Quantity: 1}})
	require.NoError(s.T(), err)
	require.Equal(s.T(), s.now.Truncate(time.Microsecond), o.OrderedTime)
	require.Equal(s.T(), 123456000, o.OrderedTime.Nanosecond())

	stored, err := s.store.New().OrderRepository().FindByID(s.ctx, o.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), o.OrderedTime, stored.OrderedTime)
}

func (s *OrderServiceTestSuite) TestCreate_WritesOrderCreatedEvent() {
	o, err := s.svc.Create(s.ctx, s.table.ID, []LineItemInput{{MenuID: s.menu.ID, Quantity: 1}})
	require.NoError(s.T(), err)

	pending, err := s.store.New().OutboxRepository().GetPendingMessages(s.ctx, 10)
	require.NoError(s.T(), err)
	require.Len(s.T(), pending, 1)
	require.Equal(s.T(), outbox.RoutingKeyOrderCreated, pending[0].RoutingKey)
	require.Equal(s.T(), "kitchenpos.events", pending[0].ExchangeName)

	var event outbox.OrderEvent
	require.NoError(s.T(), json.Unmarshal(pending[0].Payload, &event))
	require.Equal(s.T(), o.ID, event.Order.ID)
	require.Len(s.T(), event.Order.OrderLineItems, 1)
	require.Equal(s.T(), s.menu.ID, event.Order.OrderLineItems[0].MenuID)
}

func (s *OrderServiceTestSuite) TestCreate_Rejected() {
	emptyTable, err := s.store.New().OrderTableRepository().Insert(s.ctx, ordertable.OrderTable{Empty: true})
	require.NoError(s.T(), err)

	tests := []struct {
		name    string
		tableID int64
		items   []LineItemInput
		wantErr error
	}{
		{
			name:    "no line items",
			tableID: s.table.ID,
			items:   nil,
			wantErr: errs.ErrValidation,
		},
		{
			name:    "non-positive quantity",
			tableID: s.table.ID,
			items:   []LineItemInput{{MenuID: s.menu.ID, Quantity: 0}},
			wantErr: errs.ErrValidation,
		},
		{
			name:    "unknown table",
			tableID: 999,
			items:   []LineItemInput{{MenuID: s.menu.ID, Quantity: 1}},
			wantErr: errs.ErrNotFound,
		},
		{
			name:    "empty table",
			tableID: emptyTable.ID,
			items:   []LineItemInput{{MenuID: s.menu.ID, Quantity: 1}},
			wantErr: errs.ErrValidation,
		},
		{
			name:    "unknown menu after a valid one",
			tableID: s.table.ID,
			items:   []LineItemInput{{MenuID: s.menu.ID, Quantity: 1}, {MenuID: 999, Quantity: 1}},
			wantErr: errs.ErrNotFound,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.svc.Create(s.ctx, tt.tableID, tt.items)
			require.ErrorIs(s.T(), err, tt.wantErr)

			orders, events := s.countRows()
			require.Zero(s.T(), orders)
			require.Zero(s.T(), events)

			snapshots, err := s.store.New().OrderedMenuRepository().FindByIDs(s.ctx, []int64{1, 2})
			require.NoError(s.T(), err)
			require.Empty(s.T(), snapshots)
		})
	}
}

func (s *OrderServiceTestSuite) TestList_KeepsSnapshotAfterMenuEdit() {
	_, err := s.svc.Create(s.ctx, s.table.ID, []LineItemInput{{MenuID: s.menu.ID, Quantity: 1}})
	require.NoError(s.T(), err)

	edited := s.menu
	edited.Name = "spicy fried chicken"
	edited.Price = decimal.NewFromInt(12000)
	require.NoError(s.T(), s.store.New().MenuRepository().Update(s.ctx, edited))

	orders, err := s.svc.List(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), orders, 1)
	require.Len(s.T(), orders[0].OrderLineItems, 1)

	snapshot := orders[0].OrderLineItems[0].OrderedMenu
	require.Equal(s.T(), "fried chicken", snapshot.Name)
	require.True(s.T(), decimal.NewFromInt(16000).Equal(snapshot.Price))
	require.Equal(s.T(), s.menu.ID, snapshot.MenuID)
}

func (s *OrderServiceTestSuite) TestList_Empty() {
	orders, err := s.svc.List(s.ctx)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), orders)
	require.Empty(s.T(), orders)
}

func (s *OrderServiceTestSuite) TestChangeStatus() {
	o, err := s.svc.Create(s.ctx, s.table.ID, []LineItemInput{{MenuID: s.menu.ID, Quantity: 1}})
	require.NoError(s.T(), err)

	changed, err := s.svc.ChangeStatus(s.ctx, o.ID, "MEAL")
	require.NoError(s.T(), err)
	require.Equal(s.T(), order.StatusMeal, changed.OrderStatus)
	require.Len(s.T(), changed.OrderLineItems, 1)

	// Going back to COOKING is allowed.
	changed, err = s.svc.ChangeStatus(s.ctx, o.ID, "COOKING")
	require.NoError(s.T(), err)
	require.Equal(s.T(), order.StatusCooking, changed.OrderStatus)

	_, events := s.countRows()
	require.Equal(s.T(), 3, events)
}

func (s *OrderServiceTestSuite) TestChangeStatus_CompletedIsFinal() {
	o, err := s.svc.Create(s.ctx, s.table.ID, []LineItemInput{{MenuID: s.menu.ID, Quantity: 1}})
	require.NoError(s.T(), err)

	_, err = s.svc.ChangeStatus(s.ctx, o.ID, "COMPLETION")
	require.NoError(s.T(), err)

	for _, next := range []string{"COOKING", "MEAL", "COMPLETION", "SERVED", ""} {
		_, err = s.svc.ChangeStatus(s.ctx, o.ID, next)
		require.ErrorIs(s.T(), err, errs.ErrConflict)
	}

	stored, err := s.store.New().OrderRepository().FindByID(s.ctx, o.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), order.StatusCompletion, stored.OrderStatus)
}

func (s *OrderServiceTestSuite) TestChangeStatus_Rejected() {
	_, err := s.svc.ChangeStatus(s.ctx, 42, "MEAL")
	require.ErrorIs(s.T(), err, errs.ErrNotFound)

	o, err := s.svc.Create(s.ctx, s.table.ID, []LineItemInput{{MenuID: s.menu.ID, Quantity: 1}})
	require.NoError(s.T(), err)

	_, err = s.svc.ChangeStatus(s.ctx, o.ID, "SERVED")
	require.ErrorIs(s.T(), err, errs.ErrValidation)

	stored, err := s.store.New().OrderRepository().FindByID(s.ctx, o.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), order.StatusCooking, stored.OrderStatus)
}

func TestOrderService_WithoutExchangeWritesNoEvents(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := MustNewOrderService(WithUnitOfWorkFactory(store))

	work := store.New()
	table, err := work.OrderTableRepository().Insert(ctx, ordertable.OrderTable{NumberOfGuests: 4})
	require.NoError(t, err)
	m, err := work.MenuRepository().Insert(ctx, menu.Menu{Name: "set", Price: decimal.NewFromInt(1000)})
	require.NoError(t, err)

	_, err = svc.Create(ctx, table.ID, []LineItemInput{{MenuID: m.ID, Quantity: 3}})
	require.NoError(t, err)

	pending, err := store.New().OutboxRepository().GetPendingMessages(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestMustNewOrderService_PanicsWithoutFactory(t *testing.T) {
	require.Panics(t, func() { MustNewOrderService() })
}
