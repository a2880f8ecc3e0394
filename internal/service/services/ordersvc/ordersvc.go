package ordersvc

import (
	"context"
	"log/slog"
	"time"

	"github.com/corray333/kitchenpos/internal/dal/interfaces/imenurepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/iorderedmenurepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/iorderlineitemrepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/iordertablerepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/iuow"
	"github.com/corray333/kitchenpos/internal/service/errs"
	"github.com/corray333/kitchenpos/internal/service/models/order"
	"github.com/corray333/kitchenpos/internal/service/models/orderedmenu"
	"github.com/corray333/kitchenpos/internal/service/models/orderlineitem"
	"github.com/corray333/kitchenpos/internal/service/models/outbox"
	"github.com/corray333/kitchenpos/internal/service/models/quantity"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// OrderService is a service for managing orders.
type OrderService struct {
	uowFactory iuow.Factory
	exchange   string
	now        func() time.Time
}

func (s *OrderService) newUOW() unitOfWork {
	return s.uowFactory.New()
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderTableRepository() iordertablerepo.IOrderTableRepository
	MenuRepository() imenurepo.IMenuRepository
	OrderRepository() iorderrepo.IOrderRepository
	OrderedMenuRepository() iorderedmenurepo.IOrderedMenuRepository
	OrderLineItemRepository() iorderlineitemrepo.IOrderLineItemRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.uowFactory == nil {
		panic("ordersvc: unit of work factory is required")
	}

	return s
}

// WithUnitOfWorkFactory sets the unit of work factory for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(f iuow.Factory) option {
	return func(s *OrderService) {
		s.uowFactory = f
	}
}

// WithEventExchange enables order events in the outbox, addressed to exchange.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithEventExchange(exchange string) option {
	return func(s *OrderService) {
		s.exchange = exchange
	}
}

// WithClock overrides the time source used for orderedTime.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *OrderService) {
		s.now = now
	}
}

// LineItemInput is one requested (menu, quantity) pair.
type LineItemInput struct {
	MenuID   int64
	Quantity int64
}

// Create places an order on a table. Every line freezes the current name and price
// of its menu into a new OrderedMenu. All rows are written in one transaction.
func (s *OrderService) Create(
	ctx context.Context,
	orderTableID int64,
	items []LineItemInput,
) (order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.Create")
	defer span.End()

	if len(items) == 0 {
		return order.Order{}, errs.Validation("order must contain at least one line item")
	}

	quantities := make([]quantity.Quantity, 0, len(items))
	for _, item := range items {
		q, err := quantity.New(item.Quantity)
		if err != nil {
			return order.Order{}, err
		}
		quantities = append(quantities, q)
	}

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return order.Order{}, err
	}
	defer iuow.Rollback(ctx, work)

	table, err := work.OrderTableRepository().FindByID(ctx, orderTableID)
	if err != nil {
		return order.Order{}, err
	}
	if table == nil {
		return order.Order{}, errs.NotFound("order table %d does not exist", orderTableID)
	}
	if table.Empty {
		return order.Order{}, errs.Validation("order table %d is empty", orderTableID)
	}

	snapshots := make([]orderedmenu.OrderedMenu, 0, len(items))
	for _, item := range items {
		m, err := work.MenuRepository().FindByID(ctx, item.MenuID)
		if err != nil {
			return order.Order{}, err
		}
		if m == nil {
			return order.Order{}, errs.NotFound("menu %d does not exist", item.MenuID)
		}

		snapshot, err := work.OrderedMenuRepository().Insert(ctx, orderedmenu.FromMenu(*m))
		if err != nil {
			return order.Order{}, err
		}
		snapshots = append(snapshots, snapshot)
	}

	o, err := work.OrderRepository().Insert(ctx, order.New(orderTableID, s.now().Truncate(time.Microsecond)))
	if err != nil {
		return order.Order{}, err
	}

	lineItems := make([]orderlineitem.OrderLineItem, 0, len(items))
	for i, snapshot := range snapshots {
		lineItems = append(lineItems, orderlineitem.OrderLineItem{
			OrderID:       o.ID,
			OrderedMenuID: snapshot.ID,
			OrderedMenu:   snapshot,
			Quantity:      quantities[i],
		})
	}
	o.OrderLineItems, err = work.OrderLineItemRepository().BulkInsert(ctx, lineItems)
	if err != nil {
		return order.Order{}, err
	}

	if err := s.publish(ctx, work, outbox.RoutingKeyOrderCreated, o); err != nil {
		return order.Order{}, err
	}

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, err
	}

	span.SetAttributes(attribute.Int64("order.id", o.ID))
	slog.Debug("Order created", "order_id", o.ID, "order_table_id", o.OrderTableID)

	return o, nil
}

// ChangeStatus overwrites the status of an order that has not reached COMPLETION.
func (s *OrderService) ChangeStatus(ctx context.Context, id int64, rawStatus string) (order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.ChangeStatus")
	defer span.End()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return order.Order{}, err
	}
	defer iuow.Rollback(ctx, work)

	found, err := work.OrderRepository().FindByID(ctx, id)
	if err != nil {
		return order.Order{}, err
	}
	if found == nil {
		return order.Order{}, errs.NotFound("order %d does not exist", id)
	}
	o := *found

	// COMPLETION is final whatever the requested status.
	if err := o.ValidateNotCompleted(); err != nil {
		return order.Order{}, err
	}

	status, err := order.ParseStatus(rawStatus)
	if err != nil {
		return order.Order{}, err
	}

	if err := o.ChangeStatus(status); err != nil {
		return order.Order{}, err
	}

	affected, err := work.OrderRepository().UpdateStatusGuard(ctx, id, status)
	if err != nil {
		return order.Order{}, err
	}
	if affected == 0 {
		return order.Order{}, errs.Conflict("order %d is already %s", id, order.StatusCompletion)
	}

	orders := []order.Order{o}
	if err := s.attachLineItems(ctx, work, orders); err != nil {
		return order.Order{}, err
	}
	o = orders[0]

	if err := s.publish(ctx, work, outbox.RoutingKeyOrderStatusChanged, o); err != nil {
		return order.Order{}, err
	}

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, err
	}

	return o, nil
}

// List returns every order with line items resolved to their OrderedMenu snapshots.
func (s *OrderService) List(ctx context.Context) ([]order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.List")
	defer span.End()

	work := s.newUOW()

	orders, err := work.OrderRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	if err := s.attachLineItems(ctx, work, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// attachLineItems loads the line items of orders in place, with their snapshots.
func (s *OrderService) attachLineItems(ctx context.Context, work unitOfWork, orders []order.Order) error {
	orderIDs := make([]int64, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}

	items, err := work.OrderLineItemRepository().FindByOrderIDs(ctx, orderIDs)
	if err != nil {
		return err
	}

	snapshotIDs := make([]int64, 0, len(items))
	for _, item := range items {
		snapshotIDs = append(snapshotIDs, item.OrderedMenuID)
	}
	snapshots, err := work.OrderedMenuRepository().FindByIDs(ctx, snapshotIDs)
	if err != nil {
		return err
	}

	byID := make(map[int64]orderedmenu.OrderedMenu, len(snapshots))
	for _, snapshot := range snapshots {
		byID[snapshot.ID] = snapshot
	}

	byOrder := make(map[int64][]orderlineitem.OrderLineItem, len(orders))
	for _, item := range items {
		item.OrderedMenu = byID[item.OrderedMenuID]
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}

	for i := range orders {
		orders[i].OrderLineItems = byOrder[orders[i].ID]
		if orders[i].OrderLineItems == nil {
			orders[i].OrderLineItems = []orderlineitem.OrderLineItem{}
		}
	}

	return nil
}

// publish writes an order event to the outbox when events are enabled.
func (s *OrderService) publish(ctx context.Context, work unitOfWork, routingKey string, o order.Order) error {
	if s.exchange == "" {
		return nil
	}

	msg, err := outbox.NewOrderEventMessage(s.exchange, routingKey, o, s.now())
	if err != nil {
		return err
	}

	return work.OutboxRepository().Insert(ctx, msg)
}
