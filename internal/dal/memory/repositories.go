package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/corray333/kitchenpos/internal/service/models/menu"
	"github.com/corray333/kitchenpos/internal/service/models/menugroup"
	"github.com/corray333/kitchenpos/internal/service/models/order"
	"github.com/corray333/kitchenpos/internal/service/models/orderaudit"
	"github.com/corray333/kitchenpos/internal/service/models/orderedmenu"
	"github.com/corray333/kitchenpos/internal/service/models/orderlineitem"
	"github.com/corray333/kitchenpos/internal/service/models/ordertable"
	"github.com/corray333/kitchenpos/internal/service/models/outbox"
	"github.com/corray333/kitchenpos/internal/service/models/product"
	"github.com/corray333/kitchenpos/internal/service/models/tablegroup"
)

type productRepository struct{ u *unitOfWork }

func (r *productRepository) Insert(_ context.Context, p product.Product) (product.Product, error) {
	err := r.u.with(func(t *tables) error {
		t.seq.product++
		p.ID = t.seq.product
		t.products[p.ID] = p

		return nil
	})

	return p, err
}

func (r *productRepository) FindByIDs(_ context.Context, ids []int64) ([]product.Product, error) {
	var result []product.Product
	err := r.u.with(func(t *tables) error {
		result = valuesOf(t.products, ids)

		return nil
	})

	return result, err
}

func (r *productRepository) FindAll(context.Context) ([]product.Product, error) {
	var result []product.Product
	err := r.u.with(func(t *tables) error {
		result = sortedValues(t.products)

		return nil
	})

	return result, err
}

type menuGroupRepository struct{ u *unitOfWork }

func (r *menuGroupRepository) Insert(_ context.Context, mg menugroup.MenuGroup) (menugroup.MenuGroup, error) {
	err := r.u.with(func(t *tables) error {
		t.seq.menuGroup++
		mg.ID = t.seq.menuGroup
		t.menuGroups[mg.ID] = mg

		return nil
	})

	return mg, err
}

func (r *menuGroupRepository) ExistsByID(_ context.Context, id int64) (bool, error) {
	var exists bool
	err := r.u.with(func(t *tables) error {
		_, exists = t.menuGroups[id]

		return nil
	})

	return exists, err
}

func (r *menuGroupRepository) FindAll(context.Context) ([]menugroup.MenuGroup, error) {
	var result []menugroup.MenuGroup
	err := r.u.with(func(t *tables) error {
		result = sortedValues(t.menuGroups)

		return nil
	})

	return result, err
}

type menuRepository struct{ u *unitOfWork }

func (r *menuRepository) Insert(_ context.Context, m menu.Menu) (menu.Menu, error) {
	err := r.u.with(func(t *tables) error {
		t.seq.menu++
		m.ID = t.seq.menu
		stored := m
		stored.MenuProducts = nil
		t.menus[m.ID] = stored

		return nil
	})

	return m, err
}

func (r *menuRepository) FindByID(_ context.Context, id int64) (*menu.Menu, error) {
	var result *menu.Menu
	err := r.u.with(func(t *tables) error {
		if m, ok := t.menus[id]; ok {
			m.MenuProducts = []menu.MenuProduct{}
			result = &m
		}

		return nil
	})

	return result, err
}

func (r *menuRepository) FindAll(context.Context) ([]menu.Menu, error) {
	var result []menu.Menu
	err := r.u.with(func(t *tables) error {
		result = sortedValues(t.menus)
		for i := range result {
			result[i].MenuProducts = []menu.MenuProduct{}
		}

		return nil
	})

	return result, err
}

func (r *menuRepository) Update(_ context.Context, m menu.Menu) error {
	return r.u.with(func(t *tables) error {
		stored, ok := t.menus[m.ID]
		if !ok {
			return fmt.Errorf("menu %d is not stored", m.ID)
		}
		stored.Name = m.Name
		stored.Price = m.Price
		t.menus[m.ID] = stored

		return nil
	})
}

type menuProductRepository struct{ u *unitOfWork }

func (r *menuProductRepository) BulkInsert(_ context.Context, items []menu.MenuProduct) ([]menu.MenuProduct, error) {
	result := make([]menu.MenuProduct, 0, len(items))
	err := r.u.with(func(t *tables) error {
		for _, item := range items {
			t.seq.menuProduct++
			item.Seq = t.seq.menuProduct
			t.menuProducts[item.Seq] = item
			result = append(result, item)
		}

		return nil
	})

	return result, err
}

func (r *menuProductRepository) FindByMenuIDs(_ context.Context, menuIDs []int64) ([]menu.MenuProduct, error) {
	result := []menu.MenuProduct{}
	err := r.u.with(func(t *tables) error {
		for _, mp := range sortedValues(t.menuProducts) {
			if slices.Contains(menuIDs, mp.MenuID) {
				result = append(result, mp)
			}
		}

		return nil
	})

	return result, err
}

type orderTableRepository struct{ u *unitOfWork }

func (r *orderTableRepository) Insert(_ context.Context, ot ordertable.OrderTable) (ordertable.OrderTable, error) {
	err := r.u.with(func(t *tables) error {
		t.seq.orderTable++
		ot.ID = t.seq.orderTable
		t.orderTables[ot.ID] = ot

		return nil
	})

	return ot, err
}

func (r *orderTableRepository) FindByID(_ context.Context, id int64) (*ordertable.OrderTable, error) {
	var result *ordertable.OrderTable
	err := r.u.with(func(t *tables) error {
		if ot, ok := t.orderTables[id]; ok {
			result = &ot
		}

		return nil
	})

	return result, err
}

func (r *orderTableRepository) FindByIDs(_ context.Context, ids []int64) ([]ordertable.OrderTable, error) {
	var result []ordertable.OrderTable
	err := r.u.with(func(t *tables) error {
		result = valuesOf(t.orderTables, ids)

		return nil
	})

	return result, err
}

func (r *orderTableRepository) FindAll(context.Context) ([]ordertable.OrderTable, error) {
	var result []ordertable.OrderTable
	err := r.u.with(func(t *tables) error {
		result = sortedValues(t.orderTables)

		return nil
	})

	return result, err
}

func (r *orderTableRepository) FindByTableGroupID(
	_ context.Context,
	tableGroupID int64,
) ([]ordertable.OrderTable, error) {
	result := []ordertable.OrderTable{}
	err := r.u.with(func(t *tables) error {
		for _, ot := range sortedValues(t.orderTables) {
			if ot.TableGroupID != nil && *ot.TableGroupID == tableGroupID {
				result = append(result, ot)
			}
		}

		return nil
	})

	return result, err
}

func (r *orderTableRepository) Update(_ context.Context, ot ordertable.OrderTable) error {
	return r.u.with(func(t *tables) error {
		if _, ok := t.orderTables[ot.ID]; !ok {
			return fmt.Errorf("order table %d is not stored", ot.ID)
		}
		t.orderTables[ot.ID] = ot

		return nil
	})
}

type tableGroupRepository struct{ u *unitOfWork }

func (r *tableGroupRepository) Insert(_ context.Context, tg tablegroup.TableGroup) (tablegroup.TableGroup, error) {
	err := r.u.with(func(t *tables) error {
		t.seq.tableGroup++
		tg.ID = t.seq.tableGroup
		stored := tg
		stored.OrderTables = nil
		t.tableGroups[tg.ID] = stored

		return nil
	})

	return tg, err
}

func (r *tableGroupRepository) FindByID(_ context.Context, id int64) (*tablegroup.TableGroup, error) {
	var result *tablegroup.TableGroup
	err := r.u.with(func(t *tables) error {
		if tg, ok := t.tableGroups[id]; ok {
			tg.OrderTables = []ordertable.OrderTable{}
			result = &tg
		}

		return nil
	})

	return result, err
}

func (r *tableGroupRepository) Delete(_ context.Context, id int64) error {
	return r.u.with(func(t *tables) error {
		delete(t.tableGroups, id)

		return nil
	})
}

type orderRepository struct{ u *unitOfWork }

func (r *orderRepository) Insert(_ context.Context, o order.Order) (order.Order, error) {
	err := r.u.with(func(t *tables) error {
		t.seq.order++
		o.ID = t.seq.order
		stored := o
		stored.OrderLineItems = nil
		t.orders[o.ID] = stored

		return nil
	})

	return o, err
}

func (r *orderRepository) FindByID(_ context.Context, id int64) (*order.Order, error) {
	var result *order.Order
	err := r.u.with(func(t *tables) error {
		if o, ok := t.orders[id]; ok {
			o.OrderLineItems = []orderlineitem.OrderLineItem{}
			result = &o
		}

		return nil
	})

	return result, err
}

func (r *orderRepository) FindAll(context.Context) ([]order.Order, error) {
	var result []order.Order
	err := r.u.with(func(t *tables) error {
		result = sortedValues(t.orders)
		for i := range result {
			result[i].OrderLineItems = []orderlineitem.OrderLineItem{}
		}

		return nil
	})

	return result, err
}

func (r *orderRepository) UpdateStatusGuard(_ context.Context, id int64, status order.Status) (int64, error) {
	var affected int64
	err := r.u.with(func(t *tables) error {
		o, ok := t.orders[id]
		if !ok || o.OrderStatus.IsTerminal() {
			return nil
		}
		o.OrderStatus = status
		t.orders[id] = o
		affected = 1

		return nil
	})

	return affected, err
}

func (r *orderRepository) ExistsByTableIDsAndStatuses(
	_ context.Context,
	tableIDs []int64,
	statuses []order.Status,
) (bool, error) {
	var exists bool
	err := r.u.with(func(t *tables) error {
		for _, o := range t.orders {
			if slices.Contains(tableIDs, o.OrderTableID) && slices.Contains(statuses, o.OrderStatus) {
				exists = true

				return nil
			}
		}

		return nil
	})

	return exists, err
}

type orderedMenuRepository struct{ u *unitOfWork }

func (r *orderedMenuRepository) Insert(
	_ context.Context,
	om orderedmenu.OrderedMenu,
) (orderedmenu.OrderedMenu, error) {
	err := r.u.with(func(t *tables) error {
		t.seq.orderedMenu++
		om.ID = t.seq.orderedMenu
		t.orderedMenus[om.ID] = om

		return nil
	})

	return om, err
}

func (r *orderedMenuRepository) FindByIDs(_ context.Context, ids []int64) ([]orderedmenu.OrderedMenu, error) {
	var result []orderedmenu.OrderedMenu
	err := r.u.with(func(t *tables) error {
		result = valuesOf(t.orderedMenus, ids)

		return nil
	})

	return result, err
}

type orderLineItemRepository struct{ u *unitOfWork }

func (r *orderLineItemRepository) BulkInsert(
	_ context.Context,
	items []orderlineitem.OrderLineItem,
) ([]orderlineitem.OrderLineItem, error) {
	result := make([]orderlineitem.OrderLineItem, 0, len(items))
	err := r.u.with(func(t *tables) error {
		for _, item := range items {
			t.seq.lineItem++
			item.Seq = t.seq.lineItem
			stored := item
			stored.OrderedMenu = orderedmenu.OrderedMenu{ID: item.OrderedMenuID}
			t.orderLineItems[item.Seq] = stored
			result = append(result, item)
		}

		return nil
	})

	return result, err
}

func (r *orderLineItemRepository) FindByOrderIDs(
	_ context.Context,
	orderIDs []int64,
) ([]orderlineitem.OrderLineItem, error) {
	result := []orderlineitem.OrderLineItem{}
	err := r.u.with(func(t *tables) error {
		for _, item := range sortedValues(t.orderLineItems) {
			if slices.Contains(orderIDs, item.OrderID) {
				result = append(result, item)
			}
		}

		return nil
	})

	return result, err
}

type outboxRepository struct{ u *unitOfWork }

func (r *outboxRepository) Insert(_ context.Context, msg outbox.OutboxMessage) error {
	return r.u.with(func(t *tables) error {
		t.seq.outbox++
		msg.ID = t.seq.outbox
		t.outbox[msg.ID] = msg

		return nil
	})
}

func (r *outboxRepository) GetPendingMessages(_ context.Context, limit int) ([]outbox.OutboxMessage, error) {
	now := time.Now()
	var result []outbox.OutboxMessage
	err := r.u.with(func(t *tables) error {
		for _, msg := range sortedValues(t.outbox) {
			if !msg.NextRetryAt.After(now) && msg.RetryCount < msg.MaxRetries {
				result = append(result, msg)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(result, func(a, b outbox.OutboxMessage) int {
		return a.NextRetryAt.Compare(b.NextRetryAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func (r *outboxRepository) Delete(_ context.Context, id int64) error {
	return r.u.with(func(t *tables) error {
		delete(t.outbox, id)

		return nil
	})
}

func (r *outboxRepository) UpdateRetry(
	_ context.Context,
	id int64,
	retryCount int,
	lastError string,
	nextRetryAt time.Time,
) error {
	return r.u.with(func(t *tables) error {
		msg, ok := t.outbox[id]
		if !ok {
			return nil
		}
		msg.RetryCount = retryCount
		msg.LastError = lastError
		msg.NextRetryAt = nextRetryAt
		msg.UpdatedAt = time.Now()
		t.outbox[id] = msg

		return nil
	})
}

type orderAuditRepository struct{ u *unitOfWork }

func (r *orderAuditRepository) Insert(_ context.Context, e orderaudit.Entry) (bool, error) {
	inserted := false
	err := r.u.with(func(t *tables) error {
		for _, existing := range t.orderAudit {
			if existing.MessageID == e.MessageID {
				return nil
			}
		}
		t.seq.orderAudit++
		e.ID = t.seq.orderAudit
		t.orderAudit[e.ID] = e
		inserted = true

		return nil
	})

	return inserted, err
}

func (r *orderAuditRepository) FindByOrderID(_ context.Context, orderID int64) ([]orderaudit.Entry, error) {
	result := []orderaudit.Entry{}
	err := r.u.with(func(t *tables) error {
		for _, e := range sortedValues(t.orderAudit) {
			if e.OrderID == orderID {
				result = append(result, e)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(result, func(a, b orderaudit.Entry) int {
		return a.OccurredAt.Compare(b.OccurredAt)
	})

	return result, nil
}
