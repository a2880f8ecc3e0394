// Package memory is a storage driver that keeps every table in process memory.
// It honours the same unit of work contract as the Postgres driver: a transaction
// works on a private copy of the tables that replaces the shared one on Commit.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/corray333/kitchenpos/internal/dal/interfaces/iuow"
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

type sequences struct {
	product, menuGroup, menu, menuProduct, orderTable, tableGroup, order, orderedMenu, lineItem, outbox, orderAudit int64
}

type tables struct {
	seq sequences

	products       map[int64]product.Product
	menuGroups     map[int64]menugroup.MenuGroup
	menus          map[int64]menu.Menu
	menuProducts   map[int64]menu.MenuProduct
	orderTables    map[int64]ordertable.OrderTable
	tableGroups    map[int64]tablegroup.TableGroup
	orders         map[int64]order.Order
	orderedMenus   map[int64]orderedmenu.OrderedMenu
	orderLineItems map[int64]orderlineitem.OrderLineItem
	outbox         map[int64]outbox.OutboxMessage
	orderAudit     map[int64]orderaudit.Entry
}

func newTables() *tables {
	return &tables{
		products:       map[int64]product.Product{},
		menuGroups:     map[int64]menugroup.MenuGroup{},
		menus:          map[int64]menu.Menu{},
		menuProducts:   map[int64]menu.MenuProduct{},
		orderTables:    map[int64]ordertable.OrderTable{},
		tableGroups:    map[int64]tablegroup.TableGroup{},
		orders:         map[int64]order.Order{},
		orderedMenus:   map[int64]orderedmenu.OrderedMenu{},
		orderLineItems: map[int64]orderlineitem.OrderLineItem{},
		outbox:         map[int64]outbox.OutboxMessage{},
		orderAudit:     map[int64]orderaudit.Entry{},
	}
}

// clone copies every table. Stored values never share mutable state with callers.
func (t *tables) clone() *tables {
	return &tables{
		seq:            t.seq,
		products:       maps.Clone(t.products),
		menuGroups:     maps.Clone(t.menuGroups),
		menus:          maps.Clone(t.menus),
		menuProducts:   maps.Clone(t.menuProducts),
		orderTables:    maps.Clone(t.orderTables),
		tableGroups:    maps.Clone(t.tableGroups),
		orders:         maps.Clone(t.orders),
		orderedMenus:   maps.Clone(t.orderedMenus),
		orderLineItems: maps.Clone(t.orderLineItems),
		outbox:         maps.Clone(t.outbox),
		orderAudit:     maps.Clone(t.orderAudit),
	}
}

// Store holds the tables. The zero value is not usable, use NewStore.
type Store struct {
	mu   sync.Mutex
	data *tables
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: newTables()}
}

// New returns a fresh unit of work over the store.
func (s *Store) New() iuow.UnitOfWork {
	return newUnitOfWork(s)
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

// sortedValues returns the values of m ordered by key.
func sortedValues[V any](m map[int64]V) []V {
	result := make([]V, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		result = append(result, m[k])
	}

	return result
}

// valuesOf returns the values of m whose keys are in ids, ordered by key.
func valuesOf[V any](m map[int64]V, ids []int64) []V {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	result := make([]V, 0, len(sorted))
	for _, id := range sorted {
		if v, ok := m[id]; ok {
			result = append(result, v)
		}
	}

	return result
}
