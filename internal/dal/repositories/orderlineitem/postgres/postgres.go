package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/kitchenpos/internal/dal/postgres"
	"github.com/corray333/kitchenpos/internal/service/models/orderedmenu"
	"github.com/corray333/kitchenpos/internal/service/models/orderlineitem"
	"github.com/corray333/kitchenpos/internal/service/models/quantity"
	"github.com/jackc/pgx/v5"
)

// OrderLineItemDal represents order line item data access layer model.
type OrderLineItemDal struct {
	Seq           int64 `db:"seq"`
	OrderId       int64 `db:"order_id"`
	OrderedMenuId int64 `db:"ordered_menu_id"`
	Quantity      int64 `db:"quantity"`
}

// ToModel converts OrderLineItemDal to service layer OrderLineItem model.
// The snapshot itself is resolved by the caller.
func (li *OrderLineItemDal) ToModel() orderlineitem.OrderLineItem {
	return orderlineitem.OrderLineItem{
		Seq:           li.Seq,
		OrderID:       li.OrderId,
		OrderedMenuID: li.OrderedMenuId,
		OrderedMenu:   orderedmenu.OrderedMenu{ID: li.OrderedMenuId},
		Quantity:      quantity.Quantity(li.Quantity),
	}
}

// PostgresOrderLineItemRepository represents a Postgres order line item repository.
type PostgresOrderLineItemRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderLineItemRepository creates a new Postgres order line item repository.
func NewPostgresOrderLineItemRepository(conn postgres.Conn) *PostgresOrderLineItemRepository {
	return &PostgresOrderLineItemRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// BulkInsert inserts line items and returns them with their seq, in input order.
// Uses unnest over column arrays so the statement size does not grow with the batch.
func (r *PostgresOrderLineItemRepository) BulkInsert(
	ctx context.Context,
	items []orderlineitem.OrderLineItem,
) ([]orderlineitem.OrderLineItem, error) {
	if len(items) == 0 {
		return []orderlineitem.OrderLineItem{}, nil
	}

	orderIDs := make([]int64, len(items))
	orderedMenuIDs := make([]int64, len(items))
	quantities := make([]int64, len(items))
	for i, item := range items {
		orderIDs[i] = item.OrderID
		orderedMenuIDs[i] = item.OrderedMenuID
		quantities[i] = item.Quantity.Int64()
	}

	sql := `
		INSERT INTO order_line_item (order_id, ordered_menu_id, quantity)
		SELECT * FROM unnest($1::bigint[], $2::bigint[], $3::bigint[])
		RETURNING seq, order_id, ordered_menu_id, quantity
	`

	rows, err := r.conn.Query(ctx, sql, orderIDs, orderedMenuIDs, quantities)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert order line items: %w", err)
	}

	inserted, err := collect(rows)
	if err != nil {
		return nil, err
	}

	// Each line item owns its own snapshot, so the snapshot id identifies the line.
	snapshots := make(map[int64]orderlineitem.OrderLineItem, len(items))
	for _, item := range items {
		snapshots[item.OrderedMenuID] = item
	}
	for i := range inserted {
		if item, ok := snapshots[inserted[i].OrderedMenuID]; ok {
			inserted[i].OrderedMenu = item.OrderedMenu
		}
	}

	return inserted, nil
}

// FindByOrderIDs retrieves the line items of the given orders.
func (r *PostgresOrderLineItemRepository) FindByOrderIDs(
	ctx context.Context,
	orderIDs []int64,
) ([]orderlineitem.OrderLineItem, error) {
	if len(orderIDs) == 0 {
		return []orderlineitem.OrderLineItem{}, nil
	}

	sql, args, err := r.sb.
		Select("seq", "order_id", "ordered_menu_id", "quantity").
		From("order_line_item").
		Where(sq.Eq{"order_id": orderIDs}).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order line items: %w", err)
	}

	return collect(rows)
}

func collect(rows pgx.Rows) ([]orderlineitem.OrderLineItem, error) {
	dals, err := pgx.CollectRows(rows, pgx.RowToStructByName[OrderLineItemDal])
	if err != nil {
		return nil, fmt.Errorf("failed to scan order line items: %w", err)
	}

	result := make([]orderlineitem.OrderLineItem, 0, len(dals))
	for i := range dals {
		result = append(result, dals[i].ToModel())
	}

	return result, nil
}
