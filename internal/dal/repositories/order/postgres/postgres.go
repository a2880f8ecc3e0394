package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/kitchenpos/internal/dal/postgres"
	"github.com/corray333/kitchenpos/internal/service/models/order"
	"github.com/corray333/kitchenpos/internal/service/models/orderlineitem"
	"github.com/jackc/pgx/v5"
)

// OrderDal represents order data access layer model.
type OrderDal struct {
	Id           int64     `db:"id"`
	OrderTableId int64     `db:"order_table_id"`
	OrderStatus  string    `db:"order_status"`
	OrderedTime  time.Time `db:"ordered_time"`
}

// ToModel converts OrderDal to service layer Order model.
func (o *OrderDal) ToModel() (order.Order, error) {
	status, err := order.ParseStatus(o.OrderStatus)
	if err != nil {
		return order.Order{}, fmt.Errorf("order %d has unknown status: %w", o.Id, err)
	}

	return order.Order{
		ID:             o.Id,
		OrderTableID:   o.OrderTableId,
		OrderStatus:    status,
		OrderedTime:    o.OrderedTime,
		OrderLineItems: []orderlineitem.OrderLineItem{}, // Will be populated separately
	}, nil
}

// OrderDalFromModel converts service layer Order model to OrderDal.
func OrderDalFromModel(o order.Order) OrderDal {
	return OrderDal{
		Id:           o.ID,
		OrderTableId: o.OrderTableID,
		OrderStatus:  o.OrderStatus.String(),
		OrderedTime:  o.OrderedTime,
	}
}

// PostgresOrderRepository represents a Postgres order repository.
type PostgresOrderRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderRepository creates a new Postgres order repository.
func NewPostgresOrderRepository(conn postgres.Conn) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert stores the order row. Line items are inserted separately.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	dal := OrderDalFromModel(o)

	sql, args, err := r.sb.
		Insert("orders").
		Columns("order_table_id", "order_status", "ordered_time").
		Values(dal.OrderTableId, dal.OrderStatus, dal.OrderedTime).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&o.ID); err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	return o, nil
}

// FindByID retrieves an order or nil when it does not exist.
func (r *PostgresOrderRepository) FindByID(ctx context.Context, id int64) (*order.Order, error) {
	orders, err := r.query(ctx, r.selectQuery().Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}

	return &orders[0], nil
}

// FindAll retrieves every order.
func (r *PostgresOrderRepository) FindAll(ctx context.Context) ([]order.Order, error) {
	return r.query(ctx, r.selectQuery())
}

// UpdateStatusGuard sets the status only while the order is not completed.
func (r *PostgresOrderRepository) UpdateStatusGuard(
	ctx context.Context,
	id int64,
	status order.Status,
) (int64, error) {
	sql, args, err := r.sb.
		Update("orders").
		Set("order_status", status.String()).
		Where(sq.Eq{"id": id}).
		Where(sq.NotEq{"order_status": order.StatusCompletion.String()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update order status: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ExistsByTableIDsAndStatuses reports whether any of the tables has an order in one of statuses.
func (r *PostgresOrderRepository) ExistsByTableIDsAndStatuses(
	ctx context.Context,
	tableIDs []int64,
	statuses []order.Status,
) (bool, error) {
	if len(tableIDs) == 0 || len(statuses) == 0 {
		return false, nil
	}

	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}

	sql, args, err := r.sb.
		Select("1").
		Prefix("SELECT EXISTS (").
		From("orders").
		Where(sq.Eq{"order_table_id": tableIDs}).
		Where(sq.Eq{"order_status": names}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	var exists bool
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check orders: %w", err)
	}

	return exists, nil
}

func (r *PostgresOrderRepository) selectQuery() sq.SelectBuilder {
	return r.sb.
		Select("id", "order_table_id", "order_status", "ordered_time").
		From("orders").
		OrderBy("id")
}

func (r *PostgresOrderRepository) query(ctx context.Context, query sq.SelectBuilder) ([]order.Order, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	dals, err := pgx.CollectRows(rows, pgx.RowToStructByName[OrderDal])
	if err != nil {
		return nil, fmt.Errorf("failed to scan orders: %w", err)
	}

	result := make([]order.Order, 0, len(dals))
	for i := range dals {
		o, err := dals[i].ToModel()
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}

	return result, nil
}
