package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/kitchenpos/internal/dal/postgres"
	"github.com/corray333/kitchenpos/internal/service/models/order"
	"github.com/corray333/kitchenpos/internal/service/models/orderaudit"
	"github.com/jackc/pgx/v5"
)

// OrderAuditDal represents order audit data access layer model.
type OrderAuditDal struct {
	Id           int64     `db:"id"`
	MessageId    string    `db:"message_id"`
	EventType    string    `db:"event_type"`
	OrderId      int64     `db:"order_id"`
	OrderTableId int64     `db:"order_table_id"`
	OrderStatus  string    `db:"order_status"`
	OccurredAt   time.Time `db:"occurred_at"`
	RecordedAt   time.Time `db:"recorded_at"`
}

// ToModel converts OrderAuditDal to service layer Entry model.
func (a *OrderAuditDal) ToModel() (orderaudit.Entry, error) {
	status, err := order.ParseStatus(a.OrderStatus)
	if err != nil {
		return orderaudit.Entry{}, fmt.Errorf("audit entry %d has unknown status: %w", a.Id, err)
	}

	return orderaudit.Entry{
		ID:           a.Id,
		MessageID:    a.MessageId,
		EventType:    a.EventType,
		OrderID:      a.OrderId,
		OrderTableID: a.OrderTableId,
		OrderStatus:  status,
		OccurredAt:   a.OccurredAt,
		RecordedAt:   a.RecordedAt,
	}, nil
}

// PostgresOrderAuditRepository represents a Postgres order audit repository.
type PostgresOrderAuditRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderAuditRepository creates a new Postgres order audit repository.
func NewPostgresOrderAuditRepository(conn postgres.Conn) *PostgresOrderAuditRepository {
	return &PostgresOrderAuditRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert stores e unless its message id was already recorded.
func (r *PostgresOrderAuditRepository) Insert(ctx context.Context, e orderaudit.Entry) (bool, error) {
	sql, args, err := r.sb.
		Insert("order_audit").
		Columns(
			"message_id",
			"event_type",
			"order_id",
			"order_table_id",
			"order_status",
			"occurred_at",
			"recorded_at",
		).
		Values(
			e.MessageID,
			e.EventType,
			e.OrderID,
			e.OrderTableID,
			e.OrderStatus.String(),
			e.OccurredAt,
			e.RecordedAt,
		).
		Suffix("ON CONFLICT (message_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build insert query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("failed to insert order audit entry: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// FindByOrderID retrieves the audit trail of one order.
func (r *PostgresOrderAuditRepository) FindByOrderID(ctx context.Context, orderID int64) ([]orderaudit.Entry, error) {
	sql, args, err := r.sb.
		Select(
			"id",
			"message_id",
			"event_type",
			"order_id",
			"order_table_id",
			"order_status",
			"occurred_at",
			"recorded_at",
		).
		From("order_audit").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("occurred_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order audit entries: %w", err)
	}

	dals, err := pgx.CollectRows(rows, pgx.RowToStructByName[OrderAuditDal])
	if err != nil {
		return nil, fmt.Errorf("failed to collect order audit entries: %w", err)
	}

	entries := make([]orderaudit.Entry, 0, len(dals))
	for _, dal := range dals {
		entry, err := dal.ToModel()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
