package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/kitchenpos/internal/dal/postgres"
	"github.com/corray333/kitchenpos/internal/service/models/ordertable"
	"github.com/jackc/pgx/v5"
)

// OrderTableDal represents order table data access layer model.
type OrderTableDal struct {
	Id             int64  `db:"id"`
	TableGroupId   *int64 `db:"table_group_id"`
	NumberOfGuests int    `db:"number_of_guests"`
	Empty          bool   `db:"empty"`
}

// ToModel converts OrderTableDal to service layer OrderTable model.
func (t *OrderTableDal) ToModel() ordertable.OrderTable {
	return ordertable.OrderTable{
		ID:             t.Id,
		TableGroupID:   t.TableGroupId,
		NumberOfGuests: t.NumberOfGuests,
		Empty:          t.Empty,
	}
}

// PostgresOrderTableRepository represents a Postgres order table repository.
type PostgresOrderTableRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderTableRepository creates a new Postgres order table repository.
func NewPostgresOrderTableRepository(conn postgres.Conn) *PostgresOrderTableRepository {
	return &PostgresOrderTableRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert stores a table and returns it with its id.
func (r *PostgresOrderTableRepository) Insert(
	ctx context.Context,
	t ordertable.OrderTable,
) (ordertable.OrderTable, error) {
	sql, args, err := r.sb.
		Insert("order_table").
		Columns("table_group_id", "number_of_guests", "empty").
		Values(t.TableGroupID, t.NumberOfGuests, t.Empty).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return ordertable.OrderTable{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&t.ID); err != nil {
		return ordertable.OrderTable{}, fmt.Errorf("failed to insert order table: %w", err)
	}

	return t, nil
}

// FindByID retrieves a table or nil when it does not exist.
func (r *PostgresOrderTableRepository) FindByID(ctx context.Context, id int64) (*ordertable.OrderTable, error) {
	tables, err := r.query(ctx, r.selectQuery().Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, nil
	}

	return &tables[0], nil
}

// FindByIDs retrieves the tables among ids.
func (r *PostgresOrderTableRepository) FindByIDs(ctx context.Context, ids []int64) ([]ordertable.OrderTable, error) {
	if len(ids) == 0 {
		return []ordertable.OrderTable{}, nil
	}

	return r.query(ctx, r.selectQuery().Where(sq.Eq{"id": ids}))
}

// FindAll retrieves every table.
func (r *PostgresOrderTableRepository) FindAll(ctx context.Context) ([]ordertable.OrderTable, error) {
	return r.query(ctx, r.selectQuery())
}

// FindByTableGroupID retrieves the tables bound to a table group.
func (r *PostgresOrderTableRepository) FindByTableGroupID(
	ctx context.Context,
	tableGroupID int64,
) ([]ordertable.OrderTable, error) {
	return r.query(ctx, r.selectQuery().Where(sq.Eq{"table_group_id": tableGroupID}))
}

// Update overwrites the mutable columns of a table.
func (r *PostgresOrderTableRepository) Update(ctx context.Context, t ordertable.OrderTable) error {
	sql, args, err := r.sb.
		Update("order_table").
		Set("table_group_id", t.TableGroupID).
		Set("number_of_guests", t.NumberOfGuests).
		Set("empty", t.Empty).
		Where(sq.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update order table: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update order table %d: %w", t.ID, pgx.ErrNoRows)
	}

	return nil
}

func (r *PostgresOrderTableRepository) selectQuery() sq.SelectBuilder {
	return r.sb.
		Select("id", "table_group_id", "number_of_guests", "empty").
		From("order_table").
		OrderBy("id")
}

func (r *PostgresOrderTableRepository) query(
	ctx context.Context,
	query sq.SelectBuilder,
) ([]ordertable.OrderTable, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order tables: %w", err)
	}

	dals, err := pgx.CollectRows(rows, pgx.RowToStructByName[OrderTableDal])
	if err != nil {
		return nil, fmt.Errorf("failed to scan order tables: %w", err)
	}

	result := make([]ordertable.OrderTable, 0, len(dals))
	for i := range dals {
		result = append(result, dals[i].ToModel())
	}

	return result, nil
}
