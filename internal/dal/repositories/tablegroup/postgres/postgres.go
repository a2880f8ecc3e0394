package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/kitchenpos/internal/dal/postgres"
	"github.com/corray333/kitchenpos/internal/service/models/ordertable"
	"github.com/corray333/kitchenpos/internal/service/models/tablegroup"
	"github.com/jackc/pgx/v5"
)

// TableGroupDal represents table group data access layer model.
type TableGroupDal struct {
	Id          int64     `db:"id"`
	CreatedDate time.Time `db:"created_date"`
}

// ToModel converts TableGroupDal to service layer TableGroup model.
// Order tables are loaded separately.
func (tg *TableGroupDal) ToModel() tablegroup.TableGroup {
	return tablegroup.TableGroup{
		ID:          tg.Id,
		CreatedDate: tg.CreatedDate,
		OrderTables: []ordertable.OrderTable{},
	}
}

// PostgresTableGroupRepository represents a Postgres table group repository.
type PostgresTableGroupRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresTableGroupRepository creates a new Postgres table group repository.
func NewPostgresTableGroupRepository(conn postgres.Conn) *PostgresTableGroupRepository {
	return &PostgresTableGroupRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert stores the group row and returns it with its id.
func (r *PostgresTableGroupRepository) Insert(
	ctx context.Context,
	tg tablegroup.TableGroup,
) (tablegroup.TableGroup, error) {
	sql, args, err := r.sb.
		Insert("table_group").
		Columns("created_date").
		Values(tg.CreatedDate).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return tablegroup.TableGroup{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&tg.ID); err != nil {
		return tablegroup.TableGroup{}, fmt.Errorf("failed to insert table group: %w", err)
	}

	return tg, nil
}

// FindByID retrieves a group or nil when it does not exist.
func (r *PostgresTableGroupRepository) FindByID(ctx context.Context, id int64) (*tablegroup.TableGroup, error) {
	sql, args, err := r.sb.
		Select("id", "created_date").
		From("table_group").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query table group: %w", err)
	}

	dal, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[TableGroupDal])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan table group: %w", err)
	}

	tg := dal.ToModel()

	return &tg, nil
}

// Delete removes the group row. Tables must be released beforehand.
func (r *PostgresTableGroupRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("table_group").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to delete table group: %w", err)
	}

	return nil
}
