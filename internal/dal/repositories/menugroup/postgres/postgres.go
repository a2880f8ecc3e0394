package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/kitchenpos/internal/dal/postgres"
	"github.com/corray333/kitchenpos/internal/service/models/menugroup"
	"github.com/jackc/pgx/v5"
)

// MenuGroupDal represents menu group data access layer model.
type MenuGroupDal struct {
	Id   int64  `db:"id"`
	Name string `db:"name"`
}

// ToModel converts MenuGroupDal to service layer MenuGroup model.
func (mg *MenuGroupDal) ToModel() menugroup.MenuGroup {
	return menugroup.MenuGroup{
		ID:   mg.Id,
		Name: mg.Name,
	}
}

// PostgresMenuGroupRepository represents a Postgres menu group repository.
type PostgresMenuGroupRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresMenuGroupRepository creates a new Postgres menu group repository.
func NewPostgresMenuGroupRepository(conn postgres.Conn) *PostgresMenuGroupRepository {
	return &PostgresMenuGroupRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert stores a menu group and returns it with its id.
func (r *PostgresMenuGroupRepository) Insert(
	ctx context.Context,
	mg menugroup.MenuGroup,
) (menugroup.MenuGroup, error) {
	sql, args, err := r.sb.
		Insert("menu_group").
		Columns("name").
		Values(mg.Name).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return menugroup.MenuGroup{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&mg.ID); err != nil {
		return menugroup.MenuGroup{}, fmt.Errorf("failed to insert menu group: %w", err)
	}

	return mg, nil
}

// ExistsByID reports whether the menu group exists.
func (r *PostgresMenuGroupRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	sql, args, err := r.sb.
		Select("1").
		Prefix("SELECT EXISTS (").
		From("menu_group").
		Where(sq.Eq{"id": id}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	var exists bool
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check menu group: %w", err)
	}

	return exists, nil
}

// FindAll retrieves every menu group.
func (r *PostgresMenuGroupRepository) FindAll(ctx context.Context) ([]menugroup.MenuGroup, error) {
	sql, args, err := r.sb.Select("id", "name").From("menu_group").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu groups: %w", err)
	}

	dals, err := pgx.CollectRows(rows, pgx.RowToStructByName[MenuGroupDal])
	if err != nil {
		return nil, fmt.Errorf("failed to scan menu groups: %w", err)
	}

	result := make([]menugroup.MenuGroup, 0, len(dals))
	for i := range dals {
		result = append(result, dals[i].ToModel())
	}

	return result, nil
}
