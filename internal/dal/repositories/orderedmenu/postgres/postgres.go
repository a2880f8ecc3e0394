package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/kitchenpos/internal/dal/postgres"
	"github.com/corray333/kitchenpos/internal/service/models/orderedmenu"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// OrderedMenuDal represents ordered menu data access layer model.
type OrderedMenuDal struct {
	Id     int64           `db:"id"`
	MenuId int64           `db:"menu_id"`
	Name   string          `db:"name"`
	Price  decimal.Decimal `db:"price"`
}

// ToModel converts OrderedMenuDal to service layer OrderedMenu model.
func (om *OrderedMenuDal) ToModel() orderedmenu.OrderedMenu {
	return orderedmenu.OrderedMenu{
		ID:     om.Id,
		MenuID: om.MenuId,
		Name:   om.Name,
		Price:  om.Price,
	}
}

// PostgresOrderedMenuRepository represents a Postgres ordered menu repository.
// It never updates rows.
type PostgresOrderedMenuRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderedMenuRepository creates a new Postgres ordered menu repository.
func NewPostgresOrderedMenuRepository(conn postgres.Conn) *PostgresOrderedMenuRepository {
	return &PostgresOrderedMenuRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert stores a snapshot and returns it with its id.
func (r *PostgresOrderedMenuRepository) Insert(
	ctx context.Context,
	om orderedmenu.OrderedMenu,
) (orderedmenu.OrderedMenu, error) {
	sql, args, err := r.sb.
		Insert("ordered_menu").
		Columns("menu_id", "name", "price").
		Values(om.MenuID, om.Name, om.Price).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return orderedmenu.OrderedMenu{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&om.ID); err != nil {
		return orderedmenu.OrderedMenu{}, fmt.Errorf("failed to insert ordered menu: %w", err)
	}

	return om, nil
}

// FindByIDs retrieves the snapshots among ids.
func (r *PostgresOrderedMenuRepository) FindByIDs(
	ctx context.Context,
	ids []int64,
) ([]orderedmenu.OrderedMenu, error) {
	if len(ids) == 0 {
		return []orderedmenu.OrderedMenu{}, nil
	}

	sql, args, err := r.sb.
		Select("id", "menu_id", "name", "price").
		From("ordered_menu").
		Where(sq.Eq{"id": ids}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ordered menus: %w", err)
	}

	dals, err := pgx.CollectRows(rows, pgx.RowToStructByName[OrderedMenuDal])
	if err != nil {
		return nil, fmt.Errorf("failed to scan ordered menus: %w", err)
	}

	result := make([]orderedmenu.OrderedMenu, 0, len(dals))
	for i := range dals {
		result = append(result, dals[i].ToModel())
	}

	return result, nil
}
