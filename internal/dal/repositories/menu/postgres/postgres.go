package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/kitchenpos/internal/dal/postgres"
	"github.com/corray333/kitchenpos/internal/service/models/menu"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// MenuDal represents menu data access layer model.
type MenuDal struct {
	Id          int64           `db:"id"`
	Name        string          `db:"name"`
	Price       decimal.Decimal `db:"price"`
	MenuGroupId int64           `db:"menu_group_id"`
}

// ToModel converts MenuDal to service layer Menu model.
func (m *MenuDal) ToModel() menu.Menu {
	return menu.Menu{
		ID:           m.Id,
		Name:         m.Name,
		Price:        m.Price,
		MenuGroupID:  m.MenuGroupId,
		MenuProducts: []menu.MenuProduct{},
	}
}

// MenuDalFromModel converts service layer Menu model to MenuDal.
func MenuDalFromModel(m menu.Menu) MenuDal {
	return MenuDal{
		Id:          m.ID,
		Name:        m.Name,
		Price:       m.Price,
		MenuGroupId: m.MenuGroupID,
	}
}

// PostgresMenuRepository represents a Postgres menu repository.
type PostgresMenuRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresMenuRepository creates a new Postgres menu repository.
func NewPostgresMenuRepository(conn postgres.Conn) *PostgresMenuRepository {
	return &PostgresMenuRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert stores the menu row. Menu products are inserted separately.
func (r *PostgresMenuRepository) Insert(ctx context.Context, m menu.Menu) (menu.Menu, error) {
	dal := MenuDalFromModel(m)

	sql, args, err := r.sb.
		Insert("menu").
		Columns("name", "price", "menu_group_id").
		Values(dal.Name, dal.Price, dal.MenuGroupId).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return menu.Menu{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&m.ID); err != nil {
		return menu.Menu{}, fmt.Errorf("failed to insert menu: %w", err)
	}

	return m, nil
}

// FindByID retrieves a menu or nil when it does not exist.
func (r *PostgresMenuRepository) FindByID(ctx context.Context, id int64) (*menu.Menu, error) {
	sql, args, err := r.selectQuery().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu: %w", err)
	}

	dal, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[MenuDal])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan menu: %w", err)
	}

	m := dal.ToModel()

	return &m, nil
}

// FindAll retrieves every menu.
func (r *PostgresMenuRepository) FindAll(ctx context.Context) ([]menu.Menu, error) {
	sql, args, err := r.selectQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query menus: %w", err)
	}

	dals, err := pgx.CollectRows(rows, pgx.RowToStructByName[MenuDal])
	if err != nil {
		return nil, fmt.Errorf("failed to scan menus: %w", err)
	}

	result := make([]menu.Menu, 0, len(dals))
	for i := range dals {
		result = append(result, dals[i].ToModel())
	}

	return result, nil
}

// Update overwrites name and price of an existing menu.
func (r *PostgresMenuRepository) Update(ctx context.Context, m menu.Menu) error {
	sql, args, err := r.sb.
		Update("menu").
		Set("name", m.Name).
		Set("price", m.Price).
		Where(sq.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to update menu: %w", err)
	}

	return nil
}

func (r *PostgresMenuRepository) selectQuery() sq.SelectBuilder {
	return r.sb.Select("id", "name", "price", "menu_group_id").From("menu").OrderBy("id")
}
