package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/kitchenpos/internal/dal/postgres"
	"github.com/corray333/kitchenpos/internal/service/models/menu"
	"github.com/corray333/kitchenpos/internal/service/models/quantity"
	"github.com/jackc/pgx/v5"
)

// MenuProductDal represents menu product data access layer model.
type MenuProductDal struct {
	Seq       int64 `db:"seq"`
	MenuId    int64 `db:"menu_id"`
	ProductId int64 `db:"product_id"`
	Quantity  int64 `db:"quantity"`
}

// ToModel converts MenuProductDal to service layer MenuProduct model.
func (mp *MenuProductDal) ToModel() menu.MenuProduct {
	return menu.MenuProduct{
		Seq:       mp.Seq,
		MenuID:    mp.MenuId,
		ProductID: mp.ProductId,
		Quantity:  quantity.Quantity(mp.Quantity),
	}
}

// PostgresMenuProductRepository represents a Postgres menu product repository.
type PostgresMenuProductRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresMenuProductRepository creates a new Postgres menu product repository.
func NewPostgresMenuProductRepository(conn postgres.Conn) *PostgresMenuProductRepository {
	return &PostgresMenuProductRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// BulkInsert inserts menu products in one statement and returns them with their seq.
func (r *PostgresMenuProductRepository) BulkInsert(
	ctx context.Context,
	items []menu.MenuProduct,
) ([]menu.MenuProduct, error) {
	if len(items) == 0 {
		return []menu.MenuProduct{}, nil
	}

	query := r.sb.
		Insert("menu_product").
		Columns("menu_id", "product_id", "quantity").
		Suffix("RETURNING seq, menu_id, product_id, quantity")
	for _, item := range items {
		query = query.Values(item.MenuID, item.ProductID, item.Quantity.Int64())
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert menu products: %w", err)
	}

	return collect(rows)
}

// FindByMenuIDs retrieves the menu products of the given menus.
func (r *PostgresMenuProductRepository) FindByMenuIDs(
	ctx context.Context,
	menuIDs []int64,
) ([]menu.MenuProduct, error) {
	if len(menuIDs) == 0 {
		return []menu.MenuProduct{}, nil
	}

	sql, args, err := r.sb.
		Select("seq", "menu_id", "product_id", "quantity").
		From("menu_product").
		Where(sq.Eq{"menu_id": menuIDs}).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu products: %w", err)
	}

	return collect(rows)
}

func collect(rows pgx.Rows) ([]menu.MenuProduct, error) {
	dals, err := pgx.CollectRows(rows, pgx.RowToStructByName[MenuProductDal])
	if err != nil {
		return nil, fmt.Errorf("failed to scan menu products: %w", err)
	}

	result := make([]menu.MenuProduct, 0, len(dals))
	for i := range dals {
		result = append(result, dals[i].ToModel())
	}

	return result, nil
}
