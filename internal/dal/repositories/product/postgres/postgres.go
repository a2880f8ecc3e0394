package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/kitchenpos/internal/dal/postgres"
	"github.com/corray333/kitchenpos/internal/service/models/product"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ProductDal represents product data access layer model.
type ProductDal struct {
	Id    int64           `db:"id"`
	Name  string          `db:"name"`
	Price decimal.Decimal `db:"price"`
}

// ToModel converts ProductDal to service layer Product model.
func (p *ProductDal) ToModel() product.Product {
	return product.Product{
		ID:    p.Id,
		Name:  p.Name,
		Price: p.Price,
	}
}

// ProductDalFromModel converts service layer Product model to ProductDal.
func ProductDalFromModel(p product.Product) ProductDal {
	return ProductDal{
		Id:    p.ID,
		Name:  p.Name,
		Price: p.Price,
	}
}

// PostgresProductRepository represents a Postgres product repository.
type PostgresProductRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresProductRepository creates a new Postgres product repository.
func NewPostgresProductRepository(conn postgres.Conn) *PostgresProductRepository {
	return &PostgresProductRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert stores a product and returns it with its id.
func (r *PostgresProductRepository) Insert(ctx context.Context, p product.Product) (product.Product, error) {
	dal := ProductDalFromModel(p)

	sql, args, err := r.sb.
		Insert("product").
		Columns("name", "price").
		Values(dal.Name, dal.Price).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&dal.Id); err != nil {
		return product.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}

	return dal.ToModel(), nil
}

// FindByIDs retrieves the products among ids.
func (r *PostgresProductRepository) FindByIDs(ctx context.Context, ids []int64) ([]product.Product, error) {
	if len(ids) == 0 {
		return []product.Product{}, nil
	}

	return r.query(ctx, r.selectQuery().Where(sq.Eq{"id": ids}))
}

// FindAll retrieves every product.
func (r *PostgresProductRepository) FindAll(ctx context.Context) ([]product.Product, error) {
	return r.query(ctx, r.selectQuery())
}

func (r *PostgresProductRepository) selectQuery() sq.SelectBuilder {
	return r.sb.Select("id", "name", "price").From("product").OrderBy("id")
}

func (r *PostgresProductRepository) query(ctx context.Context, query sq.SelectBuilder) ([]product.Product, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	dals, err := pgx.CollectRows(rows, pgx.RowToStructByName[ProductDal])
	if err != nil {
		return nil, fmt.Errorf("failed to scan products: %w", err)
	}

	result := make([]product.Product, 0, len(dals))
	for i := range dals {
		result = append(result, dals[i].ToModel())
	}

	return result, nil
}
