package iproductrepo

import (
	"context"

	"github.com/corray333/kitchenpos/internal/service/models/product"
)

// IProductRepository is an interface for product repository.
type IProductRepository interface {
	Insert(ctx context.Context, p product.Product) (product.Product, error)
	// FindByIDs returns the products that exist among ids, in id order.
	FindByIDs(ctx context.Context, ids []int64) ([]product.Product, error)
	FindAll(ctx context.Context) ([]product.Product, error)
}
