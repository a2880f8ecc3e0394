package productsvc

import (
	"context"

	"github.com/corray333/kitchenpos/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/kitchenpos/internal/dal/interfaces/iuow"
	"github.com/corray333/kitchenpos/internal/service/models/product"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
)

// ProductService is a service for managing the product catalog.
type ProductService struct {
	uowFactory iuow.Factory
}

func (s *ProductService) newUOW() unitOfWork {
	return s.uowFactory.New()
}

type unitOfWork interface {
	ProductRepository() iproductrepo.IProductRepository
}

// option is a function that configures the ProductService.
type option func(*ProductService)

// MustNewProductService creates a new ProductService.
func MustNewProductService(opts ...option) *ProductService {
	s := &ProductService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.uowFactory == nil {
		panic("productsvc: unit of work factory is required")
	}

	return s
}

// WithUnitOfWorkFactory sets the unit of work factory for the ProductService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(f iuow.Factory) option {
	return func(s *ProductService) {
		s.uowFactory = f
	}
}

// Create stores a product after validating its price.
func (s *ProductService) Create(ctx context.Context, name string, price *decimal.Decimal) (product.Product, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "ProductService.Create")
	defer span.End()

	p, err := product.New(name, price)
	if err != nil {
		return product.Product{}, err
	}

	return s.newUOW().ProductRepository().Insert(ctx, p)
}

// List returns every product.
func (s *ProductService) List(ctx context.Context) ([]product.Product, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "ProductService.List")
	defer span.End()

	return s.newUOW().ProductRepository().FindAll(ctx)
}
