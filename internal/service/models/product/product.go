package product

import (
	"github.com/corray333/kitchenpos/internal/service/models/price"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item in the catalog.
type Product struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// New builds a product, rejecting a missing or negative price.
func New(name string, p *decimal.Decimal) (Product, error) {
	validPrice, err := price.Parse(p)
	if err != nil {
		return Product{}, err
	}

	return Product{
		Name:  name,
		Price: validPrice,
	}, nil
}
