package menu

import (
	"github.com/corray333/kitchenpos/internal/service/errs"
	"github.com/corray333/kitchenpos/internal/service/models/product"
	"github.com/corray333/kitchenpos/internal/service/models/quantity"
	"github.com/shopspring/decimal"
)

// Menu represents a priced set of products offered under a menu group.
type Menu struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	MenuGroupID  int64           `json:"menuGroupId"`
	MenuProducts []MenuProduct   `json:"menuProducts"`
}

// MenuProduct is one product line of a menu.
type MenuProduct struct {
	Seq       int64             `json:"seq"`
	MenuID    int64             `json:"menuId"`
	ProductID int64             `json:"productId"`
	Quantity  quantity.Quantity `json:"quantity"`
}

// ProductIDs returns the product ids referenced by the menu, in line order.
func (m Menu) ProductIDs() []int64 {
	ids := make([]int64, 0, len(m.MenuProducts))
	for _, mp := range m.MenuProducts {
		ids = append(ids, mp.ProductID)
	}

	return ids
}

// ValidatePrice checks that the menu is not priced above the sum of its products.
// products must contain every product the menu references.
func (m Menu) ValidatePrice(products map[int64]product.Product) error {
	sum := decimal.Zero
	for _, mp := range m.MenuProducts {
		p, ok := products[mp.ProductID]
		if !ok {
			return errs.NotFound("product %d does not exist", mp.ProductID)
		}
		sum = sum.Add(p.Price.Mul(decimal.NewFromInt(mp.Quantity.Int64())))
	}

	if m.Price.GreaterThan(sum) {
		return errs.Validation(
			"menu price %s must not exceed the sum of its product prices %s",
			m.Price.String(),
			sum.String(),
		)
	}

	return nil
}
