package quantity

import (
	"github.com/corray333/kitchenpos/internal/service/errs"
)

// Quantity is a positive count of menus or products.
type Quantity int64

// New validates v and returns it as a Quantity.
func New(v int64) (Quantity, error) {
	if v <= 0 {
		return 0, errs.Validation("quantity must be positive: %d", v)
	}

	return Quantity(v), nil
}

func (q Quantity) Int64() int64 {
	return int64(q)
}
