package price

import (
	"github.com/corray333/kitchenpos/internal/service/errs"
	"github.com/shopspring/decimal"
)

const scale = 2

// upperBound is the first value that no longer fits NUMERIC(19,2).
var upperBound = decimal.New(1, 17)

// Parse validates a requested price. A nil price means the field was missing or null.
func Parse(p *decimal.Decimal) (decimal.Decimal, error) {
	if p == nil {
		return decimal.Decimal{}, errs.Validation("price must not be null")
	}
	if p.IsNegative() {
		return decimal.Decimal{}, errs.Validation("price must not be negative: %s", p.String())
	}
	if !p.Equal(p.Truncate(scale)) {
		return decimal.Decimal{}, errs.Validation("price must have at most %d decimal places: %s", scale, p.String())
	}
	if p.GreaterThanOrEqual(upperBound) {
		return decimal.Decimal{}, errs.Validation("price is out of range: %s", p.String())
	}

	return *p, nil
}
