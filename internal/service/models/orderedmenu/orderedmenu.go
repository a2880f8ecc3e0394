package orderedmenu

import (
	"github.com/corray333/kitchenpos/internal/service/models/menu"
	"github.com/shopspring/decimal"
)

// OrderedMenu is a frozen copy of a menu's name and price taken when it was ordered.
// It is written once and never updated, so later menu edits do not reach past orders.
type OrderedMenu struct {
	ID     int64           `json:"id"`
	MenuID int64           `json:"menuId"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

// FromMenu snapshots m.
func FromMenu(m menu.Menu) OrderedMenu {
	return OrderedMenu{
		MenuID: m.ID,
		Name:   m.Name,
		Price:  m.Price,
	}
}
