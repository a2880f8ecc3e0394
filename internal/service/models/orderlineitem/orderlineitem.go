package orderlineitem

import (
	"github.com/corray333/kitchenpos/internal/service/models/orderedmenu"
	"github.com/corray333/kitchenpos/internal/service/models/quantity"
)

// OrderLineItem represents one ordered menu and its quantity within an order.
type OrderLineItem struct {
	Seq           int64                   `json:"seq"`
	OrderID       int64                   `json:"orderId"`
	OrderedMenuID int64                   `json:"orderedMenuId"`
	OrderedMenu   orderedmenu.OrderedMenu `json:"orderedMenu"`
	Quantity      quantity.Quantity       `json:"quantity"`
}

// MenuID returns the id of the live menu the snapshot was taken from.
func (i OrderLineItem) MenuID() int64 {
	return i.OrderedMenu.MenuID
}
