package order

import (
	"encoding/json"
	"time"
)

// View is the external representation of an order, shared by the REST API and published events.
type View struct {
	ID             int64          `json:"id"`
	OrderTableID   int64          `json:"orderTableId"`
	OrderStatus    string         `json:"orderStatus"`
	OrderedTime    time.Time      `json:"orderedTime"`
	OrderLineItems []LineItemView `json:"orderLineItems"`
}

type LineItemView struct {
	Seq         int64           `json:"seq"`
	OrderID     int64           `json:"orderId"`
	MenuID      int64           `json:"menuId"`
	Quantity    int64           `json:"quantity"`
	OrderedMenu OrderedMenuView `json:"orderedMenu"`
}

type OrderedMenuView struct {
	ID     int64       `json:"id"`
	MenuID int64       `json:"menuId"`
	Name   string      `json:"name"`
	Price  json.Number `json:"price"`
}

// View renders o with prices as JSON numbers.
func (o Order) View() View {
	v := View{
		ID:             o.ID,
		OrderTableID:   o.OrderTableID,
		OrderStatus:    o.OrderStatus.String(),
		OrderedTime:    o.OrderedTime,
		OrderLineItems: make([]LineItemView, 0, len(o.OrderLineItems)),
	}
	for _, item := range o.OrderLineItems {
		v.OrderLineItems = append(v.OrderLineItems, LineItemView{
			Seq:      item.Seq,
			OrderID:  item.OrderID,
			MenuID:   item.MenuID(),
			Quantity: item.Quantity.Int64(),
			OrderedMenu: OrderedMenuView{
				ID:     item.OrderedMenu.ID,
				MenuID: item.OrderedMenu.MenuID,
				Name:   item.OrderedMenu.Name,
				Price:  json.Number(item.OrderedMenu.Price.String()),
			},
		})
	}

	return v
}
