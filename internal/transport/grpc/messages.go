package grpctransport

import (
	"encoding/json"
	"time"

	"github.com/corray333/kitchenpos/internal/service/models/order"
	"github.com/corray333/kitchenpos/internal/service/models/product"
)

type ListOrdersRequest struct{}

type ListOrdersResponse struct {
	Orders []Order `json:"orders"`
}

type ChangeOrderStatusRequest struct {
	ID          int64  `json:"id"`
	OrderStatus string `json:"orderStatus"`
}

type ChangeOrderStatusResponse struct {
	Order Order `json:"order"`
}

type ListProductsRequest struct{}

type ListProductsResponse struct {
	Products []Product `json:"products"`
}

type Product struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Price json.Number `json:"price"`
}

type OrderLineItem struct {
	Seq      int64       `json:"seq"`
	OrderID  int64       `json:"orderId"`
	MenuID   int64       `json:"menuId"`
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	Quantity int64       `json:"quantity"`
}

type Order struct {
	ID             int64           `json:"id"`
	OrderTableID   int64           `json:"orderTableId"`
	OrderStatus    string          `json:"orderStatus"`
	OrderedTime    time.Time       `json:"orderedTime"`
	OrderLineItems []OrderLineItem `json:"orderLineItems"`
}

func orderToMessage(o order.Order) Order {
	msg := Order{
		ID:             o.ID,
		OrderTableID:   o.OrderTableID,
		OrderStatus:    o.OrderStatus.String(),
		OrderedTime:    o.OrderedTime,
		OrderLineItems: make([]OrderLineItem, 0, len(o.OrderLineItems)),
	}
	for _, item := range o.OrderLineItems {
		msg.OrderLineItems = append(msg.OrderLineItems, OrderLineItem{
			Seq:      item.Seq,
			OrderID:  item.OrderID,
			MenuID:   item.MenuID(),
			Name:     item.OrderedMenu.Name,
			Price:    json.Number(item.OrderedMenu.Price.String()),
			Quantity: item.Quantity.Int64(),
		})
	}

	return msg
}

func productToMessage(p product.Product) Product {
	return Product{
		ID:    p.ID,
		Name:  p.Name,
		Price: json.Number(p.Price.String()),
	}
}
