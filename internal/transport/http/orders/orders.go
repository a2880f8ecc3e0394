package orders

import (
	"context"
	"net/http"
	"strconv"

	"github.com/corray333/kitchenpos/internal/service/models/order"
	"github.com/corray333/kitchenpos/internal/service/models/orderaudit"
	"github.com/corray333/kitchenpos/internal/service/services/ordersvc"
	"github.com/corray333/kitchenpos/internal/transport/http/request"
	"github.com/corray333/kitchenpos/internal/transport/http/response"
)

// service is an interface for the service layer.
type service interface {
	Create(ctx context.Context, orderTableID int64, items []ordersvc.LineItemInput) (order.Order, error)
	ChangeStatus(ctx context.Context, id int64, status string) (order.Order, error)
	List(ctx context.Context) ([]order.Order, error)
}

type historyService interface {
	History(ctx context.Context, orderID int64) ([]orderaudit.Entry, error)
}

// lineItemInCreateOrderRequest represents a line item in a create order request.
// Quantity is validated by the service.
type lineItemInCreateOrderRequest struct {
	MenuID   int64 `json:"menuId"`
	Quantity int64 `json:"quantity"`
}

type createOrderRequest struct {
	OrderTableID   int64                          `json:"orderTableId"`
	OrderLineItems []lineItemInCreateOrderRequest `json:"orderLineItems"`
}

func (r *createOrderRequest) toInput() []ordersvc.LineItemInput {
	items := make([]ordersvc.LineItemInput, 0, len(r.OrderLineItems))
	for _, item := range r.OrderLineItems {
		items = append(items, ordersvc.LineItemInput{MenuID: item.MenuID, Quantity: item.Quantity})
	}

	return items
}

type changeStatusRequest struct {
	OrderStatus string `json:"orderStatus" validate:"required"`
}

// Create handles POST /api/orders.
func Create(w http.ResponseWriter, r *http.Request, service service) {
	req := createOrderRequest{}
	if err := request.Decode(r, &req); err != nil {
		response.Error(w, r, err, "Error decoding request body for order creation")

		return
	}

	o, err := service.Create(r.Context(), req.OrderTableID, req.toInput())
	if err != nil {
		response.Error(w, r, err, "Error creating order")

		return
	}

	response.Created(w, "/api/orders/"+strconv.FormatInt(o.ID, 10), o.View())
}

// List handles GET /api/orders.
func List(w http.ResponseWriter, r *http.Request, service service) {
	orders, err := service.List(r.Context())
	if err != nil {
		response.Error(w, r, err, "Error listing orders")

		return
	}

	resp := make([]order.View, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, o.View())
	}

	response.JSON(w, http.StatusOK, resp)
}

// ChangeStatus handles PUT /api/orders/{id}/order-status.
func ChangeStatus(w http.ResponseWriter, r *http.Request, service service) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.Error(w, r, err, "Error parsing order id")

		return
	}

	req := changeStatusRequest{}
	if err := request.Decode(r, &req); err != nil {
		response.Error(w, r, err, "Error decoding request body for order status change")

		return
	}

	o, err := service.ChangeStatus(r.Context(), id, req.OrderStatus)
	if err != nil {
		response.Error(w, r, err, "Error changing order status")

		return
	}

	response.JSON(w, http.StatusOK, o.View())
}

// History handles GET /api/orders/{id}/history.
func History(w http.ResponseWriter, r *http.Request, service historyService) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.Error(w, r, err, "Error parsing order id")

		return
	}

	entries, err := service.History(r.Context(), id)
	if err != nil {
		response.Error(w, r, err, "Error getting order history")

		return
	}

	response.JSON(w, http.StatusOK, entries)
}
