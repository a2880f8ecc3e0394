package menus

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/corray333/kitchenpos/internal/service/models/menu"
	"github.com/corray333/kitchenpos/internal/service/services/menusvc"
	"github.com/corray333/kitchenpos/internal/transport/http/request"
	"github.com/corray333/kitchenpos/internal/transport/http/response"
	"github.com/shopspring/decimal"
)

type service interface {
	Create(ctx context.Context, in menusvc.CreateInput) (menu.Menu, error)
	List(ctx context.Context) ([]menu.Menu, error)
	Update(ctx context.Context, id int64, in menusvc.UpdateInput) (menu.Menu, error)
}

type menuProductInCreateMenuRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

type createMenuRequest struct {
	Name         string                           `json:"name"         validate:"required,max=255"`
	Price        *decimal.Decimal                 `json:"price"`
	MenuGroupID  int64                            `json:"menuGroupId"`
	MenuProducts []menuProductInCreateMenuRequest `json:"menuProducts"`
}

func (r *createMenuRequest) toInput() menusvc.CreateInput {
	in := menusvc.CreateInput{
		Name:         r.Name,
		Price:        r.Price,
		MenuGroupID:  r.MenuGroupID,
		MenuProducts: make([]menusvc.MenuProductInput, 0, len(r.MenuProducts)),
	}
	for _, mp := range r.MenuProducts {
		in.MenuProducts = append(in.MenuProducts, menusvc.MenuProductInput{
			ProductID: mp.ProductID,
			Quantity:  mp.Quantity,
		})
	}

	return in
}

type updateMenuRequest struct {
	Name  *string          `json:"name"  validate:"omitnil,min=1,max=255"`
	Price *decimal.Decimal `json:"price"`
}

type menuProductResponse struct {
	Seq       int64 `json:"seq"`
	MenuID    int64 `json:"menuId"`
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

type menuResponse struct {
	ID           int64                 `json:"id"`
	Name         string                `json:"name"`
	Price        json.Number           `json:"price"`
	MenuGroupID  int64                 `json:"menuGroupId"`
	MenuProducts []menuProductResponse `json:"menuProducts"`
}

func toResponse(m menu.Menu) menuResponse {
	resp := menuResponse{
		ID:           m.ID,
		Name:         m.Name,
		Price:        response.Price(m.Price),
		MenuGroupID:  m.MenuGroupID,
		MenuProducts: make([]menuProductResponse, 0, len(m.MenuProducts)),
	}
	for _, mp := range m.MenuProducts {
		resp.MenuProducts = append(resp.MenuProducts, menuProductResponse{
			Seq:       mp.Seq,
			MenuID:    mp.MenuID,
			ProductID: mp.ProductID,
			Quantity:  mp.Quantity.Int64(),
		})
	}

	return resp
}

// Create handles POST /api/menus.
func Create(w http.ResponseWriter, r *http.Request, service service) {
	req := createMenuRequest{}
	if err := request.Decode(r, &req); err != nil {
		response.Error(w, r, err, "Error decoding request body for menu creation")

		return
	}

	m, err := service.Create(r.Context(), req.toInput())
	if err != nil {
		response.Error(w, r, err, "Error creating menu")

		return
	}

	response.Created(w, "/api/menus/"+strconv.FormatInt(m.ID, 10), toResponse(m))
}

// List handles GET /api/menus.
func List(w http.ResponseWriter, r *http.Request, service service) {
	menus, err := service.List(r.Context())
	if err != nil {
		response.Error(w, r, err, "Error listing menus")

		return
	}

	resp := make([]menuResponse, 0, len(menus))
	for _, m := range menus {
		resp = append(resp, toResponse(m))
	}

	response.JSON(w, http.StatusOK, resp)
}

// Update handles PUT /api/menus/{id}.
func Update(w http.ResponseWriter, r *http.Request, service service) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.Error(w, r, err, "Error parsing menu id")

		return
	}

	req := updateMenuRequest{}
	if err := request.Decode(r, &req); err != nil {
		response.Error(w, r, err, "Error decoding request body for menu update")

		return
	}

	m, err := service.Update(r.Context(), id, menusvc.UpdateInput{Name: req.Name, Price: req.Price})
	if err != nil {
		response.Error(w, r, err, "Error updating menu")

		return
	}

	response.JSON(w, http.StatusOK, toResponse(m))
}
