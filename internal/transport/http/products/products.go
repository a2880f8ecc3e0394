package products

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/corray333/kitchenpos/internal/service/models/product"
	"github.com/corray333/kitchenpos/internal/transport/http/request"
	"github.com/corray333/kitchenpos/internal/transport/http/response"
	"github.com/shopspring/decimal"
)

// service is an interface for the service layer.
type service interface {
	Create(ctx context.Context, name string, price *decimal.Decimal) (product.Product, error)
	List(ctx context.Context) ([]product.Product, error)
}

type createProductRequest struct {
	Name  string           `json:"name"  validate:"required,max=255"`
	Price *decimal.Decimal `json:"price"`
}

type productResponse struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Price json.Number `json:"price"`
}

func toResponse(p product.Product) productResponse {
	return productResponse{
		ID:    p.ID,
		Name:  p.Name,
		Price: response.Price(p.Price),
	}
}

// Create handles POST /api/products.
func Create(w http.ResponseWriter, r *http.Request, service service) {
	req := createProductRequest{}
	if err := request.Decode(r, &req); err != nil {
		response.Error(w, r, err, "Error decoding request body for product creation")

		return
	}

	p, err := service.Create(r.Context(), req.Name, req.Price)
	if err != nil {
		response.Error(w, r, err, "Error creating product")

		return
	}

	response.Created(w, "/api/products/"+strconv.FormatInt(p.ID, 10), toResponse(p))
}

// List handles GET /api/products.
func List(w http.ResponseWriter, r *http.Request, service service) {
	products, err := service.List(r.Context())
	if err != nil {
		response.Error(w, r, err, "Error listing products")

		return
	}

	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, toResponse(p))
	}

	response.JSON(w, http.StatusOK, resp)
}
