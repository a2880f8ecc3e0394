package tables

import (
	"context"
	"net/http"
	"strconv"

	"github.com/corray333/kitchenpos/internal/service/models/ordertable"
	"github.com/corray333/kitchenpos/internal/transport/http/request"
	"github.com/corray333/kitchenpos/internal/transport/http/response"
)

type service interface {
	Create(ctx context.Context, numberOfGuests int, empty bool) (ordertable.OrderTable, error)
	List(ctx context.Context) ([]ordertable.OrderTable, error)
	ChangeEmpty(ctx context.Context, id int64, empty bool) (ordertable.OrderTable, error)
	ChangeNumberOfGuests(ctx context.Context, id int64, numberOfGuests int) (ordertable.OrderTable, error)
}

type createTableRequest struct {
	NumberOfGuests int  `json:"numberOfGuests"`
	Empty          bool `json:"empty"`
}

type changeEmptyRequest struct {
	Empty *bool `json:"empty" validate:"required"`
}

type changeNumberOfGuestsRequest struct {
	NumberOfGuests *int `json:"numberOfGuests" validate:"required"`
}

// Create handles POST /api/tables.
func Create(w http.ResponseWriter, r *http.Request, service service) {
	req := createTableRequest{}
	if err := request.Decode(r, &req); err != nil {
		response.Error(w, r, err, "Error decoding request body for table creation")

		return
	}

	t, err := service.Create(r.Context(), req.NumberOfGuests, req.Empty)
	if err != nil {
		response.Error(w, r, err, "Error creating table")

		return
	}

	response.Created(w, "/api/tables/"+strconv.FormatInt(t.ID, 10), t)
}

// List handles GET /api/tables.
func List(w http.ResponseWriter, r *http.Request, service service) {
	tables, err := service.List(r.Context())
	if err != nil {
		response.Error(w, r, err, "Error listing tables")

		return
	}

	response.JSON(w, http.StatusOK, tables)
}

// ChangeEmpty handles PUT /api/tables/{id}/empty.
func ChangeEmpty(w http.ResponseWriter, r *http.Request, service service) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.Error(w, r, err, "Error parsing table id")

		return
	}

	req := changeEmptyRequest{}
	if err := request.Decode(r, &req); err != nil {
		response.Error(w, r, err, "Error decoding request body for table empty change")

		return
	}

	t, err := service.ChangeEmpty(r.Context(), id, *req.Empty)
	if err != nil {
		response.Error(w, r, err, "Error changing table empty flag")

		return
	}

	response.JSON(w, http.StatusOK, t)
}

// ChangeNumberOfGuests handles PUT /api/tables/{id}/number-of-guests.
func ChangeNumberOfGuests(w http.ResponseWriter, r *http.Request, service service) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.Error(w, r, err, "Error parsing table id")

		return
	}

	req := changeNumberOfGuestsRequest{}
	if err := request.Decode(r, &req); err != nil {
		response.Error(w, r, err, "Error decoding request body for number of guests change")

		return
	}

	t, err := service.ChangeNumberOfGuests(r.Context(), id, *req.NumberOfGuests)
	if err != nil {
		response.Error(w, r, err, "Error changing number of guests")

		return
	}

	response.JSON(w, http.StatusOK, t)
}
