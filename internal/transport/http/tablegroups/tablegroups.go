package tablegroups

import (
	"context"
	"net/http"
	"strconv"

	"github.com/corray333/kitchenpos/internal/service/models/tablegroup"
	"github.com/corray333/kitchenpos/internal/transport/http/request"
	"github.com/corray333/kitchenpos/internal/transport/http/response"
)

type service interface {
	Group(ctx context.Context, tableIDs []int64) (tablegroup.TableGroup, error)
	Ungroup(ctx context.Context, id int64) error
}

type tableInGroupRequest struct {
	ID int64 `json:"id"`
}

type groupRequest struct {
	OrderTables []tableInGroupRequest `json:"orderTables"`
}

func (r *groupRequest) tableIDs() []int64 {
	ids := make([]int64, 0, len(r.OrderTables))
	for _, t := range r.OrderTables {
		ids = append(ids, t.ID)
	}

	return ids
}

// Group handles POST /api/table-groups.
func Group(w http.ResponseWriter, r *http.Request, service service) {
	req := groupRequest{}
	if err := request.Decode(r, &req); err != nil {
		response.Error(w, r, err, "Error decoding request body for table grouping")

		return
	}

	tg, err := service.Group(r.Context(), req.tableIDs())
	if err != nil {
		response.Error(w, r, err, "Error grouping tables")

		return
	}

	response.Created(w, "/api/table-groups/"+strconv.FormatInt(tg.ID, 10), tg)
}

// Ungroup handles DELETE /api/table-groups/{id}.
func Ungroup(w http.ResponseWriter, r *http.Request, service service) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.Error(w, r, err, "Error parsing table group id")

		return
	}

	if err := service.Ungroup(r.Context(), id); err != nil {
		response.Error(w, r, err, "Error ungrouping tables")

		return
	}

	response.NoContent(w)
}
