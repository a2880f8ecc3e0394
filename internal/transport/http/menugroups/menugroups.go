package menugroups

import (
	"context"
	"net/http"
	"strconv"

	"github.com/corray333/kitchenpos/internal/service/models/menugroup"
	"github.com/corray333/kitchenpos/internal/transport/http/request"
	"github.com/corray333/kitchenpos/internal/transport/http/response"
)

type service interface {
	Create(ctx context.Context, name string) (menugroup.MenuGroup, error)
	List(ctx context.Context) ([]menugroup.MenuGroup, error)
}

type createMenuGroupRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// Create handles POST /api/menu-groups.
func Create(w http.ResponseWriter, r *http.Request, service service) {
	req := createMenuGroupRequest{}
	if err := request.Decode(r, &req); err != nil {
		response.Error(w, r, err, "Error decoding request body for menu group creation")

		return
	}

	mg, err := service.Create(r.Context(), req.Name)
	if err != nil {
		response.Error(w, r, err, "Error creating menu group")

		return
	}

	response.Created(w, "/api/menu-groups/"+strconv.FormatInt(mg.ID, 10), mg)
}

// List handles GET /api/menu-groups.
func List(w http.ResponseWriter, r *http.Request, service service) {
	groups, err := service.List(r.Context())
	if err != nil {
		response.Error(w, r, err, "Error listing menu groups")

		return
	}

	response.JSON(w, http.StatusOK, groups)
}
