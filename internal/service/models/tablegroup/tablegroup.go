package tablegroup

import (
	"time"

	"github.com/corray333/kitchenpos/internal/service/models/ordertable"
)

// MinTables is the smallest number of tables a group can be made of.
const MinTables = 2

// TableGroup merges several tables for shared billing and occupancy.
type TableGroup struct {
	ID          int64                   `json:"id"`
	CreatedDate time.Time               `json:"createdDate"`
	OrderTables []ordertable.OrderTable `json:"orderTables"`
}
