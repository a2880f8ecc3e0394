package ordertable

import (
	"github.com/corray333/kitchenpos/internal/service/errs"
)

// OrderTable represents a table in the restaurant.
type OrderTable struct {
	ID             int64  `json:"id"`
	TableGroupID   *int64 `json:"tableGroupId"`
	NumberOfGuests int    `json:"numberOfGuests"`
	Empty          bool   `json:"empty"`
}

// New builds a standalone table.
func New(numberOfGuests int, empty bool) (OrderTable, error) {
	if err := validateNumberOfGuests(numberOfGuests); err != nil {
		return OrderTable{}, err
	}

	return OrderTable{
		NumberOfGuests: numberOfGuests,
		Empty:          empty,
	}, nil
}

func (t OrderTable) IsGrouped() bool {
	return t.TableGroupID != nil
}

// ChangeNumberOfGuests updates the guest count of an occupied table.
func (t *OrderTable) ChangeNumberOfGuests(numberOfGuests int) error {
	if err := validateNumberOfGuests(numberOfGuests); err != nil {
		return err
	}
	if t.Empty {
		return errs.Conflict("order table %d is empty", t.ID)
	}
	t.NumberOfGuests = numberOfGuests

	return nil
}

// ChangeEmpty flips the empty flag of an ungrouped table.
func (t *OrderTable) ChangeEmpty(empty bool) error {
	if t.IsGrouped() {
		return errs.Conflict("order table %d belongs to table group %d", t.ID, *t.TableGroupID)
	}
	t.Empty = empty

	return nil
}

// Group binds the table to a table group and marks it occupied.
func (t *OrderTable) Group(tableGroupID int64) error {
	if t.IsGrouped() {
		return errs.Conflict("order table %d already belongs to table group %d", t.ID, *t.TableGroupID)
	}
	if !t.Empty {
		return errs.Conflict("order table %d is not empty", t.ID)
	}
	t.TableGroupID = &tableGroupID
	t.Empty = false

	return nil
}

// Ungroup releases the table from its table group.
func (t *OrderTable) Ungroup() {
	t.TableGroupID = nil
}

func validateNumberOfGuests(n int) error {
	if n < 0 {
		return errs.Validation("number of guests must not be negative: %d", n)
	}

	return nil
}
