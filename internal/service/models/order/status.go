package order

import (
	"database/sql/driver"

	"github.com/corray333/kitchenpos/internal/service/errs"
)

type Status string

const (
	StatusCooking    Status = "COOKING"
	StatusMeal       Status = "MEAL"
	StatusCompletion Status = "COMPLETION"
)

// InProgressStatuses are the statuses that keep a table occupied.
var InProgressStatuses = []Status{StatusCooking, StatusMeal}

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

// IsTerminal reports whether no further status change is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCompletion
}

func ParseStatus(s string) (Status, error) {
	switch s {
	case StatusCooking.String():
		return StatusCooking, nil
	case StatusMeal.String():
		return StatusMeal, nil
	case StatusCompletion.String():
		return StatusCompletion, nil
	default:
		return "", errs.Validation("invalid order status %q", s)
	}
}
