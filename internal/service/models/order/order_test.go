package order

import (
	"testing"
	"time"

	"github.com/corray333/kitchenpos/internal/service/errs"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []Status{StatusCooking, StatusMeal, StatusCompletion} {
		got, err := ParseStatus(s.String())
		require.NoError(t, err)
		require.Equal(t, s, got)
	}

	_, err := ParseStatus("cooking")
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = ParseStatus("")
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestNew(t *testing.T) {
	now := time.Now()
	o := New(7, now)
	require.Equal(t, int64(7), o.OrderTableID)
	require.Equal(t, StatusCooking, o.OrderStatus)
	require.Equal(t, now, o.OrderedTime)
}

func TestOrder_ChangeStatus(t *testing.T) {
	o := New(1, time.Now())

	// Any order between non-terminal statuses is allowed.
	require.NoError(t, o.ChangeStatus(StatusMeal))
	require.NoError(t, o.ChangeStatus(StatusCooking))
	require.NoError(t, o.ChangeStatus(StatusCompletion))
	require.Equal(t, StatusCompletion, o.OrderStatus)

	for _, s := range []Status{StatusCooking, StatusMeal, StatusCompletion} {
		require.ErrorIs(t, o.ChangeStatus(s), errs.ErrConflict)
		require.Equal(t, StatusCompletion, o.OrderStatus)
	}
}
