package ordertable

import (
	"testing"

	"github.com/corray333/kitchenpos/internal/service/errs"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New(-1, true)
	require.ErrorIs(t, err, errs.ErrValidation)

	table, err := New(0, true)
	require.NoError(t, err)
	require.True(t, table.Empty)
	require.False(t, table.IsGrouped())
}

func TestOrderTable_ChangeNumberOfGuests(t *testing.T) {
	table := OrderTable{ID: 1, NumberOfGuests: 2, Empty: false}
	require.NoError(t, table.ChangeNumberOfGuests(4))
	require.Equal(t, 4, table.NumberOfGuests)

	require.ErrorIs(t, table.ChangeNumberOfGuests(-1), errs.ErrValidation)

	table.Empty = true
	require.ErrorIs(t, table.ChangeNumberOfGuests(3), errs.ErrConflict)
	require.Equal(t, 4, table.NumberOfGuests)
}

func TestOrderTable_GroupAndUngroup(t *testing.T) {
	table := OrderTable{ID: 1, Empty: true}
	require.NoError(t, table.Group(9))
	require.True(t, table.IsGrouped())
	require.False(t, table.Empty)

	require.ErrorIs(t, table.Group(10), errs.ErrConflict)
	require.ErrorIs(t, table.ChangeEmpty(true), errs.ErrConflict)

	table.Ungroup()
	require.False(t, table.IsGrouped())
	require.NoError(t, table.ChangeEmpty(true))
	require.True(t, table.Empty)
}

func TestOrderTable_GroupRejectsOccupiedTable(t *testing.T) {
	table := OrderTable{ID: 1, Empty: false}
	require.ErrorIs(t, table.Group(9), errs.ErrConflict)
	require.Nil(t, table.TableGroupID)
}
