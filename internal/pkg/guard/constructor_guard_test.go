package guard_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/pkg/guard"
)

func Test_NewConstructorGuard_ValidatesCleanly(t *testing.T) {
	g := guard.NewConstructorGuard()

	require.NoError(t, g.Validate(errors.New("ticket not constructed")))
	require.NoError(t, g.Validate(nil))
}

func Test_ConstructorGuard_ZeroValueReturnsGivenError(t *testing.T) {
	var g guard.ConstructorGuard
	notConstructed := errors.New("shift report not constructed")

	err := g.Validate(notConstructed)

	require.Error(t, err)
	assert.Equal(t, notConstructed, err)
}

func Test_ConstructorGuard_ZeroValueFallsBackToDefaultError(t *testing.T) {
	var g guard.ConstructorGuard

	err := g.Validate(nil)

	require.Error(t, err)
	assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	assert.Equal(t, "object must be created via its constructor", err.Error())
}

// Aggregates embed the guard so that zero-value instances fail Validate
// until a constructor has run.
func Test_ConstructorGuard_BlocksZeroValueAggregates(t *testing.T) {
	type ticket struct {
		guard       guard.ConstructorGuard
		tableNumber int
	}

	errTicketNotConstructed := errors.New("ticket must be created via newTicket")

	newTicket := func(tableNumber int) (ticket, error) {
		if tableNumber <= 0 {
			return ticket{}, errors.New("table number must be positive")
		}
		return ticket{
			guard:       guard.NewConstructorGuard(),
			tableNumber: tableNumber,
		}, nil
	}

	t.Run("constructed instance passes", func(t *testing.T) {
		tk, err := newTicket(4)

		require.NoError(t, err)
		require.NoError(t, tk.guard.Validate(errTicketNotConstructed))
		assert.Equal(t, 4, tk.tableNumber)
	})

	t.Run("zero value is rejected", func(t *testing.T) {
		var tk ticket

		err := tk.guard.Validate(errTicketNotConstructed)

		require.Error(t, err)
		assert.Equal(t, errTicketNotConstructed, err)
	})

	t.Run("constructor rejects invalid input", func(t *testing.T) {
		_, err := newTicket(0)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "table number must be positive")
	})
}

func Test_ConstructorGuard_CopiesStayValid(t *testing.T) {
	g := guard.NewConstructorGuard()
	notConstructed := errors.New("not constructed")

	copied := g

	require.NoError(t, g.Validate(notConstructed))
	require.NoError(t, copied.Validate(notConstructed))
}
