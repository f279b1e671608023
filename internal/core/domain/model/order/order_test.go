package order_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() []order.Item {
	return []order.Item{
		{Name: "Margherita", Quantity: 2},
		{Name: "Lemonade", Quantity: 1},
	}
}

func TestNewOrder(t *testing.T) {
	t.Run("creates a pending normal-priority order", func(t *testing.T) {
		id := kernel.NewUUID()

		o, err := order.NewOrder(id, 4, testItems(), 31.50, false)

		require.NoError(t, err)
		assert.Equal(t, id, o.ID())
		assert.Equal(t, order.StatusPending, o.Status())
		assert.Equal(t, kernel.PriorityNormal, o.Priority())
		assert.Equal(t, 4, o.TableNumber())
		assert.Equal(t, 3, o.ItemCount())
		assert.InDelta(t, 31.50, o.TotalAmount(), 0.001)
		assert.False(t, o.HasSpecialInstructions())
		assert.WithinDuration(t, time.Now().UTC(), o.CreatedAt(), time.Second)
		require.NoError(t, o.Validate())
	})

	t.Run("rejects invalid id", func(t *testing.T) {
		_, err := order.NewOrder(kernel.UUID{}, 4, testItems(), 31.50, false)

		require.Error(t, err)
	})

	t.Run("rejects empty items", func(t *testing.T) {
		_, err := order.NewOrder(kernel.NewUUID(), 4, nil, 31.50, false)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects non-positive item quantity", func(t *testing.T) {
		items := []order.Item{{Name: "Margherita", Quantity: 0}}

		_, err := order.NewOrder(kernel.NewUUID(), 4, items, 31.50, false)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects negative table number", func(t *testing.T) {
		_, err := order.NewOrder(kernel.NewUUID(), -1, testItems(), 31.50, false)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects negative total", func(t *testing.T) {
		_, err := order.NewOrder(kernel.NewUUID(), 4, testItems(), -0.01, false)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestRestoreOrder(t *testing.T) {
	t.Run("restores persisted state", func(t *testing.T) {
		id := kernel.NewUUID()
		createdAt := time.Now().UTC().Add(-20 * time.Minute)

		o, err := order.RestoreOrder(
			id, 7, testItems(), 31.50, true,
			order.StatusPreparing, kernel.PriorityHigh, createdAt,
		)

		require.NoError(t, err)
		assert.Equal(t, order.StatusPreparing, o.Status())
		assert.Equal(t, kernel.PriorityHigh, o.Priority())
		assert.Equal(t, createdAt, o.CreatedAt())
		assert.True(t, o.HasSpecialInstructions())
		require.NoError(t, o.Validate())
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		_, err := order.RestoreOrder(
			kernel.NewUUID(), 7, testItems(), 31.50, false,
			order.StatusUnknown, kernel.PriorityNormal, time.Now(),
		)

		require.Error(t, err)
	})
}

func TestOrderValidate(t *testing.T) {
	t.Run("zero value order is rejected", func(t *testing.T) {
		var o order.Order

		err := o.Validate()

		require.Error(t, err)
		assert.Equal(t, order.ErrOrderIsNotConstructed, err)
	})

	t.Run("nil order is rejected", func(t *testing.T) {
		var o *order.Order

		err := o.Validate()

		require.Error(t, err)
	})
}

func TestOrderChangeStatus(t *testing.T) {
	t.Run("walks the full happy path", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), 4, testItems(), 31.50, false)
		require.NoError(t, err)

		for _, next := range []order.Status{
			order.StatusConfirmed,
			order.StatusPreparing,
			order.StatusReady,
			order.StatusDelivered,
			order.StatusCompleted,
		} {
			require.NoError(t, o.ChangeStatus(next))
			assert.Equal(t, next, o.Status())
		}

		assert.True(t, o.IsTerminal())
	})

	t.Run("invalid transition leaves status untouched", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), 4, testItems(), 31.50, false)
		require.NoError(t, err)

		err = o.ChangeStatus(order.StatusDelivered)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, order.StatusPending, o.Status())
	})
}

func TestOrderAgeMinutes(t *testing.T) {
	createdAt := time.Now().UTC().Add(-45 * time.Minute)

	o, err := order.RestoreOrder(
		kernel.NewUUID(), 4, testItems(), 31.50, false,
		order.StatusPending, kernel.PriorityNormal, createdAt,
	)
	require.NoError(t, err)

	assert.InDelta(t, 45, o.AgeMinutes(time.Now().UTC()), 0.1)
	assert.Zero(t, o.AgeMinutes(createdAt.Add(-time.Minute)))
}

func TestOrderRequiresTableService(t *testing.T) {
	tableOrder, err := order.NewOrder(kernel.NewUUID(), 4, testItems(), 31.50, false)
	require.NoError(t, err)
	assert.True(t, tableOrder.RequiresTableService())

	counterOrder, err := order.NewOrder(kernel.NewUUID(), 0, testItems(), 31.50, false)
	require.NoError(t, err)
	assert.False(t, counterOrder.RequiresTableService())
}

func TestOrderIsComplex(t *testing.T) {
	t.Run("large orders are complex", func(t *testing.T) {
		items := []order.Item{{Name: "Margherita", Quantity: 5}}
		o, err := order.NewOrder(kernel.NewUUID(), 4, items, 60, false)
		require.NoError(t, err)

		assert.True(t, o.IsComplex())
	})

	t.Run("special instructions make any order complex", func(t *testing.T) {
		items := []order.Item{{Name: "Lemonade", Quantity: 1}}
		o, err := order.NewOrder(kernel.NewUUID(), 4, items, 4, true)
		require.NoError(t, err)

		assert.True(t, o.IsComplex())
	})

	t.Run("small plain orders are not complex", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), 4, testItems(), 31.50, false)
		require.NoError(t, err)

		assert.False(t, o.IsComplex())
	})
}

func TestOrderEscalate(t *testing.T) {
	o, err := order.NewOrder(kernel.NewUUID(), 4, testItems(), 31.50, false)
	require.NoError(t, err)

	o.Escalate()
	assert.Equal(t, kernel.PriorityHigh, o.Priority())

	o.Escalate()
	o.Escalate()
	o.Escalate()
	assert.Equal(t, kernel.PriorityEmergency, o.Priority())
}

func TestOrderItemsAreCopied(t *testing.T) {
	items := testItems()
	o, err := order.NewOrder(kernel.NewUUID(), 4, items, 31.50, false)
	require.NoError(t, err)

	items[0].Quantity = 99
	returned := o.Items()
	returned[1].Quantity = 99

	assert.Equal(t, 2, o.Items()[0].Quantity)
	assert.Equal(t, 1, o.Items()[1].Quantity)
}
