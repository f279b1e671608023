package assignment_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAssignment(t *testing.T) *assignment.Assignment {
	t.Helper()

	a, err := assignment.NewAssignment(
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.PriorityNormal,
		time.Now().UTC().Add(20*time.Minute),
	)
	require.NoError(t, err)
	return a
}

func TestNewAssignment(t *testing.T) {
	t.Run("creates an active assignment", func(t *testing.T) {
		a := newTestAssignment(t)

		assert.Equal(t, assignment.StatusAssigned, a.Status())
		assert.True(t, a.IsActive())
		assert.Equal(t, a.CreatedAt(), a.UpdatedAt())
		require.NoError(t, a.Validate())
	})

	t.Run("rejects missing order id", func(t *testing.T) {
		_, err := assignment.NewAssignment(
			kernel.NewUUID(), kernel.UUID{}, kernel.NewUUID(),
			kernel.PriorityNormal, time.Now(),
		)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects missing staff id", func(t *testing.T) {
		_, err := assignment.NewAssignment(
			kernel.NewUUID(), kernel.NewUUID(), kernel.UUID{},
			kernel.PriorityNormal, time.Now(),
		)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects invalid priority", func(t *testing.T) {
		_, err := assignment.NewAssignment(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			kernel.PriorityUnknown, time.Now(),
		)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestAssignmentLifecycle(t *testing.T) {
	t.Run("assigned started completed", func(t *testing.T) {
		a := newTestAssignment(t)

		require.NoError(t, a.Start())
		assert.Equal(t, assignment.StatusStarted, a.Status())

		require.NoError(t, a.Complete())
		assert.Equal(t, assignment.StatusCompleted, a.Status())
		assert.False(t, a.IsActive())
	})

	t.Run("cannot complete before starting", func(t *testing.T) {
		a := newTestAssignment(t)

		err := a.Complete()

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("cancel from any active status", func(t *testing.T) {
		a := newTestAssignment(t)
		require.NoError(t, a.Cancel())
		assert.Equal(t, assignment.StatusCancelled, a.Status())

		b := newTestAssignment(t)
		require.NoError(t, b.Start())
		require.NoError(t, b.Cancel())
		assert.Equal(t, assignment.StatusCancelled, b.Status())
	})

	t.Run("terminal assignment rejects everything", func(t *testing.T) {
		a := newTestAssignment(t)
		require.NoError(t, a.Cancel())

		require.ErrorIs(t, a.Start(), errs.ErrConflict)
		require.ErrorIs(t, a.Complete(), errs.ErrConflict)
		require.ErrorIs(t, a.Cancel(), errs.ErrConflict)
	})
}

func TestAssignmentSyncWithOrderStatus(t *testing.T) {
	t.Run("preparing starts the assignment", func(t *testing.T) {
		a := newTestAssignment(t)

		require.NoError(t, a.SyncWithOrderStatus(order.StatusPreparing))

		assert.Equal(t, assignment.StatusStarted, a.Status())
	})

	t.Run("delivered completes a started assignment", func(t *testing.T) {
		a := newTestAssignment(t)
		require.NoError(t, a.Start())

		require.NoError(t, a.SyncWithOrderStatus(order.StatusDelivered))

		assert.Equal(t, assignment.StatusCompleted, a.Status())
	})

	t.Run("delivered completes even an unstarted assignment", func(t *testing.T) {
		a := newTestAssignment(t)

		require.NoError(t, a.SyncWithOrderStatus(order.StatusDelivered))

		assert.Equal(t, assignment.StatusCompleted, a.Status())
	})

	t.Run("cancelled order cancels the assignment", func(t *testing.T) {
		a := newTestAssignment(t)

		require.NoError(t, a.SyncWithOrderStatus(order.StatusCancelled))

		assert.Equal(t, assignment.StatusCancelled, a.Status())
	})

	t.Run("confirmed leaves the assignment untouched", func(t *testing.T) {
		a := newTestAssignment(t)

		require.NoError(t, a.SyncWithOrderStatus(order.StatusConfirmed))

		assert.Equal(t, assignment.StatusAssigned, a.Status())
	})
}

func TestRestoreAssignment(t *testing.T) {
	createdAt := time.Now().UTC().Add(-10 * time.Minute)
	updatedAt := time.Now().UTC().Add(-5 * time.Minute)

	a, err := assignment.RestoreAssignment(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		assignment.StatusStarted, kernel.PriorityHigh,
		time.Now().UTC().Add(10*time.Minute), createdAt, updatedAt,
	)

	require.NoError(t, err)
	assert.Equal(t, assignment.StatusStarted, a.Status())
	assert.Equal(t, createdAt, a.CreatedAt())
	assert.Equal(t, updatedAt, a.UpdatedAt())
}

func TestAssignmentValidate(t *testing.T) {
	var a assignment.Assignment

	err := a.Validate()

	require.Error(t, err)
	assert.Equal(t, assignment.ErrAssignmentIsNotConstructed, err)
}
