package staff_test

import (
	"testing"

	"dispatch/internal/core/domain/model/staff"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allRoles() []staff.Role {
	return []staff.Role{
		staff.RoleKitchen,
		staff.RoleService,
		staff.RoleCashier,
		staff.RoleManager,
		staff.RoleAdmin,
	}
}

func TestRoleValidate(t *testing.T) {
	t.Run("valid roles pass validation", func(t *testing.T) {
		for _, r := range allRoles() {
			require.NoError(t, r.Validate(), "role %s should be valid", r)
		}
	})

	t.Run("unknown role fails validation", func(t *testing.T) {
		err := staff.RoleUnknown.Validate()

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestRoleMaxConcurrentOrders(t *testing.T) {
	assert.Equal(t, 6, staff.RoleKitchen.MaxConcurrentOrders())
	assert.Equal(t, 8, staff.RoleService.MaxConcurrentOrders())
	assert.Equal(t, 4, staff.RoleCashier.MaxConcurrentOrders())
	assert.Equal(t, 10, staff.RoleManager.MaxConcurrentOrders())
	assert.Equal(t, 10, staff.RoleAdmin.MaxConcurrentOrders())
	assert.Zero(t, staff.RoleUnknown.MaxConcurrentOrders())
}

func TestRoleIsManagerTier(t *testing.T) {
	assert.True(t, staff.RoleManager.IsManagerTier())
	assert.True(t, staff.RoleAdmin.IsManagerTier())
	assert.False(t, staff.RoleKitchen.IsManagerTier())
	assert.False(t, staff.RoleService.IsManagerTier())
	assert.False(t, staff.RoleCashier.IsManagerTier())
}

func TestRoleMatchesOrderSkill(t *testing.T) {
	t.Run("kitchen covers counter orders only", func(t *testing.T) {
		assert.True(t, staff.RoleKitchen.MatchesOrderSkill(false))
		assert.False(t, staff.RoleKitchen.MatchesOrderSkill(true))
	})

	t.Run("service covers table orders only", func(t *testing.T) {
		assert.True(t, staff.RoleService.MatchesOrderSkill(true))
		assert.False(t, staff.RoleService.MatchesOrderSkill(false))
	})

	t.Run("manager tier covers both", func(t *testing.T) {
		for _, r := range []staff.Role{staff.RoleManager, staff.RoleAdmin} {
			assert.True(t, r.MatchesOrderSkill(true), "%s should cover table service", r)
			assert.True(t, r.MatchesOrderSkill(false), "%s should cover kitchen", r)
		}
	})

	t.Run("cashier covers neither", func(t *testing.T) {
		assert.False(t, staff.RoleCashier.MatchesOrderSkill(true))
		assert.False(t, staff.RoleCashier.MatchesOrderSkill(false))
	})
}

func TestRoleFromString(t *testing.T) {
	t.Run("parses valid names", func(t *testing.T) {
		r, err := staff.RoleFromString("MANAGER")

		require.NoError(t, err)
		assert.Equal(t, staff.RoleManager, r)
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		_, err := staff.RoleFromString("SOMMELIER")

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("round trips through String", func(t *testing.T) {
		for _, r := range allRoles() {
			parsed, err := staff.RoleFromString(r.String())
			require.NoError(t, err)
			assert.Equal(t, r, parsed)
		}
	})
}
