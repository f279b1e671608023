package staff

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Role represents a staff member's function in the venue.
// The role derives the member's capacity class (maximum concurrent orders)
// and which order skills the member covers.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	// This value (0) helps catch uninitialized Role values.
	RoleUnknown Role = iota

	// RoleKitchen prepares orders; covers kitchen-skill orders.
	RoleKitchen

	// RoleService delivers orders to tables; covers table-service orders.
	RoleService

	// RoleCashier handles counter payment; takes no order assignments by skill.
	RoleCashier

	// RoleManager supervises the floor; covers both skills and is manager-tier.
	RoleManager

	// RoleAdmin has full system access; covers both skills and is manager-tier.
	RoleAdmin
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown: "UNKNOWN",
		RoleKitchen: "KITCHEN",
		RoleService: "SERVICE",
		RoleCashier: "CASHIER",
		RoleManager: "MANAGER",
		RoleAdmin:   "ADMIN",
	}
}

// RoleFromString parses a role from its string name.
// Returns a ValueIsInvalidError for unknown names.
func RoleFromString(s string) (Role, error) {
	for role, str := range getRoleStrings() {
		if str == s && role != RoleUnknown {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause(
		"role",
		fmt.Errorf("%q is not a valid role", s),
	)
}

// Validate checks if the Role value is valid.
// RoleUnknown (0) and out-of-range values are invalid.
func (r Role) Validate() error {
	if r < RoleKitchen || r > RoleAdmin {
		return errs.NewValueIsInvalidErrorWithCause(
			"role",
			fmt.Errorf("%d is not a valid role", r),
		)
	}
	return nil
}

// String returns the human-readable name of the role.
// Implements the fmt.Stringer interface and is safe to call on any value.
func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "UNKNOWN"
}

// MaxConcurrentOrders returns the capacity class of the role: the number of
// active assignments a member of this role can carry at once. Workload
// percentage is always the active-assignment count divided by this value.
func (r Role) MaxConcurrentOrders() int {
	switch r {
	case RoleKitchen:
		return 6
	case RoleService:
		return 8
	case RoleCashier:
		return 4
	case RoleManager, RoleAdmin:
		return 10
	case RoleUnknown:
		return 0
	default:
		return 0
	}
}

// IsManagerTier reports whether the role carries supervisory privileges.
// Manager-tier staff are boosted for complex and urgent orders.
func (r Role) IsManagerTier() bool {
	return r == RoleManager || r == RoleAdmin
}

// CoversTableService reports whether the role can serve table-bound orders.
func (r Role) CoversTableService() bool {
	switch r {
	case RoleService, RoleManager, RoleAdmin:
		return true
	case RoleKitchen, RoleCashier, RoleUnknown:
		return false
	default:
		return false
	}
}

// CoversKitchen reports whether the role can handle kitchen-only orders.
func (r Role) CoversKitchen() bool {
	switch r {
	case RoleKitchen, RoleManager, RoleAdmin:
		return true
	case RoleService, RoleCashier, RoleUnknown:
		return false
	default:
		return false
	}
}

// MatchesOrderSkill reports whether the role covers the skill an order needs:
// table service for table-bound orders, kitchen handling otherwise.
func (r Role) MatchesOrderSkill(requiresTableService bool) bool {
	if requiresTableService {
		return r.CoversTableService()
	}
	return r.CoversKitchen()
}
