package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/staff"
	"dispatch/internal/core/domain/services"
)

// StaffRepository defines the contract consumed from the staff directory.
// The directory owns staff records; this core only reads eligibility data
// and the ground-truth assignment counts workload figures are derived from.
type StaffRepository interface {
	// Add persists a new staff member.
	Add(ctx context.Context, member *staff.StaffMember) error

	// Update persists changes to an existing staff member.
	Update(ctx context.Context, member *staff.StaffMember) error

	// Get retrieves a staff member by their unique identifier.
	// Returns an ObjectNotFoundError if no such member exists.
	Get(ctx context.Context, id kernel.UUID) (*staff.StaffMember, error)

	// GetActive retrieves all staff members that are not deactivated.
	GetActive(ctx context.Context) ([]*staff.StaffMember, error)

	// GetOnDuty retrieves all staff members currently on shift.
	// Only on-duty members are eligible for assignments.
	GetOnDuty(ctx context.Context) ([]*staff.StaffMember, error)

	// CountActiveAssignments returns the number of non-terminal assignments
	// held by the given staff member. This is the ground truth that workload
	// percentages are always recomputed from.
	CountActiveAssignments(ctx context.Context, staffID kernel.UUID) (int, error)

	// GetPerformanceStats returns the member's historical performance figures
	// derived from their assignment history. Members with no history get
	// zero-valued stats.
	GetPerformanceStats(ctx context.Context, staffID kernel.UUID) (services.PerformanceStats, error)
}
