package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrGetStaffWorkloadQueryIsNotConstructed = errors.New(
	"GetStaffWorkloadQuery must be created via NewGetStaffWorkloadQuery constructor",
)

// GetStaffWorkloadQuery retrieves the workload picture for one staff member.
type GetStaffWorkloadQuery struct {
	guard   guard.ConstructorGuard
	staffID kernel.UUID
}

// NewGetStaffWorkloadQuery creates a query for a staff member's workload.
//
// Returns a validation error if the staff id is invalid.
func NewGetStaffWorkloadQuery(staffID kernel.UUID) (GetStaffWorkloadQuery, error) {
	if err := staffID.Validate(); err != nil {
		return GetStaffWorkloadQuery{}, errs.NewValueIsInvalidErrorWithCause("staffId", err)
	}

	return GetStaffWorkloadQuery{
		guard:   guard.NewConstructorGuard(),
		staffID: staffID,
	}, nil
}

// StaffID returns the identifier of the staff member being queried.
func (q GetStaffWorkloadQuery) StaffID() kernel.UUID {
	return q.staffID
}

// Validate ensures the query was created through the constructor.
func (q GetStaffWorkloadQuery) Validate() error {
	return q.guard.Validate(ErrGetStaffWorkloadQueryIsNotConstructed)
}
