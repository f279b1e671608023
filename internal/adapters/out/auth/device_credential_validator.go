// Package auth resolves connection credentials against the staff directory.
package auth

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/staff"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// DeviceCredentialValidator accepts a credential when it matches the device
// bound to the staff member named by the hint. Device binding happens during
// staff onboarding; a member with no bound device cannot authenticate.
type DeviceCredentialValidator struct {
	staffRepo ports.StaffRepository
}

// NewDeviceCredentialValidator creates a validator backed by the staff directory.
func NewDeviceCredentialValidator(staffRepo ports.StaffRepository) (*DeviceCredentialValidator, error) {
	if staffRepo == nil {
		return nil, errs.NewValueIsRequiredError("staffRepo")
	}

	return &DeviceCredentialValidator{staffRepo: staffRepo}, nil
}

// Validate resolves the staff member behind a credential.
// The hint must name an existing staff member whose bound device matches
// the presented credential.
func (v *DeviceCredentialValidator) Validate(
	ctx context.Context,
	credential string,
	staffIDHint string,
) (kernel.UUID, staff.Role, error) {
	if credential == "" {
		return kernel.UUID{}, staff.RoleUnknown, errs.NewValueIsRequiredError("credential")
	}

	staffID, err := kernel.UUIDFromString(staffIDHint)
	if err != nil {
		return kernel.UUID{}, staff.RoleUnknown, errs.NewValueIsInvalidErrorWithCause("staffId", err)
	}

	member, err := v.staffRepo.Get(ctx, staffID)
	if err != nil {
		return kernel.UUID{}, staff.RoleUnknown, err
	}

	if member.DeviceID() == "" || member.DeviceID() != credential {
		return kernel.UUID{}, staff.RoleUnknown, errs.NewValueIsInvalidError("credential")
	}

	return member.ID(), member.Role(), nil
}
