package staff

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	// ErrNameIsRequired is returned when attempting to create a staff member without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrStaffMemberIsNotConstructed is returned when using an improperly initialized StaffMember.
	ErrStaffMemberIsNotConstructed = errors.New("StaffMember must be created via NewStaffMember constructor")
)

// StaffMember represents a venue employee who can receive order assignments.
// It is an aggregate root that manages staff identity, duty state, and the
// device binding used to route notifications.
//
// Key responsibilities:
//   - Managing staff identity (ID, name, role)
//   - Tracking the on-duty flag that gates assignment eligibility
//   - Deriving capacity from the role's capacity class
//   - Binding the member to a notification device
//
// Business rules:
//   - A staff member must have a valid UUID, a non-empty name, and a valid role
//   - Only on-duty members are eligible for new assignments
//   - Capacity is never stored; it is always derived from the role
type StaffMember struct {
	// id uniquely identifies the staff member
	id kernel.UUID
	// name is the human-readable name of the staff member
	name string
	// role determines skills, capacity class, and manager tier
	role Role
	// onDuty gates assignment eligibility
	onDuty bool
	// deviceID is the identifier of the member's bound notification device, empty if none
	deviceID string
	// guard ensures the staff member was properly constructed
	guard guard.ConstructorGuard
}

// NewStaffMember creates a new StaffMember with the specified parameters.
// This is the only way to create a fresh StaffMember instance.
//
// The member starts off-duty with no device binding.
//
// Returns:
//   - *StaffMember: A fully initialized staff member
//   - error: Validation error if any parameter is invalid
func NewStaffMember(id kernel.UUID, name string, role Role) (*StaffMember, error) {
	member := &StaffMember{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		member.setID(id),
		member.setName(name),
		member.setRole(role),
	); err != nil {
		return nil, err
	}

	return member, nil
}

// RestoreStaffMember reconstructs a StaffMember aggregate from persistent storage,
// including duty state and device binding. The restored member behaves identically
// to one created through normal domain operations.
func RestoreStaffMember(
	id kernel.UUID,
	name string,
	role Role,
	onDuty bool,
	deviceID string,
) (*StaffMember, error) {
	member := &StaffMember{
		onDuty:   onDuty,
		deviceID: deviceID,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		member.setID(id),
		member.setName(name),
		member.setRole(role),
	); err != nil {
		return nil, err
	}

	return member, nil
}

// Validate ensures the StaffMember was properly constructed through a factory method.
func (m *StaffMember) Validate() error {
	if m == nil {
		return ErrStaffMemberIsNotConstructed
	}
	return m.guard.Validate(ErrStaffMemberIsNotConstructed)
}

// IsEqual compares two staff members by their unique identifiers.
func (m *StaffMember) IsEqual(other *StaffMember) bool {
	return other != nil && m.id.IsEqual(other.id)
}

// ID returns the staff member's unique identifier.
func (m *StaffMember) ID() kernel.UUID {
	return m.id
}

// Name returns the staff member's name.
func (m *StaffMember) Name() string {
	return m.name
}

// Role returns the staff member's role.
func (m *StaffMember) Role() Role {
	return m.role
}

// IsOnDuty reports whether the member is currently eligible for assignments.
func (m *StaffMember) IsOnDuty() bool {
	return m.onDuty
}

// DeviceID returns the identifier of the bound notification device, empty if none.
func (m *StaffMember) DeviceID() string {
	return m.deviceID
}

// MaxConcurrentOrders returns the member's capacity, derived from the role.
func (m *StaffMember) MaxConcurrentOrders() int {
	return m.role.MaxConcurrentOrders()
}

// StartShift marks the member on duty.
func (m *StaffMember) StartShift() {
	m.onDuty = true
}

// EndShift marks the member off duty. Existing assignments are unaffected;
// the member simply stops receiving new ones.
func (m *StaffMember) EndShift() {
	m.onDuty = false
}

// BindDevice records the notification device the member is reachable on.
// Rebinding replaces the previous device.
func (m *StaffMember) BindDevice(deviceID string) error {
	if deviceID == "" {
		return errs.NewValueIsRequiredError("deviceID")
	}
	m.deviceID = deviceID
	return nil
}

func (m *StaffMember) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	m.id = id
	return nil
}

func (m *StaffMember) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	m.name = name
	return nil
}

func (m *StaffMember) setRole(role Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	m.role = role
	return nil
}
