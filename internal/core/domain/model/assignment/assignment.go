package assignment

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrAssignmentIsNotConstructed is returned when an Assignment instance was not
// created through the NewAssignment or RestoreAssignment factory methods.
var ErrAssignmentIsNotConstructed = errors.New("Assignment must be created via NewAssignment constructor")

// Assignment links an order to the staff member responsible for it.
// It is an aggregate root with its own lifecycle, separate from the order's:
// the order tracks what the customer sees, the assignment tracks who is doing
// the work and how far along they are.
//
// Invariant (enforced at the command and repository level): an order has at
// most one assignment in a non-terminal status at any time.
type Assignment struct {
	// id uniquely identifies the assignment
	id kernel.UUID
	// orderID references the order being worked
	orderID kernel.UUID
	// staffID references the responsible staff member
	staffID kernel.UUID
	// status is the current lifecycle state
	status Status
	// priority mirrors the order's priority at assignment time
	priority kernel.Priority
	// estimatedCompletion is when the work is expected to finish
	estimatedCompletion time.Time
	// createdAt is when the assignment was made
	createdAt time.Time
	// updatedAt tracks the last lifecycle change
	updatedAt time.Time
	// guard ensures the assignment was properly constructed
	guard guard.ConstructorGuard
}

// NewAssignment creates a new Assignment in StatusAssigned.
//
// Parameters:
//   - id: Unique identifier for the assignment
//   - orderID: The order being assigned
//   - staffID: The staff member taking the order
//   - priority: The order's priority at assignment time
//   - estimatedCompletion: Expected completion moment
//
// Returns:
//   - *Assignment: The created assignment if all validations pass
//   - error: Validation error if any parameter is invalid
func NewAssignment(
	id kernel.UUID,
	orderID kernel.UUID,
	staffID kernel.UUID,
	priority kernel.Priority,
	estimatedCompletion time.Time,
) (*Assignment, error) {
	now := time.Now().UTC()
	a := &Assignment{
		status:              StatusAssigned,
		estimatedCompletion: estimatedCompletion,
		createdAt:           now,
		updatedAt:           now,
		guard:               guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setOrderID(orderID),
		a.setStaffID(staffID),
		a.setPriority(priority),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// RestoreAssignment reconstructs an Assignment aggregate from persistent storage.
func RestoreAssignment(
	id kernel.UUID,
	orderID kernel.UUID,
	staffID kernel.UUID,
	status Status,
	priority kernel.Priority,
	estimatedCompletion time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) (*Assignment, error) {
	a := &Assignment{
		estimatedCompletion: estimatedCompletion,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
		guard:               guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setOrderID(orderID),
		a.setStaffID(staffID),
		a.setStatus(status),
		a.setPriority(priority),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// Validate ensures the Assignment was properly constructed through a factory method.
func (a *Assignment) Validate() error {
	if a == nil {
		return ErrAssignmentIsNotConstructed
	}
	return a.guard.Validate(ErrAssignmentIsNotConstructed)
}

// ID returns the assignment's unique identifier.
func (a *Assignment) ID() kernel.UUID {
	return a.id
}

// OrderID returns the assigned order's identifier.
func (a *Assignment) OrderID() kernel.UUID {
	return a.orderID
}

// StaffID returns the responsible staff member's identifier.
func (a *Assignment) StaffID() kernel.UUID {
	return a.staffID
}

// Status returns the current lifecycle state.
func (a *Assignment) Status() Status {
	return a.status
}

// Priority returns the priority the order carried at assignment time.
func (a *Assignment) Priority() kernel.Priority {
	return a.priority
}

// EstimatedCompletion returns when the work is expected to finish.
func (a *Assignment) EstimatedCompletion() time.Time {
	return a.estimatedCompletion
}

// CreatedAt returns when the assignment was made.
func (a *Assignment) CreatedAt() time.Time {
	return a.createdAt
}

// UpdatedAt returns the moment of the last lifecycle change.
func (a *Assignment) UpdatedAt() time.Time {
	return a.updatedAt
}

// IsActive reports whether the assignment is in a non-terminal status.
func (a *Assignment) IsActive() bool {
	return !a.status.IsTerminal()
}

// Start marks the assignment as actively being worked.
// Only valid from StatusAssigned.
func (a *Assignment) Start() error {
	if a.status != StatusAssigned {
		return errs.NewConflictError("assignment status", a.status.String(), StatusStarted.String())
	}
	a.status = StatusStarted
	a.updatedAt = time.Now().UTC()
	return nil
}

// Complete marks the assignment as finished.
// Only valid from StatusStarted.
func (a *Assignment) Complete() error {
	if a.status != StatusStarted {
		return errs.NewConflictError("assignment status", a.status.String(), StatusCompleted.String())
	}
	a.status = StatusCompleted
	a.updatedAt = time.Now().UTC()
	return nil
}

// Cancel aborts the assignment. Valid from any non-terminal status.
func (a *Assignment) Cancel() error {
	if a.status.IsTerminal() {
		return errs.NewConflictError("assignment status", a.status.String(), StatusCancelled.String())
	}
	a.status = StatusCancelled
	a.updatedAt = time.Now().UTC()
	return nil
}

// SyncWithOrderStatus advances the assignment lifecycle to follow a validated
// order transition: PREPARING starts the work, DELIVERED and COMPLETED close
// the assignment since the staff member's work is done once the order reaches
// the customer, CANCELLED aborts it, everything else leaves it untouched.
func (a *Assignment) SyncWithOrderStatus(orderStatus order.Status) error {
	switch orderStatus {
	case order.StatusPreparing:
		if a.status == StatusAssigned {
			return a.Start()
		}
		return nil
	case order.StatusDelivered, order.StatusCompleted:
		if a.status == StatusAssigned {
			if err := a.Start(); err != nil {
				return err
			}
		}
		if a.status == StatusStarted {
			return a.Complete()
		}
		return nil
	case order.StatusCancelled:
		if a.IsActive() {
			return a.Cancel()
		}
		return nil
	case order.StatusUnknown, order.StatusPending, order.StatusConfirmed, order.StatusReady:
		return nil
	default:
		return nil
	}
}

func (a *Assignment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Assignment) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	a.orderID = orderID
	return nil
}

func (a *Assignment) setStaffID(staffID kernel.UUID) error {
	if err := staffID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("staffID", err)
	}
	a.staffID = staffID
	return nil
}

func (a *Assignment) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	a.status = status
	return nil
}

func (a *Assignment) setPriority(priority kernel.Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	a.priority = priority
	return nil
}
