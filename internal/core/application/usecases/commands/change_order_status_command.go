package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand moves an order to the next lifecycle status.
// The transition is validated against the state machine and applied with an
// optimistic conditional update, so concurrent transitions on the same order
// are safe without any lock.
type ChangeOrderStatusCommand struct {
	orderID kernel.UUID
	next    order.Status

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand creates a validated transition command.
//
// Returns a validation error if the id or the target status is invalid.
// Whether the transition itself is allowed is decided by the handler against
// the order's current status.
func NewChangeOrderStatusCommand(orderID kernel.UUID, next order.Status) (ChangeOrderStatusCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ChangeOrderStatusCommand{}, errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	if err := next.Validate(); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return ChangeOrderStatusCommand{
		orderID: orderID,
		next:    next,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the order to transition.
func (c *ChangeOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Next returns the requested target status.
func (c *ChangeOrderStatusCommand) Next() order.Status {
	return c.next
}

// Validate ensures the command was created through the constructor.
func (c *ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}
