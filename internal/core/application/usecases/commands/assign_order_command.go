package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAssignOrderCommandIsNotConstructed = errors.New(
	"AssignOrderCommand must be created via NewAssignOrderCommand constructor",
)

// AssignOrderCommand picks the best on-duty staff member for an order and
// creates the assignment.
//
// Example:
//
//	cmd, err := NewAssignOrderCommand(orderID)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrNoCandidatesAvailable):
//	    // nobody on duty covers this order's skill
//	case errors.Is(err, ErrNoCandidateAboveThreshold):
//	    // everyone too loaded or too weak a match
//	}
type AssignOrderCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignOrderCommand creates a validated assignment command.
func NewAssignOrderCommand(orderID kernel.UUID) (AssignOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return AssignOrderCommand{}, errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}

	return AssignOrderCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the order to assign.
func (c *AssignOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Validate ensures the command was created through the constructor.
func (c *AssignOrderCommand) Validate() error {
	return c.guard.Validate(ErrAssignOrderCommandIsNotConstructed)
}
