package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand registers a new customer order in the scheduler.
// The order enters the system in PENDING status with normal priority and
// immediately becomes visible in the pending queue bucket.
type CreateOrderCommand struct {
	orderID                kernel.UUID
	tableNumber            int
	items                  []order.Item
	totalAmount            float64
	hasSpecialInstructions bool

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a validated command to register an order.
//
// Returns a validation error if the id is invalid or no items are given.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	tableNumber int,
	items []order.Item,
	totalAmount float64,
	hasSpecialInstructions bool,
) (CreateOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return CreateOrderCommand{}, errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	if len(items) == 0 {
		return CreateOrderCommand{}, errs.NewValueIsRequiredError("items")
	}

	return CreateOrderCommand{
		orderID:                orderID,
		tableNumber:            tableNumber,
		items:                  items,
		totalAmount:            totalAmount,
		hasSpecialInstructions: hasSpecialInstructions,
		guard:                  guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the identifier the new order will carry.
func (c *CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TableNumber returns the table reference, 0 for counter orders.
func (c *CreateOrderCommand) TableNumber() int {
	return c.tableNumber
}

// Items returns the requested dishes.
func (c *CreateOrderCommand) Items() []order.Item {
	return c.items
}

// TotalAmount returns the order total.
func (c *CreateOrderCommand) TotalAmount() float64 {
	return c.totalAmount
}

// HasSpecialInstructions reports whether the order carries kitchen notes.
func (c *CreateOrderCommand) HasSpecialInstructions() bool {
	return c.hasSpecialInstructions
}

// Validate ensures the command was created through the constructor.
func (c *CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}
