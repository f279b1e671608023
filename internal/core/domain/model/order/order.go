package order

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// complexItemThreshold is the item count at which an order is considered
// complex enough to favor manager-tier staff during assignment scoring.
const complexItemThreshold = 5

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrItemsAreRequired is returned when attempting to create an order without items.
	ErrItemsAreRequired = errs.NewValueIsRequiredError("items")
)

// Item is a single line of an order: a dish name and how many were requested.
type Item struct {
	Name     string
	Quantity int
}

// Order represents a customer order in the system. It is the aggregate root that
// manages the order lifecycle from creation through staff assignment to completion.
//
// Order follows these invariants:
//   - Must have a valid unique identifier
//   - Must contain at least one item with positive quantity
//   - Total amount must not be negative
//   - Status transitions follow the state machine defined on Status
//   - Can only be created through NewOrder or RestoreOrder
//
// The Order struct uses private fields to ensure encapsulation and maintains
// its invariants through validated methods.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// tableNumber is the table the order belongs to; 0 for counter orders
	tableNumber int

	// items are the requested dishes
	items []Item

	// totalAmount is the order total in the venue currency
	totalAmount float64

	// hasSpecialInstructions marks orders carrying free-text kitchen notes
	hasSpecialInstructions bool

	// status is the current state in the order lifecycle
	status Status

	// priority is the current urgency of the order
	priority kernel.Priority

	// createdAt is the moment the order entered the system
	createdAt time.Time

	// guard ensures the order was properly constructed
	guard guard.ConstructorGuard
}

// NewOrder creates a new Order instance with validation. This is the only way to
// create a fresh order, ensuring all business invariants are maintained.
//
// Parameters:
//   - id: Unique identifier for the order (must be valid UUID)
//   - tableNumber: Table reference; 0 means a counter/takeaway order
//   - items: Requested dishes (at least one, all with positive quantity)
//   - totalAmount: Order total (must not be negative)
//   - hasSpecialInstructions: Whether the order carries kitchen notes
//
// The order starts in StatusPending with PriorityNormal and createdAt set to now.
//
// Returns:
//   - *Order: The created order if all validations pass
//   - error: Validation error if any parameter is invalid
func NewOrder(
	id kernel.UUID,
	tableNumber int,
	items []Item,
	totalAmount float64,
	hasSpecialInstructions bool,
) (*Order, error) {
	o := &Order{
		status:                 StatusPending,
		priority:               kernel.PriorityNormal,
		createdAt:              time.Now().UTC(),
		hasSpecialInstructions: hasSpecialInstructions,
		guard:                  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setTableNumber(tableNumber),
		o.setItems(items),
		o.setTotalAmount(totalAmount),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage.
// Unlike NewOrder, which always starts orders in StatusPending, this constructor
// restores an order to its previously persisted state including status, priority
// and creation time. The restored order behaves identically to one created
// through normal domain operations.
func RestoreOrder(
	id kernel.UUID,
	tableNumber int,
	items []Item,
	totalAmount float64,
	hasSpecialInstructions bool,
	status Status,
	priority kernel.Priority,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		hasSpecialInstructions: hasSpecialInstructions,
		createdAt:              createdAt,
		guard:                  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setTableNumber(tableNumber),
		o.setItems(items),
		o.setTotalAmount(totalAmount),
		o.setStatus(status),
		o.setPriority(priority),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed through a factory method.
// This prevents bypassing validation by directly instantiating the struct.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// TableNumber returns the table the order belongs to, 0 for counter orders.
func (o *Order) TableNumber() int {
	return o.tableNumber
}

// Items returns a copy of the order's item lines.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// ItemCount returns the total number of requested units across all items.
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.items {
		count += item.Quantity
	}
	return count
}

// TotalAmount returns the order total.
func (o *Order) TotalAmount() float64 {
	return o.totalAmount
}

// HasSpecialInstructions reports whether the order carries kitchen notes.
func (o *Order) HasSpecialInstructions() bool {
	return o.hasSpecialInstructions
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// Priority returns the current urgency of the order.
func (o *Order) Priority() kernel.Priority {
	return o.priority
}

// CreatedAt returns the moment the order entered the system.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// AgeMinutes returns how many minutes the order has been in the system at the
// given instant. Used by the priority queue score and the overdue sweep.
func (o *Order) AgeMinutes(now time.Time) float64 {
	age := now.Sub(o.createdAt).Minutes()
	if age < 0 {
		return 0
	}
	return age
}

// IsTerminal reports whether the order reached a final status.
// Terminal orders are dropped from active tracking.
func (o *Order) IsTerminal() bool {
	return o.status.IsTerminal()
}

// RequiresTableService reports whether serving the order needs service staff
// at a table rather than kitchen handling alone.
func (o *Order) RequiresTableService() bool {
	return o.tableNumber > 0
}

// IsComplex reports whether the order is demanding enough to favor
// manager-tier staff during assignment scoring.
func (o *Order) IsComplex() bool {
	return o.ItemCount() >= complexItemThreshold || o.hasSpecialInstructions
}

// ChangeStatus performs a validated transition to the given status.
//
// Returns:
//   - nil on a valid transition; the order's status is updated
//   - *errs.ConflictError carrying both states if the transition is rejected
func (o *Order) ChangeStatus(next Status) error {
	newStatus, err := o.status.TransitionTo(next)
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Escalate raises the order's priority one step, capped at EMERGENCY.
// Used by the overdue sweep for orders stuck past the service threshold.
func (o *Order) Escalate() {
	o.priority = o.priority.Escalate()
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setTableNumber(tableNumber int) error {
	if tableNumber < 0 {
		return errs.NewValueIsInvalidErrorWithCause("tableNumber",
			fmt.Errorf("%d is negative", tableNumber))
	}
	o.tableNumber = tableNumber
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	for _, item := range items {
		if item.Name == "" {
			return errs.NewValueIsRequiredError("item name")
		}
		if item.Quantity <= 0 {
			return errs.NewValueIsInvalidErrorWithCause("item quantity",
				fmt.Errorf("%d is not greater than 0", item.Quantity))
		}
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setTotalAmount(totalAmount float64) error {
	if totalAmount < 0 {
		return errs.NewValueIsInvalidErrorWithCause("totalAmount",
			fmt.Errorf("%f is negative", totalAmount))
	}
	o.totalAmount = totalAmount
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setPriority(priority kernel.Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	o.priority = priority
	return nil
}
