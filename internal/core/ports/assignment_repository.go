package ports

import (
	"context"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
)

// AssignmentRepository defines the persistence contract for assignment aggregates.
// It is the enforcement point for the one-active-assignment-per-order invariant:
// GetActiveByOrder is consulted before any new assignment is persisted.
type AssignmentRepository interface {
	// Add persists a new assignment.
	Add(ctx context.Context, aggregate *assignment.Assignment) error

	// Update persists changes to an existing assignment.
	Update(ctx context.Context, aggregate *assignment.Assignment) error

	// Get retrieves an assignment by its unique identifier.
	// Returns an ObjectNotFoundError if no such assignment exists.
	Get(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error)

	// GetActiveByOrder retrieves the order's single non-terminal assignment.
	// Returns an ObjectNotFoundError if the order has no active assignment.
	GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*assignment.Assignment, error)

	// GetActiveByStaff retrieves all non-terminal assignments held by a staff member.
	GetActiveByStaff(ctx context.Context, staffID kernel.UUID) ([]*assignment.Assignment, error)
}
