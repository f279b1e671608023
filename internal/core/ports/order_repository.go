// Package ports defines repository and infrastructure interfaces for the
// scheduling domain. These interfaces establish contracts between the domain
// layer and infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// The order record store is the single source of truth: every cache entry
// derived from it is reconstructible and disposable.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns an ObjectNotFoundError if no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByStatus retrieves all orders currently in the given status.
	GetByStatus(ctx context.Context, status order.Status) ([]*order.Order, error)

	// GetActive retrieves all orders that have not reached a terminal status.
	GetActive(ctx context.Context) ([]*order.Order, error)

	// GetOverdue retrieves active orders older than the given threshold.
	// Used by the escalation sweep.
	GetOverdue(ctx context.Context, threshold time.Duration) ([]*order.Order, error)

	// GetByDateRange retrieves orders created within [from, to).
	GetByDateRange(ctx context.Context, from, to time.Time) ([]*order.Order, error)

	// UpdateStatusIf conditionally moves an order from one status to another.
	// The update applies only if the persisted status still equals from,
	// making concurrent transitions on the same order safe without any lock:
	// the loser of a race sees false and must re-read.
	//
	// Returns:
	//   - (true, nil) if the row was updated
	//   - (false, nil) if the persisted status no longer matches from
	//   - (false, error) on storage failure
	UpdateStatusIf(ctx context.Context, id kernel.UUID, from, to order.Status) (bool, error)
}
