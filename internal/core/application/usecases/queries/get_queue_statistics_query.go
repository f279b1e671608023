// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrGetQueueStatisticsQueryIsNotConstructed = errors.New(
	"GetQueueStatisticsQuery must be created via NewGetQueueStatisticsQuery constructor",
)

// GetQueueStatisticsQuery retrieves the aggregate picture of the work queue:
// per-bucket counts, overdue count, and the average wait of pending orders.
//
// Example:
//
//	query := NewGetQueueStatisticsQuery()
//	stats, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d orders pending, %d overdue\n", stats.PendingCount, stats.OverdueCount)
type GetQueueStatisticsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetQueueStatisticsQuery creates a query for queue statistics.
func NewGetQueueStatisticsQuery() GetQueueStatisticsQuery {
	return GetQueueStatisticsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetQueueStatisticsQuery) Validate() error {
	return q.guard.Validate(ErrGetQueueStatisticsQueryIsNotConstructed)
}
