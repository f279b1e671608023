// Package assignmentrepo provides data transfer objects and mapping functions
// for assignment persistence.
package assignmentrepo

import (
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AssignmentDTO represents the database structure for persisting assignments.
// The rating column is filled in by the customer feedback flow after the fact
// and feeds performance statistics; it has no counterpart on the aggregate.
//
// The partial unique index on order_id holds only while status is ASSIGNED (1)
// or STARTED (2), so the database itself guarantees at most one non-terminal
// assignment per order even when two writers pass the application-level check
// concurrently.
type AssignmentDTO struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID             uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_assignments_one_active_per_order,where:status IN (1,2)"`
	StaffID             uuid.UUID `gorm:"type:uuid;index"`
	Status              int       `gorm:"index"`
	Priority            int
	EstimatedCompletion time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Rating              *float64 `gorm:"type:numeric"`
}

// TableName specifies the database table name for assignment entities.
func (AssignmentDTO) TableName() string {
	return "assignments"
}

// fromDomain converts an assignment aggregate to its database representation.
// Rating is left nil so a feedback-written value is never clobbered; GORM's
// Updates skips nil pointer fields.
func fromDomain(aggregate *assignment.Assignment) AssignmentDTO {
	return AssignmentDTO{
		ID:                  aggregate.ID().Bytes(),
		OrderID:             aggregate.OrderID().Bytes(),
		StaffID:             aggregate.StaffID().Bytes(),
		Status:              int(aggregate.Status()),
		Priority:            aggregate.Priority().Level(),
		EstimatedCompletion: aggregate.EstimatedCompletion(),
		CreatedAt:           aggregate.CreatedAt(),
		UpdatedAt:           aggregate.UpdatedAt(),
	}
}

// toDomain converts a database DTO to an assignment aggregate.
func toDomain(dto AssignmentDTO) (*assignment.Assignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	staffID, err := kernel.UUIDFromBytes(dto.StaffID[:])
	if err != nil {
		return nil, err
	}

	return assignment.RestoreAssignment(
		id,
		orderID,
		staffID,
		assignment.Status(dto.Status),
		kernel.Priority(dto.Priority),
		dto.EstimatedCompletion,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
