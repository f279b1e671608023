// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Maps order domain entities to relational database tables with proper indexing
// for efficient querying by status and creation time.
type OrderDTO struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey"`
	TableNumber            int
	Items                  []ItemDTO `gorm:"serializer:json;type:jsonb"`
	TotalAmount            float64
	HasSpecialInstructions bool
	Status                 int       `gorm:"index"`
	Priority               int       `gorm:"index"`
	CreatedAt              time.Time `gorm:"index"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is one order line inside the JSON items column.
type ItemDTO struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{Name: item.Name, Quantity: item.Quantity})
	}

	return OrderDTO{
		ID:                     aggregate.ID().Bytes(),
		TableNumber:            aggregate.TableNumber(),
		Items:                  items,
		TotalAmount:            aggregate.TotalAmount(),
		HasSpecialInstructions: aggregate.HasSpecialInstructions(),
		Status:                 int(aggregate.Status()),
		Priority:               aggregate.Priority().Level(),
		CreatedAt:              aggregate.CreatedAt(),
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including status and priority using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, item := range dto.Items {
		items = append(items, order.Item{Name: item.Name, Quantity: item.Quantity})
	}

	return order.RestoreOrder(
		id,
		dto.TableNumber,
		items,
		dto.TotalAmount,
		dto.HasSpecialInstructions,
		order.Status(dto.Status),
		kernel.Priority(dto.Priority),
		dto.CreatedAt,
	)
}
