// Package staffrepo provides data transfer objects and mapping functions for
// staff member persistence. It also serves the ground-truth assignment counts
// and performance figures that workload scoring is derived from.
package staffrepo

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/staff"

	"github.com/google/uuid"
)

// StaffDTO represents the database structure for persisting staff members.
type StaffDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name     string
	Role     int  `gorm:"index"`
	OnDuty   bool `gorm:"index"`
	DeviceID string
}

// TableName specifies the database table name for staff entities.
func (StaffDTO) TableName() string {
	return "staff_members"
}

// fromDomain converts a staff member aggregate to its database representation.
func fromDomain(member *staff.StaffMember) StaffDTO {
	return StaffDTO{
		ID:       member.ID().Bytes(),
		Name:     member.Name(),
		Role:     int(member.Role()),
		OnDuty:   member.IsOnDuty(),
		DeviceID: member.DeviceID(),
	}
}

// toDomain converts a database DTO to a staff member aggregate.
func toDomain(dto StaffDTO) (*staff.StaffMember, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return staff.RestoreStaffMember(id, dto.Name, staff.Role(dto.Role), dto.OnDuty, dto.DeviceID)
}
