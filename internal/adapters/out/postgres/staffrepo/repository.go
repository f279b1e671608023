package staffrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/staff"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormStaffRepository implements StaffRepository using GORM.
type GormStaffRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormStaffRepository creates a new GORM staff repository.
func NewGormStaffRepository(db *gorm.DB, tracker aggregateTracker) *GormStaffRepository {
	return &GormStaffRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new staff member to the database.
func (r *GormStaffRepository) Add(ctx context.Context, member *staff.StaffMember) error {
	if err := member.Validate(); err != nil {
		return err
	}

	dto := fromDomain(member)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(member.ID(), member)
	return nil
}

// Update saves an existing staff member to the database.
// Save is used instead of Updates so that ending a shift, which flips
// on_duty to false, actually reaches the row.
func (r *GormStaffRepository) Update(ctx context.Context, member *staff.StaffMember) error {
	if err := member.Validate(); err != nil {
		return err
	}

	dto := fromDomain(member)
	if err := r.db.WithContext(ctx).Save(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(member.ID(), member)
	return nil
}

// Get retrieves a staff member by ID.
func (r *GormStaffRepository) Get(ctx context.Context, id kernel.UUID) (*staff.StaffMember, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto StaffDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("staffMember", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActive retrieves all staff members.
func (r *GormStaffRepository) GetActive(ctx context.Context) ([]*staff.StaffMember, error) {
	var dtos []StaffDTO
	if err := r.db.WithContext(ctx).Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetOnDuty retrieves all staff members currently on shift.
func (r *GormStaffRepository) GetOnDuty(ctx context.Context) ([]*staff.StaffMember, error) {
	var dtos []StaffDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "on_duty = ?", true).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// CountActiveAssignments returns the number of non-terminal assignments held
// by the staff member. This count is the ground truth workload percentages
// are recomputed from; cached workload snapshots are advisory only.
func (r *GormStaffRepository) CountActiveAssignments(ctx context.Context, staffID kernel.UUID) (int, error) {
	if err := staffID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Table("assignments").
		Where("staff_id = ? AND status IN ?", staffID.Bytes(),
			[]int{int(assignment.StatusAssigned), int(assignment.StatusStarted)}).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

// GetPerformanceStats derives the member's historical performance figures from
// their finished assignments. Members with no history get zero-valued stats.
func (r *GormStaffRepository) GetPerformanceStats(
	ctx context.Context,
	staffID kernel.UUID,
) (services.PerformanceStats, error) {
	if err := staffID.Validate(); err != nil {
		return services.PerformanceStats{}, err
	}

	var row struct {
		SuccessRate          float64
		AvgCompletionMinutes float64
		CustomerRating       float64
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(AVG(CASE WHEN status = ? THEN 1.0 ELSE 0.0 END), 0) AS success_rate,
			COALESCE(AVG(CASE WHEN status = ?
				THEN EXTRACT(EPOCH FROM (updated_at - created_at)) / 60.0 END), 0) AS avg_completion_minutes,
			COALESCE(AVG(rating), 0) AS customer_rating
		FROM assignments
		WHERE staff_id = ? AND status IN (?, ?)`,
		int(assignment.StatusCompleted),
		int(assignment.StatusCompleted),
		staffID.Bytes(),
		int(assignment.StatusCompleted),
		int(assignment.StatusCancelled),
	).Scan(&row).Error
	if err != nil {
		return services.PerformanceStats{}, err
	}

	return services.PerformanceStats{
		SuccessRate:          row.SuccessRate,
		AvgCompletionMinutes: row.AvgCompletionMinutes,
		CustomerRating:       row.CustomerRating,
	}, nil
}

func toDomainSlice(dtos []StaffDTO) ([]*staff.StaffMember, error) {
	members := make([]*staff.StaffMember, 0, len(dtos))
	for _, dto := range dtos {
		member, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	return members, nil
}
