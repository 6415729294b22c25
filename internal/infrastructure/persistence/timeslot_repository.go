package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slotadmin/backend/internal/domain/scheduling"
	"github.com/slotadmin/backend/internal/domain/shared"
	"github.com/slotadmin/backend/internal/infrastructure/persistence/models"
)

// GormTimeslotRepository implements scheduling.TimeslotRepository using GORM
type GormTimeslotRepository struct {
	db *gorm.DB
}

// NewGormTimeslotRepository creates a new GormTimeslotRepository
func NewGormTimeslotRepository(db *gorm.DB) *GormTimeslotRepository {
	return &GormTimeslotRepository{db: db}
}

// FindByID finds a timeslot by ID within a tenant
func (r *GormTimeslotRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*scheduling.Timeslot, error) {
	var model models.TimeslotModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant returns all timeslots for a tenant ordered by day and start time
func (r *GormTimeslotRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]scheduling.Timeslot, error) {
	var slotModels []models.TimeslotModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("day_of_week ASC, start_time ASC").
		Find(&slotModels).Error; err != nil {
		return nil, err
	}

	slots := make([]scheduling.Timeslot, len(slotModels))
	for i, model := range slotModels {
		slots[i] = *model.ToDomain()
	}
	return slots, nil
}

// Save creates or updates a timeslot
func (r *GormTimeslotRepository) Save(ctx context.Context, slot *scheduling.Timeslot) error {
	model := models.TimeslotModelFromDomain(slot)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a timeslot within a tenant
func (r *GormTimeslotRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.TimeslotModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteAllForTenant deletes all timeslots for a tenant
func (r *GormTimeslotRepository) DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&models.TimeslotModel{}).Error
}

var _ scheduling.TimeslotRepository = (*GormTimeslotRepository)(nil)
