package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slotadmin/backend/internal/domain/scheduling"
	"github.com/slotadmin/backend/internal/domain/shared"
	"github.com/slotadmin/backend/internal/infrastructure/persistence/models"
)

// GormBlockedDateRepository implements scheduling.BlockedDateRepository using GORM
type GormBlockedDateRepository struct {
	db *gorm.DB
}

// NewGormBlockedDateRepository creates a new GormBlockedDateRepository
func NewGormBlockedDateRepository(db *gorm.DB) *GormBlockedDateRepository {
	return &GormBlockedDateRepository{db: db}
}

// FindAllForTenant returns all blocked dates for a tenant ordered by date
func (r *GormBlockedDateRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]scheduling.BlockedDate, error) {
	var dateModels []models.BlockedDateModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("date ASC").
		Find(&dateModels).Error; err != nil {
		return nil, err
	}

	dates := make([]scheduling.BlockedDate, len(dateModels))
	for i, model := range dateModels {
		dates[i] = *model.ToDomain()
	}
	return dates, nil
}

// Save creates or updates a blocked date
func (r *GormBlockedDateRepository) Save(ctx context.Context, blocked *scheduling.BlockedDate) error {
	model := models.BlockedDateModelFromDomain(blocked)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a blocked date within a tenant
func (r *GormBlockedDateRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.BlockedDateModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteAllForTenant deletes all blocked dates for a tenant
func (r *GormBlockedDateRepository) DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&models.BlockedDateModel{}).Error
}

var _ scheduling.BlockedDateRepository = (*GormBlockedDateRepository)(nil)
