package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/slotadmin/backend/internal/domain/scheduling"
	"github.com/slotadmin/backend/internal/domain/shared"
	"github.com/slotadmin/backend/internal/infrastructure/persistence/models"
)

// GormSettingsRepository implements scheduling.SettingsRepository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// FindForTenant returns the settings row for a tenant
func (r *GormSettingsRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID) (*scheduling.Settings, error) {
	var model models.SettingsModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save upserts the settings row keyed on tenant_id
func (r *GormSettingsRepository) Save(ctx context.Context, settings *scheduling.Settings) error {
	model := models.SettingsModelFromDomain(settings)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}},
			UpdateAll: true,
		}).
		Create(model).Error
}

// DeleteForTenant deletes the settings row for a tenant
func (r *GormSettingsRepository) DeleteForTenant(ctx context.Context, tenantID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&models.SettingsModel{}).Error
}

var _ scheduling.SettingsRepository = (*GormSettingsRepository)(nil)
