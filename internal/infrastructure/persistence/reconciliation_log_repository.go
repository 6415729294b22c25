package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slotadmin/backend/internal/domain/expressfee"
	"github.com/slotadmin/backend/internal/infrastructure/persistence/models"
)

// GormReconciliationLogRepository implements expressfee.LogRepository using GORM
type GormReconciliationLogRepository struct {
	db *gorm.DB
}

// NewGormReconciliationLogRepository creates a new GormReconciliationLogRepository
func NewGormReconciliationLogRepository(db *gorm.DB) *GormReconciliationLogRepository {
	return &GormReconciliationLogRepository{db: db}
}

// Save persists a reconciliation audit record
func (r *GormReconciliationLogRepository) Save(ctx context.Context, log *expressfee.ReconciliationLog) error {
	model := models.ReconciliationLogModelFromDomain(log)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindRecentForTenant returns the most recent runs for a tenant, newest first
func (r *GormReconciliationLogRepository) FindRecentForTenant(ctx context.Context, tenantID uuid.UUID, limit int) ([]expressfee.ReconciliationLog, error) {
	if limit <= 0 {
		limit = 20
	}

	var logModels []models.ReconciliationLogModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("started_at DESC").
		Limit(limit).
		Find(&logModels).Error; err != nil {
		return nil, err
	}

	logs := make([]expressfee.ReconciliationLog, len(logModels))
	for i, model := range logModels {
		logs[i] = *model.ToDomain()
	}
	return logs, nil
}

// DeleteAllForTenant deletes all audit records for a tenant
func (r *GormReconciliationLogRepository) DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&models.ReconciliationLogModel{}).Error
}

var _ expressfee.LogRepository = (*GormReconciliationLogRepository)(nil)
