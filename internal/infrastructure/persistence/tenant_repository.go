package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slotadmin/backend/internal/domain/shared"
	"github.com/slotadmin/backend/internal/domain/tenant"
	"github.com/slotadmin/backend/internal/infrastructure/persistence/models"
)

// GormTenantRepository implements tenant.Repository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant by its ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByShopDomain finds a tenant by its normalized shop domain. The column
// stores lowercase values under a unique index, so this is a point lookup.
func (r *GormTenantRepository) FindByShopDomain(ctx context.Context, shopDomain string) (*tenant.Tenant, error) {
	normalized := tenant.NormalizeShopDomain(shopDomain)
	if normalized == "" {
		return nil, shared.ErrNotFound
	}

	var model models.TenantModel
	if err := r.db.WithContext(ctx).
		Where("shop_domain = ?", normalized).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all tenants matching the filter, returning the total count
func (r *GormTenantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]tenant.Tenant, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TenantModel{})

	if filter.Search != "" {
		query = query.Where("shop_domain LIKE ?", "%"+tenant.NormalizeShopDomain(filter.Search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.OrderBy, TenantSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	offset := (filter.Page - 1) * filter.PageSize
	if offset < 0 {
		offset = 0
	}
	limit := filter.PageSize
	if limit <= 0 {
		limit = 20
	}

	var tenantModels []models.TenantModel
	if err := query.Offset(offset).Limit(limit).Find(&tenantModels).Error; err != nil {
		return nil, 0, err
	}

	tenants := make([]tenant.Tenant, len(tenantModels))
	for i, model := range tenantModels {
		tenants[i] = *model.ToDomain()
	}

	return tenants, total, nil
}

// Save creates or updates a tenant
func (r *GormTenantRepository) Save(ctx context.Context, t *tenant.Tenant) error {
	model := models.TenantModelFromDomain(t)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a tenant
func (r *GormTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TenantModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ tenant.Repository = (*GormTenantRepository)(nil)
