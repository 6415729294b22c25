package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/slotadmin/backend/internal/domain/tenant"
)

// TenantModel is the persistence model for the Tenant domain entity.
// ShopDomain is stored normalized (lowercase) and carries a unique index
// because webhook tenant resolution looks tenants up by it on every delivery.
type TenantModel struct {
	ID            uuid.UUID     `gorm:"type:uuid;primary_key"`
	ShopDomain    string        `gorm:"type:varchar(255);not null;uniqueIndex"`
	AccessToken   string        `gorm:"type:varchar(255);not null"`
	APIVersion    string        `gorm:"type:varchar(20);not null"`
	WebhookSecret string        `gorm:"type:varchar(255);not null"`
	Status        tenant.Status `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	CreatedAt     time.Time     `gorm:"not null"`
	UpdatedAt     time.Time     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant
func (m *TenantModel) ToDomain() *tenant.Tenant {
	return &tenant.Tenant{
		ID:            m.ID,
		ShopDomain:    m.ShopDomain,
		AccessToken:   m.AccessToken,
		APIVersion:    m.APIVersion,
		WebhookSecret: m.WebhookSecret,
		Status:        m.Status,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// TenantModelFromDomain creates a persistence model from a domain Tenant
func TenantModelFromDomain(t *tenant.Tenant) *TenantModel {
	return &TenantModel{
		ID:            t.ID,
		ShopDomain:    tenant.NormalizeShopDomain(t.ShopDomain),
		AccessToken:   t.AccessToken,
		APIVersion:    t.APIVersion,
		WebhookSecret: t.WebhookSecret,
		Status:        t.Status,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}
