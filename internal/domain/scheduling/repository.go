package scheduling

import (
	"context"

	"github.com/google/uuid"
)

// TimeslotRepository provides access to weekly timeslot configuration
type TimeslotRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Timeslot, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Timeslot, error)
	Save(ctx context.Context, slot *Timeslot) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error
}

// BlockedDateRepository provides access to blocked calendar dates
type BlockedDateRepository interface {
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]BlockedDate, error)
	Save(ctx context.Context, blocked *BlockedDate) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error
}

// SettingsRepository provides access to per-tenant booking settings
type SettingsRepository interface {
	FindForTenant(ctx context.Context, tenantID uuid.UUID) (*Settings, error)
	Save(ctx context.Context, settings *Settings) error
	DeleteForTenant(ctx context.Context, tenantID uuid.UUID) error
}
