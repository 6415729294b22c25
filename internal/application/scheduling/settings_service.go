package scheduling

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/slotadmin/backend/internal/domain/scheduling"
	"github.com/slotadmin/backend/internal/domain/shared"
)

// SettingsService manages per-tenant booking settings
type SettingsService struct {
	settings scheduling.SettingsRepository
	logger   *zap.Logger
}

// NewSettingsService creates a settings service
func NewSettingsService(settings scheduling.SettingsRepository, logger *zap.Logger) *SettingsService {
	return &SettingsService{settings: settings, logger: logger}
}

// GetSettings returns the tenant's settings, creating defaults on first read
func (s *SettingsService) GetSettings(ctx context.Context, tenantID uuid.UUID) (*scheduling.Settings, error) {
	settings, err := s.settings.FindForTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			settings = scheduling.DefaultSettings(tenantID)
			if saveErr := s.settings.Save(ctx, settings); saveErr != nil {
				return nil, saveErr
			}
			return settings, nil
		}
		return nil, err
	}
	return settings, nil
}

// UpdateSettingsInput carries a settings change
type UpdateSettingsInput struct {
	DeliveryEnabled   bool
	CollectionEnabled bool
	LeadTimeHours     int
	MaxAdvanceDays    int
	CutoffTime        string
}

// UpdateSettings applies a settings change
func (s *SettingsService) UpdateSettings(ctx context.Context, tenantID uuid.UUID, input UpdateSettingsInput) (*scheduling.Settings, error) {
	settings, err := s.GetSettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if err := settings.Update(input.DeliveryEnabled, input.CollectionEnabled, input.LeadTimeHours, input.MaxAdvanceDays, input.CutoffTime); err != nil {
		return nil, err
	}

	if err := s.settings.Save(ctx, settings); err != nil {
		return nil, err
	}

	s.logger.Info("booking settings updated", zap.String("tenant_id", tenantID.String()))
	return settings, nil
}
