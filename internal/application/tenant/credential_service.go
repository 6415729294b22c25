package tenant

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/slotadmin/backend/internal/domain/expressfee"
	"github.com/slotadmin/backend/internal/domain/scheduling"
	"github.com/slotadmin/backend/internal/domain/shared"
	"github.com/slotadmin/backend/internal/domain/tenant"
)

// CredentialService manages storefront credentials and tenant lifecycle
type CredentialService struct {
	tenants   tenant.Repository
	timeslots scheduling.TimeslotRepository
	blocked   scheduling.BlockedDateRepository
	settings  scheduling.SettingsRepository
	logs      expressfee.LogRepository
	events    shared.EventPublisher
	logger    *zap.Logger
}

// NewCredentialService creates a credential service
func NewCredentialService(
	tenants tenant.Repository,
	timeslots scheduling.TimeslotRepository,
	blocked scheduling.BlockedDateRepository,
	settings scheduling.SettingsRepository,
	logs expressfee.LogRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *CredentialService {
	return &CredentialService{
		tenants:   tenants,
		timeslots: timeslots,
		blocked:   blocked,
		settings:  settings,
		logs:      logs,
		events:    events,
		logger:    logger,
	}
}

// SaveCredentialsInput carries storefront credentials for a shop
type SaveCredentialsInput struct {
	ShopDomain    string
	AccessToken   string
	APIVersion    string
	WebhookSecret string
}

// SaveCredentials registers a new shop or updates an existing one's
// credentials, keyed by shop domain
func (s *CredentialService) SaveCredentials(ctx context.Context, input SaveCredentialsInput) (*tenant.Tenant, error) {
	shopDomain := tenant.NormalizeShopDomain(input.ShopDomain)

	existing, err := s.tenants.FindByShopDomain(ctx, shopDomain)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	var t *tenant.Tenant
	if existing != nil {
		existing.UpdateCredentials(input.AccessToken, input.APIVersion, input.WebhookSecret)
		t = existing
	} else {
		t, err = tenant.NewTenant(shopDomain, input.AccessToken, input.APIVersion, input.WebhookSecret)
		if err != nil {
			return nil, err
		}
	}

	if err := s.tenants.Save(ctx, t); err != nil {
		return nil, err
	}

	if err := s.events.Publish(ctx, tenant.NewCredentialsSavedEvent(t)); err != nil {
		s.logger.Error("failed to publish credentials saved event", zap.Error(err))
	}

	s.logger.Info("storefront credentials saved", zap.String("shop_domain", t.ShopDomain))
	return t, nil
}

// GetTenant returns a tenant by ID
func (s *CredentialService) GetTenant(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return s.tenants.FindByID(ctx, id)
}

// ListTenants returns a page of tenants
func (s *CredentialService) ListTenants(ctx context.Context, filter shared.Filter) ([]tenant.Tenant, int64, error) {
	return s.tenants.FindAll(ctx, filter)
}

// Offboard removes everything stored for a tenant: schedule, settings, audit
// logs and finally the credentials themselves. Used both by the explicit
// delete endpoint and the app/uninstalled webhook.
func (s *CredentialService) Offboard(ctx context.Context, tenantID uuid.UUID) error {
	t, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil // already gone
		}
		return err
	}

	if err := s.timeslots.DeleteAllForTenant(ctx, tenantID); err != nil {
		return err
	}
	if err := s.blocked.DeleteAllForTenant(ctx, tenantID); err != nil {
		return err
	}
	if err := s.settings.DeleteForTenant(ctx, tenantID); err != nil {
		return err
	}
	if err := s.logs.DeleteAllForTenant(ctx, tenantID); err != nil {
		return err
	}
	if err := s.tenants.Delete(ctx, tenantID); err != nil {
		return err
	}

	if err := s.events.Publish(ctx, tenant.NewUninstalledEvent(tenantID, t.ShopDomain)); err != nil {
		s.logger.Error("failed to publish uninstalled event", zap.Error(err))
	}

	s.logger.Info("tenant offboarded", zap.String("shop_domain", t.ShopDomain))
	return nil
}
