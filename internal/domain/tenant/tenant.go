package tenant

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/slotadmin/backend/internal/domain/shared"
)

// Status represents the lifecycle status of a tenant
type Status string

const (
	StatusActive      Status = "ACTIVE"
	StatusUninstalled Status = "UNINSTALLED"
)

// Tenant is a merchant store connected to the app. It owns the Shopify
// credentials used for both webhook verification and Admin API calls.
type Tenant struct {
	ID            uuid.UUID
	ShopDomain    string
	AccessToken   string
	APIVersion    string
	WebhookSecret string
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DefaultAPIVersion is used when a tenant is registered without an explicit
// Admin API version.
const DefaultAPIVersion = "2024-10"

// NewTenant creates an active tenant with normalized shop domain
func NewTenant(shopDomain, accessToken, apiVersion, webhookSecret string) (*Tenant, error) {
	shopDomain = NormalizeShopDomain(shopDomain)
	if shopDomain == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Shop domain is required")
	}
	if accessToken == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Access token is required")
	}
	if webhookSecret == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Webhook secret is required")
	}
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	now := time.Now()
	return &Tenant{
		ID:            uuid.New(),
		ShopDomain:    shopDomain,
		AccessToken:   accessToken,
		APIVersion:    apiVersion,
		WebhookSecret: webhookSecret,
		Status:        StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// UpdateCredentials replaces the stored credentials. Empty fields keep their
// current value so partial updates do not wipe secrets.
func (t *Tenant) UpdateCredentials(accessToken, apiVersion, webhookSecret string) {
	if accessToken != "" {
		t.AccessToken = accessToken
	}
	if apiVersion != "" {
		t.APIVersion = apiVersion
	}
	if webhookSecret != "" {
		t.WebhookSecret = webhookSecret
	}
	t.UpdatedAt = time.Now()
}

// MarkUninstalled flags the tenant after an app/uninstalled webhook
func (t *Tenant) MarkUninstalled() {
	t.Status = StatusUninstalled
	t.UpdatedAt = time.Now()
}

// IsActive reports whether the tenant can be served
func (t *Tenant) IsActive() bool {
	return t.Status == StatusActive
}

// NormalizeShopDomain lowercases and trims a myshopify domain so lookups are
// case-insensitive regardless of how the platform formats the header.
func NormalizeShopDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}
