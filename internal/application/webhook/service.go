package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/slotadmin/backend/internal/domain/shared"
	"github.com/slotadmin/backend/internal/domain/tenant"
)

// Processing errors, mapped to HTTP status codes by the webhook endpoint
var (
	// ErrUnknownTenant means the shop domain resolved to no tenant (404)
	ErrUnknownTenant = errors.New("webhook: unknown shop domain")
	// ErrInvalidSignature means HMAC verification failed (401)
	ErrInvalidSignature = errors.New("webhook: invalid signature")
	// ErrMalformedPayload means the body is not valid JSON (400)
	ErrMalformedPayload = errors.New("webhook: malformed payload")
)

// ProcessInput carries one raw webhook delivery
type ProcessInput struct {
	ShopDomain string
	Topic      string
	Signature  string
	WebhookID  string
	APIVersion string
	RawBody    []byte
}

// Service verifies and dispatches webhook deliveries.
//
// Order of checks matters and is part of the endpoint contract:
// tenant resolution first (the signing secret is per-tenant), then the
// HMAC check over the raw bytes, then JSON well-formedness. Once all
// three pass the delivery is acknowledged no matter what the topic
// handler does with it.
type Service struct {
	tenants    tenant.Repository
	dispatcher *Dispatcher
	dedupe     shared.IdempotencyStore
	dedupeCfg  shared.IdempotencyConfig
	logger     *zap.Logger
}

// NewService creates a webhook processing service
func NewService(
	tenants tenant.Repository,
	dispatcher *Dispatcher,
	dedupe shared.IdempotencyStore,
	dedupeCfg shared.IdempotencyConfig,
	logger *zap.Logger,
) *Service {
	return &Service{
		tenants:    tenants,
		dispatcher: dispatcher,
		dedupe:     dedupe,
		dedupeCfg:  dedupeCfg,
		logger:     logger,
	}
}

// Process handles one delivery end to end. A nil return means the delivery
// must be acknowledged with 200; the sentinel errors map to 404/401/400.
func (s *Service) Process(ctx context.Context, input ProcessInput) error {
	shopDomain := tenant.NormalizeShopDomain(input.ShopDomain)
	if shopDomain == "" {
		return ErrUnknownTenant
	}

	t, err := s.tenants.FindByShopDomain(ctx, shopDomain)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("webhook for unknown shop",
				zap.String("shop_domain", shopDomain),
				zap.String("topic", input.Topic),
			)
			return ErrUnknownTenant
		}
		return fmt.Errorf("webhook: tenant lookup failed: %w", err)
	}

	if !VerifySignature(input.RawBody, input.Signature, t.WebhookSecret) {
		s.logger.Warn("webhook signature rejected",
			zap.String("shop_domain", shopDomain),
			zap.String("topic", input.Topic),
			zap.String("webhook_id", input.WebhookID),
		)
		return ErrInvalidSignature
	}

	if !json.Valid(input.RawBody) {
		return ErrMalformedPayload
	}

	if s.dedupeCfg.Enabled && input.WebhookID != "" {
		fresh, err := s.dedupe.MarkProcessed(ctx, input.WebhookID, s.dedupeCfg.TTL)
		if err != nil {
			// Dedupe is best effort; a store outage must not block deliveries
			s.logger.Warn("webhook dedupe check failed",
				zap.String("webhook_id", input.WebhookID),
				zap.Error(err),
			)
		} else if !fresh {
			s.logger.Info("duplicate webhook delivery acknowledged",
				zap.String("shop_domain", shopDomain),
				zap.String("topic", input.Topic),
				zap.String("webhook_id", input.WebhookID),
			)
			return nil
		}
	}

	s.dispatcher.Dispatch(ctx, &Delivery{
		Tenant:     t,
		Topic:      input.Topic,
		WebhookID:  input.WebhookID,
		APIVersion: input.APIVersion,
		Payload:    input.RawBody,
	})

	return nil
}
