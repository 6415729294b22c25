package expressfee

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/slotadmin/backend/internal/domain/expressfee"
	"github.com/slotadmin/backend/internal/domain/scheduling"
	"github.com/slotadmin/backend/internal/domain/tenant"
	"github.com/slotadmin/backend/internal/infrastructure/telemetry"
)

// Service errors
var (
	ErrTenantInactive = errors.New("expressfee: tenant is not active")
)

// ReconcileService keeps the storefront catalog's fee products in sync with
// the express fees configured on timeslots.
//
// The engine is idempotent: fee products are matched by their deterministic
// title signature, so running it twice in a row converges on the same state
// and creates nothing new. Amounts are processed independently; one failing
// amount is recorded and the run continues.
//
// Cleanup is a separate, explicit operation. Reconcile only adds and fixes;
// it never deletes, so a transient misread of the configuration can never
// destroy live products.
type ReconcileService struct {
	tenants   tenant.Repository
	timeslots scheduling.TimeslotRepository
	catalog   expressfee.RemoteCatalog
	logs      expressfee.LogRepository
	logger    *zap.Logger
	metrics   *telemetry.ReconcileMetrics
}

// NewReconcileService creates a reconciliation service
func NewReconcileService(
	tenants tenant.Repository,
	timeslots scheduling.TimeslotRepository,
	catalog expressfee.RemoteCatalog,
	logs expressfee.LogRepository,
	logger *zap.Logger,
) *ReconcileService {
	return &ReconcileService{
		tenants:   tenants,
		timeslots: timeslots,
		catalog:   catalog,
		logs:      logs,
		logger:    logger,
	}
}

// WithMetrics attaches reconciliation metrics. The service works without
// them; a nil instrument set records nothing.
func (s *ReconcileService) WithMetrics(metrics *telemetry.ReconcileMetrics) *ReconcileService {
	s.metrics = metrics
	return s
}

// FeeSet returns the distinct express fee amounts currently configured
func (s *ReconcileService) FeeSet(ctx context.Context, tenantID uuid.UUID) ([]decimal.Decimal, error) {
	slots, err := s.timeslots.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("expressfee: loading timeslots: %w", err)
	}
	return expressfee.ExtractFeeSet(slots), nil
}

// Reconcile brings the catalog in line with the configured fee set.
// For each amount: create the fee product if missing, fix its price if it
// drifted, otherwise leave it alone.
func (s *ReconcileService) Reconcile(ctx context.Context, tenantID uuid.UUID, trigger string) (*expressfee.ReconcileResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "reconcile", "run",
		attribute.String("tenant_id", tenantID.String()),
		attribute.String("trigger", trigger),
	)
	defer span.End()

	t, creds, err := s.credentials(ctx, tenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	amounts, err := s.FeeSet(ctx, tenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result := &expressfee.ReconcileResult{
		Created:   make([]decimal.Decimal, 0),
		Updated:   make([]decimal.Decimal, 0),
		Skipped:   make([]decimal.Decimal, 0),
		Errors:    make([]expressfee.AmountError, 0),
		StartedAt: time.Now(),
	}

	for _, amount := range amounts {
		if err := s.reconcileAmount(ctx, creds, amount, result); err != nil {
			result.Errors = append(result.Errors, expressfee.AmountError{
				Amount:  amount,
				Message: err.Error(),
			})
			s.logger.Warn("fee amount failed to reconcile",
				zap.String("shop_domain", t.ShopDomain),
				zap.String("amount", amount.StringFixed(2)),
				zap.Error(err),
			)
		}
	}
	result.CompletedAt = time.Now()

	s.logger.Info("reconciliation run finished",
		zap.String("shop_domain", t.ShopDomain),
		zap.String("trigger", trigger),
		zap.Int("created", len(result.Created)),
		zap.Int("updated", len(result.Updated)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("errors", len(result.Errors)),
	)

	status := expressfee.StatusFor(
		len(result.Created)+len(result.Updated)+len(result.Skipped), len(result.Errors))
	s.metrics.RecordRun(ctx, tenantID, trigger, string(status), result.CompletedAt.Sub(result.StartedAt))
	s.metrics.RecordOutcomes(ctx, tenantID, len(result.Created), len(result.Updated), 0, len(result.Errors))

	s.recordReconcileRun(ctx, tenantID, trigger, result)
	return result, nil
}

// reconcileAmount handles a single fee amount
func (s *ReconcileService) reconcileAmount(ctx context.Context, creds expressfee.CatalogCredentials, amount decimal.Decimal, result *expressfee.ReconcileResult) error {
	product, err := s.catalog.FindBySignature(ctx, creds, amount)
	if err != nil && !errors.Is(err, expressfee.ErrProductNotFound) {
		return err
	}

	if product == nil || errors.Is(err, expressfee.ErrProductNotFound) {
		if _, err := s.catalog.Create(ctx, creds, amount); err != nil {
			return err
		}
		result.Created = append(result.Created, amount)
		return nil
	}

	if !product.PriceMatches(amount) {
		if err := s.catalog.UpdatePrice(ctx, creds, product, amount); err != nil {
			return err
		}
		result.Updated = append(result.Updated, amount)
		return nil
	}

	result.Skipped = append(result.Skipped, amount)
	return nil
}

// Cleanup deletes fee products whose amount is not in the active set.
// When activeAmounts is nil the current configured fee set is used.
func (s *ReconcileService) Cleanup(ctx context.Context, tenantID uuid.UUID, activeAmounts []decimal.Decimal, trigger string) (*expressfee.CleanupResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "reconcile", "cleanup",
		attribute.String("tenant_id", tenantID.String()),
		attribute.String("trigger", trigger),
	)
	defer span.End()

	t, creds, err := s.credentials(ctx, tenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if activeAmounts == nil {
		activeAmounts, err = s.FeeSet(ctx, tenantID)
		if err != nil {
			return nil, err
		}
	}

	products, err := s.catalog.ListByMarker(ctx, creds)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("expressfee: listing fee products: %w", err)
	}

	result := &expressfee.CleanupResult{
		Deleted:   make([]decimal.Decimal, 0),
		Kept:      make([]decimal.Decimal, 0),
		Errors:    make([]expressfee.AmountError, 0),
		StartedAt: time.Now(),
	}

	for _, product := range products {
		if expressfee.ContainsAmount(activeAmounts, product.Price) {
			result.Kept = append(result.Kept, product.Price)
			continue
		}
		// A product already gone from the catalog is exactly the state
		// cleanup wants, so a missing-product answer counts as deleted
		if err := s.catalog.Delete(ctx, creds, product.RemoteID); err != nil && !errors.Is(err, expressfee.ErrProductNotFound) {
			result.Errors = append(result.Errors, expressfee.AmountError{
				Amount:  product.Price,
				Message: err.Error(),
			})
			continue
		}
		result.Deleted = append(result.Deleted, product.Price)
	}
	result.CompletedAt = time.Now()

	s.logger.Info("cleanup run finished",
		zap.String("shop_domain", t.ShopDomain),
		zap.String("trigger", trigger),
		zap.Int("deleted", len(result.Deleted)),
		zap.Int("kept", len(result.Kept)),
		zap.Int("errors", len(result.Errors)),
	)

	status := expressfee.StatusFor(len(result.Deleted)+len(result.Kept), len(result.Errors))
	s.metrics.RecordRun(ctx, tenantID, trigger, string(status), result.CompletedAt.Sub(result.StartedAt))
	s.metrics.RecordOutcomes(ctx, tenantID, 0, 0, len(result.Deleted), len(result.Errors))

	s.recordCleanupRun(ctx, tenantID, trigger, result)
	return result, nil
}

// ListRemoteProducts returns all fee products currently in the catalog
func (s *ReconcileService) ListRemoteProducts(ctx context.Context, tenantID uuid.UUID) ([]expressfee.FeeProduct, error) {
	_, creds, err := s.credentials(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return s.catalog.ListByMarker(ctx, creds)
}

// RecentRuns returns the latest persisted audit records
func (s *ReconcileService) RecentRuns(ctx context.Context, tenantID uuid.UUID, limit int) ([]expressfee.ReconciliationLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.logs.FindRecentForTenant(ctx, tenantID, limit)
}

func (s *ReconcileService) credentials(ctx context.Context, tenantID uuid.UUID) (*tenant.Tenant, expressfee.CatalogCredentials, error) {
	t, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, expressfee.CatalogCredentials{}, err
	}
	if !t.IsActive() {
		return nil, expressfee.CatalogCredentials{}, ErrTenantInactive
	}
	return t, expressfee.CatalogCredentials{
		ShopDomain:  t.ShopDomain,
		AccessToken: t.AccessToken,
		APIVersion:  t.APIVersion,
	}, nil
}

func (s *ReconcileService) recordReconcileRun(ctx context.Context, tenantID uuid.UUID, trigger string, result *expressfee.ReconcileResult) {
	processed := len(result.Created) + len(result.Updated) + len(result.Skipped)
	logEntry := &expressfee.ReconciliationLog{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Kind:         expressfee.RunKindReconcile,
		Status:       expressfee.StatusFor(processed, len(result.Errors)),
		Trigger:      trigger,
		CreatedCount: len(result.Created),
		UpdatedCount: len(result.Updated),
		SkippedCount: len(result.Skipped),
		ErrorCount:   len(result.Errors),
		ErrorDetail:  joinAmountErrors(result.Errors),
		StartedAt:    result.StartedAt,
		CompletedAt:  result.CompletedAt,
	}
	if err := s.logs.Save(ctx, logEntry); err != nil {
		s.logger.Error("failed to persist reconciliation log", zap.Error(err))
	}
}

func (s *ReconcileService) recordCleanupRun(ctx context.Context, tenantID uuid.UUID, trigger string, result *expressfee.CleanupResult) {
	processed := len(result.Deleted) + len(result.Kept)
	logEntry := &expressfee.ReconciliationLog{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Kind:         expressfee.RunKindCleanup,
		Status:       expressfee.StatusFor(processed, len(result.Errors)),
		Trigger:      trigger,
		DeletedCount: len(result.Deleted),
		ErrorCount:   len(result.Errors),
		ErrorDetail:  joinAmountErrors(result.Errors),
		StartedAt:    result.StartedAt,
		CompletedAt:  result.CompletedAt,
	}
	if err := s.logs.Save(ctx, logEntry); err != nil {
		s.logger.Error("failed to persist cleanup log", zap.Error(err))
	}
}

func joinAmountErrors(errs []expressfee.AmountError) string {
	if len(errs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Amount.StringFixed(2), e.Message))
	}
	return strings.Join(parts, "; ")
}
