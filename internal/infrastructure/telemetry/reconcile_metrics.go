package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys for reconciliation runs.
const (
	AttrTenantID = attribute.Key("tenant_id")
	AttrTrigger  = attribute.Key("trigger")
	AttrOutcome  = attribute.Key("outcome")
)

// ReconcileMetrics tracks catalog reconciliation activity: run counts and
// durations, plus per-amount outcomes. A nil receiver is safe everywhere,
// so services can carry the metrics optionally.
type ReconcileMetrics struct {
	runsTotal       metric.Int64Counter
	runDuration     metric.Float64Histogram
	productsCreated metric.Int64Counter
	productsUpdated metric.Int64Counter
	productsDeleted metric.Int64Counter
	amountErrors    metric.Int64Counter
}

// NewReconcileMetrics creates the reconciliation instrument set on the meter.
func NewReconcileMetrics(meter metric.Meter) (*ReconcileMetrics, error) {
	m := &ReconcileMetrics{}
	var err error

	m.runsTotal, err = meter.Int64Counter(
		"slotadmin_reconcile_runs_total",
		metric.WithDescription("Total reconciliation and cleanup runs"),
		metric.WithUnit("{runs}"),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating run counter: %w", err)
	}

	m.runDuration, err = meter.Float64Histogram(
		"slotadmin_reconcile_duration_seconds",
		metric.WithDescription("Duration of reconciliation runs"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating duration histogram: %w", err)
	}

	m.productsCreated, err = meter.Int64Counter(
		"slotadmin_fee_products_created_total",
		metric.WithDescription("Fee products created in remote catalogs"),
		metric.WithUnit("{products}"),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating created counter: %w", err)
	}

	m.productsUpdated, err = meter.Int64Counter(
		"slotadmin_fee_products_updated_total",
		metric.WithDescription("Fee products whose price was corrected"),
		metric.WithUnit("{products}"),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating updated counter: %w", err)
	}

	m.productsDeleted, err = meter.Int64Counter(
		"slotadmin_fee_products_deleted_total",
		metric.WithDescription("Stale fee products removed during cleanup"),
		metric.WithUnit("{products}"),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating deleted counter: %w", err)
	}

	m.amountErrors, err = meter.Int64Counter(
		"slotadmin_reconcile_amount_errors_total",
		metric.WithDescription("Per-amount failures during reconciliation runs"),
		metric.WithUnit("{errors}"),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating error counter: %w", err)
	}

	return m, nil
}

// RecordRun records one completed reconciliation or cleanup run.
func (m *ReconcileMetrics) RecordRun(ctx context.Context, tenantID uuid.UUID, trigger, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		AttrTenantID.String(tenantID.String()),
		AttrTrigger.String(trigger),
		AttrOutcome.String(outcome),
	)
	m.runsTotal.Add(ctx, 1, attrs)
	m.runDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordOutcomes records the per-amount counters of a run.
func (m *ReconcileMetrics) RecordOutcomes(ctx context.Context, tenantID uuid.UUID, created, updated, deleted, errors int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(AttrTenantID.String(tenantID.String()))
	if created > 0 {
		m.productsCreated.Add(ctx, int64(created), attrs)
	}
	if updated > 0 {
		m.productsUpdated.Add(ctx, int64(updated), attrs)
	}
	if deleted > 0 {
		m.productsDeleted.Add(ctx, int64(deleted), attrs)
	}
	if errors > 0 {
		m.amountErrors.Add(ctx, int64(errors), attrs)
	}
}
