package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds database tracing configuration.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool          // include query variables in spans; keep off in production
	SlowQueryThresh time.Duration // default 200ms
	DBName          string
}

// DefaultDBTracingConfig returns the default database tracing configuration.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:         false,
		LogFullSQL:      false,
		SlowQueryThresh: 200 * time.Millisecond,
		DBName:          "postgresql",
	}
}

type queryTimeKey struct{}

// RegisterDBTracing installs the otelgorm plugin plus callbacks that mark
// errors and slow queries on the active span. A no-op when disabled.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled")
		return nil
	}
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	before := func(db *gorm.DB) {
		if db.Statement.Context != nil {
			db.Statement.Context = context.WithValue(db.Statement.Context, queryTimeKey{}, time.Now())
		}
	}
	after := func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}
		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, db.Error.Error())
			span.RecordError(db.Error)
		}
		if start, ok := ctx.Value(queryTimeKey{}).(time.Time); ok {
			if elapsed := time.Since(start); elapsed > cfg.SlowQueryThresh {
				span.SetAttributes(attribute.Bool("db.slow_query", true))
				span.AddEvent("slow_query", trace.WithAttributes(
					attribute.Int64("duration_ms", elapsed.Milliseconds()),
					attribute.Int64("threshold_ms", cfg.SlowQueryThresh.Milliseconds()),
				))
			}
		}
	}

	type hook struct {
		register func(string, func(*gorm.DB)) error
		name     string
		fn       func(*gorm.DB)
	}
	hooks := []hook{
		{db.Callback().Create().Before("gorm:create").Register, "otel_timing:before_create", before},
		{db.Callback().Query().Before("gorm:query").Register, "otel_timing:before_query", before},
		{db.Callback().Update().Before("gorm:update").Register, "otel_timing:before_update", before},
		{db.Callback().Delete().Before("gorm:delete").Register, "otel_timing:before_delete", before},
		{db.Callback().Row().Before("gorm:row").Register, "otel_timing:before_row", before},
		{db.Callback().Raw().Before("gorm:raw").Register, "otel_timing:before_raw", before},
		{db.Callback().Create().After("gorm:create").Register, "otel_timing:after_create", after},
		{db.Callback().Query().After("gorm:query").Register, "otel_timing:after_query", after},
		{db.Callback().Update().After("gorm:update").Register, "otel_timing:after_update", after},
		{db.Callback().Delete().After("gorm:delete").Register, "otel_timing:after_delete", after},
		{db.Callback().Row().After("gorm:row").Register, "otel_timing:after_row", after},
		{db.Callback().Raw().After("gorm:raw").Register, "otel_timing:after_raw", after},
	}
	for _, h := range hooks {
		if err := h.register(h.name, h.fn); err != nil {
			return err
		}
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}
