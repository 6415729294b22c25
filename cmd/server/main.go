package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	expressfeeapp "github.com/slotadmin/backend/internal/application/expressfee"
	identityapp "github.com/slotadmin/backend/internal/application/identity"
	schedulingapp "github.com/slotadmin/backend/internal/application/scheduling"
	tenantapp "github.com/slotadmin/backend/internal/application/tenant"
	webhookapp "github.com/slotadmin/backend/internal/application/webhook"
	"github.com/slotadmin/backend/internal/domain/shared"
	"github.com/slotadmin/backend/internal/infrastructure/auth"
	"github.com/slotadmin/backend/internal/infrastructure/cache"
	"github.com/slotadmin/backend/internal/infrastructure/config"
	"github.com/slotadmin/backend/internal/infrastructure/event"
	"github.com/slotadmin/backend/internal/infrastructure/logger"
	"github.com/slotadmin/backend/internal/infrastructure/persistence"
	"github.com/slotadmin/backend/internal/infrastructure/scheduler"
	"github.com/slotadmin/backend/internal/infrastructure/shopify"
	"github.com/slotadmin/backend/internal/infrastructure/telemetry"
	"github.com/slotadmin/backend/internal/interfaces/http/handler"
	"github.com/slotadmin/backend/internal/interfaces/http/middleware"
	"github.com/slotadmin/backend/internal/interfaces/http/router"
)

var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	// Telemetry providers; each degrades to a no-op when disabled
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	logsProvider, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	if logsProvider.IsEnabled() {
		log = telemetry.BridgeLogger(log, logsProvider.NewZapCore(logger.ParseLevel(cfg.Log.Level)))
	}

	log.Info("Starting slot admin backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	timeslotRepo := persistence.NewGormTimeslotRepository(db.DB)
	blockedDateRepo := persistence.NewGormBlockedDateRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	runLogRepo := persistence.NewGormReconciliationLogRepository(db.DB)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Storefront catalog client and reconciliation
	catalogClient := shopify.NewClient(shopify.Config{
		Timeout: time.Duration(cfg.Shopify.TimeoutSeconds) * time.Second,
	}, log)
	reconcileService := expressfeeapp.NewReconcileService(tenantRepo, timeslotRepo, catalogClient, runLogRepo, log)
	if meterProvider.IsEnabled() {
		reconcileMetrics, err := telemetry.NewReconcileMetrics(meterProvider.Meter(cfg.Telemetry.ServiceName))
		if err != nil {
			log.Fatal("Failed to create reconcile metrics", zap.Error(err))
		}
		reconcileService.WithMetrics(reconcileMetrics)
	}

	reconcileScheduler, err := scheduler.NewReconcileScheduler(scheduler.Config{
		Workers:    cfg.Scheduler.Workers,
		QueueSize:  cfg.Scheduler.QueueSize,
		JobTimeout: cfg.Scheduler.JobTimeout,
		MaxHistory: cfg.Scheduler.MaxHistory,
	}, reconcileService, log)
	if err != nil {
		log.Fatal("Invalid scheduler configuration", zap.Error(err))
	}
	if cfg.Scheduler.Enabled {
		if err := reconcileScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start reconcile scheduler", zap.Error(err))
		}
	}
	eventBus.Subscribe(scheduler.NewReconcileEventHandler(reconcileScheduler, log))

	// Application services
	credentialService := tenantapp.NewCredentialService(
		tenantRepo, timeslotRepo, blockedDateRepo, settingsRepo, runLogRepo, eventBus, log)
	timeslotService := schedulingapp.NewTimeslotService(timeslotRepo, blockedDateRepo, eventBus, log)
	settingsService := schedulingapp.NewSettingsService(settingsRepo, log)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	authService := identityapp.NewAuthService(identityapp.AdminAccount{
		Username:     cfg.Admin.Username,
		PasswordHash: cfg.Admin.PasswordHash,
	}, jwtService, log)

	// Webhook ingestion
	dedupeStore := newDedupeStore(cfg, log)
	defer func() {
		_ = dedupeStore.Close()
	}()

	dispatcher := webhookapp.NewDispatcher(log)
	dispatcher.Register(webhookapp.NewCatalogHandler(reconcileScheduler, log))
	dispatcher.Register(webhookapp.NewOrderHandler(log))
	dispatcher.Register(webhookapp.NewActivityHandler(log))
	dispatcher.Register(webhookapp.NewLifecycleHandler(credentialService, log))

	webhookService := webhookapp.NewService(tenantRepo, dispatcher, dedupeStore, shared.IdempotencyConfig{
		Enabled: cfg.Webhook.DedupeEnabled,
		TTL:     cfg.Webhook.DedupeTTL,
	}, log)

	// HTTP engine
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.HTTP.CORSAllowOrigins

	engine.Use(
		middleware.RequestID(),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		middleware.TraceEnrichment(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsCfg),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	// Routes
	r := router.New(engine,
		router.WithAPIVersion("v1"),
		router.WithAPIMiddleware(middleware.JWT(jwtService, middleware.JWTConfig{
			SkipPaths: []string{"/api/v1/auth/login"},
		})),
		router.WithWebhookMiddleware(middleware.BodyLimit(cfg.Webhook.MaxBodySize)),
	)
	r.System(handler.NewSystemHandler(db, version, log))
	r.Webhooks(handler.NewWebhookHandler(webhookService, log))
	r.API(
		handler.NewAuthHandler(authService, log),
		handler.NewTenantHandler(credentialService, log),
		handler.NewTimeslotHandler(timeslotService, log),
		handler.NewSettingsHandler(settingsService, log),
		handler.NewAutomationHandler(reconcileScheduler, reconcileService, log),
	)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()
	log.Info("HTTP server listening", zap.String("addr", srv.Addr))

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if err := reconcileScheduler.Stop(shutdownCtx); err != nil {
		log.Error("Scheduler shutdown failed", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Event bus shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Meter provider shutdown failed", zap.Error(err))
	}
	if err := logsProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Logger provider shutdown failed", zap.Error(err))
	}
	log.Info("Shutdown complete")
}

// newDedupeStore picks Redis when configured and falls back to the
// in-process store otherwise. Single-instance deployments lose nothing
// with the in-memory store beyond dedupe across restarts.
func newDedupeStore(cfg *config.Config, log *zap.Logger) shared.IdempotencyStore {
	if !cfg.Redis.Enabled {
		return cache.NewInMemoryIdempotencyStore()
	}
	store, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory webhook dedupe", zap.Error(err))
		return cache.NewInMemoryIdempotencyStore()
	}
	log.Info("Webhook dedupe backed by Redis")
	return store
}
