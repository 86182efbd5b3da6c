package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	legacyapp "github.com/isp/backend/internal/application/legacy"
	networkapp "github.com/isp/backend/internal/application/network"
	planapp "github.com/isp/backend/internal/application/plan"
	workorderapp "github.com/isp/backend/internal/application/workorder"
	"github.com/isp/backend/internal/domain/geo"
	"github.com/isp/backend/internal/infrastructure/auth"
	"github.com/isp/backend/internal/infrastructure/cache"
	"github.com/isp/backend/internal/infrastructure/config"
	"github.com/isp/backend/internal/infrastructure/event"
	"github.com/isp/backend/internal/infrastructure/federation"
	"github.com/isp/backend/internal/infrastructure/logger"
	"github.com/isp/backend/internal/infrastructure/persistence"
	"github.com/isp/backend/internal/infrastructure/telemetry"
	"github.com/isp/backend/internal/interfaces/http/handler"
	"github.com/isp/backend/internal/interfaces/http/middleware"
	"github.com/isp/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	logsProvider, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.Logs,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		ServiceName:       cfg.App.Name,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize OTEL logs", zap.Error(err))
	}
	if logsProvider.IsEnabled() {
		log = logger.WithOTel(log, cfg.App.Name, logsProvider.Provider(), logger.ParseLevel(cfg.Log.Level))
	}

	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.TracingConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.App.Name,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	log.Info("Starting ISP backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = tracerProvider.IsEnabled() && cfg.Telemetry.DBTracing
	if err := telemetry.RegisterDBTracing(db.DB, dbTracing, tracerProvider.Provider(), log); err != nil {
		log.Warn("Database tracing disabled", zap.Error(err))
	}

	metrics := telemetry.NewMetrics()
	if _, err := telemetry.RegisterDBMetrics(db.DB, metrics, telemetry.DefaultDBMetricsConfig(), log); err != nil {
		log.Warn("Database metrics disabled", zap.Error(err))
	}

	statsCache, err := cache.NewFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	).Create()
	if err != nil {
		log.Fatal("Failed to create stats cache", zap.Error(err))
	}
	defer func() {
		_ = statsCache.Close()
	}()

	source, err := federation.Open(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("Failed to open federated source", zap.Error(err))
	}
	defer func() {
		_ = source.Close()
	}()

	eventBus := event.NewInMemoryEventBus(log)
	activityLog := event.NewActivityLogHandler(log)
	eventBus.Subscribe(activityLog, activityLog.EventTypes()...)

	distanceMode, err := geo.ParseDistanceMode(cfg.Geo.DistanceMode)
	if err != nil {
		log.Fatal("Invalid distance mode", zap.Error(err))
	}

	// Repositories
	neighborhoodRepo := persistence.NewGormNeighborhoodRepository(db.DB)
	poleRepo := persistence.NewGormPoleRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	paymentMethodRepo := persistence.NewGormPaymentMethodRepository(db.DB)
	connectionTypeRepo := persistence.NewGormConnectionTypeRepository(db.DB)
	planRepo := persistence.NewGormPlanRepository(db.DB)
	subscriberRepo := persistence.NewGormSubscriberRepository(db.DB)
	requestRepo := persistence.NewGormWorkRequestRepository(db.DB)
	contractRepo := persistence.NewGormContractRepository(db.DB)

	// Application services
	networkTx := persistence.NewGormNetworkTransactionScope(db.DB)
	allocator := networkapp.NewAllocatorService(poleRepo, customerRepo, networkTx, networkapp.AllocatorConfig{
		DefaultRadius: cfg.Allocator.DefaultRadius,
		MaxAttempts:   cfg.Allocator.MaxAttempts,
		DistanceMode:  distanceMode,
	}, log)
	allocator.SetObserver(metrics)
	allocator.SetTracerProvider(tracerProvider.Provider())
	allocator.SetEventPublisher(eventBus)

	neighborhoodService := networkapp.NewNeighborhoodService(neighborhoodRepo, poleRepo)
	poleService := networkapp.NewPoleService(poleRepo, neighborhoodRepo, allocator)
	customerService := networkapp.NewCustomerService(customerRepo, poleRepo, neighborhoodService, allocator, networkTx, log)

	catalogService := planapp.NewCatalogService(paymentMethodRepo, connectionTypeRepo)
	planService := planapp.NewPlanService(planRepo, paymentMethodRepo, connectionTypeRepo)
	subscriberService := planapp.NewSubscriberService(subscriberRepo, planRepo, statsCache, cfg.Cache.StatsTTL, log)

	requestService := workorderapp.NewRequestService(
		requestRepo, contractRepo, customerRepo, planRepo, allocator,
		persistence.NewGormWorkOrderTransactionScope(db.DB), log)
	requestService.SetEventPublisher(eventBus)
	contractService := workorderapp.NewContractService(contractRepo)

	lookupService := legacyapp.NewLookupService(
		persistence.NewGormInvoiceRepository(db.DB),
		persistence.NewGormServiceContractRepository(db.DB),
		persistence.NewGormLegacyClientRepository(db.DB),
		source,
		persistence.NewGormLegacyTransactionScope(db.DB),
		log,
	)

	health := handler.NewHealthHandler().
		AddCheck("database", func(context.Context) error { return db.Ping() }, true).
		AddCheck("cache", statsCache.Ping, false).
		AddCheck("federation", source.Ping, false)

	var jwtService *auth.JWTService
	if cfg.JWT.Enabled {
		jwtService = auth.NewJWTService(cfg.JWT)
	}

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow, cfg.HTTP.RateLimitBurst)
		defer limiter.Close()
	}

	engine, err := router.NewEngine(router.EngineConfig{
		HTTP:        cfg.HTTP,
		Logger:      log,
		Metrics:     metrics,
		Health:      health,
		JWT:         jwtService,
		Limiter:     limiter,
		Tracer:      tracingFor(tracerProvider),
		ServiceName: cfg.App.Name,
		Handlers: router.Handlers{
			Neighborhoods: handler.NewNeighborhoodHandler(neighborhoodService),
			Poles:         handler.NewPoleHandler(poleService),
			Customers:     handler.NewCustomerHandler(customerService),
			Catalog:       handler.NewCatalogHandler(catalogService),
			Plans:         handler.NewPlanHandler(planService),
			Subscribers:   handler.NewSubscriberHandler(subscriberService),
			Requests:      handler.NewRequestHandler(requestService),
			Contracts:     handler.NewContractHandler(contractService),
			Legacy:        handler.NewLegacyHandler(lookupService),
		},
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := tracerProvider.Shutdown(ctx); err != nil {
		log.Warn("Tracer shutdown failed", zap.Error(err))
	}
	if err := logsProvider.Shutdown(ctx); err != nil {
		log.Warn("OTEL logs shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// tracingFor returns nil when tracing is off so the engine skips the
// tracing middleware entirely
func tracingFor(tp *telemetry.TracerProvider) trace.TracerProvider {
	if !tp.IsEnabled() {
		return nil
	}
	return tp.Provider()
}
