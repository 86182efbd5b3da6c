package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/isp/backend/internal/infrastructure/auth"
	"github.com/isp/backend/internal/infrastructure/config"
	"github.com/isp/backend/internal/infrastructure/logger"
	"github.com/isp/backend/internal/interfaces/http/dto"
	"github.com/isp/backend/internal/interfaces/http/handler"
	"github.com/isp/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// MetricsPath is where the Prometheus registry is exposed
const MetricsPath = "/metrics"

// Metrics is the telemetry surface the engine needs
type Metrics interface {
	middleware.HTTPObserver
	Handler() http.Handler
}

// EngineConfig carries everything needed to build the HTTP engine
type EngineConfig struct {
	HTTP     config.HTTPConfig
	Logger   *zap.Logger
	Metrics  Metrics
	Health   *handler.HealthHandler
	Handlers Handlers
	// JWT is nil when authentication is disabled
	JWT *auth.JWTService
	// Limiter is nil when rate limiting is disabled
	Limiter *middleware.RateLimiter
	// Tracer is nil when tracing is disabled
	Tracer trace.TracerProvider
	// ServiceName names the server spans
	ServiceName string
}

// NewEngine builds the gin engine with the full middleware chain, the API
// routes, /health and /metrics.
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(middleware.RequestID())
	if cfg.Tracer != nil {
		engine.Use(middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.ServiceName,
			Provider:    cfg.Tracer,
			SkipPaths:   []string{"/health", MetricsPath},
		})...)
	}
	engine.Use(
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORSWithConfig(middleware.CORSConfigFrom(cfg.HTTP)),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)
	if cfg.Limiter != nil {
		engine.Use(middleware.RateLimit(cfg.Limiter))
	}
	if cfg.Metrics != nil {
		engine.Use(middleware.Metrics(cfg.Metrics, MetricsPath))
		engine.GET(MetricsPath, gin.WrapH(cfg.Metrics.Handler()))
	}

	health := cfg.Health
	if health == nil {
		health = handler.NewHealthHandler()
	}
	engine.GET("/health", health.Health)

	guards := Guards{}
	var apiMiddleware []gin.HandlerFunc
	if cfg.JWT != nil {
		apiMiddleware = append(apiMiddleware, middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService: cfg.JWT,
			Logger:     log,
		}))
		guards = RoleGuards()
	}

	r := NewRouter(engine, WithAPIVersion("v1"), WithAPIMiddleware(apiMiddleware...))
	r.Register(DomainGroups(cfg.Handlers, guards)...)
	r.Setup()

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeRouteMissing, "Route not found", middleware.GetRequestID(c)))
	})

	return engine, nil
}
