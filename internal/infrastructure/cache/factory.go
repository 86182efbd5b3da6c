package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/isp/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// StatsCache is the cache contract shared by both backends
type StatsCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Factory creates stats caches based on configuration
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// the in-memory cache. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateRedisCache connects a Redis-backed cache
func (f *Factory) CreateRedisCache() (StatsCache, error) {
	c, err := NewRedisStatsCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis stats cache: %w", err)
	}
	return c, nil
}

// Create returns Redis when enabled and reachable, otherwise the in-memory cache
func (f *Factory) Create() (StatsCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory stats cache")
		return NewInMemoryStatsCache(), nil
	}

	c, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("Using Redis stats cache", zap.String("addr", f.redisConfig.Addr()))
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for stats cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory stats cache. "+
		"Instances will compute statistics independently.",
		zap.Error(err),
	)
	return NewInMemoryStatsCache(), nil
}
