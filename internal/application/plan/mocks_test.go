package plan

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/plan"
	"github.com/isp/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockPaymentMethodRepository is a mock implementation of PaymentMethodRepository
type MockPaymentMethodRepository struct {
	mock.Mock
}

func (m *MockPaymentMethodRepository) FindByID(ctx context.Context, id uuid.UUID) (*plan.PaymentMethod, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodRepository) FindAll(ctx context.Context, filter shared.Filter) ([]plan.PaymentMethod, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]plan.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentMethodRepository) Save(ctx context.Context, pm *plan.PaymentMethod) error {
	return m.Called(ctx, pm).Error(0)
}

func (m *MockPaymentMethodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockConnectionTypeRepository is a mock implementation of ConnectionTypeRepository
type MockConnectionTypeRepository struct {
	mock.Mock
}

func (m *MockConnectionTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*plan.ConnectionType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.ConnectionType), args.Error(1)
}

func (m *MockConnectionTypeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]plan.ConnectionType, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]plan.ConnectionType), args.Error(1)
}

func (m *MockConnectionTypeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockConnectionTypeRepository) Save(ctx context.Context, ct *plan.ConnectionType) error {
	return m.Called(ctx, ct).Error(0)
}

func (m *MockConnectionTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockPlanRepository is a mock implementation of PlanRepository
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*plan.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Plan), args.Error(1)
}

func (m *MockPlanRepository) FindByCode(ctx context.Context, code string) (*plan.Plan, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Plan), args.Error(1)
}

func (m *MockPlanRepository) FindAll(ctx context.Context, filter shared.Filter) ([]plan.Plan, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]plan.Plan), args.Error(1)
}

func (m *MockPlanRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlanRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlanRepository) Save(ctx context.Context, p *plan.Plan) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockSubscriberRepository is a mock implementation of SubscriberRepository
type MockSubscriberRepository struct {
	mock.Mock
}

func (m *MockSubscriberRepository) FindByID(ctx context.Context, id uuid.UUID) (*plan.Subscriber, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Subscriber), args.Error(1)
}

func (m *MockSubscriberRepository) FindAll(ctx context.Context, filter shared.Filter) ([]plan.Subscriber, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]plan.Subscriber), args.Error(1)
}

func (m *MockSubscriberRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubscriberRepository) ExistsByDocument(ctx context.Context, documentNumber string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, documentNumber, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriberRepository) Save(ctx context.Context, s *plan.Subscriber) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSubscriberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSubscriberRepository) CountByStatusAndCoverage(ctx context.Context) ([]plan.StatusCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]plan.StatusCount), args.Error(1)
}

func (m *MockSubscriberRepository) CountByType(ctx context.Context) ([]plan.KeyCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]plan.KeyCount), args.Error(1)
}

func (m *MockSubscriberRepository) CountByCoverage(ctx context.Context) ([]plan.KeyCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]plan.KeyCount), args.Error(1)
}

func (m *MockSubscriberRepository) TopZones(ctx context.Context, limit int) ([]plan.KeyCount, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]plan.KeyCount), args.Error(1)
}

// mapCache is a StatsCache backed by a map of JSON documents
type mapCache struct {
	items   map[string][]byte
	deletes int
}

func newMapCache() *mapCache {
	return &mapCache{items: map[string][]byte{}}
}

func (c *mapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = raw
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	delete(c.items, key)
	c.deletes++
	return nil
}
