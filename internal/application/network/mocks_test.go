package network

import (
	"context"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/geo"
	"github.com/isp/backend/internal/domain/network"
	"github.com/isp/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockPoleRepository is a mock implementation of PoleRepository
type MockPoleRepository struct {
	mock.Mock
}

func (m *MockPoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*network.Pole, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*network.Pole), args.Error(1)
}

func (m *MockPoleRepository) FindByCode(ctx context.Context, code string) (*network.Pole, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*network.Pole), args.Error(1)
}

func (m *MockPoleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]network.Pole, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]network.Pole), args.Error(1)
}

func (m *MockPoleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPoleRepository) FindByNeighborhood(ctx context.Context, neighborhoodID uuid.UUID, filter shared.Filter) ([]network.Pole, error) {
	args := m.Called(ctx, neighborhoodID, filter)
	return args.Get(0).([]network.Pole), args.Error(1)
}

func (m *MockPoleRepository) FindAvailableInBox(ctx context.Context, box geo.BoundingBox) ([]network.Pole, error) {
	args := m.Called(ctx, box)
	return args.Get(0).([]network.Pole), args.Error(1)
}

func (m *MockPoleRepository) Save(ctx context.Context, pole *network.Pole) error {
	args := m.Called(ctx, pole)
	return args.Error(0)
}

func (m *MockPoleRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockPoleRepository) Reserve(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPoleRepository) Release(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*network.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*network.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]network.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]network.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) FindByPole(ctx context.Context, poleID uuid.UUID) ([]network.Customer, error) {
	args := m.Called(ctx, poleID)
	return args.Get(0).([]network.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *network.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) SaveWithLock(ctx context.Context, customer *network.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) CountByStatus(ctx context.Context) (map[network.CustomerStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[network.CustomerStatus]int64), args.Error(1)
}

// MockNeighborhoodRepository is a mock implementation of NeighborhoodRepository
type MockNeighborhoodRepository struct {
	mock.Mock
}

func (m *MockNeighborhoodRepository) FindByID(ctx context.Context, id uuid.UUID) (*network.Neighborhood, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*network.Neighborhood), args.Error(1)
}

func (m *MockNeighborhoodRepository) FindByName(ctx context.Context, name string) (*network.Neighborhood, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*network.Neighborhood), args.Error(1)
}

func (m *MockNeighborhoodRepository) FindAll(ctx context.Context, filter shared.Filter) ([]network.Neighborhood, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]network.Neighborhood), args.Error(1)
}

func (m *MockNeighborhoodRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNeighborhoodRepository) FindBoxContaining(ctx context.Context, p geo.Point) ([]network.Neighborhood, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]network.Neighborhood), args.Error(1)
}

func (m *MockNeighborhoodRepository) CountPoles(ctx context.Context, id uuid.UUID) (int64, int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockNeighborhoodRepository) Save(ctx context.Context, n *network.Neighborhood) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNeighborhoodRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

// recordingObserver collects allocation outcomes
type recordingObserver struct {
	outcomes []string
}

func (r *recordingObserver) ObserveAllocation(outcome string, _ int) {
	r.outcomes = append(r.outcomes, outcome)
}
