package network

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/geo"
	"github.com/isp/backend/internal/domain/network"
	"github.com/isp/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type customerServiceFixture struct {
	poles         *MockPoleRepository
	customers     *MockCustomerRepository
	neighborhoods *MockNeighborhoodRepository
	svc           *CustomerService
}

func newCustomerServiceFixture() *customerServiceFixture {
	f := &customerServiceFixture{
		poles:         new(MockPoleRepository),
		customers:     new(MockCustomerRepository),
		neighborhoods: new(MockNeighborhoodRepository),
	}
	tx := NewNoOpTransactionScope(f.poles, f.customers)
	allocator := NewAllocatorService(f.poles, f.customers, tx, DefaultAllocatorConfig(), nil)
	nbhdSvc := NewNeighborhoodService(f.neighborhoods, f.poles)
	f.svc = NewCustomerService(f.customers, f.poles, nbhdSvc, allocator, tx, nil)
	return f
}

func float(v float64) *float64 { return &v }

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves neighborhood from location", func(t *testing.T) {
		f := newCustomerServiceFixture()
		ring, err := geo.NewPolygon([]geo.Point{{Lat: -1, Lng: -1}, {Lat: -1, Lng: 1}, {Lat: 1, Lng: 1}, {Lat: 1, Lng: -1}})
		require.NoError(t, err)
		nbhd, err := network.NewNeighborhood("Centro", ring)
		require.NoError(t, err)

		f.neighborhoods.On("FindBoxContaining", mock.Anything, geo.Point{Lat: 0, Lng: 0.0005}).Return([]network.Neighborhood{*nbhd}, nil)
		f.customers.On("Save", mock.Anything, mock.AnythingOfType("*network.Customer")).Return(nil)

		resp, err := f.svc.Create(ctx, CreateCustomerRequest{
			FirstName: "Ana",
			LastName:  "Quispe",
			Phone:     "70000000",
			Address:   "Calle 1",
			Latitude:  float(0),
			Longitude: float(0.0005),
		})

		require.NoError(t, err)
		require.NotNil(t, resp.NeighborhoodID)
		assert.Equal(t, nbhd.ID, *resp.NeighborhoodID)
		assert.Equal(t, "pendiente", resp.Status)
		assert.Equal(t, 1, resp.Version)
	})

	t.Run("rejects invalid coordinates", func(t *testing.T) {
		f := newCustomerServiceFixture()

		_, err := f.svc.Create(ctx, CreateCustomerRequest{
			FirstName: "Ana",
			LastName:  "Quispe",
			Phone:     "70000000",
			Address:   "Calle 1",
			Latitude:  float(95),
			Longitude: float(0),
		})

		assert.Error(t, err)
		f.customers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_AssignPole(t *testing.T) {
	ctx := context.Background()

	t.Run("no coverage rejects customer", func(t *testing.T) {
		f := newCustomerServiceFixture()
		customer := makeCustomer(10, 10)

		f.customers.On("FindByID", mock.Anything, testCustomerID).Return(customer, nil)
		f.poles.On("FindAvailableInBox", mock.Anything, mock.Anything).Return([]network.Pole{}, nil)
		f.customers.On("SaveWithLock", mock.Anything, customer).Return(nil)

		resp, err := f.svc.AssignPole(ctx, testCustomerID)

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, network.ErrNoCoverage)
		assert.Equal(t, network.CustomerStatusRejected, customer.Status)
		f.poles.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	})

	t.Run("customer holding a full pole keeps it", func(t *testing.T) {
		f := newCustomerServiceFixture()
		customer := makeCustomer(10, 10)
		_, _ = customer.AssignPole(testPole3ID)
		version := customer.Version

		f.customers.On("FindByID", mock.Anything, testCustomerID).Return(customer, nil)
		f.poles.On("FindAvailableInBox", mock.Anything, mock.Anything).Return([]network.Pole{}, nil)

		_, err := f.svc.AssignPole(ctx, testCustomerID)

		assert.ErrorIs(t, err, network.ErrNoCoverage)
		assert.Equal(t, network.CustomerStatusAssigned, customer.Status)
		assert.True(t, customer.HoldsPole(testPole3ID))
		assert.Equal(t, version, customer.Version)
		f.poles.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
		f.customers.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("success returns pole and distance", func(t *testing.T) {
		f := newCustomerServiceFixture()
		customer := makeCustomer(0, 0.0005)
		p1 := makePole(testPole1ID, "P1", 0, 0, 1, 1)
		after := p1
		after.AvailableCapacity = 0

		f.customers.On("FindByID", mock.Anything, testCustomerID).Return(customer, nil)
		f.poles.On("FindAvailableInBox", mock.Anything, mock.Anything).Return([]network.Pole{p1}, nil)
		f.poles.On("Reserve", mock.Anything, testPole1ID).Return(true, nil)
		f.customers.On("SaveWithLock", mock.Anything, customer).Return(nil)
		f.poles.On("FindByID", mock.Anything, testPole1ID).Return(&after, nil)

		resp, err := f.svc.AssignPole(ctx, testCustomerID)

		require.NoError(t, err)
		assert.Equal(t, "P1", resp.Pole.Code)
		assert.Equal(t, 0, resp.Pole.AvailableCapacity)
		assert.Equal(t, "asignado", resp.Customer.Status)
		assert.InDelta(t, 55.6, resp.DistanceMeters, 0.1)
	})
}

func TestCustomerService_CheckCoverage(t *testing.T) {
	ctx := context.Background()

	t.Run("far from any pole", func(t *testing.T) {
		f := newCustomerServiceFixture()
		f.poles.On("FindAvailableInBox", mock.Anything, mock.Anything).Return([]network.Pole{}, nil)
		f.neighborhoods.On("FindBoxContaining", mock.Anything, geo.Point{Lat: 10, Lng: 10}).Return([]network.Neighborhood{}, nil)

		resp, err := f.svc.CheckCoverage(ctx, CoverageRequest{Latitude: float(10), Longitude: float(10)})

		require.NoError(t, err)
		assert.False(t, resp.HasCoverage)
		assert.Equal(t, 0, resp.AvailablePoles)
		assert.Nil(t, resp.NearestPole)
		assert.Nil(t, resp.Neighborhood)
		assert.Equal(t, DefaultSearchRadius, resp.Radius)
		f.poles.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything)
	})

	t.Run("nearest candidate reported", func(t *testing.T) {
		f := newCustomerServiceFixture()
		p1 := makePole(testPole1ID, "P1", 0, 0, 1, 1)
		p2 := makePole(testPole2ID, "P2", 0, 0.001, 1, 1)
		f.poles.On("FindAvailableInBox", mock.Anything, mock.Anything).Return([]network.Pole{p2, p1}, nil)
		f.neighborhoods.On("FindBoxContaining", mock.Anything, mock.Anything).Return([]network.Neighborhood{}, nil)

		resp, err := f.svc.CheckCoverage(ctx, CoverageRequest{Latitude: float(0), Longitude: float(0.0002), Radius: 300})

		require.NoError(t, err)
		assert.True(t, resp.HasCoverage)
		assert.Equal(t, 2, resp.AvailablePoles)
		require.NotNil(t, resp.NearestPole)
		assert.Equal(t, "P1", resp.NearestPole.Code)
		assert.Equal(t, 300.0, resp.Radius)
	})

	t.Run("radius out of range", func(t *testing.T) {
		f := newCustomerServiceFixture()

		_, err := f.svc.CheckCoverage(ctx, CoverageRequest{Latitude: float(0), Longitude: float(0), Radius: 6000})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestCustomerService_Cancel(t *testing.T) {
	ctx := context.Background()
	f := newCustomerServiceFixture()
	customer := makeCustomer(0, 0)
	_, _ = customer.AssignPole(testPole1ID)

	f.customers.On("FindByID", mock.Anything, testCustomerID).Return(customer, nil)
	f.poles.On("Release", mock.Anything, testPole1ID).Return(true, nil).Once()
	f.customers.On("SaveWithLock", mock.Anything, customer).Return(nil)

	resp, err := f.svc.Cancel(ctx, testCustomerID)

	require.NoError(t, err)
	assert.Equal(t, "cancelado", resp.Status)
	assert.Nil(t, resp.PoleID)
	f.poles.AssertExpectations(t)
}

func TestCustomerService_Install(t *testing.T) {
	ctx := context.Background()

	t.Run("pending cannot be installed", func(t *testing.T) {
		f := newCustomerServiceFixture()
		f.customers.On("FindByID", mock.Anything, testCustomerID).Return(makeCustomer(0, 0), nil)

		_, err := f.svc.Install(ctx, testCustomerID)

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("assigned is installed", func(t *testing.T) {
		f := newCustomerServiceFixture()
		customer := makeCustomer(0, 0)
		_, _ = customer.AssignPole(uuid.New())
		f.customers.On("FindByID", mock.Anything, testCustomerID).Return(customer, nil)
		f.customers.On("SaveWithLock", mock.Anything, customer).Return(nil)

		resp, err := f.svc.Install(ctx, testCustomerID)

		require.NoError(t, err)
		assert.Equal(t, "instalado", resp.Status)
		assert.NotNil(t, resp.InstalledAt)
	})
}

func TestCustomerService_Update(t *testing.T) {
	ctx := context.Background()
	f := newCustomerServiceFixture()
	customer := makeCustomer(0, 0)
	loaded := customer.Version

	f.customers.On("FindByID", mock.Anything, testCustomerID).Return(customer, nil)
	f.customers.On("SaveWithLock", mock.Anything, customer).Return(nil)

	phone := "71234567"
	email := "ana@example.com"
	resp, err := f.svc.Update(ctx, testCustomerID, UpdateCustomerRequest{Phone: &phone, Email: &email})

	require.NoError(t, err)
	assert.Equal(t, phone, resp.Phone)
	assert.Equal(t, email, resp.Email)
	assert.Equal(t, loaded+1, customer.Version)
}

func TestCustomerService_Stats(t *testing.T) {
	ctx := context.Background()
	f := newCustomerServiceFixture()
	f.customers.On("CountByStatus", mock.Anything).Return(map[network.CustomerStatus]int64{
		network.CustomerStatusPending:   2,
		network.CustomerStatusAssigned:  1,
		network.CustomerStatusInstalled: 1,
	}, nil)

	stats, err := f.svc.Stats(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, 50.0, stats.AssignedPercent)
}

func TestPoleService_Update_NeverTouchesCapacity(t *testing.T) {
	ctx := context.Background()
	poles := new(MockPoleRepository)
	nbhds := new(MockNeighborhoodRepository)
	allocator := NewAllocatorService(poles, new(MockCustomerRepository), nil, DefaultAllocatorConfig(), nil)
	svc := NewPoleService(poles, nbhds, allocator)

	pole := makePole(testPole1ID, "P1", 0, 0, 8, 3)
	poles.On("FindByID", mock.Anything, testPole1ID).Return(&pole, nil)
	poles.On("Save", mock.Anything, &pole).Return(nil)

	active := false
	resp, err := svc.Update(ctx, testPole1ID, UpdatePoleRequest{Active: &active})

	require.NoError(t, err)
	assert.False(t, resp.Active)
	assert.Equal(t, 8, resp.TotalCapacity)
	assert.Equal(t, 3, resp.AvailableCapacity)
}

func TestPoleService_ReserveRelease(t *testing.T) {
	ctx := context.Background()
	poles := new(MockPoleRepository)
	allocator := NewAllocatorService(poles, new(MockCustomerRepository), nil, DefaultAllocatorConfig(), nil)
	svc := NewPoleService(poles, new(MockNeighborhoodRepository), allocator)

	exhausted := makePole(testPole1ID, "P1", 0, 0, 1, 0)
	poles.On("FindByID", mock.Anything, testPole1ID).Return(&exhausted, nil)
	poles.On("Reserve", mock.Anything, testPole1ID).Return(false, nil)

	resp, err := svc.Reserve(ctx, testPole1ID)

	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, 0, resp.Pole.AvailableCapacity)
}

func TestCustomerService_Delete(t *testing.T) {
	ctx := context.Background()

	for _, installed := range []bool{false, true} {
		name := "assigned customer returns its unit"
		if installed {
			name = "installed customer returns its unit"
		}
		t.Run(name, func(t *testing.T) {
			f := newCustomerServiceFixture()
			customer := makeCustomer(0, 0)
			_, _ = customer.AssignPole(testPole1ID)
			if installed {
				require.NoError(t, customer.Install())
			}

			f.customers.On("FindByID", mock.Anything, testCustomerID).Return(customer, nil)
			f.poles.On("Release", mock.Anything, testPole1ID).Return(true, nil).Once()
			f.customers.On("Delete", mock.Anything, testCustomerID).Return(nil)

			require.NoError(t, f.svc.Delete(ctx, testCustomerID))
			f.poles.AssertExpectations(t)
			f.customers.AssertExpectations(t)
		})
	}

	t.Run("customer without pole releases nothing", func(t *testing.T) {
		f := newCustomerServiceFixture()
		f.customers.On("FindByID", mock.Anything, testCustomerID).Return(makeCustomer(0, 0), nil)
		f.customers.On("Delete", mock.Anything, testCustomerID).Return(nil)

		require.NoError(t, f.svc.Delete(ctx, testCustomerID))
		f.poles.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	})
}
