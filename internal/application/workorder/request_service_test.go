package workorder

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/geo"
	"github.com/isp/backend/internal/domain/network"
	"github.com/isp/backend/internal/domain/plan"
	"github.com/isp/backend/internal/domain/shared"
	"github.com/isp/backend/internal/domain/workorder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*workorder.WorkRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workorder.WorkRequest), args.Error(1)
}

func (m *MockRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]workorder.WorkRequest, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]workorder.WorkRequest), args.Error(1)
}

func (m *MockRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRequestRepository) Save(ctx context.Context, r *workorder.WorkRequest) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRequestRepository) FindFollowUps(ctx context.Context, requestID uuid.UUID) ([]workorder.FollowUp, error) {
	args := m.Called(ctx, requestID)
	return args.Get(0).([]workorder.FollowUp), args.Error(1)
}

type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*workorder.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workorder.Contract), args.Error(1)
}

func (m *MockContractRepository) FindByRequest(ctx context.Context, requestID uuid.UUID) (*workorder.Contract, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workorder.Contract), args.Error(1)
}

func (m *MockContractRepository) FindAll(ctx context.Context, filter shared.Filter) ([]workorder.Contract, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]workorder.Contract), args.Error(1)
}

func (m *MockContractRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContractRepository) Save(ctx context.Context, c *workorder.Contract) error {
	return m.Called(ctx, c).Error(0)
}

// stubCustomers serves customers from a map
type stubCustomers struct {
	network.CustomerRepository
	items map[uuid.UUID]*network.Customer
}

func (s stubCustomers) FindByID(_ context.Context, id uuid.UUID) (*network.Customer, error) {
	if c, ok := s.items[id]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

// stubPlans serves plans from a map
type stubPlans struct {
	plan.PlanRepository
	items map[uuid.UUID]*plan.Plan
}

func (s stubPlans) FindByID(_ context.Context, id uuid.UUID) (*plan.Plan, error) {
	if p, ok := s.items[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

type fixedCounter struct {
	n      int
	origin geo.Point
}

func (f *fixedCounter) CountCandidates(_ context.Context, origin geo.Point) (int, error) {
	f.origin = origin
	return f.n, nil
}

type fixture struct {
	svc       *RequestService
	requests  *MockRequestRepository
	contracts *MockContractRepository
	counter   *fixedCounter
	customer  *network.Customer
	planID    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	customer, err := network.NewCustomer("Ana", "Quispe", "70012345", "Calle 1", geo.Point{Lat: -16.5, Lng: -68.1})
	require.NoError(t, err)
	planID := uuid.New()

	requests := new(MockRequestRepository)
	contracts := new(MockContractRepository)
	counter := &fixedCounter{n: 3}
	svc := NewRequestService(
		requests, contracts,
		stubCustomers{items: map[uuid.UUID]*network.Customer{customer.ID: customer}},
		stubPlans{items: map[uuid.UUID]*plan.Plan{planID: {}}},
		counter,
		NewNoOpTransactionScope(requests, contracts),
		nil,
	)
	return &fixture{svc: svc, requests: requests, contracts: contracts, counter: counter, customer: customer, planID: planID}
}

func (f *fixture) input() RequestInput {
	return RequestInput{CustomerID: f.customer.ID, PlanID: f.planID, WorkType: "inst"}
}

func TestRequestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("records coverage and first follow-up", func(t *testing.T) {
		f := newFixture(t)
		f.requests.On("Save", ctx, mock.AnythingOfType("*workorder.WorkRequest")).Return(nil)

		resp, err := f.svc.Create(ctx, f.input(), "operador")
		require.NoError(t, err)
		assert.Equal(t, 3, resp.Coverage)
		assert.Equal(t, "INST", resp.WorkType)
		assert.Equal(t, "REGISTRADA", resp.Status)
		require.Len(t, resp.FollowUps, 1)
		assert.Equal(t, 1, resp.FollowUps[0].Sequence)
		assert.Equal(t, "operador", resp.FollowUps[0].StartedBy)
		assert.Equal(t, f.customer.Location, f.counter.origin)
	})

	t.Run("unknown customer", func(t *testing.T) {
		f := newFixture(t)
		in := f.input()
		in.CustomerID = uuid.New()

		_, err := f.svc.Create(ctx, in, "")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unknown plan", func(t *testing.T) {
		f := newFixture(t)
		in := f.input()
		in.PlanID = uuid.New()

		_, err := f.svc.Create(ctx, in, "")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestRequestService_ChangeStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("chains follow-ups", func(t *testing.T) {
		f := newFixture(t)
		r, err := workorder.NewWorkRequest(f.input().Details(), 1, "a")
		require.NoError(t, err)
		f.requests.On("FindByID", ctx, r.ID).Return(r, nil)
		f.requests.On("Save", ctx, r).Return(nil)

		resp, err := f.svc.ChangeStatus(ctx, r.ID, ChangeStatusRequest{Status: "EN_REVISION"}, "b")
		require.NoError(t, err)
		assert.Equal(t, 2, resp.FollowUp.Sequence)
		assert.Nil(t, resp.Contract)
		require.Len(t, resp.Request.FollowUps, 2)
		assert.NotNil(t, resp.Request.FollowUps[0].EndedOn)
		assert.Equal(t, "b", resp.Request.FollowUps[0].EndedBy)
		assert.Nil(t, resp.Request.FollowUps[1].EndedOn)
	})

	t.Run("finishing creates contract", func(t *testing.T) {
		f := newFixture(t)
		r, err := workorder.NewWorkRequest(f.input().Details(), 1, "a")
		require.NoError(t, err)
		for _, st := range []workorder.Status{workorder.StatusInReview, workorder.StatusApproved, workorder.StatusInInstallation} {
			_, err := r.ChangeStatus(st, "a")
			require.NoError(t, err)
		}
		f.requests.On("FindByID", ctx, r.ID).Return(r, nil)
		f.requests.On("Save", ctx, r).Return(nil)
		f.contracts.On("Save", ctx, mock.AnythingOfType("*workorder.Contract")).Return(nil)

		resp, err := f.svc.ChangeStatus(ctx, r.ID, ChangeStatusRequest{Status: "FINALIZADA", Username: "ana.q", Modem: true}, "tecnico")
		require.NoError(t, err)
		require.NotNil(t, resp.Contract)
		assert.Equal(t, "ana.q", resp.Contract.Username)
		assert.True(t, resp.Contract.Modem)
		assert.Equal(t, workorder.ContractStatusActive, resp.Contract.ContractStatus)
		assert.Equal(t, 5, resp.FollowUp.Sequence)
	})

	t.Run("skipping a step is refused", func(t *testing.T) {
		f := newFixture(t)
		r, _ := workorder.NewWorkRequest(f.input().Details(), 1, "a")
		f.requests.On("FindByID", ctx, r.ID).Return(r, nil)

		_, err := f.svc.ChangeStatus(ctx, r.ID, ChangeStatusRequest{Status: "FINALIZADA"}, "b")
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		f.requests.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("contract failure surfaces", func(t *testing.T) {
		f := newFixture(t)
		r, _ := workorder.NewWorkRequest(f.input().Details(), 1, "a")
		for _, st := range []workorder.Status{workorder.StatusInReview, workorder.StatusApproved, workorder.StatusInInstallation} {
			_, _ = r.ChangeStatus(st, "a")
		}
		f.requests.On("FindByID", ctx, r.ID).Return(r, nil)
		f.requests.On("Save", ctx, r).Return(nil)
		f.contracts.On("Save", ctx, mock.Anything).Return(errors.New("db down"))

		_, err := f.svc.ChangeStatus(ctx, r.ID, ChangeStatusRequest{Status: "FINALIZADA"}, "b")
		assert.Error(t, err)
	})

	t.Run("void from any open state", func(t *testing.T) {
		f := newFixture(t)
		r, _ := workorder.NewWorkRequest(f.input().Details(), 1, "a")
		f.requests.On("FindByID", ctx, r.ID).Return(r, nil)
		f.requests.On("Save", ctx, r).Return(nil)

		resp, err := f.svc.ChangeStatus(ctx, r.ID, ChangeStatusRequest{Status: "ANULADA"}, "b")
		require.NoError(t, err)
		assert.NotNil(t, resp.Request.CancelledOn)
	})
}

func TestRequestService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	r, _ := workorder.NewWorkRequest(f.input().Details(), 1, "a")
	for _, st := range []workorder.Status{workorder.StatusInReview, workorder.StatusApproved, workorder.StatusInInstallation, workorder.StatusFinished} {
		_, _ = r.ChangeStatus(st, "a")
	}
	f.requests.On("FindByID", ctx, r.ID).Return(r, nil)

	err := f.svc.Delete(ctx, r.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	f.requests.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestContractService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockContractRepository)
	svc := NewContractService(repo)

	expected := shared.Filter{Page: 1, PageSize: 20, OrderBy: "contracted_on", OrderDir: "desc"}
	repo.On("FindAll", ctx, expected).Return([]workorder.Contract{{Username: "x"}}, nil)
	repo.On("Count", ctx, expected).Return(int64(1), nil)

	items, total, err := svc.List(ctx, ContractListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "x", items[0].Username)
}
