package plan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/plan"
	"github.com/isp/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func subscriberRequest() SubscriberRequest {
	return SubscriberRequest{
		FirstName:      "Ana",
		LastName:       "Quispe",
		DocumentNumber: "4455667",
		Phone:          "70012345",
		Housing:        "Casa",
		Floor:          "3",
		Street:         "Av. Busch",
		Zone:           "Miraflores",
		NIT:            "123",
		BusinessName:   "Ignored SRL",
	}
}

func TestSubscriberService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("normalises house and common type", func(t *testing.T) {
		repo := new(MockSubscriberRepository)
		cache := newMapCache()
		cache.items[SubscriberStatsKey] = []byte(`{}`)
		svc := NewSubscriberService(repo, new(MockPlanRepository), cache, time.Minute, nil)

		repo.On("ExistsByDocument", ctx, "4455667", uuid.Nil).Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*plan.Subscriber")).Return(nil)

		resp, err := svc.Create(ctx, subscriberRequest())
		require.NoError(t, err)
		assert.Empty(t, resp.Floor)
		assert.Empty(t, resp.NIT)
		assert.Empty(t, resp.BusinessName)
		assert.Equal(t, "COMUN", resp.Type)
		assert.Equal(t, "SIN_COBERTURA", resp.Coverage)
		assert.Equal(t, "PEND_COBERTURA", resp.Status)
		assert.NotContains(t, cache.items, SubscriberStatsKey)
	})

	t.Run("apartment without floor", func(t *testing.T) {
		svc := NewSubscriberService(new(MockSubscriberRepository), new(MockPlanRepository), nil, 0, nil)
		req := subscriberRequest()
		req.Housing = "Departamento"
		req.Floor = ""

		_, err := svc.Create(ctx, req)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "FLOOR_REQUIRED", de.Code)
	})

	t.Run("company without NIT", func(t *testing.T) {
		svc := NewSubscriberService(new(MockSubscriberRepository), new(MockPlanRepository), nil, 0, nil)
		req := subscriberRequest()
		req.Type = "EMPRESA"
		req.NIT = ""

		_, err := svc.Create(ctx, req)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "COMPANY_DATA_REQUIRED", de.Code)
	})

	t.Run("duplicate document", func(t *testing.T) {
		repo := new(MockSubscriberRepository)
		svc := NewSubscriberService(repo, new(MockPlanRepository), nil, 0, nil)
		repo.On("ExistsByDocument", ctx, "4455667", uuid.Nil).Return(true, nil)

		_, err := svc.Create(ctx, subscriberRequest())
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown plan", func(t *testing.T) {
		repo := new(MockSubscriberRepository)
		planRepo := new(MockPlanRepository)
		svc := NewSubscriberService(repo, planRepo, nil, 0, nil)
		planID := uuid.New()
		req := subscriberRequest()
		req.PlanID = &planID

		repo.On("ExistsByDocument", ctx, "4455667", uuid.Nil).Return(false, nil)
		planRepo.On("FindByID", ctx, planID).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestSubscriberService_Update(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSubscriberRepository)
	svc := NewSubscriberService(repo, new(MockPlanRepository), nil, 0, nil)

	sub, err := plan.NewSubscriber(subscriberRequest().Profile())
	require.NoError(t, err)
	repo.On("FindByID", ctx, sub.ID).Return(sub, nil)
	repo.On("ExistsByDocument", ctx, "4455667", sub.ID).Return(false, nil)
	repo.On("Save", ctx, sub).Return(nil)

	req := subscriberRequest()
	req.Status = "ACTIVO"
	req.Coverage = "CON_COBERTURA"

	resp, err := svc.Update(ctx, sub.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "ACTIVO", resp.Status)
	assert.Equal(t, "CON_COBERTURA", resp.Coverage)
	assert.Equal(t, 2, sub.Version)
}

func TestSubscriberService_Stats(t *testing.T) {
	ctx := context.Background()

	setup := func(repo *MockSubscriberRepository) {
		repo.On("CountByStatusAndCoverage", ctx).Return([]plan.StatusCount{
			{Status: plan.SubscriberStatusActive, Total: 1, WithCoverage: 1},
			{Status: plan.SubscriberStatusPendingCoverage, Total: 1, WithoutCoverage: 1},
			{Status: plan.SubscriberStatusPendingEquipment, Total: 1, WithCoverage: 1},
		}, nil).Once()
		repo.On("CountByType", ctx).Return([]plan.KeyCount{{Key: "COMUN", Total: 3}}, nil).Once()
		repo.On("CountByCoverage", ctx).Return([]plan.KeyCount{{Key: "CON_COBERTURA", Total: 2}, {Key: "SIN_COBERTURA", Total: 1}}, nil).Once()
		repo.On("TopZones", ctx, plan.TopZonesLimit).Return([]plan.KeyCount{{Key: "Miraflores", Total: 3}}, nil).Once()
	}

	t.Run("computes and caches", func(t *testing.T) {
		repo := new(MockSubscriberRepository)
		cache := newMapCache()
		svc := NewSubscriberService(repo, new(MockPlanRepository), cache, time.Minute, nil)
		setup(repo)

		stats, err := svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.Summary.Total)
		assert.Equal(t, int64(2), stats.Summary.Pending)
		assert.Equal(t, 33.33, stats.Summary.ActivePercent)

		again, err := svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, stats.Summary, again.Summary)
		repo.AssertNumberOfCalls(t, "CountByType", 1)
	})

	t.Run("mutation invalidates", func(t *testing.T) {
		repo := new(MockSubscriberRepository)
		cache := newMapCache()
		svc := NewSubscriberService(repo, new(MockPlanRepository), cache, time.Minute, nil)
		setup(repo)

		_, err := svc.Stats(ctx)
		require.NoError(t, err)

		id := uuid.New()
		sub, _ := plan.NewSubscriber(subscriberRequest().Profile())
		repo.On("FindByID", ctx, id).Return(sub, nil)
		repo.On("Delete", ctx, id).Return(nil)
		require.NoError(t, svc.Delete(ctx, id))
		assert.Equal(t, 1, cache.deletes)

		setup(repo)
		_, err = svc.Stats(ctx)
		require.NoError(t, err)
		repo.AssertNumberOfCalls(t, "CountByType", 2)
	})

	t.Run("empty table", func(t *testing.T) {
		repo := new(MockSubscriberRepository)
		svc := NewSubscriberService(repo, new(MockPlanRepository), nil, 0, nil)
		repo.On("CountByStatusAndCoverage", ctx).Return([]plan.StatusCount{}, nil)
		repo.On("CountByType", ctx).Return([]plan.KeyCount{}, nil)
		repo.On("CountByCoverage", ctx).Return([]plan.KeyCount{}, nil)
		repo.On("TopZones", ctx, plan.TopZonesLimit).Return([]plan.KeyCount{}, nil)

		stats, err := svc.Stats(ctx)
		require.NoError(t, err)
		assert.Zero(t, stats.Summary.ActivePercent)
	})

	t.Run("store error", func(t *testing.T) {
		repo := new(MockSubscriberRepository)
		svc := NewSubscriberService(repo, new(MockPlanRepository), nil, 0, nil)
		repo.On("CountByStatusAndCoverage", ctx).Return([]plan.StatusCount(nil), errors.New("db down"))

		_, err := svc.Stats(ctx)
		assert.Error(t, err)
	})
}
