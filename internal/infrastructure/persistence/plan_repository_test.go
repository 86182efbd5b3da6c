package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/plan"
	"github.com/isp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type planFixture struct {
	paymentMethod  *plan.PaymentMethod
	connectionType *plan.ConnectionType
	plan           *plan.Plan
}

func seedPlan(t *testing.T, db *gorm.DB, code string) planFixture {
	t.Helper()
	ctx := context.Background()

	pm, err := plan.NewPaymentMethod("Efectivo "+code, "Pago en caja", "EF")
	require.NoError(t, err)
	require.NoError(t, NewGormPaymentMethodRepository(db).Save(ctx, pm))

	ct, err := plan.NewConnectionType("Fibra "+code, "FTTH")
	require.NoError(t, err)
	require.NoError(t, NewGormConnectionTypeRepository(db).Save(ctx, ct))

	p, err := plan.NewPlan(code, plan.PlanTerms{
		Description:      "Plan hogar " + code,
		PaymentMethodID:  pm.ID,
		ConnectionTypeID: ct.ID,
		BaseAmount:       decimal.RequireFromString("150.00"),
		BillingPeriod:    "MENSUAL",
		StartDate:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, NewGormPlanRepository(db).Save(ctx, p))

	return planFixture{paymentMethod: pm, connectionType: ct, plan: p}
}

func newTestSubscriber(t *testing.T, first, doc, zone string) *plan.Subscriber {
	t.Helper()
	s, err := plan.NewSubscriber(plan.SubscriberProfile{
		FirstName:      first,
		LastName:       "Condori",
		DocumentNumber: doc,
		Phone:          "71234567",
		Housing:        plan.HousingHouse,
		Street:         "Calle 5",
		Zone:           zone,
	})
	require.NoError(t, err)
	return s
}

func TestGormPlanRepository_SaveAndFind(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormPlanRepository(db)
	ctx := context.Background()

	fx := seedPlan(t, db, "hogar-50")

	found, err := repo.FindByCode(ctx, "HOGAR-50")
	require.NoError(t, err)
	assert.Equal(t, fx.plan.ID, found.ID)
	assert.True(t, decimal.RequireFromString("150").Equal(found.BaseAmount))

	exists, err := repo.ExistsByCode(ctx, "hogar-50")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormPlanRepository_DeleteRestricted(t *testing.T) {
	db := setupSQLiteDB(t)
	ctx := context.Background()
	fx := seedPlan(t, db, "PYME")

	pmRepo := NewGormPaymentMethodRepository(db)
	planRepo := NewGormPlanRepository(db)
	subRepo := NewGormSubscriberRepository(db)

	err := pmRepo.Delete(ctx, fx.paymentMethod.ID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "IN_USE", domainErr.Code)

	s := newTestSubscriber(t, "Rosa", "123456", "Centro")
	s.PlanID = &fx.plan.ID
	require.NoError(t, subRepo.Save(ctx, s))

	err = planRepo.Delete(ctx, fx.plan.ID)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "IN_USE", domainErr.Code)

	require.NoError(t, subRepo.Delete(ctx, s.ID))
	require.NoError(t, planRepo.Delete(ctx, fx.plan.ID))
	require.NoError(t, pmRepo.Delete(ctx, fx.paymentMethod.ID))
	require.NoError(t, NewGormConnectionTypeRepository(db).Delete(ctx, fx.connectionType.ID))

	assert.ErrorIs(t, pmRepo.Delete(ctx, fx.paymentMethod.ID), shared.ErrNotFound)
}

func TestGormSubscriberRepository_ExistsByDocument(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormSubscriberRepository(db)
	ctx := context.Background()

	s := newTestSubscriber(t, "Juan", "998877", "Centro")
	require.NoError(t, repo.Save(ctx, s))
	require.NoError(t, repo.Save(ctx, newTestSubscriber(t, "Sin", "", "Centro")))
	require.NoError(t, repo.Save(ctx, newTestSubscriber(t, "Otro", "", "Centro")))

	exists, err := repo.ExistsByDocument(ctx, "998877", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByDocument(ctx, "998877", s.ID)
	require.NoError(t, err)
	assert.False(t, exists, "the subscriber itself is excluded")

	exists, err = repo.ExistsByDocument(ctx, "", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormSubscriberRepository_Stats(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormSubscriberRepository(db)
	ctx := context.Background()

	covered := newTestSubscriber(t, "Ana", "1", "Centro")
	require.NoError(t, covered.SetCoverage(plan.CoverageCovered))
	require.NoError(t, repo.Save(ctx, covered))

	require.NoError(t, repo.Save(ctx, newTestSubscriber(t, "Beto", "2", "Centro")))
	require.NoError(t, repo.Save(ctx, newTestSubscriber(t, "Caro", "3", "Sopocachi")))

	active := newTestSubscriber(t, "Dani", "4", "Sopocachi")
	require.NoError(t, active.ChangeStatus(plan.SubscriberStatusActive))
	require.NoError(t, repo.Save(ctx, active))

	byStatus, err := repo.CountByStatusAndCoverage(ctx)
	require.NoError(t, err)
	totals := map[plan.SubscriberStatus]plan.StatusCount{}
	for _, row := range byStatus {
		totals[row.Status] = row
	}
	activeRow := totals[plan.SubscriberStatusActive]
	assert.Equal(t, int64(1), activeRow.Total)

	var sum int64
	for _, row := range byStatus {
		assert.Equal(t, row.Total, row.WithCoverage+row.WithoutCoverage)
		sum += row.Total
	}
	assert.Equal(t, int64(4), sum)

	zones, err := repo.TopZones(ctx, 1)
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "Centro", zones[0].Key)
	assert.Equal(t, int64(2), zones[0].Total)

	byType, err := repo.CountByType(ctx)
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, string(plan.SubscriberTypeCommon), byType[0].Key)

	count, err := repo.Count(ctx, shared.Filter{Filters: map[string]any{"coverage": string(plan.CoverageCovered)}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
