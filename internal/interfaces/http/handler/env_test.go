package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	legacyapp "github.com/isp/backend/internal/application/legacy"
	networkapp "github.com/isp/backend/internal/application/network"
	planapp "github.com/isp/backend/internal/application/plan"
	workorderapp "github.com/isp/backend/internal/application/workorder"
	"github.com/isp/backend/internal/domain/legacy"
	"github.com/isp/backend/internal/infrastructure/cache"
	"github.com/isp/backend/internal/infrastructure/persistence"
	"github.com/isp/backend/internal/infrastructure/telemetry"
	"github.com/isp/backend/internal/interfaces/http/dto"
	"github.com/isp/backend/internal/interfaces/http/handler"
	"github.com/isp/backend/internal/interfaces/http/router"
	"github.com/isp/backend/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeSource stands in for the federated tables
type fakeSource struct {
	mu       sync.Mutex
	services map[string][]legacy.ServiceContract
	invoices map[string][]legacy.Invoice
	clients  map[string][]legacy.LegacyClient
	calls    int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		services: make(map[string][]legacy.ServiceContract),
		invoices: make(map[string][]legacy.Invoice),
		clients:  make(map[string][]legacy.LegacyClient),
	}
}

func (f *fakeSource) ServicesByClient(_ context.Context, clientCode string) ([]legacy.ServiceContract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return append([]legacy.ServiceContract(nil), f.services[clientCode]...), nil
}

func (f *fakeSource) InvoicesByContract(_ context.Context, contract string) ([]legacy.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return append([]legacy.Invoice(nil), f.invoices[contract]...), nil
}

func (f *fakeSource) ClientsByDocument(_ context.Context, doc string) ([]legacy.LegacyClient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return append([]legacy.LegacyClient(nil), f.clients[doc]...), nil
}

type testEnv struct {
	t       *testing.T
	db      *gorm.DB
	engine  *gin.Engine
	source  *fakeSource
	metrics *telemetry.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewSQLiteDB(t)

	neighborhoodRepo := persistence.NewGormNeighborhoodRepository(db)
	poleRepo := persistence.NewGormPoleRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)
	paymentMethodRepo := persistence.NewGormPaymentMethodRepository(db)
	connectionTypeRepo := persistence.NewGormConnectionTypeRepository(db)
	planRepo := persistence.NewGormPlanRepository(db)
	subscriberRepo := persistence.NewGormSubscriberRepository(db)
	requestRepo := persistence.NewGormWorkRequestRepository(db)
	contractRepo := persistence.NewGormContractRepository(db)

	networkTx := persistence.NewGormNetworkTransactionScope(db)
	allocator := networkapp.NewAllocatorService(poleRepo, customerRepo, networkTx, networkapp.DefaultAllocatorConfig(), nil)
	metrics := telemetry.NewMetrics()
	allocator.SetObserver(metrics)
	neighborhoods := networkapp.NewNeighborhoodService(neighborhoodRepo, poleRepo)

	statsCache := cache.NewInMemoryStatsCache()
	t.Cleanup(func() { _ = statsCache.Close() })

	source := newFakeSource()
	lookup := legacyapp.NewLookupService(
		persistence.NewGormInvoiceRepository(db),
		persistence.NewGormServiceContractRepository(db),
		persistence.NewGormLegacyClientRepository(db),
		source,
		persistence.NewGormLegacyTransactionScope(db),
		nil,
	)

	handlers := router.Handlers{
		Neighborhoods: handler.NewNeighborhoodHandler(neighborhoods),
		Poles:         handler.NewPoleHandler(networkapp.NewPoleService(poleRepo, neighborhoodRepo, allocator)),
		Customers: handler.NewCustomerHandler(networkapp.NewCustomerService(
			customerRepo, poleRepo, neighborhoods, allocator, networkTx, nil)),
		Catalog:     handler.NewCatalogHandler(planapp.NewCatalogService(paymentMethodRepo, connectionTypeRepo)),
		Plans:       handler.NewPlanHandler(planapp.NewPlanService(planRepo, paymentMethodRepo, connectionTypeRepo)),
		Subscribers: handler.NewSubscriberHandler(planapp.NewSubscriberService(subscriberRepo, planRepo, statsCache, time.Minute, nil)),
		Requests: handler.NewRequestHandler(workorderapp.NewRequestService(
			requestRepo, contractRepo, customerRepo, planRepo, allocator,
			persistence.NewGormWorkOrderTransactionScope(db), nil)),
		Contracts: handler.NewContractHandler(workorderapp.NewContractService(contractRepo)),
		Legacy:    handler.NewLegacyHandler(lookup),
	}

	engine, err := router.NewEngine(router.EngineConfig{Metrics: metrics, Handlers: handlers})
	require.NoError(t, err)

	return &testEnv{t: t, db: db, engine: engine, source: source, metrics: metrics}
}

func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

// envelope is dto.Response with the payload left undecoded
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

// expect asserts the status and decodes the payload
func (e *testEnv) expect(w *httptest.ResponseRecorder, status int, data any) envelope {
	e.t.Helper()
	require.Equal(e.t, status, w.Code, w.Body.String())
	return decode(e.t, w, data)
}

type idOnly struct {
	ID uuid.UUID `json:"id"`
}

// square returns a [lng, lat] ring of half-width half degrees
func square(lat, lng, half float64) [][2]float64 {
	return [][2]float64{
		{lng - half, lat - half},
		{lng + half, lat - half},
		{lng + half, lat + half},
		{lng - half, lat + half},
	}
}

func (e *testEnv) createNeighborhood(name string, lat, lng float64) uuid.UUID {
	e.t.Helper()
	var out idOnly
	e.expect(e.do(http.MethodPost, "/barrios", map[string]any{
		"name":     name,
		"boundary": square(lat, lng, 0.01),
	}), http.StatusCreated, &out)
	return out.ID
}

func (e *testEnv) createPole(code string, lat, lng float64, neighborhoodID uuid.UUID, capacity int) uuid.UUID {
	e.t.Helper()
	var out idOnly
	e.expect(e.do(http.MethodPost, "/postes", map[string]any{
		"code":            code,
		"latitude":        lat,
		"longitude":       lng,
		"neighborhood_id": neighborhoodID,
		"total_capacity":  capacity,
	}), http.StatusCreated, &out)
	return out.ID
}

func (e *testEnv) createCustomer(first string, lat, lng float64) uuid.UUID {
	e.t.Helper()
	var out idOnly
	e.expect(e.do(http.MethodPost, "/clientes", map[string]any{
		"first_name": first,
		"last_name":  "Mamani",
		"phone":      "70011223",
		"address":    "Av. 6 de Agosto 2100",
		"latitude":   lat,
		"longitude":  lng,
	}), http.StatusCreated, &out)
	return out.ID
}
