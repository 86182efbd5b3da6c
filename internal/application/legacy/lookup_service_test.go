package legacy

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/legacy"
	"github.com/isp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockFederatedSource is a mock implementation of FederatedSource
type MockFederatedSource struct {
	mock.Mock
}

func (m *MockFederatedSource) ServicesByClient(ctx context.Context, clientCode string) ([]legacy.ServiceContract, error) {
	args := m.Called(ctx, clientCode)
	return args.Get(0).([]legacy.ServiceContract), args.Error(1)
}

func (m *MockFederatedSource) InvoicesByContract(ctx context.Context, contract string) ([]legacy.Invoice, error) {
	args := m.Called(ctx, contract)
	return args.Get(0).([]legacy.Invoice), args.Error(1)
}

func (m *MockFederatedSource) ClientsByDocument(ctx context.Context, documentNumber string) ([]legacy.LegacyClient, error) {
	args := m.Called(ctx, documentNumber)
	return args.Get(0).([]legacy.LegacyClient), args.Error(1)
}

// memStore keeps the local copies in slices and honours the unique keys
type memStore struct {
	invoices  []legacy.Invoice
	services  []legacy.ServiceContract
	clients   []legacy.LegacyClient
	insertErr error
}

type memInvoices struct{ s *memStore }
type memServices struct{ s *memStore }
type memClients struct{ s *memStore }

func (r memInvoices) FindAll(_ context.Context, f shared.Filter) ([]legacy.Invoice, error) {
	return page(r.s.invoices, f), nil
}

func (r memInvoices) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.s.invoices)), nil
}

func (r memInvoices) FindByContract(_ context.Context, contract string) ([]legacy.Invoice, error) {
	var out []legacy.Invoice
	for _, i := range r.s.invoices {
		if i.Contract == contract {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r memInvoices) InsertIfAbsent(_ context.Context, invoices []legacy.Invoice) (int64, error) {
	if r.s.insertErr != nil {
		return 0, r.s.insertErr
	}
	var n int64
	for _, inv := range invoices {
		dup := false
		for _, have := range r.s.invoices {
			if have.InternalNumber == inv.InternalNumber && have.Contract == inv.Contract {
				dup = true
				break
			}
		}
		if !dup {
			inv.ID = uuid.New()
			r.s.invoices = append(r.s.invoices, inv)
			n++
		}
	}
	return n, nil
}

func (r memInvoices) SummarizeDebt(_ context.Context, contract string) (legacy.DebtSummary, error) {
	sum := legacy.DebtSummary{TotalAmount: decimal.Zero}
	for _, i := range r.s.invoices {
		if i.Contract == contract && i.IsDebt() {
			sum.InvoiceCount++
			sum.TotalAmount = sum.TotalAmount.Add(i.TotalAmount)
		}
	}
	return sum, nil
}

func (r memServices) FindAll(_ context.Context, f shared.Filter) ([]legacy.ServiceContract, error) {
	return page(r.s.services, f), nil
}

func (r memServices) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.s.services)), nil
}

func (r memServices) FindByClient(_ context.Context, clientCode string) ([]legacy.ServiceContract, error) {
	var out []legacy.ServiceContract
	for _, s := range r.s.services {
		if s.ClientCode == clientCode {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r memServices) InsertIfAbsent(_ context.Context, services []legacy.ServiceContract) (int64, error) {
	if r.s.insertErr != nil {
		return 0, r.s.insertErr
	}
	var n int64
	for _, svc := range services {
		dup := false
		for _, have := range r.s.services {
			if have.Contract == svc.Contract && have.ClientCode == svc.ClientCode {
				dup = true
				break
			}
		}
		if !dup {
			svc.ID = uuid.New()
			r.s.services = append(r.s.services, svc)
			n++
		}
	}
	return n, nil
}

func (r memClients) FindAll(_ context.Context, f shared.Filter) ([]legacy.LegacyClient, error) {
	return page(r.s.clients, f), nil
}

func (r memClients) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.s.clients)), nil
}

func (r memClients) FindByDocument(_ context.Context, doc string) (*legacy.LegacyClient, error) {
	for i := range r.s.clients {
		if r.s.clients[i].DocumentNumber == doc {
			c := r.s.clients[i]
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memClients) ExistsByDocument(ctx context.Context, doc string) (bool, error) {
	_, err := r.FindByDocument(ctx, doc)
	return err == nil, nil
}

func (r memClients) SearchByName(_ context.Context, name string, _ shared.Filter) ([]legacy.LegacyClient, error) {
	name = strings.ToLower(name)
	var out []legacy.LegacyClient
	for _, c := range r.s.clients {
		for _, part := range []string{c.DisplayName, c.GivenNames, c.PaternalName, c.MaternalName} {
			if strings.Contains(strings.ToLower(part), name) {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}

func (r memClients) InsertIfAbsent(_ context.Context, clients []legacy.LegacyClient) (int64, error) {
	if r.s.insertErr != nil {
		return 0, r.s.insertErr
	}
	var n int64
	for _, c := range clients {
		dup := false
		for _, have := range r.s.clients {
			if have.ClientCode == c.ClientCode {
				dup = true
				break
			}
		}
		if !dup {
			c.ID = uuid.New()
			r.s.clients = append(r.s.clients, c)
			n++
		}
	}
	return n, nil
}

func page[T any](items []T, f shared.Filter) []T {
	start := (f.Page - 1) * f.PageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + f.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func newTestLookupService(store *memStore, source *MockFederatedSource) *LookupService {
	inv, svc, cli := memInvoices{store}, memServices{store}, memClients{store}
	s := NewLookupService(inv, svc, cli, source, NewNoOpTransactionScope(inv, svc, cli), nil)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func strPtr(s string) *string { return &s }

func TestLookupServices(t *testing.T) {
	ctx := context.Background()
	remote := []legacy.ServiceContract{
		{Contract: "1001", ClientCode: "C-7", Voided: strPtr("N")},
		{Contract: "1002", ClientCode: "C-7", Voided: strPtr("S")},
	}

	t.Run("copies then reports existe", func(t *testing.T) {
		store := &memStore{}
		source := new(MockFederatedSource)
		source.On("ServicesByClient", ctx, "C-7").Return(remote, nil).Once()
		svc := newTestLookupService(store, source)

		first, err := svc.LookupServices(ctx, "C-7", "operador")
		require.NoError(t, err)
		assert.Equal(t, legacy.LookupMigrated, first.Status)
		require.NotNil(t, first.Records)
		assert.Equal(t, int64(2), *first.Records)
		assert.Equal(t, []string{"1001", "1002"}, first.Data.Contracts)
		assert.Equal(t, "operador", store.services[0].MigratedBy)

		second, err := svc.LookupServices(ctx, "C-7", "operador")
		require.NoError(t, err)
		assert.Equal(t, legacy.LookupExists, second.Status)
		assert.Nil(t, second.Records)
		assert.Len(t, store.services, 2)
		source.AssertNumberOfCalls(t, "ServicesByClient", 1)
	})

	t.Run("not found upstream", func(t *testing.T) {
		source := new(MockFederatedSource)
		source.On("ServicesByClient", ctx, "X").Return([]legacy.ServiceContract{}, nil)
		svc := newTestLookupService(&memStore{}, source)

		res, err := svc.LookupServices(ctx, "X", "")
		require.NoError(t, err)
		assert.Equal(t, legacy.LookupNotFound, res.Status)
		assert.False(t, res.Found())
	})

	t.Run("missing parameter", func(t *testing.T) {
		svc := newTestLookupService(&memStore{}, new(MockFederatedSource))
		_, err := svc.LookupServices(ctx, "  ", "")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("insert failure", func(t *testing.T) {
		store := &memStore{insertErr: errors.New("unique violation")}
		source := new(MockFederatedSource)
		source.On("ServicesByClient", ctx, "C-7").Return(remote, nil)
		svc := newTestLookupService(store, source)

		_, err := svc.LookupServices(ctx, "C-7", "")
		assert.Error(t, err)
	})
}

func TestLookupInvoices(t *testing.T) {
	ctx := context.Background()

	t.Run("client without local services", func(t *testing.T) {
		svc := newTestLookupService(&memStore{}, new(MockFederatedSource))
		res, err := svc.LookupInvoices(ctx, "C-7", "")
		require.NoError(t, err)
		assert.Equal(t, legacy.LookupNoServices, res.Status)
		assert.False(t, res.Found())
	})

	t.Run("copies missing invoices per contract", func(t *testing.T) {
		store := &memStore{
			services: []legacy.ServiceContract{
				{Contract: "1001", ClientCode: "C-7"},
				{Contract: "1002", ClientCode: "C-7"},
			},
			invoices: []legacy.Invoice{{InternalNumber: "9", Contract: "1001"}},
		}
		source := new(MockFederatedSource)
		source.On("InvoicesByContract", ctx, "1001").Return([]legacy.Invoice{
			{InternalNumber: "9", Contract: "1001"},
			{InternalNumber: "10", Contract: "1001"},
		}, nil)
		source.On("InvoicesByContract", ctx, "1002").Return([]legacy.Invoice{}, nil)
		svc := newTestLookupService(store, source)

		res, err := svc.LookupInvoices(ctx, "C-7", "")
		require.NoError(t, err)
		assert.Equal(t, legacy.LookupMigrated, res.Status)
		assert.Equal(t, int64(1), res.TotalInvoices)
		assert.Equal(t, []ContractMigration{{Contract: "1001", Invoices: 1}}, res.Detail)

		again, err := svc.LookupInvoices(ctx, "C-7", "")
		require.NoError(t, err)
		assert.Zero(t, again.TotalInvoices)
		assert.Empty(t, again.Detail)
		assert.Len(t, store.invoices, 2)
	})
}

func TestLookupClientByDocument(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	source := new(MockFederatedSource)
	source.On("ClientsByDocument", ctx, "4819716").Return([]legacy.LegacyClient{
		{ClientCode: "C-7", DocumentNumber: "4819716", GivenNames: "JUAN"},
	}, nil).Once()
	svc := newTestLookupService(store, source)

	res, err := svc.LookupClientByDocument(ctx, "4819716", "admin")
	require.NoError(t, err)
	assert.Equal(t, legacy.LookupMigrated, res.Status)
	assert.Equal(t, "C-7", res.Data.ClientCode)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), store.clients[0].MigratedAt)

	res, err = svc.LookupClientByDocument(ctx, "4819716", "admin")
	require.NoError(t, err)
	assert.Equal(t, legacy.LookupExists, res.Status)
	assert.Len(t, store.clients, 1)
}

func TestClientSummary(t *testing.T) {
	ctx := context.Background()
	store := &memStore{
		clients:  []legacy.LegacyClient{{ClientCode: "C-7", DocumentNumber: "4819716", GivenNames: "JUAN"}},
		services: []legacy.ServiceContract{{Contract: "1001", ClientCode: "C-7", Voided: strPtr("N")}},
		invoices: []legacy.Invoice{
			{InternalNumber: "1", Contract: "1001", Status: "G", TotalAmount: decimal.RequireFromString("100.50")},
			{InternalNumber: "2", Contract: "1001", Status: "NP", TotalAmount: decimal.RequireFromString("49.50")},
			{InternalNumber: "3", Contract: "1001", Status: "CA", TotalAmount: decimal.RequireFromString("999")},
		},
	}
	svc := newTestLookupService(store, new(MockFederatedSource))

	summary, err := svc.ClientSummary(ctx, "4819716")
	require.NoError(t, err)
	assert.Equal(t, "C-7", summary.Client.ClientCode)
	require.Len(t, summary.Services, 1)
	assert.True(t, summary.Services[0].Service.IsActive)
	assert.Equal(t, int64(2), summary.Services[0].Debt.InvoiceCount)
	assert.True(t, summary.Services[0].Debt.TotalAmount.Equal(decimal.RequireFromString("150")))

	_, err = svc.ClientSummary(ctx, "000")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSearchAndList(t *testing.T) {
	ctx := context.Background()
	store := &memStore{clients: []legacy.LegacyClient{
		{ClientCode: "1", PaternalName: "MAMANI", GivenNames: "ROSA"},
		{ClientCode: "2", PaternalName: "CONDORI", GivenNames: "LUIS"},
	}}
	svc := newTestLookupService(store, new(MockFederatedSource))

	found, err := svc.SearchClients(ctx, "mam", LocalListFilter{})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "MAMANI ROSA", found[0].FullName)

	_, err = svc.SearchClients(ctx, "", LocalListFilter{})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	list, total, err := svc.ListClients(ctx, LocalListFilter{PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 1)
}
