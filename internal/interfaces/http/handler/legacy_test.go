package handler_test

import (
	"net/http"
	"testing"

	legacyapp "github.com/isp/backend/internal/application/legacy"
	"github.com/isp/backend/internal/domain/legacy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedFederated(src *fakeSource) {
	src.services["C-100"] = []legacy.ServiceContract{
		{Contract: "CT-1", ClientCode: "C-100", CommercialPlan: "HOGAR"},
		{Contract: "CT-2", ClientCode: "C-100", CommercialPlan: "HOGAR"},
	}
	src.invoices["CT-1"] = []legacy.Invoice{
		{InternalNumber: "F-1", Contract: "CT-1", TotalAmount: decimal.NewFromInt(120), Status: legacy.InvoiceStatusUnpaid},
		{InternalNumber: "F-2", Contract: "CT-1", TotalAmount: decimal.NewFromInt(80), Status: legacy.InvoiceStatusGenerated},
		{InternalNumber: "F-3", Contract: "CT-1", TotalAmount: decimal.NewFromInt(50), Status: legacy.InvoiceStatusCancelled},
	}
	src.clients["4455667"] = []legacy.LegacyClient{
		{ClientCode: "C-100", GivenNames: "Maria", PaternalName: "Choque", DocumentNumber: "4455667"},
	}
}

func TestLegacyHandler_ServicesAreCopiedOnce(t *testing.T) {
	env := newTestEnv(t)
	seedFederated(env.source)

	var first legacyapp.LookupResult
	env.expect(env.do(http.MethodGet, "/soli/consulta-servicio?cod_cliente=C-100", nil), http.StatusOK, &first)
	assert.Equal(t, legacy.LookupMigrated, first.Status)
	require.NotNil(t, first.Records)
	assert.Equal(t, int64(2), *first.Records)
	assert.ElementsMatch(t, []string{"CT-1", "CT-2"}, first.Data.Contracts)

	var second legacyapp.LookupResult
	env.expect(env.do(http.MethodGet, "/soli/consulta-servicio?cod_cliente=C-100", nil), http.StatusOK, &second)
	assert.Equal(t, legacy.LookupExists, second.Status)
	assert.ElementsMatch(t, []string{"CT-1", "CT-2"}, second.Data.Contracts)

	var services []legacyapp.ServiceResponse
	resp := env.expect(env.do(http.MethodGet, "/soli/servicios-locales", nil), http.StatusOK, &services)
	assert.Len(t, services, 2)
	assert.Equal(t, legacyapp.DefaultLocalPageSize, resp.Meta.PageSize)
}

func TestLegacyHandler_MissingClientCode(t *testing.T) {
	env := newTestEnv(t)
	resp := env.expect(env.do(http.MethodGet, "/soli/consulta-servicio", nil), http.StatusBadRequest, nil)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestLegacyHandler_UnknownClient(t *testing.T) {
	env := newTestEnv(t)

	var result legacyapp.LookupResult
	resp := env.expect(env.do(http.MethodGet, "/soli/consulta-servicio?cod_cliente=NADIE", nil), http.StatusNotFound, &result)
	assert.False(t, resp.Success)
	assert.Equal(t, legacy.LookupNotFound, result.Status)

	var invoices legacyapp.InvoiceLookupResult
	env.expect(env.do(http.MethodGet, "/soli/consulta-factura-cliente?cod_cliente=NADIE", nil), http.StatusNotFound, &invoices)
	assert.Equal(t, legacy.LookupNoServices, invoices.Status)
}

func TestLegacyHandler_InvoicesAndSummary(t *testing.T) {
	env := newTestEnv(t)
	seedFederated(env.source)

	env.expect(env.do(http.MethodGet, "/soli/consulta-servicio?cod_cliente=C-100", nil), http.StatusOK, nil)

	var result legacyapp.InvoiceLookupResult
	env.expect(env.do(http.MethodGet, "/soli/consulta-factura-cliente?cod_cliente=C-100", nil), http.StatusOK, &result)
	assert.Equal(t, legacy.LookupMigrated, result.Status)
	assert.Equal(t, int64(3), result.TotalInvoices)
	require.Len(t, result.Detail, 1)
	assert.Equal(t, "CT-1", result.Detail[0].Contract)

	var again legacyapp.InvoiceLookupResult
	env.expect(env.do(http.MethodGet, "/soli/consulta-factura-cliente?cod_cliente=C-100", nil), http.StatusOK, &again)
	assert.Zero(t, again.TotalInvoices)
	assert.Empty(t, again.Detail)

	var invoices []legacyapp.InvoiceResponse
	resp := env.expect(env.do(http.MethodGet, "/soli/facturas-locales?page_size=2", nil), http.StatusOK, &invoices)
	assert.Len(t, invoices, 2)
	assert.Equal(t, int64(3), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.TotalPages)

	var client legacyapp.LookupResult
	env.expect(env.do(http.MethodGet, "/soli/consulta-cliente?nro_documento=4455667", nil), http.StatusOK, &client)
	assert.Equal(t, legacy.LookupMigrated, client.Status)
	assert.Equal(t, "C-100", client.Data.ClientCode)

	var summary legacyapp.ClientSummaryResponse
	env.expect(env.do(http.MethodGet, "/soli/cliente-servicios-facturas-resumido?nro_documento=4455667", nil),
		http.StatusOK, &summary)
	assert.Equal(t, "C-100", summary.Client.ClientCode)
	require.Len(t, summary.Services, 2)
	for _, s := range summary.Services {
		if s.Service.Contract == "CT-1" {
			assert.Equal(t, int64(2), s.Debt.InvoiceCount)
			assert.True(t, decimal.NewFromInt(200).Equal(s.Debt.TotalAmount))
		} else {
			assert.Zero(t, s.Debt.InvoiceCount)
		}
	}

	var found []legacyapp.ClientResponse
	env.expect(env.do(http.MethodGet, "/soli/clientes-buscar?nombre=choque", nil), http.StatusOK, &found)
	require.Len(t, found, 1)
	assert.Equal(t, "4455667", found[0].DocumentNumber)

	env.expect(env.do(http.MethodGet, "/soli/cliente-servicios-facturas-resumido?nro_documento=000", nil),
		http.StatusNotFound, nil)
}
