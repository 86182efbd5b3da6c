package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	legacyapp "github.com/isp/backend/internal/application/legacy"
	"github.com/isp/backend/internal/interfaces/http/dto"
	"github.com/isp/backend/internal/interfaces/http/middleware"
)

// LegacyHandler serves the /soli read-through endpoints
type LegacyHandler struct {
	BaseHandler
	lookupService *legacyapp.LookupService
}

// NewLegacyHandler creates a new LegacyHandler
func NewLegacyHandler(lookupService *legacyapp.LookupService) *LegacyHandler {
	return &LegacyHandler{lookupService: lookupService}
}

// lookupMiss answers 404 while still returning the lookup outcome
func (h *LegacyHandler) lookupMiss(c *gin.Context, result any, message string) {
	c.JSON(http.StatusNotFound, dto.Response{
		Success: false,
		Data:    result,
		Error: &dto.ErrorInfo{
			Code:      dto.ErrCodeNotFound,
			Message:   message,
			RequestID: middleware.GetRequestID(c),
		},
	})
}

// LookupServices godoc
// @Summary  Local contracts of a client, copied from servicios_cliente on first access
// @Tags     soli
// @Router   /soli/consulta-servicio [get]
func (h *LegacyHandler) LookupServices(c *gin.Context) {
	result, err := h.lookupService.LookupServices(c.Request.Context(), c.Query("cod_cliente"), middleware.GetPrincipal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !result.Found() {
		h.lookupMiss(c, result, "No se encontraron servicios para el cliente")
		return
	}
	h.Success(c, result)
}

// LookupInvoices godoc
// @Summary  Local invoices of every contract of a client, copied on first access
// @Tags     soli
// @Router   /soli/consulta-factura-cliente [get]
func (h *LegacyHandler) LookupInvoices(c *gin.Context) {
	result, err := h.lookupService.LookupInvoices(c.Request.Context(), c.Query("cod_cliente"), middleware.GetPrincipal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !result.Found() {
		h.lookupMiss(c, result, "El cliente no tiene servicios locales")
		return
	}
	h.Success(c, result)
}

// LookupClient copies a client by document number
func (h *LegacyHandler) LookupClient(c *gin.Context) {
	result, err := h.lookupService.LookupClientByDocument(c.Request.Context(), c.Query("nro_documento"), middleware.GetPrincipal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !result.Found() {
		h.lookupMiss(c, result, "Cliente no encontrado")
		return
	}
	h.Success(c, result)
}

func (h *LegacyHandler) ListInvoices(c *gin.Context) {
	var filter legacyapp.LocalListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.lookupService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize, legacyapp.DefaultLocalPageSize)
	h.SuccessWithMeta(c, items, total, p, size)
}

func (h *LegacyHandler) ListServices(c *gin.Context) {
	var filter legacyapp.LocalListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.lookupService.ListServices(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize, legacyapp.DefaultLocalPageSize)
	h.SuccessWithMeta(c, items, total, p, size)
}

func (h *LegacyHandler) ListClients(c *gin.Context) {
	var filter legacyapp.LocalListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.lookupService.ListClients(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize, 20)
	h.SuccessWithMeta(c, items, total, p, size)
}

// SearchClients matches local clients by name
func (h *LegacyHandler) SearchClients(c *gin.Context) {
	var filter legacyapp.LocalListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, err := h.lookupService.SearchClients(c.Request.Context(), c.Query("nombre"), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// ClientSummary returns the client with the debt of each service
func (h *LegacyHandler) ClientSummary(c *gin.Context) {
	summary, err := h.lookupService.ClientSummary(c.Request.Context(), c.Query("nro_documento"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
