package handler

import (
	"github.com/gin-gonic/gin"
	planapp "github.com/isp/backend/internal/application/plan"
)

// CatalogHandler serves /formas-pago and /tipos-conexion
type CatalogHandler struct {
	BaseHandler
	catalogService *planapp.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *planapp.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) ListPaymentMethods(c *gin.Context) {
	var filter planapp.CatalogListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.catalogService.ListPaymentMethods(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize, 20)
	h.SuccessWithMeta(c, items, total, p, size)
}

func (h *CatalogHandler) GetPaymentMethod(c *gin.Context) {
	id, ok := h.pathID(c, "payment method")
	if !ok {
		return
	}
	pm, err := h.catalogService.GetPaymentMethod(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pm)
}

func (h *CatalogHandler) CreatePaymentMethod(c *gin.Context) {
	var req planapp.PaymentMethodRequest
	if !h.bindJSON(c, &req) {
		return
	}
	pm, err := h.catalogService.CreatePaymentMethod(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, pm)
}

func (h *CatalogHandler) UpdatePaymentMethod(c *gin.Context) {
	id, ok := h.pathID(c, "payment method")
	if !ok {
		return
	}
	var req planapp.PaymentMethodRequest
	if !h.bindJSON(c, &req) {
		return
	}
	pm, err := h.catalogService.UpdatePaymentMethod(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pm)
}

// DeletePaymentMethod answers 409 IN_USE while plans reference it
func (h *CatalogHandler) DeletePaymentMethod(c *gin.Context) {
	id, ok := h.pathID(c, "payment method")
	if !ok {
		return
	}
	if err := h.catalogService.DeletePaymentMethod(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *CatalogHandler) ListConnectionTypes(c *gin.Context) {
	var filter planapp.CatalogListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.catalogService.ListConnectionTypes(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize, 20)
	h.SuccessWithMeta(c, items, total, p, size)
}

func (h *CatalogHandler) GetConnectionType(c *gin.Context) {
	id, ok := h.pathID(c, "connection type")
	if !ok {
		return
	}
	ct, err := h.catalogService.GetConnectionType(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ct)
}

func (h *CatalogHandler) CreateConnectionType(c *gin.Context) {
	var req planapp.ConnectionTypeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ct, err := h.catalogService.CreateConnectionType(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ct)
}

func (h *CatalogHandler) UpdateConnectionType(c *gin.Context) {
	id, ok := h.pathID(c, "connection type")
	if !ok {
		return
	}
	var req planapp.ConnectionTypeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ct, err := h.catalogService.UpdateConnectionType(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ct)
}

func (h *CatalogHandler) DeleteConnectionType(c *gin.Context) {
	id, ok := h.pathID(c, "connection type")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteConnectionType(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
