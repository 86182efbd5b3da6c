package handler

import (
	"github.com/gin-gonic/gin"
	networkapp "github.com/isp/backend/internal/application/network"
)

// CustomerHandler serves /clientes
type CustomerHandler struct {
	BaseHandler
	customerService *networkapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *networkapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List godoc
// @Summary  List customers filtered by estado and barrio
// @Tags     clientes
// @Router   /clientes [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var filter networkapp.CustomerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	customers, total, err := h.customerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize, 20)
	h.SuccessWithMeta(c, customers, total, p, size)
}

// Get returns one customer
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "customer")
	if !ok {
		return
	}
	customer, err := h.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Create registers a pending customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req networkapp.CreateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	customer, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// Update changes contact or location fields
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "customer")
	if !ok {
		return
	}
	var req networkapp.UpdateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	customer, err := h.customerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Delete removes a customer, releasing its pole unit
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "customer")
	if !ok {
		return
	}
	if err := h.customerService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AssignPole godoc
// @Summary  Assign the nearest pole with capacity
// @Description  On no coverage the customer is marked rechazado and 404 is returned.
// @Tags     clientes
// @Router   /clientes/{id}/asignar-poste [put]
func (h *CustomerHandler) AssignPole(c *gin.Context) {
	id, ok := h.pathID(c, "customer")
	if !ok {
		return
	}
	assignment, err := h.customerService.AssignPole(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, assignment)
}

// CheckCoverage godoc
// @Summary  Report candidate poles and the barrio at a point
// @Tags     clientes
// @Router   /clientes/verificar-cobertura [post]
func (h *CustomerHandler) CheckCoverage(c *gin.Context) {
	var req networkapp.CoverageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	coverage, err := h.customerService.CheckCoverage(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, coverage)
}

// Install marks an assigned customer as installed
func (h *CustomerHandler) Install(c *gin.Context) {
	id, ok := h.pathID(c, "customer")
	if !ok {
		return
	}
	customer, err := h.customerService.Install(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Cancel withdraws a request and frees the held unit
func (h *CustomerHandler) Cancel(c *gin.Context) {
	id, ok := h.pathID(c, "customer")
	if !ok {
		return
	}
	customer, err := h.customerService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Stats returns counts per status and the assigned-or-installed percentage
func (h *CustomerHandler) Stats(c *gin.Context) {
	stats, err := h.customerService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
