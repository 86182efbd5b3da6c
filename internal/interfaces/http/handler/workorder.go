package handler

import (
	"github.com/gin-gonic/gin"
	workorderapp "github.com/isp/backend/internal/application/workorder"
	"github.com/isp/backend/internal/interfaces/http/middleware"
)

// RequestHandler serves /solicitudes
type RequestHandler struct {
	BaseHandler
	requestService *workorderapp.RequestService
}

// NewRequestHandler creates a new RequestHandler
func NewRequestHandler(requestService *workorderapp.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// List godoc
// @Summary  List work requests, filtered by estado and customer
// @Tags     solicitudes
// @Router   /solicitudes [get]
func (h *RequestHandler) List(c *gin.Context) {
	var filter workorderapp.RequestListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.requestService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize, 20)
	h.SuccessWithMeta(c, items, total, p, size)
}

// Get returns a request with its follow-ups
func (h *RequestHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "request")
	if !ok {
		return
	}
	r, err := h.requestService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, r)
}

// Create registers a request and opens its first follow-up. The
// authenticated principal, if any, is recorded as the creator.
func (h *RequestHandler) Create(c *gin.Context) {
	var in workorderapp.RequestInput
	if !h.bindJSON(c, &in) {
		return
	}
	r, err := h.requestService.Create(c.Request.Context(), in, middleware.GetPrincipal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, r)
}

func (h *RequestHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "request")
	if !ok {
		return
	}
	var in workorderapp.RequestInput
	if !h.bindJSON(c, &in) {
		return
	}
	r, err := h.requestService.Update(c.Request.Context(), id, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, r)
}

func (h *RequestHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "request")
	if !ok {
		return
	}
	if err := h.requestService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ChangeStatus godoc
// @Summary  Move a request to a new estado, closing the open follow-up
// @Description  FINALIZADA also creates the contract.
// @Tags     solicitudes
// @Router   /solicitudes/{id}/estado [post]
func (h *RequestHandler) ChangeStatus(c *gin.Context) {
	id, ok := h.pathID(c, "request")
	if !ok {
		return
	}
	var req workorderapp.ChangeStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.requestService.ChangeStatus(c.Request.Context(), id, req, middleware.GetPrincipal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// FollowUps lists the follow-ups of a request in sequence order
func (h *RequestHandler) FollowUps(c *gin.Context) {
	id, ok := h.pathID(c, "request")
	if !ok {
		return
	}
	items, err := h.requestService.FollowUps(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// ContractHandler serves /contratos
type ContractHandler struct {
	BaseHandler
	contractService *workorderapp.ContractService
}

// NewContractHandler creates a new ContractHandler
func NewContractHandler(contractService *workorderapp.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

func (h *ContractHandler) List(c *gin.Context) {
	var filter workorderapp.ContractListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.contractService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize, 20)
	h.SuccessWithMeta(c, items, total, p, size)
}

func (h *ContractHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "contract")
	if !ok {
		return
	}
	contract, err := h.contractService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}
