package handler

import (
	"github.com/gin-gonic/gin"
	planapp "github.com/isp/backend/internal/application/plan"
)

// SubscriberHandler serves /abonados
type SubscriberHandler struct {
	BaseHandler
	subscriberService *planapp.SubscriberService
}

// NewSubscriberHandler creates a new SubscriberHandler
func NewSubscriberHandler(subscriberService *planapp.SubscriberService) *SubscriberHandler {
	return &SubscriberHandler{subscriberService: subscriberService}
}

// List godoc
// @Summary  List subscribers filtered by estado, cobertura, tipo_cliente and zona
// @Tags     abonados
// @Router   /abonados [get]
func (h *SubscriberHandler) List(c *gin.Context) {
	var filter planapp.SubscriberListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	subs, total, err := h.subscriberService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize, 20)
	h.SuccessWithMeta(c, subs, total, p, size)
}

func (h *SubscriberHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "subscriber")
	if !ok {
		return
	}
	sub, err := h.subscriberService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sub)
}

// Create enforces the floor and company data rules before saving
func (h *SubscriberHandler) Create(c *gin.Context) {
	var req planapp.SubscriberRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sub, err := h.subscriberService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sub)
}

func (h *SubscriberHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "subscriber")
	if !ok {
		return
	}
	var req planapp.SubscriberRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sub, err := h.subscriberService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sub)
}

func (h *SubscriberHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "subscriber")
	if !ok {
		return
	}
	if err := h.subscriberService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Stats returns the cached subscriber counters
func (h *SubscriberHandler) Stats(c *gin.Context) {
	stats, err := h.subscriberService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
