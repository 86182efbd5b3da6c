package handler

import (
	"github.com/gin-gonic/gin"
	planapp "github.com/isp/backend/internal/application/plan"
)

// PlanHandler serves /planes
type PlanHandler struct {
	BaseHandler
	planService *planapp.PlanService
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(planService *planapp.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// List godoc
// @Summary  List plans
// @Tags     planes
// @Router   /planes [get]
func (h *PlanHandler) List(c *gin.Context) {
	var filter planapp.CatalogListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	plans, total, err := h.planService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize, 20)
	h.SuccessWithMeta(c, plans, total, p, size)
}

func (h *PlanHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "plan")
	if !ok {
		return
	}
	pl, err := h.planService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pl)
}

// Create validates that the payment method and connection type exist
func (h *PlanHandler) Create(c *gin.Context) {
	var req planapp.PlanRequest
	if !h.bindJSON(c, &req) {
		return
	}
	pl, err := h.planService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, pl)
}

func (h *PlanHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "plan")
	if !ok {
		return
	}
	var req planapp.PlanRequest
	if !h.bindJSON(c, &req) {
		return
	}
	pl, err := h.planService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pl)
}

func (h *PlanHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "plan")
	if !ok {
		return
	}
	if err := h.planService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
