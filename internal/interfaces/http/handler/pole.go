package handler

import (
	"github.com/gin-gonic/gin"
	networkapp "github.com/isp/backend/internal/application/network"
)

// PoleHandler serves /postes
type PoleHandler struct {
	BaseHandler
	poleService *networkapp.PoleService
}

// NewPoleHandler creates a new PoleHandler
func NewPoleHandler(poleService *networkapp.PoleService) *PoleHandler {
	return &PoleHandler{poleService: poleService}
}

// List godoc
// @Summary  List active poles, filtered by barrio and searched by code
// @Tags     postes
// @Router   /postes [get]
func (h *PoleHandler) List(c *gin.Context) {
	var filter networkapp.PoleListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	poles, total, err := h.poleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize, 20)
	h.SuccessWithMeta(c, poles, total, p, size)
}

// Get returns one pole
func (h *PoleHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "pole")
	if !ok {
		return
	}
	pole, err := h.poleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pole)
}

// Create registers a pole with all of its capacity available
func (h *PoleHandler) Create(c *gin.Context) {
	var req networkapp.CreatePoleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	pole, err := h.poleService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, pole)
}

// Update changes notes, the active flag or the neighborhood
func (h *PoleHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "pole")
	if !ok {
		return
	}
	var req networkapp.UpdatePoleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	pole, err := h.poleService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pole)
}

// Available godoc
// @Summary  Poles with spare capacity within radio_metros of lat/lng
// @Tags     postes
// @Router   /postes/disponibles [get]
func (h *PoleHandler) Available(c *gin.Context) {
	var q networkapp.NearbyQuery
	if !h.bindQuery(c, &q) {
		return
	}
	result, err := h.poleService.Nearby(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Reserve takes one unit of capacity. success is false when the pole is full.
func (h *PoleHandler) Reserve(c *gin.Context) {
	id, ok := h.pathID(c, "pole")
	if !ok {
		return
	}
	result, err := h.poleService.Reserve(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Release returns one unit of capacity. success is false when nothing is held.
func (h *PoleHandler) Release(c *gin.Context) {
	id, ok := h.pathID(c, "pole")
	if !ok {
		return
	}
	result, err := h.poleService.Release(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
