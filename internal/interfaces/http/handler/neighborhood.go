package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	networkapp "github.com/isp/backend/internal/application/network"
	"github.com/isp/backend/internal/domain/geo"
	"github.com/isp/backend/internal/interfaces/http/dto"
)

// NeighborhoodHandler serves /barrios
type NeighborhoodHandler struct {
	BaseHandler
	neighborhoodService *networkapp.NeighborhoodService
}

// NewNeighborhoodHandler creates a new NeighborhoodHandler
func NewNeighborhoodHandler(neighborhoodService *networkapp.NeighborhoodService) *NeighborhoodHandler {
	return &NeighborhoodHandler{neighborhoodService: neighborhoodService}
}

// PointQuery is a lat/lng pair read from the query string
type PointQuery struct {
	Latitude  *float64 `form:"lat" binding:"required,latitude"`
	Longitude *float64 `form:"lng" binding:"required,longitude"`
}

// Point returns the queried point
func (q PointQuery) Point() geo.Point {
	return geo.Point{Lat: *q.Latitude, Lng: *q.Longitude}
}

// List godoc
// @Summary  List active neighborhoods
// @Tags     barrios
// @Router   /barrios [get]
func (h *NeighborhoodHandler) List(c *gin.Context) {
	var filter networkapp.NeighborhoodListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	items, total, err := h.neighborhoodService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize, 20)
	h.SuccessWithMeta(c, items, total, p, size)
}

// Get returns one neighborhood with its pole counters
func (h *NeighborhoodHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "neighborhood")
	if !ok {
		return
	}
	n, err := h.neighborhoodService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}

// Create godoc
// @Summary  Create a neighborhood from its boundary ring
// @Tags     barrios
// @Router   /barrios [post]
func (h *NeighborhoodHandler) Create(c *gin.Context) {
	var req networkapp.CreateNeighborhoodRequest
	if !h.bindJSON(c, &req) {
		return
	}
	n, err := h.neighborhoodService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, n)
}

// Update renames a neighborhood or replaces its boundary
func (h *NeighborhoodHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "neighborhood")
	if !ok {
		return
	}
	var req networkapp.UpdateNeighborhoodRequest
	if !h.bindJSON(c, &req) {
		return
	}
	n, err := h.neighborhoodService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}

// Delete deactivates a neighborhood. Rows are kept.
func (h *NeighborhoodHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "neighborhood")
	if !ok {
		return
	}
	if err := h.neighborhoodService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Poles lists the active poles of a neighborhood
func (h *NeighborhoodHandler) Poles(c *gin.Context) {
	id, ok := h.pathID(c, "neighborhood")
	if !ok {
		return
	}
	poles, err := h.neighborhoodService.ListPoles(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, poles)
}

// Locate godoc
// @Summary  Find the neighborhood containing lat/lng
// @Tags     barrios
// @Router   /barrios/locate [get]
func (h *NeighborhoodHandler) Locate(c *gin.Context) {
	var q PointQuery
	if !h.bindQuery(c, &q) {
		return
	}
	n, err := h.neighborhoodService.Locate(c.Request.Context(), q.Point())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if n == nil {
		h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "Ningún barrio contiene el punto indicado")
		return
	}
	h.Success(c, networkapp.ToNeighborhoodResponse(n))
}
