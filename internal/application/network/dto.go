package network

import (
	"time"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/geo"
	"github.com/isp/backend/internal/domain/network"
)

// =============================================================================
// Neighborhood DTOs
// =============================================================================

// CreateNeighborhoodRequest represents a request to create a neighborhood
type CreateNeighborhoodRequest struct {
	Name     string      `json:"name" binding:"required,min=1,max=100"`
	Boundary geo.Polygon `json:"boundary" binding:"required"`
}

// UpdateNeighborhoodRequest represents a request to update a neighborhood
type UpdateNeighborhoodRequest struct {
	Name     string       `json:"name" binding:"required,min=1,max=100"`
	Boundary *geo.Polygon `json:"boundary"`
}

// NeighborhoodResponse represents a neighborhood in API responses
type NeighborhoodResponse struct {
	ID                    uuid.UUID       `json:"id"`
	Name                  string          `json:"name"`
	Boundary              geo.Polygon     `json:"boundary"`
	BoundingBox           geo.BoundingBox `json:"bounding_box"`
	Active                bool            `json:"active"`
	TotalPoles            int64           `json:"total_poles"`
	PolesWithAvailability int64           `json:"poles_with_availability"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// NeighborhoodListFilter represents filter options for neighborhood list
type NeighborhoodListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// NeighborhoodRef is the short form of a neighborhood
type NeighborhoodRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"nombre"`
}

// ToNeighborhoodResponse converts a domain Neighborhood to NeighborhoodResponse
func ToNeighborhoodResponse(n *network.Neighborhood) NeighborhoodResponse {
	return NeighborhoodResponse{
		ID:          n.ID,
		Name:        n.Name,
		Boundary:    n.Boundary,
		BoundingBox: n.BoundingBox(),
		Active:      n.Active,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

// =============================================================================
// Pole DTOs
// =============================================================================

// CreatePoleRequest represents a request to create a pole
type CreatePoleRequest struct {
	Code           string    `json:"code" binding:"required,min=1,max=20"`
	Latitude       float64   `json:"latitude" binding:"latitude"`
	Longitude      float64   `json:"longitude" binding:"longitude"`
	NeighborhoodID uuid.UUID `json:"neighborhood_id" binding:"required"`
	TotalCapacity  int       `json:"total_capacity" binding:"omitempty,min=1,max=1000"`
	Notes          string    `json:"notes" binding:"max=500"`
}

// UpdatePoleRequest represents a request to update a pole.
// Capacity is intentionally absent.
type UpdatePoleRequest struct {
	Notes          *string    `json:"notes" binding:"omitempty,max=500"`
	Active         *bool      `json:"active"`
	NeighborhoodID *uuid.UUID `json:"neighborhood_id"`
}

// PoleResponse represents a pole in API responses
type PoleResponse struct {
	ID                uuid.UUID `json:"id"`
	Code              string    `json:"code"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	NeighborhoodID    uuid.UUID `json:"neighborhood_id"`
	TotalCapacity     int       `json:"total_capacity"`
	AvailableCapacity int       `json:"available_capacity"`
	HasAvailability   bool      `json:"has_availability"`
	OccupancyPercent  float64   `json:"occupancy_percent"`
	Active            bool      `json:"active"`
	Notes             string    `json:"notes,omitempty"`
	Version           int       `json:"version"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NearbyPoleResponse is a candidate pole with its distance
type NearbyPoleResponse struct {
	PoleResponse
	DistanceMeters float64 `json:"distancia_metros"`
}

// AvailablePolesResponse lists candidate poles around a point
type AvailablePolesResponse struct {
	Poles  []NearbyPoleResponse `json:"postes_disponibles"`
	Total  int                  `json:"total_encontrados"`
	Radius float64              `json:"radio_busqueda"`
}

// PoleListFilter represents filter options for pole list
type PoleListFilter struct {
	Search         string `form:"search"`
	NeighborhoodID string `form:"barrio" binding:"omitempty,uuid"`
	Available      *bool  `form:"disponible"`
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// NearbyQuery is a point and radius search
type NearbyQuery struct {
	Latitude  *float64 `form:"lat" json:"lat" binding:"required,latitude"`
	Longitude *float64 `form:"lng" json:"lng" binding:"required,longitude"`
	Radius    float64  `form:"radio_metros" json:"radio_metros" binding:"omitempty,gt=0,max=5000"`
}

// Point returns the queried point
func (q NearbyQuery) Point() geo.Point {
	return geo.Point{Lat: *q.Latitude, Lng: *q.Longitude}
}

// CapacityActionResponse is the outcome of an operator reserve/release
type CapacityActionResponse struct {
	Success bool         `json:"success"`
	Pole    PoleResponse `json:"pole"`
}

// ToPoleResponse converts a domain Pole to PoleResponse
func ToPoleResponse(p *network.Pole) PoleResponse {
	return PoleResponse{
		ID:                p.ID,
		Code:              p.Code,
		Latitude:          p.Location.Lat,
		Longitude:         p.Location.Lng,
		NeighborhoodID:    p.NeighborhoodID,
		TotalCapacity:     p.TotalCapacity,
		AvailableCapacity: p.AvailableCapacity,
		HasAvailability:   p.HasAvailability(),
		OccupancyPercent:  p.OccupancyPercent(),
		Active:            p.Active,
		Notes:             p.Notes,
		Version:           p.Version,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// ToPoleResponses converts a slice of poles
func ToPoleResponses(poles []network.Pole) []PoleResponse {
	responses := make([]PoleResponse, len(poles))
	for i := range poles {
		responses[i] = ToPoleResponse(&poles[i])
	}
	return responses
}

// ToNearbyPoleResponses converts candidates
func ToNearbyPoleResponses(candidates []Candidate) []NearbyPoleResponse {
	responses := make([]NearbyPoleResponse, len(candidates))
	for i := range candidates {
		responses[i] = NearbyPoleResponse{
			PoleResponse:   ToPoleResponse(&candidates[i].Pole),
			DistanceMeters: roundMeters(candidates[i].Distance),
		}
	}
	return responses
}

// =============================================================================
// Customer DTOs
// =============================================================================

// CreateCustomerRequest represents a request to register a customer
type CreateCustomerRequest struct {
	FirstName      string     `json:"first_name" binding:"required,min=1,max=100"`
	LastName       string     `json:"last_name" binding:"required,min=1,max=100"`
	Phone          string     `json:"phone" binding:"required,max=20"`
	Email          string     `json:"email" binding:"omitempty,email,max=200"`
	Address        string     `json:"address" binding:"required,max=500"`
	Latitude       *float64   `json:"latitude" binding:"required,latitude"`
	Longitude      *float64   `json:"longitude" binding:"required,longitude"`
	NeighborhoodID *uuid.UUID `json:"neighborhood_id"`
	Notes          string     `json:"notes" binding:"max=1000"`
}

// UpdateCustomerRequest represents a request to update contact or location
type UpdateCustomerRequest struct {
	FirstName      *string    `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName       *string    `json:"last_name" binding:"omitempty,min=1,max=100"`
	Phone          *string    `json:"phone" binding:"omitempty,max=20"`
	Email          *string    `json:"email" binding:"omitempty,max=200"`
	Address        *string    `json:"address" binding:"omitempty,max=500"`
	Latitude       *float64   `json:"latitude" binding:"omitempty,latitude"`
	Longitude      *float64   `json:"longitude" binding:"omitempty,longitude"`
	NeighborhoodID *uuid.UUID `json:"neighborhood_id"`
	Notes          *string    `json:"notes" binding:"omitempty,max=1000"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID              uuid.UUID  `json:"id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	FullName        string     `json:"full_name"`
	Phone           string     `json:"phone"`
	Email           string     `json:"email,omitempty"`
	Address         string     `json:"address"`
	Latitude        float64    `json:"latitude"`
	Longitude       float64    `json:"longitude"`
	NeighborhoodID  *uuid.UUID `json:"neighborhood_id,omitempty"`
	PoleID          *uuid.UUID `json:"pole_id,omitempty"`
	Status          string     `json:"status"`
	Notes           string     `json:"notes,omitempty"`
	DistanceToPoleM *float64   `json:"distance_to_pole_m,omitempty"`
	RequestedAt     time.Time  `json:"requested_at"`
	InstalledAt     *time.Time `json:"installed_at,omitempty"`
	Version         int        `json:"version"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CustomerListFilter represents filter options for customer list
type CustomerListFilter struct {
	Search         string `form:"search"`
	Status         string `form:"estado" binding:"omitempty,oneof=pendiente asignado instalado rechazado cancelado"`
	NeighborhoodID string `form:"barrio" binding:"omitempty,uuid"`
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AssignmentResponse is the result of an automatic pole assignment
type AssignmentResponse struct {
	Customer       CustomerResponse `json:"cliente"`
	Pole           PoleResponse     `json:"poste"`
	DistanceMeters float64          `json:"distancia_metros"`
	Attempts       int              `json:"intentos"`
}

// CoverageRequest is the body of a coverage check
type CoverageRequest struct {
	Latitude  *float64 `json:"lat" form:"lat" binding:"required,latitude"`
	Longitude *float64 `json:"lng" form:"lng" binding:"required,longitude"`
	Radius    float64  `json:"radio_metros" form:"radio_metros" binding:"omitempty,gt=0,max=5000"`
}

// Point returns the requested point
func (r CoverageRequest) Point() geo.Point {
	return geo.Point{Lat: *r.Latitude, Lng: *r.Longitude}
}

// CoverageResponse answers whether a point can be served
type CoverageResponse struct {
	HasCoverage    bool                `json:"tiene_cobertura"`
	AvailablePoles int                 `json:"postes_disponibles"`
	NearestPole    *NearbyPoleResponse `json:"poste_mas_cercano"`
	Neighborhood   *NeighborhoodRef    `json:"barrio"`
	Radius         float64             `json:"radio_busqueda"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *network.Customer) CustomerResponse {
	return CustomerResponse{
		ID:             c.ID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		FullName:       c.FullName(),
		Phone:          c.Phone,
		Email:          c.Email,
		Address:        c.Address,
		Latitude:       c.Location.Lat,
		Longitude:      c.Location.Lng,
		NeighborhoodID: c.NeighborhoodID,
		PoleID:         c.PoleID,
		Status:         string(c.Status),
		Notes:          c.Notes,
		RequestedAt:    c.RequestedAt,
		InstalledAt:    c.InstalledAt,
		Version:        c.Version,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ToCustomerResponses converts a slice of customers
func ToCustomerResponses(customers []network.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}

func roundMeters(m float64) float64 {
	return float64(int64(m*100+0.5)) / 100
}
