package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/geo"
	"github.com/isp/backend/internal/domain/network"
)

// NeighborhoodModel is the persistence model for the Neighborhood aggregate.
// The boundary is stored as a JSON ring of [lng, lat] pairs next to its
// cached bounding box, which is what the containment prefilter queries.
type NeighborhoodModel struct {
	AggregateModel
	Name     string  `gorm:"type:varchar(100);not null;uniqueIndex"`
	Boundary string  `gorm:"type:text;not null"`
	MinLat   float64 `gorm:"not null"`
	MinLng   float64 `gorm:"not null"`
	MaxLat   float64 `gorm:"not null"`
	MaxLng   float64 `gorm:"not null"`
	Active   bool    `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (NeighborhoodModel) TableName() string {
	return "neighborhoods"
}

// ToDomain converts the persistence model to a domain Neighborhood
func (m *NeighborhoodModel) ToDomain() (*network.Neighborhood, error) {
	var boundary geo.Polygon
	if err := json.Unmarshal([]byte(m.Boundary), &boundary); err != nil {
		return nil, err
	}
	return &network.Neighborhood{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Boundary:          boundary,
		Active:            m.Active,
	}, nil
}

// FromDomain populates the persistence model from a domain Neighborhood
func (m *NeighborhoodModel) FromDomain(n *network.Neighborhood) error {
	boundary, err := json.Marshal(n.Boundary)
	if err != nil {
		return err
	}
	box := n.BoundingBox()
	m.FromDomainAggregateRoot(n.BaseAggregateRoot)
	m.Name = n.Name
	m.Boundary = string(boundary)
	m.MinLat, m.MinLng = box.MinLat, box.MinLng
	m.MaxLat, m.MaxLng = box.MaxLat, box.MaxLng
	m.Active = n.Active
	return nil
}

// NeighborhoodModelFromDomain creates a new persistence model from a domain Neighborhood
func NeighborhoodModelFromDomain(n *network.Neighborhood) (*NeighborhoodModel, error) {
	m := &NeighborhoodModel{}
	if err := m.FromDomain(n); err != nil {
		return nil, err
	}
	return m, nil
}

// PoleModel is the persistence model for the Pole aggregate
type PoleModel struct {
	AggregateModel
	Code              string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	Latitude          float64   `gorm:"not null;index:idx_poles_location,priority:1"`
	Longitude         float64   `gorm:"not null;index:idx_poles_location,priority:2"`
	NeighborhoodID    uuid.UUID `gorm:"type:uuid;not null;index"`
	TotalCapacity     int       `gorm:"not null;default:8"`
	AvailableCapacity int       `gorm:"not null;default:8"`
	Active            bool      `gorm:"not null;default:true"`
	Notes             string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PoleModel) TableName() string {
	return "poles"
}

// ToDomain converts the persistence model to a domain Pole
func (m *PoleModel) ToDomain() *network.Pole {
	return &network.Pole{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Code:              m.Code,
		Location:          geo.Point{Lat: m.Latitude, Lng: m.Longitude},
		NeighborhoodID:    m.NeighborhoodID,
		TotalCapacity:     m.TotalCapacity,
		AvailableCapacity: m.AvailableCapacity,
		Active:            m.Active,
		Notes:             m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Pole
func (m *PoleModel) FromDomain(p *network.Pole) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Code = p.Code
	m.Latitude = p.Location.Lat
	m.Longitude = p.Location.Lng
	m.NeighborhoodID = p.NeighborhoodID
	m.TotalCapacity = p.TotalCapacity
	m.AvailableCapacity = p.AvailableCapacity
	m.Active = p.Active
	m.Notes = p.Notes
}

// PoleModelFromDomain creates a new persistence model from a domain Pole
func PoleModelFromDomain(p *network.Pole) *PoleModel {
	m := &PoleModel{}
	m.FromDomain(p)
	return m
}

// CustomerModel is the persistence model for the Customer aggregate
type CustomerModel struct {
	AggregateModel
	FirstName      string     `gorm:"type:varchar(100);not null"`
	LastName       string     `gorm:"type:varchar(100);not null"`
	Phone          string     `gorm:"type:varchar(20);not null"`
	Email          string     `gorm:"type:varchar(254)"`
	Address        string     `gorm:"type:text;not null"`
	Latitude       float64    `gorm:"not null"`
	Longitude      float64    `gorm:"not null"`
	NeighborhoodID *uuid.UUID `gorm:"type:uuid;index"`
	PoleID         *uuid.UUID `gorm:"type:uuid;index"`
	Status         string     `gorm:"type:varchar(20);not null;default:'pendiente';index"`
	Notes          string     `gorm:"type:text"`
	RequestedAt    time.Time  `gorm:"not null;index"`
	InstalledAt    *time.Time
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *network.Customer {
	return &network.Customer{
		BaseAggregateRoot: m.ToAggregateRoot(),
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Phone:             m.Phone,
		Email:             m.Email,
		Address:           m.Address,
		Location:          geo.Point{Lat: m.Latitude, Lng: m.Longitude},
		NeighborhoodID:    m.NeighborhoodID,
		PoleID:            m.PoleID,
		Status:            network.CustomerStatus(m.Status),
		Notes:             m.Notes,
		RequestedAt:       m.RequestedAt,
		InstalledAt:       m.InstalledAt,
	}
}

// FromDomain populates the persistence model from a domain Customer
func (m *CustomerModel) FromDomain(c *network.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.Phone = c.Phone
	m.Email = c.Email
	m.Address = c.Address
	m.Latitude = c.Location.Lat
	m.Longitude = c.Location.Lng
	m.NeighborhoodID = c.NeighborhoodID
	m.PoleID = c.PoleID
	m.Status = string(c.Status)
	m.Notes = c.Notes
	m.RequestedAt = c.RequestedAt
	m.InstalledAt = c.InstalledAt
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer
func CustomerModelFromDomain(c *network.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
