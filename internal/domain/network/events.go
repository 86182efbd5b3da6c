package network

import (
	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeCustomer = "Customer"
	AggregateTypePole     = "Pole"
)

// Event type constants
const (
	EventTypeCustomerCreated       = "CustomerCreated"
	EventTypeCustomerUpdated       = "CustomerUpdated"
	EventTypeCustomerStatusChanged = "CustomerStatusChanged"
	EventTypePoleAssigned          = "PoleAssigned"
)

// CustomerCreatedEvent is published when a connection request is registered
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	FullName   string    `json:"full_name"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, c.ID),
		CustomerID:      c.ID,
		FullName:        c.FullName(),
		Latitude:        c.Location.Lat,
		Longitude:       c.Location.Lng,
	}
}

// CustomerUpdatedEvent is published when contact data changes
type CustomerUpdatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
}

// NewCustomerUpdatedEvent creates a new CustomerUpdatedEvent
func NewCustomerUpdatedEvent(c *Customer) *CustomerUpdatedEvent {
	return &CustomerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerUpdated, AggregateTypeCustomer, c.ID),
		CustomerID:      c.ID,
		FullName:        c.FullName(),
		Phone:           c.Phone,
	}
}

// CustomerStatusChangedEvent is published on every status transition
type CustomerStatusChangedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID      `json:"customer_id"`
	OldStatus  CustomerStatus `json:"old_status"`
	NewStatus  CustomerStatus `json:"new_status"`
}

// NewCustomerStatusChangedEvent creates a new CustomerStatusChangedEvent
func NewCustomerStatusChangedEvent(c *Customer, oldStatus, newStatus CustomerStatus) *CustomerStatusChangedEvent {
	return &CustomerStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerStatusChanged, AggregateTypeCustomer, c.ID),
		CustomerID:      c.ID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// PoleAssignedEvent is published when the allocator binds a customer to a pole
type PoleAssignedEvent struct {
	shared.BaseDomainEvent
	CustomerID     uuid.UUID  `json:"customer_id"`
	PoleID         uuid.UUID  `json:"pole_id"`
	PreviousPoleID *uuid.UUID `json:"previous_pole_id,omitempty"`
}

// NewPoleAssignedEvent creates a new PoleAssignedEvent
func NewPoleAssignedEvent(c *Customer, previous *uuid.UUID) *PoleAssignedEvent {
	return &PoleAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePoleAssigned, AggregateTypeCustomer, c.ID),
		CustomerID:      c.ID,
		PoleID:          *c.PoleID,
		PreviousPoleID:  previous,
	}
}
