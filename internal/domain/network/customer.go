package network

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/geo"
	"github.com/isp/backend/internal/domain/shared"
)

// CustomerStatus represents the onboarding state of a connection request
type CustomerStatus string

const (
	CustomerStatusPending   CustomerStatus = "pendiente"
	CustomerStatusAssigned  CustomerStatus = "asignado"
	CustomerStatusInstalled CustomerStatus = "instalado"
	CustomerStatusRejected  CustomerStatus = "rechazado"
	CustomerStatusCancelled CustomerStatus = "cancelado"
)

// AllCustomerStatuses lists statuses in lifecycle order
var AllCustomerStatuses = []CustomerStatus{
	CustomerStatusPending,
	CustomerStatusAssigned,
	CustomerStatusInstalled,
	CustomerStatusRejected,
	CustomerStatusCancelled,
}

// IsValid reports whether s is a known status
func (s CustomerStatus) IsValid() bool {
	for _, v := range AllCustomerStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status can no longer change through the allocator
func (s CustomerStatus) IsTerminal() bool {
	return s == CustomerStatusInstalled || s == CustomerStatusCancelled
}

var validPhone = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)

// Customer is a prospective subscriber waiting for a pole assignment
type Customer struct {
	shared.BaseAggregateRoot
	FirstName      string
	LastName       string
	Phone          string
	Email          string
	Address        string
	Location       geo.Point
	NeighborhoodID *uuid.UUID
	PoleID         *uuid.UUID
	Status         CustomerStatus
	Notes          string
	RequestedAt    time.Time
	InstalledAt    *time.Time
}

// NewCustomer creates a customer in pendiente status with no pole
func NewCustomer(firstName, lastName, phone, address string, location geo.Point) (*Customer, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if err := validatePersonName(firstName, "First name"); err != nil {
		return nil, err
	}
	if err := validatePersonName(lastName, "Last name"); err != nil {
		return nil, err
	}
	if err := validateCustomerPhone(phone); err != nil {
		return nil, err
	}
	if strings.TrimSpace(address) == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address cannot be empty")
	}
	if err := location.Validate(); err != nil {
		return nil, err
	}

	c := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FirstName:         firstName,
		LastName:          lastName,
		Phone:             strings.TrimSpace(phone),
		Address:           strings.TrimSpace(address),
		Location:          location,
		Status:            CustomerStatusPending,
	}
	c.RequestedAt = c.CreatedAt

	c.AddDomainEvent(NewCustomerCreatedEvent(c))
	return c, nil
}

// FullName returns "first last"
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// HasPole reports whether the customer currently holds a pole unit
func (c *Customer) HasPole() bool {
	return c.PoleID != nil && *c.PoleID != uuid.Nil
}

// HoldsPole reports whether the customer holds the given pole
func (c *Customer) HoldsPole(poleID uuid.UUID) bool {
	return c.HasPole() && *c.PoleID == poleID
}

// SetEmail sets an optional email address
func (c *Customer) SetEmail(email string) error {
	email = strings.TrimSpace(email)
	if email != "" && !strings.Contains(email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	c.Email = email
	c.touch()
	return nil
}

// SetNeighborhood sets the owning neighborhood; nil clears it
func (c *Customer) SetNeighborhood(id *uuid.UUID) {
	if id != nil && *id == uuid.Nil {
		id = nil
	}
	c.NeighborhoodID = id
	c.touch()
}

// UpdateContact changes contact fields
func (c *Customer) UpdateContact(firstName, lastName, phone, address, notes string) error {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if err := validatePersonName(firstName, "First name"); err != nil {
		return err
	}
	if err := validatePersonName(lastName, "Last name"); err != nil {
		return err
	}
	if err := validateCustomerPhone(phone); err != nil {
		return err
	}
	if strings.TrimSpace(address) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot be empty")
	}

	c.FirstName = firstName
	c.LastName = lastName
	c.Phone = strings.TrimSpace(phone)
	c.Address = strings.TrimSpace(address)
	c.Notes = notes
	c.touch()

	c.AddDomainEvent(NewCustomerUpdatedEvent(c))
	return nil
}

// Relocate moves the customer. The held pole is kept; reassignment is explicit.
func (c *Customer) Relocate(location geo.Point) error {
	if err := location.Validate(); err != nil {
		return err
	}
	c.Location = location
	c.touch()
	return nil
}

// AssignPole records the pole that now holds a unit for this customer.
// It returns the previously held pole, if any, so the caller can release it.
func (c *Customer) AssignPole(poleID uuid.UUID) (*uuid.UUID, error) {
	if c.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot assign a pole to a customer in status "+string(c.Status))
	}
	if poleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_POLE", "Pole ID cannot be empty")
	}

	previous := c.PoleID
	oldStatus := c.Status
	id := poleID
	c.PoleID = &id
	c.Status = CustomerStatusAssigned
	c.touch()

	c.AddDomainEvent(NewPoleAssignedEvent(c, previous))
	if oldStatus != c.Status {
		c.AddDomainEvent(NewCustomerStatusChangedEvent(c, oldStatus, c.Status))
	}
	return previous, nil
}

// Reject marks the customer as having no coverage. The held pole, if any, is
// returned so the caller can release it.
func (c *Customer) Reject() (*uuid.UUID, error) {
	if c.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot reject a customer in status "+string(c.Status))
	}
	return c.dropPole(CustomerStatusRejected), nil
}

// Cancel withdraws the request. The held pole, if any, is returned.
func (c *Customer) Cancel() (*uuid.UUID, error) {
	if c.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot cancel a customer in status "+string(c.Status))
	}
	return c.dropPole(CustomerStatusCancelled), nil
}

// Install marks an assigned customer as installed
func (c *Customer) Install() error {
	if c.Status != CustomerStatusAssigned {
		return shared.NewDomainError("INVALID_STATE", "Only assigned customers can be installed")
	}
	now := time.Now()
	c.InstalledAt = &now
	c.Status = CustomerStatusInstalled
	c.touch()

	c.AddDomainEvent(NewCustomerStatusChangedEvent(c, CustomerStatusAssigned, CustomerStatusInstalled))
	return nil
}

// DistanceTo returns the distance from the customer to p using fn
func (c *Customer) DistanceTo(p geo.Point, fn geo.DistanceFunc) float64 {
	return fn(c.Location, p)
}

func (c *Customer) dropPole(status CustomerStatus) *uuid.UUID {
	held := c.PoleID
	oldStatus := c.Status
	c.PoleID = nil
	c.Status = status
	c.touch()

	if oldStatus != status {
		c.AddDomainEvent(NewCustomerStatusChangedEvent(c, oldStatus, status))
	}
	return held
}

func (c *Customer) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

func validatePersonName(name, field string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", field+" cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", field+" cannot exceed 100 characters")
	}
	return nil
}

func validateCustomerPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot be empty")
	}
	if len(phone) > 20 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 20 characters")
	}
	if !validPhone.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

// ErrNoCoverage is returned when no pole with capacity serves a location
var ErrNoCoverage = shared.NewDomainError("NO_COVERAGE", "No hay postes disponibles en la zona")
