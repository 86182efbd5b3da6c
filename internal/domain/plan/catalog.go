// Package plan holds the commercial catalogue (payment methods, connection
// types, plans) and the subscribers who apply for a plan.
package plan

import (
	"strings"
	"time"

	"github.com/isp/backend/internal/domain/shared"
)

// PaymentMethod is a billing modality offered with a plan (forma de pago)
type PaymentMethod struct {
	shared.BaseAggregateRoot
	Name         string
	Description  string
	Abbreviation string
	Active       bool
}

// NewPaymentMethod creates an active payment method
func NewPaymentMethod(name, description, abbreviation string) (*PaymentMethod, error) {
	pm := &PaymentMethod{BaseAggregateRoot: shared.NewBaseAggregateRoot(), Active: true}
	if err := pm.Update(name, description, abbreviation); err != nil {
		return nil, err
	}
	pm.Version = 1
	return pm, nil
}

// Update changes the descriptive fields
func (pm *PaymentMethod) Update(name, description, abbreviation string) error {
	name = strings.TrimSpace(name)
	abbreviation = strings.TrimSpace(abbreviation)
	if err := validateCatalogName(name); err != nil {
		return err
	}
	if abbreviation == "" {
		return shared.NewDomainError("INVALID_ABBREVIATION", "Abbreviation cannot be empty")
	}
	if len(abbreviation) > 10 {
		return shared.NewDomainError("INVALID_ABBREVIATION", "Abbreviation cannot exceed 10 characters")
	}
	pm.Name = name
	pm.Description = description
	pm.Abbreviation = abbreviation
	pm.UpdatedAt = time.Now()
	pm.IncrementVersion()
	return nil
}

// SetActive toggles the payment method
func (pm *PaymentMethod) SetActive(active bool) {
	pm.Active = active
	pm.UpdatedAt = time.Now()
	pm.IncrementVersion()
}

// ConnectionType is the physical access technology (tipo de conexión)
type ConnectionType struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	Active      bool
}

// NewConnectionType creates an active connection type
func NewConnectionType(name, description string) (*ConnectionType, error) {
	ct := &ConnectionType{BaseAggregateRoot: shared.NewBaseAggregateRoot(), Active: true}
	if err := ct.Update(name, description); err != nil {
		return nil, err
	}
	ct.Version = 1
	return ct, nil
}

// Update changes the descriptive fields
func (ct *ConnectionType) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if err := validateCatalogName(name); err != nil {
		return err
	}
	ct.Name = name
	ct.Description = description
	ct.UpdatedAt = time.Now()
	ct.IncrementVersion()
	return nil
}

// SetActive toggles the connection type
func (ct *ConnectionType) SetActive(active bool) {
	ct.Active = active
	ct.UpdatedAt = time.Now()
	ct.IncrementVersion()
}

func validateCatalogName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 50 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 50 characters")
	}
	return nil
}
