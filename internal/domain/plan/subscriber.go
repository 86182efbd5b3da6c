package plan

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Housing is the kind of dwelling to be connected
type Housing string

const (
	HousingHouse     Housing = "Casa"
	HousingApartment Housing = "Departamento"
)

// SubscriberType distinguishes individuals from companies
type SubscriberType string

const (
	SubscriberTypeCommon  SubscriberType = "COMUN"
	SubscriberTypeCompany SubscriberType = "EMPRESA"
)

// Coverage records whether the address is reachable by the network
type Coverage string

const (
	CoverageCovered    Coverage = "CON_COBERTURA"
	CoverageNotCovered Coverage = "SIN_COBERTURA"
)

// SubscriberStatus is the commercial status of a subscriber
type SubscriberStatus string

const (
	SubscriberStatusPendingCoverage     SubscriberStatus = "PEND_COBERTURA"
	SubscriberStatusPendingEquipment    SubscriberStatus = "PEND_EQUIPO"
	SubscriberStatusPendingInstallation SubscriberStatus = "PEND_INSTALACION"
	SubscriberStatusActive              SubscriberStatus = "ACTIVO"
	SubscriberStatusSuspended           SubscriberStatus = "SUSPENDIDO"
)

// IsPending reports whether the status is one of the PEND_* states
func (s SubscriberStatus) IsPending() bool {
	return strings.HasPrefix(string(s), "PEND_")
}

// IsValid reports whether s is a known status
func (s SubscriberStatus) IsValid() bool {
	switch s {
	case SubscriberStatusPendingCoverage, SubscriberStatusPendingEquipment,
		SubscriberStatusPendingInstallation, SubscriberStatusActive, SubscriberStatusSuspended:
		return true
	}
	return false
}

// SubscriberProfile is the editable data of a subscriber
type SubscriberProfile struct {
	FirstName      string
	LastName       string
	DocumentNumber string
	Email          string
	Phone          string
	Housing        Housing
	Floor          string
	Street         string
	Zone           string
	FullAddress    string
	DoorNumber     string
	References     string
	Latitude       *decimal.Decimal
	Longitude      *decimal.Decimal
	Type           SubscriberType
	NIT            string
	BusinessName   string
	Notes          string
	PlanID         *uuid.UUID
}

// Subscriber is a plan applicant (abonado)
type Subscriber struct {
	shared.BaseAggregateRoot
	SubscriberProfile
	Coverage Coverage
	Status   SubscriberStatus
}

// NewSubscriber creates a subscriber pending coverage
func NewSubscriber(profile SubscriberProfile) (*Subscriber, error) {
	s := &Subscriber{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Coverage:          CoverageNotCovered,
		Status:            SubscriberStatusPendingCoverage,
	}
	if err := s.Update(profile); err != nil {
		return nil, err
	}
	s.Version = 1
	return s, nil
}

// Update replaces the profile, normalising housing and company fields
func (s *Subscriber) Update(profile SubscriberProfile) error {
	profile.Normalize()
	if err := profile.Validate(); err != nil {
		return err
	}
	s.SubscriberProfile = profile
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// SetCoverage records the coverage outcome
func (s *Subscriber) SetCoverage(c Coverage) error {
	if c != CoverageCovered && c != CoverageNotCovered {
		return shared.NewDomainError("INVALID_COVERAGE", "Invalid coverage value")
	}
	s.Coverage = c
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// ChangeStatus moves the subscriber to another commercial status
func (s *Subscriber) ChangeStatus(status SubscriberStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid subscriber status")
	}
	s.Status = status
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Normalize clears fields that do not apply: floor for houses and company
// data for common subscribers.
func (p *SubscriberProfile) Normalize() {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.DocumentNumber = strings.TrimSpace(p.DocumentNumber)
	p.Email = strings.TrimSpace(p.Email)
	if p.Type == "" {
		p.Type = SubscriberTypeCommon
	}
	if p.Housing == HousingHouse {
		p.Floor = ""
	}
	if p.Type == SubscriberTypeCommon {
		p.NIT = ""
		p.BusinessName = ""
	}
}

// Validate checks required fields after normalisation
func (p *SubscriberProfile) Validate() error {
	if p.FirstName == "" || len(p.FirstName) > 50 {
		return shared.NewDomainError("INVALID_NAME", "First name is required and cannot exceed 50 characters")
	}
	if p.LastName == "" || len(p.LastName) > 50 {
		return shared.NewDomainError("INVALID_NAME", "Last name is required and cannot exceed 50 characters")
	}
	if strings.TrimSpace(p.Phone) == "" {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot be empty")
	}
	if p.Email != "" && !strings.Contains(p.Email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	switch p.Housing {
	case HousingHouse:
	case HousingApartment:
		if strings.TrimSpace(p.Floor) == "" {
			return shared.NewDomainError("FLOOR_REQUIRED", "Floor is required for apartments")
		}
	default:
		return shared.NewDomainError("INVALID_HOUSING", "Housing must be 'Casa' or 'Departamento'")
	}
	switch p.Type {
	case SubscriberTypeCommon:
	case SubscriberTypeCompany:
		if strings.TrimSpace(p.NIT) == "" || strings.TrimSpace(p.BusinessName) == "" {
			return shared.NewDomainError("COMPANY_DATA_REQUIRED", "NIT and business name are required for companies")
		}
	default:
		return shared.NewDomainError("INVALID_TYPE", "Subscriber type must be 'COMUN' or 'EMPRESA'")
	}
	if strings.TrimSpace(p.Street) == "" || strings.TrimSpace(p.Zone) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Street and zone are required")
	}
	return nil
}
