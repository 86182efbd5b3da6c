package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/plan"
	"github.com/shopspring/decimal"
)

// PaymentMethodModel is the persistence model for PaymentMethod
type PaymentMethodModel struct {
	AggregateModel
	Name         string `gorm:"type:varchar(100);not null"`
	Description  string `gorm:"type:text"`
	Abbreviation string `gorm:"type:varchar(10);not null"`
	Active       bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (PaymentMethodModel) TableName() string {
	return "payment_methods"
}

// ToDomain converts the persistence model to a domain PaymentMethod
func (m *PaymentMethodModel) ToDomain() *plan.PaymentMethod {
	return &plan.PaymentMethod{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		Abbreviation:      m.Abbreviation,
		Active:            m.Active,
	}
}

// PaymentMethodModelFromDomain creates a persistence model from a domain PaymentMethod
func PaymentMethodModelFromDomain(pm *plan.PaymentMethod) *PaymentMethodModel {
	m := &PaymentMethodModel{
		Name:         pm.Name,
		Description:  pm.Description,
		Abbreviation: pm.Abbreviation,
		Active:       pm.Active,
	}
	m.FromDomainAggregateRoot(pm.BaseAggregateRoot)
	return m
}

// ConnectionTypeModel is the persistence model for ConnectionType
type ConnectionTypeModel struct {
	AggregateModel
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
	Active      bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ConnectionTypeModel) TableName() string {
	return "connection_types"
}

// ToDomain converts the persistence model to a domain ConnectionType
func (m *ConnectionTypeModel) ToDomain() *plan.ConnectionType {
	return &plan.ConnectionType{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		Active:            m.Active,
	}
}

// ConnectionTypeModelFromDomain creates a persistence model from a domain ConnectionType
func ConnectionTypeModelFromDomain(ct *plan.ConnectionType) *ConnectionTypeModel {
	m := &ConnectionTypeModel{
		Name:        ct.Name,
		Description: ct.Description,
		Active:      ct.Active,
	}
	m.FromDomainAggregateRoot(ct.BaseAggregateRoot)
	return m
}

// PlanModel is the persistence model for Plan
type PlanModel struct {
	AggregateModel
	Code             string          `gorm:"type:varchar(20);not null;uniqueIndex"`
	Description      string          `gorm:"type:text"`
	PaymentMethodID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ConnectionTypeID uuid.UUID       `gorm:"type:uuid;not null;index"`
	BaseAmount       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	BillingPeriod    string          `gorm:"type:varchar(20);not null"`
	StartDate        time.Time       `gorm:"not null"`
	EndDate          *time.Time
	Active           bool   `gorm:"not null;default:true"`
	ItemCode         string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (PlanModel) TableName() string {
	return "plans"
}

// ToDomain converts the persistence model to a domain Plan
func (m *PlanModel) ToDomain() *plan.Plan {
	return &plan.Plan{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Code:              m.Code,
		Description:       m.Description,
		PaymentMethodID:   m.PaymentMethodID,
		ConnectionTypeID:  m.ConnectionTypeID,
		BaseAmount:        m.BaseAmount,
		BillingPeriod:     m.BillingPeriod,
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		Active:            m.Active,
		ItemCode:          m.ItemCode,
	}
}

// PlanModelFromDomain creates a persistence model from a domain Plan
func PlanModelFromDomain(p *plan.Plan) *PlanModel {
	m := &PlanModel{
		Code:             p.Code,
		Description:      p.Description,
		PaymentMethodID:  p.PaymentMethodID,
		ConnectionTypeID: p.ConnectionTypeID,
		BaseAmount:       p.BaseAmount,
		BillingPeriod:    p.BillingPeriod,
		StartDate:        p.StartDate,
		EndDate:          p.EndDate,
		Active:           p.Active,
		ItemCode:         p.ItemCode,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}

// SubscriberModel is the persistence model for Subscriber. An empty document
// number is stored as NULL so the unique index only applies to real values.
type SubscriberModel struct {
	AggregateModel
	FirstName      string           `gorm:"type:varchar(100);not null"`
	LastName       string           `gorm:"type:varchar(100);not null"`
	DocumentNumber *string          `gorm:"type:varchar(20);uniqueIndex"`
	Email          string           `gorm:"type:varchar(254)"`
	Phone          string           `gorm:"type:varchar(20)"`
	Housing        string           `gorm:"type:varchar(20);not null;default:'Casa'"`
	Floor          string           `gorm:"type:varchar(10)"`
	Street         string           `gorm:"type:varchar(200)"`
	Zone           string           `gorm:"type:varchar(100);index"`
	FullAddress    string           `gorm:"type:text"`
	DoorNumber     string           `gorm:"type:varchar(20)"`
	References     string           `gorm:"column:address_references;type:text"`
	Latitude       *decimal.Decimal `gorm:"type:decimal(10,7)"`
	Longitude      *decimal.Decimal `gorm:"type:decimal(10,7)"`
	CustomerType   string           `gorm:"type:varchar(10);not null;default:'COMUN';index"`
	NIT            string           `gorm:"column:nit;type:varchar(20)"`
	BusinessName   string           `gorm:"type:varchar(200)"`
	Notes          string           `gorm:"type:text"`
	PlanID         *uuid.UUID       `gorm:"type:uuid;index"`
	Coverage       string           `gorm:"type:varchar(20);not null;default:'SIN_COBERTURA';index"`
	Status         string           `gorm:"type:varchar(20);not null;default:'PEND_COBERTURA';index"`
}

// TableName returns the table name for GORM
func (SubscriberModel) TableName() string {
	return "subscribers"
}

// ToDomain converts the persistence model to a domain Subscriber
func (m *SubscriberModel) ToDomain() *plan.Subscriber {
	document := ""
	if m.DocumentNumber != nil {
		document = *m.DocumentNumber
	}
	return &plan.Subscriber{
		BaseAggregateRoot: m.ToAggregateRoot(),
		SubscriberProfile: plan.SubscriberProfile{
			FirstName:      m.FirstName,
			LastName:       m.LastName,
			DocumentNumber: document,
			Email:          m.Email,
			Phone:          m.Phone,
			Housing:        plan.Housing(m.Housing),
			Floor:          m.Floor,
			Street:         m.Street,
			Zone:           m.Zone,
			FullAddress:    m.FullAddress,
			DoorNumber:     m.DoorNumber,
			References:     m.References,
			Latitude:       m.Latitude,
			Longitude:      m.Longitude,
			Type:           plan.SubscriberType(m.CustomerType),
			NIT:            m.NIT,
			BusinessName:   m.BusinessName,
			Notes:          m.Notes,
			PlanID:         m.PlanID,
		},
		Coverage: plan.Coverage(m.Coverage),
		Status:   plan.SubscriberStatus(m.Status),
	}
}

// SubscriberModelFromDomain creates a persistence model from a domain Subscriber
func SubscriberModelFromDomain(s *plan.Subscriber) *SubscriberModel {
	var document *string
	if s.DocumentNumber != "" {
		doc := s.DocumentNumber
		document = &doc
	}
	m := &SubscriberModel{
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		DocumentNumber: document,
		Email:          s.Email,
		Phone:          s.Phone,
		Housing:        string(s.Housing),
		Floor:          s.Floor,
		Street:         s.Street,
		Zone:           s.Zone,
		FullAddress:    s.FullAddress,
		DoorNumber:     s.DoorNumber,
		References:     s.References,
		Latitude:       s.Latitude,
		Longitude:      s.Longitude,
		CustomerType:   string(s.Type),
		NIT:            s.NIT,
		BusinessName:   s.BusinessName,
		Notes:          s.Notes,
		PlanID:         s.PlanID,
		Coverage:       string(s.Coverage),
		Status:         string(s.Status),
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}
