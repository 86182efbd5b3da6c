package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/workorder"
)

// WorkRequestModel is the persistence model for the WorkRequest aggregate
type WorkRequestModel struct {
	AggregateModel
	Number          int       `gorm:"not null;uniqueIndex"`
	CustomerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	PlanID          uuid.UUID `gorm:"type:uuid;not null;index"`
	WorkType        string    `gorm:"type:varchar(20);not null"`
	Category        string    `gorm:"type:varchar(20)"`
	PaymentType     string    `gorm:"type:varchar(20)"`
	RequestedOn     time.Time `gorm:"not null"`
	ExpectedOn      *time.Time
	Status          string    `gorm:"type:varchar(20);not null;index"`
	StatusChangedOn time.Time `gorm:"not null"`
	CancelledOn     *time.Time
	ConnectionType  string          `gorm:"type:varchar(50)"`
	Coverage        int             `gorm:"not null;default:0"`
	Notes           string          `gorm:"type:varchar(150)"`
	FollowUps       []FollowUpModel `gorm:"foreignKey:RequestID;references:ID"`
}

// TableName returns the table name for GORM
func (WorkRequestModel) TableName() string {
	return "work_requests"
}

// ToDomain converts the persistence model to a domain WorkRequest
func (m *WorkRequestModel) ToDomain() *workorder.WorkRequest {
	r := &workorder.WorkRequest{
		BaseAggregateRoot: m.ToAggregateRoot(),
		RequestDetails: workorder.RequestDetails{
			CustomerID:     m.CustomerID,
			PlanID:         m.PlanID,
			WorkType:       m.WorkType,
			Category:       m.Category,
			PaymentType:    m.PaymentType,
			ExpectedOn:     m.ExpectedOn,
			ConnectionType: m.ConnectionType,
			Notes:          m.Notes,
		},
		Number:          m.Number,
		RequestedOn:     m.RequestedOn,
		Status:          workorder.Status(m.Status),
		StatusChangedOn: m.StatusChangedOn,
		CancelledOn:     m.CancelledOn,
		Coverage:        m.Coverage,
		FollowUps:       make([]workorder.FollowUp, len(m.FollowUps)),
	}
	for i := range m.FollowUps {
		r.FollowUps[i] = m.FollowUps[i].ToDomain()
	}
	return r
}

// WorkRequestModelFromDomain creates a persistence model from a domain
// WorkRequest. Follow-ups are mapped separately by the repository.
func WorkRequestModelFromDomain(r *workorder.WorkRequest) *WorkRequestModel {
	m := &WorkRequestModel{
		Number:          r.Number,
		CustomerID:      r.CustomerID,
		PlanID:          r.PlanID,
		WorkType:        r.WorkType,
		Category:        r.Category,
		PaymentType:     r.PaymentType,
		RequestedOn:     r.RequestedOn,
		ExpectedOn:      r.ExpectedOn,
		Status:          string(r.Status),
		StatusChangedOn: r.StatusChangedOn,
		CancelledOn:     r.CancelledOn,
		ConnectionType:  r.ConnectionType,
		Coverage:        r.Coverage,
		Notes:           r.Notes,
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	return m
}

// FollowUpModel is the persistence model for a request follow-up (seguimiento)
type FollowUpModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follow_ups_request_sequence,priority:1"`
	Sequence  int       `gorm:"not null;uniqueIndex:idx_follow_ups_request_sequence,priority:2"`
	Status    string    `gorm:"type:varchar(20);not null"`
	StartedOn time.Time `gorm:"not null"`
	StartedBy string    `gorm:"type:varchar(150)"`
	EndedOn   *time.Time
	EndedBy   string `gorm:"type:varchar(150)"`
}

// TableName returns the table name for GORM
func (FollowUpModel) TableName() string {
	return "work_request_follow_ups"
}

// ToDomain converts the persistence model to a domain FollowUp
func (m *FollowUpModel) ToDomain() workorder.FollowUp {
	return workorder.FollowUp{
		ID:        m.ID,
		RequestID: m.RequestID,
		Status:    workorder.Status(m.Status),
		Sequence:  m.Sequence,
		StartedOn: m.StartedOn,
		StartedBy: m.StartedBy,
		EndedOn:   m.EndedOn,
		EndedBy:   m.EndedBy,
	}
}

// FollowUpModelFromDomain creates a persistence model from a domain FollowUp
func FollowUpModelFromDomain(f *workorder.FollowUp) *FollowUpModel {
	return &FollowUpModel{
		ID:        f.ID,
		RequestID: f.RequestID,
		Sequence:  f.Sequence,
		Status:    string(f.Status),
		StartedOn: f.StartedOn,
		StartedBy: f.StartedBy,
		EndedOn:   f.EndedOn,
		EndedBy:   f.EndedBy,
	}
}

// ContractModel is the persistence model for Contract
type ContractModel struct {
	AggregateModel
	RequestID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CustomerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Username       string    `gorm:"type:varchar(50);not null"`
	PlanID         uuid.UUID `gorm:"type:uuid;not null"`
	ContractStatus string    `gorm:"type:varchar(30);not null"`
	ServiceStatus  string    `gorm:"type:varchar(30);not null"`
	ContractedOn   time.Time `gorm:"not null;index"`
	InstalledOn    *time.Time
	Modem          bool   `gorm:"not null;default:false"`
	Notes          string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ContractModel) TableName() string {
	return "contracts"
}

// ToDomain converts the persistence model to a domain Contract
func (m *ContractModel) ToDomain() *workorder.Contract {
	return &workorder.Contract{
		BaseAggregateRoot: m.ToAggregateRoot(),
		RequestID:         m.RequestID,
		CustomerID:        m.CustomerID,
		Username:          m.Username,
		PlanID:            m.PlanID,
		ContractStatus:    m.ContractStatus,
		ServiceStatus:     m.ServiceStatus,
		ContractedOn:      m.ContractedOn,
		InstalledOn:       m.InstalledOn,
		Modem:             m.Modem,
		Notes:             m.Notes,
	}
}

// ContractModelFromDomain creates a persistence model from a domain Contract
func ContractModelFromDomain(c *workorder.Contract) *ContractModel {
	m := &ContractModel{
		RequestID:      c.RequestID,
		CustomerID:     c.CustomerID,
		Username:       c.Username,
		PlanID:         c.PlanID,
		ContractStatus: c.ContractStatus,
		ServiceStatus:  c.ServiceStatus,
		ContractedOn:   c.ContractedOn,
		InstalledOn:    c.InstalledOn,
		Modem:          c.Modem,
		Notes:          c.Notes,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}
