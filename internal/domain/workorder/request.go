package workorder

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/shared"
)

// Status is the lifecycle state of a work request
type Status string

const (
	StatusRegistered     Status = "REGISTRADA"
	StatusInReview       Status = "EN_REVISION"
	StatusApproved       Status = "APROBADA"
	StatusInInstallation Status = "EN_INSTALACION"
	StatusFinished       Status = "FINALIZADA"
	StatusVoided         Status = "ANULADA"
)

var nextStatus = map[Status]Status{
	StatusRegistered:     StatusInReview,
	StatusInReview:       StatusApproved,
	StatusApproved:       StatusInInstallation,
	StatusInInstallation: StatusFinished,
}

// IsFinal reports whether no further transition is possible
func (s Status) IsFinal() bool {
	return s == StatusFinished || s == StatusVoided
}

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusRegistered, StatusInReview, StatusApproved, StatusInInstallation, StatusFinished, StatusVoided:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving from s to target
func (s Status) CanTransitionTo(target Status) bool {
	if s.IsFinal() {
		return false
	}
	if target == StatusVoided {
		return true
	}
	return nextStatus[s] == target
}

// FollowUp records a period a request spent in one status (seguimiento)
type FollowUp struct {
	ID        uuid.UUID
	RequestID uuid.UUID
	Status    Status
	Sequence  int
	StartedOn time.Time
	StartedBy string
	EndedOn   *time.Time
	EndedBy   string
}

// IsOpen reports whether the follow-up has not been closed
func (f *FollowUp) IsOpen() bool {
	return f.EndedOn == nil
}

// RequestDetails holds the editable fields of a work request
type RequestDetails struct {
	CustomerID     uuid.UUID
	PlanID         uuid.UUID
	WorkType       string
	Category       string
	PaymentType    string
	ExpectedOn     *time.Time
	ConnectionType string
	Notes          string
}

// WorkRequest is a work-order-like request (solicitud) tracked through follow-ups
type WorkRequest struct {
	shared.BaseAggregateRoot
	RequestDetails
	Number          int
	RequestedOn     time.Time
	Status          Status
	StatusChangedOn time.Time
	CancelledOn     *time.Time
	Coverage        int
	FollowUps       []FollowUp
}

// NewWorkRequest registers a request and opens its first follow-up.
// coverage is the number of candidate poles found at creation.
func NewWorkRequest(details RequestDetails, coverage int, createdBy string) (*WorkRequest, error) {
	if err := details.validate(); err != nil {
		return nil, err
	}
	if coverage < 0 {
		coverage = 0
	}

	r := &WorkRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RequestDetails:    details.normalized(),
		Status:            StatusRegistered,
		Coverage:          coverage,
	}
	r.RequestedOn = r.CreatedAt
	r.StatusChangedOn = r.CreatedAt
	r.openFollowUp(StatusRegistered, createdBy, r.CreatedAt)

	r.AddDomainEvent(NewRequestStatusChangedEvent(r, "", StatusRegistered))
	return r, nil
}

// Update changes the editable fields of a request that is not final
func (r *WorkRequest) Update(details RequestDetails) error {
	if r.Status.IsFinal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a request in status "+string(r.Status))
	}
	if err := details.validate(); err != nil {
		return err
	}
	r.RequestDetails = details.normalized()
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// ChangeStatus closes the open follow-up and opens a new one in target
func (r *WorkRequest) ChangeStatus(target Status, by string) (*FollowUp, error) {
	if !target.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown request status "+string(target))
	}
	if !r.Status.CanTransitionTo(target) {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot move request from "+string(r.Status)+" to "+string(target))
	}

	now := time.Now()
	if open := r.OpenFollowUp(); open != nil {
		open.EndedOn = &now
		open.EndedBy = by
	}

	old := r.Status
	r.Status = target
	r.StatusChangedOn = now
	if target == StatusVoided {
		r.CancelledOn = &now
	}
	opened := r.openFollowUp(target, by, now)
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewRequestStatusChangedEvent(r, old, target))
	return opened, nil
}

// OpenFollowUp returns the single open follow-up, or nil
func (r *WorkRequest) OpenFollowUp() *FollowUp {
	for i := len(r.FollowUps) - 1; i >= 0; i-- {
		if r.FollowUps[i].IsOpen() {
			return &r.FollowUps[i]
		}
	}
	return nil
}

func (r *WorkRequest) openFollowUp(status Status, by string, at time.Time) *FollowUp {
	r.FollowUps = append(r.FollowUps, FollowUp{
		ID:        uuid.New(),
		RequestID: r.ID,
		Status:    status,
		Sequence:  len(r.FollowUps) + 1,
		StartedOn: at,
		StartedBy: by,
	})
	return &r.FollowUps[len(r.FollowUps)-1]
}

func (d RequestDetails) validate() error {
	if d.CustomerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if d.PlanID == uuid.Nil {
		return shared.NewDomainError("INVALID_PLAN", "Plan is required")
	}
	if strings.TrimSpace(d.WorkType) == "" {
		return shared.NewDomainError("INVALID_WORK_TYPE", "Work type is required")
	}
	if len(d.Notes) > 150 {
		return shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 150 characters")
	}
	return nil
}

func (d RequestDetails) normalized() RequestDetails {
	d.WorkType = strings.ToUpper(strings.TrimSpace(d.WorkType))
	d.Category = strings.TrimSpace(d.Category)
	d.PaymentType = strings.TrimSpace(d.PaymentType)
	d.ConnectionType = strings.TrimSpace(d.ConnectionType)
	return d
}
