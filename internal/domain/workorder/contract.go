package workorder

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/shared"
)

// Contract and service status codes
const (
	ContractStatusActive = "VIGENTE"
	ServiceStatusPending = "PENDIENTE_ACTIVACION"
)

// Contract is created when a work request is finished (contrato)
type Contract struct {
	shared.BaseAggregateRoot
	RequestID      uuid.UUID
	CustomerID     uuid.UUID
	Username       string
	PlanID         uuid.UUID
	ContractStatus string
	ServiceStatus  string
	ContractedOn   time.Time
	InstalledOn    *time.Time
	Modem          bool
	Notes          string
}

// NewContract builds the contract for a finished request
func NewContract(r *WorkRequest, username string, modem bool) (*Contract, error) {
	if r.Status != StatusFinished {
		return nil, shared.NewDomainError("INVALID_STATE", "Contracts can only be created for finished requests")
	}
	username = strings.TrimSpace(username)
	if username == "" {
		username = "req-" + r.ID.String()[:8]
	}

	c := &Contract{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RequestID:         r.ID,
		CustomerID:        r.CustomerID,
		Username:          username,
		PlanID:            r.PlanID,
		ContractStatus:    ContractStatusActive,
		ServiceStatus:     ServiceStatusPending,
		Modem:             modem,
		Notes:             r.Notes,
	}
	c.ContractedOn = c.CreatedAt
	installed := r.StatusChangedOn
	c.InstalledOn = &installed
	return c, nil
}
