package workorder

import (
	"time"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/workorder"
)

// RequestInput creates or updates a work request
type RequestInput struct {
	CustomerID     uuid.UUID  `json:"customer_id" binding:"required"`
	PlanID         uuid.UUID  `json:"plan_id" binding:"required"`
	WorkType       string     `json:"work_type" binding:"required,max=10"`
	Category       string     `json:"category" binding:"max=10"`
	PaymentType    string     `json:"payment_type" binding:"max=10"`
	ExpectedOn     *time.Time `json:"expected_on"`
	ConnectionType string     `json:"connection_type" binding:"max=20"`
	Notes          string     `json:"notes" binding:"max=150"`
}

// Details converts the input to domain request details
func (in RequestInput) Details() workorder.RequestDetails {
	return workorder.RequestDetails{
		CustomerID:     in.CustomerID,
		PlanID:         in.PlanID,
		WorkType:       in.WorkType,
		Category:       in.Category,
		PaymentType:    in.PaymentType,
		ExpectedOn:     in.ExpectedOn,
		ConnectionType: in.ConnectionType,
		Notes:          in.Notes,
	}
}

// ChangeStatusRequest moves a request through its lifecycle
type ChangeStatusRequest struct {
	Status string `json:"estado" binding:"required,oneof=EN_REVISION APROBADA EN_INSTALACION FINALIZADA ANULADA"`
	// Username and Modem are used for the contract created on FINALIZADA
	Username string `json:"usuario" binding:"max=50"`
	Modem    bool   `json:"modem"`
}

// FollowUpResponse represents a follow-up in API responses
type FollowUpResponse struct {
	ID        uuid.UUID  `json:"id"`
	Status    string     `json:"estado"`
	Sequence  int        `json:"secuencia"`
	StartedOn time.Time  `json:"fecha_inicio"`
	StartedBy string     `json:"usuario_inicio,omitempty"`
	EndedOn   *time.Time `json:"fecha_fin,omitempty"`
	EndedBy   string     `json:"usuario_fin,omitempty"`
}

// ToFollowUpResponse converts a domain FollowUp
func ToFollowUpResponse(f *workorder.FollowUp) FollowUpResponse {
	return FollowUpResponse{
		ID:        f.ID,
		Status:    string(f.Status),
		Sequence:  f.Sequence,
		StartedOn: f.StartedOn,
		StartedBy: f.StartedBy,
		EndedOn:   f.EndedOn,
		EndedBy:   f.EndedBy,
	}
}

// ToFollowUpResponses converts a list of follow-ups
func ToFollowUpResponses(items []workorder.FollowUp) []FollowUpResponse {
	responses := make([]FollowUpResponse, len(items))
	for i := range items {
		responses[i] = ToFollowUpResponse(&items[i])
	}
	return responses
}

// RequestResponse represents a work request in API responses
type RequestResponse struct {
	ID              uuid.UUID          `json:"id"`
	Number          int                `json:"numero"`
	CustomerID      uuid.UUID          `json:"customer_id"`
	PlanID          uuid.UUID          `json:"plan_id"`
	WorkType        string             `json:"work_type"`
	Category        string             `json:"category,omitempty"`
	PaymentType     string             `json:"payment_type,omitempty"`
	RequestedOn     time.Time          `json:"requested_on"`
	ExpectedOn      *time.Time         `json:"expected_on,omitempty"`
	Status          string             `json:"estado"`
	StatusChangedOn time.Time          `json:"status_changed_on"`
	CancelledOn     *time.Time         `json:"cancelled_on,omitempty"`
	ConnectionType  string             `json:"connection_type,omitempty"`
	Coverage        int                `json:"cobertura"`
	Notes           string             `json:"notes,omitempty"`
	FollowUps       []FollowUpResponse `json:"seguimientos,omitempty"`
	Version         int                `json:"version"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// ToRequestResponse converts a domain WorkRequest
func ToRequestResponse(r *workorder.WorkRequest) RequestResponse {
	return RequestResponse{
		ID:              r.ID,
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
		FollowUps:       ToFollowUpResponses(r.FollowUps),
		Version:         r.Version,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// ContractResponse represents a contract in API responses
type ContractResponse struct {
	ID             uuid.UUID  `json:"id"`
	RequestID      uuid.UUID  `json:"request_id"`
	CustomerID     uuid.UUID  `json:"customer_id"`
	Username       string     `json:"usuario"`
	PlanID         uuid.UUID  `json:"plan_id"`
	ContractStatus string     `json:"estado_contrato"`
	ServiceStatus  string     `json:"estado_servicio"`
	ContractedOn   time.Time  `json:"fecha_contrato"`
	InstalledOn    *time.Time `json:"fecha_instalacion,omitempty"`
	Modem          bool       `json:"modem"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ToContractResponse converts a domain Contract
func ToContractResponse(c *workorder.Contract) ContractResponse {
	return ContractResponse{
		ID:             c.ID,
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
		CreatedAt:      c.CreatedAt,
	}
}

// StatusChangeResponse is the result of a lifecycle transition
type StatusChangeResponse struct {
	Request  RequestResponse   `json:"solicitud"`
	FollowUp FollowUpResponse  `json:"seguimiento"`
	Contract *ContractResponse `json:"contrato,omitempty"`
}

// RequestListFilter represents filter options for request list
type RequestListFilter struct {
	Status     string `form:"estado" binding:"omitempty,oneof=REGISTRADA EN_REVISION APROBADA EN_INSTALACION FINALIZADA ANULADA"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ContractListFilter represents filter options for contract list
type ContractListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}
