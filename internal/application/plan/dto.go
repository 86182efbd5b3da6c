package plan

import (
	"time"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/plan"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Payment method / connection type DTOs
// =============================================================================

// PaymentMethodRequest creates or updates a payment method
type PaymentMethodRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=50"`
	Description  string `json:"description" binding:"max=500"`
	Abbreviation string `json:"abbreviation" binding:"required,min=1,max=10"`
	Active       *bool  `json:"active"`
}

// PaymentMethodResponse represents a payment method in API responses
type PaymentMethodResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Abbreviation string    `json:"abbreviation"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToPaymentMethodResponse converts a domain PaymentMethod
func ToPaymentMethodResponse(pm *plan.PaymentMethod) PaymentMethodResponse {
	return PaymentMethodResponse{
		ID:           pm.ID,
		Name:         pm.Name,
		Description:  pm.Description,
		Abbreviation: pm.Abbreviation,
		Active:       pm.Active,
		CreatedAt:    pm.CreatedAt,
		UpdatedAt:    pm.UpdatedAt,
	}
}

// ConnectionTypeRequest creates or updates a connection type
type ConnectionTypeRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=50"`
	Description string `json:"description" binding:"max=500"`
	Active      *bool  `json:"active"`
}

// ConnectionTypeResponse represents a connection type in API responses
type ConnectionTypeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToConnectionTypeResponse converts a domain ConnectionType
func ToConnectionTypeResponse(ct *plan.ConnectionType) ConnectionTypeResponse {
	return ConnectionTypeResponse{
		ID:          ct.ID,
		Name:        ct.Name,
		Description: ct.Description,
		Active:      ct.Active,
		CreatedAt:   ct.CreatedAt,
		UpdatedAt:   ct.UpdatedAt,
	}
}

// CatalogListFilter is shared by the small catalogue listings
type CatalogListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// =============================================================================
// Plan DTOs
// =============================================================================

// PlanRequest creates or updates a plan. Code is ignored on update.
type PlanRequest struct {
	Code             string          `json:"code" binding:"required,min=1,max=20"`
	Description      string          `json:"description" binding:"required,min=1,max=100"`
	PaymentMethodID  uuid.UUID       `json:"payment_method_id" binding:"required"`
	ConnectionTypeID uuid.UUID       `json:"connection_type_id" binding:"required"`
	BaseAmount       decimal.Decimal `json:"base_amount"`
	BillingPeriod    string          `json:"billing_period" binding:"required,max=50"`
	StartDate        time.Time       `json:"start_date" binding:"required"`
	EndDate          *time.Time      `json:"end_date"`
	ItemCode         string          `json:"item_code" binding:"max=20"`
	Active           *bool           `json:"active"`
}

// Terms converts the request to domain terms
func (r PlanRequest) Terms() plan.PlanTerms {
	return plan.PlanTerms{
		Description:      r.Description,
		PaymentMethodID:  r.PaymentMethodID,
		ConnectionTypeID: r.ConnectionTypeID,
		BaseAmount:       r.BaseAmount,
		BillingPeriod:    r.BillingPeriod,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		ItemCode:         r.ItemCode,
	}
}

// PlanResponse represents a plan in API responses
type PlanResponse struct {
	ID               uuid.UUID       `json:"id"`
	Code             string          `json:"code"`
	Description      string          `json:"description"`
	PaymentMethodID  uuid.UUID       `json:"payment_method_id"`
	ConnectionTypeID uuid.UUID       `json:"connection_type_id"`
	BaseAmount       decimal.Decimal `json:"base_amount"`
	BillingPeriod    string          `json:"billing_period"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          *time.Time      `json:"end_date,omitempty"`
	Active           bool            `json:"active"`
	ItemCode         string          `json:"item_code,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ToPlanResponse converts a domain Plan
func ToPlanResponse(p *plan.Plan) PlanResponse {
	return PlanResponse{
		ID:               p.ID,
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
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// =============================================================================
// Subscriber DTOs
// =============================================================================

// SubscriberRequest creates or updates a subscriber
type SubscriberRequest struct {
	FirstName      string           `json:"first_name" binding:"required,min=1,max=50"`
	LastName       string           `json:"last_name" binding:"required,min=1,max=50"`
	DocumentNumber string           `json:"document_number" binding:"max=20"`
	Email          string           `json:"email" binding:"omitempty,email,max=254"`
	Phone          string           `json:"phone" binding:"required,max=20"`
	Housing        string           `json:"housing" binding:"required,oneof=Casa Departamento"`
	Floor          string           `json:"floor" binding:"max=10"`
	Street         string           `json:"street" binding:"required,max=100"`
	Zone           string           `json:"zone" binding:"required,max=100"`
	FullAddress    string           `json:"full_address"`
	DoorNumber     string           `json:"door_number" binding:"max=20"`
	References     string           `json:"references"`
	Latitude       *decimal.Decimal `json:"latitude"`
	Longitude      *decimal.Decimal `json:"longitude"`
	Type           string           `json:"customer_type" binding:"omitempty,oneof=COMUN EMPRESA"`
	NIT            string           `json:"nit" binding:"max=20"`
	BusinessName   string           `json:"business_name" binding:"max=100"`
	Coverage       string           `json:"coverage" binding:"omitempty,oneof=CON_COBERTURA SIN_COBERTURA"`
	Status         string           `json:"status" binding:"omitempty,oneof=PEND_COBERTURA PEND_EQUIPO PEND_INSTALACION ACTIVO SUSPENDIDO"`
	Notes          string           `json:"notes"`
	PlanID         *uuid.UUID       `json:"plan_id"`
}

// Profile converts the request to a domain profile
func (r SubscriberRequest) Profile() plan.SubscriberProfile {
	return plan.SubscriberProfile{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		DocumentNumber: r.DocumentNumber,
		Email:          r.Email,
		Phone:          r.Phone,
		Housing:        plan.Housing(r.Housing),
		Floor:          r.Floor,
		Street:         r.Street,
		Zone:           r.Zone,
		FullAddress:    r.FullAddress,
		DoorNumber:     r.DoorNumber,
		References:     r.References,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		Type:           plan.SubscriberType(r.Type),
		NIT:            r.NIT,
		BusinessName:   r.BusinessName,
		Notes:          r.Notes,
		PlanID:         r.PlanID,
	}
}

// SubscriberResponse represents a subscriber in API responses
type SubscriberResponse struct {
	ID             uuid.UUID        `json:"id"`
	FirstName      string           `json:"first_name"`
	LastName       string           `json:"last_name"`
	DocumentNumber string           `json:"document_number,omitempty"`
	Email          string           `json:"email,omitempty"`
	Phone          string           `json:"phone"`
	Housing        string           `json:"housing"`
	Floor          string           `json:"floor,omitempty"`
	Street         string           `json:"street"`
	Zone           string           `json:"zone"`
	FullAddress    string           `json:"full_address,omitempty"`
	DoorNumber     string           `json:"door_number,omitempty"`
	References     string           `json:"references,omitempty"`
	Latitude       *decimal.Decimal `json:"latitude,omitempty"`
	Longitude      *decimal.Decimal `json:"longitude,omitempty"`
	Type           string           `json:"customer_type"`
	NIT            string           `json:"nit,omitempty"`
	BusinessName   string           `json:"business_name,omitempty"`
	Coverage       string           `json:"coverage"`
	Status         string           `json:"status"`
	Notes          string           `json:"notes,omitempty"`
	PlanID         *uuid.UUID       `json:"plan_id,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ToSubscriberResponse converts a domain Subscriber
func ToSubscriberResponse(s *plan.Subscriber) SubscriberResponse {
	return SubscriberResponse{
		ID:             s.ID,
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		DocumentNumber: s.DocumentNumber,
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
		Type:           string(s.Type),
		NIT:            s.NIT,
		BusinessName:   s.BusinessName,
		Coverage:       string(s.Coverage),
		Status:         string(s.Status),
		Notes:          s.Notes,
		PlanID:         s.PlanID,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// SubscriberListFilter represents filter options for subscriber list
type SubscriberListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"estado" binding:"omitempty,oneof=PEND_COBERTURA PEND_EQUIPO PEND_INSTALACION ACTIVO SUSPENDIDO"`
	Coverage string `form:"cobertura" binding:"omitempty,oneof=CON_COBERTURA SIN_COBERTURA"`
	Type     string `form:"tipo_cliente" binding:"omitempty,oneof=COMUN EMPRESA"`
	Zone     string `form:"zona"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
