package legacy

import (
	"time"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/legacy"
	"github.com/shopspring/decimal"
)

// DefaultLocalPageSize bounds the local invoice and service listings
const DefaultLocalPageSize = 10

// LookupData carries the identifiers touched by a lookup
type LookupData struct {
	Contracts  []string `json:"contratos,omitempty"`
	ClientCode string   `json:"cod_cliente,omitempty"`
}

// LookupResult is the outcome of a service or client lookup
type LookupResult struct {
	Status  legacy.LookupStatus `json:"status"`
	Records *int64              `json:"registros,omitempty"`
	Data    *LookupData         `json:"data,omitempty"`
}

// Found reports whether the lookup resolved to local rows
func (r *LookupResult) Found() bool {
	return r.Status == legacy.LookupExists || r.Status == legacy.LookupMigrated
}

// ContractMigration is the number of invoices copied for one contract
type ContractMigration struct {
	Contract string `json:"contrato"`
	Invoices int64  `json:"facturas_migradas"`
}

// InvoiceLookupResult is the outcome of an invoice lookup
type InvoiceLookupResult struct {
	Status        legacy.LookupStatus `json:"status"`
	TotalInvoices int64               `json:"total_facturas"`
	Detail        []ContractMigration `json:"detalle"`
}

// Found reports whether the client had local services to look up
func (r *InvoiceLookupResult) Found() bool {
	return r.Status != legacy.LookupNoServices
}

// LocalListFilter paginates the local-copy listings
type LocalListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// InvoiceResponse represents a local invoice
type InvoiceResponse struct {
	ID                  uuid.UUID       `json:"id"`
	InternalNumber      string          `json:"factura_interna"`
	Contract            string          `json:"contrato"`
	ConcessionCode      string          `json:"cod_concesion,omitempty"`
	PeriodFrom          string          `json:"periodo_desde,omitempty"`
	PeriodTo            string          `json:"periodo_hasta,omitempty"`
	Phone               string          `json:"telefono,omitempty"`
	SentOn              *time.Time      `json:"fecha_envio,omitempty"`
	IssuedOn            *time.Time      `json:"fecha_emision,omitempty"`
	Period              string          `json:"periodo,omitempty"`
	TotalAmount         decimal.Decimal `json:"monto_total"`
	CFAmount            decimal.Decimal `json:"monto_cf"`
	CotelAmount         decimal.Decimal `json:"monto_cotel"`
	CotelCFAmount       decimal.Decimal `json:"monto_cotel_cf"`
	InvoiceName         string          `json:"nombre_factura,omitempty"`
	InvoiceTaxID        string          `json:"ruc_factura,omitempty"`
	AuthorizationNumber string          `json:"no_autorizacion,omitempty"`
	DueLimit            string          `json:"f_limite,omitempty"`
	ControlCode         string          `json:"cod_control,omitempty"`
	Status              string          `json:"estado"`
	Movement            string          `json:"movimiento,omitempty"`
	UpdatedOn           *time.Time      `json:"f_actualizacion,omitempty"`
	TransactionID       string          `json:"id_transaccion,omitempty"`
	TransactionStatus   string          `json:"estado_transac,omitempty"`
	IsCurrent           bool            `json:"es_vigente"`
	MigratedAt          time.Time       `json:"fecha_migracion"`
	MigratedBy          string          `json:"migrada_por,omitempty"`
}

// ToInvoiceResponse converts a domain Invoice
func ToInvoiceResponse(i *legacy.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:                  i.ID,
		InternalNumber:      i.InternalNumber,
		Contract:            i.Contract,
		ConcessionCode:      i.ConcessionCode,
		PeriodFrom:          i.PeriodFrom,
		PeriodTo:            i.PeriodTo,
		Phone:               i.Phone,
		SentOn:              i.SentOn,
		IssuedOn:            i.IssuedOn,
		Period:              i.Period,
		TotalAmount:         i.TotalAmount,
		CFAmount:            i.CFAmount,
		CotelAmount:         i.CotelAmount,
		CotelCFAmount:       i.CotelCFAmount,
		InvoiceName:         i.InvoiceName,
		InvoiceTaxID:        i.InvoiceTaxID,
		AuthorizationNumber: i.AuthorizationNumber,
		DueLimit:            i.DueLimit,
		ControlCode:         i.ControlCode,
		Status:              i.Status,
		Movement:            i.Movement,
		UpdatedOn:           i.UpdatedOn,
		TransactionID:       i.TransactionID,
		TransactionStatus:   i.TransactionStatus,
		IsCurrent:           i.IsCurrent(),
		MigratedAt:          i.MigratedAt,
		MigratedBy:          i.MigratedBy,
	}
}

// ServiceResponse represents a local service contract
type ServiceResponse struct {
	ID                 uuid.UUID `json:"id"`
	Contract           string    `json:"contrato"`
	Extension          string    `json:"ampliacion,omitempty"`
	ClientCode         string    `json:"cod_cliente"`
	CommercialPlan     string    `json:"plan_comercial,omitempty"`
	PaymentMethod      string    `json:"forma_pago,omitempty"`
	Address            string    `json:"direccion,omitempty"`
	ContractActionCode string    `json:"cod_acci_contrato,omitempty"`
	ContractStatusCode string    `json:"cod_estado_contrato,omitempty"`
	Voided             *string   `json:"anulado"`
	Concession         string    `json:"concesion,omitempty"`
	ServiceCode        string    `json:"cod_servicio,omitempty"`
	IsActive           bool      `json:"esta_activo"`
	MigratedAt         time.Time `json:"fecha_migracion"`
	MigratedBy         string    `json:"migrada_por,omitempty"`
}

// ToServiceResponse converts a domain ServiceContract
func ToServiceResponse(s *legacy.ServiceContract) ServiceResponse {
	return ServiceResponse{
		ID:                 s.ID,
		Contract:           s.Contract,
		Extension:          s.Extension,
		ClientCode:         s.ClientCode,
		CommercialPlan:     s.CommercialPlan,
		PaymentMethod:      s.PaymentMethod,
		Address:            s.Address,
		ContractActionCode: s.ContractActionCode,
		ContractStatusCode: s.ContractStatusCode,
		Voided:             s.Voided,
		Concession:         s.Concession,
		ServiceCode:        s.ServiceCode,
		IsActive:           s.IsActive(),
		MigratedAt:         s.MigratedAt,
		MigratedBy:         s.MigratedBy,
	}
}

// ClientResponse represents a local legacy client
type ClientResponse struct {
	ID             uuid.UUID `json:"id"`
	ClientCode     string    `json:"cod_cliente"`
	PaternalName   string    `json:"ape_paterno,omitempty"`
	MaternalName   string    `json:"ape_materno,omitempty"`
	GivenNames     string    `json:"nombres,omitempty"`
	DisplayName    string    `json:"nombre_pila"`
	FullName       string    `json:"nombre_completo"`
	Address        string    `json:"direccion,omitempty"`
	DocumentType   string    `json:"cod_documento,omitempty"`
	DocumentNumber string    `json:"nro_documento,omitempty"`
	PersonType     string    `json:"tipo_personeria,omitempty"`
	ReferencePhone string    `json:"telefono_ref,omitempty"`
	Subscriber     bool      `json:"abonado"`
	Email          string    `json:"email,omitempty"`
	InvoiceName    string    `json:"nombre_factura,omitempty"`
	ZoneCode       string    `json:"zona_cod_zona,omitempty"`
	CityCode       string    `json:"zona_ciud_cod_ciudad,omitempty"`
	MigratedAt     time.Time `json:"fecha_migracion"`
	MigratedBy     string    `json:"migrada_por,omitempty"`
}

// ToClientResponse converts a domain LegacyClient
func ToClientResponse(c *legacy.LegacyClient) ClientResponse {
	return ClientResponse{
		ID:             c.ID,
		ClientCode:     c.ClientCode,
		PaternalName:   c.PaternalName,
		MaternalName:   c.MaternalName,
		GivenNames:     c.GivenNames,
		DisplayName:    c.DisplayName,
		FullName:       c.FullName(),
		Address:        c.Address,
		DocumentType:   c.DocumentType,
		DocumentNumber: c.DocumentNumber,
		PersonType:     c.PersonType,
		ReferencePhone: c.ReferencePhone,
		Subscriber:     c.IsSubscriber(),
		Email:          c.Email,
		InvoiceName:    c.InvoiceName,
		ZoneCode:       c.ZoneCode,
		CityCode:       c.CityCode,
		MigratedAt:     c.MigratedAt,
		MigratedBy:     c.MigratedBy,
	}
}

// ClientHeader is the short client block of a summary
type ClientHeader struct {
	ClientCode     string `json:"cod_cliente"`
	GivenNames     string `json:"nombres"`
	DocumentNumber string `json:"nro_documento"`
}

// ServiceDebt pairs a service with its owed-invoice summary
type ServiceDebt struct {
	Service ServiceResponse    `json:"servicio"`
	Debt    legacy.DebtSummary `json:"facturas_resumen"`
}

// ClientSummaryResponse is a client with its services and debts
type ClientSummaryResponse struct {
	Client   ClientHeader  `json:"cliente"`
	Services []ServiceDebt `json:"servicios"`
}
