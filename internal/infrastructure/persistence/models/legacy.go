package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/legacy"
	"github.com/shopspring/decimal"
)

// The local copies keep the column names of the federated tables they mirror.

// InvoiceModel is the local copy of a federated invoice (cobfactu_local)
type InvoiceModel struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InternalNumber      string          `gorm:"column:factura_interna;type:varchar(20);not null;uniqueIndex:uq_cobfactu_local_factura_contrato,priority:1"`
	Contract            string          `gorm:"column:contrato;type:varchar(20);not null;index;uniqueIndex:uq_cobfactu_local_factura_contrato,priority:2"`
	ConcessionCode      string          `gorm:"column:cod_concesion;type:varchar(20)"`
	PeriodFrom          string          `gorm:"column:periodo_desde;type:varchar(20)"`
	PeriodTo            string          `gorm:"column:periodo_hasta;type:varchar(20)"`
	Phone               string          `gorm:"column:telefono;type:varchar(20)"`
	SentOn              *time.Time      `gorm:"column:fecha_envio;type:date"`
	IssuedOn            *time.Time      `gorm:"column:fecha_emision;type:date;index"`
	Period              string          `gorm:"column:periodo;type:varchar(20)"`
	TotalAmount         decimal.Decimal `gorm:"column:monto_total;type:decimal(20,2);not null;default:0"`
	CFAmount            decimal.Decimal `gorm:"column:monto_cf;type:decimal(20,2);not null;default:0"`
	CotelAmount         decimal.Decimal `gorm:"column:monto_cotel;type:decimal(20,2);not null;default:0"`
	CotelCFAmount       decimal.Decimal `gorm:"column:monto_cotel_cf;type:decimal(20,2);not null;default:0"`
	InvoiceName         string          `gorm:"column:nombre_factura;type:varchar(100)"`
	InvoiceTaxID        string          `gorm:"column:ruc_factura;type:varchar(20)"`
	AuthorizationNumber string          `gorm:"column:no_autorizacion;type:varchar(20)"`
	DueLimit            string          `gorm:"column:f_limite;type:varchar(10)"`
	ControlCode         string          `gorm:"column:cod_control;type:varchar(16)"`
	Status              string          `gorm:"column:estado;type:varchar(2)"`
	Movement            string          `gorm:"column:movimiento;type:varchar(2)"`
	UpdatedOn           *time.Time      `gorm:"column:f_actualizacion;type:date"`
	TransactionID       string          `gorm:"column:id_transaccion;type:varchar(20)"`
	TransactionStatus   string          `gorm:"column:estado_transac;type:varchar(1)"`
	MigratedAt          time.Time       `gorm:"column:fecha_migracion;not null;index"`
	MigratedBy          string          `gorm:"column:migrada_por;type:varchar(150)"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "cobfactu_local"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() legacy.Invoice {
	return legacy.Invoice{
		ID:                  m.ID,
		InternalNumber:      m.InternalNumber,
		Contract:            m.Contract,
		ConcessionCode:      m.ConcessionCode,
		PeriodFrom:          m.PeriodFrom,
		PeriodTo:            m.PeriodTo,
		Phone:               m.Phone,
		SentOn:              m.SentOn,
		IssuedOn:            m.IssuedOn,
		Period:              m.Period,
		TotalAmount:         m.TotalAmount,
		CFAmount:            m.CFAmount,
		CotelAmount:         m.CotelAmount,
		CotelCFAmount:       m.CotelCFAmount,
		InvoiceName:         m.InvoiceName,
		InvoiceTaxID:        m.InvoiceTaxID,
		AuthorizationNumber: m.AuthorizationNumber,
		DueLimit:            m.DueLimit,
		ControlCode:         m.ControlCode,
		Status:              m.Status,
		Movement:            m.Movement,
		UpdatedOn:           m.UpdatedOn,
		TransactionID:       m.TransactionID,
		TransactionStatus:   m.TransactionStatus,
		Migration:           legacy.Migration{MigratedAt: m.MigratedAt, MigratedBy: m.MigratedBy},
	}
}

// InvoiceModelFromDomain creates a persistence model, assigning an id when missing
func InvoiceModelFromDomain(i *legacy.Invoice) *InvoiceModel {
	return &InvoiceModel{
		ID:                  idOrNew(i.ID),
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
		MigratedAt:          i.MigratedAt,
		MigratedBy:          i.MigratedBy,
	}
}

// ServiceContractModel is the local copy of a client service (servicios_cliente_local)
type ServiceContractModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	Contract           string    `gorm:"column:contrato;type:varchar(50);not null;index;uniqueIndex:uq_servicios_local_contrato_cliente,priority:1"`
	Extension          string    `gorm:"column:ampliacion;type:varchar(50)"`
	ClientCode         string    `gorm:"column:cod_cliente;type:varchar(50);not null;index;uniqueIndex:uq_servicios_local_contrato_cliente,priority:2"`
	CommercialPlan     string    `gorm:"column:plan_comercial;type:varchar(50)"`
	PaymentMethod      string    `gorm:"column:forma_pago;type:varchar(50)"`
	Address            string    `gorm:"column:direccion;type:varchar(255)"`
	ContractActionCode string    `gorm:"column:cod_acci_contrato;type:varchar(50)"`
	ContractStatusCode string    `gorm:"column:cod_estado_contrato;type:varchar(50)"`
	Voided             *string   `gorm:"column:anulado;type:varchar(50)"`
	Concession         string    `gorm:"column:concesion;type:varchar(50)"`
	ServiceCode        string    `gorm:"column:cod_servicio;type:varchar(50);index"`
	MigratedAt         time.Time `gorm:"column:fecha_migracion;not null;index"`
	MigratedBy         string    `gorm:"column:migrada_por;type:varchar(150)"`
}

// TableName returns the table name for GORM
func (ServiceContractModel) TableName() string {
	return "servicios_cliente_local"
}

// ToDomain converts the persistence model to a domain ServiceContract
func (m *ServiceContractModel) ToDomain() legacy.ServiceContract {
	return legacy.ServiceContract{
		ID:                 m.ID,
		Contract:           m.Contract,
		Extension:          m.Extension,
		ClientCode:         m.ClientCode,
		CommercialPlan:     m.CommercialPlan,
		PaymentMethod:      m.PaymentMethod,
		Address:            m.Address,
		ContractActionCode: m.ContractActionCode,
		ContractStatusCode: m.ContractStatusCode,
		Voided:             m.Voided,
		Concession:         m.Concession,
		ServiceCode:        m.ServiceCode,
		Migration:          legacy.Migration{MigratedAt: m.MigratedAt, MigratedBy: m.MigratedBy},
	}
}

// ServiceContractModelFromDomain creates a persistence model, assigning an id when missing
func ServiceContractModelFromDomain(s *legacy.ServiceContract) *ServiceContractModel {
	return &ServiceContractModel{
		ID:                 idOrNew(s.ID),
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
		MigratedAt:         s.MigratedAt,
		MigratedBy:         s.MigratedBy,
	}
}

// LegacyClientModel is the local copy of a federated client (clientes_local)
type LegacyClientModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClientCode     string    `gorm:"column:cod_cliente;type:varchar(13);not null;uniqueIndex"`
	PaternalName   string    `gorm:"column:ape_paterno;type:varchar(20)"`
	MaternalName   string    `gorm:"column:ape_materno;type:varchar(20)"`
	GivenNames     string    `gorm:"column:nombres;type:varchar(25)"`
	DisplayName    string    `gorm:"column:nombre_pila;type:varchar(70)"`
	Address        string    `gorm:"column:direccion;type:varchar(36)"`
	DocumentType   string    `gorm:"column:cod_documento;type:varchar(3)"`
	DocumentNumber string    `gorm:"column:nro_documento;type:varchar(12);index"`
	PersonType     string    `gorm:"column:tipo_personeria;type:varchar(1)"`
	ReferencePhone string    `gorm:"column:telefono_ref;type:varchar(12)"`
	Subscriber     string    `gorm:"column:abonado;type:varchar(1)"`
	Email          string    `gorm:"column:email;type:varchar(50)"`
	InvoiceName    string    `gorm:"column:nombre_factura;type:varchar(70)"`
	ZoneCode       string    `gorm:"column:zona_cod_zona;type:varchar(4)"`
	CityCode       string    `gorm:"column:zona_ciud_cod_ciudad;type:varchar(3)"`
	MigratedAt     time.Time `gorm:"column:fecha_migracion;not null;index"`
	MigratedBy     string    `gorm:"column:migrada_por;type:varchar(150)"`
}

// TableName returns the table name for GORM
func (LegacyClientModel) TableName() string {
	return "clientes_local"
}

// ToDomain converts the persistence model to a domain LegacyClient
func (m *LegacyClientModel) ToDomain() legacy.LegacyClient {
	return legacy.LegacyClient{
		ID:             m.ID,
		ClientCode:     m.ClientCode,
		PaternalName:   m.PaternalName,
		MaternalName:   m.MaternalName,
		GivenNames:     m.GivenNames,
		DisplayName:    m.DisplayName,
		Address:        m.Address,
		DocumentType:   m.DocumentType,
		DocumentNumber: m.DocumentNumber,
		PersonType:     m.PersonType,
		ReferencePhone: m.ReferencePhone,
		Subscriber:     m.Subscriber,
		Email:          m.Email,
		InvoiceName:    m.InvoiceName,
		ZoneCode:       m.ZoneCode,
		CityCode:       m.CityCode,
		Migration:      legacy.Migration{MigratedAt: m.MigratedAt, MigratedBy: m.MigratedBy},
	}
}

// LegacyClientModelFromDomain creates a persistence model, assigning an id when missing
func LegacyClientModelFromDomain(c *legacy.LegacyClient) *LegacyClientModel {
	return &LegacyClientModel{
		ID:             idOrNew(c.ID),
		ClientCode:     c.ClientCode,
		PaternalName:   c.PaternalName,
		MaternalName:   c.MaternalName,
		GivenNames:     c.GivenNames,
		DisplayName:    c.DisplayName,
		Address:        c.Address,
		DocumentType:   c.DocumentType,
		DocumentNumber: c.DocumentNumber,
		PersonType:     c.PersonType,
		ReferencePhone: c.ReferencePhone,
		Subscriber:     c.Subscriber,
		Email:          c.Email,
		InvoiceName:    c.InvoiceName,
		ZoneCode:       c.ZoneCode,
		CityCode:       c.CityCode,
		MigratedAt:     c.MigratedAt,
		MigratedBy:     c.MigratedBy,
	}
}

func idOrNew(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}
