// Package legacy models the locally-owned copies of records that live in
// read-only federated tables (cobfactu, servicios_cliente, clientes).
package legacy

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice status codes
const (
	InvoiceStatusVoided    = "AN"
	InvoiceStatusCancelled = "CA"
	InvoiceStatusGenerated = "G"
	InvoiceStatusUnpaid    = "NP"
)

// DebtStatuses are the invoice statuses that count as owed
var DebtStatuses = []string{InvoiceStatusGenerated, InvoiceStatusUnpaid}

// Migration holds the bookkeeping of a copied row
type Migration struct {
	MigratedAt time.Time
	MigratedBy string
}

// Invoice is a billing record (cobfactu)
type Invoice struct {
	ID                  uuid.UUID
	InternalNumber      string
	Contract            string
	ConcessionCode      string
	PeriodFrom          string
	PeriodTo            string
	Phone               string
	SentOn              *time.Time
	IssuedOn            *time.Time
	Period              string
	TotalAmount         decimal.Decimal
	CFAmount            decimal.Decimal
	CotelAmount         decimal.Decimal
	CotelCFAmount       decimal.Decimal
	InvoiceName         string
	InvoiceTaxID        string
	AuthorizationNumber string
	DueLimit            string
	ControlCode         string
	Status              string
	Movement            string
	UpdatedOn           *time.Time
	TransactionID       string
	TransactionStatus   string
	Migration
}

// IsCurrent reports whether the invoice is neither voided nor cancelled
func (i *Invoice) IsCurrent() bool {
	return i.Status != InvoiceStatusVoided && i.Status != InvoiceStatusCancelled
}

// IsDebt reports whether the invoice is still owed
func (i *Invoice) IsDebt() bool {
	for _, s := range DebtStatuses {
		if i.Status == s {
			return true
		}
	}
	return false
}

// ServiceContract is a service line held by a legacy client (servicios_cliente)
type ServiceContract struct {
	ID                 uuid.UUID
	Contract           string
	Extension          string
	ClientCode         string
	CommercialPlan     string
	PaymentMethod      string
	Address            string
	ContractActionCode string
	ContractStatusCode string
	Voided             *string
	Concession         string
	ServiceCode        string
	Migration
}

// IsActive reports whether the service is not voided. A NULL voided flag
// counts as inactive.
func (s *ServiceContract) IsActive() bool {
	return s.Voided != nil && *s.Voided != "S"
}

// LegacyClient is a client of the legacy billing system (clientes)
type LegacyClient struct {
	ID             uuid.UUID
	ClientCode     string
	PaternalName   string
	MaternalName   string
	GivenNames     string
	DisplayName    string
	Address        string
	DocumentType   string
	DocumentNumber string
	PersonType     string
	ReferencePhone string
	Subscriber     string
	Email          string
	InvoiceName    string
	ZoneCode       string
	CityCode       string
	Migration
}

// FullName joins the non-empty surname and name parts
func (c *LegacyClient) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.PaternalName, c.MaternalName, c.GivenNames} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// IsSubscriber reports whether the client is flagged as abonado
func (c *LegacyClient) IsSubscriber() bool {
	return c.Subscriber == "S"
}

// DebtSummary is the count and total of owed invoices of a contract
type DebtSummary struct {
	InvoiceCount int64           `json:"cantidad_facturas"`
	TotalAmount  decimal.Decimal `json:"total_monto"`
}

// LookupStatus is the outcome of a read-through lookup
type LookupStatus string

const (
	LookupExists     LookupStatus = "existe"
	LookupMigrated   LookupStatus = "migrado"
	LookupNotFound   LookupStatus = "no_encontrado"
	LookupNoServices LookupStatus = "sin_servicios"
)

// Stamp fills the migration bookkeeping on a batch
func Stamp(m *Migration, by string, at time.Time) {
	m.MigratedAt = at
	m.MigratedBy = by
}
