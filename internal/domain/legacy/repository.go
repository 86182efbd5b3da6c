package legacy

import (
	"context"

	"github.com/isp/backend/internal/domain/shared"
)

// InvoiceRepository is the local invoice copy (cobfactu_local)
type InvoiceRepository interface {
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	FindByContract(ctx context.Context, contract string) ([]Invoice, error)

	// InsertIfAbsent inserts rows whose (internal_number, contract) is not
	// present yet and returns how many were inserted.
	InsertIfAbsent(ctx context.Context, invoices []Invoice) (int64, error)

	// SummarizeDebt counts and sums invoices of contract in DebtStatuses
	SummarizeDebt(ctx context.Context, contract string) (DebtSummary, error)
}

// ServiceContractRepository is the local service copy (servicios_cliente_local)
type ServiceContractRepository interface {
	FindAll(ctx context.Context, filter shared.Filter) ([]ServiceContract, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	FindByClient(ctx context.Context, clientCode string) ([]ServiceContract, error)

	// InsertIfAbsent inserts rows whose (contract, client_code) is not present yet
	InsertIfAbsent(ctx context.Context, services []ServiceContract) (int64, error)
}

// ClientRepository is the local client copy (clientes_local)
type ClientRepository interface {
	FindAll(ctx context.Context, filter shared.Filter) ([]LegacyClient, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	FindByDocument(ctx context.Context, documentNumber string) (*LegacyClient, error)
	ExistsByDocument(ctx context.Context, documentNumber string) (bool, error)

	// SearchByName matches case-insensitively over the display, given and surnames
	SearchByName(ctx context.Context, name string, filter shared.Filter) ([]LegacyClient, error)

	// InsertIfAbsent inserts rows whose client_code is not present yet
	InsertIfAbsent(ctx context.Context, clients []LegacyClient) (int64, error)
}

// FederatedSource reads the externally-owned tables. It never writes.
type FederatedSource interface {
	ServicesByClient(ctx context.Context, clientCode string) ([]ServiceContract, error)
	InvoicesByContract(ctx context.Context, contract string) ([]Invoice, error)
	ClientsByDocument(ctx context.Context, documentNumber string) ([]LegacyClient, error)
}
