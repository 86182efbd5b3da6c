package legacy

import (
	"context"

	"github.com/isp/backend/internal/domain/legacy"
)

// TransactionScope runs a batch of local-copy inserts atomically
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the local-copy repositories bound to one transaction
type TransactionalRepositories interface {
	InvoiceRepo() legacy.InvoiceRepository
	ServiceRepo() legacy.ServiceContractRepository
	ClientRepo() legacy.ClientRepository
}

// NoOpTransactionScope runs fn against plain repositories. Used in tests.
type NoOpTransactionScope struct {
	repos noOpRepositories
}

type noOpRepositories struct {
	invoiceRepo legacy.InvoiceRepository
	serviceRepo legacy.ServiceContractRepository
	clientRepo  legacy.ClientRepository
}

func (r noOpRepositories) InvoiceRepo() legacy.InvoiceRepository        { return r.invoiceRepo }
func (r noOpRepositories) ServiceRepo() legacy.ServiceContractRepository { return r.serviceRepo }
func (r noOpRepositories) ClientRepo() legacy.ClientRepository          { return r.clientRepo }

// NewNoOpTransactionScope creates a scope without transaction semantics
func NewNoOpTransactionScope(
	invoiceRepo legacy.InvoiceRepository,
	serviceRepo legacy.ServiceContractRepository,
	clientRepo legacy.ClientRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: noOpRepositories{
		invoiceRepo: invoiceRepo,
		serviceRepo: serviceRepo,
		clientRepo:  clientRepo,
	}}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.repos)
}
