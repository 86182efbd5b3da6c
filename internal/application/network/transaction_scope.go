package network

import (
	"context"

	"github.com/isp/backend/internal/domain/network"
)

// TransactionScope provides transactional access to network repositories.
// All repository operations inside Execute share one database transaction and
// are committed or rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories taking part in
// an allocation. Reserve, release and the customer update must go through the
// repositories returned here so that they commit as a unit.
type TransactionalRepositories interface {
	// PoleRepo returns the pole repository scoped to the current transaction
	PoleRepo() network.PoleRepository
	// CustomerRepo returns the customer repository scoped to the current transaction
	CustomerRepo() network.CustomerRepository
}

// NoOpTransactionScope runs fn against plain repositories without a transaction.
// Used in unit tests.
type NoOpTransactionScope struct {
	poleRepo     network.PoleRepository
	customerRepo network.CustomerRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(poleRepo network.PoleRepository, customerRepo network.CustomerRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		poleRepo:     poleRepo,
		customerRepo: customerRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// PoleRepo returns the pole repository.
func (s *NoOpTransactionScope) PoleRepo() network.PoleRepository {
	return s.poleRepo
}

// CustomerRepo returns the customer repository.
func (s *NoOpTransactionScope) CustomerRepo() network.CustomerRepository {
	return s.customerRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
