package workorder

import (
	"context"

	"github.com/isp/backend/internal/domain/workorder"
)

// TransactionScope makes a status change and its contract commit together
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the work order repositories bound to one transaction
type TransactionalRepositories interface {
	RequestRepo() workorder.WorkRequestRepository
	ContractRepo() workorder.ContractRepository
}

// NoOpTransactionScope runs fn against plain repositories. Used in tests.
type NoOpTransactionScope struct {
	requestRepo  workorder.WorkRequestRepository
	contractRepo workorder.ContractRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(requestRepo workorder.WorkRequestRepository, contractRepo workorder.ContractRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{requestRepo: requestRepo, contractRepo: contractRepo}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// RequestRepo returns the request repository
func (s *NoOpTransactionScope) RequestRepo() workorder.WorkRequestRepository {
	return s.requestRepo
}

// ContractRepo returns the contract repository
func (s *NoOpTransactionScope) ContractRepo() workorder.ContractRepository {
	return s.contractRepo
}
