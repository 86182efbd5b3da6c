package persistence

import (
	"context"

	applegacy "github.com/isp/backend/internal/application/legacy"
	appnetwork "github.com/isp/backend/internal/application/network"
	appworkorder "github.com/isp/backend/internal/application/workorder"
	"github.com/isp/backend/internal/domain/legacy"
	"github.com/isp/backend/internal/domain/network"
	"github.com/isp/backend/internal/domain/workorder"
	"gorm.io/gorm"
)

// GormNetworkTransactionScope runs an allocation inside one GORM transaction.
// Reserve, release and the customer update commit or roll back together.
type GormNetworkTransactionScope struct {
	db *gorm.DB
}

// NewGormNetworkTransactionScope creates a new GormNetworkTransactionScope
func NewGormNetworkTransactionScope(db *gorm.DB) *GormNetworkTransactionScope {
	return &GormNetworkTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormNetworkTransactionScope) Execute(ctx context.Context, fn func(repos appnetwork.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormNetworkRepositories{tx: tx})
	})
}

type gormNetworkRepositories struct {
	tx *gorm.DB
}

// PoleRepo returns the pole repository scoped to the current transaction
func (r *gormNetworkRepositories) PoleRepo() network.PoleRepository {
	return NewGormPoleRepository(r.tx)
}

// CustomerRepo returns the customer repository scoped to the current transaction
func (r *gormNetworkRepositories) CustomerRepo() network.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

// GormLegacyTransactionScope writes a batch of local copies atomically
type GormLegacyTransactionScope struct {
	db *gorm.DB
}

// NewGormLegacyTransactionScope creates a new GormLegacyTransactionScope
func NewGormLegacyTransactionScope(db *gorm.DB) *GormLegacyTransactionScope {
	return &GormLegacyTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormLegacyTransactionScope) Execute(ctx context.Context, fn func(repos applegacy.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormLegacyRepositories{tx: tx})
	})
}

type gormLegacyRepositories struct {
	tx *gorm.DB
}

func (r *gormLegacyRepositories) InvoiceRepo() legacy.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *gormLegacyRepositories) ServiceRepo() legacy.ServiceContractRepository {
	return NewGormServiceContractRepository(r.tx)
}

func (r *gormLegacyRepositories) ClientRepo() legacy.ClientRepository {
	return NewGormLegacyClientRepository(r.tx)
}

// GormWorkOrderTransactionScope commits a status change together with its contract
type GormWorkOrderTransactionScope struct {
	db *gorm.DB
}

// NewGormWorkOrderTransactionScope creates a new GormWorkOrderTransactionScope
func NewGormWorkOrderTransactionScope(db *gorm.DB) *GormWorkOrderTransactionScope {
	return &GormWorkOrderTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormWorkOrderTransactionScope) Execute(ctx context.Context, fn func(repos appworkorder.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormWorkOrderRepositories{tx: tx})
	})
}

type gormWorkOrderRepositories struct {
	tx *gorm.DB
}

func (r *gormWorkOrderRepositories) RequestRepo() workorder.WorkRequestRepository {
	return NewGormWorkRequestRepository(r.tx)
}

func (r *gormWorkOrderRepositories) ContractRepo() workorder.ContractRepository {
	return NewGormContractRepository(r.tx)
}

var (
	_ appnetwork.TransactionScope   = (*GormNetworkTransactionScope)(nil)
	_ applegacy.TransactionScope    = (*GormLegacyTransactionScope)(nil)
	_ appworkorder.TransactionScope = (*GormWorkOrderTransactionScope)(nil)

	_ appnetwork.TransactionalRepositories   = (*gormNetworkRepositories)(nil)
	_ applegacy.TransactionalRepositories    = (*gormLegacyRepositories)(nil)
	_ appworkorder.TransactionalRepositories = (*gormWorkOrderRepositories)(nil)
)
