package legacy

import (
	"context"
	"strings"
	"time"

	"github.com/isp/backend/internal/domain/legacy"
	"github.com/isp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LookupService copies federated rows into the local tables on first access
// and serves the local copies afterwards.
type LookupService struct {
	invoiceRepo legacy.InvoiceRepository
	serviceRepo legacy.ServiceContractRepository
	clientRepo  legacy.ClientRepository
	source      legacy.FederatedSource
	txScope     TransactionScope
	logger      *zap.Logger
	now         func() time.Time
}

// NewLookupService creates a new LookupService
func NewLookupService(
	invoiceRepo legacy.InvoiceRepository,
	serviceRepo legacy.ServiceContractRepository,
	clientRepo legacy.ClientRepository,
	source legacy.FederatedSource,
	txScope TransactionScope,
	logger *zap.Logger,
) *LookupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LookupService{
		invoiceRepo: invoiceRepo,
		serviceRepo: serviceRepo,
		clientRepo:  clientRepo,
		source:      source,
		txScope:     txScope,
		logger:      logger,
		now:         time.Now,
	}
}

// LookupServices returns the local contracts of a client, copying them from
// the federated table when none exist locally.
func (s *LookupService) LookupServices(ctx context.Context, clientCode, migratedBy string) (*LookupResult, error) {
	clientCode = strings.TrimSpace(clientCode)
	if clientCode == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Se requiere el parámetro cod_cliente")
	}

	local, err := s.serviceRepo.FindByClient(ctx, clientCode)
	if err != nil {
		return nil, err
	}
	if len(local) > 0 {
		return &LookupResult{
			Status: legacy.LookupExists,
			Data:   &LookupData{Contracts: serviceContracts(local)},
		}, nil
	}

	remote, err := s.source.ServicesByClient(ctx, clientCode)
	if err != nil {
		return nil, err
	}
	if len(remote) == 0 {
		return &LookupResult{Status: legacy.LookupNotFound}, nil
	}

	at := s.now()
	for i := range remote {
		legacy.Stamp(&remote[i].Migration, migratedBy, at)
	}

	var inserted int64
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		n, err := repos.ServiceRepo().InsertIfAbsent(ctx, remote)
		inserted = n
		return err
	})
	if err != nil {
		s.logger.Error("Failed to copy services",
			zap.String("client_code", clientCode),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Services copied from federated source",
		zap.String("client_code", clientCode),
		zap.Int64("inserted", inserted),
	)
	return &LookupResult{
		Status:  legacy.LookupMigrated,
		Records: &inserted,
		Data:    &LookupData{Contracts: serviceContracts(remote)},
	}, nil
}

// LookupInvoices copies the missing invoices of every local contract of a client
func (s *LookupService) LookupInvoices(ctx context.Context, clientCode, migratedBy string) (*InvoiceLookupResult, error) {
	clientCode = strings.TrimSpace(clientCode)
	if clientCode == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Se requiere el parámetro cod_cliente")
	}

	services, err := s.serviceRepo.FindByClient(ctx, clientCode)
	if err != nil {
		return nil, err
	}
	if len(services) == 0 {
		return &InvoiceLookupResult{Status: legacy.LookupNoServices}, nil
	}

	at := s.now()
	batches := make(map[string][]legacy.Invoice)
	contracts := uniqueContracts(services)
	for _, contract := range contracts {
		invoices, err := s.source.InvoicesByContract(ctx, contract)
		if err != nil {
			return nil, err
		}
		for i := range invoices {
			legacy.Stamp(&invoices[i].Migration, migratedBy, at)
		}
		batches[contract] = invoices
	}

	result := &InvoiceLookupResult{Status: legacy.LookupMigrated, Detail: []ContractMigration{}}
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		result.TotalInvoices = 0
		result.Detail = result.Detail[:0]
		for _, contract := range contracts {
			if len(batches[contract]) == 0 {
				continue
			}
			n, err := repos.InvoiceRepo().InsertIfAbsent(ctx, batches[contract])
			if err != nil {
				return err
			}
			if n > 0 {
				result.Detail = append(result.Detail, ContractMigration{Contract: contract, Invoices: n})
				result.TotalInvoices += n
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to copy invoices",
			zap.String("client_code", clientCode),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Invoices copied from federated source",
		zap.String("client_code", clientCode),
		zap.Int64("inserted", result.TotalInvoices),
	)
	return result, nil
}

// LookupClientByDocument copies a client from the federated table when it is
// not present locally.
func (s *LookupService) LookupClientByDocument(ctx context.Context, documentNumber, migratedBy string) (*LookupResult, error) {
	documentNumber = strings.TrimSpace(documentNumber)
	if documentNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Se requiere el parámetro nro_documento")
	}

	exists, err := s.clientRepo.ExistsByDocument(ctx, documentNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return &LookupResult{Status: legacy.LookupExists}, nil
	}

	remote, err := s.source.ClientsByDocument(ctx, documentNumber)
	if err != nil {
		return nil, err
	}
	if len(remote) == 0 {
		return &LookupResult{Status: legacy.LookupNotFound}, nil
	}

	at := s.now()
	for i := range remote {
		legacy.Stamp(&remote[i].Migration, migratedBy, at)
	}

	var inserted int64
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		n, err := repos.ClientRepo().InsertIfAbsent(ctx, remote)
		inserted = n
		return err
	})
	if err != nil {
		s.logger.Error("Failed to copy client",
			zap.String("document_number", documentNumber),
			zap.Error(err),
		)
		return nil, err
	}

	return &LookupResult{
		Status:  legacy.LookupMigrated,
		Records: &inserted,
		Data:    &LookupData{ClientCode: remote[len(remote)-1].ClientCode},
	}, nil
}

// ListInvoices lists local invoices, newest copies first
func (s *LookupService) ListInvoices(ctx context.Context, filter LocalListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter := localFilter(filter, DefaultLocalPageSize, "migrated_at")
	invoices, err := s.invoiceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses, total, nil
}

// ListServices lists local service contracts, newest copies first
func (s *LookupService) ListServices(ctx context.Context, filter LocalListFilter) ([]ServiceResponse, int64, error) {
	domainFilter := localFilter(filter, DefaultLocalPageSize, "migrated_at")
	services, err := s.serviceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.serviceRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ServiceResponse, len(services))
	for i := range services {
		responses[i] = ToServiceResponse(&services[i])
	}
	return responses, total, nil
}

// ListClients lists local clients, newest copies first
func (s *LookupService) ListClients(ctx context.Context, filter LocalListFilter) ([]ClientResponse, int64, error) {
	domainFilter := localFilter(filter, 20, "migrated_at")
	clients, err := s.clientRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.clientRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return toClientResponses(clients), total, nil
}

// SearchClients matches local clients by any name part
func (s *LookupService) SearchClients(ctx context.Context, name string, filter LocalListFilter) ([]ClientResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Se requiere el parámetro nombre")
	}
	clients, err := s.clientRepo.SearchByName(ctx, name, localFilter(filter, 20, "paternal_name"))
	if err != nil {
		return nil, err
	}
	return toClientResponses(clients), nil
}

// ClientSummary returns a local client with the debt summary of each service
func (s *LookupService) ClientSummary(ctx context.Context, documentNumber string) (*ClientSummaryResponse, error) {
	documentNumber = strings.TrimSpace(documentNumber)
	if documentNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Se requiere el parámetro nro_documento")
	}

	client, err := s.clientRepo.FindByDocument(ctx, documentNumber)
	if err != nil {
		return nil, err
	}
	services, err := s.serviceRepo.FindByClient(ctx, client.ClientCode)
	if err != nil {
		return nil, err
	}

	summary := &ClientSummaryResponse{
		Client: ClientHeader{
			ClientCode:     client.ClientCode,
			GivenNames:     client.GivenNames,
			DocumentNumber: client.DocumentNumber,
		},
		Services: make([]ServiceDebt, 0, len(services)),
	}
	for i := range services {
		debt, err := s.invoiceRepo.SummarizeDebt(ctx, services[i].Contract)
		if err != nil {
			return nil, err
		}
		summary.Services = append(summary.Services, ServiceDebt{
			Service: ToServiceResponse(&services[i]),
			Debt:    debt,
		})
	}
	return summary, nil
}

func serviceContracts(services []legacy.ServiceContract) []string {
	contracts := make([]string, len(services))
	for i := range services {
		contracts[i] = services[i].Contract
	}
	return contracts
}

func uniqueContracts(services []legacy.ServiceContract) []string {
	seen := make(map[string]struct{}, len(services))
	contracts := make([]string, 0, len(services))
	for i := range services {
		c := services[i].Contract
		if _, ok := seen[c]; ok || c == "" {
			continue
		}
		seen[c] = struct{}{}
		contracts = append(contracts, c)
	}
	return contracts
}

func localFilter(filter LocalListFilter, defaultPageSize int, orderBy string) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultPageSize
	}
	dir := "desc"
	if orderBy != "migrated_at" {
		dir = "asc"
	}
	return shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  orderBy,
		OrderDir: dir,
	}
}

func toClientResponses(clients []legacy.LegacyClient) []ClientResponse {
	responses := make([]ClientResponse, len(clients))
	for i := range clients {
		responses[i] = ToClientResponse(&clients[i])
	}
	return responses
}
