package workorder

import (
	"context"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/shared"
	"github.com/isp/backend/internal/domain/workorder"
)

// ContractService exposes the contracts created by finished requests
type ContractService struct {
	contractRepo workorder.ContractRepository
}

// NewContractService creates a new ContractService
func NewContractService(contractRepo workorder.ContractRepository) *ContractService {
	return &ContractService{contractRepo: contractRepo}
}

// GetByID retrieves a contract
func (s *ContractService) GetByID(ctx context.Context, id uuid.UUID) (*ContractResponse, error) {
	c, err := s.contractRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToContractResponse(c)
	return &response, nil
}

// List retrieves contracts, newest first
func (s *ContractService) List(ctx context.Context, filter ContractListFilter) ([]ContractResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "contracted_on",
		OrderDir: "desc",
		Search:   filter.Search,
	}

	contracts, err := s.contractRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.contractRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ContractResponse, len(contracts))
	for i := range contracts {
		responses[i] = ToContractResponse(&contracts[i])
	}
	return responses, total, nil
}
