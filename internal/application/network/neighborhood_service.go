package network

import (
	"context"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/geo"
	"github.com/isp/backend/internal/domain/network"
	"github.com/isp/backend/internal/domain/shared"
)

// NeighborhoodService handles neighborhood operations
type NeighborhoodService struct {
	neighborhoodRepo network.NeighborhoodRepository
	poleRepo         network.PoleRepository
}

// NewNeighborhoodService creates a new NeighborhoodService
func NewNeighborhoodService(neighborhoodRepo network.NeighborhoodRepository, poleRepo network.PoleRepository) *NeighborhoodService {
	return &NeighborhoodService{
		neighborhoodRepo: neighborhoodRepo,
		poleRepo:         poleRepo,
	}
}

// Create creates a new neighborhood
func (s *NeighborhoodService) Create(ctx context.Context, req CreateNeighborhoodRequest) (*NeighborhoodResponse, error) {
	exists, err := s.neighborhoodRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Neighborhood with this name already exists")
	}

	n, err := network.NewNeighborhood(req.Name, req.Boundary)
	if err != nil {
		return nil, err
	}
	if err := s.neighborhoodRepo.Save(ctx, n); err != nil {
		return nil, err
	}

	response := ToNeighborhoodResponse(n)
	return &response, nil
}

// GetByID retrieves a neighborhood with its pole counters
func (s *NeighborhoodService) GetByID(ctx context.Context, id uuid.UUID) (*NeighborhoodResponse, error) {
	n, err := s.neighborhoodRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToNeighborhoodResponse(n)
	response.TotalPoles, response.PolesWithAvailability, err = s.neighborhoodRepo.CountPoles(ctx, id)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// List retrieves active neighborhoods ordered by name
func (s *NeighborhoodService) List(ctx context.Context, filter NeighborhoodListFilter) ([]NeighborhoodResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "name",
		OrderDir: "asc",
		Search:   filter.Search,
	}

	items, err := s.neighborhoodRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.neighborhoodRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]NeighborhoodResponse, len(items))
	for i := range items {
		responses[i] = ToNeighborhoodResponse(&items[i])
		responses[i].TotalPoles, responses[i].PolesWithAvailability, err = s.neighborhoodRepo.CountPoles(ctx, items[i].ID)
		if err != nil {
			return nil, 0, err
		}
	}
	return responses, total, nil
}

// Update renames or reshapes a neighborhood
func (s *NeighborhoodService) Update(ctx context.Context, id uuid.UUID, req UpdateNeighborhoodRequest) (*NeighborhoodResponse, error) {
	n, err := s.neighborhoodRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != n.Name {
		exists, err := s.neighborhoodRepo.ExistsByName(ctx, req.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Neighborhood with this name already exists")
		}
	}

	if err := n.Update(req.Name, req.Boundary); err != nil {
		return nil, err
	}
	if err := s.neighborhoodRepo.Save(ctx, n); err != nil {
		return nil, err
	}

	response := ToNeighborhoodResponse(n)
	return &response, nil
}

// Deactivate hides a neighborhood
func (s *NeighborhoodService) Deactivate(ctx context.Context, id uuid.UUID) error {
	n, err := s.neighborhoodRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	n.Deactivate()
	return s.neighborhoodRepo.Save(ctx, n)
}

// ListPoles lists the active poles of a neighborhood
func (s *NeighborhoodService) ListPoles(ctx context.Context, id uuid.UUID) ([]PoleResponse, error) {
	if _, err := s.neighborhoodRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	poles, err := s.poleRepo.FindByNeighborhood(ctx, id, shared.Filter{OrderBy: "code", OrderDir: "asc"})
	if err != nil {
		return nil, err
	}
	return ToPoleResponses(poles), nil
}

// Locate returns the active neighborhood containing p, or nil. Boundaries
// are expected not to overlap; on overlap the first by name wins.
func (s *NeighborhoodService) Locate(ctx context.Context, p geo.Point) (*network.Neighborhood, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	candidates, err := s.neighborhoodRepo.FindBoxContaining(ctx, p)
	if err != nil {
		return nil, err
	}
	return network.FirstContaining(candidates, p), nil
}
