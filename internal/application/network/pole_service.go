package network

import (
	"context"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/geo"
	"github.com/isp/backend/internal/domain/network"
	"github.com/isp/backend/internal/domain/shared"
)

// PoleService handles pole CRUD and operator capacity actions
type PoleService struct {
	poleRepo         network.PoleRepository
	neighborhoodRepo network.NeighborhoodRepository
	allocator        *AllocatorService
}

// NewPoleService creates a new PoleService
func NewPoleService(
	poleRepo network.PoleRepository,
	neighborhoodRepo network.NeighborhoodRepository,
	allocator *AllocatorService,
) *PoleService {
	return &PoleService{
		poleRepo:         poleRepo,
		neighborhoodRepo: neighborhoodRepo,
		allocator:        allocator,
	}
}

// Create creates a pole with all capacity available
func (s *PoleService) Create(ctx context.Context, req CreatePoleRequest) (*PoleResponse, error) {
	if _, err := s.neighborhoodRepo.FindByID(ctx, req.NeighborhoodID); err != nil {
		return nil, err
	}

	pole, err := network.NewPole(req.Code, geo.Point{Lat: req.Latitude, Lng: req.Longitude}, req.NeighborhoodID, req.TotalCapacity)
	if err != nil {
		return nil, err
	}

	exists, err := s.poleRepo.ExistsByCode(ctx, pole.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Pole with this code already exists")
	}

	if req.Notes != "" {
		if err := pole.Update(req.Notes, pole.NeighborhoodID); err != nil {
			return nil, err
		}
		pole.Version = 1
	}

	if err := s.poleRepo.Save(ctx, pole); err != nil {
		return nil, err
	}

	response := ToPoleResponse(pole)
	return &response, nil
}

// GetByID retrieves a pole
func (s *PoleService) GetByID(ctx context.Context, id uuid.UUID) (*PoleResponse, error) {
	pole, err := s.poleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPoleResponse(pole)
	return &response, nil
}

// List retrieves active poles with filtering and pagination
func (s *PoleService) List(ctx context.Context, filter PoleListFilter) ([]PoleResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "code"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  map[string]any{"active": true},
	}
	if filter.NeighborhoodID != "" {
		domainFilter.Filters["neighborhood_id"] = filter.NeighborhoodID
	}
	if filter.Available != nil {
		domainFilter.Filters["available"] = *filter.Available
	}

	poles, err := s.poleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.poleRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToPoleResponses(poles), total, nil
}

// Update changes notes, active flag and neighborhood. Capacity is never touched.
func (s *PoleService) Update(ctx context.Context, id uuid.UUID, req UpdatePoleRequest) (*PoleResponse, error) {
	pole, err := s.poleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	notes := pole.Notes
	if req.Notes != nil {
		notes = *req.Notes
	}
	neighborhoodID := pole.NeighborhoodID
	if req.NeighborhoodID != nil && *req.NeighborhoodID != pole.NeighborhoodID {
		if _, err := s.neighborhoodRepo.FindByID(ctx, *req.NeighborhoodID); err != nil {
			return nil, err
		}
		neighborhoodID = *req.NeighborhoodID
	}
	if err := pole.Update(notes, neighborhoodID); err != nil {
		return nil, err
	}
	if req.Active != nil {
		pole.SetActive(*req.Active)
	}

	if err := s.poleRepo.Save(ctx, pole); err != nil {
		return nil, err
	}

	response := ToPoleResponse(pole)
	return &response, nil
}

// Nearby lists candidate poles around a point
func (s *PoleService) Nearby(ctx context.Context, query NearbyQuery) (*AvailablePolesResponse, error) {
	radius := query.Radius
	if radius == 0 {
		radius = s.allocator.DefaultRadius()
	}
	candidates, err := s.allocator.FindCandidates(ctx, query.Point(), radius)
	if err != nil {
		return nil, err
	}
	return &AvailablePolesResponse{
		Poles:  ToNearbyPoleResponses(candidates),
		Total:  len(candidates),
		Radius: radius,
	}, nil
}

// Reserve takes one unit on behalf of an operator
func (s *PoleService) Reserve(ctx context.Context, id uuid.UUID) (*CapacityActionResponse, error) {
	return s.capacityAction(ctx, id, s.allocator.Reserve)
}

// Release returns one unit on behalf of an operator
func (s *PoleService) Release(ctx context.Context, id uuid.UUID) (*CapacityActionResponse, error) {
	return s.capacityAction(ctx, id, s.allocator.Release)
}

func (s *PoleService) capacityAction(ctx context.Context, id uuid.UUID, action func(context.Context, uuid.UUID) (bool, error)) (*CapacityActionResponse, error) {
	if _, err := s.poleRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	ok, err := action(ctx, id)
	if err != nil {
		return nil, err
	}
	pole, err := s.poleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CapacityActionResponse{Success: ok, Pole: ToPoleResponse(pole)}, nil
}
