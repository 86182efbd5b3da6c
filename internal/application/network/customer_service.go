package network

import (
	"context"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/geo"
	"github.com/isp/backend/internal/domain/network"
	"github.com/isp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CustomerService handles customer registration, lifecycle and coverage
type CustomerService struct {
	customerRepo  network.CustomerRepository
	poleRepo      network.PoleRepository
	neighborhoods *NeighborhoodService
	allocator     *AllocatorService
	txScope       TransactionScope
	logger        *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customerRepo network.CustomerRepository,
	poleRepo network.PoleRepository,
	neighborhoods *NeighborhoodService,
	allocator *AllocatorService,
	txScope TransactionScope,
	logger *zap.Logger,
) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{
		customerRepo:  customerRepo,
		poleRepo:      poleRepo,
		neighborhoods: neighborhoods,
		allocator:     allocator,
		txScope:       txScope,
		logger:        logger,
	}
}

// Create registers a customer. When no neighborhood is given it is resolved
// from the location.
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	if req.Latitude == nil || req.Longitude == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "latitude and longitude are required")
	}
	location := geo.Point{Lat: *req.Latitude, Lng: *req.Longitude}

	customer, err := network.NewCustomer(req.FirstName, req.LastName, req.Phone, req.Address, location)
	if err != nil {
		return nil, err
	}
	if req.Email != "" {
		if err := customer.SetEmail(req.Email); err != nil {
			return nil, err
		}
	}
	customer.Notes = req.Notes

	if err := s.resolveNeighborhood(ctx, customer, req.NeighborhoodID); err != nil {
		return nil, err
	}
	customer.Version = 1

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer with the distance to its pole
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	if customer.HasPole() {
		pole, err := s.poleRepo.FindByID(ctx, *customer.PoleID)
		if err == nil {
			d := roundMeters(s.allocator.Distance(customer.Location, pole.Location))
			response.DistanceToPoleM = &d
		}
	}
	return &response, nil
}

// List retrieves customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "requested_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.NeighborhoodID != "" {
		domainFilter.Filters["neighborhood_id"] = filter.NeighborhoodID
	}

	customers, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToCustomerResponses(customers), total, nil
}

// Update changes contact or location fields. Pole and status are not editable here.
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	loadedVersion := customer.Version
	firstName, lastName, phone, address, notes := customer.FirstName, customer.LastName, customer.Phone, customer.Address, customer.Notes
	if req.FirstName != nil {
		firstName = *req.FirstName
	}
	if req.LastName != nil {
		lastName = *req.LastName
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Address != nil {
		address = *req.Address
	}
	if req.Notes != nil {
		notes = *req.Notes
	}
	if err := customer.UpdateContact(firstName, lastName, phone, address, notes); err != nil {
		return nil, err
	}
	if req.Email != nil {
		if err := customer.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}

	if req.Latitude != nil || req.Longitude != nil {
		location := customer.Location
		if req.Latitude != nil {
			location.Lat = *req.Latitude
		}
		if req.Longitude != nil {
			location.Lng = *req.Longitude
		}
		if err := customer.Relocate(location); err != nil {
			return nil, err
		}
		if req.NeighborhoodID == nil {
			if err := s.resolveNeighborhood(ctx, customer, nil); err != nil {
				return nil, err
			}
		}
	}
	if req.NeighborhoodID != nil {
		if err := s.resolveNeighborhood(ctx, customer, req.NeighborhoodID); err != nil {
			return nil, err
		}
	}

	// Several setters ran; the row advances by exactly one version.
	customer.Version = loadedVersion + 1
	if err := s.customerRepo.SaveWithLock(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete removes a customer and returns its pole unit, if any
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		customer, err := repos.CustomerRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if customer.HasPole() {
			ok, err := repos.PoleRepo().Release(ctx, *customer.PoleID)
			if err != nil {
				return err
			}
			if !ok {
				s.logger.Warn("held pole already at full capacity",
					zap.String("customer_id", id.String()),
					zap.String("pole_id", customer.PoleID.String()))
			}
		}
		return repos.CustomerRepo().Delete(ctx, id)
	})
}

// AssignPole runs the allocator. When no pole can be reserved ErrNoCoverage is
// returned and a customer without a pole is marked rejected. A customer that
// already holds a pole keeps it.
func (s *CustomerService) AssignPole(ctx context.Context, id uuid.UUID) (*AssignmentResponse, error) {
	assignment, err := s.allocator.AssignAutomatic(ctx, id)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		if err := s.reject(ctx, id); err != nil {
			return nil, err
		}
		return nil, network.ErrNoCoverage
	}

	return &AssignmentResponse{
		Customer:       ToCustomerResponse(assignment.Customer),
		Pole:           ToPoleResponse(assignment.Pole),
		DistanceMeters: roundMeters(assignment.Distance),
		Attempts:       assignment.Attempts,
	}, nil
}

// CheckCoverage reports candidate poles and the containing neighborhood. It
// never mutates state.
func (s *CustomerService) CheckCoverage(ctx context.Context, req CoverageRequest) (*CoverageResponse, error) {
	if req.Latitude == nil || req.Longitude == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "lat and lng are required")
	}
	radius := req.Radius
	if radius == 0 {
		radius = s.allocator.DefaultRadius()
	}
	point := req.Point()

	candidates, err := s.allocator.FindCandidates(ctx, point, radius)
	if err != nil {
		return nil, err
	}

	response := &CoverageResponse{
		HasCoverage:    len(candidates) > 0,
		AvailablePoles: len(candidates),
		Radius:         radius,
	}
	if len(candidates) > 0 {
		nearest := ToNearbyPoleResponses(candidates[:1])[0]
		response.NearestPole = &nearest
	}

	n, err := s.neighborhoods.Locate(ctx, point)
	if err != nil {
		return nil, err
	}
	if n != nil {
		response.Neighborhood = &NeighborhoodRef{ID: n.ID, Name: n.Name}
	}
	return response, nil
}

// Install marks an assigned customer as installed
func (s *CustomerService) Install(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := customer.Install(); err != nil {
		return nil, err
	}
	if err := s.customerRepo.SaveWithLock(ctx, customer); err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// Cancel withdraws the request and releases the held unit in the same transaction
func (s *CustomerService) Cancel(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	var customer *network.Customer
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		customer, err = repos.CustomerRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		held, err := customer.Cancel()
		if err != nil {
			return err
		}
		return s.releaseAndSave(ctx, repos, customer, held)
	})
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// Stats returns customer counts per status
func (s *CustomerService) Stats(ctx context.Context) (*network.CustomerStats, error) {
	counts, err := s.customerRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stats := network.NewCustomerStats(counts)
	return &stats, nil
}

func (s *CustomerService) reject(ctx context.Context, id uuid.UUID) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		customer, err := repos.CustomerRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if customer.HasPole() {
			s.logger.Info("no other pole available, keeping current assignment",
				zap.String("customer_id", id.String()),
				zap.String("pole_id", customer.PoleID.String()))
			return nil
		}
		if _, err := customer.Reject(); err != nil {
			return err
		}
		s.logger.Info("customer rejected for lack of coverage", zap.String("customer_id", id.String()))
		return repos.CustomerRepo().SaveWithLock(ctx, customer)
	})
}

func (s *CustomerService) releaseAndSave(ctx context.Context, repos TransactionalRepositories, customer *network.Customer, held *uuid.UUID) error {
	if held != nil {
		ok, err := repos.PoleRepo().Release(ctx, *held)
		if err != nil {
			return err
		}
		if !ok {
			s.logger.Warn("held pole already at full capacity",
				zap.String("customer_id", customer.ID.String()),
				zap.String("pole_id", held.String()))
		}
	}
	return repos.CustomerRepo().SaveWithLock(ctx, customer)
}

func (s *CustomerService) resolveNeighborhood(ctx context.Context, customer *network.Customer, requested *uuid.UUID) error {
	if requested != nil && *requested != uuid.Nil {
		if _, err := s.neighborhoods.neighborhoodRepo.FindByID(ctx, *requested); err != nil {
			return err
		}
		customer.SetNeighborhood(requested)
		return nil
	}
	n, err := s.neighborhoods.Locate(ctx, customer.Location)
	if err != nil {
		return err
	}
	if n == nil {
		customer.SetNeighborhood(nil)
		return nil
	}
	id := n.ID
	customer.SetNeighborhood(&id)
	return nil
}
