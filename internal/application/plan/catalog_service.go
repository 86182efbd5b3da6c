package plan

import (
	"context"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/plan"
	"github.com/isp/backend/internal/domain/shared"
)

// CatalogService manages payment methods and connection types
type CatalogService struct {
	paymentMethodRepo  plan.PaymentMethodRepository
	connectionTypeRepo plan.ConnectionTypeRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(paymentMethodRepo plan.PaymentMethodRepository, connectionTypeRepo plan.ConnectionTypeRepository) *CatalogService {
	return &CatalogService{
		paymentMethodRepo:  paymentMethodRepo,
		connectionTypeRepo: connectionTypeRepo,
	}
}

// CreatePaymentMethod creates a payment method
func (s *CatalogService) CreatePaymentMethod(ctx context.Context, req PaymentMethodRequest) (*PaymentMethodResponse, error) {
	pm, err := plan.NewPaymentMethod(req.Name, req.Description, req.Abbreviation)
	if err != nil {
		return nil, err
	}
	if req.Active != nil && !*req.Active {
		pm.Active = false
	}
	if err := s.paymentMethodRepo.Save(ctx, pm); err != nil {
		return nil, err
	}
	response := ToPaymentMethodResponse(pm)
	return &response, nil
}

// GetPaymentMethod retrieves a payment method by ID
func (s *CatalogService) GetPaymentMethod(ctx context.Context, id uuid.UUID) (*PaymentMethodResponse, error) {
	pm, err := s.paymentMethodRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPaymentMethodResponse(pm)
	return &response, nil
}

// ListPaymentMethods lists payment methods ordered by name
func (s *CatalogService) ListPaymentMethods(ctx context.Context, filter CatalogListFilter) ([]PaymentMethodResponse, int64, error) {
	domainFilter := catalogFilter(filter)
	items, err := s.paymentMethodRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.paymentMethodRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]PaymentMethodResponse, len(items))
	for i := range items {
		responses[i] = ToPaymentMethodResponse(&items[i])
	}
	return responses, total, nil
}

// UpdatePaymentMethod replaces the payment method fields
func (s *CatalogService) UpdatePaymentMethod(ctx context.Context, id uuid.UUID, req PaymentMethodRequest) (*PaymentMethodResponse, error) {
	pm, err := s.paymentMethodRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := pm.Update(req.Name, req.Description, req.Abbreviation); err != nil {
		return nil, err
	}
	if req.Active != nil && *req.Active != pm.Active {
		pm.SetActive(*req.Active)
	}
	if err := s.paymentMethodRepo.Save(ctx, pm); err != nil {
		return nil, err
	}
	response := ToPaymentMethodResponse(pm)
	return &response, nil
}

// DeletePaymentMethod removes a payment method no plan references
func (s *CatalogService) DeletePaymentMethod(ctx context.Context, id uuid.UUID) error {
	if _, err := s.paymentMethodRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.paymentMethodRepo.Delete(ctx, id)
}

// CreateConnectionType creates a connection type
func (s *CatalogService) CreateConnectionType(ctx context.Context, req ConnectionTypeRequest) (*ConnectionTypeResponse, error) {
	ct, err := plan.NewConnectionType(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if req.Active != nil && !*req.Active {
		ct.Active = false
	}
	if err := s.connectionTypeRepo.Save(ctx, ct); err != nil {
		return nil, err
	}
	response := ToConnectionTypeResponse(ct)
	return &response, nil
}

// GetConnectionType retrieves a connection type by ID
func (s *CatalogService) GetConnectionType(ctx context.Context, id uuid.UUID) (*ConnectionTypeResponse, error) {
	ct, err := s.connectionTypeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToConnectionTypeResponse(ct)
	return &response, nil
}

// ListConnectionTypes lists connection types ordered by name
func (s *CatalogService) ListConnectionTypes(ctx context.Context, filter CatalogListFilter) ([]ConnectionTypeResponse, int64, error) {
	domainFilter := catalogFilter(filter)
	items, err := s.connectionTypeRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.connectionTypeRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ConnectionTypeResponse, len(items))
	for i := range items {
		responses[i] = ToConnectionTypeResponse(&items[i])
	}
	return responses, total, nil
}

// UpdateConnectionType replaces the connection type fields
func (s *CatalogService) UpdateConnectionType(ctx context.Context, id uuid.UUID, req ConnectionTypeRequest) (*ConnectionTypeResponse, error) {
	ct, err := s.connectionTypeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ct.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if req.Active != nil && *req.Active != ct.Active {
		ct.SetActive(*req.Active)
	}
	if err := s.connectionTypeRepo.Save(ctx, ct); err != nil {
		return nil, err
	}
	response := ToConnectionTypeResponse(ct)
	return &response, nil
}

// DeleteConnectionType removes a connection type no plan references
func (s *CatalogService) DeleteConnectionType(ctx context.Context, id uuid.UUID) error {
	if _, err := s.connectionTypeRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.connectionTypeRepo.Delete(ctx, id)
}

func catalogFilter(filter CatalogListFilter) shared.Filter {
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
		Filters:  map[string]any{},
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}
	return domainFilter
}
