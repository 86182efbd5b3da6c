package plan

import (
	"context"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/plan"
	"github.com/isp/backend/internal/domain/shared"
)

// PlanService handles commercial plan operations
type PlanService struct {
	planRepo           plan.PlanRepository
	paymentMethodRepo  plan.PaymentMethodRepository
	connectionTypeRepo plan.ConnectionTypeRepository
}

// NewPlanService creates a new PlanService
func NewPlanService(
	planRepo plan.PlanRepository,
	paymentMethodRepo plan.PaymentMethodRepository,
	connectionTypeRepo plan.ConnectionTypeRepository,
) *PlanService {
	return &PlanService{
		planRepo:           planRepo,
		paymentMethodRepo:  paymentMethodRepo,
		connectionTypeRepo: connectionTypeRepo,
	}
}

// Create creates a plan after checking its code and references
func (s *PlanService) Create(ctx context.Context, req PlanRequest) (*PlanResponse, error) {
	p, err := plan.NewPlan(req.Code, req.Terms())
	if err != nil {
		return nil, err
	}

	exists, err := s.planRepo.ExistsByCode(ctx, p.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Plan with this code already exists")
	}
	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}
	if req.Active != nil && !*req.Active {
		p.Active = false
	}

	if err := s.planRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	response := ToPlanResponse(p)
	return &response, nil
}

// GetByID retrieves a plan by ID
func (s *PlanService) GetByID(ctx context.Context, id uuid.UUID) (*PlanResponse, error) {
	p, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPlanResponse(p)
	return &response, nil
}

// List lists plans ordered by code
func (s *PlanService) List(ctx context.Context, filter CatalogListFilter) ([]PlanResponse, int64, error) {
	domainFilter := catalogFilter(filter)
	domainFilter.OrderBy = "code"

	plans, err := s.planRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.planRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]PlanResponse, len(plans))
	for i := range plans {
		responses[i] = ToPlanResponse(&plans[i])
	}
	return responses, total, nil
}

// Update replaces the plan terms. The code is immutable.
func (s *PlanService) Update(ctx context.Context, id uuid.UUID, req PlanRequest) (*PlanResponse, error) {
	p, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.PaymentMethodID != p.PaymentMethodID || req.ConnectionTypeID != p.ConnectionTypeID {
		if err := s.checkReferences(ctx, req); err != nil {
			return nil, err
		}
	}
	if err := p.Update(req.Terms()); err != nil {
		return nil, err
	}
	if req.Active != nil && *req.Active != p.Active {
		p.SetActive(*req.Active)
	}
	if err := s.planRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	response := ToPlanResponse(p)
	return &response, nil
}

// Delete removes a plan
func (s *PlanService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.planRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.planRepo.Delete(ctx, id)
}

func (s *PlanService) checkReferences(ctx context.Context, req PlanRequest) error {
	if _, err := s.paymentMethodRepo.FindByID(ctx, req.PaymentMethodID); err != nil {
		return err
	}
	if _, err := s.connectionTypeRepo.FindByID(ctx, req.ConnectionTypeID); err != nil {
		return err
	}
	return nil
}
