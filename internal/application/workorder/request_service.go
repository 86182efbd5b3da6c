package workorder

import (
	"context"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/geo"
	"github.com/isp/backend/internal/domain/network"
	"github.com/isp/backend/internal/domain/plan"
	"github.com/isp/backend/internal/domain/shared"
	"github.com/isp/backend/internal/domain/workorder"
	"go.uber.org/zap"
)

// CandidateCounter reports how many poles could serve a location
type CandidateCounter interface {
	CountCandidates(ctx context.Context, origin geo.Point) (int, error)
}

// RequestService handles work request operations
type RequestService struct {
	requestRepo    workorder.WorkRequestRepository
	contractRepo   workorder.ContractRepository
	customerRepo   network.CustomerRepository
	planRepo       plan.PlanRepository
	coverage       CandidateCounter
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewRequestService creates a new RequestService
func NewRequestService(
	requestRepo workorder.WorkRequestRepository,
	contractRepo workorder.ContractRepository,
	customerRepo network.CustomerRepository,
	planRepo plan.PlanRepository,
	coverage CandidateCounter,
	txScope TransactionScope,
	logger *zap.Logger,
) *RequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestService{
		requestRepo:  requestRepo,
		contractRepo: contractRepo,
		customerRepo: customerRepo,
		planRepo:     planRepo,
		coverage:     coverage,
		txScope:      txScope,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher
func (s *RequestService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a request. Its coverage is the number of candidate poles
// around the customer at this moment.
func (s *RequestService) Create(ctx context.Context, in RequestInput, createdBy string) (*RequestResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.planRepo.FindByID(ctx, in.PlanID); err != nil {
		return nil, err
	}

	coverage := 0
	if s.coverage != nil {
		coverage, err = s.coverage.CountCandidates(ctx, customer.Location)
		if err != nil {
			return nil, err
		}
	}

	r, err := workorder.NewWorkRequest(in.Details(), coverage, createdBy)
	if err != nil {
		return nil, err
	}
	if err := s.requestRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	s.publish(ctx, r)

	s.logger.Info("Work request registered",
		zap.String("request_id", r.ID.String()),
		zap.Int("number", r.Number),
		zap.Int("coverage", coverage),
	)
	response := ToRequestResponse(r)
	return &response, nil
}

// GetByID retrieves a request with its follow-ups
func (s *RequestService) GetByID(ctx context.Context, id uuid.UUID) (*RequestResponse, error) {
	r, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToRequestResponse(r)
	return &response, nil
}

// List retrieves requests with filtering and pagination, newest number first
func (s *RequestService) List(ctx context.Context, filter RequestListFilter) ([]RequestResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "number"
		if filter.OrderDir == "" {
			filter.OrderDir = "desc"
		}
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  map[string]any{},
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CustomerID != "" {
		domainFilter.Filters["customer_id"] = filter.CustomerID
	}

	requests, err := s.requestRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.requestRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]RequestResponse, len(requests))
	for i := range requests {
		// listings omit follow-ups
		requests[i].FollowUps = nil
		responses[i] = ToRequestResponse(&requests[i])
	}
	return responses, total, nil
}

// Update changes the editable fields of a request
func (s *RequestService) Update(ctx context.Context, id uuid.UUID, in RequestInput) (*RequestResponse, error) {
	r, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CustomerID != r.CustomerID {
		if _, err := s.customerRepo.FindByID(ctx, in.CustomerID); err != nil {
			return nil, err
		}
	}
	if in.PlanID != r.PlanID {
		if _, err := s.planRepo.FindByID(ctx, in.PlanID); err != nil {
			return nil, err
		}
	}
	if err := r.Update(in.Details()); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	response := ToRequestResponse(r)
	return &response, nil
}

// Delete removes a request that has not been finished
func (s *RequestService) Delete(ctx context.Context, id uuid.UUID) error {
	r, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if r.Status == workorder.StatusFinished {
		return shared.NewDomainError("INVALID_STATE", "Finished requests have a contract and cannot be deleted")
	}
	return s.requestRepo.Delete(ctx, id)
}

// ChangeStatus moves a request to the requested status, chaining follow-ups.
// Reaching FINALIZADA creates the contract in the same transaction.
func (s *RequestService) ChangeStatus(ctx context.Context, id uuid.UUID, req ChangeStatusRequest, by string) (*StatusChangeResponse, error) {
	var (
		request  *workorder.WorkRequest
		followUp *workorder.FollowUp
		contract *workorder.Contract
	)

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.RequestRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		opened, err := r.ChangeStatus(workorder.Status(req.Status), by)
		if err != nil {
			return err
		}
		if err := repos.RequestRepo().Save(ctx, r); err != nil {
			return err
		}

		if r.Status == workorder.StatusFinished {
			c, err := workorder.NewContract(r, req.Username, req.Modem)
			if err != nil {
				return err
			}
			if err := repos.ContractRepo().Save(ctx, c); err != nil {
				return err
			}
			contract = c
		}
		request, followUp = r, opened
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, request)
	s.logger.Info("Work request status changed",
		zap.String("request_id", request.ID.String()),
		zap.String("status", string(request.Status)),
		zap.Int("follow_up", followUp.Sequence),
	)

	response := &StatusChangeResponse{
		Request:  ToRequestResponse(request),
		FollowUp: ToFollowUpResponse(followUp),
	}
	if contract != nil {
		c := ToContractResponse(contract)
		response.Contract = &c
	}
	return response, nil
}

// FollowUps lists the follow-ups of a request ordered by sequence
func (s *RequestService) FollowUps(ctx context.Context, id uuid.UUID) ([]FollowUpResponse, error) {
	if _, err := s.requestRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	items, err := s.requestRepo.FindFollowUps(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToFollowUpResponses(items), nil
}

func (s *RequestService) publish(ctx context.Context, r *workorder.WorkRequest) {
	events := r.GetDomainEvents()
	r.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish work request events",
			zap.String("request_id", r.ID.String()),
			zap.Error(err),
		)
	}
}
