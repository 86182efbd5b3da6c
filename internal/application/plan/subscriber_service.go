package plan

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/plan"
	"github.com/isp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SubscriberStatsKey is the cache key of the subscriber statistics payload
const SubscriberStatsKey = "stats:subscribers"

// StatsCache stores computed statistics between requests
type StatsCache interface {
	// Get decodes the cached value into dest and reports whether it was present
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SubscriberService handles subscriber operations and statistics
type SubscriberService struct {
	subscriberRepo plan.SubscriberRepository
	planRepo       plan.PlanRepository
	cache          StatsCache
	statsTTL       time.Duration
	logger         *zap.Logger
}

// NewSubscriberService creates a new SubscriberService. cache may be nil.
func NewSubscriberService(
	subscriberRepo plan.SubscriberRepository,
	planRepo plan.PlanRepository,
	cache StatsCache,
	statsTTL time.Duration,
	logger *zap.Logger,
) *SubscriberService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubscriberService{
		subscriberRepo: subscriberRepo,
		planRepo:       planRepo,
		cache:          cache,
		statsTTL:       statsTTL,
		logger:         logger,
	}
}

// Create registers a subscriber
func (s *SubscriberService) Create(ctx context.Context, req SubscriberRequest) (*SubscriberResponse, error) {
	sub, err := plan.NewSubscriber(req.Profile())
	if err != nil {
		return nil, err
	}
	if err := s.checkProfile(ctx, sub, uuid.Nil); err != nil {
		return nil, err
	}
	if err := applyStatus(sub, req); err != nil {
		return nil, err
	}
	sub.Version = 1

	if err := s.subscriberRepo.Save(ctx, sub); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)

	response := ToSubscriberResponse(sub)
	return &response, nil
}

// GetByID retrieves a subscriber by ID
func (s *SubscriberService) GetByID(ctx context.Context, id uuid.UUID) (*SubscriberResponse, error) {
	sub, err := s.subscriberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSubscriberResponse(sub)
	return &response, nil
}

// List retrieves subscribers with filtering and pagination
func (s *SubscriberService) List(ctx context.Context, filter SubscriberListFilter) ([]SubscriberResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
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
		Search:   filter.Search,
		Filters:  map[string]any{},
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Coverage != "" {
		domainFilter.Filters["coverage"] = filter.Coverage
	}
	if filter.Type != "" {
		domainFilter.Filters["customer_type"] = filter.Type
	}
	if filter.Zone != "" {
		domainFilter.Filters["zone"] = filter.Zone
	}

	subs, err := s.subscriberRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.subscriberRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]SubscriberResponse, len(subs))
	for i := range subs {
		responses[i] = ToSubscriberResponse(&subs[i])
	}
	return responses, total, nil
}

// Update replaces the subscriber profile and optionally its status/coverage
func (s *SubscriberService) Update(ctx context.Context, id uuid.UUID, req SubscriberRequest) (*SubscriberResponse, error) {
	sub, err := s.subscriberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	loadedVersion := sub.Version

	if err := sub.Update(req.Profile()); err != nil {
		return nil, err
	}
	if err := s.checkProfile(ctx, sub, sub.ID); err != nil {
		return nil, err
	}
	if err := applyStatus(sub, req); err != nil {
		return nil, err
	}
	sub.Version = loadedVersion + 1

	if err := s.subscriberRepo.Save(ctx, sub); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)

	response := ToSubscriberResponse(sub)
	return &response, nil
}

// Delete removes a subscriber
func (s *SubscriberService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.subscriberRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.subscriberRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	return nil
}

// Stats returns subscriber statistics, served from cache while fresh
func (s *SubscriberService) Stats(ctx context.Context) (*plan.SubscriberStats, error) {
	if s.cache != nil {
		var cached plan.SubscriberStats
		found, err := s.cache.Get(ctx, SubscriberStatsKey, &cached)
		if err != nil {
			s.logger.Warn("Failed to read statistics cache", zap.Error(err))
		} else if found {
			return &cached, nil
		}
	}

	byStatus, err := s.subscriberRepo.CountByStatusAndCoverage(ctx)
	if err != nil {
		return nil, err
	}
	byType, err := s.subscriberRepo.CountByType(ctx)
	if err != nil {
		return nil, err
	}
	byCoverage, err := s.subscriberRepo.CountByCoverage(ctx)
	if err != nil {
		return nil, err
	}
	topZones, err := s.subscriberRepo.TopZones(ctx, plan.TopZonesLimit)
	if err != nil {
		return nil, err
	}

	stats := &plan.SubscriberStats{
		Summary:    plan.NewSubscriberSummary(byStatus),
		ByStatus:   byStatus,
		ByType:     byType,
		ByCoverage: byCoverage,
		TopZones:   topZones,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, SubscriberStatsKey, stats, s.statsTTL); err != nil {
			s.logger.Warn("Failed to write statistics cache", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *SubscriberService) checkProfile(ctx context.Context, sub *plan.Subscriber, excludeID uuid.UUID) error {
	if sub.DocumentNumber != "" {
		exists, err := s.subscriberRepo.ExistsByDocument(ctx, sub.DocumentNumber, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS", "Subscriber with this document number already exists")
		}
	}
	if sub.PlanID != nil {
		if _, err := s.planRepo.FindByID(ctx, *sub.PlanID); err != nil {
			return err
		}
	}
	return nil
}

func (s *SubscriberService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, SubscriberStatsKey); err != nil {
		s.logger.Warn("Failed to invalidate statistics cache", zap.Error(err))
	}
}

func applyStatus(sub *plan.Subscriber, req SubscriberRequest) error {
	if req.Coverage != "" && plan.Coverage(req.Coverage) != sub.Coverage {
		if err := sub.SetCoverage(plan.Coverage(req.Coverage)); err != nil {
			return err
		}
	}
	if req.Status != "" && plan.SubscriberStatus(req.Status) != sub.Status {
		if err := sub.ChangeStatus(plan.SubscriberStatus(req.Status)); err != nil {
			return err
		}
	}
	return nil
}
