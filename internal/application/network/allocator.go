package network

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/geo"
	"github.com/isp/backend/internal/domain/network"
	"github.com/isp/backend/internal/domain/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/isp/backend/internal/application/network"

// Allocation outcomes reported to the AllocationObserver
const (
	OutcomeAssigned     = "assigned"
	OutcomeNoCandidates = "no_candidates"
	OutcomeExhausted    = "exhausted"
	OutcomeError        = "error"
)

// Radius limits in meters
const (
	DefaultSearchRadius = 150.0
	MaxSearchRadius     = 5000.0
)

// AllocationObserver receives allocation outcomes, typically for metrics
type AllocationObserver interface {
	ObserveAllocation(outcome string, attempts int)
}

// AllocatorConfig tunes the allocator
type AllocatorConfig struct {
	DefaultRadius float64
	MaxAttempts   int
	DistanceMode  geo.DistanceMode
}

// DefaultAllocatorConfig returns the defaults: 150 m, 3 attempts, haversine
func DefaultAllocatorConfig() AllocatorConfig {
	return AllocatorConfig{
		DefaultRadius: DefaultSearchRadius,
		MaxAttempts:   3,
		DistanceMode:  geo.DistanceHaversine,
	}
}

// Candidate is a pole with spare capacity and its distance to the origin
type Candidate struct {
	Pole     network.Pole
	Distance float64
}

// Assignment is the result of a successful AssignAutomatic
type Assignment struct {
	Customer *network.Customer
	Pole     *network.Pole
	Distance float64
	Attempts int
}

// AllocatorService assigns customers to the nearest pole with spare capacity
type AllocatorService struct {
	poleRepo       network.PoleRepository
	customerRepo   network.CustomerRepository
	txScope        TransactionScope
	cfg            AllocatorConfig
	distance       geo.DistanceFunc
	logger         *zap.Logger
	observer       AllocationObserver
	eventPublisher shared.EventPublisher
	tracer         trace.Tracer
}

// NewAllocatorService creates a new AllocatorService
func NewAllocatorService(
	poleRepo network.PoleRepository,
	customerRepo network.CustomerRepository,
	txScope TransactionScope,
	cfg AllocatorConfig,
	logger *zap.Logger,
) *AllocatorService {
	if cfg.DefaultRadius <= 0 {
		cfg.DefaultRadius = DefaultSearchRadius
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllocatorService{
		poleRepo:     poleRepo,
		customerRepo: customerRepo,
		txScope:      txScope,
		cfg:          cfg,
		distance:     cfg.DistanceMode.Func(),
		logger:       logger,
		tracer:       otel.Tracer(tracerName),
	}
}

// SetObserver sets the allocation outcome observer
func (s *AllocatorService) SetObserver(observer AllocationObserver) {
	s.observer = observer
}

// SetTracerProvider replaces the global tracer provider for allocation spans
func (s *AllocatorService) SetTracerProvider(tp trace.TracerProvider) {
	s.tracer = tp.Tracer(tracerName)
}

// SetEventPublisher sets the event publisher
func (s *AllocatorService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// DefaultRadius returns the configured default search radius
func (s *AllocatorService) DefaultRadius() float64 {
	return s.cfg.DefaultRadius
}

// Distance returns the distance between two points with the configured mode
func (s *AllocatorService) Distance(a, b geo.Point) float64 {
	return s.distance(a, b)
}

// FindCandidates returns active poles with spare capacity within radius of
// origin, nearest first. Ties are broken by code, then by id.
func (s *AllocatorService) FindCandidates(ctx context.Context, origin geo.Point, radius float64) ([]Candidate, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateRadius(radius); err != nil {
		return nil, err
	}

	poles, err := s.poleRepo.FindAvailableInBox(ctx, geo.BoxAround(origin, radius))
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(poles))
	for _, p := range poles {
		if !p.IsCandidate() {
			continue
		}
		d := s.distance(origin, p.Location)
		if d > radius {
			continue
		}
		candidates = append(candidates, Candidate{Pole: p, Distance: d})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		if a.Pole.Code != b.Pole.Code {
			return a.Pole.Code < b.Pole.Code
		}
		return a.Pole.ID.String() < b.Pole.ID.String()
	})
	return candidates, nil
}

// CountCandidates returns how many poles could serve origin within the default radius
func (s *AllocatorService) CountCandidates(ctx context.Context, origin geo.Point) (int, error) {
	candidates, err := s.FindCandidates(ctx, origin, s.DefaultRadius())
	if err != nil {
		return 0, err
	}
	return len(candidates), nil
}

// Reserve takes one capacity unit on a pole
func (s *AllocatorService) Reserve(ctx context.Context, poleID uuid.UUID) (bool, error) {
	return s.poleRepo.Reserve(ctx, poleID)
}

// Release returns one capacity unit to a pole
func (s *AllocatorService) Release(ctx context.Context, poleID uuid.UUID) (bool, error) {
	return s.poleRepo.Release(ctx, poleID)
}

// AssignAutomatic assigns the customer to the nearest pole with capacity.
// It returns nil without error when no pole could be reserved; nothing is
// mutated in that case.
func (s *AllocatorService) AssignAutomatic(ctx context.Context, customerID uuid.UUID) (*Assignment, error) {
	ctx, span := s.tracer.Start(ctx, "allocator.AssignAutomatic", trace.WithAttributes(
		attribute.String("customer.id", customerID.String()),
		attribute.Float64("allocator.radius_m", s.cfg.DefaultRadius),
	))
	defer span.End()

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot assign a pole to a customer in status "+string(customer.Status))
	}

	candidates, err := s.FindCandidates(ctx, customer.Location, s.cfg.DefaultRadius)
	if err != nil {
		s.observe(span, OutcomeError, 0, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("allocator.candidates", len(candidates)))
	if len(candidates) == 0 {
		s.logger.Info("no candidate poles in range",
			zap.String("customer_id", customerID.String()),
			zap.Float64("radius_m", s.cfg.DefaultRadius))
		s.observe(span, OutcomeNoCandidates, 0, nil)
		return nil, nil
	}

	var result *Assignment
	attempts := 0
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		poles := repos.PoleRepo()
		customers := repos.CustomerRepo()

		var chosen *Candidate
		for i := range candidates {
			if i >= s.cfg.MaxAttempts {
				break
			}
			attempts++
			ok, err := poles.Reserve(ctx, candidates[i].Pole.ID)
			if err != nil {
				return err
			}
			if ok {
				chosen = &candidates[i]
				break
			}
			s.logger.Info("reserve lost race, trying next candidate",
				zap.String("customer_id", customerID.String()),
				zap.String("pole_code", candidates[i].Pole.Code),
				zap.Int("attempt", attempts))
		}
		if chosen == nil {
			return nil
		}

		switch {
		case customer.HoldsPole(chosen.Pole.ID):
			// Keep exactly one unit for the customer.
			if _, err := poles.Release(ctx, chosen.Pole.ID); err != nil {
				return err
			}
		case customer.HasPole():
			previous := *customer.PoleID
			ok, err := poles.Release(ctx, previous)
			if err != nil {
				return err
			}
			if !ok {
				s.logger.Warn("previous pole already at full capacity",
					zap.String("customer_id", customerID.String()),
					zap.String("pole_id", previous.String()))
			}
		}

		if _, err := customer.AssignPole(chosen.Pole.ID); err != nil {
			return err
		}
		if err := customers.SaveWithLock(ctx, customer); err != nil {
			return err
		}

		pole, err := poles.FindByID(ctx, chosen.Pole.ID)
		if err != nil {
			return err
		}
		result = &Assignment{
			Customer: customer,
			Pole:     pole,
			Distance: chosen.Distance,
			Attempts: attempts,
		}
		return nil
	})
	if err != nil {
		s.logger.Error("pole assignment failed",
			zap.String("customer_id", customerID.String()),
			zap.Error(err))
		s.observe(span, OutcomeError, attempts, err)
		return nil, err
	}

	if result == nil {
		s.logger.Info("all candidate poles exhausted",
			zap.String("customer_id", customerID.String()),
			zap.Int("attempts", attempts))
		s.observe(span, OutcomeExhausted, attempts, nil)
		return nil, nil
	}

	s.logger.Info("pole assigned",
		zap.String("customer_id", customerID.String()),
		zap.String("pole_code", result.Pole.Code),
		zap.Float64("distance_m", result.Distance),
		zap.Int("attempts", attempts))
	span.SetAttributes(attribute.String("pole.code", result.Pole.Code))
	s.observe(span, OutcomeAssigned, attempts, nil)
	s.publish(ctx, customer)
	return result, nil
}

func (s *AllocatorService) observe(span trace.Span, outcome string, attempts int, err error) {
	span.SetAttributes(
		attribute.String("allocator.outcome", outcome),
		attribute.Int("allocator.attempts", attempts),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.observer != nil {
		s.observer.ObserveAllocation(outcome, attempts)
	}
}

func (s *AllocatorService) publish(ctx context.Context, customer *network.Customer) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, customer.GetDomainEvents()...); err != nil {
		s.logger.Warn("failed to publish customer events", zap.Error(err))
	}
	customer.ClearDomainEvents()
}

// ValidateRadius checks 0 < radius <= MaxSearchRadius
func ValidateRadius(radius float64) error {
	if radius <= 0 || radius > MaxSearchRadius {
		return shared.NewDomainError("INVALID_INPUT", "radio_metros must be greater than 0 and at most 5000")
	}
	return nil
}
