package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/isp/backend/internal/domain/geo"
	"github.com/isp/backend/internal/domain/network"
	"github.com/isp/backend/internal/domain/plan"
	"github.com/isp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Repositories groups the stores a fixture writes to
type Repositories struct {
	Neighborhoods   network.NeighborhoodRepository
	Poles           network.PoleRepository
	PaymentMethods  plan.PaymentMethodRepository
	ConnectionTypes plan.ConnectionTypeRepository
	Plans           plan.PlanRepository
}

// Report counts created and already-present rows per section
type Report struct {
	NeighborhoodsCreated, NeighborhoodsSkipped     int
	PolesCreated, PolesSkipped                     int
	PaymentMethodsCreated, PaymentMethodsSkipped   int
	ConnectionTypesCreated, ConnectionTypesSkipped int
	PlansCreated, PlansSkipped                     int
}

// Seeder applies fixtures. Rows are matched by neighborhood name, pole code,
// catalog name and plan code, so applying a fixture twice creates nothing new.
type Seeder struct {
	repos  Repositories
	logger *zap.Logger
}

// NewSeeder creates a seeder
func NewSeeder(repos Repositories, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{repos: repos, logger: logger}
}

// Apply writes fx in dependency order
func (s *Seeder) Apply(ctx context.Context, fx *Fixture) (*Report, error) {
	report := &Report{}

	if err := s.seedNeighborhoods(ctx, fx.Neighborhoods, report); err != nil {
		return report, err
	}
	if err := s.seedPoles(ctx, fx.Poles, report); err != nil {
		return report, err
	}
	methods, err := s.seedPaymentMethods(ctx, fx.PaymentMethods, report)
	if err != nil {
		return report, err
	}
	types, err := s.seedConnectionTypes(ctx, fx.ConnectionTypes, report)
	if err != nil {
		return report, err
	}
	if err := s.seedPlans(ctx, fx.Plans, methods, types, report); err != nil {
		return report, err
	}

	s.logger.Info("Seed applied",
		zap.Int("neighborhoods", report.NeighborhoodsCreated),
		zap.Int("poles", report.PolesCreated),
		zap.Int("payment_methods", report.PaymentMethodsCreated),
		zap.Int("connection_types", report.ConnectionTypesCreated),
		zap.Int("plans", report.PlansCreated))
	return report, nil
}

func (s *Seeder) seedNeighborhoods(ctx context.Context, seeds []NeighborhoodSeed, report *Report) error {
	for _, ns := range seeds {
		exists, err := s.repos.Neighborhoods.ExistsByName(ctx, ns.Name)
		if err != nil {
			return err
		}
		if exists {
			report.NeighborhoodsSkipped++
			continue
		}
		boundary, err := ns.Polygon()
		if err != nil {
			return fmt.Errorf("neighborhood %q: %w", ns.Name, err)
		}
		n, err := network.NewNeighborhood(ns.Name, boundary)
		if err != nil {
			return fmt.Errorf("neighborhood %q: %w", ns.Name, err)
		}
		if err := s.repos.Neighborhoods.Save(ctx, n); err != nil {
			return err
		}
		report.NeighborhoodsCreated++
	}
	return nil
}

func (s *Seeder) seedPoles(ctx context.Context, seeds []PoleSeed, report *Report) error {
	byName := make(map[string]*network.Neighborhood)

	for _, ps := range seeds {
		exists, err := s.repos.Poles.ExistsByCode(ctx, strings.ToUpper(strings.TrimSpace(ps.Code)))
		if err != nil {
			return err
		}
		if exists {
			report.PolesSkipped++
			continue
		}

		n, ok := byName[ps.Neighborhood]
		if !ok {
			n, err = s.repos.Neighborhoods.FindByName(ctx, ps.Neighborhood)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return fmt.Errorf("pole %q: neighborhood %q does not exist", ps.Code, ps.Neighborhood)
				}
				return err
			}
			byName[ps.Neighborhood] = n
		}

		location := geo.Point{Lat: ps.Lat, Lng: ps.Lng}
		if !n.Contains(location) {
			s.logger.Warn("Seed pole lies outside its neighborhood",
				zap.String("code", ps.Code), zap.String("neighborhood", n.Name))
		}

		pole, err := network.NewPole(ps.Code, location, n.ID, ps.Capacity)
		if err != nil {
			return fmt.Errorf("pole %q: %w", ps.Code, err)
		}
		if ps.Notes != "" {
			if err := pole.Update(ps.Notes, n.ID); err != nil {
				return err
			}
		}
		if err := s.repos.Poles.Save(ctx, pole); err != nil {
			return err
		}
		report.PolesCreated++
	}
	return nil
}

func (s *Seeder) seedPaymentMethods(ctx context.Context, seeds []PaymentMethodSeed, report *Report) (map[string]*plan.PaymentMethod, error) {
	existing, err := s.repos.PaymentMethods.FindAll(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*plan.PaymentMethod, len(existing))
	for i := range existing {
		byName[strings.ToLower(existing[i].Name)] = &existing[i]
	}

	for _, ps := range seeds {
		key := strings.ToLower(strings.TrimSpace(ps.Name))
		if _, ok := byName[key]; ok {
			report.PaymentMethodsSkipped++
			continue
		}
		pm, err := plan.NewPaymentMethod(ps.Name, ps.Description, ps.Abbreviation)
		if err != nil {
			return nil, fmt.Errorf("payment method %q: %w", ps.Name, err)
		}
		if err := s.repos.PaymentMethods.Save(ctx, pm); err != nil {
			return nil, err
		}
		byName[key] = pm
		report.PaymentMethodsCreated++
	}
	return byName, nil
}

func (s *Seeder) seedConnectionTypes(ctx context.Context, seeds []ConnectionTypeSeed, report *Report) (map[string]*plan.ConnectionType, error) {
	existing, err := s.repos.ConnectionTypes.FindAll(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*plan.ConnectionType, len(existing))
	for i := range existing {
		byName[strings.ToLower(existing[i].Name)] = &existing[i]
	}

	for _, cs := range seeds {
		key := strings.ToLower(strings.TrimSpace(cs.Name))
		if _, ok := byName[key]; ok {
			report.ConnectionTypesSkipped++
			continue
		}
		ct, err := plan.NewConnectionType(cs.Name, cs.Description)
		if err != nil {
			return nil, fmt.Errorf("connection type %q: %w", cs.Name, err)
		}
		if err := s.repos.ConnectionTypes.Save(ctx, ct); err != nil {
			return nil, err
		}
		byName[key] = ct
		report.ConnectionTypesCreated++
	}
	return byName, nil
}

func (s *Seeder) seedPlans(
	ctx context.Context,
	seeds []PlanSeed,
	methods map[string]*plan.PaymentMethod,
	types map[string]*plan.ConnectionType,
	report *Report,
) error {
	for _, ps := range seeds {
		exists, err := s.repos.Plans.ExistsByCode(ctx, ps.Code)
		if err != nil {
			return err
		}
		if exists {
			report.PlansSkipped++
			continue
		}

		pm, ok := methods[strings.ToLower(strings.TrimSpace(ps.PaymentMethod))]
		if !ok {
			return fmt.Errorf("plan %q: unknown payment method %q", ps.Code, ps.PaymentMethod)
		}
		ct, ok := types[strings.ToLower(strings.TrimSpace(ps.ConnectionType))]
		if !ok {
			return fmt.Errorf("plan %q: unknown connection type %q", ps.Code, ps.ConnectionType)
		}
		amount, err := ps.Amount()
		if err != nil {
			return fmt.Errorf("plan %q: %w", ps.Code, err)
		}
		start, err := ps.Start()
		if err != nil {
			return fmt.Errorf("plan %q: %w", ps.Code, err)
		}

		p, err := plan.NewPlan(ps.Code, plan.PlanTerms{
			Description:      ps.Description,
			PaymentMethodID:  pm.ID,
			ConnectionTypeID: ct.ID,
			BaseAmount:       amount,
			BillingPeriod:    ps.BillingPeriod,
			StartDate:        start,
			ItemCode:         ps.ItemCode,
		})
		if err != nil {
			return fmt.Errorf("plan %q: %w", ps.Code, err)
		}
		if err := s.repos.Plans.Save(ctx, p); err != nil {
			return err
		}
		report.PlansCreated++
	}
	return nil
}
