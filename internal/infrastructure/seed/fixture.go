// Package seed loads reference data (neighborhoods, poles and the plan
// catalog) from YAML fixtures.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/isp/backend/internal/domain/geo"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Fixture is the root of a seed file
type Fixture struct {
	Neighborhoods   []NeighborhoodSeed   `yaml:"neighborhoods"`
	Poles           []PoleSeed           `yaml:"poles"`
	PaymentMethods  []PaymentMethodSeed  `yaml:"payment_methods"`
	ConnectionTypes []ConnectionTypeSeed `yaml:"connection_types"`
	Plans           []PlanSeed           `yaml:"plans"`
}

// NeighborhoodSeed is a named polygon given as [lat, lng] pairs
type NeighborhoodSeed struct {
	Name     string       `yaml:"name"`
	Boundary [][2]float64 `yaml:"boundary"`
}

// Polygon converts the boundary into a validated polygon
func (n NeighborhoodSeed) Polygon() (geo.Polygon, error) {
	ring := make([]geo.Point, len(n.Boundary))
	for i, v := range n.Boundary {
		ring[i] = geo.Point{Lat: v[0], Lng: v[1]}
	}
	return geo.NewPolygon(ring)
}

// PoleSeed places a pole inside a named neighborhood
type PoleSeed struct {
	Code         string  `yaml:"code"`
	Neighborhood string  `yaml:"neighborhood"`
	Lat          float64 `yaml:"lat"`
	Lng          float64 `yaml:"lng"`
	Capacity     int     `yaml:"capacity"`
	Notes        string  `yaml:"notes"`
}

// PaymentMethodSeed is a catalog entry
type PaymentMethodSeed struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	Abbreviation string `yaml:"abbreviation"`
}

// ConnectionTypeSeed is a catalog entry
type ConnectionTypeSeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// PlanSeed references its catalog entries by name
type PlanSeed struct {
	Code           string `yaml:"code"`
	Description    string `yaml:"description"`
	PaymentMethod  string `yaml:"payment_method"`
	ConnectionType string `yaml:"connection_type"`
	BaseAmount     string `yaml:"base_amount"`
	BillingPeriod  string `yaml:"billing_period"`
	StartDate      string `yaml:"start_date"` // YYYY-MM-DD
	ItemCode       string `yaml:"item_code"`
}

// Amount parses the base amount
func (p PlanSeed) Amount() (decimal.Decimal, error) {
	return decimal.NewFromString(p.BaseAmount)
}

// Start parses the start date, defaulting to today
func (p PlanSeed) Start() (time.Time, error) {
	if p.StartDate == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	return time.Parse(time.DateOnly, p.StartDate)
}

// Parse decodes a fixture. Unknown keys are rejected.
func Parse(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fx Fixture
	if err := dec.Decode(&fx); err != nil {
		if errors.Is(err, io.EOF) {
			return &fx, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if err := fx.Validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

// LoadFile reads and parses a fixture from disk
func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(data))
}

// Validate checks cross references between sections
func (fx *Fixture) Validate() error {
	var errs []error

	neighborhoods := make(map[string]bool, len(fx.Neighborhoods))
	for _, n := range fx.Neighborhoods {
		if n.Name == "" {
			errs = append(errs, errors.New("neighborhood without name"))
			continue
		}
		if neighborhoods[n.Name] {
			errs = append(errs, fmt.Errorf("neighborhood %q declared twice", n.Name))
		}
		neighborhoods[n.Name] = true
		if _, err := n.Polygon(); err != nil {
			errs = append(errs, fmt.Errorf("neighborhood %q: %w", n.Name, err))
		}
	}

	codes := make(map[string]bool, len(fx.Poles))
	for _, p := range fx.Poles {
		if codes[p.Code] {
			errs = append(errs, fmt.Errorf("pole %q declared twice", p.Code))
		}
		codes[p.Code] = true
		if p.Capacity < 0 {
			errs = append(errs, fmt.Errorf("pole %q: capacity must not be negative", p.Code))
		}
	}

	methods := make(map[string]bool, len(fx.PaymentMethods))
	for _, pm := range fx.PaymentMethods {
		methods[pm.Name] = true
	}
	types := make(map[string]bool, len(fx.ConnectionTypes))
	for _, ct := range fx.ConnectionTypes {
		types[ct.Name] = true
	}
	for _, p := range fx.Plans {
		if !methods[p.PaymentMethod] {
			errs = append(errs, fmt.Errorf("plan %q: unknown payment method %q", p.Code, p.PaymentMethod))
		}
		if !types[p.ConnectionType] {
			errs = append(errs, fmt.Errorf("plan %q: unknown connection type %q", p.Code, p.ConnectionType))
		}
		if _, err := p.Amount(); err != nil {
			errs = append(errs, fmt.Errorf("plan %q: invalid base amount %q", p.Code, p.BaseAmount))
		}
		if _, err := p.Start(); err != nil {
			errs = append(errs, fmt.Errorf("plan %q: invalid start date %q", p.Code, p.StartDate))
		}
	}

	return errors.Join(errs...)
}
