// Package osm imports power poles from OpenStreetMap through the Overpass API.
package osm

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/isp/backend/internal/domain/geo"
	"github.com/isp/backend/internal/domain/network"
	"github.com/isp/backend/internal/infrastructure/config"
	"github.com/serjvanilla/go-overpass"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// CodePrefix marks poles created from OSM nodes
const CodePrefix = "OSM-"

// Querier runs a raw Overpass QL query
type Querier interface {
	Query(query string) (overpass.Result, error)
}

// Report summarizes one neighborhood import
type Report struct {
	Neighborhood string
	Fetched      int
	Outside      int
	Skipped      int
	Created      int
}

// Importer turns OSM power=pole nodes into poles of a neighborhood
type Importer struct {
	client           Querier
	limiter          *rate.Limiter
	neighborhoodRepo network.NeighborhoodRepository
	poleRepo         network.PoleRepository
	capacity         int
	logger           *zap.Logger
}

// NewClient builds an Overpass client against endpoint
func NewClient(endpoint string, timeout time.Duration) Querier {
	client := overpass.NewWithSettings(endpoint, 2, &http.Client{Timeout: timeout})
	return &client
}

// NewImporter creates an importer. requestsPerMinute bounds the Overpass call rate.
func NewImporter(
	client Querier,
	cfg config.OSMConfig,
	neighborhoodRepo network.NeighborhoodRepository,
	poleRepo network.PoleRepository,
	logger *zap.Logger,
) *Importer {
	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 2
	}
	capacity := cfg.DefaultCapacity
	if capacity <= 0 {
		capacity = network.DefaultPoleCapacity
	}
	return &Importer{
		client:           client,
		limiter:          rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		neighborhoodRepo: neighborhoodRepo,
		poleRepo:         poleRepo,
		capacity:         capacity,
		logger:           logger,
	}
}

// PoleQuery builds the Overpass query for poles inside box.
// Overpass expects (south, west, north, east).
func PoleQuery(box geo.BoundingBox) string {
	return fmt.Sprintf(`[out:json][timeout:60];
node["power"="pole"](%f,%f,%f,%f);
out body;`, box.MinLat, box.MinLng, box.MaxLat, box.MaxLng)
}

// ImportNeighborhood fetches the poles in the neighborhood's bounding box and
// creates the ones inside its polygon that are not stored yet.
func (i *Importer) ImportNeighborhood(ctx context.Context, n *network.Neighborhood) (*Report, error) {
	if err := i.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	result, err := i.client.Query(PoleQuery(n.BoundingBox()))
	if err != nil {
		return nil, fmt.Errorf("overpass query failed: %w", err)
	}

	report := &Report{Neighborhood: n.Name, Fetched: len(result.Nodes)}

	ids := make([]int64, 0, len(result.Nodes))
	for id := range result.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })

	for _, id := range ids {
		node := result.Nodes[id]
		point := geo.Point{Lat: node.Lat, Lng: node.Lon}
		if !n.Contains(point) {
			report.Outside++
			continue
		}

		code := fmt.Sprintf("%s%d", CodePrefix, id)
		exists, err := i.poleRepo.ExistsByCode(ctx, code)
		if err != nil {
			return report, err
		}
		if exists {
			report.Skipped++
			continue
		}

		pole, err := network.NewPole(code, point, n.ID, i.capacity)
		if err != nil {
			i.logger.Warn("Skipping OSM node", zap.Int64("node_id", id), zap.Error(err))
			report.Skipped++
			continue
		}
		if ref, ok := node.Tags["ref"]; ok {
			_ = pole.Update("ref "+ref, n.ID)
		}
		if err := i.poleRepo.Save(ctx, pole); err != nil {
			return report, fmt.Errorf("save pole %s: %w", code, err)
		}
		report.Created++
	}

	i.logger.Info("OSM import finished",
		zap.String("neighborhood", report.Neighborhood),
		zap.Int("fetched", report.Fetched),
		zap.Int("outside", report.Outside),
		zap.Int("skipped", report.Skipped),
		zap.Int("created", report.Created))
	return report, nil
}

// ImportByName looks up an active neighborhood and imports its poles
func (i *Importer) ImportByName(ctx context.Context, name string) (*Report, error) {
	n, err := i.neighborhoodRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return i.ImportNeighborhood(ctx, n)
}
