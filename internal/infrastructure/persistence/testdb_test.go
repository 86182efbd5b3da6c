package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/geo"
	"github.com/isp/backend/internal/domain/network"
	"github.com/isp/backend/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupSQLiteDB(t *testing.T) *gorm.DB {
	return testutil.NewSQLiteDB(t)
}

func testSquare(t *testing.T, lat, lng, half float64) geo.Polygon {
	t.Helper()
	poly, err := geo.NewPolygon([]geo.Point{
		{Lat: lat - half, Lng: lng - half},
		{Lat: lat - half, Lng: lng + half},
		{Lat: lat + half, Lng: lng + half},
		{Lat: lat + half, Lng: lng - half},
	})
	require.NoError(t, err)
	return poly
}

func seedNeighborhood(t *testing.T, db *gorm.DB, name string, lat, lng float64) *network.Neighborhood {
	t.Helper()
	n, err := network.NewNeighborhood(name, testSquare(t, lat, lng, 0.01))
	require.NoError(t, err)
	require.NoError(t, NewGormNeighborhoodRepository(db).Save(context.Background(), n))
	return n
}

func seedPole(t *testing.T, db *gorm.DB, code string, lat, lng float64, neighborhoodID uuid.UUID, capacity int) *network.Pole {
	t.Helper()
	p, err := network.NewPole(code, geo.Point{Lat: lat, Lng: lng}, neighborhoodID, capacity)
	require.NoError(t, err)
	require.NoError(t, NewGormPoleRepository(db).Save(context.Background(), p))
	return p
}
