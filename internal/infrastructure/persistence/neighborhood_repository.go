package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/geo"
	"github.com/isp/backend/internal/domain/network"
	"github.com/isp/backend/internal/domain/shared"
	"github.com/isp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormNeighborhoodRepository implements NeighborhoodRepository using GORM
type GormNeighborhoodRepository struct {
	db *gorm.DB
}

// NewGormNeighborhoodRepository creates a new GormNeighborhoodRepository
func NewGormNeighborhoodRepository(db *gorm.DB) *GormNeighborhoodRepository {
	return &GormNeighborhoodRepository{db: db}
}

// FindByID finds a neighborhood by its ID
func (r *GormNeighborhoodRepository) FindByID(ctx context.Context, id uuid.UUID) (*network.Neighborhood, error) {
	var model models.NeighborhoodModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByName finds a neighborhood by its exact name
func (r *GormNeighborhoodRepository) FindByName(ctx context.Context, name string) (*network.Neighborhood, error) {
	var model models.NeighborhoodModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAll finds active neighborhoods matching the filter
func (r *GormNeighborhoodRepository) FindAll(ctx context.Context, filter shared.Filter) ([]network.Neighborhood, error) {
	var rows []models.NeighborhoodModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.NeighborhoodModel{}), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return neighborhoodsToDomain(rows)
}

// Count counts active neighborhoods matching the filter
func (r *GormNeighborhoodRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.NeighborhoodModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindBoxContaining returns active neighborhoods whose bounding box contains p, ordered by name
func (r *GormNeighborhoodRepository) FindBoxContaining(ctx context.Context, p geo.Point) ([]network.Neighborhood, error) {
	var rows []models.NeighborhoodModel
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("min_lat <= ? AND max_lat >= ? AND min_lng <= ? AND max_lng >= ?", p.Lat, p.Lat, p.Lng, p.Lng).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return neighborhoodsToDomain(rows)
}

// CountPoles returns the number of active poles in a neighborhood and how many have spare capacity
func (r *GormNeighborhoodRepository) CountPoles(ctx context.Context, id uuid.UUID) (int64, int64, error) {
	var result struct {
		Total     int64
		Available int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.PoleModel{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN available_capacity > 0 THEN 1 ELSE 0 END), 0) AS available").
		Where("neighborhood_id = ? AND active = ?", id, true).
		Scan(&result).Error; err != nil {
		return 0, 0, err
	}
	return result.Total, result.Available, nil
}

// Save creates or updates a neighborhood
func (r *GormNeighborhoodRepository) Save(ctx context.Context, n *network.Neighborhood) error {
	model, err := models.NeighborhoodModelFromDomain(n)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(model).Error
}

// ExistsByName checks if a neighborhood name is taken
func (r *GormNeighborhoodRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.NeighborhoodModel{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormNeighborhoodRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	field := ValidateSortField(filter.OrderBy, NeighborhoodSortFields, "name")
	return query.Order(orderClause(field, filter.OrderDir))
}

func (r *GormNeighborhoodRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = query.Where("active = ?", true)
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	return query
}

func neighborhoodsToDomain(rows []models.NeighborhoodModel) ([]network.Neighborhood, error) {
	out := make([]network.Neighborhood, 0, len(rows))
	for i := range rows {
		n, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, nil
}

// likePattern builds a case-insensitive substring pattern for LOWER(col) LIKE ?
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

var _ network.NeighborhoodRepository = (*GormNeighborhoodRepository)(nil)
