package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/geo"
	"github.com/isp/backend/internal/domain/network"
	"github.com/isp/backend/internal/domain/shared"
	"github.com/isp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPoleRepository implements PoleRepository using GORM.
// Capacity is only ever changed by Reserve and Release, each a single
// conditional UPDATE whose RowsAffected decides the outcome.
type GormPoleRepository struct {
	db *gorm.DB
}

// NewGormPoleRepository creates a new GormPoleRepository
func NewGormPoleRepository(db *gorm.DB) *GormPoleRepository {
	return &GormPoleRepository{db: db}
}

// FindByID finds a pole by its ID
func (r *GormPoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*network.Pole, error) {
	var model models.PoleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a pole by its code
func (r *GormPoleRepository) FindByCode(ctx context.Context, code string) (*network.Pole, error) {
	var model models.PoleModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds poles matching the filter
func (r *GormPoleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]network.Pole, error) {
	var rows []models.PoleModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PoleModel{}), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return polesToDomain(rows), nil
}

// Count counts poles matching the filter
func (r *GormPoleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.PoleModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByNeighborhood finds the active poles of a neighborhood
func (r *GormPoleRepository) FindByNeighborhood(ctx context.Context, neighborhoodID uuid.UUID, filter shared.Filter) ([]network.Pole, error) {
	var rows []models.PoleModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.PoleModel{}).
			Where("neighborhood_id = ? AND active = ?", neighborhoodID, true),
		filter,
	)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return polesToDomain(rows), nil
}

// FindAvailableInBox returns active poles with spare capacity inside box.
// Exact distance filtering is done by the caller.
func (r *GormPoleRepository) FindAvailableInBox(ctx context.Context, box geo.BoundingBox) ([]network.Pole, error) {
	var rows []models.PoleModel
	if err := r.db.WithContext(ctx).
		Where("active = ? AND available_capacity > 0", true).
		Where("latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat).
		Where("longitude BETWEEN ? AND ?", box.MinLng, box.MaxLng).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return polesToDomain(rows), nil
}

// Save creates a pole, or updates its descriptive columns. Capacity columns
// are only written on create.
func (r *GormPoleRepository) Save(ctx context.Context, pole *network.Pole) error {
	model := models.PoleModelFromDomain(pole)
	result := r.db.WithContext(ctx).
		Model(&models.PoleModel{}).
		Where("id = ?", pole.ID).
		Updates(map[string]any{
			"code":            model.Code,
			"latitude":        model.Latitude,
			"longitude":       model.Longitude,
			"neighborhood_id": model.NeighborhoodID,
			"active":          model.Active,
			"notes":           model.Notes,
			"version":         gorm.Expr("version + 1"),
			"updated_at":      model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// ExistsByCode checks if a pole code is taken
func (r *GormPoleRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PoleModel{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Reserve takes one capacity unit if any is left
func (r *GormPoleRepository) Reserve(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PoleModel{}).
		Where("id = ? AND available_capacity > 0", id).
		Updates(map[string]any{
			"available_capacity": gorm.Expr("available_capacity - 1"),
			"version":            gorm.Expr("version + 1"),
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Release returns one capacity unit unless the pole is already full
func (r *GormPoleRepository) Release(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PoleModel{}).
		Where("id = ? AND available_capacity < total_capacity", id).
		Updates(map[string]any{
			"available_capacity": gorm.Expr("available_capacity + 1"),
			"version":            gorm.Expr("version + 1"),
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *GormPoleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	field := ValidateSortField(filter.OrderBy, PoleSortFields, "code")
	dir := filter.OrderDir
	if filter.OrderBy == "" && dir == "" {
		dir = "asc"
	}
	return query.Order(orderClause(field, dir))
}

func (r *GormPoleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(code) LIKE ?", likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		case "neighborhood_id":
			query = query.Where("neighborhood_id = ?", value)
		case "available":
			if value == true {
				query = query.Where("available_capacity > 0")
			} else {
				query = query.Where("available_capacity = 0")
			}
		}
	}
	return query
}

func polesToDomain(rows []models.PoleModel) []network.Pole {
	poles := make([]network.Pole, len(rows))
	for i := range rows {
		poles[i] = *rows[i].ToDomain()
	}
	return poles
}

var _ network.PoleRepository = (*GormPoleRepository)(nil)
