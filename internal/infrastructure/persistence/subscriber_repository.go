package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/plan"
	"github.com/isp/backend/internal/domain/shared"
	"github.com/isp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSubscriberRepository implements SubscriberRepository using GORM
type GormSubscriberRepository struct {
	db *gorm.DB
}

// NewGormSubscriberRepository creates a new GormSubscriberRepository
func NewGormSubscriberRepository(db *gorm.DB) *GormSubscriberRepository {
	return &GormSubscriberRepository{db: db}
}

// FindByID finds a subscriber by ID
func (r *GormSubscriberRepository) FindByID(ctx context.Context, id uuid.UUID) (*plan.Subscriber, error) {
	var model models.SubscriberModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds subscribers matching the filter
func (r *GormSubscriberRepository) FindAll(ctx context.Context, filter shared.Filter) ([]plan.Subscriber, error) {
	var rows []models.SubscriberModel
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.SubscriberModel{}), filter)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	field := ValidateSortField(filter.OrderBy, SubscriberSortFields, "created_at")
	if err := query.Order(orderClause(field, filter.OrderDir)).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]plan.Subscriber, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Count counts subscribers matching the filter
func (r *GormSubscriberRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.SubscriberModel{}), filter).
		Count(&count).Error
	return count, err
}

// ExistsByDocument checks whether another subscriber already uses the document number
func (r *GormSubscriberRepository) ExistsByDocument(ctx context.Context, documentNumber string, excludeID uuid.UUID) (bool, error) {
	if documentNumber == "" {
		return false, nil
	}
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.SubscriberModel{}).
		Where("document_number = ?", documentNumber)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a subscriber
func (r *GormSubscriberRepository) Save(ctx context.Context, s *plan.Subscriber) error {
	return r.db.WithContext(ctx).Save(models.SubscriberModelFromDomain(s)).Error
}

// Delete removes a subscriber
func (r *GormSubscriberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SubscriberModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByStatusAndCoverage groups subscribers by status, split by coverage
func (r *GormSubscriberRepository) CountByStatusAndCoverage(ctx context.Context) ([]plan.StatusCount, error) {
	var rows []struct {
		Status          string
		Total           int64
		WithCoverage    int64
		WithoutCoverage int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.SubscriberModel{}).
		Select(`status,
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN coverage = ? THEN 1 ELSE 0 END), 0) AS with_coverage,
			COALESCE(SUM(CASE WHEN coverage = ? THEN 1 ELSE 0 END), 0) AS without_coverage`,
			string(plan.CoverageCovered), string(plan.CoverageNotCovered)).
		Group("status").
		Order("status ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]plan.StatusCount, len(rows))
	for i, row := range rows {
		out[i] = plan.StatusCount{
			Status:          plan.SubscriberStatus(row.Status),
			Total:           row.Total,
			WithCoverage:    row.WithCoverage,
			WithoutCoverage: row.WithoutCoverage,
		}
	}
	return out, nil
}

// CountByType groups subscribers by customer type
func (r *GormSubscriberRepository) CountByType(ctx context.Context) ([]plan.KeyCount, error) {
	return r.groupCount(ctx, "customer_type", 0)
}

// CountByCoverage groups subscribers by coverage
func (r *GormSubscriberRepository) CountByCoverage(ctx context.Context) ([]plan.KeyCount, error) {
	return r.groupCount(ctx, "coverage", 0)
}

// TopZones returns the zones with most subscribers, largest first
func (r *GormSubscriberRepository) TopZones(ctx context.Context, limit int) ([]plan.KeyCount, error) {
	return r.groupCount(ctx, "zone", limit)
}

// groupCount counts rows per value of column. With a limit the result is
// ordered by count; otherwise by key. Empty keys are skipped.
func (r *GormSubscriberRepository) groupCount(ctx context.Context, column string, limit int) ([]plan.KeyCount, error) {
	var rows []struct {
		GroupKey string
		Total    int64
	}
	query := r.db.WithContext(ctx).
		Model(&models.SubscriberModel{}).
		Select(column+" AS group_key, COUNT(*) AS total").
		Where(column + " <> ''").
		Group(column)
	if limit > 0 {
		query = query.Order("total DESC").Order(column + " ASC").Limit(limit)
	} else {
		query = query.Order(column + " ASC")
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]plan.KeyCount, len(rows))
	for i, row := range rows {
		out[i] = plan.KeyCount{Key: row.GroupKey, Total: row.Total}
	}
	return out, nil
}

func (r *GormSubscriberRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR document_number LIKE ? OR LOWER(business_name) LIKE ?",
			pattern, pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "coverage":
			query = query.Where("coverage = ?", value)
		case "customer_type":
			query = query.Where("customer_type = ?", value)
		case "zone":
			query = query.Where("zone = ?", value)
		case "plan_id":
			query = query.Where("plan_id = ?", value)
		}
	}
	return query
}

var _ plan.SubscriberRepository = (*GormSubscriberRepository)(nil)
