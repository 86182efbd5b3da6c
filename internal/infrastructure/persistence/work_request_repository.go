package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/shared"
	"github.com/isp/backend/internal/domain/workorder"
	"github.com/isp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWorkRequestRepository implements WorkRequestRepository using GORM
type GormWorkRequestRepository struct {
	db *gorm.DB
}

// NewGormWorkRequestRepository creates a new GormWorkRequestRepository
func NewGormWorkRequestRepository(db *gorm.DB) *GormWorkRequestRepository {
	return &GormWorkRequestRepository{db: db}
}

// FindByID loads a request with its follow-ups ordered by sequence
func (r *GormWorkRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*workorder.WorkRequest, error) {
	var model models.WorkRequestModel
	if err := r.db.WithContext(ctx).
		Preload("FollowUps", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds requests matching the filter. Follow-ups are not loaded.
func (r *GormWorkRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]workorder.WorkRequest, error) {
	var rows []models.WorkRequestModel
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.WorkRequestModel{}), filter)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	field := ValidateSortField(filter.OrderBy, WorkRequestSortFields, "number")
	if err := query.Order(orderClause(field, filter.OrderDir)).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]workorder.WorkRequest, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Count counts requests matching the filter
func (r *GormWorkRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.WorkRequestModel{}), filter).
		Count(&count).Error
	return count, err
}

// Save writes the request and upserts its follow-ups in one transaction.
// A request without a number gets MAX(number)+1; the unique index on
// number rejects a concurrent duplicate.
func (r *GormWorkRequestRepository) Save(ctx context.Context, req *workorder.WorkRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.Number == 0 {
			var last int
			if err := tx.Model(&models.WorkRequestModel{}).
				Select("COALESCE(MAX(number), 0)").
				Scan(&last).Error; err != nil {
				return err
			}
			req.Number = last + 1
		}

		if err := tx.Omit(clause.Associations).Save(models.WorkRequestModelFromDomain(req)).Error; err != nil {
			return err
		}
		if len(req.FollowUps) == 0 {
			return nil
		}

		followUps := make([]*models.FollowUpModel, len(req.FollowUps))
		for i := range req.FollowUps {
			followUps[i] = models.FollowUpModelFromDomain(&req.FollowUps[i])
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&followUps).Error
	})
}

// Delete removes a request and its follow-ups
func (r *GormWorkRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("request_id = ?", id).Delete(&models.FollowUpModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.WorkRequestModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindFollowUps returns the follow-ups of a request ordered by sequence
func (r *GormWorkRequestRepository) FindFollowUps(ctx context.Context, requestID uuid.UUID) ([]workorder.FollowUp, error) {
	var rows []models.FollowUpModel
	if err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("sequence ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]workorder.FollowUp, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *GormWorkRequestRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(work_type) LIKE ? OR LOWER(notes) LIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "plan_id":
			query = query.Where("plan_id = ?", value)
		case "work_type":
			query = query.Where("work_type = ?", value)
		case "requested_from":
			query = query.Where("requested_on >= ?", value)
		case "requested_to":
			query = query.Where("requested_on <= ?", value)
		}
	}
	return query
}

// GormContractRepository implements ContractRepository using GORM
type GormContractRepository struct {
	db *gorm.DB
}

// NewGormContractRepository creates a new GormContractRepository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// FindByID finds a contract by ID
func (r *GormContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*workorder.Contract, error) {
	var model models.ContractModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return model.ToDomain(), nil
}

// FindByRequest finds the contract created for a request
func (r *GormContractRepository) FindByRequest(ctx context.Context, requestID uuid.UUID) (*workorder.Contract, error) {
	var model models.ContractModel
	if err := r.db.WithContext(ctx).First(&model, "request_id = ?", requestID).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds contracts matching the filter
func (r *GormContractRepository) FindAll(ctx context.Context, filter shared.Filter) ([]workorder.Contract, error) {
	var rows []models.ContractModel
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ContractModel{}), filter)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	field := ValidateSortField(filter.OrderBy, ContractSortFields, "contracted_on")
	if err := query.Order(orderClause(field, filter.OrderDir)).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]workorder.Contract, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Count counts contracts matching the filter
func (r *GormContractRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ContractModel{}), filter).
		Count(&count).Error
	return count, err
}

// Save creates or updates a contract
func (r *GormContractRepository) Save(ctx context.Context, c *workorder.Contract) error {
	return r.db.WithContext(ctx).Save(models.ContractModelFromDomain(c)).Error
}

func (r *GormContractRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(username) LIKE ?", likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "contract_status":
			query = query.Where("contract_status = ?", value)
		case "service_status":
			query = query.Where("service_status = ?", value)
		}
	}
	return query
}

var (
	_ workorder.WorkRequestRepository = (*GormWorkRequestRepository)(nil)
	_ workorder.ContractRepository    = (*GormContractRepository)(nil)
)
