package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/plan"
	"github.com/isp/backend/internal/domain/shared"
	"github.com/isp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentMethodRepository implements PaymentMethodRepository using GORM
type GormPaymentMethodRepository struct {
	db *gorm.DB
}

// NewGormPaymentMethodRepository creates a new GormPaymentMethodRepository
func NewGormPaymentMethodRepository(db *gorm.DB) *GormPaymentMethodRepository {
	return &GormPaymentMethodRepository{db: db}
}

// FindByID finds a payment method by ID
func (r *GormPaymentMethodRepository) FindByID(ctx context.Context, id uuid.UUID) (*plan.PaymentMethod, error) {
	var model models.PaymentMethodModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds payment methods matching the filter
func (r *GormPaymentMethodRepository) FindAll(ctx context.Context, filter shared.Filter) ([]plan.PaymentMethod, error) {
	var rows []models.PaymentMethodModel
	if err := applyCatalogFilter(r.db.WithContext(ctx).Model(&models.PaymentMethodModel{}), filter, true).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]plan.PaymentMethod, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Count counts payment methods matching the filter
func (r *GormPaymentMethodRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := applyCatalogFilter(r.db.WithContext(ctx).Model(&models.PaymentMethodModel{}), filter, false).
		Count(&count).Error
	return count, err
}

// Save creates or updates a payment method
func (r *GormPaymentMethodRepository) Save(ctx context.Context, pm *plan.PaymentMethod) error {
	return r.db.WithContext(ctx).Save(models.PaymentMethodModelFromDomain(pm)).Error
}

// Delete removes a payment method unless a plan still references it
func (r *GormPaymentMethodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteUnreferenced(ctx, r.db, &models.PaymentMethodModel{}, id, "payment_method_id", "Payment method")
}

// GormConnectionTypeRepository implements ConnectionTypeRepository using GORM
type GormConnectionTypeRepository struct {
	db *gorm.DB
}

// NewGormConnectionTypeRepository creates a new GormConnectionTypeRepository
func NewGormConnectionTypeRepository(db *gorm.DB) *GormConnectionTypeRepository {
	return &GormConnectionTypeRepository{db: db}
}

// FindByID finds a connection type by ID
func (r *GormConnectionTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*plan.ConnectionType, error) {
	var model models.ConnectionTypeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds connection types matching the filter
func (r *GormConnectionTypeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]plan.ConnectionType, error) {
	var rows []models.ConnectionTypeModel
	if err := applyCatalogFilter(r.db.WithContext(ctx).Model(&models.ConnectionTypeModel{}), filter, true).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]plan.ConnectionType, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Count counts connection types matching the filter
func (r *GormConnectionTypeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := applyCatalogFilter(r.db.WithContext(ctx).Model(&models.ConnectionTypeModel{}), filter, false).
		Count(&count).Error
	return count, err
}

// Save creates or updates a connection type
func (r *GormConnectionTypeRepository) Save(ctx context.Context, ct *plan.ConnectionType) error {
	return r.db.WithContext(ctx).Save(models.ConnectionTypeModelFromDomain(ct)).Error
}

// Delete removes a connection type unless a plan still references it
func (r *GormConnectionTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteUnreferenced(ctx, r.db, &models.ConnectionTypeModel{}, id, "connection_type_id", "Connection type")
}

// GormPlanRepository implements PlanRepository using GORM
type GormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new GormPlanRepository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// FindByID finds a plan by ID
func (r *GormPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*plan.Plan, error) {
	var model models.PlanModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return model.ToDomain(), nil
}

// FindByCode finds a plan by code
func (r *GormPlanRepository) FindByCode(ctx context.Context, code string) (*plan.Plan, error) {
	var model models.PlanModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&model).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds plans matching the filter
func (r *GormPlanRepository) FindAll(ctx context.Context, filter shared.Filter) ([]plan.Plan, error) {
	var rows []models.PlanModel
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.PlanModel{}), filter)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	field := ValidateSortField(filter.OrderBy, PlanSortFields, "code")
	if err := query.Order(orderClause(field, filter.OrderDir)).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]plan.Plan, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Count counts plans matching the filter
func (r *GormPlanRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.PlanModel{}), filter).
		Count(&count).Error
	return count, err
}

// ExistsByCode checks if a plan code is taken
func (r *GormPlanRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PlanModel{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a plan
func (r *GormPlanRepository) Save(ctx context.Context, p *plan.Plan) error {
	return r.db.WithContext(ctx).Save(models.PlanModelFromDomain(p)).Error
}

// Delete removes a plan unless a subscriber or work request references it
func (r *GormPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ref := range []any{&models.SubscriberModel{}, &models.WorkRequestModel{}} {
			var count int64
			if err := tx.Model(ref).Where("plan_id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return shared.NewDomainError("IN_USE", "Plan is still referenced and cannot be deleted")
			}
		}
		result := tx.Delete(&models.PlanModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormPlanRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(code) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		case "payment_method_id":
			query = query.Where("payment_method_id = ?", value)
		case "connection_type_id":
			query = query.Where("connection_type_id = ?", value)
		}
	}
	return query
}

// applyCatalogFilter filters payment methods and connection types, which share columns
func applyCatalogFilter(query *gorm.DB, filter shared.Filter, paginate bool) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	if active, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", active)
	}
	if !paginate {
		return query
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	field := ValidateSortField(filter.OrderBy, CatalogSortFields, "name")
	return query.Order(orderClause(field, filter.OrderDir))
}

// deleteUnreferenced deletes a catalog row after checking that no plan points at it
func deleteUnreferenced(ctx context.Context, db *gorm.DB, model any, id uuid.UUID, column, label string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.PlanModel{}).Where(column+" = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return shared.NewDomainError("IN_USE", fmt.Sprintf("%s is used by %d plan(s)", label, count))
		}
		result := tx.Delete(model, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// notFoundOr maps gorm.ErrRecordNotFound to shared.ErrNotFound
func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

var (
	_ plan.PaymentMethodRepository  = (*GormPaymentMethodRepository)(nil)
	_ plan.ConnectionTypeRepository = (*GormConnectionTypeRepository)(nil)
	_ plan.PlanRepository           = (*GormPlanRepository)(nil)
)
