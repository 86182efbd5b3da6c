package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/network"
	"github.com/isp/backend/internal/domain/shared"
	"github.com/isp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*network.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]network.Customer, error) {
	var rows []models.CustomerModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CustomerModel{}), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return customersToDomain(rows), nil
}

// Count counts customers matching the filter
func (r *GormCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.CustomerModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByPole finds the customers holding a unit on a pole
func (r *GormCustomerRepository) FindByPole(ctx context.Context, poleID uuid.UUID) ([]network.Customer, error) {
	var rows []models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("pole_id = ?", poleID).
		Order("requested_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return customersToDomain(rows), nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *network.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock updates a customer only if the stored version is the one it
// was loaded with (customer.Version - 1). All columns are written so that
// cleared fields such as pole_id reach the row.
func (r *GormCustomerRepository) SaveWithLock(ctx context.Context, customer *network.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	result := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Where("id = ? AND version = ?", customer.ID, customer.Version-1).
		Select("*").
		Omit("id", "created_at").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The customer record has been modified by another transaction")
	}
	return nil
}

// Delete deletes a customer
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CustomerModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByStatus returns the number of customers per status. Statuses with
// no customers are reported as zero.
func (r *GormCustomerRepository) CountByStatus(ctx context.Context) (map[network.CustomerStatus]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[network.CustomerStatus]int64, len(network.AllCustomerStatuses))
	for _, s := range network.AllCustomerStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[network.CustomerStatus(row.Status)] = row.Total
	}
	return counts, nil
}

func (r *GormCustomerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	field := ValidateSortField(filter.OrderBy, CustomerSortFields, "requested_at")
	return query.Order(orderClause(field, filter.OrderDir))
}

func (r *GormCustomerRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR phone LIKE ? OR LOWER(address) LIKE ?",
			pattern, pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "neighborhood_id":
			query = query.Where("neighborhood_id = ?", value)
		case "pole_id":
			query = query.Where("pole_id = ?", value)
		}
	}
	return query
}

func customersToDomain(rows []models.CustomerModel) []network.Customer {
	customers := make([]network.Customer, len(rows))
	for i := range rows {
		customers[i] = *rows[i].ToDomain()
	}
	return customers
}

var _ network.CustomerRepository = (*GormCustomerRepository)(nil)
