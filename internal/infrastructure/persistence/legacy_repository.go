package persistence

import (
	"context"

	"github.com/isp/backend/internal/domain/legacy"
	"github.com/isp/backend/internal/domain/shared"
	"github.com/isp/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Local copies are written only through InsertIfAbsent, which relies on the
// unique constraints of each table plus ON CONFLICT DO NOTHING. Concurrent
// lookups of the same key therefore never duplicate rows.

const insertBatchSize = 200

// GormInvoiceRepository implements InvoiceRepository over cobfactu_local
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindAll lists local invoices
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]legacy.Invoice, error) {
	var rows []models.InvoiceModel
	query := r.filtered(r.db.WithContext(ctx).Model(&models.InvoiceModel{}), filter)
	if err := paginateLegacy(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]legacy.Invoice, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Count counts local invoices
func (r *GormInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(r.db.WithContext(ctx).Model(&models.InvoiceModel{}), filter).Count(&count).Error
	return count, err
}

// FindByContract returns the local invoices of a contract, newest first
func (r *GormInvoiceRepository) FindByContract(ctx context.Context, contract string) ([]legacy.Invoice, error) {
	var rows []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("contrato = ?", contract).
		Order("fecha_emision DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]legacy.Invoice, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// InsertIfAbsent inserts invoices whose (factura_interna, contrato) is new
func (r *GormInvoiceRepository) InsertIfAbsent(ctx context.Context, invoices []legacy.Invoice) (int64, error) {
	if len(invoices) == 0 {
		return 0, nil
	}
	rows := make([]*models.InvoiceModel, len(invoices))
	for i := range invoices {
		rows[i] = models.InvoiceModelFromDomain(&invoices[i])
	}
	return insertIgnoringConflicts(ctx, r.db, rows)
}

// SummarizeDebt counts and sums the unpaid invoices of a contract
func (r *GormInvoiceRepository) SummarizeDebt(ctx context.Context, contract string) (legacy.DebtSummary, error) {
	var result struct {
		InvoiceCount int64
		TotalAmount  decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Select("COUNT(*) AS invoice_count, COALESCE(SUM(monto_total), 0) AS total_amount").
		Where("contrato = ? AND estado IN ?", contract, legacy.DebtStatuses).
		Scan(&result).Error; err != nil {
		return legacy.DebtSummary{}, err
	}
	return legacy.DebtSummary{InvoiceCount: result.InvoiceCount, TotalAmount: result.TotalAmount}, nil
}

func (r *GormInvoiceRepository) filtered(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if contract, ok := filter.Filters["contract"]; ok {
		query = query.Where("contrato = ?", contract)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("estado = ?", status)
	}
	return query
}

// GormServiceContractRepository implements ServiceContractRepository over servicios_cliente_local
type GormServiceContractRepository struct {
	db *gorm.DB
}

// NewGormServiceContractRepository creates a new GormServiceContractRepository
func NewGormServiceContractRepository(db *gorm.DB) *GormServiceContractRepository {
	return &GormServiceContractRepository{db: db}
}

// FindAll lists local services
func (r *GormServiceContractRepository) FindAll(ctx context.Context, filter shared.Filter) ([]legacy.ServiceContract, error) {
	var rows []models.ServiceContractModel
	query := r.filtered(r.db.WithContext(ctx).Model(&models.ServiceContractModel{}), filter)
	if err := paginateLegacy(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	return servicesToDomain(rows), nil
}

// Count counts local services
func (r *GormServiceContractRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(r.db.WithContext(ctx).Model(&models.ServiceContractModel{}), filter).Count(&count).Error
	return count, err
}

// FindByClient returns the local services of a client ordered by contract
func (r *GormServiceContractRepository) FindByClient(ctx context.Context, clientCode string) ([]legacy.ServiceContract, error) {
	var rows []models.ServiceContractModel
	if err := r.db.WithContext(ctx).
		Where("cod_cliente = ?", clientCode).
		Order("contrato ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return servicesToDomain(rows), nil
}

// InsertIfAbsent inserts services whose (contrato, cod_cliente) is new
func (r *GormServiceContractRepository) InsertIfAbsent(ctx context.Context, services []legacy.ServiceContract) (int64, error) {
	if len(services) == 0 {
		return 0, nil
	}
	rows := make([]*models.ServiceContractModel, len(services))
	for i := range services {
		rows[i] = models.ServiceContractModelFromDomain(&services[i])
	}
	return insertIgnoringConflicts(ctx, r.db, rows)
}

func (r *GormServiceContractRepository) filtered(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if code, ok := filter.Filters["client_code"]; ok {
		query = query.Where("cod_cliente = ?", code)
	}
	if code, ok := filter.Filters["service_code"]; ok {
		query = query.Where("cod_servicio = ?", code)
	}
	return query
}

func servicesToDomain(rows []models.ServiceContractModel) []legacy.ServiceContract {
	out := make([]legacy.ServiceContract, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

// GormLegacyClientRepository implements ClientRepository over clientes_local
type GormLegacyClientRepository struct {
	db *gorm.DB
}

// NewGormLegacyClientRepository creates a new GormLegacyClientRepository
func NewGormLegacyClientRepository(db *gorm.DB) *GormLegacyClientRepository {
	return &GormLegacyClientRepository{db: db}
}

// FindAll lists local clients
func (r *GormLegacyClientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]legacy.LegacyClient, error) {
	var rows []models.LegacyClientModel
	query := paginateLegacy(r.db.WithContext(ctx).Model(&models.LegacyClientModel{}), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return clientsToDomain(rows), nil
}

// Count counts local clients
func (r *GormLegacyClientRepository) Count(ctx context.Context, _ shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LegacyClientModel{}).Count(&count).Error
	return count, err
}

// FindByDocument returns the first local client with the document number
func (r *GormLegacyClientRepository) FindByDocument(ctx context.Context, documentNumber string) (*legacy.LegacyClient, error) {
	var model models.LegacyClientModel
	if err := r.db.WithContext(ctx).
		Where("nro_documento = ?", documentNumber).
		Order("cod_cliente ASC").
		First(&model).Error; err != nil {
		return nil, notFoundOr(err)
	}
	client := model.ToDomain()
	return &client, nil
}

// ExistsByDocument checks whether a local client has the document number
func (r *GormLegacyClientRepository) ExistsByDocument(ctx context.Context, documentNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LegacyClientModel{}).
		Where("nro_documento = ?", documentNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SearchByName matches case-insensitively over nombre_pila, nombres and both surnames
func (r *GormLegacyClientRepository) SearchByName(ctx context.Context, name string, filter shared.Filter) ([]legacy.LegacyClient, error) {
	pattern := likePattern(name)
	var rows []models.LegacyClientModel
	query := r.db.WithContext(ctx).
		Model(&models.LegacyClientModel{}).
		Where("LOWER(nombre_pila) LIKE ? OR LOWER(nombres) LIKE ? OR LOWER(ape_paterno) LIKE ? OR LOWER(ape_materno) LIKE ?",
			pattern, pattern, pattern, pattern)
	if err := paginateLegacy(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	return clientsToDomain(rows), nil
}

// InsertIfAbsent inserts clients whose cod_cliente is new
func (r *GormLegacyClientRepository) InsertIfAbsent(ctx context.Context, clients []legacy.LegacyClient) (int64, error) {
	if len(clients) == 0 {
		return 0, nil
	}
	rows := make([]*models.LegacyClientModel, len(clients))
	for i := range clients {
		rows[i] = models.LegacyClientModelFromDomain(&clients[i])
	}
	return insertIgnoringConflicts(ctx, r.db, rows)
}

func clientsToDomain(rows []models.LegacyClientModel) []legacy.LegacyClient {
	out := make([]legacy.LegacyClient, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

// insertIgnoringConflicts batch-inserts rows and reports how many were new
func insertIgnoringConflicts[T any](ctx context.Context, db *gorm.DB, rows []*T) (int64, error) {
	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, insertBatchSize)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func paginateLegacy(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	column := ValidateSortColumn(filter.OrderBy, LegacySortColumns, "fecha_migracion")
	return query.Order(orderClause(column, filter.OrderDir))
}

var (
	_ legacy.InvoiceRepository         = (*GormInvoiceRepository)(nil)
	_ legacy.ServiceContractRepository = (*GormServiceContractRepository)(nil)
	_ legacy.ClientRepository          = (*GormLegacyClientRepository)(nil)
)
