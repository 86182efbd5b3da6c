package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ValidateSortColumn maps a logical sort key to its column name.
// Tables that keep foreign column names use this instead of ValidateSortField.
func ValidateSortColumn(sortField string, columns map[string]string, defaultColumn string) string {
	if column, ok := columns[strings.TrimSpace(sortField)]; ok {
		return column
	}
	return defaultColumn
}

// orderClause builds a safe ORDER BY fragment
func orderClause(field, dir string) string {
	return field + " " + ValidateSortOrder(dir)
}

// NeighborhoodSortFields contains allowed sort fields for neighborhoods
var NeighborhoodSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
}

// PoleSortFields contains allowed sort fields for poles
var PoleSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"code":               true,
	"total_capacity":     true,
	"available_capacity": true,
	"neighborhood_id":    true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"first_name":   true,
	"last_name":    true,
	"status":       true,
	"requested_at": true,
	"installed_at": true,
}

// CatalogSortFields contains allowed sort fields for payment methods and connection types
var CatalogSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
}

// PlanSortFields contains allowed sort fields for plans
var PlanSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"code":        true,
	"base_amount": true,
	"start_date":  true,
}

// SubscriberSortFields contains allowed sort fields for subscribers
var SubscriberSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"first_name":    true,
	"last_name":     true,
	"zone":          true,
	"status":        true,
	"coverage":      true,
	"customer_type": true,
}

// WorkRequestSortFields contains allowed sort fields for work requests
var WorkRequestSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"number":            true,
	"status":            true,
	"requested_on":      true,
	"expected_on":       true,
	"status_changed_on": true,
}

// ContractSortFields contains allowed sort fields for contracts
var ContractSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"contracted_on": true,
	"username":      true,
}

// LegacySortColumns maps logical sort keys to the columns of the local copies
var LegacySortColumns = map[string]string{
	"migrated_at":     "fecha_migracion",
	"contract":        "contrato",
	"client_code":     "cod_cliente",
	"issued_on":       "fecha_emision",
	"paternal_name":   "ape_paterno",
	"document_number": "nro_documento",
}
