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

// TenantSortFields contains allowed sort fields for tenants
var TenantSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"status":     true,
}

// SecurityLogSortFields contains allowed sort fields for security audit logs
var SecurityLogSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"timestamp":   true,
	"tenant_code": true,
	"event":       true,
	"email":       true,
	"risk_score":  true,
	"blocked":     true,
}

// BaBsFormSortFields contains allowed sort fields for Ba-Bs forms
var BaBsFormSortFields = map[string]bool{
	"id":                         true,
	"created_at":                 true,
	"updated_at":                 true,
	"form_number":                true,
	"form_type":                  true,
	"status":                     true,
	"period_year":                true,
	"period_month":               true,
	"filing_deadline":            true,
	"total_record_count":         true,
	"total_amount_including_vat": true,
}

// PurchaseRequestSortFields contains allowed sort fields for purchase requests
var PurchaseRequestSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"request_number":  true,
	"requester":       true,
	"department":      true,
	"status":          true,
	"urgency_score":   true,
	"needed_by":       true,
	"estimated_total": true,
}

// SalesReturnSortFields contains allowed sort fields for sales returns
var SalesReturnSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"return_number": true,
	"customer_id":   true,
	"customer_name": true,
	"status":        true,
	"total_refund":  true,
}

// ProductVariantSortFields contains allowed sort fields for product variants
var ProductVariantSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"sku":            true,
	"barcode":        true,
	"name":           true,
	"price":          true,
	"stock_quantity": true,
	"is_active":      true,
	"product_id":     true,
}
