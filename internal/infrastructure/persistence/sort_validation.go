package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

func sortFields(fields ...string) map[string]bool {
	m := map[string]bool{"created_at": true, "updated_at": true}
	for _, f := range fields {
		m[f] = true
	}
	return m
}

var (
	MenuCodeSortFields          = sortFields("code", "name", "section", "sort_order")
	PartnerSortFields           = sortFields("code", "name", "type")
	PurchaseRequestSortFields   = sortFields("request_number", "status", "total_amount", "required_date")
	PurchaseOrderSortFields     = sortFields("po_number", "supplier_name", "status", "total_amount", "expected_date")
	AccountPayableSortFields    = sortFields("ap_number", "supplier_name", "due_date", "total_amount", "remaining_amount", "payment_status")
	AccountReceivableSortFields = sortFields("ar_number", "customer_name", "due_date", "total_amount", "remaining_amount", "payment_status")
	SalesOrderSortFields        = sortFields("so_number", "customer_name", "status", "total_amount", "delivery_date")
	WMSLocationSortFields       = sortFields("location_code", "name", "type", "status")
	PartMasterSortFields        = sortFields("part_code", "part_name", "category", "unit_price")
	RackMasterSortFields        = sortFields("rack_code", "rack_name", "zone", "capacity", "used_capacity")
	RackInventorySortFields     = sortFields("rack_code", "slot", "part_code", "quantity", "inbound_date")
	EquipmentSortFields         = sortFields("equipment_code", "name", "status", "next_maintenance_due")
	MaintenanceSortFields       = sortFields("scheduled_date", "status", "type", "equipment_code")
	ScheduleSortFields          = sortFields("start_date", "end_date", "title", "category")
	UserSortFields              = sortFields("username", "display_name", "role", "last_login_at")
)
