package persistence

import (
	"time"

	"github.com/erp/logistics/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func ledgerList(sortFields map[string]bool, searchColumns ...string) listSpec {
	return listSpec{
		searchColumns: searchColumns,
		filters: map[string]string{
			"status":         "status = ?",
			"payment_status": "payment_status = ?",
			"supplier_id":    "supplier_id = ?",
			"customer_id":    "customer_id = ?",
			"due_from":       "due_date >= ?",
			"due_to":         "due_date <= ?",
		},
		sortFields:  sortFields,
		defaultSort: "due_date",
	}
}

// appendPayments inserts payments not stored yet. Payments are never updated.
func appendPayments[P any](tx *gorm.DB, payments []P) error {
	if len(payments) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&payments).Error
}

// overdueScope selects open documents past due with money outstanding
func overdueScope(tenantID uuid.UUID, asOf time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ? AND status = ? AND due_date < ? AND remaining_amount > ?",
			tenantID, finance.DocumentStatusOpen, asOf, decimal.Zero)
	}
}

type statusSummaryRow struct {
	PaymentStatus   string
	Count           int64
	TotalAmount     decimal.Decimal
	PaidAmount      decimal.Decimal
	RemainingAmount decimal.Decimal
}

// summarize groups non-cancelled documents by payment status
func summarize(db *gorm.DB, model any, tenantID uuid.UUID) ([]finance.StatusSummary, error) {
	var rows []statusSummaryRow
	if err := db.Model(model).
		Select("payment_status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total_amount, "+
			"COALESCE(SUM(paid_amount), 0) AS paid_amount, COALESCE(SUM(remaining_amount), 0) AS remaining_amount").
		Where("tenant_id = ? AND status <> ?", tenantID, finance.DocumentStatusCancelled).
		Group("payment_status").
		Order("payment_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]finance.StatusSummary, len(rows))
	for i, r := range rows {
		out[i] = finance.StatusSummary{
			PaymentStatus:   finance.PaymentStatus(r.PaymentStatus),
			Count:           r.Count,
			TotalAmount:     r.TotalAmount,
			PaidAmount:      r.PaidAmount,
			RemainingAmount: r.RemainingAmount,
		}
	}
	return out, nil
}
