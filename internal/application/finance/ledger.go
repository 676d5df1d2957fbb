package finance

import (
	"github.com/erp/logistics/internal/domain/finance"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// exportPageLimit bounds an export to 100 pages of 100 rows
const exportPageLimit = 100

func ledgerFilter(filter LedgerListFilter, partnerKey string) shared.Filter {
	f := filter.Filter()
	if filter.OrderBy == "" {
		f.OrderBy = "due_date"
		f.OrderDir = "asc"
	}
	if filter.Status != "" {
		f = f.With("status", filter.Status)
	}
	if filter.PaymentStatus != "" {
		f = f.With("payment_status", filter.PaymentStatus)
	}
	if filter.PartnerID != nil {
		f = f.With(partnerKey, *filter.PartnerID)
	}
	if filter.DueFrom != nil {
		f = f.With("due_from", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		f = f.With("due_to", *filter.DueTo)
	}
	return f
}

// forEachPage walks all pages of f with the largest page size
func forEachPage(f shared.Filter, fetch func(shared.Filter) (int, error)) error {
	f.PageSize = 100
	for page := 1; page <= exportPageLimit; page++ {
		f.Page = page
		n, err := fetch(f)
		if err != nil {
			return err
		}
		if n < f.PageSize {
			return nil
		}
	}
	return nil
}

func buildSummary(buckets []finance.StatusSummary, overdue []*finance.Ledger) *SummaryResponse {
	resp := &SummaryResponse{
		TotalAmount:     decimal.Zero,
		PaidAmount:      decimal.Zero,
		RemainingAmount: decimal.Zero,
		OverdueAmount:   decimal.Zero,
		ByStatus:        make([]StatusSummaryResponse, 0, len(buckets)),
	}
	for _, b := range buckets {
		resp.Count += b.Count
		resp.TotalAmount = resp.TotalAmount.Add(b.TotalAmount)
		resp.PaidAmount = resp.PaidAmount.Add(b.PaidAmount)
		resp.RemainingAmount = resp.RemainingAmount.Add(b.RemainingAmount)
		resp.ByStatus = append(resp.ByStatus, StatusSummaryResponse{
			PaymentStatus:   string(b.PaymentStatus),
			Count:           b.Count,
			TotalAmount:     b.TotalAmount,
			PaidAmount:      b.PaidAmount,
			RemainingAmount: b.RemainingAmount,
		})
	}
	for _, l := range overdue {
		resp.OverdueCount++
		resp.OverdueAmount = resp.OverdueAmount.Add(l.RemainingAmount)
	}
	return resp
}
