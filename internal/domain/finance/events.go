package finance

import (
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeAccountPayableOpened       = "finance.account_payable.opened"
	EventTypeAccountPayablePaid         = "finance.account_payable.paid"
	EventTypeAccountReceivableOpened    = "finance.account_receivable.opened"
	EventTypeAccountReceivableCollected = "finance.account_receivable.collected"
)

// SettlementEvent is raised when a payable or receivable is opened or settled
type SettlementEvent struct {
	shared.BaseDomainEvent
	DocumentNumber  string          `json:"document_number"`
	Amount          decimal.Decimal `json:"amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
}

func NewSettlementEvent(eventType, aggType string, aggID, tenantID uuid.UUID, number string, l *Ledger, amount decimal.Decimal) *SettlementEvent {
	return &SettlementEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, aggType, aggID, tenantID),
		DocumentNumber:  number,
		Amount:          amount,
		PaidAmount:      l.PaidAmount,
		RemainingAmount: l.RemainingAmount,
		PaymentStatus:   l.PaymentStatus,
	}
}
