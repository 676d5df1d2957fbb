package finance

import (
	"context"
	"time"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatusSummary aggregates a document list per payment status
type StatusSummary struct {
	PaymentStatus   PaymentStatus
	Count           int64
	TotalAmount     decimal.Decimal
	PaidAmount      decimal.Decimal
	RemainingAmount decimal.Decimal
}

// AccountPayableRepository defines persistence for payables
type AccountPayableRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*AccountPayable, error)
	FindByPurchaseOrder(ctx context.Context, tenantID, purchaseOrderID uuid.UUID) (*AccountPayable, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]AccountPayable, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]AccountPayable, error)
	SummarizeByStatus(ctx context.Context, tenantID uuid.UUID) ([]StatusSummary, error)
	Save(ctx context.Context, payable *AccountPayable) error
	SaveWithLock(ctx context.Context, payable *AccountPayable) error
	GenerateAPNumber(ctx context.Context, tenantID uuid.UUID, day time.Time) (string, error)
}

// AccountReceivableRepository defines persistence for receivables
type AccountReceivableRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*AccountReceivable, error)
	FindBySalesOrder(ctx context.Context, tenantID, salesOrderID uuid.UUID) (*AccountReceivable, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]AccountReceivable, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]AccountReceivable, error)
	SummarizeByStatus(ctx context.Context, tenantID uuid.UUID) ([]StatusSummary, error)
	Save(ctx context.Context, receivable *AccountReceivable) error
	SaveWithLock(ctx context.Context, receivable *AccountReceivable) error
	GenerateARNumber(ctx context.Context, tenantID uuid.UUID, day time.Time) (string, error)
}
