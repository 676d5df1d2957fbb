package models

import (
	"time"

	"github.com/erp/logistics/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerModel holds the settlement columns shared by AP and AR
type LedgerModel struct {
	TotalAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaidAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RemainingAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status          string          `gorm:"type:varchar(20);not null;index"`
	PaymentStatus   string          `gorm:"type:varchar(20);not null;index"`
	DueDate         time.Time       `gorm:"not null;index"`
	PaidAt          *time.Time
	CancelledAt     *time.Time
	CancelReason    string `gorm:"type:varchar(500)"`
}

func ledgerModelFromDomain(l finance.Ledger) LedgerModel {
	return LedgerModel{
		TotalAmount:     l.TotalAmount,
		PaidAmount:      l.PaidAmount,
		RemainingAmount: l.RemainingAmount,
		Status:          string(l.Status),
		PaymentStatus:   string(l.PaymentStatus),
		DueDate:         l.DueDate,
		PaidAt:          l.PaidAt,
		CancelledAt:     l.CancelledAt,
		CancelReason:    l.CancelReason,
	}
}

func (m LedgerModel) toDomain(payments []PaymentModel) finance.Ledger {
	l := finance.Ledger{
		TotalAmount:     m.TotalAmount,
		PaidAmount:      m.PaidAmount,
		RemainingAmount: m.RemainingAmount,
		Status:          finance.DocumentStatus(m.Status),
		PaymentStatus:   finance.PaymentStatus(m.PaymentStatus),
		DueDate:         m.DueDate,
		PaidAt:          m.PaidAt,
		CancelledAt:     m.CancelledAt,
		CancelReason:    m.CancelReason,
		Payments:        make([]finance.Payment, len(payments)),
	}
	for i, p := range payments {
		l.Payments[i] = finance.Payment{
			ID:          p.ID,
			Amount:      p.Amount,
			PaymentDate: p.PaymentDate,
			Method:      finance.PaymentMethod(p.Method),
			Reference:   p.Reference,
			Note:        p.Note,
			CreatedBy:   p.CreatedBy,
			CreatedAt:   p.CreatedAt,
		}
	}
	return l
}

// PaymentModel is one settlement row. Payable and receivable payments live in
// separate tables that share this layout.
type PaymentModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DocumentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaymentDate time.Time       `gorm:"not null"`
	Method      string          `gorm:"type:varchar(20);not null"`
	Reference   string          `gorm:"type:varchar(100)"`
	Note        string          `gorm:"type:varchar(500)"`
	CreatedBy   *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt   time.Time       `gorm:"not null"`
}

func paymentModelsFromDomain(documentID uuid.UUID, payments []finance.Payment) []PaymentModel {
	out := make([]PaymentModel, len(payments))
	for i, p := range payments {
		out[i] = PaymentModel{
			ID:          p.ID,
			DocumentID:  documentID,
			Amount:      p.Amount,
			PaymentDate: p.PaymentDate,
			Method:      string(p.Method),
			Reference:   p.Reference,
			Note:        p.Note,
			CreatedBy:   p.CreatedBy,
			CreatedAt:   p.CreatedAt,
		}
	}
	return out
}

// PayablePaymentModel is a payment against an account payable
type PayablePaymentModel struct {
	PaymentModel
}

// TableName returns the table name for GORM
func (PayablePaymentModel) TableName() string {
	return "account_payable_payments"
}

// ReceivablePaymentModel is a collection against an account receivable
type ReceivablePaymentModel struct {
	PaymentModel
}

// TableName returns the table name for GORM
func (ReceivablePaymentModel) TableName() string {
	return "account_receivable_payments"
}

// AccountPayableModel is the persistence model for payables
type AccountPayableModel struct {
	TenantAggregateModel
	LedgerModel
	APNumber        string                `gorm:"column:ap_number;type:varchar(50);not null;uniqueIndex:idx_account_payables_tenant_number,priority:2"`
	PurchaseOrderID *uuid.UUID            `gorm:"type:uuid;index"`
	PONumber        string                `gorm:"column:po_number;type:varchar(50)"`
	SupplierID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	SupplierName    string                `gorm:"type:varchar(200);not null"`
	LocationID      *uuid.UUID            `gorm:"type:uuid"`
	Remark          string                `gorm:"type:text"`
	Payments        []PayablePaymentModel `gorm:"foreignKey:DocumentID;references:ID"`
}

// TableName returns the table name for GORM
func (AccountPayableModel) TableName() string {
	return "account_payables"
}

// ToDomain converts the persistence model to a domain AccountPayable
func (m *AccountPayableModel) ToDomain() *finance.AccountPayable {
	payments := make([]PaymentModel, len(m.Payments))
	for i, p := range m.Payments {
		payments[i] = p.PaymentModel
	}
	return &finance.AccountPayable{
		TenantAggregateRoot: m.ToDomainRoot(),
		Ledger:              m.LedgerModel.toDomain(payments),
		APNumber:            m.APNumber,
		PurchaseOrderID:     m.PurchaseOrderID,
		PONumber:            m.PONumber,
		SupplierID:          m.SupplierID,
		SupplierName:        m.SupplierName,
		LocationID:          m.LocationID,
		Remark:              m.Remark,
	}
}

// AccountPayableModelFromDomain creates a persistence model from a domain AccountPayable
func AccountPayableModelFromDomain(ap *finance.AccountPayable) *AccountPayableModel {
	m := &AccountPayableModel{
		LedgerModel:     ledgerModelFromDomain(ap.Ledger),
		APNumber:        ap.APNumber,
		PurchaseOrderID: ap.PurchaseOrderID,
		PONumber:        ap.PONumber,
		SupplierID:      ap.SupplierID,
		SupplierName:    ap.SupplierName,
		LocationID:      ap.LocationID,
		Remark:          ap.Remark,
	}
	m.FromDomainTenantAggregateRoot(ap.TenantAggregateRoot)
	for _, p := range paymentModelsFromDomain(ap.ID, ap.Payments) {
		m.Payments = append(m.Payments, PayablePaymentModel{PaymentModel: p})
	}
	return m
}

// AccountReceivableModel is the persistence model for receivables
type AccountReceivableModel struct {
	TenantAggregateModel
	LedgerModel
	ARNumber     string                   `gorm:"column:ar_number;type:varchar(50);not null;uniqueIndex:idx_account_receivables_tenant_number,priority:2"`
	SalesOrderID *uuid.UUID               `gorm:"type:uuid;index"`
	SONumber     string                   `gorm:"column:so_number;type:varchar(50)"`
	CustomerID   uuid.UUID                `gorm:"type:uuid;not null;index"`
	CustomerName string                   `gorm:"type:varchar(200);not null"`
	LocationID   *uuid.UUID               `gorm:"type:uuid"`
	Remark       string                   `gorm:"type:text"`
	Payments     []ReceivablePaymentModel `gorm:"foreignKey:DocumentID;references:ID"`
}

// TableName returns the table name for GORM
func (AccountReceivableModel) TableName() string {
	return "account_receivables"
}

// ToDomain converts the persistence model to a domain AccountReceivable
func (m *AccountReceivableModel) ToDomain() *finance.AccountReceivable {
	payments := make([]PaymentModel, len(m.Payments))
	for i, p := range m.Payments {
		payments[i] = p.PaymentModel
	}
	return &finance.AccountReceivable{
		TenantAggregateRoot: m.ToDomainRoot(),
		Ledger:              m.LedgerModel.toDomain(payments),
		ARNumber:            m.ARNumber,
		SalesOrderID:        m.SalesOrderID,
		SONumber:            m.SONumber,
		CustomerID:          m.CustomerID,
		CustomerName:        m.CustomerName,
		LocationID:          m.LocationID,
		Remark:              m.Remark,
	}
}

// AccountReceivableModelFromDomain creates a persistence model from a domain AccountReceivable
func AccountReceivableModelFromDomain(ar *finance.AccountReceivable) *AccountReceivableModel {
	m := &AccountReceivableModel{
		LedgerModel:  ledgerModelFromDomain(ar.Ledger),
		ARNumber:     ar.ARNumber,
		SalesOrderID: ar.SalesOrderID,
		SONumber:     ar.SONumber,
		CustomerID:   ar.CustomerID,
		CustomerName: ar.CustomerName,
		LocationID:   ar.LocationID,
		Remark:       ar.Remark,
	}
	m.FromDomainTenantAggregateRoot(ar.TenantAggregateRoot)
	for _, p := range paymentModelsFromDomain(ar.ID, ar.Payments) {
		m.Payments = append(m.Payments, ReceivablePaymentModel{PaymentModel: p})
	}
	return m
}
