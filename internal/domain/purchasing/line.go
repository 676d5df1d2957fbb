// Package purchasing models the purchase request to purchase order workflow.
package purchasing

import (
	"strings"
	"time"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineInput describes a requested or ordered part
type LineInput struct {
	PartID    *uuid.UUID
	PartCode  string
	PartName  string
	Quantity  decimal.Decimal
	Unit      string
	UnitPrice decimal.Decimal
	Remark    string
}

func (in LineInput) validate() error {
	if strings.TrimSpace(in.PartName) == "" {
		return shared.NewValidationError("part name is required")
	}
	if !in.Quantity.IsPositive() {
		return shared.NewValidationError("quantity of %s must be positive", in.PartName)
	}
	if in.UnitPrice.IsNegative() {
		return shared.NewValidationError("unit price of %s cannot be negative", in.PartName)
	}
	return nil
}

func (in LineInput) unit() string {
	if u := strings.TrimSpace(in.Unit); u != "" {
		return u
	}
	return "EA"
}

// ItemLine holds the fields request and order lines share
type ItemLine struct {
	ID        uuid.UUID
	PartID    *uuid.UUID
	PartCode  string
	PartName  string
	Unit      string
	UnitPrice decimal.Decimal
	Remark    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func newItemLine(in LineInput) ItemLine {
	now := time.Now()
	return ItemLine{
		ID:        uuid.New(),
		PartID:    in.PartID,
		PartCode:  strings.TrimSpace(in.PartCode),
		PartName:  strings.TrimSpace(in.PartName),
		Unit:      in.unit(),
		UnitPrice: in.UnitPrice,
		Remark:    in.Remark,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func sumAmounts[T any](items []T, amount func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(amount(it))
	}
	return total
}
