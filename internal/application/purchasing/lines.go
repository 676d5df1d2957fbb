package purchasing

import (
	"context"
	"strings"

	"github.com/erp/logistics/internal/domain/purchasing"
	"github.com/erp/logistics/internal/domain/wms"
	"github.com/google/uuid"
)

// resolveLines converts request lines to domain input, filling blanks of
// lines that reference a part master
func resolveLines(ctx context.Context, parts wms.PartMasterRepository, tenantID uuid.UUID, items []LineItemInput) ([]purchasing.LineInput, error) {
	out := make([]purchasing.LineInput, len(items))
	for i, it := range items {
		in := purchasing.LineInput{
			PartID:    it.PartID,
			PartCode:  it.PartCode,
			PartName:  it.PartName,
			Quantity:  it.Quantity,
			Unit:      it.Unit,
			UnitPrice: it.UnitPrice,
			Remark:    it.Remark,
		}
		if it.PartID != nil && parts != nil {
			part, err := parts.FindByIDForTenant(ctx, tenantID, *it.PartID)
			if err != nil {
				return nil, err
			}
			if in.PartCode == "" {
				in.PartCode = part.PartCode
			}
			if strings.TrimSpace(in.PartName) == "" {
				in.PartName = part.PartName
			}
			if in.Unit == "" {
				in.Unit = part.Unit
			}
			if in.UnitPrice.IsZero() {
				in.UnitPrice = part.UnitPrice
			}
		}
		out[i] = in
	}
	return out, nil
}
