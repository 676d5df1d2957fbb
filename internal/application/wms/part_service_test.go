package wms

import (
	"context"
	"testing"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/domain/wms"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPart(t *testing.T, tenantID uuid.UUID, code string, safety int64) *wms.PartMaster {
	t.Helper()
	p, err := wms.NewPartMaster(tenantID, code, wms.PartAttributes{
		PartName:    "Part " + code,
		UnitPrice:   decimal.NewFromInt(12),
		SafetyStock: decimal.NewFromInt(safety),
	})
	require.NoError(t, err)
	return p
}

func TestPartService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("registers part", func(t *testing.T) {
		repo := new(MockPartRepository)
		svc := NewPartService(repo)
		repo.On("ExistsByCode", mock.Anything, tenantID, "BRG-6204").Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*wms.PartMaster")).Return(nil)

		resp, err := svc.Create(ctx, tenantID, uuid.New(), CreatePartRequest{
			PartCode:  "brg-6204",
			PartName:  "Ball bearing",
			UnitPrice: decimal.NewFromFloat(3.5),
		})
		require.NoError(t, err)
		assert.Equal(t, "BRG-6204", resp.PartCode)
		assert.Equal(t, "EA", resp.Unit)
		assert.Equal(t, "active", resp.Status)
	})

	t.Run("duplicate code", func(t *testing.T) {
		repo := new(MockPartRepository)
		svc := NewPartService(repo)
		repo.On("ExistsByCode", mock.Anything, tenantID, "BRG-6204").Return(true, nil)

		_, err := svc.Create(ctx, tenantID, uuid.Nil, CreatePartRequest{PartCode: "BRG-6204", PartName: "Ball bearing"})
		require.Error(t, err)
		assert.True(t, shared.HasCode(err, shared.CodeAlreadyExists))
		assert.Equal(t, "part code BRG-6204 already exists", err.Error())
	})

	t.Run("negative price", func(t *testing.T) {
		svc := NewPartService(new(MockPartRepository))
		_, err := svc.Create(ctx, tenantID, uuid.Nil, CreatePartRequest{PartCode: "X", PartName: "X", UnitPrice: decimal.NewFromInt(-1)})
		assert.True(t, shared.HasCode(err, shared.CodeInvalidInput))
	})
}

func TestPartService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("update keeps unset fields", func(t *testing.T) {
		repo := new(MockPartRepository)
		svc := NewPartService(repo)
		p := newPart(t, tenantID, "P-1", 5)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)
		repo.On("SaveWithLock", mock.Anything, p).Return(nil)

		name := "Renamed"
		status := "discontinued"
		resp, err := svc.Update(ctx, tenantID, p.ID, UpdatePartRequest{PartName: &name, Status: &status})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", resp.PartName)
		assert.Equal(t, "discontinued", resp.Status)
		assert.True(t, resp.UnitPrice.Equal(decimal.NewFromInt(12)))
		assert.True(t, resp.SafetyStock.Equal(decimal.NewFromInt(5)))
	})

	t.Run("soft delete then restore", func(t *testing.T) {
		repo := new(MockPartRepository)
		svc := NewPartService(repo)
		p := newPart(t, tenantID, "P-2", 0)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)
		repo.On("SaveWithLock", mock.Anything, p).Return(nil)

		require.NoError(t, svc.Delete(ctx, tenantID, p.ID, false))
		assert.False(t, p.IsActive)

		resp, err := svc.Restore(ctx, tenantID, p.ID)
		require.NoError(t, err)
		assert.True(t, resp.IsActive)
	})

	t.Run("missing part", func(t *testing.T) {
		repo := new(MockPartRepository)
		svc := NewPartService(repo)
		id := uuid.New()
		repo.On("FindByIDForTenant", mock.Anything, tenantID, id).Return(nil, shared.NewNotFoundError("part"))

		_, err := svc.GetByID(ctx, tenantID, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestPartService_Export(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockPartRepository)
	svc := NewPartService(repo)

	repo.On("FindAllForTenant", mock.Anything, tenantID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.Filters["category"] == "bearing"
	})).Return([]wms.PartMaster{*newPart(t, tenantID, "P-1", 1), *newPart(t, tenantID, "P-2", 2)}, nil)

	data, err := svc.Export(ctx, tenantID, PartListFilter{Category: "bearing"})
	require.NoError(t, err)
	assert.Equal(t, "PK", string(data[:2]))
	repo.AssertNumberOfCalls(t, "FindAllForTenant", 1)
}
