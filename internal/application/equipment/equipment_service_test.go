package equipment

import (
	"context"
	"testing"
	"time"

	"github.com/erp/logistics/internal/domain/equipment"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newEquipment(t *testing.T, tenantID uuid.UUID, code string, interval int) *equipment.Equipment {
	t.Helper()
	installed := time.Now().AddDate(0, -2, 0)
	e, err := equipment.NewEquipment(tenantID, code, equipment.Profile{
		Name:                    "Press " + code,
		InstalledAt:             &installed,
		MaintenanceIntervalDays: interval,
	})
	require.NoError(t, err)
	return e
}

func TestEquipmentService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("registers equipment", func(t *testing.T) {
		repo := new(MockEquipmentRepository)
		svc := NewEquipmentService(repo, new(MockMaintenanceRepository))
		repo.On("ExistsByCode", mock.Anything, tenantID, "PRS-01").Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*equipment.Equipment")).Return(nil)

		resp, err := svc.Create(ctx, tenantID, uuid.New(), CreateEquipmentRequest{
			EquipmentCode: "prs-01", Name: "Hydraulic press", MaintenanceIntervalDays: 30,
		})
		require.NoError(t, err)
		assert.Equal(t, "PRS-01", resp.EquipmentCode)
		assert.Equal(t, "operational", resp.Status)
		require.NotNil(t, resp.NextMaintenanceDue)
		assert.False(t, resp.IsDue)
	})

	t.Run("duplicate code", func(t *testing.T) {
		repo := new(MockEquipmentRepository)
		svc := NewEquipmentService(repo, new(MockMaintenanceRepository))
		repo.On("ExistsByCode", mock.Anything, tenantID, "PRS-01").Return(true, nil)

		_, err := svc.Create(ctx, tenantID, uuid.Nil, CreateEquipmentRequest{EquipmentCode: "PRS-01", Name: "Press"})
		require.Error(t, err)
		assert.Equal(t, "equipment code PRS-01 already exists", err.Error())
	})
}

func TestEquipmentService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("hard delete refused with open jobs", func(t *testing.T) {
		repo := new(MockEquipmentRepository)
		jobs := new(MockMaintenanceRepository)
		svc := NewEquipmentService(repo, jobs)
		e := newEquipment(t, tenantID, "PRS-01", 30)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, e.ID).Return(e, nil)
		jobs.On("CountOpenByEquipment", mock.Anything, tenantID, e.ID).Return(int64(1), nil)

		err := svc.Delete(ctx, tenantID, e.ID, true)
		assert.True(t, shared.HasCode(err, shared.CodeInvalidState))
		repo.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("soft delete", func(t *testing.T) {
		repo := new(MockEquipmentRepository)
		svc := NewEquipmentService(repo, new(MockMaintenanceRepository))
		e := newEquipment(t, tenantID, "PRS-02", 30)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, e.ID).Return(e, nil)
		repo.On("SaveWithLock", mock.Anything, e).Return(nil)

		require.NoError(t, svc.Delete(ctx, tenantID, e.ID, false))
		assert.False(t, e.IsActive)
	})
}

func TestEquipmentService_DueAndRetire(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockEquipmentRepository)
	svc := NewEquipmentService(repo, new(MockMaintenanceRepository))

	overdue := newEquipment(t, tenantID, "PRS-03", 7)
	asOf := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.On("FindDue", mock.Anything, tenantID, asOf).Return([]equipment.Equipment{*overdue}, nil)

	due, err := svc.Due(ctx, tenantID, asOf)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.True(t, due[0].IsDue)

	repo.On("FindByIDForTenant", mock.Anything, tenantID, overdue.ID).Return(overdue, nil)
	repo.On("SaveWithLock", mock.Anything, overdue).Return(nil)
	resp, err := svc.Retire(ctx, tenantID, overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, "retired", resp.Status)
	assert.Nil(t, resp.NextMaintenanceDue)
}
