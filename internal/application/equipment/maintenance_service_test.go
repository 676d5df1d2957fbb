package equipment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/erp/logistics/internal/domain/equipment"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type maintenanceFixture struct {
	ctx      context.Context
	tenantID uuid.UUID
	repo     *MockMaintenanceRepository
	eqRepo   *MockEquipmentRepository
	storage  *MockObjectStorage
	svc      *MaintenanceService
	eq       *equipment.Equipment
	record   *equipment.MaintenanceRecord
}

func newMaintenanceFixture(t *testing.T) *maintenanceFixture {
	t.Helper()
	f := &maintenanceFixture{
		ctx:      context.Background(),
		tenantID: uuid.New(),
		repo:     new(MockMaintenanceRepository),
		eqRepo:   new(MockEquipmentRepository),
		storage:  new(MockObjectStorage),
	}
	f.svc = NewMaintenanceService(f.repo, f.eqRepo, f.storage)
	f.eq = newEquipment(t, f.tenantID, "PRS-01", 30)
	rec, err := equipment.NewMaintenanceRecord(f.tenantID, f.eq, equipment.MaintenanceTypePreventive,
		time.Now(), "kim", "quarterly check")
	require.NoError(t, err)
	f.record = rec
	f.repo.On("FindByIDForTenant", mock.Anything, f.tenantID, rec.ID).Return(rec, nil)
	f.eqRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, f.eq.ID).Return(f.eq, nil)
	return f
}

func TestMaintenanceService_Lifecycle(t *testing.T) {
	f := newMaintenanceFixture(t)
	f.repo.On("SaveWithEquipment", mock.Anything, f.record, f.eq).Return(nil)

	resp, err := f.svc.Start(f.ctx, f.tenantID, f.record.ID)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", resp.Status)
	assert.Equal(t, equipment.StatusUnderMaintenance, f.eq.Status)

	resp, err = f.svc.Complete(f.ctx, f.tenantID, f.record.ID, CompleteMaintenanceRequest{
		Resolution: "replaced seals", Cost: decimal.NewFromInt(120),
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, equipment.StatusOperational, f.eq.Status)
	require.NotNil(t, f.eq.LastMaintainedAt)
	require.NotNil(t, f.eq.NextMaintenanceDue)
	assert.True(t, f.eq.NextMaintenanceDue.After(time.Now().AddDate(0, 0, 29)))
	f.repo.AssertNumberOfCalls(t, "SaveWithEquipment", 2)

	_, err = f.svc.Cancel(f.ctx, f.tenantID, f.record.ID)
	assert.True(t, shared.HasCode(err, shared.CodeInvalidState))
}

func TestMaintenanceService_CancelRunningReleasesEquipment(t *testing.T) {
	f := newMaintenanceFixture(t)
	f.repo.On("SaveWithEquipment", mock.Anything, f.record, f.eq).Return(nil)
	_, err := f.svc.Start(f.ctx, f.tenantID, f.record.ID)
	require.NoError(t, err)

	resp, err := f.svc.Cancel(f.ctx, f.tenantID, f.record.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, equipment.StatusOperational, f.eq.Status)
}

func TestMaintenanceService_CancelScheduled(t *testing.T) {
	f := newMaintenanceFixture(t)
	f.repo.On("SaveWithLock", mock.Anything, f.record).Return(nil)

	resp, err := f.svc.Cancel(f.ctx, f.tenantID, f.record.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	f.repo.AssertNotCalled(t, "SaveWithEquipment", mock.Anything, mock.Anything, mock.Anything)
}

func TestMaintenanceService_Attachments(t *testing.T) {
	t.Run("upload then register", func(t *testing.T) {
		f := newMaintenanceFixture(t)
		expires := time.Now().Add(15 * time.Minute)
		f.storage.On("GenerateUploadURL", mock.Anything, mock.AnythingOfType("string"), "application/pdf", 15*time.Minute).
			Return("https://s3.local/upload", expires, nil)

		up, err := f.svc.CreateUploadURL(f.ctx, f.tenantID, f.record.ID, UploadURLRequest{
			FileName: "../../report final.pdf", ContentType: "application/pdf",
		})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(up.Key, f.record.AttachmentPrefix()))
		assert.True(t, strings.HasSuffix(up.Key, "_report_final.pdf"))

		f.storage.On("ObjectExists", mock.Anything, up.Key).Return(true, nil)
		f.storage.On("GenerateDownloadURL", mock.Anything, up.Key, time.Hour).Return("https://s3.local/get", expires, nil)
		f.repo.On("SaveWithLock", mock.Anything, f.record).Return(nil)

		resp, err := f.svc.RegisterAttachment(f.ctx, f.tenantID, f.record.ID, RegisterAttachmentRequest{Key: up.Key})
		require.NoError(t, err)
		require.Len(t, resp.Attachments, 1)
		assert.Equal(t, "report_final.pdf", resp.Attachments[0].FileName)
		assert.Equal(t, "https://s3.local/get", resp.Attachments[0].DownloadURL)
	})

	t.Run("rejects disallowed content type", func(t *testing.T) {
		f := newMaintenanceFixture(t)
		_, err := f.svc.CreateUploadURL(f.ctx, f.tenantID, f.record.ID, UploadURLRequest{
			FileName: "logo.svg", ContentType: "image/svg+xml",
		})
		assert.True(t, shared.HasCode(err, shared.CodeInvalidInput))
	})

	t.Run("rejects foreign key", func(t *testing.T) {
		f := newMaintenanceFixture(t)
		_, err := f.svc.RegisterAttachment(f.ctx, f.tenantID, f.record.ID, RegisterAttachmentRequest{Key: "maintenance/other/file.pdf"})
		assert.True(t, shared.HasCode(err, shared.CodeInvalidInput))
		f.storage.AssertNotCalled(t, "ObjectExists", mock.Anything, mock.Anything)
	})

	t.Run("object not uploaded", func(t *testing.T) {
		f := newMaintenanceFixture(t)
		key := f.record.AttachmentPrefix() + "abcd1234_x.pdf"
		f.storage.On("ObjectExists", mock.Anything, key).Return(false, nil)

		_, err := f.svc.RegisterAttachment(f.ctx, f.tenantID, f.record.ID, RegisterAttachmentRequest{Key: key})
		assert.True(t, shared.HasCode(err, shared.CodeInvalidInput))
	})

	t.Run("storage outage is unavailable", func(t *testing.T) {
		f := newMaintenanceFixture(t)
		f.storage.On("GenerateUploadURL", mock.Anything, mock.Anything, "image/png", mock.Anything).
			Return("", time.Time{}, errors.New("dial tcp: connection refused"))

		_, err := f.svc.CreateUploadURL(f.ctx, f.tenantID, f.record.ID, UploadURLRequest{FileName: "a.png", ContentType: "image/png"})
		assert.ErrorIs(t, err, shared.ErrServiceUnavailable)
	})

	t.Run("remove deletes the object", func(t *testing.T) {
		f := newMaintenanceFixture(t)
		key := f.record.AttachmentPrefix() + "abcd1234_x.pdf"
		require.NoError(t, f.record.AddAttachment(key))
		f.repo.On("SaveWithLock", mock.Anything, f.record).Return(nil)
		f.storage.On("DeleteObject", mock.Anything, key).Return(nil)

		resp, err := f.svc.RemoveAttachment(f.ctx, f.tenantID, f.record.ID, key)
		require.NoError(t, err)
		assert.Empty(t, resp.Attachments)
		f.storage.AssertExpectations(t)

		_, err = f.svc.RemoveAttachment(f.ctx, f.tenantID, f.record.ID, key)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
