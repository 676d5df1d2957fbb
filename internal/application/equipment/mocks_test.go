package equipment

import (
	"context"
	"time"

	"github.com/erp/logistics/internal/domain/equipment"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockEquipmentRepository struct {
	mock.Mock
}

func (m *MockEquipmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*equipment.Equipment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*equipment.Equipment), args.Error(1)
}

func (m *MockEquipmentRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*equipment.Equipment, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*equipment.Equipment), args.Error(1)
}

func (m *MockEquipmentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]equipment.Equipment, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]equipment.Equipment), args.Error(1)
}

func (m *MockEquipmentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEquipmentRepository) FindDue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]equipment.Equipment, error) {
	args := m.Called(ctx, tenantID, asOf)
	return args.Get(0).([]equipment.Equipment), args.Error(1)
}

func (m *MockEquipmentRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockEquipmentRepository) Save(ctx context.Context, e *equipment.Equipment) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEquipmentRepository) SaveWithLock(ctx context.Context, e *equipment.Equipment) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEquipmentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockMaintenanceRepository struct {
	mock.Mock
}

func (m *MockMaintenanceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*equipment.MaintenanceRecord, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*equipment.MaintenanceRecord), args.Error(1)
}

func (m *MockMaintenanceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]equipment.MaintenanceRecord, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]equipment.MaintenanceRecord), args.Error(1)
}

func (m *MockMaintenanceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMaintenanceRepository) CountOpenByEquipment(ctx context.Context, tenantID, equipmentID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, equipmentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMaintenanceRepository) Save(ctx context.Context, r *equipment.MaintenanceRecord) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockMaintenanceRepository) SaveWithLock(ctx context.Context, r *equipment.MaintenanceRecord) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockMaintenanceRepository) SaveWithEquipment(ctx context.Context, r *equipment.MaintenanceRecord, e *equipment.Equipment) error {
	return m.Called(ctx, r, e).Error(0)
}

func (m *MockMaintenanceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) ObjectExists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
