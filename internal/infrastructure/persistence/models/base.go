package models

import (
	"time"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TenantAggregateModel carries identity, optimistic lock version, tenant and creator.
type TenantAggregateModel struct {
	BaseModel
	Version   int        `gorm:"not null"`
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
}

// FromDomainTenantAggregateRoot populates the model from a domain root
func (m *TenantAggregateModel) FromDomainTenantAggregateRoot(t shared.TenantAggregateRoot) {
	m.ID = t.ID
	m.CreatedAt = t.CreatedAt
	m.UpdatedAt = t.UpdatedAt
	m.Version = t.Version
	m.TenantID = t.TenantID
	m.CreatedBy = t.CreatedBy
}

// ToDomainRoot rebuilds the domain root. The loaded version is recorded as
// persisted so SaveWithLock can compare against it.
func (m *TenantAggregateModel) ToDomainRoot() shared.TenantAggregateRoot {
	root := shared.TenantAggregateRoot{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		TenantID:  m.TenantID,
		CreatedBy: m.CreatedBy,
	}
	root.MarkPersisted()
	return root
}

// ActivatableModel is embedded by soft-deletable master tables.
// No column default: GORM would skip an explicit false on insert.
type ActivatableModel struct {
	IsActive bool `gorm:"not null;index"`
}
