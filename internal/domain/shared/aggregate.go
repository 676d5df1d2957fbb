package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides identity and timestamps
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e *BaseEntity) GetID() uuid.UUID        { return e.ID }
func (e *BaseEntity) GetCreatedAt() time.Time { return e.CreatedAt }
func (e *BaseEntity) GetUpdatedAt() time.Time { return e.UpdatedAt }

// Touch refreshes UpdatedAt
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// NewBaseEntity creates a new base entity with a generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot carries the optimistic lock version and pending domain events
type BaseAggregateRoot struct {
	BaseEntity
	Version          int
	persistedVersion int
	domainEvents     []DomainEvent
}

// NewBaseAggregateRoot creates a new base aggregate root at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

// IncrementVersion bumps the version and refreshes UpdatedAt.
// Every state-changing aggregate method calls it exactly once.
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
	a.Touch()
}

// PersistedVersion is the version stored in the database when the aggregate
// was loaded or last saved. Zero means it was never stored.
func (a *BaseAggregateRoot) PersistedVersion() int { return a.persistedVersion }

// MarkPersisted records that the current version is now stored
func (a *BaseAggregateRoot) MarkPersisted() { a.persistedVersion = a.Version }

func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent { return a.domainEvents }

func (a *BaseAggregateRoot) ClearDomainEvents() { a.domainEvents = nil }

// TenantAggregateRoot extends BaseAggregateRoot with tenant scoping
type TenantAggregateRoot struct {
	BaseAggregateRoot
	TenantID  uuid.UUID
	CreatedBy *uuid.UUID
}

// NewTenantAggregateRoot creates a new tenant-scoped aggregate root
func NewTenantAggregateRoot(tenantID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		TenantID:          tenantID,
	}
}

// SetCreatedBy records the user who created the aggregate
func (t *TenantAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	if userID == uuid.Nil {
		return
	}
	t.CreatedBy = &userID
}

// Activatable is embedded by master records that are soft deleted.
// Soft delete flips IsActive to false and keeps the row.
type Activatable struct {
	IsActive bool
}

// NewActivatable returns an active flag
func NewActivatable() Activatable {
	return Activatable{IsActive: true}
}

// Deactivate marks the record inactive. Returns false when it already was.
func (a *Activatable) Deactivate() bool {
	if !a.IsActive {
		return false
	}
	a.IsActive = false
	return true
}

// Activate restores a soft-deleted record. Returns false when it already was active.
func (a *Activatable) Activate() bool {
	if a.IsActive {
		return false
	}
	a.IsActive = true
	return true
}
