package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries identity and display timestamps
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// BaseAggregateRoot is embedded by aggregates that are edited concurrently.
// Version is the optimistic concurrency token handed to clients; it only
// ever moves forward and is independent of UpdatedAt.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int
	domainEvents []DomainEvent
}

// NewBaseAggregateRoot creates a new aggregate root at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// IncrementVersion moves the version forward. Callers stamp UpdatedAt.
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// CheckVersion returns a conflict error when expected does not match the
// loaded version.
func (a *BaseAggregateRoot) CheckVersion(resource string, expected int) error {
	if a.Version != expected {
		return NewConflictError(resource, a.ID, a.Version)
	}
	return nil
}

// AddDomainEvent queues an event for publishing after commit
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns the queued events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents drops the queued events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}
