package domain

// AggregateRoot is the consistency boundary of a cluster of domain objects.
// Aggregates record domain events as they mutate; the application layer
// drains them into the outbox inside the same transaction as the state change.
type AggregateRoot interface {
	Entity
	DomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides event recording for embedding in aggregates.
type BaseAggregateRoot struct {
	BaseEntity
	events []DomainEvent
}

// NewBaseAggregateRoot creates an aggregate root with a fresh identity.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity()}
}

// RehydrateBaseAggregateRoot rebuilds an aggregate root from persisted state.
// Rehydrated aggregates start with no pending events.
func RehydrateBaseAggregateRoot(entity BaseEntity) BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: entity}
}

// DomainEvents returns the uncommitted events recorded by this aggregate.
func (a *BaseAggregateRoot) DomainEvents() []DomainEvent {
	return a.events
}

// ClearDomainEvents drops all uncommitted events.
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.events = nil
}

// Record appends a domain event to the uncommitted set.
func (a *BaseAggregateRoot) Record(event DomainEvent) {
	a.events = append(a.events, event)
}
