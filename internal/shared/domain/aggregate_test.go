package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEvent struct {
	BaseEvent
}

func TestBaseAggregateRoot_RecordAndClear(t *testing.T) {
	root := NewBaseAggregateRoot()
	assert.Empty(t, root.DomainEvents())

	first := &stubEvent{BaseEvent: NewBaseEvent(root.ID(), "Order", "a")}
	second := &stubEvent{BaseEvent: NewBaseEvent(root.ID(), "Order", "b")}
	root.Record(first)
	root.Record(second)

	events := root.DomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].RoutingKey())
	assert.Equal(t, "b", events[1].RoutingKey())

	root.ClearDomainEvents()
	assert.Empty(t, root.DomainEvents())
}

func TestRehydrateBaseAggregateRoot_NoPendingEvents(t *testing.T) {
	entity := NewBaseEntity()
	root := RehydrateBaseAggregateRoot(entity)

	assert.Equal(t, entity.ID(), root.ID())
	assert.Empty(t, root.DomainEvents())
}

func TestNewBaseEvent(t *testing.T) {
	aggregateID := uuid.New()
	event := NewBaseEvent(aggregateID, "Order", "production.order.created")

	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.Equal(t, aggregateID, event.AggregateID())
	assert.Equal(t, "Order", event.AggregateType())
	assert.Equal(t, "production.order.created", event.RoutingKey())
	assert.False(t, event.OccurredAt().IsZero())
	assert.Equal(t, EventMetadata{}, event.Metadata())
}

func TestBaseEvent_SetMetadata(t *testing.T) {
	event := NewBaseEvent(uuid.New(), "Order", "k")
	metadata := EventMetadata{
		CorrelationID: uuid.New(),
		CausationID:   uuid.New(),
		UserID:        uuid.New(),
	}

	event.SetMetadata(metadata)

	assert.Equal(t, metadata, event.Metadata())
}
