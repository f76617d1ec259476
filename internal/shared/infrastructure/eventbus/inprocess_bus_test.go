package eventbus

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInProcessEventBus_Publish(t *testing.T) {
	bus := NewInProcessEventBus(nil)
	consumer := &recordingConsumer{types: []string{"production.order.created"}}
	bus.RegisterConsumer(consumer)

	event := ConsumedEvent{
		EventID:     uuid.New(),
		AggregateID: uuid.New(),
		RoutingKey:  "production.order.created",
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), "production.order.created", payload))
	require.Len(t, consumer.events, 1)
	assert.Equal(t, event.EventID, consumer.events[0].EventID)
}

func TestInProcessEventBus_Publish_FillsRoutingKey(t *testing.T) {
	bus := NewInProcessEventBus(nil)
	consumer := &recordingConsumer{types: []string{"production.stage.started"}}
	bus.RegisterConsumer(consumer)

	// Payload without its own routing key falls back to the publish key.
	require.NoError(t, bus.Publish(context.Background(), "production.stage.started", []byte(`{"payload":{}}`)))
	require.Len(t, consumer.events, 1)
	assert.Equal(t, "production.stage.started", consumer.events[0].RoutingKey)
}

func TestInProcessEventBus_Publish_MalformedPayloadDropped(t *testing.T) {
	bus := NewInProcessEventBus(nil)
	consumer := &recordingConsumer{types: []string{"k"}}
	bus.RegisterConsumer(consumer)

	assert.NoError(t, bus.Publish(context.Background(), "k", []byte(`not json`)))
	assert.Empty(t, consumer.events)
}

func TestInProcessEventBus_Close(t *testing.T) {
	bus := NewInProcessEventBus(nil)
	assert.NoError(t, bus.Close())
	assert.NotNil(t, bus.Registry())
}
