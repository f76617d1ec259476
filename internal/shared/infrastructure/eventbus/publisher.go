// Package eventbus moves domain events between the outbox and their
// consumers, either in process (local mode) or through RabbitMQ.
package eventbus

import "context"

// Publisher sends serialized domain events to a message broker.
type Publisher interface {
	// Publish sends a payload under a routing key.
	Publish(ctx context.Context, routingKey string, payload []byte) error

	// Close releases the broker connection.
	Close() error
}
