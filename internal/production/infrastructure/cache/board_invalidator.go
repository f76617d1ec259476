package cache

import (
	"context"

	"github.com/felixgeelhaar/sublima/internal/production/domain"
	"github.com/felixgeelhaar/sublima/internal/shared/infrastructure/eventbus"
)

// BoardInvalidator drops the cached board snapshot whenever an order
// mutation event comes through the bus, so the next board query rebuilds
// it from the database.
type BoardInvalidator struct {
	cache *RedisBoardCache
}

// NewBoardInvalidator creates a new BoardInvalidator.
func NewBoardInvalidator(cache *RedisBoardCache) *BoardInvalidator {
	return &BoardInvalidator{cache: cache}
}

// EventTypes returns every order mutation routing key.
func (i *BoardInvalidator) EventTypes() []string {
	return []string{
		domain.RoutingKeyOrderCreated,
		domain.RoutingKeyStageStarted,
		domain.RoutingKeyStageCompleted,
		domain.RoutingKeyDeliveryReestimated,
		domain.RoutingKeyOrderCompleted,
		domain.RoutingKeyOrderArchived,
	}
}

// Handle drops the cached board.
func (i *BoardInvalidator) Handle(ctx context.Context, _ *eventbus.ConsumedEvent) error {
	i.cache.Invalidate(ctx)
	return nil
}

var _ eventbus.EventConsumer = (*BoardInvalidator)(nil)
