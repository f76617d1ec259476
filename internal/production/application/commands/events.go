package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/sublima/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/sublima/internal/shared/domain"
	"github.com/felixgeelhaar/sublima/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// stageEvents drains an aggregate's domain events into the outbox inside the
// current transaction.
func stageEvents(ctx context.Context, repo outbox.Repository, userID uuid.UUID, aggregate sharedDomain.AggregateRoot) error {
	events := aggregate.DomainEvents()
	if len(events) == 0 {
		return nil
	}
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(userID))

	msgs := make([]*outbox.Message, 0, len(events))
	for _, event := range events {
		msg, err := outbox.NewMessage(event)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	aggregate.ClearDomainEvents()
	return repo.SaveBatch(ctx, msgs)
}
