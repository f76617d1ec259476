package outbox

import (
	"context"
	"time"
)

// Repository persists outbox messages. Save and SaveBatch participate in the
// ambient transaction when one is carried by the context, so events commit
// atomically with the aggregate write.
type Repository interface {
	Save(ctx context.Context, msg *Message) error
	SaveBatch(ctx context.Context, msgs []*Message) error
	GetUnpublished(ctx context.Context, limit int) ([]*Message, error)
	MarkPublished(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error
	MarkDead(ctx context.Context, id int64, reason string) error
	GetDeadLettered(ctx context.Context, limit int) ([]*Message, error)
	DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
