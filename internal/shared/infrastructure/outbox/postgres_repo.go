package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/sublima/internal/shared/infrastructure/persistence"
)

// PostgresRepository is a Postgres-backed outbox store.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres outbox repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Save stores a single outbox message.
func (r *PostgresRepository) Save(ctx context.Context, msg *Message) error {
	exec := persistence.Executor(ctx, r.pool)
	_, err := exec.Exec(ctx, `
INSERT INTO outbox_messages (
	event_id, aggregate_type, aggregate_id, event_type, routing_key,
	payload, metadata, created_at, retry_count
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0)`,
		msg.EventID, msg.AggregateType, msg.AggregateID, msg.EventType,
		msg.RoutingKey, msg.Payload, msg.Metadata, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save outbox message: %w", err)
	}
	return nil
}

// SaveBatch stores multiple outbox messages.
func (r *PostgresRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	for _, msg := range msgs {
		if err := r.Save(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// GetUnpublished returns unpublished messages whose retry window has passed,
// oldest first. Rows are locked with SKIP LOCKED so concurrent workers never
// pick the same batch.
func (r *PostgresRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	exec := persistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx, `
SELECT id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
       payload, metadata, created_at, published_at, next_retry_at, retry_count,
       last_error, dead_lettered_at, dead_letter_reason
FROM outbox_messages
WHERE published_at IS NULL
  AND dead_lettered_at IS NULL
  AND (next_retry_at IS NULL OR next_retry_at <= now())
ORDER BY id
LIMIT $1
FOR UPDATE SKIP LOCKED`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unpublished messages: %w", err)
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(
			&msg.ID, &msg.EventID, &msg.AggregateType, &msg.AggregateID,
			&msg.EventType, &msg.RoutingKey, &msg.Payload, &msg.Metadata,
			&msg.CreatedAt, &msg.PublishedAt, &msg.NextRetryAt, &msg.RetryCount,
			&msg.LastError, &msg.DeadLetteredAt, &msg.DeadLetterReason,
		); err != nil {
			return nil, fmt.Errorf("failed to scan outbox message: %w", err)
		}
		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}

// MarkPublished records the message as published.
func (r *PostgresRepository) MarkPublished(ctx context.Context, id int64) error {
	exec := persistence.Executor(ctx, r.pool)
	_, err := exec.Exec(ctx,
		`UPDATE outbox_messages SET published_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark message published: %w", err)
	}
	return nil
}

// MarkFailed records a publish failure and schedules the next retry.
func (r *PostgresRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	exec := persistence.Executor(ctx, r.pool)
	_, err := exec.Exec(ctx, `
UPDATE outbox_messages
SET retry_count = retry_count + 1, last_error = $2, next_retry_at = $3
WHERE id = $1`, id, errMsg, nextRetryAt)
	if err != nil {
		return fmt.Errorf("failed to mark message failed: %w", err)
	}
	return nil
}

// MarkDead moves the message to the dead-letter state.
func (r *PostgresRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	exec := persistence.Executor(ctx, r.pool)
	_, err := exec.Exec(ctx, `
UPDATE outbox_messages
SET retry_count = retry_count + 1, dead_lettered_at = now(), dead_letter_reason = $2
WHERE id = $1`, id, reason)
	if err != nil {
		return fmt.Errorf("failed to mark message dead-lettered: %w", err)
	}
	return nil
}

// GetDeadLettered returns dead-lettered messages, oldest first.
func (r *PostgresRepository) GetDeadLettered(ctx context.Context, limit int) ([]*Message, error) {
	exec := persistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx, `
SELECT id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
       payload, metadata, created_at, published_at, next_retry_at, retry_count,
       last_error, dead_lettered_at, dead_letter_reason
FROM outbox_messages
WHERE dead_lettered_at IS NOT NULL
ORDER BY id
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query dead-lettered messages: %w", err)
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(
			&msg.ID, &msg.EventID, &msg.AggregateType, &msg.AggregateID,
			&msg.EventType, &msg.RoutingKey, &msg.Payload, &msg.Metadata,
			&msg.CreatedAt, &msg.PublishedAt, &msg.NextRetryAt, &msg.RetryCount,
			&msg.LastError, &msg.DeadLetteredAt, &msg.DeadLetterReason,
		); err != nil {
			return nil, fmt.Errorf("failed to scan outbox message: %w", err)
		}
		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}

// DeletePublishedBefore removes published messages older than the cutoff.
func (r *PostgresRepository) DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	exec := persistence.Executor(ctx, r.pool)
	tag, err := exec.Exec(ctx,
		`DELETE FROM outbox_messages WHERE published_at IS NOT NULL AND published_at < $1`,
		cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete published messages: %w", err)
	}
	return tag.RowsAffected(), nil
}
