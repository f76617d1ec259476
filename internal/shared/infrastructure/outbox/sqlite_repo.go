package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/felixgeelhaar/sublima/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteRepository is a SQLite-backed outbox store.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite outbox repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const sqliteInsertMessage = `
INSERT INTO outbox_messages (
	event_id, aggregate_type, aggregate_id, event_type, routing_key,
	payload, metadata, created_at, retry_count
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)`

// Save stores a single outbox message.
func (r *SQLiteRepository) Save(ctx context.Context, msg *Message) error {
	exec := persistence.SQLiteExec(ctx, r.db)
	_, err := exec.ExecContext(ctx, sqliteInsertMessage,
		msg.EventID.String(),
		msg.AggregateType,
		msg.AggregateID.String(),
		msg.EventType,
		msg.RoutingKey,
		string(msg.Payload),
		string(msg.Metadata),
		msg.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save outbox message: %w", err)
	}
	return nil
}

// SaveBatch stores multiple outbox messages.
func (r *SQLiteRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	for _, msg := range msgs {
		if err := r.Save(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// GetUnpublished returns unpublished messages whose retry window has passed,
// oldest first.
func (r *SQLiteRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	exec := persistence.SQLiteExec(ctx, r.db)
	rows, err := exec.QueryContext(ctx, `
SELECT id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
       payload, metadata, created_at, published_at, next_retry_at, retry_count,
       last_error, dead_lettered_at, dead_letter_reason
FROM outbox_messages
WHERE published_at IS NULL
  AND dead_lettered_at IS NULL
  AND (next_retry_at IS NULL OR next_retry_at <= ?)
ORDER BY id
LIMIT ?`,
		time.Now().UTC().Format(time.RFC3339Nano), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unpublished messages: %w", err)
	}
	defer rows.Close()

	return scanSQLiteMessages(rows)
}

// MarkPublished records the message as published.
func (r *SQLiteRepository) MarkPublished(ctx context.Context, id int64) error {
	exec := persistence.SQLiteExec(ctx, r.db)
	_, err := exec.ExecContext(ctx,
		`UPDATE outbox_messages SET published_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return fmt.Errorf("failed to mark message published: %w", err)
	}
	return nil
}

// MarkFailed records a publish failure and schedules the next retry.
func (r *SQLiteRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	exec := persistence.SQLiteExec(ctx, r.db)
	_, err := exec.ExecContext(ctx, `
UPDATE outbox_messages
SET retry_count = retry_count + 1, last_error = ?, next_retry_at = ?
WHERE id = ?`,
		errMsg, nextRetryAt.UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return fmt.Errorf("failed to mark message failed: %w", err)
	}
	return nil
}

// MarkDead moves the message to the dead-letter state.
func (r *SQLiteRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	exec := persistence.SQLiteExec(ctx, r.db)
	_, err := exec.ExecContext(ctx, `
UPDATE outbox_messages
SET retry_count = retry_count + 1, dead_lettered_at = ?, dead_letter_reason = ?
WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), reason, id)
	if err != nil {
		return fmt.Errorf("failed to mark message dead-lettered: %w", err)
	}
	return nil
}

// GetDeadLettered returns dead-lettered messages, oldest first.
func (r *SQLiteRepository) GetDeadLettered(ctx context.Context, limit int) ([]*Message, error) {
	exec := persistence.SQLiteExec(ctx, r.db)
	rows, err := exec.QueryContext(ctx, `
SELECT id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
       payload, metadata, created_at, published_at, next_retry_at, retry_count,
       last_error, dead_lettered_at, dead_letter_reason
FROM outbox_messages
WHERE dead_lettered_at IS NOT NULL
ORDER BY id
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query dead-lettered messages: %w", err)
	}
	defer rows.Close()

	return scanSQLiteMessages(rows)
}

// DeletePublishedBefore removes published messages older than the cutoff.
func (r *SQLiteRepository) DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	exec := persistence.SQLiteExec(ctx, r.db)
	res, err := exec.ExecContext(ctx,
		`DELETE FROM outbox_messages WHERE published_at IS NOT NULL AND published_at < ?`,
		cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("failed to delete published messages: %w", err)
	}
	return res.RowsAffected()
}

func scanSQLiteMessages(rows *sql.Rows) ([]*Message, error) {
	var messages []*Message
	for rows.Next() {
		var (
			msg              Message
			eventID          string
			aggregateID      string
			payload          string
			metadata         string
			createdAt        string
			publishedAt      sql.NullString
			nextRetryAt      sql.NullString
			lastError        sql.NullString
			deadLetteredAt   sql.NullString
			deadLetterReason sql.NullString
		)
		if err := rows.Scan(
			&msg.ID, &eventID, &msg.AggregateType, &aggregateID, &msg.EventType,
			&msg.RoutingKey, &payload, &metadata, &createdAt, &publishedAt,
			&nextRetryAt, &msg.RetryCount, &lastError, &deadLetteredAt,
			&deadLetterReason,
		); err != nil {
			return nil, fmt.Errorf("failed to scan outbox message: %w", err)
		}

		var err error
		if msg.EventID, err = uuid.Parse(eventID); err != nil {
			return nil, fmt.Errorf("invalid event id %q: %w", eventID, err)
		}
		if msg.AggregateID, err = uuid.Parse(aggregateID); err != nil {
			return nil, fmt.Errorf("invalid aggregate id %q: %w", aggregateID, err)
		}
		msg.Payload = []byte(payload)
		msg.Metadata = []byte(metadata)
		if msg.CreatedAt, err = parseSQLiteTime(createdAt); err != nil {
			return nil, err
		}
		if msg.PublishedAt, err = parseSQLiteTimePtr(publishedAt); err != nil {
			return nil, err
		}
		if msg.NextRetryAt, err = parseSQLiteTimePtr(nextRetryAt); err != nil {
			return nil, err
		}
		if lastError.Valid {
			msg.LastError = &lastError.String
		}
		if msg.DeadLetteredAt, err = parseSQLiteTimePtr(deadLetteredAt); err != nil {
			return nil, err
		}
		if deadLetterReason.Valid {
			msg.DeadLetterReason = &deadLetterReason.String
		}

		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}

func parseSQLiteTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

func parseSQLiteTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseSQLiteTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
