package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/felixgeelhaar/sublima/internal/production/domain"
	sharedPersistence "github.com/felixgeelhaar/sublima/internal/shared/infrastructure/persistence"
)

// SQLiteSettingsRepository stores shop configuration as JSON values keyed by
// setting name.
type SQLiteSettingsRepository struct {
	db *sql.DB
}

// NewSQLiteSettingsRepository creates a new SQLite settings repository.
func NewSQLiteSettingsRepository(db *sql.DB) *SQLiteSettingsRepository {
	return &SQLiteSettingsRepository{db: db}
}

// LoadWorkSchedule returns the stored schedule, or the default when unset.
func (r *SQLiteSettingsRepository) LoadWorkSchedule(ctx context.Context) (domain.WorkSchedule, error) {
	value, found, err := r.load(ctx, settingsKeySchedule)
	if err != nil {
		return domain.WorkSchedule{}, err
	}
	if !found {
		return domain.DefaultWorkSchedule(), nil
	}
	return unmarshalSchedule(value)
}

// SaveWorkSchedule stores the schedule.
func (r *SQLiteSettingsRepository) SaveWorkSchedule(ctx context.Context, schedule domain.WorkSchedule) error {
	value, err := marshalSchedule(schedule)
	if err != nil {
		return err
	}
	return r.save(ctx, settingsKeySchedule, value)
}

// LoadDurationTable returns the stored duration table, or the default when unset.
func (r *SQLiteSettingsRepository) LoadDurationTable(ctx context.Context) (*domain.DurationTable, error) {
	value, found, err := r.load(ctx, settingsKeyDurations)
	if err != nil {
		return nil, err
	}
	if !found {
		return domain.DefaultDurationTable(), nil
	}
	return unmarshalDurationTable(value)
}

// SaveDurationTable stores the duration table.
func (r *SQLiteSettingsRepository) SaveDurationTable(ctx context.Context, table *domain.DurationTable) error {
	value, err := marshalDurationTable(table)
	if err != nil {
		return err
	}
	return r.save(ctx, settingsKeyDurations, value)
}

func (r *SQLiteSettingsRepository) load(ctx context.Context, key string) ([]byte, bool, error) {
	exec := sharedPersistence.SQLiteExec(ctx, r.db)
	var value string
	err := exec.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(value), true, nil
}

func (r *SQLiteSettingsRepository) save(ctx context.Context, key string, value []byte) error {
	exec := sharedPersistence.SQLiteExec(ctx, r.db)
	_, err := exec.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(value), time.Now().UTC().Format(time.RFC3339Nano))
	return err
}
