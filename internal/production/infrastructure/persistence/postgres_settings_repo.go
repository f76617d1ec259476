package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/sublima/internal/production/domain"
	sharedPersistence "github.com/felixgeelhaar/sublima/internal/shared/infrastructure/persistence"
)

// PostgresSettingsRepository stores shop configuration as JSON values keyed
// by setting name.
type PostgresSettingsRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSettingsRepository creates a new PostgreSQL settings repository.
func NewPostgresSettingsRepository(pool *pgxpool.Pool) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{pool: pool}
}

// LoadWorkSchedule returns the stored schedule, or the default when unset.
func (r *PostgresSettingsRepository) LoadWorkSchedule(ctx context.Context) (domain.WorkSchedule, error) {
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
func (r *PostgresSettingsRepository) SaveWorkSchedule(ctx context.Context, schedule domain.WorkSchedule) error {
	value, err := marshalSchedule(schedule)
	if err != nil {
		return err
	}
	return r.save(ctx, settingsKeySchedule, value)
}

// LoadDurationTable returns the stored duration table, or the default when unset.
func (r *PostgresSettingsRepository) LoadDurationTable(ctx context.Context) (*domain.DurationTable, error) {
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
func (r *PostgresSettingsRepository) SaveDurationTable(ctx context.Context, table *domain.DurationTable) error {
	value, err := marshalDurationTable(table)
	if err != nil {
		return err
	}
	return r.save(ctx, settingsKeyDurations, value)
}

func (r *PostgresSettingsRepository) load(ctx context.Context, key string) ([]byte, bool, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	var value []byte
	err := exec.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (r *PostgresSettingsRepository) save(ctx context.Context, key string, value []byte) error {
	exec := sharedPersistence.Executor(ctx, r.pool)
	_, err := exec.Exec(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, value)
	return err
}
