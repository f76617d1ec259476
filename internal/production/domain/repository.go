package domain

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository persists orders.
type OrderRepository interface {
	// Save persists an order (create or update).
	Save(ctx context.Context, order *Order) error

	// FindByID finds an order by ID. Returns (nil, nil) when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByStatus returns orders with the given status, newest first.
	FindByStatus(ctx context.Context, status Status) ([]*Order, error)

	// FindOpen returns all orders that are neither completed nor archived,
	// newest first.
	FindOpen(ctx context.Context) ([]*Order, error)

	// FindByArchiveWeek returns archived orders filed under a week tag.
	FindByArchiveWeek(ctx context.Context, weekTag string) ([]*Order, error)

	// Delete removes an order.
	Delete(ctx context.Context, id uuid.UUID) error
}

// SettingsRepository persists the shop configuration consulted by the
// estimation engine: the work schedule and the duration table.
type SettingsRepository interface {
	// LoadWorkSchedule returns the configured schedule, or the default when
	// none has been stored yet.
	LoadWorkSchedule(ctx context.Context) (WorkSchedule, error)

	// SaveWorkSchedule stores the schedule.
	SaveWorkSchedule(ctx context.Context, schedule WorkSchedule) error

	// LoadDurationTable returns the configured duration table, or the default
	// when none has been stored yet.
	LoadDurationTable(ctx context.Context) (*DurationTable, error)

	// SaveDurationTable stores the duration table.
	SaveDurationTable(ctx context.Context, table *DurationTable) error
}
