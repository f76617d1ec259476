package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/sublima/internal/production/domain"
	sharedPersistence "github.com/felixgeelhaar/sublima/internal/shared/infrastructure/persistence"
)

// SQLiteOrderRepository implements domain.OrderRepository using SQLite for
// local single-binary mode.
type SQLiteOrderRepository struct {
	db *sql.DB
}

// NewSQLiteOrderRepository creates a new SQLite order repository.
func NewSQLiteOrderRepository(db *sql.DB) *SQLiteOrderRepository {
	return &SQLiteOrderRepository{db: db}
}

// Save persists an order, its items, and its stage progress atomically.
func (r *SQLiteOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return r.saveWithTx(ctx, info.Tx, order)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := r.saveWithTx(ctx, tx, order); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *SQLiteOrderRepository) saveWithTx(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	var delivery any
	if est := order.EstimatedDelivery(); !est.IsZero() {
		delivery = formatTime(est)
	}
	var archiveWeek any
	if week := order.ArchiveWeek(); week != "" {
		archiveWeek = week
	}

	_, err := tx.ExecContext(ctx, `
INSERT INTO orders (
	id, name, client_id, client_name, description, designer,
	design_hours, production_minutes, total_minutes,
	estimated_delivery, status, archive_week, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	name = excluded.name,
	client_name = excluded.client_name,
	description = excluded.description,
	designer = excluded.designer,
	design_hours = excluded.design_hours,
	production_minutes = excluded.production_minutes,
	total_minutes = excluded.total_minutes,
	estimated_delivery = excluded.estimated_delivery,
	status = excluded.status,
	archive_week = excluded.archive_week,
	updated_at = excluded.updated_at`,
		order.ID().String(),
		order.Name(),
		order.ClientID().String(),
		order.ClientName(),
		order.Description(),
		order.Designer(),
		order.DesignHours(),
		order.ProductionMinutes(),
		order.TotalMinutes(),
		delivery,
		string(order.Status()),
		archiveWeek,
		formatTime(order.CreatedAt()),
		formatTime(order.UpdatedAt()),
	)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, order.ID().String()); err != nil {
		return err
	}
	for i, item := range order.Items() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, position, garment, quantity) VALUES (?, ?, ?, ?)`,
			order.ID().String(), i, string(item.Garment), item.Quantity)
		if err != nil {
			return err
		}
	}

	for _, stage := range domain.PipelineStages() {
		prog := order.StageProgress(stage)
		_, err := tx.ExecContext(ctx, `
INSERT INTO order_stages (order_id, stage, started_at, finished_at, completed)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (order_id, stage) DO UPDATE SET
	started_at = excluded.started_at,
	finished_at = excluded.finished_at,
	completed = excluded.completed`,
			order.ID().String(), string(stage),
			formatTimePtr(prog.StartedAt), formatTimePtr(prog.FinishedAt), prog.Completed)
		if err != nil {
			return err
		}
	}

	return nil
}

const sqliteOrderColumns = `
	id, name, client_id, client_name, description, designer,
	design_hours, production_minutes, total_minutes,
	estimated_delivery, status, archive_week, created_at, updated_at
`

// FindByID retrieves an order by its ID. Returns (nil, nil) when absent.
func (r *SQLiteOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	exec := sharedPersistence.SQLiteExec(ctx, r.db)
	row := exec.QueryRowContext(ctx,
		`SELECT `+sqliteOrderColumns+` FROM orders WHERE id = ?`, id.String())

	order, err := r.scanOrder(ctx, row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return order, nil
}

// FindByStatus retrieves orders with the given status, newest first.
func (r *SQLiteOrderRepository) FindByStatus(ctx context.Context, status domain.Status) ([]*domain.Order, error) {
	return r.findWhere(ctx, `WHERE status = ? ORDER BY created_at DESC`, string(status))
}

// FindOpen retrieves orders that are neither completed nor archived, newest first.
func (r *SQLiteOrderRepository) FindOpen(ctx context.Context) ([]*domain.Order, error) {
	return r.findWhere(ctx, `WHERE status NOT IN (?, ?) ORDER BY created_at DESC`,
		string(domain.StatusCompleted), string(domain.StatusArchived))
}

// FindByArchiveWeek retrieves archived orders filed under a week tag.
func (r *SQLiteOrderRepository) FindByArchiveWeek(ctx context.Context, weekTag string) ([]*domain.Order, error) {
	return r.findWhere(ctx, `WHERE archive_week = ? ORDER BY created_at DESC`, weekTag)
}

// Delete removes an order; items and stages cascade.
func (r *SQLiteOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := sharedPersistence.SQLiteExec(ctx, r.db)
	res, err := exec.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *SQLiteOrderRepository) findWhere(ctx context.Context, clause string, args ...any) ([]*domain.Order, error) {
	exec := sharedPersistence.SQLiteExec(ctx, r.db)
	rows, err := exec.QueryContext(ctx, `SELECT `+sqliteOrderColumns+` FROM orders `+clause, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := r.scanOrder(ctx, rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *SQLiteOrderRepository) scanOrder(ctx context.Context, scan func(dest ...any) error) (*domain.Order, error) {
	var (
		id, name, clientID, clientName, description, designer string
		designHours, productionMinutes, totalMinutes          float64
		delivery, archiveWeek                                 sql.NullString
		status, createdAt, updatedAt                          string
	)
	if err := scan(
		&id, &name, &clientID, &clientName, &description, &designer,
		&designHours, &productionMinutes, &totalMinutes,
		&delivery, &status, &archiveWeek, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid order id %q: %w", id, err)
	}
	client, err := uuid.Parse(clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid client id %q: %w", clientID, err)
	}
	created, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	var estimated time.Time
	if delivery.Valid {
		if estimated, err = parseTime(delivery.String); err != nil {
			return nil, err
		}
	}

	items, err := r.loadItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	pipeline, err := r.loadPipeline(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateOrder(
		orderID, name, client, clientName, description, designer,
		items, designHours, productionMinutes, totalMinutes,
		estimated, pipeline, domain.Status(status), archiveWeek.String,
		created, updated,
	), nil
}

func (r *SQLiteOrderRepository) loadItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	exec := sharedPersistence.SQLiteExec(ctx, r.db)
	rows, err := exec.QueryContext(ctx,
		`SELECT garment, quantity FROM order_items WHERE order_id = ? ORDER BY position`, orderID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var garment string
		var quantity int
		if err := rows.Scan(&garment, &quantity); err != nil {
			return nil, err
		}
		items = append(items, domain.OrderItem{Garment: domain.GarmentType(garment), Quantity: quantity})
	}
	return items, rows.Err()
}

func (r *SQLiteOrderRepository) loadPipeline(ctx context.Context, orderID uuid.UUID) (domain.Pipeline, error) {
	exec := sharedPersistence.SQLiteExec(ctx, r.db)
	rows, err := exec.QueryContext(ctx,
		`SELECT stage, started_at, finished_at, completed FROM order_stages WHERE order_id = ?`, orderID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pipeline := domain.NewPipeline()
	for rows.Next() {
		var stage string
		var startedAt, finishedAt sql.NullString
		var completed bool
		if err := rows.Scan(&stage, &startedAt, &finishedAt, &completed); err != nil {
			return nil, err
		}
		prog := domain.StageProgress{Completed: completed}
		if startedAt.Valid {
			t, err := parseTime(startedAt.String)
			if err != nil {
				return nil, err
			}
			prog.StartedAt = &t
		}
		if finishedAt.Valid {
			t, err := parseTime(finishedAt.String)
			if err != nil {
				return nil, err
			}
			prog.FinishedAt = &t
		}
		pipeline[domain.Stage(stage)] = prog
	}
	return pipeline, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}
