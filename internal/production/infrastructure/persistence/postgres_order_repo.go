package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/sublima/internal/production/domain"
	sharedPersistence "github.com/felixgeelhaar/sublima/internal/shared/infrastructure/persistence"
)

var ErrOrderNotFound = errors.New("order not found")

// PostgresOrderRepository implements domain.OrderRepository using PostgreSQL.
type PostgresOrderRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository.
func NewPostgresOrderRepository(pool *pgxpool.Pool) *PostgresOrderRepository {
	return &PostgresOrderRepository{pool: pool}
}

// orderRow represents a database row for orders.
type orderRow struct {
	ID                uuid.UUID
	Name              string
	ClientID          uuid.UUID
	ClientName        string
	Description       string
	Designer          string
	DesignHours       float64
	ProductionMinutes float64
	TotalMinutes      float64
	EstimatedDelivery *time.Time
	Status            string
	ArchiveWeek       *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Save persists an order, its items, and its stage progress atomically.
func (r *PostgresOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	if info, ok := sharedPersistence.TxInfoFromContext(ctx); ok {
		return r.saveWithTx(ctx, info.Tx, order)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := r.saveWithTx(ctx, tx, order); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PostgresOrderRepository) saveWithTx(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	var delivery *time.Time
	if est := order.EstimatedDelivery(); !est.IsZero() {
		delivery = &est
	}
	var archiveWeek *string
	if week := order.ArchiveWeek(); week != "" {
		archiveWeek = &week
	}

	query := `
		INSERT INTO orders (
			id, name, client_id, client_name, description, designer,
			design_hours, production_minutes, total_minutes,
			estimated_delivery, status, archive_week, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			client_name = EXCLUDED.client_name,
			description = EXCLUDED.description,
			designer = EXCLUDED.designer,
			design_hours = EXCLUDED.design_hours,
			production_minutes = EXCLUDED.production_minutes,
			total_minutes = EXCLUDED.total_minutes,
			estimated_delivery = EXCLUDED.estimated_delivery,
			status = EXCLUDED.status,
			archive_week = EXCLUDED.archive_week,
			updated_at = EXCLUDED.updated_at
	`

	_, err := tx.Exec(ctx, query,
		order.ID(),
		order.Name(),
		order.ClientID(),
		order.ClientName(),
		order.Description(),
		order.Designer(),
		order.DesignHours(),
		order.ProductionMinutes(),
		order.TotalMinutes(),
		delivery,
		string(order.Status()),
		archiveWeek,
		order.CreatedAt(),
		order.UpdatedAt(),
	)
	if err != nil {
		return err
	}

	// Items are replaced wholesale; the aggregate has no per-item identity.
	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, order.ID()); err != nil {
		return err
	}
	for i, item := range order.Items() {
		_, err := tx.Exec(ctx,
			`INSERT INTO order_items (order_id, position, garment, quantity) VALUES ($1, $2, $3, $4)`,
			order.ID(), i, string(item.Garment), item.Quantity)
		if err != nil {
			return err
		}
	}

	for _, stage := range domain.PipelineStages() {
		prog := order.StageProgress(stage)
		_, err := tx.Exec(ctx, `
			INSERT INTO order_stages (order_id, stage, started_at, finished_at, completed)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (order_id, stage) DO UPDATE SET
				started_at = EXCLUDED.started_at,
				finished_at = EXCLUDED.finished_at,
				completed = EXCLUDED.completed
		`, order.ID(), string(stage), prog.StartedAt, prog.FinishedAt, prog.Completed)
		if err != nil {
			return err
		}
	}

	return nil
}

const pgOrderColumns = `
	id, name, client_id, client_name, description, designer,
	design_hours, production_minutes, total_minutes,
	estimated_delivery, status, archive_week, created_at, updated_at
`

// FindByID retrieves an order by its ID. Returns (nil, nil) when absent.
func (r *PostgresOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)

	var row orderRow
	err := exec.QueryRow(ctx, `SELECT `+pgOrderColumns+` FROM orders WHERE id = $1`, id).Scan(
		&row.ID, &row.Name, &row.ClientID, &row.ClientName, &row.Description,
		&row.Designer, &row.DesignHours, &row.ProductionMinutes, &row.TotalMinutes,
		&row.EstimatedDelivery, &row.Status, &row.ArchiveWeek, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return r.rowToOrder(ctx, row)
}

// FindByStatus retrieves orders with the given status, newest first.
func (r *PostgresOrderRepository) FindByStatus(ctx context.Context, status domain.Status) ([]*domain.Order, error) {
	return r.findWhere(ctx, `WHERE status = $1 ORDER BY created_at DESC`, string(status))
}

// FindOpen retrieves orders that are neither completed nor archived, newest first.
func (r *PostgresOrderRepository) FindOpen(ctx context.Context) ([]*domain.Order, error) {
	return r.findWhere(ctx, `WHERE status NOT IN ($1, $2) ORDER BY created_at DESC`,
		string(domain.StatusCompleted), string(domain.StatusArchived))
}

// FindByArchiveWeek retrieves archived orders filed under a week tag.
func (r *PostgresOrderRepository) FindByArchiveWeek(ctx context.Context, weekTag string) ([]*domain.Order, error) {
	return r.findWhere(ctx, `WHERE archive_week = $1 ORDER BY created_at DESC`, weekTag)
}

// Delete removes an order; items and stages cascade.
func (r *PostgresOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := sharedPersistence.Executor(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *PostgresOrderRepository) findWhere(ctx context.Context, clause string, args ...any) ([]*domain.Order, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx, `SELECT `+pgOrderColumns+` FROM orders `+clause, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orderRows []orderRow
	for rows.Next() {
		var row orderRow
		if err := rows.Scan(
			&row.ID, &row.Name, &row.ClientID, &row.ClientName, &row.Description,
			&row.Designer, &row.DesignHours, &row.ProductionMinutes, &row.TotalMinutes,
			&row.EstimatedDelivery, &row.Status, &row.ArchiveWeek, &row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orderRows = append(orderRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	orders := make([]*domain.Order, 0, len(orderRows))
	for _, row := range orderRows {
		order, err := r.rowToOrder(ctx, row)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *PostgresOrderRepository) rowToOrder(ctx context.Context, row orderRow) (*domain.Order, error) {
	items, err := r.loadItems(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	pipeline, err := r.loadPipeline(ctx, row.ID)
	if err != nil {
		return nil, err
	}

	var delivery time.Time
	if row.EstimatedDelivery != nil {
		delivery = *row.EstimatedDelivery
	}
	var archiveWeek string
	if row.ArchiveWeek != nil {
		archiveWeek = *row.ArchiveWeek
	}

	return domain.RehydrateOrder(
		row.ID, row.Name, row.ClientID, row.ClientName, row.Description,
		row.Designer, items, row.DesignHours, row.ProductionMinutes,
		row.TotalMinutes, delivery, pipeline, domain.Status(row.Status),
		archiveWeek, row.CreatedAt, row.UpdatedAt,
	), nil
}

func (r *PostgresOrderRepository) loadItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`SELECT garment, quantity FROM order_items WHERE order_id = $1 ORDER BY position`, orderID)
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

func (r *PostgresOrderRepository) loadPipeline(ctx context.Context, orderID uuid.UUID) (domain.Pipeline, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`SELECT stage, started_at, finished_at, completed FROM order_stages WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pipeline := domain.NewPipeline()
	for rows.Next() {
		var stage string
		var startedAt, finishedAt *time.Time
		var completed bool
		if err := rows.Scan(&stage, &startedAt, &finishedAt, &completed); err != nil {
			return nil, err
		}
		pipeline[domain.Stage(stage)] = domain.StageProgress{
			StartedAt:  startedAt,
			FinishedAt: finishedAt,
			Completed:  completed,
		}
	}
	return pipeline, rows.Err()
}
