// Package app wires configuration, infrastructure, and handlers together.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/felixgeelhaar/sublima/internal/production/application/commands"
	"github.com/felixgeelhaar/sublima/internal/production/application/queries"
	"github.com/felixgeelhaar/sublima/internal/production/application/services"
	"github.com/felixgeelhaar/sublima/internal/production/domain"
	productionCache "github.com/felixgeelhaar/sublima/internal/production/infrastructure/cache"
	productionPersistence "github.com/felixgeelhaar/sublima/internal/production/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/sublima/internal/shared/application"
	"github.com/felixgeelhaar/sublima/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/sublima/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/sublima/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/felixgeelhaar/sublima/internal/shared/infrastructure/persistence"
	"github.com/felixgeelhaar/sublima/pkg/config"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database. Exactly one of Pool and SQLiteDB is set.
	Pool     *pgxpool.Pool
	SQLiteDB *sql.DB

	// Redis
	RedisClient *redis.Client

	// Repositories
	OrderRepo    domain.OrderRepository
	SettingsRepo domain.SettingsRepository
	OutboxRepo   outbox.Repository

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Events
	EventPublisher eventbus.Publisher
	EventBus       *eventbus.InProcessEventBus
	OutboxProc     *outbox.Processor

	// Services
	Calculator *services.TimeCalculator
	Projector  *services.DeliveryProjector
	Estimator  services.RemainingTimeEstimator

	// Command handlers
	CreateOrderHandler        *commands.CreateOrderHandler
	StartStageHandler         *commands.StartStageHandler
	CompleteStageHandler      *commands.CompleteStageHandler
	ArchiveOrderHandler       *commands.ArchiveOrderHandler
	UpdateWorkScheduleHandler *commands.UpdateWorkScheduleHandler
	UpdateDurationsHandler    *commands.UpdateDurationsHandler

	// Query handlers
	GetOrderHandler    *queries.GetOrderHandler
	ListOrdersHandler  *queries.ListOrdersHandler
	ListArchiveHandler *queries.ListArchiveHandler
	BoardHandler       *queries.ProductionBoardHandler
	GetSettingsHandler *queries.GetSettingsHandler
}

// NewContainer builds the full dependency graph.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	if err := c.connectDatabase(ctx); err != nil {
		return nil, err
	}

	// Redis is optional; without it the board is rebuilt on every query.
	var boardCache queries.BoardCache
	var redisBoardCache *productionCache.RedisBoardCache
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			if !cfg.IsDevelopment() {
				c.Close()
				return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
			}
			logger.Warn("invalid Redis URL, board cache disabled", "error", err)
		} else {
			client := redis.NewClient(opt)
			if err := client.Ping(ctx).Err(); err != nil {
				if !cfg.IsDevelopment() {
					c.Close()
					return nil, fmt.Errorf("failed to connect to Redis: %w", err)
				}
				logger.Warn("Redis not available, board cache disabled", "error", err)
			} else {
				c.RedisClient = client
				redisBoardCache = productionCache.NewRedisBoardCache(client, cfg.BoardCacheTTL, logger)
				boardCache = redisBoardCache
				logger.Info("connected to Redis")
			}
		}
	}

	// Events go through RabbitMQ when configured, otherwise they are
	// dispatched on the in-process bus.
	c.EventBus = eventbus.NewInProcessEventBus(logger)
	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			if !cfg.IsDevelopment() {
				c.Close()
				return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			logger.Warn("RabbitMQ not available, using in-process event bus", "error", err)
			c.EventPublisher = c.EventBus
		} else {
			c.EventPublisher = publisher
			logger.Info("connected to RabbitMQ")
		}
	} else {
		c.EventPublisher = c.EventBus
	}

	// The invalidator sees events that flow through the in-process bus.
	// With RabbitMQ the short cache TTL bounds staleness instead.
	if redisBoardCache != nil {
		c.EventBus.RegisterConsumer(productionCache.NewBoardInvalidator(redisBoardCache))
	}

	procCfg := outbox.DefaultProcessorConfig()
	procCfg.PollInterval = cfg.OutboxPollInterval
	procCfg.BatchSize = cfg.OutboxBatchSize
	procCfg.MaxRetries = cfg.OutboxMaxRetries
	c.OutboxProc = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, procCfg, logger)

	c.Calculator = services.NewTimeCalculator(logger)
	c.Projector = services.NewDeliveryProjector()
	c.Estimator = services.NewQuarterSplitEstimator(c.Calculator)

	c.CreateOrderHandler = commands.NewCreateOrderHandler(
		c.OrderRepo, c.SettingsRepo, c.OutboxRepo, c.UnitOfWork, c.Calculator, c.Projector)
	c.StartStageHandler = commands.NewStartStageHandler(c.OrderRepo, c.OutboxRepo, c.UnitOfWork)
	c.CompleteStageHandler = commands.NewCompleteStageHandler(
		c.OrderRepo, c.SettingsRepo, c.OutboxRepo, c.UnitOfWork, c.Estimator, c.Projector)
	c.ArchiveOrderHandler = commands.NewArchiveOrderHandler(c.OrderRepo, c.OutboxRepo, c.UnitOfWork)
	c.UpdateWorkScheduleHandler = commands.NewUpdateWorkScheduleHandler(c.SettingsRepo, c.UnitOfWork)
	c.UpdateDurationsHandler = commands.NewUpdateDurationsHandler(c.SettingsRepo, c.UnitOfWork)

	c.GetOrderHandler = queries.NewGetOrderHandler(c.OrderRepo)
	c.ListOrdersHandler = queries.NewListOrdersHandler(c.OrderRepo)
	c.ListArchiveHandler = queries.NewListArchiveHandler(c.OrderRepo)
	c.BoardHandler = queries.NewProductionBoardHandler(
		c.OrderRepo, c.SettingsRepo, c.Estimator, boardCache, logger)
	c.GetSettingsHandler = queries.NewGetSettingsHandler(c.SettingsRepo)

	return c, nil
}

func (c *Container) connectDatabase(ctx context.Context) error {
	cfg := c.Config

	if cfg.UsePostgres() {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return fmt.Errorf("failed to ping database: %w", err)
		}
		c.Pool = pool
		c.OrderRepo = productionPersistence.NewPostgresOrderRepository(pool)
		c.SettingsRepo = productionPersistence.NewPostgresSettingsRepository(pool)
		c.OutboxRepo = outbox.NewPostgresRepository(pool)
		c.UnitOfWork = sharedPersistence.NewPostgresUnitOfWork(pool)
		c.Logger.Info("connected to database", "driver", "postgres")
		return nil
	}

	db, err := sql.Open("sqlite", cfg.SQLitePath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	c.SQLiteDB = db
	c.OrderRepo = productionPersistence.NewSQLiteOrderRepository(db)
	c.SettingsRepo = productionPersistence.NewSQLiteSettingsRepository(db)
	c.OutboxRepo = outbox.NewSQLiteRepository(db)
	c.UnitOfWork = sharedPersistence.NewSQLiteUnitOfWork(db)
	c.Logger.Info("connected to database", "driver", "sqlite", "path", cfg.SQLitePath)
	return nil
}

// StartOutboxProcessor starts the background event publisher when enabled.
func (c *Container) StartOutboxProcessor(ctx context.Context) error {
	if !c.Config.OutboxProcessorEnabled {
		return nil
	}
	return c.OutboxProc.Start(ctx)
}

// Close releases all resources in reverse dependency order.
func (c *Container) Close() {
	if c.OutboxProc != nil {
		c.OutboxProc.Stop()
	}
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("failed to close event publisher", "error", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("failed to close redis client", "error", err)
		}
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Close(); err != nil {
			c.Logger.Warn("failed to close sqlite database", "error", err)
		}
	}
}
