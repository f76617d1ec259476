// The worker drains the transactional outbox to the message broker and
// exposes health endpoints.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/sublima/internal/app"
	"github.com/felixgeelhaar/sublima/pkg/config"
	"github.com/felixgeelhaar/sublima/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()
	logger.Info("starting sublima worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	processor := container.OutboxProc
	if err := processor.Start(ctx); err != nil {
		logger.Error("failed to start outbox processor", "error", err)
		os.Exit(1)
	}

	// Periodically drop published messages past the retention window.
	cleanupTicker := time.NewTicker(cfg.OutboxCleanupInterval)
	defer cleanupTicker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-cleanupTicker.C:
				cutoff := time.Now().AddDate(0, 0, -cfg.OutboxRetentionDays)
				deleted, err := container.OutboxRepo.DeletePublishedBefore(ctx, cutoff)
				if err != nil {
					logger.Error("outbox cleanup failed", "error", err)
					continue
				}
				if deleted > 0 {
					logger.Info("outbox cleanup completed",
						"deleted", deleted,
						"retention_days", cfg.OutboxRetentionDays,
					)
				}
			}
		}
	}()

	if cfg.WorkerHealthAddr != "" {
		startHealthServer(ctx, cfg.WorkerHealthAddr, container, logger)
	}

	<-ctx.Done()
	logger.Info("shutting down worker")

	processor.Stop()
	logger.Info("worker stopped")

	fmt.Println("Goodbye!")
}

func startHealthServer(ctx context.Context, addr string, container *app.Container, logger *slog.Logger) {
	registry := observability.NewHealthRegistry()
	registry.Register("database", observability.DatabaseHealthChecker(func(ctx context.Context) error {
		if container.Pool != nil {
			return container.Pool.Ping(ctx)
		}
		return container.SQLiteDB.PingContext(ctx)
	}))
	if container.RedisClient != nil {
		registry.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
			return container.RedisClient.Ping(ctx).Err()
		}))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		stats := container.OutboxProc.GetStats()
		response := map[string]any{
			"status":            "ok",
			"running":           stats.IsRunning,
			"published":         stats.PublishedCount,
			"failed":            stats.FailedCount,
			"dead":              stats.DeadCount,
			"lag_seconds":       stats.LagSeconds,
			"last_processed_at": stats.LastProcessedAt,
			"last_error_at":     stats.LastErrorAt,
			"last_error":        stats.LastError,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		health := registry.GetOverallHealth(checkCtx)
		if health.Status == observability.HealthStatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(health)
	})

	healthSrv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("health server starting", "addr", addr)
		if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := healthSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("health server shutdown error", "error", err)
		}
	}()
}
