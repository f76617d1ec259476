package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "DATABASE_URL", "REDIS_URL", "RABBITMQ_URL",
		"BOARD_CACHE_TTL", "OUTBOX_POLL_INTERVAL", "OUTBOX_BATCH_SIZE",
		"OUTBOX_MAX_RETRIES", "OUTBOX_RETENTION_DAYS", "OUTBOX_PROCESSOR_ENABLED",
		"WORKER_HEALTH_ADDR",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.UsePostgres())
	assert.NotEmpty(t, cfg.SQLitePath)
	assert.Empty(t, cfg.RedisURL)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.Equal(t, 30*time.Second, cfg.BoardCacheTTL)
	assert.Equal(t, 250*time.Millisecond, cfg.OutboxPollInterval)
	assert.Equal(t, 100, cfg.OutboxBatchSize)
	assert.Equal(t, 5, cfg.OutboxMaxRetries)
	assert.Equal(t, 14, cfg.OutboxRetentionDays)
	assert.True(t, cfg.OutboxProcessorEnabled)
	assert.Equal(t, "0.0.0.0:8081", cfg.WorkerHealthAddr)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost/sublima")
	t.Setenv("SUBLIMA_SQLITE_PATH", "/tmp/test.db")
	t.Setenv("BOARD_CACHE_TTL", "2m")
	t.Setenv("OUTBOX_BATCH_SIZE", "25")
	t.Setenv("OUTBOX_PROCESSOR_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.UsePostgres())
	assert.Equal(t, "/tmp/test.db", cfg.SQLitePath)
	assert.Equal(t, 2*time.Minute, cfg.BoardCacheTTL)
	assert.Equal(t, 25, cfg.OutboxBatchSize)
	assert.False(t, cfg.OutboxProcessorEnabled)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("OUTBOX_BATCH_SIZE", "lots")
	t.Setenv("BOARD_CACHE_TTL", "soon")
	t.Setenv("OUTBOX_PROCESSOR_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.OutboxBatchSize)
	assert.Equal(t, 30*time.Second, cfg.BoardCacheTTL)
	assert.True(t, cfg.OutboxProcessorEnabled)
}
