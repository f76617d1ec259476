// Package cache provides the Redis-backed read cache for the production
// board.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/sublima/internal/production/application/queries"
)

const boardKey = "sublima:board"

// RedisBoardCache caches the board snapshot in Redis with a short TTL.
// Cache failures are logged and treated as misses; the board is always
// rebuildable from the database.
type RedisBoardCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisBoardCache creates a new RedisBoardCache.
func NewRedisBoardCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisBoardCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisBoardCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached board snapshot, if one exists.
func (c *RedisBoardCache) Get(ctx context.Context) (*queries.BoardDTO, bool) {
	data, err := c.client.Get(ctx, boardKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("board cache read failed", "error", err)
		}
		return nil, false
	}

	var board queries.BoardDTO
	if err := json.Unmarshal(data, &board); err != nil {
		c.logger.Warn("board cache payload malformed, dropping", "error", err)
		c.Invalidate(ctx)
		return nil, false
	}
	return &board, true
}

// Set stores the board snapshot.
func (c *RedisBoardCache) Set(ctx context.Context, board *queries.BoardDTO) {
	data, err := json.Marshal(board)
	if err != nil {
		c.logger.Warn("board cache encode failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, boardKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("board cache write failed", "error", err)
	}
}

// Invalidate drops the cached snapshot. Called after every order mutation.
func (c *RedisBoardCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, boardKey).Err(); err != nil {
		c.logger.Warn("board cache invalidation failed", "error", err)
	}
}
