package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/drseanwing/trolleys/internal/domain"
)

const selectionKey = "trolleys:selection:active"

// Redis caches the active selection batch as one JSON value. The cache
// is best-effort: failures degrade to a repository read, never an
// error.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

type selectionPayload struct {
	Batch *domain.SelectionBatch `json:"batch"`
	Items []domain.SelectionItem `json:"items"`
}

func NewRedis(addr, password string, db int, ttl time.Duration, logger *zap.Logger) (*Redis, error) {
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Redis{client: client, ttl: ttl, logger: logger}, nil
}

func (c *Redis) Get(ctx context.Context) (*domain.SelectionBatch, []domain.SelectionItem, bool) {
	raw, err := c.client.Get(ctx, selectionKey).Bytes()
	if err == redis.Nil {
		return nil, nil, false
	}
	if err != nil {
		c.logger.Debug("selection cache read failed", zap.Error(err))
		return nil, nil, false
	}
	var payload selectionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.logger.Debug("selection cache payload invalid", zap.Error(err))
		return nil, nil, false
	}
	if payload.Batch == nil {
		return nil, nil, false
	}
	return payload.Batch, payload.Items, true
}

func (c *Redis) Set(ctx context.Context, batch *domain.SelectionBatch, items []domain.SelectionItem) {
	if batch == nil {
		return
	}
	raw, err := json.Marshal(selectionPayload{Batch: batch, Items: items})
	if err != nil {
		c.logger.Debug("selection cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, selectionKey, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("selection cache write failed", zap.Error(err))
	}
}

func (c *Redis) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, selectionKey).Err(); err != nil {
		c.logger.Debug("selection cache invalidate failed", zap.Error(err))
	}
}

func (c *Redis) Close() error {
	return c.client.Close()
}
