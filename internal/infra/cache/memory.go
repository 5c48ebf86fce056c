package cache

import (
	"context"
	"sync"
	"time"

	"github.com/drseanwing/trolleys/internal/domain"
)

// Memory is an in-process selection cache for single-instance
// deployments and tests.
type Memory struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time

	batch     *domain.SelectionBatch
	items     []domain.SelectionItem
	expiresAt time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now}
}

func (c *Memory) Get(ctx context.Context) (*domain.SelectionBatch, []domain.SelectionItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.batch == nil {
		return nil, nil, false
	}
	if c.ttl > 0 && c.now().After(c.expiresAt) {
		c.batch = nil
		c.items = nil
		return nil, nil, false
	}
	batch := *c.batch
	items := make([]domain.SelectionItem, len(c.items))
	copy(items, c.items)
	return &batch, items, true
}

func (c *Memory) Set(ctx context.Context, batch *domain.SelectionBatch, items []domain.SelectionItem) {
	if batch == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *batch
	c.batch = &copied
	c.items = make([]domain.SelectionItem, len(items))
	copy(c.items, items)
	if c.ttl > 0 {
		c.expiresAt = c.now().Add(c.ttl)
	}
}

func (c *Memory) Invalidate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batch = nil
	c.items = nil
}
