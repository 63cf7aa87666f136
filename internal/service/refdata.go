package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/baansom-pos/api/internal/database"
)

// DiscountLoader fetches the active discount list from the store.
type DiscountLoader func(ctx context.Context) ([]database.Discount, error)

// DiscountCache serves the active discount list with a TTL so the POS
// front end can poll it without hammering the database. Stale data is
// acceptable here; discounts change a few times a month.
type DiscountCache struct {
	load DiscountLoader
	ttl  time.Duration
	now  func() time.Time

	mu        sync.Mutex
	cached    []database.Discount
	fetchedAt time.Time
}

// NewDiscountCache creates a cache over the given loader.
func NewDiscountCache(load DiscountLoader, ttl time.Duration) *DiscountCache {
	return &DiscountCache{load: load, ttl: ttl, now: time.Now}
}

// Active returns the cached discount list, refreshing it when the TTL
// has elapsed. On refresh failure the previous list is served if one
// exists.
func (c *DiscountCache) Active(ctx context.Context) ([]database.Discount, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.cached, nil
	}

	fresh, err := c.load(ctx)
	if err != nil {
		if c.cached != nil {
			return c.cached, nil
		}
		return nil, fmt.Errorf("load discounts: %w", err)
	}
	c.cached = fresh
	c.fetchedAt = c.now()
	return c.cached, nil
}

// Invalidate drops the cached list so the next read hits the store.
func (c *DiscountCache) Invalidate() {
	c.mu.Lock()
	c.cached = nil
	c.mu.Unlock()
}
