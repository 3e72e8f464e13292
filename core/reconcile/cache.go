package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// cachedPlan is a plan plus the time it was built.
type cachedPlan struct {
	plan  *SyncPlan
	built time.Time
}

// PlanCache memoizes plans by key for a fixed TTL.
// A zero TTL disables caching; every call rebuilds.
type PlanCache struct {
	mu      sync.RWMutex
	entries map[string]cachedPlan
	sf      singleflight.Group
	ttl     time.Duration
	now     func() time.Time
}

// NewPlanCache creates a cache with the given TTL.
func NewPlanCache(ttl time.Duration) *PlanCache {
	return &PlanCache{
		entries: make(map[string]cachedPlan),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *PlanCache) fresh(key string) (*SyncPlan, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok || c.ttl <= 0 || c.now().Sub(entry.built) > c.ttl {
		return nil, false
	}
	return entry.plan, true
}

// GetOrBuild returns the cached plan for key, or builds a new one if it is
// missing or expired. Concurrent builds for the same key are collapsed into one.
func (c *PlanCache) GetOrBuild(ctx context.Context, key string, build func(context.Context) (*SyncPlan, error)) (*SyncPlan, error) {
	if plan, ok := c.fresh(key); ok {
		return plan, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		if plan, ok := c.fresh(key); ok {
			return plan, nil
		}

		plan, err := build(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = cachedPlan{plan: plan, built: c.now()}
		c.mu.Unlock()

		return plan, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*SyncPlan), nil
}

// Invalidate drops the cached plan for key.
// Callers invalidate after mutating the table so the next plan sees the new schema.
func (c *PlanCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Purge drops every cached plan.
func (c *PlanCache) Purge() {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
}
