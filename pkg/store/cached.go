package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/sankeyflow/pkg/cache"
	"github.com/matzehuels/sankeyflow/pkg/observability"
)

// keyTypeChart labels chart lookups in cache metrics.
const keyTypeChart = "chart"

// Cached reads charts through a cache. Charts never change after Save, so
// entries are only dropped on Delete or expiry.
type Cached struct {
	Store
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// NewCached wraps s with c. A nil keyer uses cache.NewDefaultKeyer.
func NewCached(s Store, c cache.Cache, keyer cache.Keyer, ttl time.Duration) *Cached {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Cached{Store: s, cache: c, keyer: keyer, ttl: ttl}
}

// Get returns the cached record or loads and caches it. Cache failures
// fall back to the store.
func (c *Cached) Get(ctx context.Context, id string) (*Record, error) {
	key := c.keyer.ChartKey(id)
	if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
		var rec Record
		if json.Unmarshal(data, &rec) == nil {
			observability.Cache().OnCacheHit(ctx, keyTypeChart)
			return &rec, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeChart)

	rec, err := c.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(rec); err == nil {
		if c.cache.Set(ctx, key, data, c.ttl) == nil {
			observability.Cache().OnCacheSet(ctx, keyTypeChart, len(data))
		}
	}
	return rec, nil
}

// Delete removes the chart from the store and the cache.
func (c *Cached) Delete(ctx context.Context, id string) error {
	if err := c.Store.Delete(ctx, id); err != nil {
		return err
	}
	return c.cache.Delete(ctx, c.keyer.ChartKey(id))
}

// Close closes the store. The cache is owned by the caller.
func (c *Cached) Close(ctx context.Context) error {
	return c.Store.Close(ctx)
}
