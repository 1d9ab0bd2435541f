package stock

import (
	"sync"
	"time"

	"stockbook/internal/core/types"
	"stockbook/internal/domain/ledger"
)

// cacheKey identifies one memoized computation. Event count stands in for an
// event-set hash: the ledger is append-only, so a changed count always means
// changed inputs, and every mutation path additionally invalidates by product.
type cacheKey struct {
	product       ledger.ProductKey
	effectiveDate time.Time
	eventCount    int
}

// Cache memoizes Compute results per product. It is an optimization layer
// only: correctness never depends on it, since Compute is pure and callers
// invalidate explicitly whenever events or checkpoints for a product change.
type Cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]Result
}

// NewCache creates an empty result cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]Result)}
}

// Get returns a memoized result for the product and inputs, if present.
func (c *Cache) Get(key ledger.ProductKey, cp *ledger.StockCheckpoint, eventCount int) (Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, ok := c.entries[c.keyFor(key, cp, eventCount)]
	return res, ok
}

// Put memoizes a result.
func (c *Cache) Put(key ledger.ProductKey, cp *ledger.StockCheckpoint, eventCount int, res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[c.keyFor(key, cp, eventCount)] = res
}

// ComputeCached returns the memoized result when inputs are unchanged,
// computing and storing it otherwise.
func (c *Cache) ComputeCached(key ledger.ProductKey, cp *ledger.StockCheckpoint, events []ledger.SaleEvent) Result {
	if res, ok := c.Get(key, cp, len(events)); ok {
		return res
	}
	res := Compute(cp, events)
	c.Put(key, cp, len(events), res)
	return res
}

// Invalidate drops every memoized result for a product. Called after an
// import commit or checkpoint save touching that product.
func (c *Cache) Invalidate(key ledger.ProductKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.product == key {
			delete(c.entries, k)
		}
	}
}

// InvalidateAll empties the cache.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]Result)
}

// Len returns the number of memoized entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) keyFor(key ledger.ProductKey, cp *ledger.StockCheckpoint, eventCount int) cacheKey {
	k := cacheKey{product: key, eventCount: eventCount}
	if cp != nil && cp.Configured {
		k.effectiveDate = types.DayOf(cp.EffectiveDate)
	}
	return k
}
