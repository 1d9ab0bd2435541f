package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stockbook/internal/domain/ledger"
)

func TestCache_MemoizesPerInputs(t *testing.T) {
	cache := NewCache()
	key := ledger.NewProductKey("Widget", "Tools")
	events := []ledger.SaleEvent{
		sale("Widget", "Tools", "2024-06-02", 3, "2.00"),
	}

	first := cache.ComputeCached(key, nil, events)
	assert.Equal(t, 1, cache.Len())

	second := cache.ComputeCached(key, nil, events)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.Len())
}

func TestCache_EventCountChangesKey(t *testing.T) {
	cache := NewCache()
	key := ledger.NewProductKey("Widget", "Tools")
	events := []ledger.SaleEvent{
		sale("Widget", "Tools", "2024-06-02", 3, "2.00"),
	}

	cache.ComputeCached(key, nil, events)
	grown := append(events, sale("Widget", "Tools", "2024-06-03", 1, "2.00"))
	res := cache.ComputeCached(key, nil, grown)

	assert.Equal(t, 4, res.QuantitySold, "appended event must be reflected, not served stale")
	assert.Equal(t, 2, cache.Len())
}

func TestCache_EffectiveDateChangesKey(t *testing.T) {
	cache := NewCache()
	key := ledger.NewProductKey("Widget", "Tools")
	events := []ledger.SaleEvent{
		sale("Widget", "Tools", "2024-06-02", 3, "2.00"),
	}

	early := &ledger.StockCheckpoint{InitialQuantity: 10, EffectiveDate: day("2024-06-01"), Configured: true}
	late := &ledger.StockCheckpoint{InitialQuantity: 10, EffectiveDate: day("2024-06-10"), Configured: true}

	a := cache.ComputeCached(key, early, events)
	b := cache.ComputeCached(key, late, events)

	assert.Equal(t, 7, a.Stock)
	assert.Equal(t, 10, b.Stock)
	assert.Equal(t, 2, cache.Len())
}

func TestCache_InvalidatePerProduct(t *testing.T) {
	cache := NewCache()
	widget := ledger.NewProductKey("Widget", "Tools")
	gadget := ledger.NewProductKey("Gadget", "Tools")

	cache.ComputeCached(widget, nil, nil)
	cache.ComputeCached(gadget, nil, nil)
	assert.Equal(t, 2, cache.Len())

	cache.Invalidate(widget)
	assert.Equal(t, 1, cache.Len())

	_, ok := cache.Get(gadget, nil, 0)
	assert.True(t, ok, "other products stay cached")
}

func TestCache_InvalidateAll(t *testing.T) {
	cache := NewCache()
	cache.ComputeCached(ledger.NewProductKey("A", "X"), nil, nil)
	cache.ComputeCached(ledger.NewProductKey("B", "X"), nil, nil)

	cache.InvalidateAll()
	assert.Equal(t, 0, cache.Len())
}
