package stock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbook/internal/domain/ledger"
)

func TestBuildMovements_OrderAndShape(t *testing.T) {
	key := ledger.NewProductKey("Widget", "Tools")
	checkpoints := map[ledger.ProductKey]ledger.StockCheckpoint{
		key: {InitialQuantity: 50, EffectiveDate: day("2024-06-01"), Configured: true},
	}
	events := []ledger.SaleEvent{
		sale("Widget", "Tools", "2024-06-10", 3, "2.00"),
		sale("Widget", "Tools", "2024-06-03", 5, "2.00"),
	}

	movements := BuildMovements(checkpoints, events)

	require.Len(t, movements, 3)
	assert.Equal(t, MovementInitial, movements[0].Type)
	assert.Equal(t, 50, movements[0].Quantity)
	assert.Equal(t, MovementSale, movements[1].Type)
	assert.Equal(t, -5, movements[1].Quantity)
	assert.Equal(t, -3, movements[2].Quantity)

	for i := 1; i < len(movements); i++ {
		assert.False(t, movements[i].Date.Before(movements[i-1].Date), "movements must be date-ascending")
	}
}

func TestBuildMovements_SkipsUnconfiguredCheckpoints(t *testing.T) {
	key := ledger.NewProductKey("Widget", "Tools")
	checkpoints := map[ledger.ProductKey]ledger.StockCheckpoint{
		key: {InitialQuantity: 50, EffectiveDate: day("2024-06-01"), Configured: false},
	}

	movements := BuildMovements(checkpoints, nil)

	assert.Empty(t, movements, "estimated baselines are not ledger entries")
}

func TestBuildMovements_Deterministic(t *testing.T) {
	checkpoints := map[ledger.ProductKey]ledger.StockCheckpoint{
		ledger.NewProductKey("B", "X"): {InitialQuantity: 1, EffectiveDate: day("2024-01-01"), Configured: true},
		ledger.NewProductKey("A", "X"): {InitialQuantity: 2, EffectiveDate: day("2024-01-01"), Configured: true},
		ledger.NewProductKey("C", "W"): {InitialQuantity: 3, EffectiveDate: day("2024-01-01"), Configured: true},
	}

	first := BuildMovements(checkpoints, nil)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, BuildMovements(checkpoints, nil))
	}
}

func TestAsOf_WalksForwardAndClamps(t *testing.T) {
	key := ledger.NewProductKey("Widget", "Tools")
	checkpoints := map[ledger.ProductKey]ledger.StockCheckpoint{
		key: {InitialQuantity: 10, EffectiveDate: day("2024-06-01"), Configured: true},
	}
	events := []ledger.SaleEvent{
		sale("Widget", "Tools", "2024-06-05", 4, "1.00"),
		sale("Widget", "Tools", "2024-06-10", 9, "1.00"),
	}
	movements := BuildMovements(checkpoints, events)

	assert.Equal(t, 0, AsOf(key, movements, day("2024-05-31")), "before the baseline nothing exists")
	assert.Equal(t, 10, AsOf(key, movements, day("2024-06-01")))
	assert.Equal(t, 6, AsOf(key, movements, day("2024-06-05")))
	assert.Equal(t, 0, AsOf(key, movements, day("2024-06-10")), "over-sold clamps at zero")
}

func TestAsOf_MatchesComputeForToday(t *testing.T) {
	key := ledger.NewProductKey("Widget", "Tools")
	cp := ledger.StockCheckpoint{InitialQuantity: 100, EffectiveDate: day("2024-06-01"), Configured: true}
	events := []ledger.SaleEvent{
		sale("Widget", "Tools", "2024-05-15", 10, "5.00"),
		sale("Widget", "Tools", "2024-06-02", 30, "5.00"),
		sale("Widget", "Tools", "2024-06-20", 7, "5.00"),
	}

	res := Compute(&cp, events)
	movements := BuildMovements(map[ledger.ProductKey]ledger.StockCheckpoint{key: cp}, events)
	reconstructed := AsOf(key, movements, time.Now().UTC())

	assert.Equal(t, res.Stock, reconstructed, "calculator and reconstructor must agree on current stock")
}

func TestAsOf_OrderIndependent(t *testing.T) {
	key := ledger.NewProductKey("Widget", "Tools")
	cp := map[ledger.ProductKey]ledger.StockCheckpoint{
		key: {InitialQuantity: 20, EffectiveDate: day("2024-06-01"), Configured: true},
	}
	events := []ledger.SaleEvent{
		sale("Widget", "Tools", "2024-06-02", 1, "1.00"),
		sale("Widget", "Tools", "2024-06-03", 2, "1.00"),
		sale("Widget", "Tools", "2024-06-04", 3, "1.00"),
	}
	reversed := []ledger.SaleEvent{events[2], events[1], events[0]}

	target := day("2024-06-30")
	assert.Equal(t,
		AsOf(key, BuildMovements(cp, events), target),
		AsOf(key, BuildMovements(cp, reversed), target),
		"summation is commutative over movement order")
}

func TestAsOf_IgnoresOtherProducts(t *testing.T) {
	key := ledger.NewProductKey("Widget", "Tools")
	other := ledger.NewProductKey("Gadget", "Tools")
	cp := map[ledger.ProductKey]ledger.StockCheckpoint{
		key:   {InitialQuantity: 5, EffectiveDate: day("2024-06-01"), Configured: true},
		other: {InitialQuantity: 100, EffectiveDate: day("2024-06-01"), Configured: true},
	}
	events := []ledger.SaleEvent{
		sale("Gadget", "Tools", "2024-06-02", 50, "1.00"),
	}

	assert.Equal(t, 5, AsOf(key, BuildMovements(cp, events), day("2024-06-30")))
}
