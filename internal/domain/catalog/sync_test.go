package catalog

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/ledger"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func sale(product, category, date string, qty int, unitPrice string) ledger.SaleEvent {
	price := types.MustMoney(unitPrice)
	return ledger.SaleEvent{
		ID:        id.New(),
		Product:   product,
		Category:  category,
		Date:      day(date),
		Quantity:  qty,
		UnitPrice: price,
		Total:     price.Mul(decimal.NewFromInt(int64(qty))),
		CreatedAt: time.Now().UTC(),
	}
}

func TestSync_CreatesNewProductsFromEvents(t *testing.T) {
	events := []ledger.SaleEvent{
		sale("Widget", "Tools", "2024-06-02", 4, "2.50"),
		sale("Gadget", "Tools", "2024-06-03", 1, "9.00"),
	}

	result := Sync(events, nil)

	require.Len(t, result.Created, 2)
	assert.Empty(t, result.Updated)

	// Deterministic order: category, then name.
	assert.Equal(t, "Gadget", result.Created[0].Key.Name)
	assert.Equal(t, "Widget", result.Created[1].Key.Name)

	widget := result.Created[1]
	assert.False(t, widget.Configured)
	assert.Equal(t, 4, widget.QuantitySold)
	assert.Equal(t, 10, widget.InitialStock, "estimated baseline")
}

func TestSync_ConfiguredProductsKeepStockFigures(t *testing.T) {
	key := ledger.NewProductKey("Widget", "Tools")
	existing := []Product{{
		Key:           key,
		InitialStock:  100,
		EffectiveDate: day("2024-06-01"),
		MinStock:      5,
		Configured:    true,
		Stock:         97,
	}}
	events := []ledger.SaleEvent{
		sale("Widget", "Tools", "2024-06-02", 3, "2.00"),
		sale("Widget", "Tools", "2024-06-04", 2, "2.00"),
	}

	result := Sync(events, existing)

	require.Len(t, result.Updated, 1)
	p := result.Updated[0]
	assert.True(t, p.Configured)
	assert.Equal(t, 100, p.InitialStock, "operator baseline untouched")
	assert.Equal(t, 97, p.Stock, "configured stock is not re-estimated")
	assert.Equal(t, 5, p.QuantitySold, "activity fields are refreshed")
	assert.Equal(t, day("2024-06-04"), p.LastSale)
}

func TestSync_UnconfiguredExistingIsReestimated(t *testing.T) {
	key := ledger.NewProductKey("Widget", "Tools")
	existing := []Product{{
		Key:      key,
		MinStock: 7,
		Stock:    3,
	}}
	events := []ledger.SaleEvent{
		sale("Widget", "Tools", "2024-06-02", 20, "1.00"),
	}

	result := Sync(events, existing)

	require.Len(t, result.Updated, 1)
	p := result.Updated[0]
	assert.False(t, p.Configured)
	assert.Equal(t, 30, p.InitialStock, "ceil(20*1.5)")
	assert.Equal(t, 10, p.Stock)
	assert.Equal(t, 7, p.MinStock, "operator threshold survives re-estimation")
}

func TestSync_Idempotent(t *testing.T) {
	events := []ledger.SaleEvent{
		sale("Widget", "Tools", "2024-06-02", 4, "2.50"),
	}

	first := Sync(events, nil)
	second := Sync(events, first.Changed())

	require.Len(t, second.Updated, 1)
	a, b := first.Created[0], second.Updated[0]
	assert.Equal(t, a.Stock, b.Stock)
	assert.Equal(t, a.QuantitySold, b.QuantitySold)
	assert.Equal(t, a.InitialStock, b.InitialStock)
	assert.True(t, a.Price.Equal(b.Price))
}

func TestSync_ProductsWithoutEventsAreUntouched(t *testing.T) {
	existing := []Product{{
		Key:   ledger.NewProductKey("Dormant", "Misc"),
		Stock: 12,
	}}
	events := []ledger.SaleEvent{
		sale("Widget", "Tools", "2024-06-02", 1, "1.00"),
	}

	result := Sync(events, existing)

	for _, p := range result.Changed() {
		assert.NotEqual(t, "Dormant", p.Key.Name, "sync only touches products with events")
	}
}

func TestProduct_LowStock(t *testing.T) {
	p := Product{Stock: 3, MinStock: 5}
	assert.False(t, p.LowStock(), "unconfigured products never alarm")

	p.Configured = true
	assert.True(t, p.LowStock())

	p.Stock = 5
	assert.True(t, p.LowStock(), "at the threshold still alarms")

	p.Stock = 6
	assert.False(t, p.LowStock())
}
