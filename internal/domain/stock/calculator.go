// Package stock derives stock levels and valuations from the sale event
// ledger. Everything here is pure computation over an in-memory snapshot of
// events; reads and writes live behind the ledger store ports.
package stock

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"stockbook/internal/core/types"
	"stockbook/internal/domain/ledger"
)

// Result is the outcome of reconciling one product's checkpoint against its
// sale events.
type Result struct {
	// Stock is current stock, floored at zero.
	Stock int

	// QuantitySold counts units sold on or after the effective date.
	QuantitySold int

	// InitialQuantity is the baseline the stock was derived from. When
	// Estimated is true it is a placeholder, not operator configuration.
	InitialQuantity int
	Estimated       bool

	// Price is the quantity-weighted average of observed unit prices.
	Price types.Money

	// StockValue = round2(Stock * Price).
	StockValue types.Money

	// LastSale is the most recent sale date over all events, including those
	// before the effective date; it is informational, not authoritative.
	LastSale time.Time
}

// Compute reconciles a checkpoint against the product's full event set.
//
// Pure and deterministic: identical inputs always produce identical outputs,
// which is what lets results be memoized keyed on (product, effective date,
// event count). Degrades to zeros on an empty event set, never fails.
//
// When the checkpoint is absent or unconfigured, the initial quantity is
// estimated as max(10, ceil(totalSold*1.5)) so callers still get a plausible
// stock figure; the estimate never flows back into an operator-configured
// checkpoint.
func Compute(cp *ledger.StockCheckpoint, events []ledger.SaleEvent) Result {
	var (
		totalSold int
		lastSale  time.Time
	)
	for _, e := range events {
		totalSold += e.Quantity
		if e.Date.After(lastSale) {
			lastSale = e.Date
		}
	}

	res := Result{
		Price:    weightedAveragePrice(events),
		LastSale: lastSale,
	}

	if cp == nil || !cp.Configured {
		// Non-authoritative placeholder so the caller has something to show.
		res.InitialQuantity = estimateInitial(totalSold)
		res.Estimated = true
		res.QuantitySold = totalSold
	} else {
		effective := types.DayOf(cp.EffectiveDate)
		for _, e := range events {
			if !types.DayOf(e.Date).Before(effective) {
				res.QuantitySold += e.Quantity
			}
		}
		res.InitialQuantity = cp.InitialQuantity
	}

	res.Stock = res.InitialQuantity - res.QuantitySold
	if res.Stock < 0 {
		res.Stock = 0
	}
	res.StockValue = types.Round2(decimal.NewFromInt(int64(res.Stock)).Mul(res.Price))

	return res
}

// estimateInitial produces the fallback baseline for unconfigured products.
func estimateInitial(totalSold int) int {
	est := int(math.Ceil(float64(totalSold) * 1.5))
	if est < 10 {
		return 10
	}
	return est
}

// weightedAveragePrice averages unit prices weighted by quantity. Events with
// zero quantity contribute nothing; with no weighted observations at all the
// price is zero.
func weightedAveragePrice(events []ledger.SaleEvent) types.Money {
	var (
		weighted = decimal.Zero
		units    int64
	)
	for _, e := range events {
		if e.Quantity <= 0 {
			continue
		}
		weighted = weighted.Add(e.UnitPrice.Mul(decimal.NewFromInt(int64(e.Quantity))))
		units += int64(e.Quantity)
	}
	if units == 0 {
		return decimal.Zero
	}
	return weighted.Div(decimal.NewFromInt(units))
}
