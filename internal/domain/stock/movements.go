package stock

import (
	"sort"
	"time"

	"stockbook/internal/core/types"
	"stockbook/internal/domain/ledger"
)

// MovementType classifies a stock movement.
type MovementType string

const (
	MovementInitial    MovementType = "initial"
	MovementSale       MovementType = "sale"
	MovementAdjustment MovementType = "adjustment"
)

// Movement is a signed quantity delta used to reconstruct stock at any point
// in time. Movements are derived on demand from checkpoints and events and
// never persisted.
type Movement struct {
	Key       ledger.ProductKey `json:"productKey"`
	Type      MovementType      `json:"type"`
	Quantity  int               `json:"quantity"` // signed
	Date      time.Time         `json:"date"`
	Reference string            `json:"reference"`
}

// BuildMovements expands checkpoints and events into a uniform movement
// sequence: one positive initial movement per configured checkpoint, one
// negative sale movement per event. The result is sorted ascending by date
// with ties kept in insertion order.
//
// Ordering matters for display and debugging only; summation is commutative,
// so movement order never changes a computed stock level.
func BuildMovements(checkpoints map[ledger.ProductKey]ledger.StockCheckpoint, events []ledger.SaleEvent) []Movement {
	movements := make([]Movement, 0, len(checkpoints)+len(events))

	// Deterministic checkpoint order so repeated builds are identical.
	keys := make([]ledger.ProductKey, 0, len(checkpoints))
	for key := range checkpoints {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Category != keys[j].Category {
			return keys[i].Category < keys[j].Category
		}
		return keys[i].Name < keys[j].Name
	})

	for _, key := range keys {
		cp := checkpoints[key]
		if !cp.Configured {
			// Estimated baselines are not authoritative ledger entries.
			continue
		}
		movements = append(movements, Movement{
			Key:       key,
			Type:      MovementInitial,
			Quantity:  cp.InitialQuantity,
			Date:      types.DayOf(cp.EffectiveDate),
			Reference: "initial stock",
		})
	}

	for _, e := range events {
		movements = append(movements, Movement{
			Key:       e.Key(),
			Type:      MovementSale,
			Quantity:  -e.Quantity,
			Date:      e.Date,
			Reference: e.Register,
		})
	}

	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].Date.Before(movements[j].Date)
	})

	return movements
}

// AsOf reconstructs a product's stock at the end of the target day by summing
// signed movement quantities, clamped at zero.
//
// Sale movements dated before the product's initial movement are skipped:
// sales before the checkpoint's effective date stay visible as history but
// never deplete stock. This keeps AsOf(today) equal to Compute(...).Stock for
// the same checkpoint and events.
func AsOf(key ledger.ProductKey, movements []Movement, target time.Time) int {
	cutoff := types.EndOfDay(target)

	// A configured product has exactly one initial movement.
	var baseline time.Time
	hasBaseline := false
	for _, m := range movements {
		if m.Key == key && m.Type == MovementInitial {
			baseline = types.DayOf(m.Date)
			hasBaseline = true
			break
		}
	}

	sum := 0
	for _, m := range movements {
		if m.Key != key || m.Date.After(cutoff) {
			continue
		}
		if m.Type == MovementSale && hasBaseline && types.DayOf(m.Date).Before(baseline) {
			continue
		}
		sum += m.Quantity
	}
	if sum < 0 {
		return 0
	}
	return sum
}
