package catalog

import (
	"sort"
	"time"

	"stockbook/internal/domain/ledger"
	"stockbook/internal/domain/stock"
)

// SyncResult reports the outcome of deriving the catalog from the ledger.
type SyncResult struct {
	Updated []Product
	Created []Product
}

// Changed returns all touched products, updated first.
func (r SyncResult) Changed() []Product {
	out := make([]Product, 0, len(r.Updated)+len(r.Created))
	out = append(out, r.Updated...)
	out = append(out, r.Created...)
	return out
}

// Sync derives the product catalog from sale events, preserving configured
// checkpoints. Safe to run repeatedly: the same event set always produces the
// same product fields.
//
// Rules per product group:
//   - existing and configured: only QuantitySold and LastSale are refreshed;
//     operator-set stock figures are sacrosanct.
//   - existing but unconfigured, or entirely new: stock fields are
//     re-estimated (Compute's fallback path) and the product stays
//     marked unconfigured.
func Sync(events []ledger.SaleEvent, existing []Product) SyncResult {
	byKey := make(map[ledger.ProductKey]Product, len(existing))
	for _, p := range existing {
		byKey[p.Key] = p
	}

	groups := make(map[ledger.ProductKey][]ledger.SaleEvent)
	for _, e := range events {
		key := e.Key()
		groups[key] = append(groups[key], e)
	}

	// Deterministic product order regardless of map iteration.
	keys := make([]ledger.ProductKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Category != keys[j].Category {
			return keys[i].Category < keys[j].Category
		}
		return keys[i].Name < keys[j].Name
	})

	var result SyncResult
	now := time.Now().UTC()

	for _, key := range keys {
		group := groups[key]

		if current, ok := byKey[key]; ok && current.Configured {
			res := stock.Compute(current.Checkpoint(), group)
			current.QuantitySold = res.QuantitySold
			current.LastSale = res.LastSale
			current.UpdatedAt = now
			result.Updated = append(result.Updated, current)
			continue
		}

		res := stock.Compute(nil, group)
		p := Product{
			Key:          key,
			InitialStock: res.InitialQuantity,
			Configured:   false,
			Price:        res.Price,
			Stock:        res.Stock,
			QuantitySold: res.QuantitySold,
			StockValue:   res.StockValue,
			LastSale:     res.LastSale,
			UpdatedAt:    now,
		}
		if current, ok := byKey[key]; ok {
			// Keep operator-facing threshold even on unconfigured products.
			p.MinStock = current.MinStock
			result.Updated = append(result.Updated, p)
		} else {
			result.Created = append(result.Created, p)
		}
	}

	return result
}
