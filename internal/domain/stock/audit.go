package stock

import (
	"math"
	"time"

	"stockbook/internal/domain/ledger"
)

// auditTolerance absorbs rounding noise when cached figures were produced by
// an external system that stores stock as a decimal.
const auditTolerance = 0.01

// Mismatch reports a product whose cached stock disagrees with the stock
// reconstructed from the movement ledger. Mismatches are data-integrity
// warnings, never fatal: historical events are not mutated to "fix" them.
type Mismatch struct {
	Key         ledger.ProductKey `json:"productKey"`
	CachedStock float64           `json:"cachedStock"`
	LedgerStock int               `json:"ledgerStock"`
}

// AuditConsistency compares cached per-product stock figures against
// AsOf(now) over the movement sequence and returns every disagreement beyond
// the rounding tolerance.
func AuditConsistency(cached map[ledger.ProductKey]float64, movements []Movement, now time.Time) []Mismatch {
	// Stable iteration: audit in movement order, first appearance wins.
	seen := make(map[ledger.ProductKey]bool, len(cached))
	var mismatches []Mismatch

	for _, m := range movements {
		cachedStock, ok := cached[m.Key]
		if !ok || seen[m.Key] {
			continue
		}
		seen[m.Key] = true

		ledgerStock := AsOf(m.Key, movements, now)
		if math.Abs(cachedStock-float64(ledgerStock)) > auditTolerance {
			mismatches = append(mismatches, Mismatch{
				Key:         m.Key,
				CachedStock: cachedStock,
				LedgerStock: ledgerStock,
			})
		}
	}

	return mismatches
}
