package ledger

import (
	"time"

	"stockbook/internal/core/types"
)

// StockCheckpoint is the operator-declared stock baseline for one product:
// an initial quantity effective from a given day, from which subsequent
// sales are subtracted.
//
// Configured == false means the values were auto-estimated by product sync
// and must not be treated as authoritative for stock-alert purposes.
type StockCheckpoint struct {
	InitialQuantity int       `json:"initialQuantity"` // >= 0
	EffectiveDate   time.Time `json:"effectiveDate"`   // date only, no time component
	MinStock        int       `json:"minStock"`        // >= 0
	Configured      bool      `json:"configured"`
}

// Normalize truncates the effective date to day granularity.
func (c StockCheckpoint) Normalize() StockCheckpoint {
	if !c.EffectiveDate.IsZero() {
		c.EffectiveDate = types.DayOf(c.EffectiveDate)
	}
	return c
}
