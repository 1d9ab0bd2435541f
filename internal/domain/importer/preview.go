package importer

import (
	"stockbook/internal/domain/ledger"
)

// PreviewResult classifies every row of a candidate batch before anything is
// written. Duplicates are informational, not errors: they are excluded from
// the commit and reported separately.
type PreviewResult struct {
	Accepted   []ledger.SaleEvent `json:"accepted"`
	Duplicates []ledger.SaleEvent `json:"duplicates"`
	Errors     []RowError         `json:"errors"`
}

// Preview parses raw rows and classifies each candidate as new,
// duplicate-of-existing, or duplicate-within-batch.
//
// A candidate is a duplicate when its seven-field identity key matches either
// an already persisted event or an earlier accepted candidate in the same
// batch; the batch-internal check keeps a pasted sheet with repeated rows
// from double-counting. First occurrence wins.
func Preview(rows []RawRow, existing []ledger.SaleEvent) PreviewResult {
	persisted := make(map[string]bool, len(existing))
	for _, e := range existing {
		persisted[e.IdentityKey()] = true
	}

	var result PreviewResult
	inBatch := make(map[string]bool, len(rows))

	for _, row := range rows {
		candidate, errs := ParseSaleRow(row)
		if len(errs) > 0 {
			result.Errors = append(result.Errors, errs...)
			continue
		}

		key := candidate.IdentityKey()
		switch {
		case persisted[key], inBatch[key]:
			result.Duplicates = append(result.Duplicates, candidate)
		default:
			inBatch[key] = true
			result.Accepted = append(result.Accepted, candidate)
		}
	}

	return result
}

// AffectedProducts returns the distinct product identities of the accepted
// candidates, in first-seen order.
func (r PreviewResult) AffectedProducts() []ledger.ProductKey {
	seen := make(map[ledger.ProductKey]bool)
	var keys []ledger.ProductKey
	for _, e := range r.Accepted {
		key := e.Key()
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}
