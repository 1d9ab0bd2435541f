// Package checkpoint provides checkpoint persistence with pre-save
// validation. Warnings are advisory; only error-severity findings block
// a save.
package checkpoint

import (
	"fmt"

	"stockbook/internal/core/types"
	"stockbook/internal/domain/ledger"
)

// Severity grades a validation finding.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Warning is one validation finding for a candidate checkpoint.
type Warning struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Validate inspects a candidate checkpoint against the product's recorded
// sale history and flags risky configurations. It never mutates anything;
// the caller decides whether to proceed based on severities.
func Validate(candidate ledger.StockCheckpoint, events []ledger.SaleEvent) []Warning {
	var warnings []Warning

	if candidate.EffectiveDate.IsZero() {
		warnings = append(warnings, Warning{
			Severity: SeverityError,
			Message:  "effective date is required",
		})
		// Date-dependent checks are meaningless without a date.
		return warnings
	}

	if candidate.InitialQuantity < 0 {
		warnings = append(warnings, Warning{
			Severity: SeverityError,
			Message:  "initial quantity must not be negative",
		})
	}
	if candidate.MinStock < 0 {
		warnings = append(warnings, Warning{
			Severity: SeverityError,
			Message:  "minimum stock must not be negative",
		})
	}

	effective := types.DayOf(candidate.EffectiveDate)

	var before, since int
	for _, e := range events {
		if types.DayOf(e.Date).Before(effective) {
			before++
		} else {
			since += e.Quantity
		}
	}

	if before > 0 {
		warnings = append(warnings, Warning{
			Severity: SeverityWarning,
			Message: fmt.Sprintf(
				"%d sale(s) recorded before the effective date will be excluded from stock depletion",
				before),
		})
	}

	if since > candidate.InitialQuantity {
		warnings = append(warnings, Warning{
			Severity: SeverityWarning,
			Message: fmt.Sprintf(
				"projected stock is negative: %d units sold since the effective date exceed the initial quantity of %d",
				since, candidate.InitialQuantity),
		})
	}

	if len(events) == 0 {
		warnings = append(warnings, Warning{
			Severity: SeverityInfo,
			Message:  "no sales recorded for this product yet",
		})
	}

	return warnings
}

// HasBlocking reports whether any finding is error severity.
func HasBlocking(warnings []Warning) bool {
	for _, w := range warnings {
		if w.Severity == SeverityError {
			return true
		}
	}
	return false
}

// FirstBlocking returns the first error-severity message, or empty string.
func FirstBlocking(warnings []Warning) string {
	for _, w := range warnings {
		if w.Severity == SeverityError {
			return w.Message
		}
	}
	return ""
}
