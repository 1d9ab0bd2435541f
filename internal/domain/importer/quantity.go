package importer

import (
	"strconv"
	"strings"
	"time"

	"stockbook/internal/core/types"
	"stockbook/internal/domain/ledger"
)

// QuantityUpdate is one row of the stock-quantity import flow resolved
// against the catalog: quantity to add to a product's baseline, with the
// product either fuzzy-matched to an existing one or new.
type QuantityUpdate struct {
	Product  ledger.ProductKey `json:"product"`
	Quantity int               `json:"quantity"`
	Date     time.Time         `json:"date"`

	// Existing is true when the product was matched to the catalog; Imported
	// preserves the raw identity from the sheet for operator review.
	Existing bool              `json:"existing"`
	Imported ledger.ProductKey `json:"imported"`
}

// QuantityPreview classifies a stock-quantity batch before it is applied.
type QuantityPreview struct {
	Updates []QuantityUpdate `json:"updates"`
	Errors  []RowError       `json:"errors"`
}

// PreviewQuantities parses quantity rows and resolves each against the
// catalog with fuzzy matching. Unlike the sale-event flow there is no exact
// dedup here: the flow's purpose is adding to stock, not recording discrete
// transactions, so repeated rows simply add twice.
func PreviewQuantities(rows []RawRow, catalogKeys []ledger.ProductKey) QuantityPreview {
	var preview QuantityPreview

	for _, row := range rows {
		update, errs := parseQuantityRow(row)
		if len(errs) > 0 {
			preview.Errors = append(preview.Errors, errs...)
			continue
		}

		if matched, ok := MatchProduct(update.Imported.Name, update.Imported.Category, catalogKeys); ok {
			update.Product = matched
			update.Existing = true
		} else {
			update.Product = update.Imported
		}

		preview.Updates = append(preview.Updates, update)
	}

	return preview
}

func parseQuantityRow(row RawRow) (QuantityUpdate, []RowError) {
	var errs []RowError

	get := func(field string) string {
		return strings.TrimSpace(row.Fields[field])
	}

	update := QuantityUpdate{
		Imported: ledger.NewProductKey(get(FieldProduct), get(FieldCategory)),
	}

	if update.Imported.Name == "" {
		errs = append(errs, RowError{Row: row.Line, Field: FieldProduct, Message: "product is required"})
	}

	if raw := get(FieldQuantity); raw == "" {
		errs = append(errs, RowError{Row: row.Line, Field: FieldQuantity, Message: "quantity is required"})
	} else if qty, err := strconv.Atoi(raw); err != nil {
		errs = append(errs, RowError{Row: row.Line, Field: FieldQuantity, Message: "quantity must be an integer"})
	} else if qty < 0 {
		errs = append(errs, RowError{Row: row.Line, Field: FieldQuantity, Message: "quantity must not be negative"})
	} else {
		update.Quantity = qty
	}

	// Date is optional on quantity rows; apply falls back to today.
	if raw := get(FieldDate); raw != "" {
		if date, err := types.ParseDay(raw); err != nil {
			errs = append(errs, RowError{Row: row.Line, Field: FieldDate, Message: err.Error()})
		} else {
			update.Date = date
		}
	}

	return update, errs
}
