// Package importer merges externally sourced rows into the sale event
// ledger: per-row validation, duplicate classification against both the
// store and the batch itself, and size-bounded sequential commits.
package importer

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/ledger"
)

// Logical field names recognized on imported rows. Unrecognized fields are
// ignored by NormalizeFields.
const (
	FieldProduct  = "product"
	FieldCategory = "category"
	FieldRegister = "register"
	FieldDate     = "date"
	FieldSeller   = "seller"
	FieldQuantity = "quantity"
	FieldTotal    = "total"
)

// RawRow is one parsed record from a spreadsheet or clipboard paste, keyed by
// logical field name. Line is 1-based and refers to the source sheet, for
// operator-facing error messages.
type RawRow struct {
	Line   int               `json:"line"`
	Fields map[string]string `json:"fields"`
}

// RowError reports a per-row parse or validation failure. The row is excluded
// from the import; the error is surfaced in the preview, never raised.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	return "row " + strconv.Itoa(e.Row) + ", " + e.Field + ": " + e.Message
}

// ParseSaleRow converts a raw row into a candidate sale event. All field
// failures for the row are collected, not just the first.
func ParseSaleRow(row RawRow) (ledger.SaleEvent, []RowError) {
	var errs []RowError

	get := func(field string) string {
		return strings.TrimSpace(row.Fields[field])
	}

	event := ledger.SaleEvent{
		ID:       id.New(),
		Product:  get(FieldProduct),
		Category: get(FieldCategory),
		Register: get(FieldRegister),
		Seller:   get(FieldSeller),
	}

	if event.Product == "" {
		errs = append(errs, RowError{Row: row.Line, Field: FieldProduct, Message: "product is required"})
	}

	if raw := get(FieldDate); raw == "" {
		errs = append(errs, RowError{Row: row.Line, Field: FieldDate, Message: "date is required"})
	} else if date, err := types.ParseDay(raw); err != nil {
		errs = append(errs, RowError{Row: row.Line, Field: FieldDate, Message: err.Error()})
	} else {
		event.Date = date
	}

	if raw := get(FieldQuantity); raw == "" {
		errs = append(errs, RowError{Row: row.Line, Field: FieldQuantity, Message: "quantity is required"})
	} else if qty, err := strconv.Atoi(raw); err != nil {
		errs = append(errs, RowError{Row: row.Line, Field: FieldQuantity, Message: "quantity must be an integer"})
	} else if qty < 0 {
		errs = append(errs, RowError{Row: row.Line, Field: FieldQuantity, Message: "quantity must not be negative"})
	} else {
		event.Quantity = qty
	}

	if raw := get(FieldTotal); raw == "" {
		errs = append(errs, RowError{Row: row.Line, Field: FieldTotal, Message: "total is required"})
	} else if total, err := types.ParseMoney(raw); err != nil {
		errs = append(errs, RowError{Row: row.Line, Field: FieldTotal, Message: err.Error()})
	} else {
		event.Total = total
	}

	// Imports carry the transaction total, not a unit price; derive the
	// observed unit price for weighted-average pricing.
	if event.Quantity > 0 {
		event.UnitPrice = event.Total.Div(decimal.NewFromInt(int64(event.Quantity)))
	}

	event.CreatedAt = time.Now().UTC()

	return event, errs
}
