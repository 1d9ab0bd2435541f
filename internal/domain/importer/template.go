package importer

import "strings"

// Template describes the column layout of an import flow, exposed so the
// external UI can offer a downloadable sheet and map pasted headers back to
// logical fields.
type Template struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// SaleTemplate is the sale-event import layout. Amount is the transaction
// total, not a unit price.
var SaleTemplate = Template{
	Name:    "sales",
	Columns: []string{"Product", "Category", "Register", "Date", "Seller", "Quantity", "Amount"},
}

// QuantityTemplate is the stock-quantity import layout.
var QuantityTemplate = Template{
	Name:    "stock",
	Columns: []string{"Product", "Category", "Quantity", "Date"},
}

// columnFields maps recognized column headers to logical field names.
// Matching is case-insensitive; anything else is dropped.
var columnFields = map[string]string{
	"product":  FieldProduct,
	"category": FieldCategory,
	"register": FieldRegister,
	"date":     FieldDate,
	"seller":   FieldSeller,
	"quantity": FieldQuantity,
	"amount":   FieldTotal,
	"total":    FieldTotal,
}

// NormalizeFields rewrites a header-keyed record into a logical-field-keyed
// one, ignoring unrecognized columns.
func NormalizeFields(record map[string]string) map[string]string {
	fields := make(map[string]string, len(record))
	for header, value := range record {
		if field, ok := columnFields[strings.ToLower(strings.TrimSpace(header))]; ok {
			fields[field] = value
		}
	}
	return fields
}

// NormalizeRows converts header-keyed records into RawRows with 1-based line
// numbers, ready for Preview.
func NormalizeRows(records []map[string]string) []RawRow {
	rows := make([]RawRow, 0, len(records))
	for i, record := range records {
		rows = append(rows, RawRow{Line: i + 1, Fields: NormalizeFields(record)})
	}
	return rows
}
