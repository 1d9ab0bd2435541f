// Package ledger provides the append-only sale event ledger and the stock
// checkpoint records it is reconciled against. Events are immutable once
// created; corrections happen by importing compensating rows (negative
// totals), never by editing history.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// ProductKey identifies a product by name and category.
// Comparable, usable as a map key across the engine.
type ProductKey struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// NewProductKey builds a key with surrounding whitespace removed.
func NewProductKey(name, category string) ProductKey {
	return ProductKey{
		Name:     strings.TrimSpace(name),
		Category: strings.TrimSpace(category),
	}
}

func (k ProductKey) String() string {
	return k.Name + " / " + k.Category
}

// IsZero reports whether the key carries no identity.
func (k ProductKey) IsZero() bool {
	return k.Name == "" && k.Category == ""
}

// SaleEvent is one immutable sale transaction in the ledger.
// Total is the authoritative monetary amount; it is never derived by
// multiplying Quantity by UnitPrice and may be negative for refunds.
type SaleEvent struct {
	ID        id.ID       `json:"id"`
	Product   string      `json:"product"`
	Category  string      `json:"category"`
	Register  string      `json:"register"`
	Seller    string      `json:"seller"`
	Date      time.Time   `json:"date"` // day granularity is what matters
	Quantity  int         `json:"quantity"` // always >= 0, refunds carry sign on Total
	UnitPrice types.Money `json:"unitPrice"`
	Total     types.Money `json:"total"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Key returns the product identity of the event.
func (e SaleEvent) Key() ProductKey {
	return NewProductKey(e.Product, e.Category)
}

// IdentityKey returns the deduplication key: two events are the same
// transaction only when all seven fields match, with the date compared at
// day granularity and the total at full decimal value.
func (e SaleEvent) IdentityKey() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%d|%s",
		strings.TrimSpace(e.Product),
		strings.TrimSpace(e.Category),
		strings.TrimSpace(e.Register),
		types.DayOf(e.Date).Format("2006-01-02"),
		strings.TrimSpace(e.Seller),
		e.Quantity,
		e.Total.StringFixed(4),
	)
}
