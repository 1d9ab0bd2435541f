// Package catalog maintains the derived Product view over the sale event
// ledger. Products are display entities: deleting one never touches the
// ledger, whose historical events simply become orphaned.
package catalog

import (
	"context"
	"time"

	"stockbook/internal/core/types"
	"stockbook/internal/domain/ledger"
)

// Product is the derived per-product view: checkpoint projection plus
// aggregates computed from sale events.
type Product struct {
	Key ledger.ProductKey `json:"key"`

	// Checkpoint projection.
	InitialStock  int       `json:"initialStock"`
	EffectiveDate time.Time `json:"effectiveDate"`
	MinStock      int       `json:"minStock"`
	Configured    bool      `json:"configured"`

	// Aggregates derived from the ledger.
	Price        types.Money `json:"price"` // quantity-weighted average unit price
	Stock        int         `json:"stock"`
	QuantitySold int         `json:"quantitySold"`
	StockValue   types.Money `json:"stockValue"`
	LastSale     time.Time   `json:"lastSale"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// Checkpoint returns the product's checkpoint projection, or nil when the
// stock figures were auto-estimated.
func (p Product) Checkpoint() *ledger.StockCheckpoint {
	if !p.Configured {
		return nil
	}
	return &ledger.StockCheckpoint{
		InitialQuantity: p.InitialStock,
		EffectiveDate:   p.EffectiveDate,
		MinStock:        p.MinStock,
		Configured:      true,
	}
}

// LowStock reports whether the product is at or below its minimum threshold.
// Only operator-configured baselines raise stock alerts; estimates are not
// authoritative.
func (p Product) LowStock() bool {
	return p.Configured && p.Stock <= p.MinStock
}

// Store is the persistence port for the product catalog.
type Store interface {
	// ListProducts returns the whole catalog.
	ListProducts(ctx context.Context) ([]Product, error)

	// PutProducts creates or replaces products by key.
	PutProducts(ctx context.Context, batch []Product) error

	// DeleteProduct removes a product from the display catalog. Ledger
	// events for the product are left untouched.
	DeleteProduct(ctx context.Context, key ledger.ProductKey) error
}
