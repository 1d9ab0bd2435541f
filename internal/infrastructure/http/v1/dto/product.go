package dto

import (
	"time"

	"stockbook/internal/domain/catalog"
)

// ProductResponse is the catalog view of one product.
type ProductResponse struct {
	Name     string `json:"name"`
	Category string `json:"category"`

	Price        string     `json:"price"`
	Stock        int        `json:"stock"`
	QuantitySold int        `json:"quantitySold"`
	StockValue   string     `json:"stockValue"`
	LastSale     *time.Time `json:"lastSale,omitempty"`

	InitialStock  int        `json:"initialStock"`
	EffectiveDate *time.Time `json:"effectiveDate,omitempty"`
	MinStock      int        `json:"minStock"`
	Configured    bool       `json:"configured"`
	LowStock      bool       `json:"lowStock"`
}

// FromProduct converts a catalog product to its API shape.
func FromProduct(p catalog.Product) ProductResponse {
	resp := ProductResponse{
		Name:         p.Key.Name,
		Category:     p.Key.Category,
		Price:        p.Price.StringFixed(2),
		Stock:        p.Stock,
		QuantitySold: p.QuantitySold,
		StockValue:   p.StockValue.StringFixed(2),
		InitialStock: p.InitialStock,
		MinStock:     p.MinStock,
		Configured:   p.Configured,
		LowStock:     p.LowStock(),
	}
	if !p.LastSale.IsZero() {
		t := p.LastSale
		resp.LastSale = &t
	}
	if !p.EffectiveDate.IsZero() {
		t := p.EffectiveDate
		resp.EffectiveDate = &t
	}
	return resp
}
