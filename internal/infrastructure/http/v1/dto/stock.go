package dto

import (
	"time"

	"stockbook/internal/domain/stock"
)

// StockResponse is one product's reconciled stock figures.
type StockResponse struct {
	Stock           int        `json:"stock"`
	QuantitySold    int        `json:"quantitySold"`
	InitialQuantity int        `json:"initialQuantity"`
	Estimated       bool       `json:"estimated"`
	Price           string     `json:"price"`
	StockValue      string     `json:"stockValue"`
	LastSale        *time.Time `json:"lastSale,omitempty"`
}

// FromStockResult converts a calculator result to its API shape.
func FromStockResult(r stock.Result) StockResponse {
	resp := StockResponse{
		Stock:           r.Stock,
		QuantitySold:    r.QuantitySold,
		InitialQuantity: r.InitialQuantity,
		Estimated:       r.Estimated,
		Price:           r.Price.StringFixed(2),
		StockValue:      r.StockValue.StringFixed(2),
	}
	if !r.LastSale.IsZero() {
		t := r.LastSale
		resp.LastSale = &t
	}
	return resp
}

// MovementResponse is one reconstructed stock movement.
type MovementResponse struct {
	Product   string    `json:"product"`
	Category  string    `json:"category"`
	Type      string    `json:"type"`
	Quantity  int       `json:"quantity"`
	Date      time.Time `json:"date"`
	Reference string    `json:"reference,omitempty"`
}

// FromMovement converts a movement to its API shape.
func FromMovement(m stock.Movement) MovementResponse {
	return MovementResponse{
		Product:   m.Key.Name,
		Category:  m.Key.Category,
		Type:      string(m.Type),
		Quantity:  m.Quantity,
		Date:      m.Date,
		Reference: m.Reference,
	}
}

// MismatchResponse is one consistency-audit finding.
type MismatchResponse struct {
	Product     string  `json:"product"`
	Category    string  `json:"category"`
	CachedStock float64 `json:"cachedStock"`
	LedgerStock int     `json:"ledgerStock"`
}

// FromMismatch converts an audit mismatch to its API shape.
func FromMismatch(m stock.Mismatch) MismatchResponse {
	return MismatchResponse{
		Product:     m.Key.Name,
		Category:    m.Key.Category,
		CachedStock: m.CachedStock,
		LedgerStock: m.LedgerStock,
	}
}
