package dto

import (
	"time"

	"stockbook/internal/domain/importer"
	"stockbook/internal/domain/ledger"
)

// ImportRequest carries header-keyed records parsed by the external UI from
// whatever tabular source it accepted.
type ImportRequest struct {
	Rows []map[string]string `json:"rows" binding:"required"`
}

// SaleEventResponse is one sale event candidate or ledger entry.
type SaleEventResponse struct {
	ID        string    `json:"id"`
	Product   string    `json:"product"`
	Category  string    `json:"category"`
	Register  string    `json:"register,omitempty"`
	Seller    string    `json:"seller,omitempty"`
	Date      time.Time `json:"date"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unitPrice"`
	Total     string    `json:"total"`
}

// FromSaleEvent converts a sale event to its API shape.
func FromSaleEvent(e ledger.SaleEvent) SaleEventResponse {
	return SaleEventResponse{
		ID:        e.ID.String(),
		Product:   e.Product,
		Category:  e.Category,
		Register:  e.Register,
		Seller:    e.Seller,
		Date:      e.Date,
		Quantity:  e.Quantity,
		UnitPrice: e.UnitPrice.StringFixed(2),
		Total:     e.Total.StringFixed(2),
	}
}

// RowErrorResponse is one per-row validation failure.
type RowErrorResponse struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SalePreviewResponse classifies a candidate batch before commit.
type SalePreviewResponse struct {
	Accepted   []SaleEventResponse `json:"accepted"`
	Duplicates []SaleEventResponse `json:"duplicates"`
	Errors     []RowErrorResponse  `json:"errors"`
}

// FromSalePreview converts a preview result to its API shape.
func FromSalePreview(p importer.PreviewResult) SalePreviewResponse {
	resp := SalePreviewResponse{
		Accepted:   make([]SaleEventResponse, len(p.Accepted)),
		Duplicates: make([]SaleEventResponse, len(p.Duplicates)),
		Errors:     make([]RowErrorResponse, len(p.Errors)),
	}
	for i, e := range p.Accepted {
		resp.Accepted[i] = FromSaleEvent(e)
	}
	for i, e := range p.Duplicates {
		resp.Duplicates[i] = FromSaleEvent(e)
	}
	for i, e := range p.Errors {
		resp.Errors[i] = RowErrorResponse{Row: e.Row, Field: e.Field, Message: e.Message}
	}
	return resp
}

// CommitResponse reports the outcome of a commit: Applied is exact even when
// the commit failed at a batch boundary.
type CommitResponse struct {
	Applied    int `json:"applied"`
	Duplicates int `json:"duplicates"`
	Errors     int `json:"errors"`
}

// QuantityUpdateResponse is one resolved stock-quantity row.
type QuantityUpdateResponse struct {
	Product          string     `json:"product"`
	Category         string     `json:"category"`
	Quantity         int        `json:"quantity"`
	Date             *time.Time `json:"date,omitempty"`
	Existing         bool       `json:"existing"`
	ImportedProduct  string     `json:"importedProduct"`
	ImportedCategory string     `json:"importedCategory"`
}

// QuantityPreviewResponse classifies a stock-quantity batch.
type QuantityPreviewResponse struct {
	Updates []QuantityUpdateResponse `json:"updates"`
	Errors  []RowErrorResponse       `json:"errors"`
}

// FromQuantityPreview converts a quantity preview to its API shape.
func FromQuantityPreview(p importer.QuantityPreview) QuantityPreviewResponse {
	resp := QuantityPreviewResponse{
		Updates: make([]QuantityUpdateResponse, len(p.Updates)),
		Errors:  make([]RowErrorResponse, len(p.Errors)),
	}
	for i, u := range p.Updates {
		item := QuantityUpdateResponse{
			Product:          u.Product.Name,
			Category:         u.Product.Category,
			Quantity:         u.Quantity,
			Existing:         u.Existing,
			ImportedProduct:  u.Imported.Name,
			ImportedCategory: u.Imported.Category,
		}
		if !u.Date.IsZero() {
			t := u.Date
			item.Date = &t
		}
		resp.Updates[i] = item
	}
	for i, e := range p.Errors {
		resp.Errors[i] = RowErrorResponse{Row: e.Row, Field: e.Field, Message: e.Message}
	}
	return resp
}

// SessionResponse summarizes one recorded import session.
type SessionResponse struct {
	ID         string    `json:"id"`
	Flow       string    `json:"flow"`
	Accepted   int       `json:"accepted"`
	Duplicates int       `json:"duplicates"`
	Errors     int       `json:"errors"`
	Applied    int       `json:"applied"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// FromSession converts an import session to its API shape.
func FromSession(s importer.Session) SessionResponse {
	return SessionResponse{
		ID:         s.ID.String(),
		Flow:       s.Flow,
		Accepted:   s.Accepted,
		Duplicates: s.Duplicates,
		Errors:     s.Errors,
		Applied:    s.Applied,
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
	}
}

// TemplatesResponse lists the import column layouts.
type TemplatesResponse struct {
	Sales importer.Template `json:"sales"`
	Stock importer.Template `json:"stock"`
}
