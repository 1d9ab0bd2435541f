package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"stockbook/internal/domain/importer"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// SessionLister reads back recorded import sessions. Nil when the engine
// runs without an audit store.
type SessionLister interface {
	ListRecent(ctx context.Context, limit int) ([]importer.Session, error)
}

// ImportHandler serves the two import flows.
type ImportHandler struct {
	*BaseHandler
	imports  *importer.Service
	sessions SessionLister
}

// NewImportHandler creates a new import handler.
func NewImportHandler(base *BaseHandler, imports *importer.Service, sessions SessionLister) *ImportHandler {
	return &ImportHandler{BaseHandler: base, imports: imports, sessions: sessions}
}

// Templates returns the column layouts for both import flows.
// GET /api/v1/imports/templates
func (h *ImportHandler) Templates(c *gin.Context) {
	h.OK(c, dto.TemplatesResponse{
		Sales: importer.SaleTemplate,
		Stock: importer.QuantityTemplate,
	})
}

// PreviewSales classifies a candidate sale batch without writing anything.
// POST /api/v1/imports/sales/preview
func (h *ImportHandler) PreviewSales(c *gin.Context) {
	var req dto.ImportRequest
	if !h.BindJSON(c, &req) {
		return
	}

	preview, err := h.imports.PreviewSales(c.Request.Context(), req.Rows)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSalePreview(preview))
}

// CommitSales previews and commits a sale batch in one call. The preview runs
// server-side against the current ledger, so rows that became duplicates
// since the client's preview are skipped, not double-counted.
// POST /api/v1/imports/sales
func (h *ImportHandler) CommitSales(c *gin.Context) {
	var req dto.ImportRequest
	if !h.BindJSON(c, &req) {
		return
	}

	preview, err := h.imports.PreviewSales(c.Request.Context(), req.Rows)
	if err != nil {
		h.Error(c, err)
		return
	}

	applied, err := h.imports.CommitSales(c.Request.Context(), preview)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.CommitResponse{
		Applied:    applied,
		Duplicates: len(preview.Duplicates),
		Errors:     len(preview.Errors),
	})
}

// PreviewQuantities resolves a stock-quantity batch against the catalog.
// POST /api/v1/imports/stock/preview
func (h *ImportHandler) PreviewQuantities(c *gin.Context) {
	var req dto.ImportRequest
	if !h.BindJSON(c, &req) {
		return
	}

	preview, err := h.imports.PreviewQuantities(c.Request.Context(), req.Rows)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromQuantityPreview(preview))
}

// ApplyQuantities resolves and applies a stock-quantity batch.
// POST /api/v1/imports/stock
func (h *ImportHandler) ApplyQuantities(c *gin.Context) {
	var req dto.ImportRequest
	if !h.BindJSON(c, &req) {
		return
	}

	preview, err := h.imports.PreviewQuantities(c.Request.Context(), req.Rows)
	if err != nil {
		h.Error(c, err)
		return
	}

	applied, err := h.imports.ApplyQuantities(c.Request.Context(), preview.Updates)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.CommitResponse{
		Applied: applied,
		Errors:  len(preview.Errors),
	})
}

// Sessions lists recent import sessions from the audit trail.
// GET /api/v1/imports/sessions?limit=
func (h *ImportHandler) Sessions(c *gin.Context) {
	limit := h.ParseIntQuery(c, "limit", 20)

	sessions, err := h.sessions.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.SessionResponse, len(sessions))
	for i, s := range sessions {
		items[i] = dto.FromSession(s)
	}
	h.OK(c, dto.ListResponse[dto.SessionResponse]{Items: items, Total: len(items)})
}
