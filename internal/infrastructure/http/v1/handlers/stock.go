package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain/catalog"
	"stockbook/internal/domain/ledger"
	"stockbook/internal/domain/stock"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// StockHandler serves reconciled stock figures and ledger reconstructions.
type StockHandler struct {
	*BaseHandler
	stocks   *stock.Service
	products catalog.Store
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, stocks *stock.Service, products catalog.Store) *StockHandler {
	return &StockHandler{BaseHandler: base, stocks: stocks, products: products}
}

// Get returns one product's reconciled stock.
// GET /api/v1/stock?product=&category=
func (h *StockHandler) Get(c *gin.Context) {
	key, ok := h.ProductKeyQuery(c)
	if !ok {
		return
	}

	res, err := h.stocks.ProductStock(c.Request.Context(), key)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromStockResult(res))
}

// Movements returns the reconstructed movement sequence, for one product when
// the product query parameter is present, otherwise for the whole ledger.
// GET /api/v1/stock/movements
func (h *StockHandler) Movements(c *gin.Context) {
	var key *ledger.ProductKey
	if c.Query("product") != "" {
		k := ledger.NewProductKey(c.Query("product"), c.Query("category"))
		key = &k
	}

	movements, err := h.stocks.Movements(c.Request.Context(), key)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.MovementResponse, len(movements))
	for i, m := range movements {
		items[i] = dto.FromMovement(m)
	}
	h.OK(c, dto.ListResponse[dto.MovementResponse]{Items: items, Total: len(items)})
}

// AsOf returns a product's stock at the end of the requested day.
// GET /api/v1/stock/as-of?product=&category=&date=2006-01-02
func (h *StockHandler) AsOf(c *gin.Context) {
	key, ok := h.ProductKeyQuery(c)
	if !ok {
		return
	}

	target, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		h.Error(c, apperror.NewValidation("date query parameter must use the 2006-01-02 layout"))
		return
	}

	qty, err := h.stocks.StockAsOf(c.Request.Context(), key, target)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"product": key.Name, "category": key.Category, "date": c.Query("date"), "stock": qty})
}

// Audit compares catalog stock figures against the reconstructed ledger.
// Unconfigured products carry estimated figures with no baseline movement to
// back them, so only configured ones take part in the comparison.
// GET /api/v1/stock/audit
func (h *StockHandler) Audit(c *gin.Context) {
	products, err := h.products.ListProducts(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	cached := make(map[ledger.ProductKey]float64, len(products))
	for _, p := range products {
		if !p.Configured {
			continue
		}
		cached[p.Key] = float64(p.Stock)
	}

	mismatches, err := h.stocks.Audit(c.Request.Context(), cached)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.MismatchResponse, len(mismatches))
	for i, m := range mismatches {
		items[i] = dto.FromMismatch(m)
	}
	h.OK(c, dto.ListResponse[dto.MismatchResponse]{Items: items, Total: len(items)})
}
