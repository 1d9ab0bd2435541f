package handlers

import (
	"github.com/gin-gonic/gin"

	"stockbook/internal/domain/catalog"
	"stockbook/internal/domain/stock"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves the derived product catalog.
type ProductHandler struct {
	*BaseHandler
	products catalog.Store
	cache    *stock.Cache
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, products catalog.Store, cache *stock.Cache) *ProductHandler {
	return &ProductHandler{BaseHandler: base, products: products, cache: cache}
}

// List returns all catalog products ordered by category and name.
// GET /api/v1/products
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.products.ListProducts(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.ProductResponse, len(products))
	for i, p := range products {
		items[i] = dto.FromProduct(p)
	}
	h.OK(c, dto.ListResponse[dto.ProductResponse]{Items: items, Total: len(items)})
}

// Delete removes one product from the catalog view. Ledger events stay; the
// next import of the product recreates it from history.
// DELETE /api/v1/products
func (h *ProductHandler) Delete(c *gin.Context) {
	key, ok := h.ProductKeyQuery(c)
	if !ok {
		return
	}

	if err := h.products.DeleteProduct(c.Request.Context(), key); err != nil {
		h.Error(c, err)
		return
	}
	h.cache.Invalidate(key)
	h.NoContent(c)
}
