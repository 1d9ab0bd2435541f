package ledger_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"stockbook/internal/domain/catalog"
	"stockbook/internal/domain/ledger"
	"stockbook/internal/infrastructure/storage/postgres"
)

const catalogProductsTable = "catalog_products"

var catalogProductColumns = []string{
	"product", "category", "initial_stock", "effective_date", "min_stock", "configured",
	"price", "stock", "quantity_sold", "stock_value", "last_sale", "updated_at",
}

// ProductRepo implements catalog.Store.
type ProductRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewProductRepo creates a catalog product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

type productRow struct {
	Product       string          `db:"product"`
	Category      string          `db:"category"`
	InitialStock  int             `db:"initial_stock"`
	EffectiveDate *time.Time      `db:"effective_date"`
	MinStock      int             `db:"min_stock"`
	Configured    bool            `db:"configured"`
	Price         decimal.Decimal `db:"price"`
	Stock         int             `db:"stock"`
	QuantitySold  int             `db:"quantity_sold"`
	StockValue    decimal.Decimal `db:"stock_value"`
	LastSale      *time.Time      `db:"last_sale"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func (r productRow) toDomain() catalog.Product {
	p := catalog.Product{
		Key:          ledger.NewProductKey(r.Product, r.Category),
		InitialStock: r.InitialStock,
		MinStock:     r.MinStock,
		Configured:   r.Configured,
		Price:        r.Price,
		Stock:        r.Stock,
		QuantitySold: r.QuantitySold,
		StockValue:   r.StockValue,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.EffectiveDate != nil {
		p.EffectiveDate = *r.EffectiveDate
	}
	if r.LastSale != nil {
		p.LastSale = *r.LastSale
	}
	return p
}

// ListProducts returns the whole catalog sorted by category then name.
func (r *ProductRepo) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	sql, args, err := r.builder.
		Select(catalogProductColumns...).
		From(catalogProductsTable).
		OrderBy("category", "product").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []productRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}

	products := make([]catalog.Product, len(rows))
	for i, row := range rows {
		products[i] = row.toDomain()
	}
	return products, nil
}

// PutProducts upserts a batch of products in one transaction.
func (r *ProductRepo) PutProducts(ctx context.Context, batch []catalog.Product) error {
	if len(batch) == 0 {
		return nil
	}

	return r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, p := range batch {
			var effectiveDate, lastSale *time.Time
			if !p.EffectiveDate.IsZero() {
				d := p.EffectiveDate
				effectiveDate = &d
			}
			if !p.LastSale.IsZero() {
				d := p.LastSale
				lastSale = &d
			}

			sql, args, err := r.builder.
				Insert(catalogProductsTable).
				Columns(catalogProductColumns...).
				Values(
					p.Key.Name, p.Key.Category, p.InitialStock, effectiveDate, p.MinStock, p.Configured,
					p.Price, p.Stock, p.QuantitySold, p.StockValue, lastSale, p.UpdatedAt,
				).
				Suffix(`ON CONFLICT (product, category) DO UPDATE SET
					initial_stock = EXCLUDED.initial_stock,
					effective_date = EXCLUDED.effective_date,
					min_stock = EXCLUDED.min_stock,
					configured = EXCLUDED.configured,
					price = EXCLUDED.price,
					stock = EXCLUDED.stock,
					quantity_sold = EXCLUDED.quantity_sold,
					stock_value = EXCLUDED.stock_value,
					last_sale = EXCLUDED.last_sale,
					updated_at = EXCLUDED.updated_at`).
				ToSql()
			if err != nil {
				return fmt.Errorf("build query: %w", err)
			}

			if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
				return fmt.Errorf("upsert product %s: %w", p.Key.String(), err)
			}
		}
		return nil
	})
}

// DeleteProduct removes a product from the display catalog. Ledger events
// stay behind as orphaned history.
func (r *ProductRepo) DeleteProduct(ctx context.Context, key ledger.ProductKey) error {
	sql, args, err := r.builder.
		Delete(catalogProductsTable).
		Where(squirrel.Eq{"product": key.Name, "category": key.Category}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
