// Package main seeds a stockbook database with demo data.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/catalog"
	"stockbook/internal/domain/ledger"
	"stockbook/internal/domain/stock"
	"stockbook/internal/infrastructure/storage/postgres"
	"stockbook/internal/infrastructure/storage/postgres/ledger_repo"
	"stockbook/pkg/logger"
)

type demoSale struct {
	product  string
	category string
	register string
	seller   string
	daysAgo  int
	quantity int
	total    string
}

var demoSales = []demoSale{
	{"Espresso Beans 1kg", "Coffee", "Front", "mara", 21, 3, "53.70"},
	{"Espresso Beans 1kg", "Coffee", "Front", "mara", 14, 2, "35.80"},
	{"Espresso Beans 1kg", "Coffee", "Back", "jon", 7, 5, "89.50"},
	{"Filter Papers 100pk", "Coffee", "Front", "jon", 18, 10, "49.00"},
	{"Filter Papers 100pk", "Coffee", "Front", "mara", 5, 4, "19.60"},
	{"Ceramic Mug", "Merch", "Front", "mara", 12, 6, "77.40"},
	{"Ceramic Mug", "Merch", "Back", "jon", 3, 2, "25.80"},
	{"Cold Brew Bottle", "Merch", "Front", "jon", 9, 1, "18.50"},
}

func main() {
	log, err := logger.New(logger.Config{Level: "info", Development: true})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Println("required environment variable DATABASE_URL not set")
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	events := ledger_repo.NewEventRepo(txManager)
	checkpoints := ledger_repo.NewCheckpointRepo(txManager)
	products := ledger_repo.NewProductRepo(txManager)

	now := time.Now().UTC()

	batch := make([]ledger.SaleEvent, 0, len(demoSales))
	for _, s := range demoSales {
		total := types.MustMoney(s.total)
		e := ledger.SaleEvent{
			ID:        id.New(),
			Product:   s.product,
			Category:  s.category,
			Register:  s.register,
			Seller:    s.seller,
			Date:      types.DayOf(now.AddDate(0, 0, -s.daysAgo)),
			Quantity:  s.quantity,
			Total:     total,
			CreatedAt: now,
		}
		if s.quantity > 0 {
			e.UnitPrice = total.Div(decimal.NewFromInt(int64(s.quantity)))
		}
		batch = append(batch, e)
	}

	if err := events.AppendEvents(ctx, batch); err != nil {
		log.Fatalw("failed to append demo events", "error", err)
	}
	log.Infow("demo events appended", "count", len(batch))

	// One product gets an operator checkpoint so both the configured and the
	// estimated paths show up in the demo catalog.
	beans := ledger.NewProductKey("Espresso Beans 1kg", "Coffee")
	cp := ledger.StockCheckpoint{
		InitialQuantity: 40,
		EffectiveDate:   types.DayOf(now.AddDate(0, 0, -30)),
		MinStock:        5,
		Configured:      true,
	}
	if err := checkpoints.PutCheckpoint(ctx, beans, cp); err != nil {
		log.Fatalw("failed to put demo checkpoint", "error", err)
	}

	all, err := events.ListEvents(ctx, ledger.EventFilter{})
	if err != nil {
		log.Fatalw("failed to list events", "error", err)
	}
	synced := catalog.Sync(all, nil).Changed()

	// Re-derive the checkpointed product with its baseline applied.
	for i, p := range synced {
		if p.Key != beans {
			continue
		}
		group := make([]ledger.SaleEvent, 0)
		for _, e := range all {
			if e.Key() == beans {
				group = append(group, e)
			}
		}
		res := stock.Compute(&cp, group)
		p.InitialStock = cp.InitialQuantity
		p.EffectiveDate = cp.EffectiveDate
		p.MinStock = cp.MinStock
		p.Configured = true
		p.Stock = res.Stock
		p.QuantitySold = res.QuantitySold
		p.StockValue = res.StockValue
		p.Price = res.Price
		p.LastSale = res.LastSale
		synced[i] = p
	}

	if err := products.PutProducts(ctx, synced); err != nil {
		log.Fatalw("failed to put demo products", "error", err)
	}

	log.Infow("seed complete", "products", len(synced))
}
