// Package ledger_repo provides PostgreSQL implementations of the ledger
// store ports.
package ledger_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"stockbook/internal/core/id"
	"stockbook/internal/domain/ledger"
	"stockbook/internal/infrastructure/storage/postgres"
)

const saleEventsTable = "sale_events"

var saleEventColumns = []string{
	"id", "product", "category", "register", "seller",
	"sold_on", "quantity", "unit_price", "total", "created_at",
}

// EventRepo implements ledger.EventStore.
type EventRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewEventRepo creates a sale event repository.
func NewEventRepo(txManager *postgres.TxManager) *EventRepo {
	return &EventRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

type saleEventRow struct {
	ID        id.ID           `db:"id"`
	Product   string          `db:"product"`
	Category  string          `db:"category"`
	Register  string          `db:"register"`
	Seller    string          `db:"seller"`
	SoldOn    time.Time       `db:"sold_on"`
	Quantity  int             `db:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price"`
	Total     decimal.Decimal `db:"total"`
	CreatedAt time.Time       `db:"created_at"`
}

func (r saleEventRow) toDomain() ledger.SaleEvent {
	return ledger.SaleEvent{
		ID:        r.ID,
		Product:   r.Product,
		Category:  r.Category,
		Register:  r.Register,
		Seller:    r.Seller,
		Date:      r.SoldOn,
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
		Total:     r.Total,
		CreatedAt: r.CreatedAt,
	}
}

// ListEvents returns events matching the filter, oldest first. Insertion
// order is preserved within a day by the created_at, id tie-break.
func (r *EventRepo) ListEvents(ctx context.Context, filter ledger.EventFilter) ([]ledger.SaleEvent, error) {
	q := r.builder.
		Select(saleEventColumns...).
		From(saleEventsTable).
		OrderBy("sold_on", "created_at", "id")

	if filter.Product != nil {
		q = q.Where(squirrel.Eq{
			"product":  filter.Product.Name,
			"category": filter.Product.Category,
		})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []saleEventRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}

	events := make([]ledger.SaleEvent, len(rows))
	for i, row := range rows {
		events[i] = row.toDomain()
	}
	return events, nil
}

// AppendEvents writes a batch atomically using the COPY protocol. The whole
// batch lands in one transaction, so a failure leaves no partial rows and the
// import layer's applied count stays exact.
func (r *EventRepo) AppendEvents(ctx context.Context, batch []ledger.SaleEvent) error {
	if len(batch) == 0 {
		return nil
	}

	return r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		rows := make([][]any, 0, len(batch))
		for _, e := range batch {
			rows = append(rows, []any{
				e.ID, e.Product, e.Category, e.Register, e.Seller,
				e.Date, e.Quantity, e.UnitPrice, e.Total, e.CreatedAt,
			})
		}

		inserter := postgres.NewBatchInserter(r.txManager)
		if _, err := inserter.CopyFromSlice(ctx, saleEventsTable, saleEventColumns, rows); err != nil {
			return fmt.Errorf("copy events: %w", err)
		}
		return nil
	})
}
