package ledger_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"stockbook/internal/domain/ledger"
	"stockbook/internal/infrastructure/storage/postgres"
)

const stockCheckpointsTable = "stock_checkpoints"

// CheckpointRepo implements ledger.CheckpointStore.
type CheckpointRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewCheckpointRepo creates a stock checkpoint repository.
func NewCheckpointRepo(txManager *postgres.TxManager) *CheckpointRepo {
	return &CheckpointRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

type checkpointRow struct {
	Product         string    `db:"product"`
	Category        string    `db:"category"`
	InitialQuantity int       `db:"initial_quantity"`
	EffectiveDate   time.Time `db:"effective_date"`
	MinStock        int       `db:"min_stock"`
	Configured      bool      `db:"configured"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// GetCheckpoint returns the checkpoint for a product, or nil when none exists.
func (r *CheckpointRepo) GetCheckpoint(ctx context.Context, key ledger.ProductKey) (*ledger.StockCheckpoint, error) {
	sql, args, err := r.builder.
		Select("product", "category", "initial_quantity", "effective_date", "min_stock", "configured", "updated_at").
		From(stockCheckpointsTable).
		Where(squirrel.Eq{"product": key.Name, "category": key.Category}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row checkpointRow
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &row, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get checkpoint: %w", err)
	}

	return &ledger.StockCheckpoint{
		InitialQuantity: row.InitialQuantity,
		EffectiveDate:   row.EffectiveDate,
		MinStock:        row.MinStock,
		Configured:      row.Configured,
	}, nil
}

// PutCheckpoint creates or replaces the checkpoint for a product.
func (r *CheckpointRepo) PutCheckpoint(ctx context.Context, key ledger.ProductKey, cp ledger.StockCheckpoint) error {
	cp = cp.Normalize()

	sql, args, err := r.builder.
		Insert(stockCheckpointsTable).
		Columns("product", "category", "initial_quantity", "effective_date", "min_stock", "configured", "updated_at").
		Values(key.Name, key.Category, cp.InitialQuantity, cp.EffectiveDate, cp.MinStock, cp.Configured, time.Now().UTC()).
		Suffix(`ON CONFLICT (product, category) DO UPDATE SET
			initial_quantity = EXCLUDED.initial_quantity,
			effective_date = EXCLUDED.effective_date,
			min_stock = EXCLUDED.min_stock,
			configured = EXCLUDED.configured,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert checkpoint: %w", err)
	}
	return nil
}

// ListCheckpoints returns every stored checkpoint keyed by product.
func (r *CheckpointRepo) ListCheckpoints(ctx context.Context) (map[ledger.ProductKey]ledger.StockCheckpoint, error) {
	sql, args, err := r.builder.
		Select("product", "category", "initial_quantity", "effective_date", "min_stock", "configured", "updated_at").
		From(stockCheckpointsTable).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []checkpointRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select checkpoints: %w", err)
	}

	out := make(map[ledger.ProductKey]ledger.StockCheckpoint, len(rows))
	for _, row := range rows {
		out[ledger.NewProductKey(row.Product, row.Category)] = ledger.StockCheckpoint{
			InitialQuantity: row.InitialQuantity,
			EffectiveDate:   row.EffectiveDate,
			MinStock:        row.MinStock,
			Configured:      row.Configured,
		}
	}
	return out, nil
}
