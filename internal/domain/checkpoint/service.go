package checkpoint

import (
	"context"
	"fmt"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain/catalog"
	"stockbook/internal/domain/ledger"
	"stockbook/internal/domain/stock"
	"stockbook/pkg/logger"
)

// Service validates and saves stock checkpoints, then propagates the change
// into the derived product view.
type Service struct {
	checkpoints ledger.CheckpointStore
	events      ledger.EventStore
	products    catalog.Store
	cache       *stock.Cache
}

// NewService creates a checkpoint service.
func NewService(checkpoints ledger.CheckpointStore, events ledger.EventStore, products catalog.Store, cache *stock.Cache) *Service {
	return &Service{
		checkpoints: checkpoints,
		events:      events,
		products:    products,
		cache:       cache,
	}
}

// Get returns the stored checkpoint for a product, or nil when none exists.
func (s *Service) Get(ctx context.Context, key ledger.ProductKey) (*ledger.StockCheckpoint, error) {
	return s.checkpoints.GetCheckpoint(ctx, key)
}

// Preview validates a candidate without saving it.
func (s *Service) Preview(ctx context.Context, key ledger.ProductKey, candidate ledger.StockCheckpoint) ([]Warning, error) {
	events, err := s.events.ListEvents(ctx, ledger.EventFilter{Product: &key})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return Validate(candidate.Normalize(), events), nil
}

// Save validates the candidate and, unless a blocking finding exists, stores
// it as an operator-configured checkpoint and recomputes the product's stock.
// The returned warnings accompany a successful save; a blocking finding
// returns them alongside a CHECKPOINT_INVALID error and nothing is written.
func (s *Service) Save(ctx context.Context, key ledger.ProductKey, candidate ledger.StockCheckpoint) ([]Warning, error) {
	candidate = candidate.Normalize()

	events, err := s.events.ListEvents(ctx, ledger.EventFilter{Product: &key})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	warnings := Validate(candidate, events)
	if HasBlocking(warnings) {
		return warnings, apperror.NewCheckpointInvalid(FirstBlocking(warnings)).
			WithDetail("product", key.String())
	}

	candidate.Configured = true
	if err := s.checkpoints.PutCheckpoint(ctx, key, candidate); err != nil {
		return warnings, fmt.Errorf("put checkpoint: %w", err)
	}

	// The memoized result for this product is stale from here on.
	s.cache.Invalidate(key)

	res := stock.Compute(&candidate, events)
	product := catalog.Product{
		Key:           key,
		InitialStock:  candidate.InitialQuantity,
		EffectiveDate: candidate.EffectiveDate,
		MinStock:      candidate.MinStock,
		Configured:    true,
		Price:         res.Price,
		Stock:         res.Stock,
		QuantitySold:  res.QuantitySold,
		StockValue:    res.StockValue,
		LastSale:      res.LastSale,
		UpdatedAt:     time.Now().UTC(),
	}
	if err := s.products.PutProducts(ctx, []catalog.Product{product}); err != nil {
		return warnings, fmt.Errorf("update product: %w", err)
	}

	logger.Info(ctx, "checkpoint saved",
		"product", key.String(),
		"initial_quantity", candidate.InitialQuantity,
		"effective_date", candidate.EffectiveDate.Format("2006-01-02"),
		"warnings", len(warnings),
	)

	return warnings, nil
}
