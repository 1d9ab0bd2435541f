package stock

import (
	"context"
	"fmt"
	"time"

	"stockbook/internal/domain/ledger"
)

// Service answers stock queries by combining the pure calculator and
// reconstructor with snapshots read from the store ports. Reads only;
// recomputation is reentrant and safe to run per-product in parallel.
type Service struct {
	events      ledger.EventStore
	checkpoints ledger.CheckpointStore
	cache       *Cache
}

// NewService creates a stock query service.
func NewService(events ledger.EventStore, checkpoints ledger.CheckpointStore, cache *Cache) *Service {
	return &Service{events: events, checkpoints: checkpoints, cache: cache}
}

// ProductStock reconciles one product's current stock, memoized until the
// product's events or checkpoint change.
func (s *Service) ProductStock(ctx context.Context, key ledger.ProductKey) (Result, error) {
	cp, err := s.checkpoints.GetCheckpoint(ctx, key)
	if err != nil {
		return Result{}, fmt.Errorf("get checkpoint: %w", err)
	}
	events, err := s.events.ListEvents(ctx, ledger.EventFilter{Product: &key})
	if err != nil {
		return Result{}, fmt.Errorf("list events: %w", err)
	}
	return s.cache.ComputeCached(key, cp, events), nil
}

// Movements reconstructs the ordered movement sequence, optionally for a
// single product.
func (s *Service) Movements(ctx context.Context, key *ledger.ProductKey) ([]Movement, error) {
	checkpoints, err := s.checkpoints.ListCheckpoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	events, err := s.events.ListEvents(ctx, ledger.EventFilter{Product: key})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	if key != nil {
		if cp, ok := checkpoints[*key]; ok {
			checkpoints = map[ledger.ProductKey]ledger.StockCheckpoint{*key: cp}
		} else {
			checkpoints = nil
		}
	}

	return BuildMovements(checkpoints, events), nil
}

// StockAsOf reconstructs a product's stock at the end of the target day.
func (s *Service) StockAsOf(ctx context.Context, key ledger.ProductKey, target time.Time) (int, error) {
	movements, err := s.Movements(ctx, &key)
	if err != nil {
		return 0, err
	}
	return AsOf(key, movements, target), nil
}

// Audit compares cached product stocks against the reconstructed ledger and
// returns mismatches as warnings. Never fails on a mismatch.
func (s *Service) Audit(ctx context.Context, cached map[ledger.ProductKey]float64) ([]Mismatch, error) {
	movements, err := s.Movements(ctx, nil)
	if err != nil {
		return nil, err
	}
	return AuditConsistency(cached, movements, time.Now().UTC()), nil
}
