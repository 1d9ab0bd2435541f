// Package memory provides an in-memory implementation of the ledger,
// checkpoint and catalog store ports. Used in tests and as the backing store
// when no database is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"stockbook/internal/domain/catalog"
	"stockbook/internal/domain/ledger"
)

// Store implements ledger.EventStore, ledger.CheckpointStore and
// catalog.Store over process memory. Safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	events      []ledger.SaleEvent
	checkpoints map[ledger.ProductKey]ledger.StockCheckpoint
	products    map[ledger.ProductKey]catalog.Product

	// failAppendAfter, when > 0, fails AppendEvents after that many
	// successful calls. Test hook for partial-commit accounting.
	failAppendAfter int
	appendCalls     int
	failErr         error
}

// New creates an empty store.
func New() *Store {
	return &Store{
		checkpoints: make(map[ledger.ProductKey]ledger.StockCheckpoint),
		products:    make(map[ledger.ProductKey]catalog.Product),
	}
}

// FailAppendAfter makes AppendEvents return err after n successful calls.
func (s *Store) FailAppendAfter(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAppendAfter = n
	s.appendCalls = 0
	s.failErr = err
}

// --- ledger.EventStore ---

// ListEvents returns matching events oldest first (insertion order).
func (s *Store) ListEvents(_ context.Context, filter ledger.EventFilter) ([]ledger.SaleEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ledger.SaleEvent, 0, len(s.events))
	for _, e := range s.events {
		if filter.Product != nil && e.Key() != *filter.Product {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// AppendEvents appends a batch atomically.
func (s *Store) AppendEvents(_ context.Context, batch []ledger.SaleEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failAppendAfter > 0 {
		s.appendCalls++
		if s.appendCalls > s.failAppendAfter {
			return s.failErr
		}
	}

	s.events = append(s.events, batch...)
	return nil
}

// --- ledger.CheckpointStore ---

func (s *Store) GetCheckpoint(_ context.Context, key ledger.ProductKey) (*ledger.StockCheckpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if cp, ok := s.checkpoints[key]; ok {
		return &cp, nil
	}
	return nil, nil
}

func (s *Store) PutCheckpoint(_ context.Context, key ledger.ProductKey, cp ledger.StockCheckpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkpoints[key] = cp.Normalize()
	return nil
}

func (s *Store) ListCheckpoints(_ context.Context) (map[ledger.ProductKey]ledger.StockCheckpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[ledger.ProductKey]ledger.StockCheckpoint, len(s.checkpoints))
	for k, v := range s.checkpoints {
		out[k] = v
	}
	return out, nil
}

// --- catalog.Store ---

// ListProducts returns the catalog sorted by category then name.
func (s *Store) ListProducts(_ context.Context) ([]catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.Category != out[j].Key.Category {
			return out[i].Key.Category < out[j].Key.Category
		}
		return out[i].Key.Name < out[j].Key.Name
	})
	return out, nil
}

func (s *Store) PutProducts(_ context.Context, batch []catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range batch {
		s.products[p.Key] = p
	}
	return nil
}

func (s *Store) DeleteProduct(_ context.Context, key ledger.ProductKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, key)
	return nil
}
