package ledger

import (
	"context"
)

// EventFilter narrows event listings. Zero value means all events.
type EventFilter struct {
	// Product restricts results to a single product identity.
	Product *ProductKey
}

// EventStore is the persistence port for the append-only sale event ledger.
// Implementations must treat appended events as immutable.
type EventStore interface {
	// ListEvents returns events matching the filter, oldest first.
	ListEvents(ctx context.Context, filter EventFilter) ([]SaleEvent, error)

	// AppendEvents writes a batch of events atomically. A failed batch must
	// leave no partial rows behind; the import layer relies on this to
	// report a deterministic committed prefix.
	AppendEvents(ctx context.Context, batch []SaleEvent) error
}

// CheckpointStore is the persistence port for stock checkpoints,
// one mutable record per product.
type CheckpointStore interface {
	// GetCheckpoint returns the checkpoint for a product, or nil when none exists.
	GetCheckpoint(ctx context.Context, key ProductKey) (*StockCheckpoint, error)

	// PutCheckpoint creates or replaces the checkpoint for a product.
	PutCheckpoint(ctx context.Context, key ProductKey, cp StockCheckpoint) error

	// ListCheckpoints returns every stored checkpoint keyed by product.
	ListCheckpoints(ctx context.Context) (map[ProductKey]StockCheckpoint, error)
}
