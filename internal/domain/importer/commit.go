package importer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain/ledger"
	"stockbook/pkg/logger"
)

var tracer = otel.Tracer("stockbook/importer")

// DefaultBatchSize bounds a single ledger write. Small enough to keep any one
// write's blast radius predictable, large enough to amortize round trips.
const DefaultBatchSize = 100

// Committer applies accepted events to the ledger in fixed-size batches.
type Committer struct {
	events    ledger.EventStore
	batchSize int
}

// NewCommitter creates a committer. batchSize <= 0 selects DefaultBatchSize.
func NewCommitter(events ledger.EventStore, batchSize int) *Committer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Committer{events: events, batchSize: batchSize}
}

// Commit writes accepted events sequentially, one bounded batch at a time,
// and returns the number of rows applied.
//
// Batches are never run concurrently: a failure partway through leaves a
// deterministic prefix committed, and the returned COMMIT_FAILURE carries the
// exact applied count so partial success is never silent. Cancellation is
// honored between batches only; a batch in flight runs to completion.
func (c *Committer) Commit(ctx context.Context, accepted []ledger.SaleEvent) (int, error) {
	ctx, span := tracer.Start(ctx, "import.commit",
		trace.WithAttributes(
			attribute.Int("rows", len(accepted)),
			attribute.Int("batch_size", c.batchSize),
		))
	defer span.End()

	applied := 0
	batchNo := 0

	for start := 0; start < len(accepted); start += c.batchSize {
		batchNo++

		if err := ctx.Err(); err != nil {
			return applied, apperror.NewCommitFailure(applied, batchNo, err)
		}

		end := start + c.batchSize
		if end > len(accepted) {
			end = len(accepted)
		}
		batch := accepted[start:end]

		if err := c.events.AppendEvents(ctx, batch); err != nil {
			logger.Error(ctx, "import batch failed",
				"batch", batchNo,
				"applied", applied,
				"error", err,
			)
			return applied, apperror.NewCommitFailure(applied, batchNo, err)
		}

		applied += len(batch)
		logger.Debug(ctx, "import batch applied", "batch", batchNo, "applied", applied)
	}

	return applied, nil
}
