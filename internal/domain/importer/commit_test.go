package importer

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain/ledger"
	"stockbook/internal/infrastructure/storage/memory"
)

func acceptedEvents(t *testing.T, n int) []ledger.SaleEvent {
	t.Helper()
	rows := make([]RawRow, n)
	for i := range rows {
		rows[i] = saleRow(i+1, "Widget", "02/06/2024", strconv.Itoa(i+1), "10.00")
	}
	result := Preview(rows, nil)
	require.Len(t, result.Accepted, n)
	return result.Accepted
}

func TestCommit_AppliesAllInBatches(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	committer := NewCommitter(store, 2)

	accepted := acceptedEvents(t, 5)
	applied, err := committer.Commit(ctx, accepted)

	require.NoError(t, err)
	assert.Equal(t, 5, applied)

	persisted, err := store.ListEvents(ctx, ledger.EventFilter{})
	require.NoError(t, err)
	assert.Len(t, persisted, 5)
}

func TestCommit_PartialFailureReportsExactPrefix(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	store.FailAppendAfter(2, errors.New("connection reset"))
	committer := NewCommitter(store, 2)

	accepted := acceptedEvents(t, 7)
	applied, err := committer.Commit(ctx, accepted)

	require.Error(t, err)
	assert.Equal(t, 4, applied, "two full batches of two landed before the failure")

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.True(t, apperror.IsCommitFailure(err))
	assert.Equal(t, 4, apperror.AppliedCount(appErr))

	persisted, err := store.ListEvents(ctx, ledger.EventFilter{})
	require.NoError(t, err)
	assert.Len(t, persisted, 4, "the committed prefix is deterministic")
}

func TestCommit_CancellationBetweenBatches(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := memory.New()
	committer := NewCommitter(store, 2)

	applied, err := committer.Commit(ctx, acceptedEvents(t, 3))

	require.Error(t, err)
	assert.True(t, apperror.IsCommitFailure(err))
	assert.Equal(t, 0, applied)
}

func TestCommit_EmptyBatchIsNoop(t *testing.T) {
	store := memory.New()
	committer := NewCommitter(store, 2)

	applied, err := committer.Commit(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, 0, applied)
}

func TestNewCommitter_DefaultsBatchSize(t *testing.T) {
	c := NewCommitter(memory.New(), 0)
	assert.Equal(t, DefaultBatchSize, c.batchSize)
}
