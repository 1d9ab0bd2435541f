package checkpoint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain/ledger"
	"stockbook/internal/domain/stock"
	"stockbook/internal/infrastructure/storage/memory"
)

func newService(store *memory.Store) *Service {
	return NewService(store, store, store, stock.NewCache())
}

func TestService_SaveRejectsBlockingCandidate(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newService(store)

	key := ledger.NewProductKey("Widget", "Tools")
	warnings, err := svc.Save(ctx, key, ledger.StockCheckpoint{InitialQuantity: 10})

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeCheckpointInvalid, appErr.Code)
	assert.NotEmpty(t, warnings)

	stored, err := store.GetCheckpoint(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, stored, "nothing is written on a blocked save")
}

func TestService_SavePersistsAndMarksConfigured(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newService(store)

	key := ledger.NewProductKey("Widget", "Tools")
	warnings, err := svc.Save(ctx, key, ledger.StockCheckpoint{
		InitialQuantity: 25,
		EffectiveDate:   day("2024-06-01"),
		MinStock:        3,
	})
	require.NoError(t, err)

	// No sales yet: informational finding, not a blocker.
	require.Len(t, warnings, 1)
	assert.Equal(t, SeverityInfo, warnings[0].Severity)

	stored, err := store.GetCheckpoint(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Configured)
	assert.Equal(t, 25, stored.InitialQuantity)
}

func TestService_SaveUpdatesProductView(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newService(store)

	key := ledger.NewProductKey("Widget", "Tools")
	require.NoError(t, store.AppendEvents(ctx, []ledger.SaleEvent{
		saleOn("2024-06-05", 4),
	}))

	_, err := svc.Save(ctx, key, ledger.StockCheckpoint{
		InitialQuantity: 30,
		EffectiveDate:   day("2024-06-01"),
	})
	require.NoError(t, err)

	products, err := store.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.True(t, p.Configured)
	assert.Equal(t, 30, p.InitialStock)
	assert.Equal(t, 26, p.Stock)
	assert.Equal(t, 4, p.QuantitySold)
}

func TestService_SaveInvalidatesCachedStock(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	cache := stock.NewCache()
	svc := NewService(store, store, store, cache)
	stocks := stock.NewService(store, store, cache)

	key := ledger.NewProductKey("Widget", "Tools")
	require.NoError(t, store.AppendEvents(ctx, []ledger.SaleEvent{
		saleOn("2024-06-05", 4),
	}))

	before, err := stocks.ProductStock(ctx, key)
	require.NoError(t, err)
	assert.True(t, before.Estimated)

	_, err = svc.Save(ctx, key, ledger.StockCheckpoint{
		InitialQuantity: 30,
		EffectiveDate:   day("2024-06-01"),
	})
	require.NoError(t, err)

	after, err := stocks.ProductStock(ctx, key)
	require.NoError(t, err)
	assert.False(t, after.Estimated, "stale estimate must not be served after a save")
	assert.Equal(t, 26, after.Stock)
}

func TestService_PreviewDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newService(store)

	key := ledger.NewProductKey("Widget", "Tools")
	warnings, err := svc.Preview(ctx, key, ledger.StockCheckpoint{InitialQuantity: -1})
	require.NoError(t, err, "preview reports findings without raising them")
	assert.True(t, HasBlocking(warnings))

	stored, err := store.GetCheckpoint(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, stored)
}
