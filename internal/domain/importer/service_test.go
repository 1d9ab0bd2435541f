package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain/catalog"
	"stockbook/internal/domain/ledger"
	"stockbook/internal/domain/stock"
	"stockbook/internal/infrastructure/storage/memory"
)

type recordingAudit struct {
	sessions []Session
}

func (r *recordingAudit) RecordSession(_ context.Context, s Session) error {
	r.sessions = append(r.sessions, s)
	return nil
}

func newTestService(store *memory.Store, batchSize int, audit AuditRecorder) *Service {
	return NewService(store, store, store, stock.NewCache(), batchSize, audit)
}

func salesRecords() []map[string]string {
	return []map[string]string{
		{"Product": "Widget", "Category": "Tools", "Date": "02/06/2024", "Quantity": "3", "Amount": "12.00"},
		{"Product": "Widget", "Category": "Tools", "Date": "03/06/2024", "Quantity": "2", "Amount": "8.00"},
		{"Product": "Gadget", "Category": "Tools", "Date": "02/06/2024", "Quantity": "1", "Amount": "9.00"},
	}
}

func TestService_CommitSalesEndToEnd(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	audit := &recordingAudit{}
	svc := newTestService(store, 2, audit)

	preview, err := svc.PreviewSales(ctx, salesRecords())
	require.NoError(t, err)
	require.Len(t, preview.Accepted, 3)

	applied, err := svc.CommitSales(ctx, preview)
	require.NoError(t, err)
	assert.Equal(t, 3, applied)

	events, err := store.ListEvents(ctx, ledger.EventFilter{})
	require.NoError(t, err)
	assert.Len(t, events, 3)

	// Catalog was re-synced from the grown ledger.
	products, err := store.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Gadget", products[0].Key.Name)
	assert.Equal(t, "Widget", products[1].Key.Name)
	assert.Equal(t, 5, products[1].QuantitySold)

	require.Len(t, audit.sessions, 1)
	s := audit.sessions[0]
	assert.Equal(t, "sales", s.Flow)
	assert.Equal(t, 3, s.Accepted)
	assert.Equal(t, 3, s.Applied)
	assert.NotEmpty(t, s.Payload)
}

func TestService_CommitSalesRefreshesConfiguredStock(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	cache := stock.NewCache()
	svc := NewService(store, store, store, cache, 0, nil)
	stocks := stock.NewService(store, store, cache)

	key := ledger.NewProductKey("Widget", "Tools")
	cp := ledger.StockCheckpoint{
		InitialQuantity: 100,
		EffectiveDate:   day("2024-01-01"),
		MinStock:        80,
		Configured:      true,
	}
	require.NoError(t, store.PutCheckpoint(ctx, key, cp))
	require.NoError(t, store.PutProducts(ctx, []catalog.Product{{
		Key:          key,
		InitialStock: 100,
		MinStock:     80,
		Configured:   true,
		Stock:        100,
	}}))

	preview, err := svc.PreviewSales(ctx, []map[string]string{
		{"Product": "Widget", "Category": "Tools", "Date": "02/06/2024", "Quantity": "30", "Amount": "120.00"},
	})
	require.NoError(t, err)
	require.Len(t, preview.Accepted, 1)

	applied, err := svc.CommitSales(ctx, preview)
	require.NoError(t, err)
	require.Equal(t, 1, applied)

	res, err := stocks.ProductStock(ctx, key)
	require.NoError(t, err)
	require.Equal(t, 70, res.Stock)

	products, err := store.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	p := products[0]
	assert.Equal(t, 70, p.Stock, "catalog stock reflects the committed sale")
	assert.Equal(t, 30, p.QuantitySold)
	assert.Equal(t, 100, p.InitialStock, "operator baseline untouched")
	assert.True(t, p.Configured)
	assert.True(t, p.LowStock(), "depletion below the threshold raises the alert")
}

func TestService_ReimportIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newTestService(store, 0, nil)

	first, err := svc.PreviewSales(ctx, salesRecords())
	require.NoError(t, err)
	_, err = svc.CommitSales(ctx, first)
	require.NoError(t, err)

	second, err := svc.PreviewSales(ctx, salesRecords())
	require.NoError(t, err)
	assert.Empty(t, second.Accepted, "every row is a known duplicate now")
	assert.Len(t, second.Duplicates, 3)

	applied, err := svc.CommitSales(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 0, applied)

	events, err := store.ListEvents(ctx, ledger.EventFilter{})
	require.NoError(t, err)
	assert.Len(t, events, 3, "replaying the same sheet changes nothing")
}

func TestService_CommitFailurePreservesPrefixAccounting(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	store.FailAppendAfter(1, errors.New("disk full"))
	audit := &recordingAudit{}
	svc := newTestService(store, 2, audit)

	preview, err := svc.PreviewSales(ctx, salesRecords())
	require.NoError(t, err)

	applied, err := svc.CommitSales(ctx, preview)
	require.Error(t, err)
	assert.True(t, apperror.IsCommitFailure(err))
	assert.Equal(t, 2, applied, "first batch of two landed")

	events, listErr := store.ListEvents(ctx, ledger.EventFilter{})
	require.NoError(t, listErr)
	assert.Len(t, events, 2)

	require.Len(t, audit.sessions, 1)
	assert.Equal(t, 2, audit.sessions[0].Applied)
}

func TestService_ApplyQuantitiesTopsUpExistingBaseline(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newTestService(store, 0, nil)

	key := ledger.NewProductKey("Widget", "Tools")
	require.NoError(t, store.PutCheckpoint(ctx, key, ledger.StockCheckpoint{
		InitialQuantity: 10,
		EffectiveDate:   day("2024-06-01"),
		MinStock:        2,
		Configured:      true,
	}))
	require.NoError(t, store.PutProducts(ctx, []catalog.Product{{Key: key, Configured: true}}))

	preview, err := svc.PreviewQuantities(ctx, []map[string]string{
		{"Product": "widget", "Category": "tools", "Quantity": "15"},
	})
	require.NoError(t, err)
	require.Len(t, preview.Updates, 1)
	assert.True(t, preview.Updates[0].Existing)

	applied, err := svc.ApplyQuantities(ctx, preview.Updates)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	cp, err := store.GetCheckpoint(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.Equal(t, 25, cp.InitialQuantity, "quantity adds to the baseline")
	assert.Equal(t, day("2024-06-01"), cp.EffectiveDate, "effective date survives a top-up")
	assert.Equal(t, 2, cp.MinStock)
}

func TestService_ApplyQuantitiesCreatesFreshCheckpoint(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newTestService(store, 0, nil)

	preview, err := svc.PreviewQuantities(ctx, []map[string]string{
		{"Product": "Hand Grinder", "Category": "Equipment", "Quantity": "6", "Date": "10/06/2024"},
	})
	require.NoError(t, err)
	require.Len(t, preview.Updates, 1)
	assert.False(t, preview.Updates[0].Existing)

	applied, err := svc.ApplyQuantities(ctx, preview.Updates)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	key := ledger.NewProductKey("Hand Grinder", "Equipment")
	cp, err := store.GetCheckpoint(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.True(t, cp.Configured)
	assert.Equal(t, 6, cp.InitialQuantity)
	assert.Equal(t, day("2024-06-10"), cp.EffectiveDate)

	products, err := store.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].Configured)
	assert.Equal(t, 6, products[0].Stock)
}
