package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/catalog"
	"stockbook/internal/domain/ledger"
	"stockbook/internal/domain/stock"
	"stockbook/pkg/logger"
)

// Session summarizes one committed import for the audit trail.
type Session struct {
	ID         id.ID     `json:"id"`
	Flow       string    `json:"flow"` // "sales" or "stock"
	Accepted   int       `json:"accepted"`
	Duplicates int       `json:"duplicates"`
	Errors     int       `json:"errors"`
	Applied    int       `json:"applied"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	// Payload is the committed rows as JSON, kept for operator forensics.
	Payload []byte `json:"-"`
}

// AuditRecorder persists import sessions. Recording is best-effort: a failed
// audit write is logged, never surfaced to the import caller.
type AuditRecorder interface {
	RecordSession(ctx context.Context, session Session) error
}

// NopAuditRecorder discards sessions.
type NopAuditRecorder struct{}

func (NopAuditRecorder) RecordSession(context.Context, Session) error { return nil }

// Service orchestrates the two import flows over the store ports. Concurrent
// commits against the same product must be serialized by the caller; the
// service itself runs one batch sequence at a time per call.
type Service struct {
	events      ledger.EventStore
	checkpoints ledger.CheckpointStore
	products    catalog.Store
	cache       *stock.Cache
	committer   *Committer
	audit       AuditRecorder
}

// NewService creates an import service. batchSize <= 0 selects
// DefaultBatchSize; audit may be nil for no auditing.
func NewService(
	events ledger.EventStore,
	checkpoints ledger.CheckpointStore,
	products catalog.Store,
	cache *stock.Cache,
	batchSize int,
	audit AuditRecorder,
) *Service {
	if audit == nil {
		audit = NopAuditRecorder{}
	}
	return &Service{
		events:      events,
		checkpoints: checkpoints,
		products:    products,
		cache:       cache,
		committer:   NewCommitter(events, batchSize),
		audit:       audit,
	}
}

// PreviewSales classifies a batch of header-keyed records against the
// persisted ledger without writing anything.
func (s *Service) PreviewSales(ctx context.Context, records []map[string]string) (PreviewResult, error) {
	existing, err := s.events.ListEvents(ctx, ledger.EventFilter{})
	if err != nil {
		return PreviewResult{}, fmt.Errorf("list events: %w", err)
	}
	return Preview(NormalizeRows(records), existing), nil
}

// CommitSales applies previously previewed events in bounded sequential
// batches, then invalidates affected stock results and re-syncs the product
// catalog. The applied count is exact even when the commit fails partway:
// recomputation covers the committed prefix.
func (s *Service) CommitSales(ctx context.Context, preview PreviewResult) (int, error) {
	started := time.Now().UTC()

	applied, commitErr := s.committer.Commit(ctx, preview.Accepted)

	committed := preview.Accepted[:applied]
	affected := affectedKeys(committed)
	for _, key := range affected {
		s.cache.Invalidate(key)
	}
	if applied > 0 {
		if err := s.resyncCatalog(ctx); err != nil {
			logger.Error(ctx, "catalog resync after import failed", "error", err)
		}
		if err := s.refreshConfigured(ctx, affected); err != nil {
			logger.Error(ctx, "configured stock refresh after import failed", "error", err)
		}
	}

	s.recordSession(ctx, Session{
		ID:         id.New(),
		Flow:       SaleTemplate.Name,
		Accepted:   len(preview.Accepted),
		Duplicates: len(preview.Duplicates),
		Errors:     len(preview.Errors),
		Applied:    applied,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		Payload:    marshalPayload(committed),
	})

	return applied, commitErr
}

// PreviewQuantities resolves a stock-quantity batch against the catalog.
func (s *Service) PreviewQuantities(ctx context.Context, records []map[string]string) (QuantityPreview, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return QuantityPreview{}, fmt.Errorf("list products: %w", err)
	}
	keys := make([]ledger.ProductKey, len(products))
	for i, p := range products {
		keys[i] = p.Key
	}
	return PreviewQuantities(NormalizeRows(records), keys), nil
}

// ApplyQuantities adds imported quantities to product baselines. A matched
// product's checkpoint gains the quantity; an unmatched one gets a fresh
// configured checkpoint. Applied per update, sequentially; the returned count
// is exact on failure.
func (s *Service) ApplyQuantities(ctx context.Context, updates []QuantityUpdate) (int, error) {
	started := time.Now().UTC()
	applied := 0

	for _, u := range updates {
		if err := s.applyQuantity(ctx, u); err != nil {
			s.recordSession(ctx, Session{
				ID:         id.New(),
				Flow:       QuantityTemplate.Name,
				Accepted:   len(updates),
				Applied:    applied,
				StartedAt:  started,
				FinishedAt: time.Now().UTC(),
				Payload:    marshalPayload(updates[:applied]),
			})
			return applied, fmt.Errorf("apply quantity for %s: %w", u.Product.String(), err)
		}
		applied++
	}

	s.recordSession(ctx, Session{
		ID:         id.New(),
		Flow:       QuantityTemplate.Name,
		Accepted:   len(updates),
		Applied:    applied,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		Payload:    marshalPayload(updates),
	})

	return applied, nil
}

func (s *Service) applyQuantity(ctx context.Context, u QuantityUpdate) error {
	cp, err := s.checkpoints.GetCheckpoint(ctx, u.Product)
	if err != nil {
		return fmt.Errorf("get checkpoint: %w", err)
	}

	date := u.Date
	if date.IsZero() {
		date = types.DayOf(time.Now().UTC())
	}

	next := ledger.StockCheckpoint{
		InitialQuantity: u.Quantity,
		EffectiveDate:   date,
		Configured:      true,
	}
	if cp != nil {
		// Adding to an existing baseline keeps its effective date and
		// threshold; the operator is topping up, not restarting history.
		next = *cp
		next.InitialQuantity += u.Quantity
		next.Configured = true
	}

	if err := s.checkpoints.PutCheckpoint(ctx, u.Product, next); err != nil {
		return fmt.Errorf("put checkpoint: %w", err)
	}
	s.cache.Invalidate(u.Product)

	events, err := s.events.ListEvents(ctx, ledger.EventFilter{Product: &u.Product})
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}

	res := stock.Compute(&next, events)
	product := catalog.Product{
		Key:           u.Product,
		InitialStock:  next.InitialQuantity,
		EffectiveDate: next.EffectiveDate,
		MinStock:      next.MinStock,
		Configured:    true,
		Price:         res.Price,
		Stock:         res.Stock,
		QuantitySold:  res.QuantitySold,
		StockValue:    res.StockValue,
		LastSale:      res.LastSale,
		UpdatedAt:     time.Now().UTC(),
	}
	if err := s.products.PutProducts(ctx, []catalog.Product{product}); err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	return nil
}

// refreshConfigured recomputes catalog stock for committed products with an
// operator-configured checkpoint. Catalog sync leaves their stock figures
// alone, so the new depletion has to be pushed into the product view here.
func (s *Service) refreshConfigured(ctx context.Context, keys []ledger.ProductKey) error {
	var changed []catalog.Product
	for _, key := range keys {
		cp, err := s.checkpoints.GetCheckpoint(ctx, key)
		if err != nil {
			return fmt.Errorf("get checkpoint for %s: %w", key.String(), err)
		}
		if cp == nil || !cp.Configured {
			continue
		}
		events, err := s.events.ListEvents(ctx, ledger.EventFilter{Product: &key})
		if err != nil {
			return fmt.Errorf("list events for %s: %w", key.String(), err)
		}
		res := stock.Compute(cp, events)
		changed = append(changed, catalog.Product{
			Key:           key,
			InitialStock:  cp.InitialQuantity,
			EffectiveDate: cp.EffectiveDate,
			MinStock:      cp.MinStock,
			Configured:    true,
			Price:         res.Price,
			Stock:         res.Stock,
			QuantitySold:  res.QuantitySold,
			StockValue:    res.StockValue,
			LastSale:      res.LastSale,
			UpdatedAt:     time.Now().UTC(),
		})
	}
	if len(changed) == 0 {
		return nil
	}
	if err := s.products.PutProducts(ctx, changed); err != nil {
		return fmt.Errorf("put products: %w", err)
	}
	return nil
}

// resyncCatalog rebuilds the derived product view from the full ledger.
func (s *Service) resyncCatalog(ctx context.Context) error {
	events, err := s.events.ListEvents(ctx, ledger.EventFilter{})
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	existing, err := s.products.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}

	result := catalog.Sync(events, existing)
	changed := result.Changed()
	if len(changed) == 0 {
		return nil
	}
	if err := s.products.PutProducts(ctx, changed); err != nil {
		return fmt.Errorf("put products: %w", err)
	}

	logger.Info(ctx, "catalog resynced",
		"updated", len(result.Updated),
		"created", len(result.Created),
	)
	return nil
}

func (s *Service) recordSession(ctx context.Context, session Session) {
	if err := s.audit.RecordSession(ctx, session); err != nil {
		logger.Warn(ctx, "import audit record failed",
			"session_id", session.ID,
			"flow", session.Flow,
			"error", err,
		)
	}
}

func affectedKeys(events []ledger.SaleEvent) []ledger.ProductKey {
	seen := make(map[ledger.ProductKey]bool)
	var keys []ledger.ProductKey
	for _, e := range events {
		key := e.Key()
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

func marshalPayload(v any) []byte {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return payload
}
