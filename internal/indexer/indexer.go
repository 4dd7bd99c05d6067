// Package indexer maintains the read-side model cache. It pulls authoritative
// state from whichever ledger a chain lives on, projects it into the cache
// row, and layers derived metadata from the off-chain document on top. The
// cache is advisory: a failed refresh leaves the previous row intact and
// never blocks entitlement checks.
package indexer

import (
	"context"
	"fmt"
	"strconv"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/modelzoo-market/mz-indexer/internal/adapter"
	"github.com/modelzoo-market/mz-indexer/internal/domain"
	"github.com/modelzoo-market/mz-indexer/internal/logger"
	"github.com/modelzoo-market/mz-indexer/internal/messaging"
	"github.com/modelzoo-market/mz-indexer/internal/metadata"
	"github.com/modelzoo-market/mz-indexer/internal/providers/evm"
	"github.com/modelzoo-market/mz-indexer/internal/providers/suiledger"
	"github.com/modelzoo-market/mz-indexer/internal/store"
	"github.com/modelzoo-market/mz-indexer/internal/store/schema"
)

// BatchResult is the per-asset outcome of a batch resync
type BatchResult struct {
	AssetID uint64
	Err     error
}

// Indexer refreshes model cache rows from ledger state and off-chain metadata
//
//go:generate mockgen -source=indexer.go -destination=../mocks/indexer.go -package=mocks -mock_names=Indexer=MockIndexer
type Indexer interface {
	// Resync re-reads the ledger record of one asset and upserts the
	// ledger-sourced cache columns
	Resync(ctx context.Context, chain domain.Chain, assetID uint64) error

	// Recache re-fetches the off-chain metadata document of one asset and
	// rewrites the derived cache columns
	Recache(ctx context.Context, chain domain.Chain, assetID uint64) error

	// Refresh runs Recache, optionally preceded by Resync
	Refresh(ctx context.Context, chain domain.Chain, assetID uint64, syncFirst bool) error

	// ResyncBatch resyncs many assets on a bounded worker pool, returning
	// a per-asset outcome slice in input order
	ResyncBatch(ctx context.Context, chain domain.Chain, assetIDs []uint64) []BatchResult

	// SyncListings walks the object-ledger listing pages from the stored
	// cursor and resyncs every asset found, advancing the cursor as pages
	// complete
	SyncListings(ctx context.Context, chain domain.Chain) (int, error)
}

// Config holds the indexer tuning knobs
type Config struct {
	WorkerPoolSize  int
	ListingPageSize int
}

type indexer struct {
	cfg       Config
	store     store.Store
	account   evm.Client
	object    suiledger.Client
	metadata  metadata.Resolver
	json      adapter.JSON
	clock     adapter.Clock
	publisher messaging.Publisher
}

// New creates an Indexer over both ledger backends
func New(
	cfg Config,
	st store.Store,
	account evm.Client,
	object suiledger.Client,
	md metadata.Resolver,
	json adapter.JSON,
	clock adapter.Clock,
	publisher messaging.Publisher,
) Indexer {
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = 8
	}
	if cfg.ListingPageSize <= 0 {
		cfg.ListingPageSize = 50
	}
	return &indexer{
		cfg:       cfg,
		store:     st,
		account:   account,
		object:    object,
		metadata:  md,
		json:      json,
		clock:     clock,
		publisher: publisher,
	}
}

// Resync re-reads one asset from its ledger and upserts the cache row.
// If the ledger read or decode fails the existing row is left untouched.
func (i *indexer) Resync(ctx context.Context, chain domain.Chain, assetID uint64) error {
	if !domain.IsValidChain(chain) {
		return fmt.Errorf("chain %s: %w", chain, domain.ErrNotFound)
	}

	var row *schema.ModelCache
	var err error
	switch chain.LedgerOf() {
	case domain.LedgerObject:
		row, err = i.fetchObjectRow(ctx, chain, assetID)
	default:
		row, err = i.fetchAccountRow(ctx, chain, assetID)
	}
	if err != nil {
		return err
	}

	if err := i.store.UpsertModelCache(ctx, row); err != nil {
		return fmt.Errorf("failed to persist resynced row: %w", err)
	}

	i.publishIndexEvent(ctx, domain.IndexEventResynced, chain, assetID, row.Version)
	return nil
}

// fetchAccountRow projects the account-ledger contract record into a cache row
func (i *indexer) fetchAccountRow(ctx context.Context, chain domain.Chain, assetID uint64) (*schema.ModelCache, error) {
	record, err := i.account.AssetRecord(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset %d: %w", assetID, err)
	}
	if record == nil {
		return nil, fmt.Errorf("asset %d: %w", assetID, domain.ErrNotFound)
	}

	return &schema.ModelCache{
		AssetID:             assetID,
		Chain:               string(chain),
		Owner:               record.Owner,
		Creator:             record.Creator,
		Name:                record.Name,
		URI:                 record.URI,
		Listed:              record.Listed,
		RoyaltyBps:          record.RoyaltyBps,
		PricePerpetual:      record.PricePerpetual,
		PriceSubscription:   record.PriceSubscription,
		DefaultDurationDays: record.DefaultDurationDays,
		RightsMask:          uint8(record.Rights),
		DeliveryMode:        string(record.DeliveryMode),
		TermsHash:           hashHex(record.TermsHash),
		Version:             record.Version,
		AgentID:             record.AgentID,
		AgentEndpoint:       record.AgentEndpoint,
		AgentWallet:         record.AgentWallet,
		LastSyncedAt:        i.clock.Now(),
	}, nil
}

// fetchObjectRow projects the object-ledger detail and meta records into a
// cache row. The detail and meta live in separate inspect calls.
func (i *indexer) fetchObjectRow(ctx context.Context, chain domain.Chain, assetID uint64) (*schema.ModelCache, error) {
	detail, err := i.object.AssetDetail(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset %d: %w", assetID, err)
	}

	name, uri, err := i.object.AssetMeta(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset meta %d: %w", assetID, err)
	}

	return &schema.ModelCache{
		AssetID:             assetID,
		Chain:               string(chain),
		Owner:               detail.Owner,
		Creator:             detail.Creator,
		Name:                name,
		URI:                 uri,
		Listed:              detail.Listed,
		RoyaltyBps:          detail.RoyaltyBps,
		PricePerpetual:      detail.PricePerpetual,
		PriceSubscription:   detail.PriceSubscription,
		DefaultDurationDays: detail.DefaultDurationDays,
		RightsMask:          uint8(detail.DeliveryRightsDefault),
		DeliveryMode:        deliveryModeFromRights(detail.DeliveryRightsDefault),
		TermsHash:           hashHex(detail.TermsHash),
		Version:             detail.Version,
		LastSyncedAt:        i.clock.Now(),
	}, nil
}

// Recache re-fetches the off-chain metadata document and rewrites the
// derived columns. The row must already exist; callers wanting a fresh
// ledger view first should use Refresh with syncFirst.
func (i *indexer) Recache(ctx context.Context, chain domain.Chain, assetID uint64) error {
	row, err := i.store.GetModelCache(ctx, string(chain), assetID)
	if err != nil {
		return fmt.Errorf("failed to load cache row: %w", err)
	}
	if row == nil {
		return fmt.Errorf("asset %d on %s: %w", assetID, chain, domain.ErrNotFound)
	}
	if row.URI == "" {
		logger.WarnCtx(ctx, "asset has no metadata URI, skipping recache",
			zap.String("chain", string(chain)),
			zap.Uint64("asset_id", assetID))
		return nil
	}

	normalized, err := i.metadata.Resolve(ctx, row.URI)
	if err != nil {
		return fmt.Errorf("failed to resolve metadata: %w", err)
	}

	derived, err := normalized.Derived(i.json)
	if err != nil {
		return err
	}

	if err := i.store.UpdateModelDerived(ctx, string(chain), assetID, derived); err != nil {
		return fmt.Errorf("failed to persist derived metadata: %w", err)
	}

	i.publishIndexEvent(ctx, domain.IndexEventRecached, chain, assetID, row.Version)
	return nil
}

// Refresh runs Recache, optionally preceded by Resync
func (i *indexer) Refresh(ctx context.Context, chain domain.Chain, assetID uint64, syncFirst bool) error {
	if syncFirst {
		if err := i.Resync(ctx, chain, assetID); err != nil {
			return err
		}
	}
	return i.Recache(ctx, chain, assetID)
}

// ResyncBatch resyncs many assets concurrently. One bad asset never aborts
// the batch; its failure is reported in its result slot. Between submissions
// the context is checked so cancellation stops feeding the pool.
func (i *indexer) ResyncBatch(ctx context.Context, chain domain.Chain, assetIDs []uint64) []BatchResult {
	results := make([]BatchResult, len(assetIDs))
	pool := pond.NewPool(i.cfg.WorkerPoolSize)

	for idx, assetID := range assetIDs {
		idx, assetID := idx, assetID
		if ctx.Err() != nil {
			for j := idx; j < len(assetIDs); j++ {
				results[j] = BatchResult{AssetID: assetIDs[j], Err: ctx.Err()}
			}
			break
		}

		pool.Submit(func() {
			err := i.Resync(ctx, chain, assetID)
			if err != nil {
				logger.ErrorCtx(ctx, fmt.Errorf("failed to resync asset in batch: %w", err),
					zap.String("chain", string(chain)),
					zap.Uint64("asset_id", assetID))
			}
			results[idx] = BatchResult{AssetID: assetID, Err: err}
		})
	}

	pool.StopAndWait()
	return results
}

// SyncListings walks object-ledger listing pages from the stored cursor,
// resyncing every asset found and advancing the cursor after each page.
// Returns the number of assets resynced.
func (i *indexer) SyncListings(ctx context.Context, chain domain.Chain) (int, error) {
	if chain.LedgerOf() != domain.LedgerObject {
		return 0, fmt.Errorf("chain %s has no listing pages: %w", chain, domain.ErrNotFound)
	}

	cursorKey := fmt.Sprintf("listing_cursor:%s", chain)
	cursor, err := i.loadCursor(ctx, cursorKey)
	if err != nil {
		return 0, err
	}

	total := 0
	for {
		if ctx.Err() != nil {
			return total, ctx.Err()
		}

		page, err := i.object.AssetPage(ctx, cursor, i.cfg.ListingPageSize)
		if err != nil {
			return total, fmt.Errorf("failed to fetch listing page at %d: %w", cursor, err)
		}
		if len(page) == 0 {
			return total, nil
		}

		ids := make([]uint64, 0, len(page))
		for _, summary := range page {
			ids = append(ids, summary.ID)
			if summary.ID >= cursor {
				cursor = summary.ID + 1
			}
		}

		for _, res := range i.ResyncBatch(ctx, chain, ids) {
			if res.Err == nil {
				total++
			}
		}

		if err := i.store.SetKeyValue(ctx, cursorKey, strconv.FormatUint(cursor, 10)); err != nil {
			return total, fmt.Errorf("failed to advance listing cursor: %w", err)
		}

		if len(page) < i.cfg.ListingPageSize {
			return total, nil
		}
	}
}

func (i *indexer) loadCursor(ctx context.Context, key string) (uint64, error) {
	value, err := i.store.GetKeyValue(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("failed to load listing cursor: %w", err)
	}
	if value == "" {
		return 0, nil
	}

	cursor, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse listing cursor: %w", err)
	}
	return cursor, nil
}

// publishIndexEvent emits a cache-change event. Publish failures are logged
// and swallowed; the cache write already succeeded.
func (i *indexer) publishIndexEvent(ctx context.Context, eventType domain.IndexEventType, chain domain.Chain, assetID uint64, version uint16) {
	if i.publisher == nil {
		return
	}

	event := &domain.IndexEvent{
		EventID:   messaging.NewEventID(),
		Type:      eventType,
		Chain:     chain,
		AssetID:   assetID,
		Version:   version,
		Timestamp: i.clock.Now(),
	}
	if err := i.publisher.PublishIndexEvent(ctx, event); err != nil {
		logger.WarnCtx(ctx, "failed to publish index event",
			zap.Error(err),
			zap.String("type", string(eventType)),
			zap.Uint64("asset_id", assetID))
	}
}

// hashHex renders a 32-byte hash as a 0x-prefixed hex string
func hashHex(hash [32]byte) string {
	return fmt.Sprintf("0x%x", hash)
}

// deliveryModeFromRights maps the object ledger's default rights mask to the
// catalog-facing delivery mode hint
func deliveryModeFromRights(rights domain.RightsMask) string {
	switch {
	case rights.Has(domain.RightAPI) && rights.Has(domain.RightDownload):
		return string(domain.DeliveryModeHybrid)
	case rights.Has(domain.RightDownload):
		return string(domain.DeliveryModeDownload)
	default:
		return string(domain.DeliveryModeAPI)
	}
}
