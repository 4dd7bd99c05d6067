package indexer_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelzoo-market/mz-indexer/internal/adapter"
	"github.com/modelzoo-market/mz-indexer/internal/domain"
	"github.com/modelzoo-market/mz-indexer/internal/indexer"
	"github.com/modelzoo-market/mz-indexer/internal/logger"
	"github.com/modelzoo-market/mz-indexer/internal/metadata"
	"github.com/modelzoo-market/mz-indexer/internal/mocks"
	"github.com/modelzoo-market/mz-indexer/internal/store/schema"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}
	m.Run()
}

type indexerTest struct {
	ctrl     *gomock.Controller
	store    *mocks.MockStore
	account  *mocks.MockAccountLedger
	object   *mocks.MockObjectLedger
	metadata *mocks.MockMetadataResolver
	clock    *mocks.MockClock
	indexer  indexer.Indexer
	now      time.Time
}

func setupIndexerTest(t *testing.T) *indexerTest {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	account := mocks.NewMockAccountLedger(ctrl)
	object := mocks.NewMockObjectLedger(ctrl)
	md := mocks.NewMockMetadataResolver(ctrl)
	clock := mocks.NewMockClock(ctrl)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock.EXPECT().Now().Return(now).AnyTimes()

	idx := indexer.New(indexer.Config{
		WorkerPoolSize:  2,
		ListingPageSize: 2,
	}, st, account, object, md, adapter.NewJSON(), clock, nil)

	return &indexerTest{
		ctrl:     ctrl,
		store:    st,
		account:  account,
		object:   object,
		metadata: md,
		clock:    clock,
		indexer:  idx,
		now:      now,
	}
}

func accountRecord(assetID uint64) *domain.AssetRecord {
	return &domain.AssetRecord{
		ID:                  assetID,
		Owner:               "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		Creator:             "0x90F79bf6EB2c4f870365E785982E1f101E93b906",
		Name:                "llama-7b-chat",
		URI:                 "ipfs://QmModelMeta",
		Listed:              true,
		RoyaltyBps:          500,
		PricePerpetual:      50_000000,
		PriceSubscription:   5_000000,
		DefaultDurationDays: 30,
		Rights:              domain.RightAPI,
		DeliveryMode:        domain.DeliveryModeAPI,
		Version:             2,
	}
}

func TestResyncAccountChain(t *testing.T) {
	s := setupIndexerTest(t)
	defer s.ctrl.Finish()

	s.account.EXPECT().
		AssetRecord(gomock.Any(), uint64(1)).
		Return(accountRecord(1), nil)

	var saved *schema.ModelCache
	s.store.EXPECT().
		UpsertModelCache(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, row *schema.ModelCache) error {
			saved = row
			return nil
		})

	err := s.indexer.Resync(context.Background(), domain.ChainEthereumMainnet, 1)
	require.NoError(t, err)

	require.NotNil(t, saved)
	assert.Equal(t, uint64(1), saved.AssetID)
	assert.Equal(t, "eip155:1", saved.Chain)
	assert.Equal(t, "llama-7b-chat", saved.Name)
	assert.Equal(t, "ipfs://QmModelMeta", saved.URI)
	assert.Equal(t, uint16(500), saved.RoyaltyBps)
	assert.Equal(t, uint8(domain.RightAPI), saved.RightsMask)
	assert.Equal(t, string(domain.DeliveryModeAPI), saved.DeliveryMode)
	assert.Equal(t, s.now, saved.LastSyncedAt)
}

func TestResyncObjectChain(t *testing.T) {
	s := setupIndexerTest(t)
	defer s.ctrl.Finish()

	var termsHash [32]byte
	termsHash[0] = 0xab

	s.object.EXPECT().
		AssetDetail(gomock.Any(), uint64(7)).
		Return(&domain.AssetDetail{
			ID:                    7,
			Owner:                 "0xa1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90",
			Creator:               "0xb1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90",
			Listed:                true,
			PricePerpetual:        50_000000,
			Version:               3,
			RoyaltyBps:            1000,
			TermsHash:             termsHash,
			DeliveryRightsDefault: domain.RightAPI | domain.RightDownload,
		}, nil)
	s.object.EXPECT().
		AssetMeta(gomock.Any(), uint64(7)).
		Return("mixtral-8x7b", "ar://ModelMeta", nil)

	var saved *schema.ModelCache
	s.store.EXPECT().
		UpsertModelCache(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, row *schema.ModelCache) error {
			saved = row
			return nil
		})

	err := s.indexer.Resync(context.Background(), domain.ChainSuiMainnet, 7)
	require.NoError(t, err)

	require.NotNil(t, saved)
	assert.Equal(t, "sui:mainnet", saved.Chain)
	assert.Equal(t, "mixtral-8x7b", saved.Name)
	assert.Equal(t, "ar://ModelMeta", saved.URI)
	assert.Equal(t, string(domain.DeliveryModeHybrid), saved.DeliveryMode)
	assert.Equal(t, "0xab00000000000000000000000000000000000000000000000000000000000000", saved.TermsHash)
}

func TestResyncInvalidChain(t *testing.T) {
	s := setupIndexerTest(t)
	defer s.ctrl.Finish()

	err := s.indexer.Resync(context.Background(), domain.Chain("eip155:137"), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResyncLedgerFailureLeavesRowUntouched(t *testing.T) {
	s := setupIndexerTest(t)
	defer s.ctrl.Finish()

	s.account.EXPECT().
		AssetRecord(gomock.Any(), uint64(1)).
		Return(nil, domain.ErrUpstreamUnavailable)

	// no store write happens
	err := s.indexer.Resync(context.Background(), domain.ChainEthereumMainnet, 1)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestResyncMissingAsset(t *testing.T) {
	s := setupIndexerTest(t)
	defer s.ctrl.Finish()

	s.account.EXPECT().
		AssetRecord(gomock.Any(), uint64(9)).
		Return(nil, nil)

	err := s.indexer.Resync(context.Background(), domain.ChainEthereumMainnet, 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecache(t *testing.T) {
	s := setupIndexerTest(t)
	defer s.ctrl.Finish()

	s.store.EXPECT().
		GetModelCache(gomock.Any(), "eip155:1", uint64(1)).
		Return(&schema.ModelCache{
			AssetID: 1,
			Chain:   "eip155:1",
			URI:     "ipfs://QmModelMeta",
			Version: 2,
		}, nil)

	s.metadata.EXPECT().
		Resolve(gomock.Any(), "ipfs://QmModelMeta").
		Return(&metadata.NormalizedMetadata{
			Raw:        map[string]interface{}{"name": "llama"},
			Categories: []string{"text-generation"},
			Tags:       []string{"chat"},
			Frameworks: []string{"pytorch"},
			ImageRef:   "ipfs://QmImage",
		}, nil)

	var derived schema.DerivedMetadata
	s.store.EXPECT().
		UpdateModelDerived(gomock.Any(), "eip155:1", uint64(1), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ uint64, d schema.DerivedMetadata) error {
			derived = d
			return nil
		})

	err := s.indexer.Recache(context.Background(), domain.ChainEthereumMainnet, 1)
	require.NoError(t, err)

	assert.Equal(t, schema.StringList{"text-generation"}, derived.Categories)
	assert.Equal(t, schema.StringList{"chat"}, derived.Tags)
	assert.Equal(t, schema.StringList{"pytorch"}, derived.Frameworks)
	require.NotNil(t, derived.ImageRef)
	assert.Equal(t, "ipfs://QmImage", *derived.ImageRef)
	assert.JSONEq(t, `{"name":"llama"}`, string(derived.RawMetadata))
}

func TestRecacheMissingRow(t *testing.T) {
	s := setupIndexerTest(t)
	defer s.ctrl.Finish()

	s.store.EXPECT().
		GetModelCache(gomock.Any(), "eip155:1", uint64(1)).
		Return(nil, nil)

	err := s.indexer.Recache(context.Background(), domain.ChainEthereumMainnet, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecacheEmptyURISkips(t *testing.T) {
	s := setupIndexerTest(t)
	defer s.ctrl.Finish()

	s.store.EXPECT().
		GetModelCache(gomock.Any(), "eip155:1", uint64(1)).
		Return(&schema.ModelCache{AssetID: 1, Chain: "eip155:1"}, nil)

	// no metadata resolution, no derived write
	err := s.indexer.Recache(context.Background(), domain.ChainEthereumMainnet, 1)
	assert.NoError(t, err)
}

func TestRecacheResolveFailureLeavesRowUntouched(t *testing.T) {
	s := setupIndexerTest(t)
	defer s.ctrl.Finish()

	s.store.EXPECT().
		GetModelCache(gomock.Any(), "eip155:1", uint64(1)).
		Return(&schema.ModelCache{AssetID: 1, Chain: "eip155:1", URI: "ipfs://QmGone"}, nil)

	s.metadata.EXPECT().
		Resolve(gomock.Any(), "ipfs://QmGone").
		Return(nil, domain.ErrUpstreamUnavailable)

	err := s.indexer.Recache(context.Background(), domain.ChainEthereumMainnet, 1)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestRefreshSyncFirst(t *testing.T) {
	s := setupIndexerTest(t)
	defer s.ctrl.Finish()

	s.account.EXPECT().
		AssetRecord(gomock.Any(), uint64(1)).
		Return(accountRecord(1), nil)
	s.store.EXPECT().
		UpsertModelCache(gomock.Any(), gomock.Any()).
		Return(nil)

	s.store.EXPECT().
		GetModelCache(gomock.Any(), "eip155:1", uint64(1)).
		Return(&schema.ModelCache{AssetID: 1, Chain: "eip155:1", URI: "ipfs://QmModelMeta"}, nil)
	s.metadata.EXPECT().
		Resolve(gomock.Any(), "ipfs://QmModelMeta").
		Return(&metadata.NormalizedMetadata{Raw: map[string]interface{}{}}, nil)
	s.store.EXPECT().
		UpdateModelDerived(gomock.Any(), "eip155:1", uint64(1), gomock.Any()).
		Return(nil)

	err := s.indexer.Refresh(context.Background(), domain.ChainEthereumMainnet, 1, true)
	assert.NoError(t, err)
}

func TestRefreshSyncFailureShortCircuits(t *testing.T) {
	s := setupIndexerTest(t)
	defer s.ctrl.Finish()

	s.account.EXPECT().
		AssetRecord(gomock.Any(), uint64(1)).
		Return(nil, domain.ErrUpstreamUnavailable)

	err := s.indexer.Refresh(context.Background(), domain.ChainEthereumMainnet, 1, true)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestResyncBatchIsolatesFailures(t *testing.T) {
	s := setupIndexerTest(t)
	defer s.ctrl.Finish()

	s.account.EXPECT().
		AssetRecord(gomock.Any(), uint64(1)).
		Return(accountRecord(1), nil)
	s.account.EXPECT().
		AssetRecord(gomock.Any(), uint64(2)).
		Return(nil, errors.New("rpc timeout"))
	s.account.EXPECT().
		AssetRecord(gomock.Any(), uint64(3)).
		Return(accountRecord(3), nil)

	var mu sync.Mutex
	var savedIDs []uint64
	s.store.EXPECT().
		UpsertModelCache(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, row *schema.ModelCache) error {
			mu.Lock()
			defer mu.Unlock()
			savedIDs = append(savedIDs, row.AssetID)
			return nil
		}).
		Times(2)

	results := s.indexer.ResyncBatch(context.Background(), domain.ChainEthereumMainnet, []uint64{1, 2, 3})
	require.Len(t, results, 3)

	assert.Equal(t, uint64(1), results[0].AssetID)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, uint64(2), results[1].AssetID)
	assert.Error(t, results[1].Err)
	assert.Equal(t, uint64(3), results[2].AssetID)
	assert.NoError(t, results[2].Err)

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []uint64{1, 3}, savedIDs)
}

func TestResyncBatchCancelledContext(t *testing.T) {
	s := setupIndexerTest(t)
	defer s.ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := s.indexer.ResyncBatch(ctx, domain.ChainEthereumMainnet, []uint64{1, 2})
	require.Len(t, results, 2)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
	assert.ErrorIs(t, results[1].Err, context.Canceled)
}

func TestSyncListings(t *testing.T) {
	s := setupIndexerTest(t)
	defer s.ctrl.Finish()

	const cursorKey = "listing_cursor:sui:mainnet"

	s.store.EXPECT().
		GetKeyValue(gomock.Any(), cursorKey).
		Return("", nil)

	// first page is full, second is short and ends the walk
	s.object.EXPECT().
		AssetPage(gomock.Any(), uint64(0), 2).
		Return([]domain.AssetSummary{{ID: 1}, {ID: 2}}, nil)
	s.object.EXPECT().
		AssetPage(gomock.Any(), uint64(3), 2).
		Return([]domain.AssetSummary{{ID: 3}}, nil)

	for _, id := range []uint64{1, 2, 3} {
		s.object.EXPECT().
			AssetDetail(gomock.Any(), id).
			Return(&domain.AssetDetail{ID: id, Listed: true}, nil)
		s.object.EXPECT().
			AssetMeta(gomock.Any(), id).
			Return("model", "ipfs://meta", nil)
	}
	s.store.EXPECT().
		UpsertModelCache(gomock.Any(), gomock.Any()).
		Return(nil).
		Times(3)

	s.store.EXPECT().SetKeyValue(gomock.Any(), cursorKey, "3").Return(nil)
	s.store.EXPECT().SetKeyValue(gomock.Any(), cursorKey, "4").Return(nil)

	total, err := s.indexer.SyncListings(context.Background(), domain.ChainSuiMainnet)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestSyncListingsResumesFromCursor(t *testing.T) {
	s := setupIndexerTest(t)
	defer s.ctrl.Finish()

	const cursorKey = "listing_cursor:sui:mainnet"

	s.store.EXPECT().
		GetKeyValue(gomock.Any(), cursorKey).
		Return("100", nil)
	s.object.EXPECT().
		AssetPage(gomock.Any(), uint64(100), 2).
		Return(nil, nil)

	total, err := s.indexer.SyncListings(context.Background(), domain.ChainSuiMainnet)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestSyncListingsAccountChainRejected(t *testing.T) {
	s := setupIndexerTest(t)
	defer s.ctrl.Finish()

	_, err := s.indexer.SyncListings(context.Background(), domain.ChainEthereumMainnet)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSyncListingsCountsOnlySuccesses(t *testing.T) {
	s := setupIndexerTest(t)
	defer s.ctrl.Finish()

	const cursorKey = "listing_cursor:sui:mainnet"

	s.store.EXPECT().
		GetKeyValue(gomock.Any(), cursorKey).
		Return("", nil)
	s.object.EXPECT().
		AssetPage(gomock.Any(), uint64(0), 2).
		Return([]domain.AssetSummary{{ID: 1}}, nil)

	s.object.EXPECT().
		AssetDetail(gomock.Any(), uint64(1)).
		Return(nil, errors.New("rpc timeout"))

	// the cursor still advances past the failed asset
	s.store.EXPECT().SetKeyValue(gomock.Any(), cursorKey, "2").Return(nil)

	total, err := s.indexer.SyncListings(context.Background(), domain.ChainSuiMainnet)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}
