package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelzoo-market/mz-indexer/internal/api/middleware"
	"github.com/modelzoo-market/mz-indexer/internal/api/rest"
	"github.com/modelzoo-market/mz-indexer/internal/domain"
	"github.com/modelzoo-market/mz-indexer/internal/entitlement"
	"github.com/modelzoo-market/mz-indexer/internal/indexer"
	"github.com/modelzoo-market/mz-indexer/internal/logger"
	"github.com/modelzoo-market/mz-indexer/internal/mocks"
	"github.com/modelzoo-market/mz-indexer/internal/providers/evm"
	"github.com/modelzoo-market/mz-indexer/internal/settlement"
	"github.com/modelzoo-market/mz-indexer/internal/store/schema"
)

const (
	ownerAddress  = "0xF39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	sellerAddress = "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"
	walletAddress = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

type handlerTest struct {
	ctrl       *gomock.Controller
	store      *mocks.MockStore
	indexer    *mocks.MockIndexer
	account    *mocks.MockAccountLedger
	object     *mocks.MockObjectLedger
	transferor *mocks.MockTransferor
	settlement *settlement.Account
	handler    rest.Handler
}

func setupHandlerTest(t *testing.T) *handlerTest {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	idx := mocks.NewMockIndexer(ctrl)
	accountLedger := mocks.NewMockAccountLedger(ctrl)
	objectLedger := mocks.NewMockObjectLedger(ctrl)
	transferor := mocks.NewMockTransferor(ctrl)
	clock := mocks.NewMockClock(ctrl)

	clock.EXPECT().Now().Return(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)).AnyTimes()

	entitlements := entitlement.NewResolver(accountLedger, objectLedger, clock)
	account := settlement.NewAccount(settlement.Config{
		Owner:             ownerAddress,
		MarketplaceWallet: walletAddress,
		MinWithdrawal:     1,
	}, transferor, clock, nil)

	return &handlerTest{
		ctrl:       ctrl,
		store:      st,
		indexer:    idx,
		account:    accountLedger,
		object:     objectLedger,
		transferor: transferor,
		settlement: account,
		handler:    rest.NewHandler(st, idx, entitlements, account, domain.ChainEthereumMainnet),
	}
}

// perform runs one handler through a gin test context, optionally carrying an
// authenticated subject the way the auth middleware would
func perform(handlerFn gin.HandlerFunc, method, path string, params gin.Params, body interface{}, subject string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	c.Request = httptest.NewRequest(method, path, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params
	if subject != "" {
		c.Set(string(middleware.AUTH_SUBJECT_KEY), subject)
	}

	handlerFn(c)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) (code, message string) {
	t.Helper()
	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error.Code, resp.Error.Message
}

func chainAssetParams(chain string, assetID string) gin.Params {
	return gin.Params{
		{Key: "chain", Value: chain},
		{Key: "asset_id", Value: assetID},
	}
}

func TestGetModel(t *testing.T) {
	s := setupHandlerTest(t)
	defer s.ctrl.Finish()

	s.store.EXPECT().
		GetModelCache(gomock.Any(), "eip155:1", uint64(1)).
		Return(&schema.ModelCache{
			AssetID: 1,
			Chain:   "eip155:1",
			Name:    "llama-7b-chat",
			Listed:  true,
		}, nil)

	w := perform(s.handler.GetModel, http.MethodGet, "/api/v1/models/eip155:1/1",
		chainAssetParams("eip155:1", "1"), nil, "")

	require.Equal(t, http.StatusOK, w.Code)

	var dto rest.ModelDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Equal(t, "eip155:1:1", dto.AssetCID)
	assert.Equal(t, "llama-7b-chat", dto.Name)
}

func TestGetModelNotFound(t *testing.T) {
	s := setupHandlerTest(t)
	defer s.ctrl.Finish()

	s.store.EXPECT().
		GetModelCache(gomock.Any(), "eip155:1", uint64(9)).
		Return(nil, nil)

	w := perform(s.handler.GetModel, http.MethodGet, "/api/v1/models/eip155:1/9",
		chainAssetParams("eip155:1", "9"), nil, "")

	require.Equal(t, http.StatusNotFound, w.Code)
	code, _ := decodeError(t, w)
	assert.Equal(t, "not_found", code)
}

func TestGetModelInvalidChain(t *testing.T) {
	s := setupHandlerTest(t)
	defer s.ctrl.Finish()

	w := perform(s.handler.GetModel, http.MethodGet, "/api/v1/models/eip155:137/1",
		chainAssetParams("eip155:137", "1"), nil, "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	code, _ := decodeError(t, w)
	assert.Equal(t, "bad_request", code)
}

func TestListModels(t *testing.T) {
	s := setupHandlerTest(t)
	defer s.ctrl.Finish()

	s.store.EXPECT().
		ListModelCache(gomock.Any(), "sui:mainnet", 0, 50).
		Return([]schema.ModelCache{
			{AssetID: 1, Chain: "sui:mainnet"},
			{AssetID: 2, Chain: "sui:mainnet"},
		}, nil)

	w := perform(s.handler.ListModels, http.MethodGet, "/api/v1/models?chain=sui:mainnet",
		nil, nil, "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp rest.ListModelsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Models, 2)
	assert.Equal(t, "sui:mainnet:1", resp.Models[0].AssetCID)
	assert.Equal(t, 50, resp.Limit)
}

func TestRefreshModel(t *testing.T) {
	s := setupHandlerTest(t)
	defer s.ctrl.Finish()

	s.indexer.EXPECT().
		Refresh(gomock.Any(), domain.ChainEthereumMainnet, uint64(1), true).
		Return(nil)

	w := perform(s.handler.RefreshModel, http.MethodPost, "/api/v1/models/eip155:1/1/refresh",
		chainAssetParams("eip155:1", "1"), rest.RefreshRequest{SyncFirst: true}, "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp rest.RefreshResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "eip155:1:1", resp.AssetCID)
	assert.Equal(t, "refreshed", resp.Status)
}

func TestRefreshModelUpstreamDown(t *testing.T) {
	s := setupHandlerTest(t)
	defer s.ctrl.Finish()

	s.indexer.EXPECT().
		Refresh(gomock.Any(), domain.ChainEthereumMainnet, uint64(1), false).
		Return(domain.ErrUpstreamUnavailable)

	w := perform(s.handler.RefreshModel, http.MethodPost, "/api/v1/models/eip155:1/1/refresh",
		chainAssetParams("eip155:1", "1"), nil, "")

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	code, _ := decodeError(t, w)
	assert.Equal(t, "upstream_unavailable", code)
}

func TestResyncModelMalformedPayload(t *testing.T) {
	s := setupHandlerTest(t)
	defer s.ctrl.Finish()

	s.indexer.EXPECT().
		Resync(gomock.Any(), domain.ChainSuiMainnet, uint64(7)).
		Return(domain.ErrMalformedPayload)

	w := perform(s.handler.ResyncModel, http.MethodPost, "/api/v1/models/sui:mainnet/7/resync",
		chainAssetParams("sui:mainnet", "7"), nil, "")

	require.Equal(t, http.StatusBadGateway, w.Code)
	code, _ := decodeError(t, w)
	assert.Equal(t, "bad_upstream", code)
}

func TestResyncModelsReportsPerAssetOutcomes(t *testing.T) {
	s := setupHandlerTest(t)
	defer s.ctrl.Finish()

	s.indexer.EXPECT().
		ResyncBatch(gomock.Any(), domain.ChainEthereumMainnet, []uint64{1, 2}).
		Return([]indexer.BatchResult{
			{AssetID: 1},
			{AssetID: 2, Err: domain.ErrMalformedPayload},
		})

	body := rest.BatchResyncRequest{Chain: "eip155:1", AssetIDs: []uint64{1, 2}}
	w := perform(s.handler.ResyncModels, http.MethodPost, "/api/v1/models/resync",
		nil, body, ownerAddress)

	require.Equal(t, http.StatusOK, w.Code)

	var resp rest.BatchResyncResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.Equal(t, rest.BatchResyncResult{AssetCID: "eip155:1:1", Status: "resynced"}, resp.Results[0])
	assert.Equal(t, "failed", resp.Results[1].Status)
	assert.Equal(t, "eip155:1:2", resp.Results[1].AssetCID)
	assert.NotEmpty(t, resp.Results[1].Error)
}

func TestResyncModelsRejectsEmptyBatch(t *testing.T) {
	s := setupHandlerTest(t)
	defer s.ctrl.Finish()

	body := rest.BatchResyncRequest{Chain: "eip155:1"}
	w := perform(s.handler.ResyncModels, http.MethodPost, "/api/v1/models/resync",
		nil, body, ownerAddress)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	code, _ := decodeError(t, w)
	assert.Equal(t, "validation_failed", code)
}

func TestGetEntitlement(t *testing.T) {
	s := setupHandlerTest(t)
	defer s.ctrl.Finish()

	s.account.EXPECT().
		LicenseIDsByHolder(gomock.Any(), sellerAddress).
		Return([]uint64{5}, nil)
	s.account.EXPECT().
		LicenseAsset(gomock.Any(), uint64(5)).
		Return(uint64(1), nil)
	s.account.EXPECT().
		LicenseStatus(gomock.Any(), uint64(5)).
		Return(&evm.LicenseStatus{
			Kind:     domain.LicenseKindPerpetual,
			ValidAPI: true,
		}, nil)

	w := perform(s.handler.GetEntitlement, http.MethodGet,
		"/api/v1/entitlements/eip155:1/1?principal="+sellerAddress,
		chainAssetParams("eip155:1", "1"), nil, "")

	require.Equal(t, http.StatusOK, w.Code)

	var ent domain.Entitlement
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ent))
	assert.True(t, ent.Found)
	assert.Equal(t, domain.RightAPI, ent.Rights)
}

func TestGetEntitlementMissingPrincipal(t *testing.T) {
	s := setupHandlerTest(t)
	defer s.ctrl.Finish()

	w := perform(s.handler.GetEntitlement, http.MethodGet, "/api/v1/entitlements/eip155:1/1",
		chainAssetParams("eip155:1", "1"), nil, "")

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResolveSlug(t *testing.T) {
	s := setupHandlerTest(t)
	defer s.ctrl.Finish()

	const objectOwner = "0xa1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90"

	s.object.EXPECT().
		LatestAssetID(gomock.Any(), objectOwner, "llama-7b").
		Return(uint64(42), nil)

	w := perform(s.handler.ResolveSlug, http.MethodGet, "/api/v1/slugs/"+objectOwner+"/llama-7b",
		gin.Params{
			{Key: "owner", Value: objectOwner},
			{Key: "slug", Value: "llama-7b"},
		}, nil, "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp rest.SlugResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint64(42), resp.AssetID)
}

func TestResolveSlugNotFound(t *testing.T) {
	s := setupHandlerTest(t)
	defer s.ctrl.Finish()

	const objectOwner = "0xa1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90"

	s.object.EXPECT().
		LatestAssetID(gomock.Any(), objectOwner, "unpublished").
		Return(uint64(0), domain.ErrNotFound)

	w := perform(s.handler.ResolveSlug, http.MethodGet, "/api/v1/slugs/"+objectOwner+"/unpublished",
		gin.Params{
			{Key: "owner", Value: objectOwner},
			{Key: "slug", Value: "unpublished"},
		}, nil, "")

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestConfigureSplitAndQuote(t *testing.T) {
	s := setupHandlerTest(t)
	defer s.ctrl.Finish()

	w := perform(s.handler.ConfigureSplit, http.MethodPost, "/api/v1/settlement/splits",
		nil, rest.ConfigureSplitRequest{
			AssetID:        1,
			Seller:         sellerAddress,
			Creator:        walletAddress,
			RoyaltyBps:     500,
			MarketplaceBps: 250,
		}, ownerAddress)
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(s.handler.QuoteSplit, http.MethodGet, "/api/v1/settlement/splits/1/quote?amount=100000000",
		gin.Params{{Key: "asset_id", Value: "1"}}, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var quote rest.SplitQuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
	assert.Equal(t, uint64(92_500000), quote.Breakdown.SellerAmount)
	assert.Equal(t, uint64(5_000000), quote.Breakdown.CreatorAmount)
	assert.Equal(t, uint64(2_500000), quote.Breakdown.MarketplaceAmount)
}

func TestConfigureSplitRequiresAuth(t *testing.T) {
	s := setupHandlerTest(t)
	defer s.ctrl.Finish()

	w := perform(s.handler.ConfigureSplit, http.MethodPost, "/api/v1/settlement/splits",
		nil, rest.ConfigureSplitRequest{
			AssetID: 1,
			Seller:  sellerAddress,
			Creator: walletAddress,
		}, "")

	require.Equal(t, http.StatusForbidden, w.Code)
	code, _ := decodeError(t, w)
	assert.Equal(t, "forbidden", code)
}

func TestConfigureSplitUnauthorizedCaller(t *testing.T) {
	s := setupHandlerTest(t)
	defer s.ctrl.Finish()

	w := perform(s.handler.ConfigureSplit, http.MethodPost, "/api/v1/settlement/splits",
		nil, rest.ConfigureSplitRequest{
			AssetID: 1,
			Seller:  sellerAddress,
			Creator: walletAddress,
		}, sellerAddress)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestConfigureSplitInvalidBps(t *testing.T) {
	s := setupHandlerTest(t)
	defer s.ctrl.Finish()

	w := perform(s.handler.ConfigureSplit, http.MethodPost, "/api/v1/settlement/splits",
		nil, rest.ConfigureSplitRequest{
			AssetID:    1,
			Seller:     sellerAddress,
			Creator:    walletAddress,
			RoyaltyBps: 2500,
		}, ownerAddress)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	code, _ := decodeError(t, w)
	assert.Equal(t, "validation_failed", code)
}

func TestDistributeAndWithdraw(t *testing.T) {
	s := setupHandlerTest(t)
	defer s.ctrl.Finish()

	require.NoError(t, s.settlement.ConfigureSplit(context.Background(), ownerAddress,
		1, sellerAddress, walletAddress, 500, 250))

	w := perform(s.handler.DistributePayment, http.MethodPost, "/api/v1/settlement/distribute",
		nil, rest.DistributeRequest{AssetID: 1, Amount: 100_000000}, ownerAddress)
	require.Equal(t, http.StatusOK, w.Code)

	var dist rest.DistributeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dist))
	assert.Equal(t, uint64(92_500000), dist.Breakdown.SellerAmount)

	// seller balance is visible
	w = perform(s.handler.GetBalance, http.MethodGet, "/api/v1/settlement/balances/"+sellerAddress,
		gin.Params{{Key: "address", Value: sellerAddress}}, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var balance rest.BalanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balance))
	assert.Equal(t, uint64(92_500000), balance.Pending)

	// seller withdraws everything
	s.transferor.EXPECT().
		Transfer(gomock.Any(), sellerAddress, uint64(92_500000)).
		Return(nil)

	w = perform(s.handler.Withdraw, http.MethodPost, "/api/v1/settlement/withdraw",
		nil, nil, sellerAddress)
	require.Equal(t, http.StatusOK, w.Code)

	var withdrawal rest.WithdrawResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &withdrawal))
	assert.Equal(t, uint64(92_500000), withdrawal.Amount)
	assert.Equal(t, sellerAddress, withdrawal.Recipient)
}

func TestDistributeWithoutSplit(t *testing.T) {
	s := setupHandlerTest(t)
	defer s.ctrl.Finish()

	w := perform(s.handler.DistributePayment, http.MethodPost, "/api/v1/settlement/distribute",
		nil, rest.DistributeRequest{AssetID: 9, Amount: 1000}, ownerAddress)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestWithdrawBelowMinimum(t *testing.T) {
	s := setupHandlerTest(t)
	defer s.ctrl.Finish()

	w := perform(s.handler.Withdraw, http.MethodPost, "/api/v1/settlement/withdraw",
		nil, nil, sellerAddress)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	code, _ := decodeError(t, w)
	assert.Equal(t, "validation_failed", code)
}

func TestMarketplaceWalletTimelockConflict(t *testing.T) {
	s := setupHandlerTest(t)
	defer s.ctrl.Finish()

	w := perform(s.handler.RequestMarketplaceWallet, http.MethodPost,
		"/api/v1/settlement/marketplace-wallet/request",
		nil, rest.WalletChangeRequest{Wallet: sellerAddress}, ownerAddress)
	require.Equal(t, http.StatusOK, w.Code)

	// the mocked clock never advances, so execution hits the timelock
	w = perform(s.handler.ExecuteMarketplaceWallet, http.MethodPost,
		"/api/v1/settlement/marketplace-wallet/execute",
		nil, nil, ownerAddress)
	require.Equal(t, http.StatusConflict, w.Code)
	code, _ := decodeError(t, w)
	assert.Equal(t, "conflict", code)

	// cancelling clears the request
	w = perform(s.handler.CancelMarketplaceWallet, http.MethodPost,
		"/api/v1/settlement/marketplace-wallet/cancel",
		nil, nil, ownerAddress)
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(s.handler.CancelMarketplaceWallet, http.MethodPost,
		"/api/v1/settlement/marketplace-wallet/cancel",
		nil, nil, ownerAddress)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestPayoutWalletFlow(t *testing.T) {
	s := setupHandlerTest(t)
	defer s.ctrl.Finish()

	require.NoError(t, s.settlement.ConfigureSplit(context.Background(), ownerAddress,
		1, sellerAddress, walletAddress, 500, 250))

	w := perform(s.handler.RequestPayoutWallet, http.MethodPost,
		"/api/v1/settlement/payout-wallet/request",
		nil, rest.PayoutWalletChangeRequest{AssetID: 1, Wallet: walletAddress}, sellerAddress)
	require.Equal(t, http.StatusOK, w.Code)

	// only the seller may request
	w = perform(s.handler.RequestPayoutWallet, http.MethodPost,
		"/api/v1/settlement/payout-wallet/request",
		nil, rest.PayoutWalletChangeRequest{AssetID: 1, Wallet: walletAddress}, ownerAddress)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = perform(s.handler.ExecutePayoutWallet, http.MethodPost,
		"/api/v1/settlement/payout-wallet/execute",
		nil, rest.PayoutWalletExecuteRequest{AssetID: 1}, sellerAddress)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestSetAuthorizedCaller(t *testing.T) {
	s := setupHandlerTest(t)
	defer s.ctrl.Finish()

	w := perform(s.handler.SetAuthorizedCaller, http.MethodPost,
		"/api/v1/settlement/authorized-callers",
		nil, rest.AuthorizedCallerRequest{Address: sellerAddress, Allowed: true}, ownerAddress)
	require.Equal(t, http.StatusOK, w.Code)

	// the newly authorized caller can now configure splits
	w = perform(s.handler.ConfigureSplit, http.MethodPost, "/api/v1/settlement/splits",
		nil, rest.ConfigureSplitRequest{
			AssetID:        1,
			Seller:         sellerAddress,
			Creator:        walletAddress,
			RoyaltyBps:     500,
			MarketplaceBps: 250,
		}, sellerAddress)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestPauseUnpause(t *testing.T) {
	s := setupHandlerTest(t)
	defer s.ctrl.Finish()

	w := perform(s.handler.Pause, http.MethodPost, "/api/v1/settlement/pause",
		nil, nil, ownerAddress)
	require.Equal(t, http.StatusOK, w.Code)

	// mutations conflict while paused
	w = perform(s.handler.ConfigureSplit, http.MethodPost, "/api/v1/settlement/splits",
		nil, rest.ConfigureSplitRequest{
			AssetID: 1,
			Seller:  sellerAddress,
			Creator: walletAddress,
		}, ownerAddress)
	require.Equal(t, http.StatusConflict, w.Code)

	w = perform(s.handler.Unpause, http.MethodPost, "/api/v1/settlement/unpause",
		nil, nil, ownerAddress)
	require.Equal(t, http.StatusOK, w.Code)

	// non-owner cannot pause
	w = perform(s.handler.Pause, http.MethodPost, "/api/v1/settlement/pause",
		nil, nil, sellerAddress)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestHealthCheck(t *testing.T) {
	s := setupHandlerTest(t)
	defer s.ctrl.Finish()

	w := perform(s.handler.HealthCheck, http.MethodGet, "/health", nil, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
