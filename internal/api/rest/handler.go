package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/modelzoo-market/mz-indexer/internal/api/middleware"
	"github.com/modelzoo-market/mz-indexer/internal/domain"
	"github.com/modelzoo-market/mz-indexer/internal/entitlement"
	"github.com/modelzoo-market/mz-indexer/internal/indexer"
	"github.com/modelzoo-market/mz-indexer/internal/settlement"
	"github.com/modelzoo-market/mz-indexer/internal/store"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// GetModel retrieves a single cached model
	// GET /api/v1/models/:chain/:asset_id
	GetModel(c *gin.Context)

	// ListModels retrieves listed cached models for a chain
	// GET /api/v1/models?chain=<chain>&limit=<limit>&offset=<offset>
	ListModels(c *gin.Context)

	// RefreshModel triggers a resync and/or recache for one asset
	// POST /api/v1/models/:chain/:asset_id/refresh
	RefreshModel(c *gin.Context)

	// ResyncModel re-reads the ledger record of one asset
	// POST /api/v1/models/:chain/:asset_id/resync
	ResyncModel(c *gin.Context)

	// ResyncModels re-reads the ledger records of many assets
	// POST /api/v1/models/resync
	ResyncModels(c *gin.Context)

	// GetEntitlement resolves whether a principal may use a model now
	// GET /api/v1/entitlements/:chain/:asset_id?principal=<address>
	GetEntitlement(c *gin.Context)

	// ResolveSlug resolves an owner+slug composite key to its current asset id
	// GET /api/v1/slugs/:owner/:slug
	ResolveSlug(c *gin.Context)

	// QuoteSplit computes a split breakdown without mutating state
	// GET /api/v1/settlement/splits/:asset_id/quote?amount=<amount>
	QuoteSplit(c *gin.Context)

	// ConfigureSplit creates or overwrites an asset's split configuration
	// POST /api/v1/settlement/splits
	ConfigureSplit(c *gin.Context)

	// DistributePayment splits a payment into escrowed pending balances
	// POST /api/v1/settlement/distribute
	DistributePayment(c *gin.Context)

	// Withdraw pays out the caller's full pending balance
	// POST /api/v1/settlement/withdraw
	Withdraw(c *gin.Context)

	// GetBalance reports a recipient's pending balance
	// GET /api/v1/settlement/balances/:address
	GetBalance(c *gin.Context)

	// RequestMarketplaceWallet starts the marketplace wallet timelock
	// POST /api/v1/settlement/marketplace-wallet/request
	RequestMarketplaceWallet(c *gin.Context)

	// ExecuteMarketplaceWallet applies a pending marketplace wallet change
	// POST /api/v1/settlement/marketplace-wallet/execute
	ExecuteMarketplaceWallet(c *gin.Context)

	// CancelMarketplaceWallet discards a pending marketplace wallet change
	// POST /api/v1/settlement/marketplace-wallet/cancel
	CancelMarketplaceWallet(c *gin.Context)

	// RequestPayoutWallet starts a per-asset payout wallet timelock
	// POST /api/v1/settlement/payout-wallet/request
	RequestPayoutWallet(c *gin.Context)

	// ExecutePayoutWallet applies a pending per-asset payout wallet change
	// POST /api/v1/settlement/payout-wallet/execute
	ExecutePayoutWallet(c *gin.Context)

	// SetAuthorizedCaller adds or removes an allow-list entry
	// POST /api/v1/settlement/authorized-callers
	SetAuthorizedCaller(c *gin.Context)

	// Pause disables settlement mutations except withdrawal
	// POST /api/v1/settlement/pause
	Pause(c *gin.Context)

	// Unpause re-enables settlement mutations
	// POST /api/v1/settlement/unpause
	Unpause(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	store        store.Store
	indexer      indexer.Indexer
	entitlements *entitlement.Resolver
	account      *settlement.Account
	accountChain domain.Chain
}

// NewHandler creates a new REST API handler
func NewHandler(
	st store.Store,
	idx indexer.Indexer,
	entitlements *entitlement.Resolver,
	account *settlement.Account,
	accountChain domain.Chain,
) Handler {
	return &handler{
		store:        st,
		indexer:      idx,
		entitlements: entitlements,
		account:      account,
		accountChain: accountChain,
	}
}

// parseChainAsset extracts and validates the chain and asset id path params
func parseChainAsset(c *gin.Context) (domain.Chain, uint64, bool) {
	chain := domain.Chain(c.Param("chain"))
	if !domain.IsValidChain(chain) {
		respondBadRequest(c, "Invalid chain", string(chain))
		return "", 0, false
	}

	assetID, err := strconv.ParseUint(c.Param("asset_id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid asset id", c.Param("asset_id"))
		return "", 0, false
	}

	return chain, assetID, true
}

// caller returns the authenticated caller address, normalized to the
// account ledger's canonical form
func (h *handler) caller(c *gin.Context) (string, bool) {
	subject := middleware.AuthSubject(c)
	if subject == "" {
		respondWithError(c, http.StatusForbidden, errCodeForbidden,
			"Caller identity required", "authenticate with a JWT whose subject is your ledger address")
		return "", false
	}
	return domain.NormalizeAddress(h.accountChain, subject), true
}

// GetModel retrieves a single cached model
func (h *handler) GetModel(c *gin.Context) {
	chain, assetID, ok := parseChainAsset(c)
	if !ok {
		return
	}

	row, err := h.store.GetModelCache(c.Request.Context(), string(chain), assetID)
	if err != nil {
		respondInternalError(c, err, "Failed to get model",
			zap.String("chain", string(chain)), zap.Uint64("asset_id", assetID))
		return
	}
	if row == nil {
		respondNotFound(c, "Model not found")
		return
	}

	c.JSON(http.StatusOK, ModelFromSchema(row))
}

// ListModels retrieves listed cached models for a chain
func (h *handler) ListModels(c *gin.Context) {
	chain := domain.Chain(c.Query("chain"))
	if !domain.IsValidChain(chain) {
		respondBadRequest(c, "Invalid chain", string(chain))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	rows, err := h.store.ListModelCache(c.Request.Context(), string(chain), offset, limit)
	if err != nil {
		respondInternalError(c, err, "Failed to list models")
		return
	}

	models := make([]*ModelDTO, 0, len(rows))
	for i := range rows {
		models = append(models, ModelFromSchema(&rows[i]))
	}

	c.JSON(http.StatusOK, ListModelsResponse{
		Models: models,
		Limit:  limit,
		Offset: offset,
	})
}

// RefreshModel re-fetches the metadata document, optionally resyncing first
func (h *handler) RefreshModel(c *gin.Context) {
	chain, assetID, ok := parseChainAsset(c)
	if !ok {
		return
	}

	var req RefreshRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err.Error())
			return
		}
	}

	if err := h.indexer.Refresh(c.Request.Context(), chain, assetID, req.SyncFirst); err != nil {
		respondDomainError(c, err, "Failed to refresh model")
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{
		AssetCID: domain.NewAssetCID(chain, assetID).String(),
		Status:   "refreshed",
	})
}

// ResyncModel re-reads the ledger record of one asset
func (h *handler) ResyncModel(c *gin.Context) {
	chain, assetID, ok := parseChainAsset(c)
	if !ok {
		return
	}

	if err := h.indexer.Resync(c.Request.Context(), chain, assetID); err != nil {
		respondDomainError(c, err, "Failed to resync model")
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{
		AssetCID: domain.NewAssetCID(chain, assetID).String(),
		Status:   "resynced",
	})
}

// ResyncModels re-reads the ledger records of many assets. A failed asset
// never aborts the batch; its error is reported in its result entry.
func (h *handler) ResyncModels(c *gin.Context) {
	var req BatchResyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	chain := domain.Chain(req.Chain)
	if !domain.IsValidChain(chain) {
		respondBadRequest(c, "Invalid chain", req.Chain)
		return
	}
	if len(req.AssetIDs) == 0 {
		respondValidationError(c, "asset_ids must not be empty")
		return
	}

	results := h.indexer.ResyncBatch(c.Request.Context(), chain, req.AssetIDs)

	resp := BatchResyncResponse{Results: make([]BatchResyncResult, 0, len(results))}
	for _, res := range results {
		entry := BatchResyncResult{
			AssetCID: domain.NewAssetCID(chain, res.AssetID).String(),
			Status:   "resynced",
		}
		if res.Err != nil {
			entry.Status = "failed"
			entry.Error = res.Err.Error()
		}
		resp.Results = append(resp.Results, entry)
	}

	c.JSON(http.StatusOK, resp)
}

// GetEntitlement resolves whether a principal may use a model now
func (h *handler) GetEntitlement(c *gin.Context) {
	chain, assetID, ok := parseChainAsset(c)
	if !ok {
		return
	}

	principal := c.Query("principal")
	if principal == "" {
		respondBadRequest(c, "principal query parameter is required")
		return
	}

	result, err := h.entitlements.Resolve(c.Request.Context(), chain, principal, assetID)
	if err != nil {
		respondDomainError(c, err, "Failed to resolve entitlement")
		return
	}

	c.JSON(http.StatusOK, result)
}

// ResolveSlug resolves an owner+slug composite key to its current asset id
func (h *handler) ResolveSlug(c *gin.Context) {
	owner := c.Param("owner")
	slug := c.Param("slug")
	if owner == "" || slug == "" {
		respondBadRequest(c, "owner and slug are required")
		return
	}

	assetID, err := h.entitlements.ResolveSlug(c.Request.Context(), owner, slug)
	if err != nil {
		respondDomainError(c, err, "Failed to resolve slug")
		return
	}

	c.JSON(http.StatusOK, SlugResponse{
		Owner:   owner,
		Slug:    slug,
		AssetID: assetID,
	})
}

// QuoteSplit computes a split breakdown without mutating state
func (h *handler) QuoteSplit(c *gin.Context) {
	assetID, err := strconv.ParseUint(c.Param("asset_id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid asset id", c.Param("asset_id"))
		return
	}

	amount, err := strconv.ParseUint(c.Query("amount"), 10, 64)
	if err != nil || amount == 0 {
		respondBadRequest(c, "amount query parameter must be a positive integer")
		return
	}

	breakdown, err := h.account.CalculateSplit(assetID, amount)
	if err != nil {
		respondDomainError(c, err, "Failed to calculate split")
		return
	}

	c.JSON(http.StatusOK, SplitQuoteResponse{
		AssetID:   assetID,
		Amount:    amount,
		Breakdown: breakdown,
	})
}

// ConfigureSplit creates or overwrites an asset's split configuration
func (h *handler) ConfigureSplit(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req ConfigureSplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	err := h.account.ConfigureSplit(c.Request.Context(), caller, req.AssetID,
		domain.NormalizeAddress(h.accountChain, req.Seller),
		domain.NormalizeAddress(h.accountChain, req.Creator),
		req.RoyaltyBps, req.MarketplaceBps)
	if err != nil {
		respondDomainError(c, err, "Failed to configure split")
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Status: "configured"})
}

// DistributePayment splits a payment into escrowed pending balances
func (h *handler) DistributePayment(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req DistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	breakdown, err := h.account.DistributePayment(c.Request.Context(), caller, req.AssetID, req.Amount)
	if err != nil {
		respondDomainError(c, err, "Failed to distribute payment")
		return
	}

	c.JSON(http.StatusOK, DistributeResponse{
		AssetID:   req.AssetID,
		Amount:    req.Amount,
		Breakdown: breakdown,
	})
}

// Withdraw pays out the caller's full pending balance
func (h *handler) Withdraw(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	amount, err := h.account.Withdraw(c.Request.Context(), caller)
	if err != nil {
		respondDomainError(c, err, "Failed to withdraw")
		return
	}

	c.JSON(http.StatusOK, WithdrawResponse{
		Recipient: caller,
		Amount:    amount,
	})
}

// GetBalance reports a recipient's pending balance
func (h *handler) GetBalance(c *gin.Context) {
	address := c.Param("address")
	if address == "" {
		respondBadRequest(c, "address is required")
		return
	}
	address = domain.NormalizeAddress(h.accountChain, address)

	c.JSON(http.StatusOK, BalanceResponse{
		Recipient: address,
		Pending:   h.account.PendingBalance(address),
	})
}

// RequestMarketplaceWallet starts the marketplace wallet timelock
func (h *handler) RequestMarketplaceWallet(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req WalletChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	err := h.account.RequestMarketplaceWalletChange(caller, domain.NormalizeAddress(h.accountChain, req.Wallet))
	if err != nil {
		respondDomainError(c, err, "Failed to request marketplace wallet change")
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Status: "requested"})
}

// ExecuteMarketplaceWallet applies a pending marketplace wallet change
func (h *handler) ExecuteMarketplaceWallet(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	if err := h.account.ExecuteMarketplaceWalletChange(caller); err != nil {
		respondDomainError(c, err, "Failed to execute marketplace wallet change")
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Status: "executed"})
}

// CancelMarketplaceWallet discards a pending marketplace wallet change
func (h *handler) CancelMarketplaceWallet(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	if err := h.account.CancelMarketplaceWalletChange(caller); err != nil {
		respondDomainError(c, err, "Failed to cancel marketplace wallet change")
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Status: "cancelled"})
}

// RequestPayoutWallet starts a per-asset payout wallet timelock
func (h *handler) RequestPayoutWallet(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req PayoutWalletChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	err := h.account.RequestAssetPayoutWalletChange(caller, req.AssetID,
		domain.NormalizeAddress(h.accountChain, req.Wallet))
	if err != nil {
		respondDomainError(c, err, "Failed to request payout wallet change")
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Status: "requested"})
}

// ExecutePayoutWallet applies a pending per-asset payout wallet change
func (h *handler) ExecutePayoutWallet(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req PayoutWalletExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if err := h.account.ExecuteAssetPayoutWalletChange(caller, req.AssetID); err != nil {
		respondDomainError(c, err, "Failed to execute payout wallet change")
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Status: "executed"})
}

// SetAuthorizedCaller adds or removes an allow-list entry
func (h *handler) SetAuthorizedCaller(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req AuthorizedCallerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	err := h.account.SetAuthorizedCaller(caller,
		domain.NormalizeAddress(h.accountChain, req.Address), req.Allowed)
	if err != nil {
		respondDomainError(c, err, "Failed to update allow-list")
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Status: "updated"})
}

// Pause disables settlement mutations except withdrawal
func (h *handler) Pause(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	if err := h.account.Pause(caller); err != nil {
		respondDomainError(c, err, "Failed to pause")
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Status: "paused"})
}

// Unpause re-enables settlement mutations
func (h *handler) Unpause(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	if err := h.account.Unpause(caller); err != nil {
		respondDomainError(c, err, "Failed to unpause")
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Status: "unpaused"})
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
