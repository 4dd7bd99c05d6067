package rest

import (
	"time"

	"github.com/modelzoo-market/mz-indexer/internal/domain"
	"github.com/modelzoo-market/mz-indexer/internal/store/schema"
)

// ModelDTO is the public representation of a cached model
type ModelDTO struct {
	AssetCID            string     `json:"asset_cid"`
	AssetID             uint64     `json:"asset_id"`
	Chain               string     `json:"chain"`
	Owner               string     `json:"owner"`
	Creator             string     `json:"creator"`
	Name                string     `json:"name"`
	URI                 string     `json:"uri"`
	Listed              bool       `json:"listed"`
	RoyaltyBps          uint16     `json:"royalty_bps"`
	PricePerpetual      uint64     `json:"price_perpetual"`
	PriceSubscription   uint64     `json:"price_subscription"`
	DefaultDurationDays uint64     `json:"default_duration_days"`
	RightsMask          uint8      `json:"rights_mask"`
	DeliveryMode        string     `json:"delivery_mode"`
	TermsHash           string     `json:"terms_hash"`
	Version             uint16     `json:"version"`
	AgentID             *uint64    `json:"agent_id,omitempty"`
	AgentEndpoint       *string    `json:"agent_endpoint,omitempty"`
	AgentWallet         *string    `json:"agent_wallet,omitempty"`
	Categories          []string   `json:"categories,omitempty"`
	Tags                []string   `json:"tags,omitempty"`
	Frameworks          []string   `json:"frameworks,omitempty"`
	Architectures       []string   `json:"architectures,omitempty"`
	ImageRef            *string    `json:"image_ref,omitempty"`
	LastSyncedAt        time.Time  `json:"last_synced_at"`
	LastRecachedAt      *time.Time `json:"last_recached_at,omitempty"`
}

// ModelFromSchema maps a cache row to its DTO
func ModelFromSchema(row *schema.ModelCache) *ModelDTO {
	if row == nil {
		return nil
	}
	return &ModelDTO{
		AssetCID:            domain.NewAssetCID(domain.Chain(row.Chain), row.AssetID).String(),
		AssetID:             row.AssetID,
		Chain:               row.Chain,
		Owner:               row.Owner,
		Creator:             row.Creator,
		Name:                row.Name,
		URI:                 row.URI,
		Listed:              row.Listed,
		RoyaltyBps:          row.RoyaltyBps,
		PricePerpetual:      row.PricePerpetual,
		PriceSubscription:   row.PriceSubscription,
		DefaultDurationDays: row.DefaultDurationDays,
		RightsMask:          row.RightsMask,
		DeliveryMode:        row.DeliveryMode,
		TermsHash:           row.TermsHash,
		Version:             row.Version,
		AgentID:             row.AgentID,
		AgentEndpoint:       row.AgentEndpoint,
		AgentWallet:         row.AgentWallet,
		Categories:          row.Categories,
		Tags:                row.Tags,
		Frameworks:          row.Frameworks,
		Architectures:       row.Architectures,
		ImageRef:            row.ImageRef,
		LastSyncedAt:        row.LastSyncedAt,
		LastRecachedAt:      row.LastRecachedAt,
	}
}

// ListModelsResponse is the paginated model listing
type ListModelsResponse struct {
	Models []*ModelDTO `json:"models"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

// RefreshRequest triggers a cache refresh for one asset
type RefreshRequest struct {
	SyncFirst bool `json:"sync_first"`
}

// RefreshResponse reports the outcome of a refresh trigger
type RefreshResponse struct {
	AssetCID string `json:"asset_cid"`
	Status   string `json:"status"`
}

// BatchResyncRequest triggers a resync for many assets on one chain
type BatchResyncRequest struct {
	Chain    string   `json:"chain"`
	AssetIDs []uint64 `json:"asset_ids"`
}

// BatchResyncResult is the per-asset outcome of a batch resync
type BatchResyncResult struct {
	AssetCID string `json:"asset_cid"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

// BatchResyncResponse reports batch resync outcomes in input order
type BatchResyncResponse struct {
	Results []BatchResyncResult `json:"results"`
}

// SlugResponse is the resolved slug pointer
type SlugResponse struct {
	Owner   string `json:"owner"`
	Slug    string `json:"slug"`
	AssetID uint64 `json:"asset_id"`
}

// SplitQuoteResponse is a non-mutating split calculation
type SplitQuoteResponse struct {
	AssetID   uint64                `json:"asset_id"`
	Amount    uint64                `json:"amount"`
	Breakdown domain.SplitBreakdown `json:"breakdown"`
}

// ConfigureSplitRequest creates or overwrites an asset's split configuration
type ConfigureSplitRequest struct {
	AssetID        uint64 `json:"asset_id" binding:"required"`
	Seller         string `json:"seller" binding:"required"`
	Creator        string `json:"creator" binding:"required"`
	RoyaltyBps     uint16 `json:"royalty_bps"`
	MarketplaceBps uint16 `json:"marketplace_bps"`
}

// DistributeRequest splits a payment into pending balances
type DistributeRequest struct {
	AssetID uint64 `json:"asset_id" binding:"required"`
	Amount  uint64 `json:"amount" binding:"required"`
}

// DistributeResponse reports the escrowed breakdown
type DistributeResponse struct {
	AssetID   uint64                `json:"asset_id"`
	Amount    uint64                `json:"amount"`
	Breakdown domain.SplitBreakdown `json:"breakdown"`
}

// WithdrawResponse reports a completed withdrawal
type WithdrawResponse struct {
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}

// BalanceResponse reports a recipient's escrowed balance
type BalanceResponse struct {
	Recipient string `json:"recipient"`
	Pending   uint64 `json:"pending"`
}

// WalletChangeRequest starts a timelocked wallet change
type WalletChangeRequest struct {
	Wallet string `json:"wallet" binding:"required"`
}

// PayoutWalletChangeRequest starts a timelocked per-asset payout wallet change
type PayoutWalletChangeRequest struct {
	AssetID uint64 `json:"asset_id" binding:"required"`
	Wallet  string `json:"wallet" binding:"required"`
}

// PayoutWalletExecuteRequest applies a pending per-asset payout wallet change
type PayoutWalletExecuteRequest struct {
	AssetID uint64 `json:"asset_id" binding:"required"`
}

// AuthorizedCallerRequest adds or removes an allow-list entry
type AuthorizedCallerRequest struct {
	Address string `json:"address" binding:"required"`
	Allowed bool   `json:"allowed"`
}

// StatusResponse is a generic acknowledgement
type StatusResponse struct {
	Status string `json:"status"`
}
