package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Ledger represents the ledger backend family
type Ledger string

const (
	LedgerAccount Ledger = "account"
	LedgerObject  Ledger = "object"
)

// Chain represents the ledger network identifier using CAIP-2 format
type Chain string

const (
	ChainEthereumMainnet Chain = "eip155:1"
	ChainEthereumSepolia Chain = "eip155:11155111"
	ChainSuiMainnet      Chain = "sui:mainnet"
	ChainSuiTestnet      Chain = "sui:testnet"
)

// IsValidChain checks if a chain is valid
func IsValidChain(chain Chain) bool {
	return chain == ChainEthereumMainnet ||
		chain == ChainEthereumSepolia ||
		chain == ChainSuiMainnet ||
		chain == ChainSuiTestnet
}

// LedgerOf returns which ledger family a chain belongs to
func (c Chain) LedgerOf() Ledger {
	if strings.HasPrefix(string(c), "sui:") {
		return LedgerObject
	}
	return LedgerAccount
}

// RightsMask is the bitmask of usage rights granted by a license
type RightsMask uint8

const (
	RightAPI      RightsMask = 1
	RightDownload RightsMask = 2
)

// Has reports whether all rights in mask are granted
func (r RightsMask) Has(mask RightsMask) bool {
	return r&mask == mask
}

// LicenseKind represents the license duration model
type LicenseKind string

const (
	LicenseKindPerpetual    LicenseKind = "perpetual"
	LicenseKindSubscription LicenseKind = "subscription"
)

// DeliveryMode is a hint describing how the model is delivered to licensees
type DeliveryMode string

const (
	DeliveryModeAPI      DeliveryMode = "api"
	DeliveryModeDownload DeliveryMode = "download"
	DeliveryModeHybrid   DeliveryMode = "hybrid"
)

// AssetSummary is one entry of an object-ledger listing page
type AssetSummary struct {
	ID                  uint64
	Owner               string
	Listed              bool
	PriceDirect         uint64
	PricePerpetual      uint64
	PriceSubscription   uint64
	DefaultDurationDays uint64
	Version             uint16
}

// AssetDetail is the full object-ledger view of a published model
type AssetDetail struct {
	ID                    uint64
	Owner                 string
	Creator               string
	Listed                bool
	PriceDirect           uint64
	PricePerpetual        uint64
	PriceSubscription     uint64
	DefaultDurationDays   uint64
	Version               uint16
	RoyaltyBps            uint16
	TermsHash             [32]byte
	DeliveryRightsDefault RightsMask
}

// AssetRecord is the account-ledger view of a published model, as read from
// the marketplace contract
type AssetRecord struct {
	ID                  uint64
	Owner               string
	Creator             string
	Name                string
	URI                 string
	Listed              bool
	RoyaltyBps          uint16
	PricePerpetual      uint64
	PriceSubscription   uint64
	DefaultDurationDays uint64
	Rights              RightsMask
	DeliveryMode        DeliveryMode
	TermsHash           [32]byte
	Version             uint16
	AgentID             *uint64
	AgentEndpoint       *string
	AgentWallet         *string
}

// License is a principal's usage right over a model. The revocation flag is
// kept in a separate side-record on both ledgers; Revoked here reflects the
// side lookup at read time, not a field of the license object itself.
type License struct {
	ID           uint64
	AssetID      uint64
	Holder       string
	Kind         LicenseKind
	ExpiresAt    *time.Time
	Transferable bool
	Revoked      bool
	Rights       RightsMask
}

// ValidAt reports whether the license grants access at the given instant
func (l *License) ValidAt(now time.Time) bool {
	if l.Revoked {
		return false
	}
	if l.Kind == LicenseKindPerpetual {
		return true
	}
	return l.ExpiresAt != nil && now.Before(*l.ExpiresAt)
}

// Entitlement is the resolved answer to "may principal P use model A now"
type Entitlement struct {
	Found     bool       `json:"found"`
	Rights    RightsMask `json:"rights"`
	LicenseID *uint64    `json:"license_id,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// SplitConfig is the per-asset revenue split configuration
type SplitConfig struct {
	Seller         string
	Creator        string
	RoyaltyBps     uint16
	MarketplaceBps uint16
}

// SplitBreakdown is the three-way division of a payment amount
type SplitBreakdown struct {
	SellerAmount      uint64 `json:"seller_amount"`
	CreatorAmount     uint64 `json:"creator_amount"`
	MarketplaceAmount uint64 `json:"marketplace_amount"`
}

// Total returns the sum of all shares
func (b SplitBreakdown) Total() uint64 {
	return b.SellerAmount + b.CreatorAmount + b.MarketplaceAmount
}

// AssetCID is the canonical asset identifier in format chain:assetID
// (e.g., "eip155:1:42")
type AssetCID string

// NewAssetCID creates a canonical asset identifier
func NewAssetCID(chain Chain, assetID uint64) AssetCID {
	return AssetCID(fmt.Sprintf("%s:%d", chain, assetID))
}

// String returns the string representation of the AssetCID
func (a AssetCID) String() string {
	return string(a)
}

// NormalizeAddress normalizes a principal address to the canonical form of
// its ledger: EIP-55 checksummed for account chains, lowercase 0x-prefixed
// 64-hex for object chains.
func NormalizeAddress(chain Chain, address string) string {
	if chain.LedgerOf() == LedgerAccount {
		return common.HexToAddress(address).String()
	}
	address = strings.ToLower(address)
	if !strings.HasPrefix(address, "0x") {
		address = "0x" + address
	}
	return address
}
