// Package evm reads the marketplace contract on the account-model ledger.
// All calls are read-only eth_call inspections; transaction submission and
// signing live outside this engine, which only packs calldata (see
// calldata.go).
package evm

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/modelzoo-market/mz-indexer/internal/adapter"
	"github.com/modelzoo-market/mz-indexer/internal/domain"
)

// LicenseStatus is the contract's composite license state view
type LicenseStatus struct {
	Revoked       bool
	ValidAPI      bool
	ValidDownload bool
	Kind          domain.LicenseKind
	ExpiresAt     *time.Time
	Owner         string
}

// Client reads marketplace state from the account-model ledger
//
//go:generate mockgen -source=client.go -destination=../../mocks/evm_client.go -package=mocks -mock_names=Client=MockAccountLedger
type Client interface {
	// AssetRecord fetches the full on-chain record of a published model
	AssetRecord(ctx context.Context, assetID uint64) (*domain.AssetRecord, error)

	// LicenseIDsByHolder fetches the license ids owned by a principal
	LicenseIDsByHolder(ctx context.Context, holder string) ([]uint64, error)

	// LicenseAsset fetches the asset id a license was purchased for
	LicenseAsset(ctx context.Context, licenseID uint64) (uint64, error)

	// LicenseStatus fetches the composite status view of a license,
	// including its side-record revocation flag
	LicenseStatus(ctx context.Context, licenseID uint64) (*LicenseStatus, error)

	// CalculateSplit quotes the three-way split of an amount for an asset
	CalculateSplit(ctx context.Context, assetID uint64, amount uint64) (domain.SplitBreakdown, error)

	// Close closes the connection
	Close()
}

type client struct {
	chainID  domain.Chain
	contract common.Address
	eth      adapter.EthClient
}

// NewClient creates a marketplace reader bound to one contract address
func NewClient(chainID domain.Chain, contractAddress string, eth adapter.EthClient) Client {
	return &client{
		chainID:  chainID,
		contract: common.HexToAddress(contractAddress),
		eth:      eth,
	}
}

// call packs a view-function invocation, executes it, and returns the raw
// return data
func (c *client) call(ctx context.Context, parsed abi.ABI, method string, args ...interface{}) ([]byte, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack data: %w", err)
	}

	result, err := c.eth.CallContract(ctx, ethereum.CallMsg{
		To:   &c.contract,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: contract call %s: %s", domain.ErrUpstreamUnavailable, method, err)
	}

	return result, nil
}

// AssetRecord fetches the full on-chain record of a published model
func (c *client) AssetRecord(ctx context.Context, assetID uint64) (*domain.AssetRecord, error) {
	// modelInfo(uint256) returns the flattened model struct
	modelInfoABI, err := abi.JSON(strings.NewReader(`[{"constant":true,"inputs":[{"name":"modelId","type":"uint256"}],"name":"modelInfo","outputs":[{"name":"owner","type":"address"},{"name":"creator","type":"address"},{"name":"name","type":"string"},{"name":"uri","type":"string"},{"name":"listed","type":"bool"},{"name":"royaltyBps","type":"uint16"},{"name":"pricePerpetual","type":"uint256"},{"name":"priceSubscription","type":"uint256"},{"name":"defaultDurationDays","type":"uint64"},{"name":"rightsMask","type":"uint8"},{"name":"deliveryMode","type":"uint8"},{"name":"termsHash","type":"bytes32"},{"name":"version","type":"uint16"}],"payable":false,"stateMutability":"view","type":"function"}]`))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	result, err := c.call(ctx, modelInfoABI, "modelInfo", new(big.Int).SetUint64(assetID))
	if err != nil {
		return nil, err
	}

	var out struct {
		Owner               common.Address
		Creator             common.Address
		Name                string
		Uri                 string
		Listed              bool
		RoyaltyBps          uint16
		PricePerpetual      *big.Int
		PriceSubscription   *big.Int
		DefaultDurationDays uint64
		RightsMask          uint8
		DeliveryMode        uint8
		TermsHash           [32]byte
		Version             uint16
	}
	if err := modelInfoABI.UnpackIntoInterface(&out, "modelInfo", result); err != nil {
		return nil, fmt.Errorf("failed to unpack result: %w", err)
	}

	// An unpublished id decodes as the zero owner
	if out.Owner == (common.Address{}) {
		return nil, fmt.Errorf("model %d: %w", assetID, domain.ErrNotFound)
	}

	record := &domain.AssetRecord{
		ID:                  assetID,
		Owner:               out.Owner.Hex(),
		Creator:             out.Creator.Hex(),
		Name:                out.Name,
		URI:                 out.Uri,
		Listed:              out.Listed,
		RoyaltyBps:          out.RoyaltyBps,
		PricePerpetual:      out.PricePerpetual.Uint64(),
		PriceSubscription:   out.PriceSubscription.Uint64(),
		DefaultDurationDays: out.DefaultDurationDays,
		Rights:              domain.RightsMask(out.RightsMask),
		DeliveryMode:        deliveryModeFromCode(out.DeliveryMode),
		TermsHash:           out.TermsHash,
		Version:             out.Version,
	}

	if err := c.attachAgent(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// attachAgent fills the optional linked agent fields; agent id 0 means no
// agent is linked
func (c *client) attachAgent(ctx context.Context, record *domain.AssetRecord) error {
	modelAgentABI, err := abi.JSON(strings.NewReader(`[{"constant":true,"inputs":[{"name":"modelId","type":"uint256"}],"name":"modelAgent","outputs":[{"name":"agentId","type":"uint256"},{"name":"endpoint","type":"string"},{"name":"wallet","type":"address"}],"payable":false,"stateMutability":"view","type":"function"}]`))
	if err != nil {
		return fmt.Errorf("failed to parse ABI: %w", err)
	}

	result, err := c.call(ctx, modelAgentABI, "modelAgent", new(big.Int).SetUint64(record.ID))
	if err != nil {
		return err
	}

	var out struct {
		AgentId  *big.Int
		Endpoint string
		Wallet   common.Address
	}
	if err := modelAgentABI.UnpackIntoInterface(&out, "modelAgent", result); err != nil {
		return fmt.Errorf("failed to unpack result: %w", err)
	}

	if out.AgentId.Sign() == 0 {
		return nil
	}

	agentID := out.AgentId.Uint64()
	endpoint := out.Endpoint
	wallet := out.Wallet.Hex()
	record.AgentID = &agentID
	record.AgentEndpoint = &endpoint
	record.AgentWallet = &wallet
	return nil
}

// LicenseIDsByHolder fetches the license ids owned by a principal
func (c *client) LicenseIDsByHolder(ctx context.Context, holder string) ([]uint64, error) {
	licensesOfABI, err := abi.JSON(strings.NewReader(`[{"constant":true,"inputs":[{"name":"holder","type":"address"}],"name":"licensesOf","outputs":[{"name":"","type":"uint256[]"}],"payable":false,"stateMutability":"view","type":"function"}]`))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	result, err := c.call(ctx, licensesOfABI, "licensesOf", common.HexToAddress(holder))
	if err != nil {
		return nil, err
	}

	var ids []*big.Int
	if err := licensesOfABI.UnpackIntoInterface(&ids, "licensesOf", result); err != nil {
		return nil, fmt.Errorf("failed to unpack result: %w", err)
	}

	out := make([]uint64, len(ids))
	for i, id := range ids {
		out[i] = id.Uint64()
	}
	return out, nil
}

// LicenseAsset fetches the asset id a license was purchased for
func (c *client) LicenseAsset(ctx context.Context, licenseID uint64) (uint64, error) {
	licenseAssetABI, err := abi.JSON(strings.NewReader(`[{"constant":true,"inputs":[{"name":"licenseId","type":"uint256"}],"name":"licenseAsset","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`))
	if err != nil {
		return 0, fmt.Errorf("failed to parse ABI: %w", err)
	}

	result, err := c.call(ctx, licenseAssetABI, "licenseAsset", new(big.Int).SetUint64(licenseID))
	if err != nil {
		return 0, err
	}

	var assetID *big.Int
	if err := licenseAssetABI.UnpackIntoInterface(&assetID, "licenseAsset", result); err != nil {
		return 0, fmt.Errorf("failed to unpack result: %w", err)
	}

	return assetID.Uint64(), nil
}

// LicenseStatus fetches the composite status view of a license
func (c *client) LicenseStatus(ctx context.Context, licenseID uint64) (*LicenseStatus, error) {
	licenseStatusABI, err := abi.JSON(strings.NewReader(`[{"constant":true,"inputs":[{"name":"licenseId","type":"uint256"}],"name":"licenseStatus","outputs":[{"name":"revoked","type":"bool"},{"name":"validApi","type":"bool"},{"name":"validDownload","type":"bool"},{"name":"kind","type":"uint8"},{"name":"expiresAt","type":"uint64"},{"name":"owner","type":"address"}],"payable":false,"stateMutability":"view","type":"function"}]`))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	result, err := c.call(ctx, licenseStatusABI, "licenseStatus", new(big.Int).SetUint64(licenseID))
	if err != nil {
		return nil, err
	}

	var out struct {
		Revoked       bool
		ValidApi      bool
		ValidDownload bool
		Kind          uint8
		ExpiresAt     uint64
		Owner         common.Address
	}
	if err := licenseStatusABI.UnpackIntoInterface(&out, "licenseStatus", result); err != nil {
		return nil, fmt.Errorf("failed to unpack result: %w", err)
	}

	if out.Owner == (common.Address{}) {
		return nil, fmt.Errorf("license %d: %w", licenseID, domain.ErrNotFound)
	}

	status := &LicenseStatus{
		Revoked:       out.Revoked,
		ValidAPI:      out.ValidApi,
		ValidDownload: out.ValidDownload,
		Kind:          domain.LicenseKindPerpetual,
		Owner:         out.Owner.Hex(),
	}
	if out.Kind == 1 {
		status.Kind = domain.LicenseKindSubscription
		t := time.Unix(int64(out.ExpiresAt), 0).UTC() //nolint:gosec,G115
		status.ExpiresAt = &t
	}

	return status, nil
}

// CalculateSplit quotes the three-way split of an amount for an asset
func (c *client) CalculateSplit(ctx context.Context, assetID uint64, amount uint64) (domain.SplitBreakdown, error) {
	calculateSplitABI, err := abi.JSON(strings.NewReader(`[{"constant":true,"inputs":[{"name":"modelId","type":"uint256"},{"name":"amount","type":"uint256"}],"name":"calculateSplit","outputs":[{"name":"sellerAmount","type":"uint256"},{"name":"creatorAmount","type":"uint256"},{"name":"marketplaceAmount","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`))
	if err != nil {
		return domain.SplitBreakdown{}, fmt.Errorf("failed to parse ABI: %w", err)
	}

	result, err := c.call(ctx, calculateSplitABI, "calculateSplit",
		new(big.Int).SetUint64(assetID), new(big.Int).SetUint64(amount))
	if err != nil {
		return domain.SplitBreakdown{}, err
	}

	var out struct {
		SellerAmount      *big.Int
		CreatorAmount     *big.Int
		MarketplaceAmount *big.Int
	}
	if err := calculateSplitABI.UnpackIntoInterface(&out, "calculateSplit", result); err != nil {
		return domain.SplitBreakdown{}, fmt.Errorf("failed to unpack result: %w", err)
	}

	return domain.SplitBreakdown{
		SellerAmount:      out.SellerAmount.Uint64(),
		CreatorAmount:     out.CreatorAmount.Uint64(),
		MarketplaceAmount: out.MarketplaceAmount.Uint64(),
	}, nil
}

// Close closes the connection
func (c *client) Close() {
	c.eth.Close()
}

func deliveryModeFromCode(code uint8) domain.DeliveryMode {
	switch code {
	case 1:
		return domain.DeliveryModeDownload
	case 2:
		return domain.DeliveryModeHybrid
	default:
		return domain.DeliveryModeAPI
	}
}
