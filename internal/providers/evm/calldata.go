package evm

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/modelzoo-market/mz-indexer/internal/domain"
)

// marketplaceWriteABI covers the contract's mutating surface. The engine
// never submits transactions itself; these helpers produce calldata for an
// external signer.
const marketplaceWriteABI = `[
{"inputs":[{"name":"modelId","type":"uint256"},{"name":"seller","type":"address"},{"name":"creator","type":"address"},{"name":"royaltyBps","type":"uint16"},{"name":"marketplaceBps","type":"uint16"}],"name":"configureSplit","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"name":"modelId","type":"uint256"},{"name":"amount","type":"uint256"}],"name":"distributePayment","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[],"name":"withdraw","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"name":"caller","type":"address"},{"name":"allowed","type":"bool"}],"name":"setAuthorizedCaller","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"name":"newWallet","type":"address"}],"name":"requestMarketplaceWalletChange","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[],"name":"executeMarketplaceWalletChange","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[],"name":"pause","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[],"name":"unpause","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"name":"slug","type":"string"},{"name":"name","type":"string"},{"name":"uri","type":"string"},{"name":"royaltyBps","type":"uint16"},{"name":"pricePerpetual","type":"uint256"},{"name":"priceSubscription","type":"uint256"},{"name":"defaultDurationDays","type":"uint64"},{"name":"rightsMask","type":"uint8"},{"name":"deliveryMode","type":"uint8"},{"name":"termsHash","type":"bytes32"}],"name":"listOrUpgrade","outputs":[{"name":"modelId","type":"uint256"}],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"name":"modelId","type":"uint256"},{"name":"pricePerpetual","type":"uint256"},{"name":"priceSubscription","type":"uint256"},{"name":"defaultDurationDays","type":"uint64"},{"name":"rightsMask","type":"uint8"}],"name":"setLicensingParams","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"name":"modelId","type":"uint256"},{"name":"listed","type":"bool"}],"name":"setListed","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"name":"modelId","type":"uint256"},{"name":"kind","type":"uint8"},{"name":"months","type":"uint32"},{"name":"transferable","type":"bool"}],"name":"buyLicense","outputs":[{"name":"licenseId","type":"uint256"}],"stateMutability":"payable","type":"function"}
]`

// Calldata packs transaction payloads for the marketplace contract's write
// surface
type Calldata struct {
	parsed abi.ABI
}

// NewCalldata parses the marketplace write ABI once
func NewCalldata() (*Calldata, error) {
	parsed, err := abi.JSON(strings.NewReader(marketplaceWriteABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}
	return &Calldata{parsed: parsed}, nil
}

// ConfigureSplit packs configureSplit calldata
func (c *Calldata) ConfigureSplit(assetID uint64, seller, creator string, royaltyBps, marketplaceBps uint16) ([]byte, error) {
	return c.parsed.Pack("configureSplit",
		new(big.Int).SetUint64(assetID),
		common.HexToAddress(seller),
		common.HexToAddress(creator),
		royaltyBps, marketplaceBps)
}

// DistributePayment packs distributePayment calldata
func (c *Calldata) DistributePayment(assetID uint64, amount uint64) ([]byte, error) {
	return c.parsed.Pack("distributePayment",
		new(big.Int).SetUint64(assetID), new(big.Int).SetUint64(amount))
}

// Withdraw packs withdraw calldata
func (c *Calldata) Withdraw() ([]byte, error) {
	return c.parsed.Pack("withdraw")
}

// SetAuthorizedCaller packs setAuthorizedCaller calldata
func (c *Calldata) SetAuthorizedCaller(caller string, allowed bool) ([]byte, error) {
	return c.parsed.Pack("setAuthorizedCaller", common.HexToAddress(caller), allowed)
}

// RequestMarketplaceWalletChange packs requestMarketplaceWalletChange calldata
func (c *Calldata) RequestMarketplaceWalletChange(newWallet string) ([]byte, error) {
	return c.parsed.Pack("requestMarketplaceWalletChange", common.HexToAddress(newWallet))
}

// ExecuteMarketplaceWalletChange packs executeMarketplaceWalletChange calldata
func (c *Calldata) ExecuteMarketplaceWalletChange() ([]byte, error) {
	return c.parsed.Pack("executeMarketplaceWalletChange")
}

// Pause packs pause calldata
func (c *Calldata) Pause() ([]byte, error) {
	return c.parsed.Pack("pause")
}

// Unpause packs unpause calldata
func (c *Calldata) Unpause() ([]byte, error) {
	return c.parsed.Pack("unpause")
}

// ListOrUpgrade packs listOrUpgrade calldata
func (c *Calldata) ListOrUpgrade(slug, name, uri string, royaltyBps uint16, pricePerpetual, priceSubscription uint64, defaultDurationDays uint64, rights domain.RightsMask, deliveryMode domain.DeliveryMode, termsHash [32]byte) ([]byte, error) {
	return c.parsed.Pack("listOrUpgrade",
		slug, name, uri, royaltyBps,
		new(big.Int).SetUint64(pricePerpetual),
		new(big.Int).SetUint64(priceSubscription),
		defaultDurationDays,
		uint8(rights),
		deliveryModeCode(deliveryMode),
		termsHash)
}

// SetLicensingParams packs setLicensingParams calldata
func (c *Calldata) SetLicensingParams(assetID uint64, pricePerpetual, priceSubscription uint64, defaultDurationDays uint64, rights domain.RightsMask) ([]byte, error) {
	return c.parsed.Pack("setLicensingParams",
		new(big.Int).SetUint64(assetID),
		new(big.Int).SetUint64(pricePerpetual),
		new(big.Int).SetUint64(priceSubscription),
		defaultDurationDays,
		uint8(rights))
}

// SetListed packs setListed calldata
func (c *Calldata) SetListed(assetID uint64, listed bool) ([]byte, error) {
	return c.parsed.Pack("setListed", new(big.Int).SetUint64(assetID), listed)
}

// BuyLicense packs buyLicense calldata; the payment rides as transaction
// value
func (c *Calldata) BuyLicense(assetID uint64, kind domain.LicenseKind, months uint32, transferable bool) ([]byte, error) {
	var kindCode uint8
	if kind == domain.LicenseKindSubscription {
		kindCode = 1
	}
	return c.parsed.Pack("buyLicense",
		new(big.Int).SetUint64(assetID), kindCode, months, transferable)
}

func deliveryModeCode(mode domain.DeliveryMode) uint8 {
	switch mode {
	case domain.DeliveryModeDownload:
		return 1
	case domain.DeliveryModeHybrid:
		return 2
	default:
		return 0
	}
}
