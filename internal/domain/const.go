package domain

import "time"

const (
	// BpsDenominator is the basis-point scale for split math
	BpsDenominator = 10000

	// MaxRoyaltyBps caps the creator royalty share at 20%
	MaxRoyaltyBps = 2000

	// MaxMarketplaceBps caps the marketplace share at 10%
	MaxMarketplaceBps = 1000

	// TimelockDelay is the mandatory delay between requesting and applying a
	// guarded parameter change
	TimelockDelay = 24 * time.Hour

	// EthereumZeroAddress is the account-ledger zero address
	EthereumZeroAddress = "0x0000000000000000000000000000000000000000"
)
