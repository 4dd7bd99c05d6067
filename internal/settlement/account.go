// Package settlement implements the marketplace revenue split account: a
// per-asset three-way payment split with pull-payment escrow, an
// authorized-caller allow-list, pause control, and timelocked wallet
// changes. Each exported operation is atomic from the caller's perspective.
package settlement

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/modelzoo-market/mz-indexer/internal/adapter"
	"github.com/modelzoo-market/mz-indexer/internal/domain"
	"github.com/modelzoo-market/mz-indexer/internal/logger"
	"github.com/modelzoo-market/mz-indexer/internal/messaging"
)

// Transferor performs the external value transfer of a withdrawal
//
//go:generate mockgen -source=account.go -destination=../mocks/transferor.go -package=mocks -mock_names=Transferor=MockTransferor
type Transferor interface {
	Transfer(ctx context.Context, to string, amount uint64) error
}

// Config holds the settlement account's construction parameters
type Config struct {
	Owner             string
	MarketplaceWallet string
	MinWithdrawal     uint64
}

// Account is the revenue split account engine
type Account struct {
	mu sync.Mutex

	owner         string
	minWithdrawal uint64
	paused        bool

	// authorized is the allow-list of principals that may configure splits
	// and distribute payments
	authorized map[string]bool

	marketplaceWallet *TimelockedField[string]
	// assetPayoutWallet guards the per-asset inference payout wallet; the
	// asset's seller is the field's authority
	assetPayoutWallet map[uint64]*TimelockedField[string]

	splits  map[uint64]domain.SplitConfig
	pending map[string]uint64

	transferor Transferor
	clock      adapter.Clock
	events     messaging.Publisher
}

// NewAccount creates a settlement account. The owner is implicitly
// authorized. The events publisher may be nil.
func NewAccount(cfg Config, transferor Transferor, clock adapter.Clock, events messaging.Publisher) *Account {
	return &Account{
		owner:             cfg.Owner,
		minWithdrawal:     cfg.MinWithdrawal,
		authorized:        map[string]bool{cfg.Owner: true},
		marketplaceWallet: NewTimelockedField(cfg.MarketplaceWallet),
		assetPayoutWallet: make(map[uint64]*TimelockedField[string]),
		splits:            make(map[uint64]domain.SplitConfig),
		pending:           make(map[string]uint64),
		transferor:        transferor,
		clock:             clock,
		events:            events,
	}
}

// ConfigureSplit creates or overwrites the split configuration for an asset.
// Re-configuration is idempotent.
func (a *Account) ConfigureSplit(ctx context.Context, caller string, assetID uint64, seller, creator string, royaltyBps, marketplaceBps uint16) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.authorized[caller] {
		return domain.ErrUnauthorized
	}
	if a.paused {
		return domain.ErrPaused
	}
	if royaltyBps > domain.MaxRoyaltyBps {
		return fmt.Errorf("royalty %d: %w", royaltyBps, domain.ErrInvalidBps)
	}
	if marketplaceBps > domain.MaxMarketplaceBps {
		return fmt.Errorf("marketplace %d: %w", marketplaceBps, domain.ErrInvalidBps)
	}

	a.splits[assetID] = domain.SplitConfig{
		Seller:         seller,
		Creator:        creator,
		RoyaltyBps:     royaltyBps,
		MarketplaceBps: marketplaceBps,
	}

	a.publish(ctx, domain.SettlementEventSplitConfigured, assetID, caller, 0, nil)
	return nil
}

// DistributePayment splits a payment for one asset's monetized action and
// escrows each share as a pending balance. The seller absorbs the rounding
// remainder.
func (a *Account) DistributePayment(ctx context.Context, caller string, assetID uint64, amount uint64) (domain.SplitBreakdown, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.authorized[caller] {
		return domain.SplitBreakdown{}, domain.ErrUnauthorized
	}
	if a.paused {
		return domain.SplitBreakdown{}, domain.ErrPaused
	}

	cfg, ok := a.splits[assetID]
	if !ok {
		return domain.SplitBreakdown{}, fmt.Errorf("split for asset %d: %w", assetID, domain.ErrNotFound)
	}

	breakdown := splitAmount(cfg, amount)
	a.pending[cfg.Seller] += breakdown.SellerAmount
	a.pending[cfg.Creator] += breakdown.CreatorAmount
	a.pending[a.marketplaceWallet.Value()] += breakdown.MarketplaceAmount

	a.publish(ctx, domain.SettlementEventDistributed, assetID, caller, amount, &breakdown)
	return breakdown, nil
}

// Withdraw pays out the caller's full pending balance. The balance is zeroed
// before the external transfer so a reentrant call observes nothing left to
// withdraw; a failed transfer restores the balance.
func (a *Account) Withdraw(ctx context.Context, caller string) (uint64, error) {
	a.mu.Lock()
	amount := a.pending[caller]
	if amount < a.minWithdrawal {
		a.mu.Unlock()
		return 0, fmt.Errorf("balance %d below minimum %d: %w", amount, a.minWithdrawal, domain.ErrBelowMinimumWithdrawal)
	}

	// Step 1: zero the balance.
	a.pending[caller] = 0
	a.mu.Unlock()

	// Step 2: transfer.
	if err := a.transferor.Transfer(ctx, caller, amount); err != nil {
		a.mu.Lock()
		a.pending[caller] += amount
		a.mu.Unlock()
		return 0, fmt.Errorf("failed to transfer withdrawal: %w", err)
	}

	a.publish(ctx, domain.SettlementEventWithdrawn, 0, caller, amount, nil)
	return amount, nil
}

// CalculateSplit computes the three-way division of an amount without
// mutating any state
func (a *Account) CalculateSplit(assetID uint64, amount uint64) (domain.SplitBreakdown, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cfg, ok := a.splits[assetID]
	if !ok {
		return domain.SplitBreakdown{}, fmt.Errorf("split for asset %d: %w", assetID, domain.ErrNotFound)
	}
	return splitAmount(cfg, amount), nil
}

// SplitConfigFor returns the split configuration for an asset
func (a *Account) SplitConfigFor(assetID uint64) (domain.SplitConfig, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cfg, ok := a.splits[assetID]
	if !ok {
		return domain.SplitConfig{}, fmt.Errorf("split for asset %d: %w", assetID, domain.ErrNotFound)
	}
	return cfg, nil
}

// PendingBalance returns a recipient's escrowed balance
func (a *Account) PendingBalance(recipient string) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending[recipient]
}

// SetAuthorizedCaller adds or removes a caller from the allow-list. The
// owner cannot be removed.
func (a *Account) SetAuthorizedCaller(caller string, addr string, allowed bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if caller != a.owner {
		return domain.ErrUnauthorized
	}
	if addr == a.owner {
		return domain.ErrUnauthorized
	}
	if allowed {
		a.authorized[addr] = true
	} else {
		delete(a.authorized, addr)
	}
	return nil
}

// RequestMarketplaceWalletChange starts the timelock for changing where the
// marketplace share is withdrawn to
func (a *Account) RequestMarketplaceWalletChange(caller string, newWallet string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if caller != a.owner {
		return domain.ErrUnauthorized
	}
	a.marketplaceWallet.Request(newWallet, a.clock.Now())
	return nil
}

// ExecuteMarketplaceWalletChange applies a pending marketplace wallet change
// after the delay has elapsed
func (a *Account) ExecuteMarketplaceWalletChange(caller string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if caller != a.owner {
		return domain.ErrUnauthorized
	}
	return a.marketplaceWallet.Execute(a.clock.Now())
}

// CancelMarketplaceWalletChange discards a pending marketplace wallet change
func (a *Account) CancelMarketplaceWalletChange(caller string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if caller != a.owner {
		return domain.ErrUnauthorized
	}
	return a.marketplaceWallet.Cancel()
}

// MarketplaceWallet returns the currently applied marketplace wallet
func (a *Account) MarketplaceWallet() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.marketplaceWallet.Value()
}

// RequestAssetPayoutWalletChange starts the timelock for changing an asset's
// inference payout wallet. Only the asset's configured seller may request.
func (a *Account) RequestAssetPayoutWalletChange(caller string, assetID uint64, newWallet string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	cfg, ok := a.splits[assetID]
	if !ok {
		return fmt.Errorf("split for asset %d: %w", assetID, domain.ErrNotFound)
	}
	if caller != cfg.Seller {
		return domain.ErrUnauthorized
	}

	field, ok := a.assetPayoutWallet[assetID]
	if !ok {
		field = NewTimelockedField(cfg.Seller)
		a.assetPayoutWallet[assetID] = field
	}
	field.Request(newWallet, a.clock.Now())
	return nil
}

// ExecuteAssetPayoutWalletChange applies a pending asset payout wallet
// change after the delay has elapsed
func (a *Account) ExecuteAssetPayoutWalletChange(caller string, assetID uint64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	cfg, ok := a.splits[assetID]
	if !ok {
		return fmt.Errorf("split for asset %d: %w", assetID, domain.ErrNotFound)
	}
	if caller != cfg.Seller {
		return domain.ErrUnauthorized
	}

	field, ok := a.assetPayoutWallet[assetID]
	if !ok {
		return domain.ErrNoPendingRequest
	}
	return field.Execute(a.clock.Now())
}

// AssetPayoutWallet returns the asset's inference payout wallet, defaulting
// to the configured seller when no change was ever executed
func (a *Account) AssetPayoutWallet(assetID uint64) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if field, ok := a.assetPayoutWallet[assetID]; ok {
		return field.Value(), nil
	}
	cfg, ok := a.splits[assetID]
	if !ok {
		return "", fmt.Errorf("split for asset %d: %w", assetID, domain.ErrNotFound)
	}
	return cfg.Seller, nil
}

// Pause disables configureSplit and distributePayment. Withdrawals stay
// available so escrowed funds are always retrievable.
func (a *Account) Pause(caller string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if caller != a.owner {
		return domain.ErrUnauthorized
	}
	a.paused = true
	return nil
}

// Unpause re-enables mutating calls
func (a *Account) Unpause(caller string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if caller != a.owner {
		return domain.ErrUnauthorized
	}
	a.paused = false
	return nil
}

// Paused reports whether the account is paused
func (a *Account) Paused() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.paused
}

// splitAmount divides amount per the configuration. Marketplace and royalty
// shares truncate; the seller receives the remainder, so the three shares
// always sum to amount exactly.
func splitAmount(cfg domain.SplitConfig, amount uint64) domain.SplitBreakdown {
	marketplaceAmount := bpsShare(amount, cfg.MarketplaceBps)
	creatorAmount := bpsShare(amount, cfg.RoyaltyBps)
	return domain.SplitBreakdown{
		SellerAmount:      amount - marketplaceAmount - creatorAmount,
		CreatorAmount:     creatorAmount,
		MarketplaceAmount: marketplaceAmount,
	}
}

// bpsShare computes floor(amount * bps / 10000) without overflowing uint64.
// The quotient term never exceeds amount and the remainder term stays below
// the denominator squared.
func bpsShare(amount uint64, bps uint16) uint64 {
	return amount/domain.BpsDenominator*uint64(bps) +
		amount%domain.BpsDenominator*uint64(bps)/domain.BpsDenominator
}

func (a *Account) publish(ctx context.Context, eventType domain.SettlementEventType, assetID uint64, caller string, amount uint64, breakdown *domain.SplitBreakdown) {
	if a.events == nil {
		return
	}
	event := &domain.SettlementEvent{
		EventID:   messaging.NewEventID(),
		Type:      eventType,
		AssetID:   assetID,
		Caller:    caller,
		Amount:    amount,
		Breakdown: breakdown,
		Timestamp: a.clock.Now(),
	}
	if err := a.events.PublishSettlementEvent(ctx, event); err != nil {
		logger.WarnCtx(ctx, "Failed to publish settlement event",
			zap.String("type", string(eventType)), zap.Error(err))
	}
}
