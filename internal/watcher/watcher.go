// Package watcher keeps the model cache in step with the marketplace
// contract by resyncing every asset named in its event log. It complements
// the periodic listing sync: the ticker catches anything the subscription
// missed, the subscription keeps hot assets fresh between ticks.
package watcher

import (
	"context"
	"fmt"
	"math/big"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/modelzoo-market/mz-indexer/internal/adapter"
	"github.com/modelzoo-market/mz-indexer/internal/domain"
	"github.com/modelzoo-market/mz-indexer/internal/indexer"
	"github.com/modelzoo-market/mz-indexer/internal/logger"
)

// Config holds the configuration for the account-ledger event watcher
type Config struct {
	Chain           domain.Chain
	ContractAddress string
}

// Marketplace contract event signatures
var (
	// ModelListed(uint256 indexed modelId, address indexed owner, string slug)
	modelListedSignature = crypto.Keccak256Hash([]byte("ModelListed(uint256,address,string)"))

	// ModelUpdated(uint256 indexed modelId) - listing flag, licensing params or URI changed
	modelUpdatedSignature = crypto.Keccak256Hash([]byte("ModelUpdated(uint256)"))

	// SplitConfigured(uint256 indexed modelId, address seller, address creator, uint16 royaltyBps, uint16 marketplaceBps)
	splitConfiguredSignature = crypto.Keccak256Hash([]byte("SplitConfigured(uint256,address,address,uint16,uint16)"))

	// LicensePurchased(uint256 indexed licenseId, uint256 indexed modelId, address buyer, uint8 kind)
	licensePurchasedSignature = crypto.Keccak256Hash([]byte("LicensePurchased(uint256,uint256,address,uint8)"))
)

// Watcher subscribes to marketplace contract logs and dispatches resyncs
type Watcher struct {
	cfg     Config
	client  adapter.EthClient
	indexer indexer.Indexer
}

// New creates a contract event watcher over a websocket-dialed client
func New(cfg Config, client adapter.EthClient, idx indexer.Indexer) *Watcher {
	return &Watcher{
		cfg:     cfg,
		client:  client,
		indexer: idx,
	}
}

// Run subscribes to contract logs and dispatches resyncs until the context
// is canceled. Lost subscriptions are re-established with exponential
// backoff.
func (w *Watcher) Run(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 0 // resubscribe until canceled

	operation := func() error {
		err := w.watch(ctx)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		logger.ErrorCtx(ctx, fmt.Errorf("watch interrupted, resubscribing: %w", err),
			zap.String("chain", string(w.cfg.Chain)))
		return err
	}

	return backoff.Retry(operation, backoff.WithContext(b, ctx))
}

func (w *Watcher) watch(ctx context.Context) error {
	query := ethereum.FilterQuery{
		Addresses: []common.Address{common.HexToAddress(w.cfg.ContractAddress)},
		Topics: [][]common.Hash{
			{
				modelListedSignature,
				modelUpdatedSignature,
				splitConfiguredSignature,
				licensePurchasedSignature,
			},
		},
	}

	logs := make(chan types.Log)
	sub, err := w.client.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		return fmt.Errorf("failed to subscribe to contract logs: %w", err)
	}
	defer sub.Unsubscribe()

	logger.InfoCtx(ctx, "Watching marketplace contract events",
		zap.String("chain", string(w.cfg.Chain)),
		zap.String("contract", w.cfg.ContractAddress))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return fmt.Errorf("subscription error: %w", err)
		case vLog := <-logs:
			if err := w.handleLog(ctx, vLog); err != nil {
				logger.ErrorCtx(ctx, err,
					zap.String("tx", vLog.TxHash.Hex()),
					zap.Uint64("block", vLog.BlockNumber))
			}
		}
	}
}

// handleLog maps one contract log to the cache operation it invalidates.
// A ModelUpdated event also re-fetches the metadata document since the URI
// may have changed; the other events only touch ledger-derived fields.
func (w *Watcher) handleLog(ctx context.Context, vLog types.Log) error {
	if len(vLog.Topics) == 0 {
		return nil
	}

	switch vLog.Topics[0] {
	case modelListedSignature, splitConfiguredSignature:
		assetID, ok := topicAssetID(vLog, 1)
		if !ok {
			return nil
		}
		return w.indexer.Resync(ctx, w.cfg.Chain, assetID)

	case modelUpdatedSignature:
		assetID, ok := topicAssetID(vLog, 1)
		if !ok {
			return nil
		}
		return w.indexer.Refresh(ctx, w.cfg.Chain, assetID, true)

	case licensePurchasedSignature:
		// modelId is the second indexed topic, after licenseId
		assetID, ok := topicAssetID(vLog, 2)
		if !ok {
			return nil
		}
		return w.indexer.Resync(ctx, w.cfg.Chain, assetID)
	}

	return nil
}

func topicAssetID(vLog types.Log, index int) (uint64, bool) {
	if len(vLog.Topics) <= index {
		return 0, false
	}
	return new(big.Int).SetBytes(vLog.Topics[index].Bytes()).Uint64(), true
}
