package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/modelzoo-market/mz-indexer/internal/adapter"
	"github.com/modelzoo-market/mz-indexer/internal/config"
	"github.com/modelzoo-market/mz-indexer/internal/domain"
	"github.com/modelzoo-market/mz-indexer/internal/indexer"
	"github.com/modelzoo-market/mz-indexer/internal/logger"
	"github.com/modelzoo-market/mz-indexer/internal/messaging"
	"github.com/modelzoo-market/mz-indexer/internal/metadata"
	"github.com/modelzoo-market/mz-indexer/internal/providers/evm"
	"github.com/modelzoo-market/mz-indexer/internal/providers/jetstream"
	"github.com/modelzoo-market/mz-indexer/internal/providers/suiledger"
	"github.com/modelzoo-market/mz-indexer/internal/ratelimit"
	"github.com/modelzoo-market/mz-indexer/internal/store"
	"github.com/modelzoo-market/mz-indexer/internal/watcher"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadSyncWorkerConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "sync-worker",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting ModelZoo listing sync worker")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	jsonAdapter := adapter.NewJSON()
	base64Adapter := adapter.NewBase64()
	clock := adapter.NewClock()
	httpClient := adapter.NewHTTPClient(30 * time.Second)

	// Connect to the account ledger
	ethClient, err := adapter.NewEthClientDialer().Dial(ctx, cfg.AccountLedger.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to account ledger", zap.Error(err))
	}
	defer ethClient.Close()
	accountClient := evm.NewClient(cfg.AccountLedger.ChainID, cfg.AccountLedger.ContractAddress, ethClient)

	// Object ledger reads go over plain JSON-RPC inspect calls
	ledgerRPC := adapter.NewLedgerRPC(cfg.ObjectLedger.RPCURL, httpClient, base64Adapter)
	objectClient := suiledger.NewClient(ledgerRPC)

	// Connect to NATS for event publishing
	var publisher messaging.Publisher
	if cfg.NATS.URL != "" {
		publisher, err = jetstream.NewPublisher(jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream(), jsonAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err))
		}
		defer publisher.Close()
	} else {
		logger.WarnCtx(ctx, "NATS not configured, events will not be published")
	}

	// Metadata fetches go through the gateway rate limiter when Redis is
	// configured
	metadataHTTP := httpClient
	if cfg.RateLimiter.RedisAddr != "" {
		redisClient := adapter.NewRedisClient(cfg.RateLimiter.RedisAddr, cfg.RateLimiter.RedisPassword, cfg.RateLimiter.RedisDB)
		proxy, err := ratelimit.NewProxy(cfg.RateLimiter, redisClient, clock)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to initialize rate limiter", zap.Error(err))
		}
		defer func() {
			if err := proxy.Close(); err != nil {
				logger.Warn("Failed to close rate limiter", zap.Error(err))
			}
		}()
		metadataHTTP = ratelimit.NewHTTPClient(proxy, httpClient)
	}

	// Build the indexer
	metadataResolver := metadata.NewResolver(metadataHTTP, jsonAdapter, base64Adapter)
	idx := indexer.New(indexer.Config{
		WorkerPoolSize:  cfg.Indexer.WorkerPoolSize,
		ListingPageSize: cfg.Indexer.ListingPageSize,
	}, dataStore, accountClient, objectClient, metadataResolver, jsonAdapter, clock, publisher)

	// Watch contract events over websocket when an endpoint is configured;
	// the periodic sync below still catches anything the subscription misses
	if cfg.AccountLedger.WSURL != "" {
		wsClient, err := adapter.NewEthClientDialer().Dial(ctx, cfg.AccountLedger.WSURL)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect to account ledger websocket", zap.Error(err))
		}
		defer wsClient.Close()

		w := watcher.New(watcher.Config{
			Chain:           cfg.AccountLedger.ChainID,
			ContractAddress: cfg.AccountLedger.ContractAddress,
		}, wsClient, idx)
		go func() {
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.ErrorCtx(ctx, fmt.Errorf("event watcher stopped: %w", err))
			}
		}()
	}

	// Watch for interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	interval := cfg.Indexer.SyncInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	// Sync immediately, then on the interval until canceled
	runSync(ctx, idx, cfg.ObjectLedger.ChainID)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Sync worker stopped")
			return
		case <-ticker.C:
			runSync(ctx, idx, cfg.ObjectLedger.ChainID)
		}
	}
}

func runSync(ctx context.Context, idx indexer.Indexer, chain domain.Chain) {
	count, err := idx.SyncListings(ctx, chain)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("listing sync failed: %w", err),
			zap.String("chain", string(chain)),
			zap.Int("synced", count))
		return
	}
	logger.InfoCtx(ctx, "Listing sync completed",
		zap.String("chain", string(chain)),
		zap.Int("synced", count))
}
