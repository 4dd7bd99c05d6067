package main

import (
	"context"
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
	"github.com/modelzoo-market/mz-indexer/internal/api/middleware"
	"github.com/modelzoo-market/mz-indexer/internal/api/server"
	"github.com/modelzoo-market/mz-indexer/internal/config"
	"github.com/modelzoo-market/mz-indexer/internal/entitlement"
	"github.com/modelzoo-market/mz-indexer/internal/indexer"
	"github.com/modelzoo-market/mz-indexer/internal/logger"
	"github.com/modelzoo-market/mz-indexer/internal/messaging"
	"github.com/modelzoo-market/mz-indexer/internal/metadata"
	"github.com/modelzoo-market/mz-indexer/internal/providers/evm"
	"github.com/modelzoo-market/mz-indexer/internal/providers/jetstream"
	"github.com/modelzoo-market/mz-indexer/internal/providers/suiledger"
	"github.com/modelzoo-market/mz-indexer/internal/ratelimit"
	"github.com/modelzoo-market/mz-indexer/internal/settlement"
	"github.com/modelzoo-market/mz-indexer/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
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
			"service": "api-server",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting ModelZoo Indexer API")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Initialize store
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
	logger.InfoCtx(ctx, "Connected to account ledger", zap.String("chain", string(cfg.AccountLedger.ChainID)))

	// Object ledger reads go over plain JSON-RPC inspect calls
	ledgerRPC := adapter.NewLedgerRPC(cfg.ObjectLedger.RPCURL, httpClient, base64Adapter)
	objectClient := suiledger.NewClient(ledgerRPC)

	// Connect to NATS for event publishing. The API stays up without it.
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
		logger.InfoCtx(ctx, "Connected to NATS", zap.String("url", cfg.NATS.URL))
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

	// Build the entitlement resolver
	entitlements := entitlement.NewResolver(accountClient, objectClient, clock)

	// Build the settlement account
	account := settlement.NewAccount(settlement.Config{
		Owner:             cfg.Settlement.Owner,
		MarketplaceWallet: cfg.Settlement.MarketplaceWallet,
		MinWithdrawal:     cfg.Settlement.MinWithdrawal,
	}, settlement.NewLogTransferor(), clock, publisher)

	// Create server config
	serverConfig := server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		AccountChain: cfg.AccountLedger.ChainID,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
	}

	// Create and start server
	srv := server.New(serverConfig, dataStore, idx, entitlements, account)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	logger.Info("API server stopped")
}
