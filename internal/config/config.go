package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/modelzoo-market/mz-indexer/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// AccountLedgerConfig holds account-ledger (EVM) configuration
type AccountLedgerConfig struct {
	RPCURL          string       `mapstructure:"rpc_url"`
	WSURL           string       `mapstructure:"ws_url"` // websocket endpoint for log subscriptions, optional
	ChainID         domain.Chain `mapstructure:"chain_id"`
	ContractAddress string       `mapstructure:"contract_address"`
}

// RateLimitConfig bounds the request rate for one upstream provider class
type RateLimitConfig struct {
	RequestsPerSecond int           `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxQueueTime      time.Duration `mapstructure:"max_queue_time"`
}

// RateLimiterConfig holds distributed rate limiter configuration
type RateLimiterConfig struct {
	RedisAddr               string                     `mapstructure:"redis_addr"`
	RedisPassword           string                     `mapstructure:"redis_password"`
	RedisDB                 int                        `mapstructure:"redis_db"`
	RedisKeyPrefix          string                     `mapstructure:"redis_key_prefix"`
	MaxWorkers              int                        `mapstructure:"max_workers"`
	MaxQueueSize            int                        `mapstructure:"max_queue_size"`
	EnableLocalFallback     bool                       `mapstructure:"enable_local_fallback"`
	LocalFallbackMultiplier float64                    `mapstructure:"local_fallback_multiplier"`
	Providers               map[string]RateLimitConfig `mapstructure:"providers"`
}

// ObjectLedgerConfig holds object-ledger configuration
type ObjectLedgerConfig struct {
	RPCURL  string       `mapstructure:"rpc_url"`
	ChainID domain.Chain `mapstructure:"chain_id"`
}

// SettlementConfig holds revenue split configuration
type SettlementConfig struct {
	Owner             string `mapstructure:"owner"`
	MarketplaceWallet string `mapstructure:"marketplace_wallet"`
	MarketplaceBps    uint16 `mapstructure:"marketplace_bps"`
	MinWithdrawal     uint64 `mapstructure:"min_withdrawal"`
}

// IndexerConfig holds indexer tuning configuration
type IndexerConfig struct {
	WorkerPoolSize  int           `mapstructure:"worker_pool_size"`
	ListingPageSize int           `mapstructure:"listing_page_size"`
	SyncInterval    time.Duration `mapstructure:"sync_interval"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig    `mapstructure:",squash"`
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	NATS          NATSConfig          `mapstructure:"nats"`
	AccountLedger AccountLedgerConfig `mapstructure:"account_ledger"`
	ObjectLedger  ObjectLedgerConfig  `mapstructure:"object_ledger"`
	Settlement    SettlementConfig    `mapstructure:"settlement"`
	Indexer       IndexerConfig       `mapstructure:"indexer"`
	Auth          AuthConfig          `mapstructure:"auth"`
	RateLimiter   RateLimiterConfig   `mapstructure:"rate_limiter"`
}

// SyncWorkerConfig holds configuration for the listing sync worker
type SyncWorkerConfig struct {
	BaseConfig    `mapstructure:",squash"`
	Database      DatabaseConfig      `mapstructure:"database"`
	NATS          NATSConfig          `mapstructure:"nats"`
	AccountLedger AccountLedgerConfig `mapstructure:"account_ledger"`
	ObjectLedger  ObjectLedgerConfig  `mapstructure:"object_ledger"`
	Indexer       IndexerConfig       `mapstructure:"indexer"`
	RateLimiter   RateLimiterConfig   `mapstructure:"rate_limiter"`
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)
	setCommonDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// LoadSyncWorkerConfig loads configuration for the listing sync worker
func LoadSyncWorkerConfig(configFile string, envPath string) (*SyncWorkerConfig, error) {
	v := configureViper("sync-worker", configFile, envPath)

	setCommonDefaults(v)
	v.SetDefault("indexer.sync_interval", "5m")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config SyncWorkerConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setCommonDefaults(v *viper.Viper) {
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "MARKETPLACE_EVENTS")
	v.SetDefault("account_ledger.chain_id", "eip155:1")
	v.SetDefault("object_ledger.chain_id", "sui:mainnet")
	v.SetDefault("settlement.marketplace_bps", 250)
	v.SetDefault("settlement.min_withdrawal", 1)
	v.SetDefault("indexer.worker_pool_size", 8)
	v.SetDefault("indexer.listing_page_size", 50)
	v.SetDefault("rate_limiter.redis_key_prefix", "mz:indexer:limiter:")
	v.SetDefault("rate_limiter.enable_local_fallback", true)
}

func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/api/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("MZ_INDEXER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	commonKeys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Account ledger
		"account_ledger.rpc_url",
		"account_ledger.ws_url",
		"account_ledger.chain_id",
		"account_ledger.contract_address",
		// Object ledger
		"object_ledger.rpc_url",
		"object_ledger.chain_id",
		// Settlement
		"settlement.owner",
		"settlement.marketplace_wallet",
		"settlement.marketplace_bps",
		"settlement.min_withdrawal",
		// Indexer
		"indexer.worker_pool_size",
		"indexer.listing_page_size",
		"indexer.sync_interval",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
		// Rate limiter (provider limits come from the config file)
		"rate_limiter.redis_addr",
		"rate_limiter.redis_password",
		"rate_limiter.redis_db",
		"rate_limiter.redis_key_prefix",
		"rate_limiter.max_workers",
		"rate_limiter.max_queue_size",
		"rate_limiter.enable_local_fallback",
		"rate_limiter.local_fallback_multiplier",
	}

	for _, key := range commonKeys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for i := 0; i < 5; i++ {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
