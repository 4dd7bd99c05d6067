package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/modelzoo-market/mz-indexer/internal/domain"
	"github.com/modelzoo-market/mz-indexer/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// GetModelCache retrieves a cached model row by chain and asset id
func (s *pgStore) GetModelCache(ctx context.Context, chain string, assetID uint64) (*schema.ModelCache, error) {
	var row schema.ModelCache
	err := s.db.WithContext(ctx).Where("chain = ? AND asset_id = ?", chain, assetID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get model cache: %w", err)
	}
	return &row, nil
}

// ListModelCache returns listed rows for a chain ordered by asset id
func (s *pgStore) ListModelCache(ctx context.Context, chain string, offset, limit int) ([]schema.ModelCache, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var rows []schema.ModelCache
	err := s.db.WithContext(ctx).
		Where("chain = ? AND listed = ?", chain, true).
		Order("asset_id ASC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list model cache: %w", err)
	}
	return rows, nil
}

// ledger-sourced columns updated on resync conflict; derived metadata
// columns are owned by recache and must not be touched here
var resyncColumns = []string{
	"owner", "creator", "name", "uri", "listed", "royalty_bps",
	"price_perpetual", "price_subscription", "default_duration_days",
	"rights_mask", "delivery_mode", "terms_hash", "version",
	"agent_id", "agent_endpoint", "agent_wallet",
	"last_synced_at", "updated_at",
}

// UpsertModelCache inserts or updates the ledger-sourced fields of a row
func (s *pgStore) UpsertModelCache(ctx context.Context, row *schema.ModelCache) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "asset_id"}, {Name: "chain"}},
		DoUpdates: clause.AssignmentColumns(resyncColumns),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert model cache: %w", err)
	}
	return nil
}

// UpdateModelDerived writes the metadata-derived fields of an existing row
func (s *pgStore) UpdateModelDerived(ctx context.Context, chain string, assetID uint64, derived schema.DerivedMetadata) error {
	now := time.Now()
	result := s.db.WithContext(ctx).
		Model(&schema.ModelCache{}).
		Where("chain = ? AND asset_id = ?", chain, assetID).
		Updates(map[string]interface{}{
			"categories":       derived.Categories,
			"tags":             derived.Tags,
			"frameworks":       derived.Frameworks,
			"architectures":    derived.Architectures,
			"image_ref":        derived.ImageRef,
			"raw_metadata":     derived.RawMetadata,
			"last_recached_at": &now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update derived metadata: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("model cache row %s:%d: %w", chain, assetID, domain.ErrNotFound)
	}
	return nil
}

// GetKeyValue retrieves a value by key, returning empty string when absent
func (s *pgStore) GetKeyValue(ctx context.Context, key string) (string, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get key value: %w", err)
	}
	return kv.Value, nil
}

// SetKeyValue upserts a key-value pair
func (s *pgStore) SetKeyValue(ctx context.Context, key, value string) error {
	kv := schema.KeyValueStore{
		Key:   key,
		Value: value,
	}
	err := s.db.WithContext(ctx).Save(&kv).Error
	if err != nil {
		return fmt.Errorf("failed to set key value: %w", err)
	}
	return nil
}
