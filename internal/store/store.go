package store

import (
	"context"

	"github.com/modelzoo-market/mz-indexer/internal/store/schema"
)

//go:generate mockgen -source=store.go -destination=../mocks/mock_store.go -package=mocks -mock_names=Store=MockStore

// Store is the persistence interface for the model cache
type Store interface {
	// GetModelCache returns the cached row for (chain, assetID), or nil
	// when no row exists
	GetModelCache(ctx context.Context, chain string, assetID uint64) (*schema.ModelCache, error)

	// ListModelCache returns listed cache rows for a chain ordered by
	// asset id, paginated by offset and limit
	ListModelCache(ctx context.Context, chain string, offset, limit int) ([]schema.ModelCache, error)

	// UpsertModelCache writes ledger-sourced fields for a row, inserting it
	// when absent. Derived metadata columns are left untouched on conflict.
	UpsertModelCache(ctx context.Context, row *schema.ModelCache) error

	// UpdateModelDerived writes the derived metadata fields of an existing
	// row. The row must already exist.
	UpdateModelDerived(ctx context.Context, chain string, assetID uint64, derived schema.DerivedMetadata) error

	// GetKeyValue returns the value for a key, or empty string when absent
	GetKeyValue(ctx context.Context, key string) (string, error)

	// SetKeyValue upserts a key-value pair
	SetKeyValue(ctx context.Context, key, value string) error
}
