package schema

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// StringList is a slice of strings stored as JSONB in PostgreSQL
type StringList []string

// Scan implements the sql.Scanner interface for reading from database
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// Value implements the driver.Valuer interface for writing to database
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// ModelCache is the denormalized projection of a published model's ledger
// state plus derived metadata. It is never authoritative: every field is
// re-derivable from the ledger or the metadata document, and access-control
// decisions never read it.
type ModelCache struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// AssetID is the model's ledger identifier
	AssetID uint64 `gorm:"column:asset_id;not null;uniqueIndex:idx_model_cache_asset_chain,priority:1"`
	// Chain identifies the ledger network in CAIP-2 format
	Chain string `gorm:"column:chain;not null;type:text;uniqueIndex:idx_model_cache_asset_chain,priority:2"`

	// Ledger-sourced fields, written only by resync
	Owner               string  `gorm:"column:owner;not null;type:text;index"`
	Creator             string  `gorm:"column:creator;not null;type:text"`
	Name                string  `gorm:"column:name;not null;type:text"`
	URI                 string  `gorm:"column:uri;not null;type:text"`
	Listed              bool    `gorm:"column:listed;not null;default:false"`
	RoyaltyBps          uint16  `gorm:"column:royalty_bps;not null;default:0"`
	PricePerpetual      uint64  `gorm:"column:price_perpetual;not null;default:0"`
	PriceSubscription   uint64  `gorm:"column:price_subscription;not null;default:0"`
	DefaultDurationDays uint64  `gorm:"column:default_duration_days;not null;default:0"`
	RightsMask          uint8   `gorm:"column:rights_mask;not null;default:0"`
	DeliveryMode        string  `gorm:"column:delivery_mode;not null;type:text"`
	TermsHash           string  `gorm:"column:terms_hash;not null;type:text"`
	Version             uint16  `gorm:"column:version;not null;default:0"`
	AgentID             *uint64 `gorm:"column:agent_id"`
	AgentEndpoint       *string `gorm:"column:agent_endpoint;type:text"`
	AgentWallet         *string `gorm:"column:agent_wallet;type:text"`

	// Derived metadata fields, written only by recache
	Categories    StringList `gorm:"column:categories;type:jsonb"`
	Tags          StringList `gorm:"column:tags;type:jsonb"`
	Frameworks    StringList `gorm:"column:frameworks;type:jsonb"`
	Architectures StringList `gorm:"column:architectures;type:jsonb"`
	ImageRef      *string    `gorm:"column:image_ref;type:text"`
	// RawMetadata is the off-chain metadata document as last fetched
	RawMetadata datatypes.JSON `gorm:"column:raw_metadata;type:jsonb"`

	// LastSyncedAt is the timestamp of the most recent resync
	LastSyncedAt time.Time `gorm:"column:last_synced_at;not null;default:now()"`
	// LastRecachedAt is the timestamp of the most recent metadata recache
	LastRecachedAt *time.Time `gorm:"column:last_recached_at;type:timestamptz"`

	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the ModelCache model
func (ModelCache) TableName() string {
	return "model_cache"
}

// DerivedMetadata carries the recache-owned subset of a cache row
type DerivedMetadata struct {
	Categories    StringList
	Tags          StringList
	Frameworks    StringList
	Architectures StringList
	ImageRef      *string
	RawMetadata   datatypes.JSON
}
