package domain

import "time"

// IndexEventType represents the type of indexing event
type IndexEventType string

const (
	IndexEventResynced IndexEventType = "resynced"
	IndexEventRecached IndexEventType = "recached"
)

// IndexEvent is published after a cache row changes
type IndexEvent struct {
	EventID   string         `json:"event_id"`
	Type      IndexEventType `json:"type"`
	Chain     Chain          `json:"chain"`
	AssetID   uint64         `json:"asset_id"`
	Version   uint16         `json:"version"`
	Timestamp time.Time      `json:"timestamp"`
}

// SettlementEventType represents the type of settlement event
type SettlementEventType string

const (
	SettlementEventSplitConfigured SettlementEventType = "split_configured"
	SettlementEventDistributed     SettlementEventType = "distributed"
	SettlementEventWithdrawn       SettlementEventType = "withdrawn"
)

// SettlementEvent is published after a successful settlement mutation
type SettlementEvent struct {
	EventID   string              `json:"event_id"`
	Type      SettlementEventType `json:"type"`
	AssetID   uint64              `json:"asset_id,omitempty"`
	Caller    string              `json:"caller"`
	Amount    uint64              `json:"amount,omitempty"`
	Breakdown *SplitBreakdown     `json:"breakdown,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}
