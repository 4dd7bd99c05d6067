package messaging

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/modelzoo-market/mz-indexer/internal/domain"
)

// Publisher defines the interface for publishing events to the message broker
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishIndexEvent publishes a cache-change event
	PublishIndexEvent(ctx context.Context, event *domain.IndexEvent) error
	// PublishSettlementEvent publishes a settlement mutation event
	PublishSettlementEvent(ctx context.Context, event *domain.SettlementEvent) error
	// Close closes the connection
	Close()
}

// NewEventID returns a lexicographically sortable event identifier
func NewEventID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
