package settlement

import (
	"time"

	"github.com/modelzoo-market/mz-indexer/internal/domain"
)

// TimelockedField holds a value whose changes go through a mandatory
// request/execute cycle with a fixed delay. A new request overwrites any
// prior pending one. The type is not safe for concurrent use; callers hold
// their own lock.
type TimelockedField[T any] struct {
	value   T
	pending *pendingChange[T]
}

type pendingChange[T any] struct {
	value       T
	requestedAt time.Time
}

// NewTimelockedField creates a field initialized to the given value
func NewTimelockedField[T any](initial T) *TimelockedField[T] {
	return &TimelockedField[T]{value: initial}
}

// Value returns the currently applied value
func (f *TimelockedField[T]) Value() T {
	return f.value
}

// Pending returns the proposed value and request time, or false when idle
func (f *TimelockedField[T]) Pending() (T, time.Time, bool) {
	if f.pending == nil {
		var zero T
		return zero, time.Time{}, false
	}
	return f.pending.value, f.pending.requestedAt, true
}

// Request records a proposed change, replacing any prior pending request
// with a fresh requestedAt
func (f *TimelockedField[T]) Request(value T, now time.Time) {
	f.pending = &pendingChange[T]{value: value, requestedAt: now}
}

// Execute applies the pending change once the delay has elapsed. The pending
// request is consumed on success and left in place on failure.
func (f *TimelockedField[T]) Execute(now time.Time) error {
	if f.pending == nil {
		return domain.ErrNoPendingRequest
	}
	if now.Before(f.pending.requestedAt.Add(domain.TimelockDelay)) {
		return domain.ErrTimelockNotExpired
	}
	f.value = f.pending.value
	f.pending = nil
	return nil
}

// Cancel discards the pending change without applying it
func (f *TimelockedField[T]) Cancel() error {
	if f.pending == nil {
		return domain.ErrNoPendingRequest
	}
	f.pending = nil
	return nil
}
