package domain

import "errors"

var (
	// ErrUnauthorized is returned when the caller is not allowed to perform
	// a privileged operation
	ErrUnauthorized = errors.New("caller not authorized")

	// ErrInvalidBps is returned when a basis-point parameter is outside its
	// allowed range
	ErrInvalidBps = errors.New("basis points out of range")

	// ErrTimelockNotExpired is returned when a timelocked change is executed
	// before its delay has elapsed
	ErrTimelockNotExpired = errors.New("timelock delay not elapsed")

	// ErrNoPendingRequest is returned when executing or cancelling a
	// timelocked change that was never requested
	ErrNoPendingRequest = errors.New("no pending timelock request")

	// ErrBelowMinimumWithdrawal is returned when a withdrawal is attempted
	// for a balance under the minimum threshold
	ErrBelowMinimumWithdrawal = errors.New("balance below minimum withdrawal")

	// ErrPaused is returned when a mutating settlement call is made while
	// the account is paused
	ErrPaused = errors.New("settlement account paused")

	// ErrMalformedPayload is returned when a ledger return payload cannot be
	// decoded
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrNotFound is returned when a slug, asset, or license does not exist.
	// This is a normal outcome for lookups, not a fault.
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnavailable is returned when a ledger RPC or metadata fetch
	// fails
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
