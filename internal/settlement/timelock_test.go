package settlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelzoo-market/mz-indexer/internal/domain"
)

func TestTimelockedFieldInitialValue(t *testing.T) {
	field := NewTimelockedField("0xInitial")
	assert.Equal(t, "0xInitial", field.Value())

	_, _, ok := field.Pending()
	assert.False(t, ok)
}

func TestTimelockedFieldRequestExecute(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	field := NewTimelockedField("0xOld")

	field.Request("0xNew", now)

	pending, requestedAt, ok := field.Pending()
	require.True(t, ok)
	assert.Equal(t, "0xNew", pending)
	assert.Equal(t, now, requestedAt)

	// value is unchanged until executed
	assert.Equal(t, "0xOld", field.Value())

	// immediately after request the delay has not elapsed
	err := field.Execute(now)
	assert.ErrorIs(t, err, domain.ErrTimelockNotExpired)

	// one second short of the delay still fails
	err = field.Execute(now.Add(domain.TimelockDelay - time.Second))
	assert.ErrorIs(t, err, domain.ErrTimelockNotExpired)

	// exactly at the boundary the change applies
	err = field.Execute(now.Add(domain.TimelockDelay))
	require.NoError(t, err)
	assert.Equal(t, "0xNew", field.Value())

	// the pending request is consumed
	_, _, ok = field.Pending()
	assert.False(t, ok)
	err = field.Execute(now.Add(48 * time.Hour))
	assert.ErrorIs(t, err, domain.ErrNoPendingRequest)
}

func TestTimelockedFieldExecuteWithoutRequest(t *testing.T) {
	field := NewTimelockedField("0xOld")
	err := field.Execute(time.Now())
	assert.ErrorIs(t, err, domain.ErrNoPendingRequest)
}

func TestTimelockedFieldRequestOverwritesPending(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	field := NewTimelockedField("0xOld")

	field.Request("0xFirst", now)
	field.Request("0xSecond", now.Add(time.Hour))

	// the fresh request restarts the clock
	err := field.Execute(now.Add(domain.TimelockDelay))
	assert.ErrorIs(t, err, domain.ErrTimelockNotExpired)

	err = field.Execute(now.Add(time.Hour + domain.TimelockDelay))
	require.NoError(t, err)
	assert.Equal(t, "0xSecond", field.Value())
}

func TestTimelockedFieldCancel(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	field := NewTimelockedField("0xOld")

	err := field.Cancel()
	assert.ErrorIs(t, err, domain.ErrNoPendingRequest)

	field.Request("0xNew", now)
	require.NoError(t, field.Cancel())

	assert.Equal(t, "0xOld", field.Value())
	err = field.Execute(now.Add(domain.TimelockDelay))
	assert.ErrorIs(t, err, domain.ErrNoPendingRequest)
}
