package sweeper

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerStartStop(t *testing.T) {
	var sweeps int64
	m := NewManager(func(ctx context.Context) (int64, error) {
		atomic.AddInt64(&sweeps, 1)
		return 0, nil
	})

	assert.False(t, m.IsRunning())

	m.Start()
	assert.True(t, m.IsRunning())

	// Start is idempotent.
	m.Start()
	assert.True(t, m.IsRunning())

	m.Stop()
	assert.False(t, m.IsRunning())

	// Stop is idempotent too.
	m.Stop()
	assert.False(t, m.IsRunning())
}

func TestManagerRestart(t *testing.T) {
	m := NewManager(func(ctx context.Context) (int64, error) {
		return 0, nil
	})

	m.Start()
	m.Stop()

	// A stopped manager can be started again without panicking on the
	// recreated stop channel.
	m.Start()
	assert.True(t, m.IsRunning())
	m.Stop()
}

func TestRunOnce(t *testing.T) {
	m := NewManager(func(ctx context.Context) (int64, error) {
		return 3, nil
	})

	count, err := m.RunOnce(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestSweepIntervalDefault(t *testing.T) {
	assert.Equal(t, 5*time.Minute, sweepInterval())
}
