package retry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelaySchedule(t *testing.T) {
	p := DefaultPolicy(5)

	assert.Equal(t, time.Second, p.Delay(0))
	assert.Equal(t, 2*time.Second, p.Delay(1))
	assert.Equal(t, 4*time.Second, p.Delay(2))
	assert.Equal(t, 8*time.Second, p.Delay(3))
}

func TestDelayCapped(t *testing.T) {
	p := Policy{InitialDelay: time.Second, Multiplier: 2.0, MaxDelay: 5 * time.Second}

	assert.Equal(t, 4*time.Second, p.Delay(2))
	assert.Equal(t, 5*time.Second, p.Delay(3))
	assert.Equal(t, 5*time.Second, p.Delay(10))
}

func TestDelayZeroValuePolicy(t *testing.T) {
	var p Policy

	// A zero policy still produces a sane delay.
	assert.Equal(t, time.Second, p.Delay(0))
	assert.Equal(t, time.Second, p.Delay(3))
}

func TestDelayWithHint(t *testing.T) {
	p := DefaultPolicy(3)

	assert.Equal(t, 7*time.Second, p.DelayWithHint(0, 7*time.Second),
		"server hint wins over computed backoff")
	assert.Equal(t, 2*time.Second, p.DelayWithHint(1, 0),
		"absent hint falls back to the schedule")
}

func TestSleepCompletes(t *testing.T) {
	err := Sleep(context.Background(), 10*time.Millisecond)
	require.NoError(t, err)
}

func TestSleepCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Sleep(ctx, time.Minute)
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second, "canceled sleep must return promptly")
}
