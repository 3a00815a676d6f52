package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestVirtual_FiresInOrder(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	v := NewVirtual(start)

	var order []string
	v.Every(300*time.Millisecond, func() { order = append(order, "slow") })
	v.Every(200*time.Millisecond, func() { order = append(order, "fast") })

	v.Advance(600 * time.Millisecond)

	// fast@200, slow@300, fast@400, slow@600, fast@600
	require.Equal(t, []string{"fast", "slow", "fast", "slow", "fast"}, order)
	require.Equal(t, start.Add(600*time.Millisecond), v.Now())
}

func TestVirtual_StopFromCallback(t *testing.T) {
	v := NewVirtual(time.Unix(0, 0))

	calls := 0
	var timer Timer
	timer = v.Every(100*time.Millisecond, func() {
		calls++
		if calls == 3 {
			timer.Stop()
		}
	})

	v.Advance(time.Second)
	require.Equal(t, 3, calls)
	require.Equal(t, 0, v.Pending())

	// Stopping twice is harmless.
	timer.Stop()
}

func TestVirtual_NowDuringCallback(t *testing.T) {
	start := time.Unix(100, 0)
	v := NewVirtual(start)

	var seen []time.Duration
	v.Every(250*time.Millisecond, func() {
		seen = append(seen, v.Now().Sub(start))
	})
	v.Advance(time.Second)

	require.Equal(t, []time.Duration{
		250 * time.Millisecond,
		500 * time.Millisecond,
		750 * time.Millisecond,
		time.Second,
	}, seen)
}

func TestReal_StopEndsGoroutine(t *testing.T) {
	defer goleak.VerifyNone(t)

	var ticks atomic.Int64
	timer := Real().Every(5*time.Millisecond, func() { ticks.Add(1) })

	require.Eventually(t, func() bool { return ticks.Load() >= 2 }, time.Second, time.Millisecond)

	timer.Stop()
	timer.Stop()
}
