// Package clock provides the time source and repeating timers used by the
// execution engine: a real implementation backed by time.Ticker and a
// virtual one that only moves when told to, for deterministic tests.
package clock

import (
	"sync"
	"time"
)

// Timer is a handle to a repeating callback. Stop is idempotent and may be
// called from inside the callback itself.
type Timer interface {
	Stop()
}

// Clock is a time source that can schedule repeating callbacks.
type Clock interface {
	Now() time.Time

	// Every calls fn every d until the returned Timer is stopped.
	Every(d time.Duration, fn func()) Timer
}

// Real returns a Clock backed by the wall clock.
func Real() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) Every(d time.Duration, fn func()) Timer {
	t := &realTimer{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go t.loop(fn)
	return t
}

type realTimer struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *realTimer) loop(fn func()) {
	defer t.ticker.Stop()
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			// Stop may race with a tick that was already delivered.
			select {
			case <-t.done:
				return
			default:
			}
			fn()
		}
	}
}

func (t *realTimer) Stop() {
	t.once.Do(func() {
		close(t.done)
	})
}
