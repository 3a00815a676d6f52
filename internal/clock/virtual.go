package clock

import (
	"sync"
	"time"
)

// Virtual is a Clock whose time only moves through Advance. Callbacks run
// synchronously on the goroutine calling Advance, in due-time order; timers
// due at the same instant fire in registration order.
type Virtual struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*virtualTimer
}

// NewVirtual creates a virtual clock starting at start.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

var _ Clock = (*Virtual)(nil)

type virtualTimer struct {
	v        *Virtual
	seq      uint64
	interval time.Duration
	next     time.Time
	fn       func()
}

func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

func (v *Virtual) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		panic("clock: non-positive interval")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.seq++
	t := &virtualTimer{
		v:        v,
		seq:      v.seq,
		interval: d,
		next:     v.now.Add(d),
		fn:       fn,
	}
	v.timers = append(v.timers, t)
	return t
}

// Advance moves the clock forward by d, firing every callback that falls due
// along the way. Timers registered or stopped by a callback take effect
// immediately for the rest of the advance.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now.Add(d)
	v.mu.Unlock()

	for {
		v.mu.Lock()
		t := v.nextDueLocked(target)
		if t == nil {
			v.now = target
			v.mu.Unlock()
			return
		}
		v.now = t.next
		t.next = t.next.Add(t.interval)
		fn := t.fn
		v.mu.Unlock()

		fn()
	}
}

// Pending returns the number of active timers.
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.timers)
}

func (v *Virtual) nextDueLocked(target time.Time) *virtualTimer {
	var due *virtualTimer
	for _, t := range v.timers {
		if t.next.After(target) {
			continue
		}
		if due == nil || t.next.Before(due.next) || (t.next.Equal(due.next) && t.seq < due.seq) {
			due = t
		}
	}
	return due
}

func (t *virtualTimer) Stop() {
	v := t.v
	v.mu.Lock()
	defer v.mu.Unlock()

	for i, other := range v.timers {
		if other == t {
			v.timers = append(v.timers[:i], v.timers[i+1:]...)
			return
		}
	}
}
