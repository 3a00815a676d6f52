package api

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"
)

//
// Helpers
//

// testObserver counts calls and remembers the last step it saw.
type testObserver struct {
	mu sync.Mutex

	calls    map[string]int
	last     Step
	index    int
	duration time.Duration
	reason   string
}

func (o *testObserver) hit(name string, step Step) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.calls == nil {
		o.calls = make(map[string]int)
	}
	o.calls[name]++
	o.last = step
}

func (o *testObserver) OnStepAdded(ctx context.Context, step Step) { o.hit("added", step) }
func (o *testObserver) OnStepMoved(ctx context.Context, step Step, index int) {
	o.hit("moved", step)
	o.index = index
}
func (o *testObserver) OnStepRemoved(ctx context.Context, step Step) { o.hit("removed", step) }
func (o *testObserver) OnStepStarted(ctx context.Context, step Step) { o.hit("started", step) }
func (o *testObserver) OnStepPaused(ctx context.Context, step Step)  { o.hit("paused", step) }
func (o *testObserver) OnStepCompleted(ctx context.Context, step Step, d time.Duration) {
	o.hit("completed", step)
	o.duration = d
}
func (o *testObserver) OnStepReset(ctx context.Context, step Step) { o.hit("reset", step) }
func (o *testObserver) OnStepFailed(ctx context.Context, step Step, reason string) {
	o.hit("failed", step)
	o.reason = reason
}

// recordingHandler is a minimal slog.Handler that records log records in memory.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

func (h *recordingHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(name string) slog.Handler       { return h }

func attrsToMap(r slog.Record) map[string]any {
	m := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		m[a.Key] = a.Value.Any()
		return true
	})
	return m
}

func newTestStep() Step {
	return Step{ID: "step-123", Kind: "CENTRIFUGE", Status: StatusRunning, Progress: 40}
}

func emitAll(o Observer, step Step) {
	ctx := context.Background()
	o.OnStepAdded(ctx, step)
	o.OnStepMoved(ctx, step, 2)
	o.OnStepRemoved(ctx, step)
	o.OnStepStarted(ctx, step)
	o.OnStepPaused(ctx, step)
	o.OnStepCompleted(ctx, step, 3*time.Second)
	o.OnStepReset(ctx, step)
	o.OnStepFailed(ctx, step, "lid open")
}

//
// NoopObserver
//

func TestNoopObserver_DoesNotPanic(t *testing.T) {
	emitAll(NoopObserver{}, newTestStep())
}

//
// CompositeObserver
//

func TestNewCompositeObserver_EmptyReturnsNoop(t *testing.T) {
	o := NewCompositeObserver()
	if _, ok := o.(NoopObserver); !ok {
		t.Fatalf("expected NewCompositeObserver() to return NoopObserver, got %T", o)
	}
}

func TestNewCompositeObserver_SingleReturnsThatObserver(t *testing.T) {
	single := &testObserver{}
	o := NewCompositeObserver(single, nil)
	if got, ok := o.(*testObserver); !ok || got != single {
		t.Fatalf("expected the single non-nil observer to be returned, got %T (%p)", o, o)
	}
}

func TestCompositeObserver_ForwardsAllEvents(t *testing.T) {
	o1 := &testObserver{}
	o2 := &testObserver{}

	co, ok := NewCompositeObserver(o1, o2).(*CompositeObserver)
	if !ok {
		t.Fatalf("expected *CompositeObserver")
	}

	step := newTestStep()
	emitAll(co, step)

	for i, o := range []*testObserver{o1, o2} {
		if len(o.calls) != 8 {
			t.Fatalf("observer %d did not receive all calls: %v", i+1, o.calls)
		}
		for name, n := range o.calls {
			if n != 1 {
				t.Fatalf("observer %d got %d %s calls", i+1, n, name)
			}
		}
		if o.last.ID != step.ID {
			t.Fatalf("observer %d step mismatch: %+v", i+1, o.last)
		}
		if o.index != 2 || o.duration != 3*time.Second || o.reason != "lid open" {
			t.Fatalf("observer %d argument mismatch: index=%d duration=%s reason=%q",
				i+1, o.index, o.duration, o.reason)
		}
	}
}

//
// LoggingObserver
//

func TestNewLoggingObserver_NilLoggerUsesDefault(t *testing.T) {
	lo, ok := NewLoggingObserver(nil).(*LoggingObserver)
	if !ok {
		t.Fatalf("expected *LoggingObserver")
	}
	if lo.Logger == nil {
		t.Fatalf("expected non-nil Logger when created with nil")
	}
}

func TestLoggingObserver_LevelsAndAttrs(t *testing.T) {
	h := &recordingHandler{}
	emitAll(NewLoggingObserver(slog.New(h)), newTestStep())

	want := []struct {
		msg   string
		level slog.Level
	}{
		{"step_added", slog.LevelDebug},
		{"step_moved", slog.LevelDebug},
		{"step_removed", slog.LevelDebug},
		{"step_started", slog.LevelInfo},
		{"step_paused", slog.LevelInfo},
		{"step_completed", slog.LevelInfo},
		{"step_reset", slog.LevelDebug},
		{"step_failed", slog.LevelError},
	}
	if len(h.records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(h.records))
	}
	for i, w := range want {
		rec := h.records[i]
		if rec.Message != w.msg || rec.Level != w.level {
			t.Fatalf("record %d: got %s@%v, want %s@%v", i, rec.Message, rec.Level, w.msg, w.level)
		}
		attrs := attrsToMap(rec)
		if attrs["step_id"] != "step-123" || attrs["kind"] != "CENTRIFUGE" {
			t.Fatalf("record %d: missing step attrs: %v", i, attrs)
		}
	}

	if got := attrsToMap(h.records[1])["index"]; got != int64(2) {
		t.Fatalf("expected index=2, got %v", got)
	}
	if got := attrsToMap(h.records[5])["duration"]; got != 3*time.Second {
		t.Fatalf("expected duration=3s, got %v", got)
	}
	if got := attrsToMap(h.records[7])["reason"]; got != "lid open" {
		t.Fatalf("expected reason, got %v", got)
	}
}

//
// BasicMetrics
//

func TestBasicMetrics_Snapshot(t *testing.T) {
	m := &BasicMetrics{}
	step := newTestStep()
	ctx := context.Background()

	emitAll(m, step)
	m.OnStepCompleted(ctx, step, time.Second)

	snap := m.Snapshot()
	want := BasicMetricsSnapshot{
		StepsAdded:     1,
		StepsRemoved:   1,
		StepsStarted:   1,
		StepsPaused:    1,
		StepsCompleted: 2,
		StepsFailed:    1,
		AvgRunDuration: 2 * time.Second,
	}
	if snap != want {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestBasicMetrics_EmptyAverage(t *testing.T) {
	if avg := (&BasicMetrics{}).Snapshot().AvgRunDuration; avg != 0 {
		t.Fatalf("expected zero average, got %s", avg)
	}
}
