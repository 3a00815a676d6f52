package engine

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/petrijr/blockflow/internal/clock"
	"github.com/petrijr/blockflow/internal/sequence"
	"github.com/petrijr/blockflow/pkg/api"
)

// DefaultTickInterval is how often a running step advances.
const DefaultTickInterval = 200 * time.Millisecond

// Progress within this distance of 100 counts as done, so durations that do
// not divide evenly into ticks still finish on the expected tick.
const completionEpsilon = 1e-9

// Config describes how to construct an Engine.
type Config struct {
	Store    *sequence.Store
	Clock    clock.Clock
	Observer api.Observer

	// TickInterval defaults to DefaultTickInterval.
	TickInterval time.Duration
}

// run is the timer owned by one running step.
type run struct {
	timer     clock.Timer
	startedAt time.Time
	increment float64
}

// Engine simulates step execution. Every running step owns exactly one
// repeating timer, kept in runs under the step id; stopping a step always
// removes the entry and stops the timer together.
//
// All transitions, including timer ticks, are serialized by mu.
type Engine struct {
	mu       sync.Mutex
	store    *sequence.Store
	clock    clock.Clock
	observer api.Observer
	tick     time.Duration
	runs     map[string]*run
	closed   bool
}

// New creates an Engine over cfg.Store and hooks it into step removal so a
// removed step's timer is cancelled before Store.Remove returns.
func New(cfg Config) *Engine {
	if cfg.Store == nil {
		cfg.Store = sequence.New()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Observer == nil {
		cfg.Observer = api.NoopObserver{}
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}

	e := &Engine{
		store:    cfg.Store,
		clock:    cfg.Clock,
		observer: cfg.Observer,
		tick:     cfg.TickInterval,
		runs:     make(map[string]*run),
	}
	e.store.OnRemove(e.onRemoved)
	return e
}

// Toggle advances the run state of a step:
//
//	RUNNING                   -> PAUSED   (timer cancelled, progress kept)
//	PENDING | PAUSED | FAILED -> RUNNING  (PAUSED resumes from its progress)
//	COMPLETED                 -> PENDING  (progress, duration and log reset)
//
// It reports false when the step is unknown, not runnable, or the engine is
// closed.
func (e *Engine) Toggle(ctx context.Context, id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return false
	}
	step, ok := e.store.Get(id)
	if !ok {
		return false
	}

	switch {
	case step.Status == api.StatusRunning:
		return e.pauseLocked(ctx, step)
	case step.Status.Startable():
		if !step.Runnable {
			return false
		}
		return e.startLocked(ctx, step)
	case step.Status == api.StatusCompleted:
		return e.resetLocked(ctx, step)
	default:
		return false
	}
}

// startIfIdle starts a PENDING or FAILED runnable step. Unlike Toggle it
// never pauses, resumes or resets, so a step someone else started or paused
// in the meantime is left alone.
func (e *Engine) startIfIdle(ctx context.Context, id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return false
	}
	step, ok := e.store.Get(id)
	if !ok || !step.Runnable {
		return false
	}
	if step.Status != api.StatusPending && step.Status != api.StatusFailed {
		return false
	}
	return e.startLocked(ctx, step)
}

// Fail applies an external failure signal. The simulation never fails a
// step on its own; this exists for real execution backends and tests.
func (e *Engine) Fail(ctx context.Context, id string, reason string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	step, ok := e.store.Get(id)
	if !ok || step.Status == api.StatusFailed {
		return false
	}
	e.stopLocked(id)

	failed := api.StatusFailed
	patch := sequence.StatusPatch{
		Status: &failed,
		Log:    []api.LogEntry{e.entry("failed: %s", reason)},
	}
	if step.Status == api.StatusCompleted {
		// A failed step is never at 100%.
		zero := 0.0
		patch.Progress = &zero
		patch.ClearActualDuration = true
	}
	if !e.store.UpdateStatus(id, patch) {
		return false
	}

	step, _ = e.store.Get(id)
	e.observer.OnStepFailed(ctx, step, reason)
	return true
}

// AggregateProgress projects the current store contents.
func (e *Engine) AggregateProgress() api.AggregateProgress {
	return api.ComputeProgress(e.store.Snapshot())
}

// Running returns the number of timers currently registered.
func (e *Engine) Running() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.runs)
}

// Close cancels every timer. Steps keep their status; no further ticks are
// applied and Toggle becomes a no-op.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closed = true
	for id := range e.runs {
		e.stopLocked(id)
	}
}

func (e *Engine) startLocked(ctx context.Context, step api.Step) bool {
	// A stale timer must never outlive a restart.
	e.stopLocked(step.ID)

	progress := step.Progress
	msg := e.entry("started at %s", e.clock.Now().Format(time.TimeOnly))
	if step.Status == api.StatusPaused {
		msg = e.entry("resumed at %s from %.0f%%", e.clock.Now().Format(time.TimeOnly), progress)
	} else {
		progress = 0
	}

	r := &run{
		startedAt: e.clock.Now(),
		increment: e.incrementFor(step.EstimatedDuration),
	}

	running := api.StatusRunning
	if !e.store.UpdateStatus(step.ID, sequence.StatusPatch{
		Status:   &running,
		Progress: &progress,
		Log:      []api.LogEntry{msg},
	}) {
		return false
	}

	id := step.ID
	r.timer = e.clock.Every(e.tick, func() { e.onTick(id, r) })
	e.runs[id] = r

	step, _ = e.store.Get(id)
	e.observer.OnStepStarted(ctx, step)
	return true
}

func (e *Engine) pauseLocked(ctx context.Context, step api.Step) bool {
	e.stopLocked(step.ID)

	paused := api.StatusPaused
	if !e.store.UpdateStatus(step.ID, sequence.StatusPatch{
		Status: &paused,
		Log:    []api.LogEntry{e.entry("paused at %.0f%%", step.Progress)},
	}) {
		return false
	}

	step, _ = e.store.Get(step.ID)
	e.observer.OnStepPaused(ctx, step)
	return true
}

// resetLocked returns a completed step to pending. The previous log is
// dropped, not archived.
func (e *Engine) resetLocked(ctx context.Context, step api.Step) bool {
	e.stopLocked(step.ID)

	pending := api.StatusPending
	zero := 0.0
	if !e.store.UpdateStatus(step.ID, sequence.StatusPatch{
		Status:              &pending,
		Progress:            &zero,
		ClearActualDuration: true,
		ReplaceLog:          true,
		Log:                 []api.LogEntry{e.entry("reset")},
	}) {
		return false
	}

	step, _ = e.store.Get(step.ID)
	e.observer.OnStepReset(ctx, step)
	return true
}

func (e *Engine) onTick(id string, r *run) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.runs[id] != r {
		// Superseded or cancelled while this tick was in flight.
		r.timer.Stop()
		return
	}

	step, ok := e.store.Get(id)
	if !ok || step.Status != api.StatusRunning {
		e.stopLocked(id)
		return
	}

	next := math.Min(100, step.Progress+r.increment)
	if next < 100-completionEpsilon {
		e.store.UpdateStatus(id, sequence.StatusPatch{Progress: &next})
		return
	}

	e.stopLocked(id)

	elapsed := e.clock.Now().Sub(r.startedAt)
	completed := api.StatusCompleted
	full := 100.0
	e.store.UpdateStatus(id, sequence.StatusPatch{
		Status:         &completed,
		Progress:       &full,
		ActualDuration: &elapsed,
		Log:            []api.LogEntry{e.entry("completed in %s", elapsed.Round(time.Millisecond))},
	})

	step, _ = e.store.Get(id)
	e.observer.OnStepCompleted(context.Background(), step, elapsed)
}

func (e *Engine) onRemoved(step api.Step) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked(step.ID)
}

func (e *Engine) stopLocked(id string) {
	r, ok := e.runs[id]
	if !ok {
		return
	}
	delete(e.runs, id)
	r.timer.Stop()
}

// incrementFor returns the progress added per tick so that a step reaches
// 100% after exactly its estimated duration of uninterrupted running.
func (e *Engine) incrementFor(estimate time.Duration) float64 {
	if estimate <= 0 {
		return 100
	}
	return 100 * float64(e.tick) / float64(estimate)
}

func (e *Engine) entry(format string, args ...any) api.LogEntry {
	return api.LogEntry{
		At:      e.clock.Now(),
		Message: fmt.Sprintf(format, args...),
	}
}
