package api

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Observer receives callbacks from the workbench for logging and metrics.
//
// Callbacks run while the engine holds its state lock, so implementations
// should be fast and must not call back into the workbench.
type Observer interface {
	// OnStepAdded is called after a step was appended from a template.
	OnStepAdded(ctx context.Context, step Step)

	// OnStepMoved is called after a reorder; index is the new 0-based position.
	OnStepMoved(ctx context.Context, step Step, index int)

	// OnStepRemoved is called after a step was deleted and its timer cancelled.
	OnStepRemoved(ctx context.Context, step Step)

	// OnStepStarted is called when a step enters StatusRunning, both for
	// fresh starts and for resumes.
	OnStepStarted(ctx context.Context, step Step)

	// OnStepPaused is called when a running step is paused.
	OnStepPaused(ctx context.Context, step Step)

	// OnStepCompleted is called when a step reaches 100%.
	OnStepCompleted(ctx context.Context, step Step, duration time.Duration)

	// OnStepReset is called when a completed step is reset to pending.
	OnStepReset(ctx context.Context, step Step)

	// OnStepFailed is called when an external failure signal is applied.
	OnStepFailed(ctx context.Context, step Step, reason string)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnStepAdded(ctx context.Context, step Step)                             {}
func (NoopObserver) OnStepMoved(ctx context.Context, step Step, index int)                  {}
func (NoopObserver) OnStepRemoved(ctx context.Context, step Step)                           {}
func (NoopObserver) OnStepStarted(ctx context.Context, step Step)                           {}
func (NoopObserver) OnStepPaused(ctx context.Context, step Step)                            {}
func (NoopObserver) OnStepCompleted(ctx context.Context, step Step, duration time.Duration) {}
func (NoopObserver) OnStepReset(ctx context.Context, step Step)                             {}
func (NoopObserver) OnStepFailed(ctx context.Context, step Step, reason string)             {}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnStepAdded(ctx context.Context, step Step) {
	for _, o := range c.observers {
		o.OnStepAdded(ctx, step)
	}
}

func (c *CompositeObserver) OnStepMoved(ctx context.Context, step Step, index int) {
	for _, o := range c.observers {
		o.OnStepMoved(ctx, step, index)
	}
}

func (c *CompositeObserver) OnStepRemoved(ctx context.Context, step Step) {
	for _, o := range c.observers {
		o.OnStepRemoved(ctx, step)
	}
}

func (c *CompositeObserver) OnStepStarted(ctx context.Context, step Step) {
	for _, o := range c.observers {
		o.OnStepStarted(ctx, step)
	}
}

func (c *CompositeObserver) OnStepPaused(ctx context.Context, step Step) {
	for _, o := range c.observers {
		o.OnStepPaused(ctx, step)
	}
}

func (c *CompositeObserver) OnStepCompleted(ctx context.Context, step Step, d time.Duration) {
	for _, o := range c.observers {
		o.OnStepCompleted(ctx, step, d)
	}
}

func (c *CompositeObserver) OnStepReset(ctx context.Context, step Step) {
	for _, o := range c.observers {
		o.OnStepReset(ctx, step)
	}
}

func (c *CompositeObserver) OnStepFailed(ctx context.Context, step Step, reason string) {
	for _, o := range c.observers {
		o.OnStepFailed(ctx, step, reason)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs step lifecycle events
// using the provided slog.Logger. If logger is nil, slog.Default() is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnStepAdded(ctx context.Context, step Step) {
	o.Logger.DebugContext(ctx, "step_added",
		slog.String("step_id", step.ID),
		slog.String("kind", step.Kind),
	)
}

func (o *LoggingObserver) OnStepMoved(ctx context.Context, step Step, index int) {
	o.Logger.DebugContext(ctx, "step_moved",
		slog.String("step_id", step.ID),
		slog.String("kind", step.Kind),
		slog.Int("index", index),
	)
}

func (o *LoggingObserver) OnStepRemoved(ctx context.Context, step Step) {
	o.Logger.DebugContext(ctx, "step_removed",
		slog.String("step_id", step.ID),
		slog.String("kind", step.Kind),
		slog.String("status", string(step.Status)),
	)
}

func (o *LoggingObserver) OnStepStarted(ctx context.Context, step Step) {
	o.Logger.InfoContext(ctx, "step_started",
		slog.String("step_id", step.ID),
		slog.String("kind", step.Kind),
		slog.Float64("progress", step.Progress),
	)
}

func (o *LoggingObserver) OnStepPaused(ctx context.Context, step Step) {
	o.Logger.InfoContext(ctx, "step_paused",
		slog.String("step_id", step.ID),
		slog.String("kind", step.Kind),
		slog.Float64("progress", step.Progress),
	)
}

func (o *LoggingObserver) OnStepCompleted(ctx context.Context, step Step, d time.Duration) {
	o.Logger.InfoContext(ctx, "step_completed",
		slog.String("step_id", step.ID),
		slog.String("kind", step.Kind),
		slog.Duration("duration", d),
	)
}

func (o *LoggingObserver) OnStepReset(ctx context.Context, step Step) {
	o.Logger.DebugContext(ctx, "step_reset",
		slog.String("step_id", step.ID),
		slog.String("kind", step.Kind),
	)
}

func (o *LoggingObserver) OnStepFailed(ctx context.Context, step Step, reason string) {
	o.Logger.ErrorContext(ctx, "step_failed",
		slog.String("step_id", step.ID),
		slog.String("kind", step.Kind),
		slog.String("reason", reason),
	)
}

// BasicMetrics collects simple counters and aggregate run durations.
// It implements Observer, and can be combined with LoggingObserver via
// NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	stepsAdded     atomic.Int64
	stepsRemoved   atomic.Int64
	stepsStarted   atomic.Int64
	stepsPaused    atomic.Int64
	stepsCompleted atomic.Int64
	stepsFailed    atomic.Int64
	totalRunTime   atomic.Int64 // nanoseconds
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	StepsAdded     int64
	StepsRemoved   int64
	StepsStarted   int64
	StepsPaused    int64
	StepsCompleted int64
	StepsFailed    int64

	AvgRunDuration time.Duration
}

func (m *BasicMetrics) OnStepAdded(ctx context.Context, step Step) {
	m.stepsAdded.Add(1)
}

func (m *BasicMetrics) OnStepRemoved(ctx context.Context, step Step) {
	m.stepsRemoved.Add(1)
}

func (m *BasicMetrics) OnStepStarted(ctx context.Context, step Step) {
	m.stepsStarted.Add(1)
}

func (m *BasicMetrics) OnStepPaused(ctx context.Context, step Step) {
	m.stepsPaused.Add(1)
}

func (m *BasicMetrics) OnStepCompleted(ctx context.Context, step Step, d time.Duration) {
	m.stepsCompleted.Add(1)
	m.totalRunTime.Add(d.Nanoseconds())
}

func (m *BasicMetrics) OnStepFailed(ctx context.Context, step Step, reason string) {
	m.stepsFailed.Add(1)
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	completed := m.stepsCompleted.Load()
	totalNs := m.totalRunTime.Load()

	var avg time.Duration
	if completed > 0 {
		avg = time.Duration(totalNs / completed)
	}

	return BasicMetricsSnapshot{
		StepsAdded:     m.stepsAdded.Load(),
		StepsRemoved:   m.stepsRemoved.Load(),
		StepsStarted:   m.stepsStarted.Load(),
		StepsPaused:    m.stepsPaused.Load(),
		StepsCompleted: completed,
		StepsFailed:    m.stepsFailed.Load(),
		AvgRunDuration: avg,
	}
}
