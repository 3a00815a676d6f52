package api

import (
	"time"
)

// Status represents the lifecycle state of a step on the canvas.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusRunning   Status = "RUNNING"
	StatusPaused    Status = "PAUSED"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Startable reports whether a step in this status may be started by a
// run toggle or by RunAll.
func (s Status) Startable() bool {
	return s == StatusPending || s == StatusPaused || s == StatusFailed
}

// Template is an immutable palette entry describing a kind of step and the
// defaults copied into every step created from it.
type Template struct {
	Kind        string
	Label       string
	Icon        string
	Color       string
	Description string

	// EstimatedDuration is the simulated run time of a step created from
	// this template. Always > 0 for templates held by a catalog.
	EstimatedDuration time.Duration
}

// LogEntry is a single timestamped line in a step's execution log.
type LogEntry struct {
	At      time.Time
	Message string
}

// Step is one entry of the sequence placed on the canvas.
type Step struct {
	// ID is a time-ordered unique token assigned on creation.
	ID string

	Kind        string
	Label       string
	Icon        string
	Color       string
	Description string

	Status Status

	// Progress is a percentage in [0, 100]. It equals 100 exactly when
	// Status is StatusCompleted.
	Progress float64

	EstimatedDuration time.Duration

	// ActualDuration is nil until the step completes.
	ActualDuration *time.Duration

	Log []LogEntry

	// Runnable marks the step as eligible for execution. Steps that are
	// not runnable are skipped by RunAll and ignore run toggles.
	Runnable bool
}

// Clone returns a deep copy of the step so callers can hold on to it without
// observing later mutations.
func (s Step) Clone() Step {
	out := s
	if s.ActualDuration != nil {
		d := *s.ActualDuration
		out.ActualDuration = &d
	}
	if s.Log != nil {
		out.Log = make([]LogEntry, len(s.Log))
		copy(out.Log, s.Log)
	}
	return out
}

// AggregateProgress summarizes the execution state of a whole sequence.
type AggregateProgress struct {
	MeanProgress  float64
	Completed     int
	Total         int
	FullyComplete bool
}

// ComputeProgress projects the aggregate progress of the given steps.
func ComputeProgress(steps []Step) AggregateProgress {
	var (
		sum       float64
		completed int
	)
	for _, s := range steps {
		sum += s.Progress
		if s.Status == StatusCompleted {
			completed++
		}
	}

	p := AggregateProgress{
		Completed: completed,
		Total:     len(steps),
	}
	if len(steps) > 0 {
		p.MeanProgress = sum / float64(len(steps))
	}
	p.FullyComplete = p.Total > 0 && p.Completed == p.Total
	return p
}
