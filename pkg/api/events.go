package api

import "time"

// EventType identifies a step history event.
type EventType string

const (
	EventStepAdded     EventType = "step.added"
	EventStepMoved     EventType = "step.moved"
	EventStepRemoved   EventType = "step.removed"
	EventStepStarted   EventType = "step.started"
	EventStepPaused    EventType = "step.paused"
	EventStepCompleted EventType = "step.completed"
	EventStepReset     EventType = "step.reset"
	EventStepFailed    EventType = "step.failed"
)

// StepEvent is a minimal append-only history record for audit/debugging.
type StepEvent struct {
	StepID string
	At     time.Time
	Type   EventType

	Kind string

	// Position is the 0-based index of the step in the sequence when the
	// event was recorded, or -1 when unknown.
	Position int

	// Small, human-oriented details (e.g. failure reason, duration).
	Detail string
}
