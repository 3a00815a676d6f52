package api

import (
	"context"
)

// Workbench is the gesture-level API a host UI talks to.
//
// Every mutating method reports whether it changed anything; gestures that
// do not apply (unknown ids, reorder onto self, drops without a session)
// are silently absorbed and return false.
type Workbench interface {
	DragStartFromCatalog(kind string) error
	DragStartFromSequence(stepID string) bool
	DragEnterCanvas() DropEffect
	DragOverCanvas() DropEffect
	DragLeaveCanvas(leftCanvasItself bool)
	DropOnCanvas() (Step, bool)
	DragEnterItem(targetID string)
	DragLeaveItem(targetID string)
	DropOnItem(targetID string) bool
	DragEnd()

	Remove(ctx context.Context, id string) bool
	ToggleRun(ctx context.Context, id string) bool
	EditDescription(id string, text string) bool

	// RunAll runs every pending or failed step in order, one at a time.
	// It blocks until the snapshot taken at call time has been processed
	// or ctx ends.
	RunAll(ctx context.Context) error

	Steps() []Step
	Drag() DragState
	Progress() AggregateProgress
}
