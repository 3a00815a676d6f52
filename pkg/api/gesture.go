package api

import "time"

// GestureType identifies what the user did in the host UI.
type GestureType string

const (
	GestureDragStartCatalog  GestureType = "drag.start.catalog"
	GestureDragStartSequence GestureType = "drag.start.sequence"
	GestureDragEnterCanvas   GestureType = "drag.enter.canvas"
	GestureDragOverCanvas    GestureType = "drag.over.canvas"
	GestureDragLeaveCanvas   GestureType = "drag.leave.canvas"
	GestureDropCanvas        GestureType = "drop.canvas"
	GestureDragEnterItem     GestureType = "drag.enter.item"
	GestureDragLeaveItem     GestureType = "drag.leave.item"
	GestureDropItem          GestureType = "drop.item"
	GestureDragEnd           GestureType = "drag.end"
	GestureRemove            GestureType = "click.remove"
	GestureToggleRun         GestureType = "click.toggle"
	GestureRunAll            GestureType = "click.runall"
	GestureEditDescription   GestureType = "edit.description"
)

// Gesture is one discrete UI event forwarded into the core.
type Gesture struct {
	Type GestureType

	// Kind is the template kind for GestureDragStartCatalog.
	Kind string

	// StepID is the step the gesture targets: the dragged step for
	// GestureDragStartSequence, the hovered/dropped-on step for item
	// gestures, the clicked or edited step otherwise.
	StepID string

	// Text is the new description for GestureEditDescription.
	Text string

	// LeftCanvasItself is set on GestureDragLeaveCanvas when the leave
	// event's target was the canvas surface and not a nested child.
	LeftCanvasItself bool

	EnqueuedAt time.Time
}
