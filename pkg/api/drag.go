package api

// DragSource tells where the item being dragged came from.
type DragSource string

const (
	DragFromCatalog  DragSource = "catalog"
	DragFromSequence DragSource = "sequence"
)

// DropEffect is the advisory hint a host UI shows while hovering the canvas.
type DropEffect string

const (
	DropEffectNone DropEffect = "none"
	DropEffectCopy DropEffect = "copy"
	DropEffectMove DropEffect = "move"
)

// DragState is the read-only view of the current drag session, used by hosts
// for visual highlighting only.
type DragState struct {
	Active bool
	Source DragSource

	// Kind is the template kind for catalog drags, or the dragged step's kind.
	Kind string

	// DraggedID is the id of the step being reordered. Empty for catalog drags.
	DraggedID string

	// HoverTargetID is the step currently hovered as a reorder target.
	HoverTargetID string

	OverCanvas bool
}
