package blockflow

import (
	"context"
	"time"

	"github.com/petrijr/blockflow/internal/catalog"
	"github.com/petrijr/blockflow/internal/clock"
	"github.com/petrijr/blockflow/internal/drag"
	"github.com/petrijr/blockflow/internal/engine"
	"github.com/petrijr/blockflow/internal/sequence"
	"github.com/petrijr/blockflow/pkg/api"
)

// Options configures a Workbench. Zero values select defaults.
type Options struct {
	// Catalog defaults to DefaultCatalog().
	Catalog *Catalog

	// Clock defaults to the wall clock. Tests pass a virtual clock.
	Clock Clock

	Observer Observer

	// TickInterval defaults to 200ms.
	TickInterval time.Duration
}

// Workbench is the core a host UI drives: the palette, the step sequence,
// the drag session and the execution engine behind one gesture-level API.
//
// It is safe for concurrent use.
type Workbench struct {
	catalog  *catalog.Catalog
	store    *sequence.Store
	drag     *drag.Manager
	engine   *engine.Engine
	observer api.Observer
}

var _ api.Workbench = (*Workbench)(nil)

// NewWorkbench creates an empty Workbench.
func NewWorkbench(opts Options) *Workbench {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Observer == nil {
		opts.Observer = api.NoopObserver{}
	}

	store := sequence.New()
	return &Workbench{
		catalog: opts.Catalog,
		store:   store,
		drag:    drag.NewManager(store),
		engine: engine.New(engine.Config{
			Store:        store,
			Clock:        opts.Clock,
			Observer:     opts.Observer,
			TickInterval: opts.TickInterval,
		}),
		observer: opts.Observer,
	}
}

// Templates returns the palette in display order.
func (w *Workbench) Templates() []Template {
	return w.catalog.Templates()
}

// Add appends a step of the given kind without a drag gesture.
func (w *Workbench) Add(kind string) (Step, error) {
	t, err := w.catalog.Lookup(kind)
	if err != nil {
		return Step{}, err
	}
	step := w.store.Append(t)
	w.observer.OnStepAdded(context.Background(), step)
	return step, nil
}

// DragStartFromCatalog opens a drag of a new step of the given kind.
func (w *Workbench) DragStartFromCatalog(kind string) error {
	t, err := w.catalog.Lookup(kind)
	if err != nil {
		return err
	}
	w.drag.BeginFromCatalog(t)
	return nil
}

// DragStartFromSequence opens a reorder drag of an existing step.
func (w *Workbench) DragStartFromSequence(stepID string) bool {
	step, ok := w.store.Get(stepID)
	if !ok {
		return false
	}
	w.drag.BeginFromSequence(step)
	return true
}

func (w *Workbench) DragEnterCanvas() DropEffect {
	return w.drag.CanvasEnter()
}

func (w *Workbench) DragOverCanvas() DropEffect {
	return w.drag.CanvasOver()
}

func (w *Workbench) DragLeaveCanvas(leftCanvasItself bool) {
	w.drag.CanvasLeave(leftCanvasItself)
}

// DropOnCanvas appends a new step when a catalog drag is dropped on the
// canvas.
func (w *Workbench) DropOnCanvas() (Step, bool) {
	step, ok := w.drag.CanvasDrop()
	if ok {
		w.observer.OnStepAdded(context.Background(), step)
	}
	return step, ok
}

func (w *Workbench) DragEnterItem(targetID string) {
	w.drag.ItemEnter(targetID)
}

func (w *Workbench) DragLeaveItem(targetID string) {
	w.drag.ItemLeave(targetID)
}

// DropOnItem moves the dragged step immediately before targetID.
func (w *Workbench) DropOnItem(targetID string) bool {
	moved, ok := w.drag.ItemDrop(targetID)
	if !ok {
		return false
	}

	if step, ok := w.store.Get(moved); ok {
		w.observer.OnStepMoved(context.Background(), step, w.store.IndexOf(moved))
	}
	return true
}

// DragEnd closes the drag session. Hosts call it once per gesture whether or
// not a drop happened; extra calls are harmless.
func (w *Workbench) DragEnd() {
	w.drag.End()
}

// Remove deletes a step. A running step's timer is cancelled before Remove
// returns.
func (w *Workbench) Remove(ctx context.Context, id string) bool {
	step, ok := w.store.Remove(id)
	if !ok {
		return false
	}
	// Drop a highlight pointing at the removed step.
	w.drag.ItemLeave(id)

	w.observer.OnStepRemoved(ctx, step)
	return true
}

// ToggleRun starts, pauses, resumes or resets a step depending on its status.
func (w *Workbench) ToggleRun(ctx context.Context, id string) bool {
	return w.engine.Toggle(ctx, id)
}

// Fail marks a step as failed. Nothing in the simulation calls it; it is the
// hook for an external execution backend.
func (w *Workbench) Fail(ctx context.Context, id, reason string) bool {
	return w.engine.Fail(ctx, id, reason)
}

// EditDescription replaces a step's description. Empty text is allowed.
func (w *Workbench) EditDescription(id, text string) bool {
	return w.store.UpdateDescription(id, text)
}

// SetRunnable marks a step as eligible or ineligible for execution.
func (w *Workbench) SetRunnable(id string, runnable bool) bool {
	return w.store.SetRunnable(id, runnable)
}

// RunAll runs every pending or failed step in order, one at a time.
func (w *Workbench) RunAll(ctx context.Context) error {
	return w.engine.RunAll(ctx)
}

// Step returns one step by id.
func (w *Workbench) Step(id string) (Step, bool) {
	return w.store.Get(id)
}

// Steps returns the sequence in order.
func (w *Workbench) Steps() []Step {
	return w.store.Snapshot()
}

// Drag returns the current drag session view.
func (w *Workbench) Drag() DragState {
	return w.drag.State()
}

// Progress returns the aggregate progress of the sequence.
func (w *Workbench) Progress() AggregateProgress {
	return w.engine.AggregateProgress()
}

// Subscribe returns a channel signalled after every change to the sequence,
// suitable for driving re-renders. Signals coalesce. Call the returned func
// to unsubscribe.
func (w *Workbench) Subscribe() (<-chan struct{}, func()) {
	return w.store.Subscribe()
}

// Close cancels every running timer. The Workbench must not be used
// afterwards.
func (w *Workbench) Close() {
	w.drag.End()
	w.engine.Close()
}
