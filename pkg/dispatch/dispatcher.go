package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/petrijr/blockflow/internal/gesture"
	"github.com/petrijr/blockflow/pkg/api"
)

// Dispatcher pulls gestures from a Queue and applies them to a Workbench.
type Dispatcher struct {
	wb     api.Workbench
	queue  gesture.Queue
	logger *slog.Logger

	runs sync.WaitGroup
}

// New creates a new Dispatcher. If logger is nil, slog.Default() is used.
func New(wb api.Workbench, queue gesture.Queue, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		wb:     wb,
		queue:  queue,
		logger: logger,
	}
}

// Enqueue stamps and queues a gesture. It does NOT apply it; that is done
// by ProcessOne.
func (d *Dispatcher) Enqueue(ctx context.Context, g api.Gesture) error {
	if g.EnqueuedAt.IsZero() {
		g.EnqueuedAt = time.Now()
	}
	return d.queue.Enqueue(ctx, g)
}

// ProcessOne pulls a single gesture from the queue and applies it.
// Returns (processed, error):
//   - processed == false: nothing was dequeued (ctx ended first)
//   - processed == true: a gesture was consumed; err reports a gesture that
//     could not be applied at all (unknown type, unknown template kind)
//
// Gestures that do not apply to the current state are absorbed without
// error, the same way the workbench absorbs them.
func (d *Dispatcher) ProcessOne(ctx context.Context) (bool, error) {
	g, err := d.queue.Dequeue(ctx)
	if err != nil {
		return false, err
	}
	if g == nil {
		return false, nil
	}
	return true, d.apply(ctx, *g)
}

// Wait blocks until every RunAll started by this dispatcher has returned.
func (d *Dispatcher) Wait() {
	d.runs.Wait()
}

func (d *Dispatcher) apply(ctx context.Context, g api.Gesture) error {
	wb := d.wb

	switch g.Type {
	case api.GestureDragStartCatalog:
		return wb.DragStartFromCatalog(g.Kind)
	case api.GestureDragStartSequence:
		wb.DragStartFromSequence(g.StepID)
	case api.GestureDragEnterCanvas:
		wb.DragEnterCanvas()
	case api.GestureDragOverCanvas:
		wb.DragOverCanvas()
	case api.GestureDragLeaveCanvas:
		wb.DragLeaveCanvas(g.LeftCanvasItself)
	case api.GestureDropCanvas:
		wb.DropOnCanvas()
	case api.GestureDragEnterItem:
		wb.DragEnterItem(g.StepID)
	case api.GestureDragLeaveItem:
		wb.DragLeaveItem(g.StepID)
	case api.GestureDropItem:
		wb.DropOnItem(g.StepID)
	case api.GestureDragEnd:
		wb.DragEnd()
	case api.GestureRemove:
		wb.Remove(ctx, g.StepID)
	case api.GestureToggleRun:
		wb.ToggleRun(ctx, g.StepID)
	case api.GestureEditDescription:
		wb.EditDescription(g.StepID, g.Text)
	case api.GestureRunAll:
		d.runAll(ctx)
	default:
		return fmt.Errorf("unknown gesture type: %s", g.Type)
	}
	return nil
}

func (d *Dispatcher) runAll(ctx context.Context) {
	d.runs.Add(1)
	go func() {
		defer d.runs.Done()

		if err := d.wb.RunAll(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				d.logger.DebugContext(ctx, "run_all_cancelled")
				return
			}
			d.logger.ErrorContext(ctx, "run_all_failed", slog.Any("error", err))
		}
	}()
}
