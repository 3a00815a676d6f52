package blockflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/petrijr/blockflow/internal/gesture"
	"github.com/petrijr/blockflow/pkg/dispatch"
)

// RunnerOptions configures a LocalRunner.
type RunnerOptions struct {
	Options

	// QueueCapacity bounds the number of gestures waiting to be applied.
	// Defaults to 1024.
	QueueCapacity int

	// Logger receives dispatch errors. Defaults to slog.Default().
	Logger *slog.Logger
}

// LocalRunner bundles a Workbench, an in-memory gesture queue and a
// Dispatcher, so a host can post gestures from any goroutine and have them
// applied one at a time in arrival order.
//
// Typical usage:
//
//	runner := blockflow.NewLocalRunner(blockflow.RunnerOptions{})
//	_ = runner.Start(ctx)
//	_ = runner.Send(ctx, blockflow.Gesture{Type: blockflow.GestureDragStartCatalog, Kind: "CENTRIFUGE"})
//	...
//	runner.Stop()
type LocalRunner struct {
	// Workbench is the state the gestures are applied to. Reading from it
	// directly is safe at any time.
	Workbench *Workbench

	// Queue holds gestures waiting for the dispatcher.
	Queue gesture.Queue

	// Dispatcher applies queued gestures to Workbench.
	Dispatcher *dispatch.Dispatcher

	logger *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewLocalRunner constructs a LocalRunner with a fresh Workbench.
func NewLocalRunner(opts RunnerOptions) *LocalRunner {
	if opts.QueueCapacity <= 0 {
		opts.QueueCapacity = 1024
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	wb := NewWorkbench(opts.Options)
	q := gesture.NewInMemoryQueue(opts.QueueCapacity)

	return &LocalRunner{
		Workbench:  wb,
		Queue:      q,
		Dispatcher: dispatch.New(wb, q, opts.Logger),
		logger:     opts.Logger,
	}
}

// Start launches the dispatch loop. A single loop keeps gestures strictly
// ordered. Calling Start twice without Stop returns an error.
func (r *LocalRunner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return errors.New("blockflow: LocalRunner already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		for {
			processed, err := r.Dispatcher.ProcessOne(ctx)
			if err != nil {
				// Cancellation is a clean shutdown.
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return
				}
				// A bad gesture must not kill the loop.
				r.logger.WarnContext(ctx, "gesture_rejected", slog.Any("error", err))
				continue
			}
			if !processed {
				continue
			}
		}
	}()

	return nil
}

// Stop cancels the dispatch loop and any RunAll it started, then waits for
// them to exit. Steps already running keep running until the Workbench is
// closed.
func (r *LocalRunner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	cancel := r.cancel
	r.running = false
	r.cancel = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
	r.Dispatcher.Wait()
}

// Close stops the runner and the Workbench timers.
func (r *LocalRunner) Close() {
	r.Stop()
	r.Workbench.Close()
}

// Send queues a gesture for the dispatch loop.
func (r *LocalRunner) Send(ctx context.Context, g Gesture) error {
	return r.Dispatcher.Enqueue(ctx, g)
}
