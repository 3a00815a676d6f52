package engine

import (
	"context"

	"github.com/petrijr/blockflow/pkg/api"
)

// RunAll runs the steps that are PENDING or FAILED at call time, one after
// another in sequence order. Steps added after the call are not picked up.
//
// Each step is started only if it is still PENDING or FAILED; the check and
// the start happen atomically, so a step the user started, paused or removed
// in the meantime is never toggled by RunAll. RunAll then
// waits for the step to leave RUNNING (completed, paused, failed or removed)
// before moving on. Waiting is driven by store change notifications.
//
// Manual toggles are not blocked while RunAll is in flight. The only way to
// stop RunAll early is to cancel ctx.
func (e *Engine) RunAll(ctx context.Context) error {
	changes, unsubscribe := e.store.Subscribe()
	defer unsubscribe()

	var queue []string
	for _, s := range e.store.Snapshot() {
		if s.Status == api.StatusPending || s.Status == api.StatusFailed {
			queue = append(queue, s.ID)
		}
	}

	for _, id := range queue {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !e.startIfIdle(ctx, id) {
			// Gone, not runnable, or already moved on by the user. Only a
			// step that is running right now is worth waiting for.
			step, ok := e.store.Get(id)
			if !ok || step.Status != api.StatusRunning {
				continue
			}
		}

		if err := e.waitWhileRunning(ctx, id, changes); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) waitWhileRunning(ctx context.Context, id string, changes <-chan struct{}) error {
	for {
		step, ok := e.store.Get(id)
		if !ok || step.Status != api.StatusRunning {
			return nil
		}
		select {
		case <-changes:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
