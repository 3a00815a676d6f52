package journal

import (
	"context"
	"log/slog"
	"time"

	"github.com/petrijr/blockflow/pkg/api"
)

// Observer records step lifecycle callbacks into a Store.
//
// Append failures are logged and otherwise ignored; losing a history line
// must never interfere with the workbench.
type Observer struct {
	Store  Store
	Logger *slog.Logger

	// Now stamps events; defaults to time.Now.
	Now func() time.Time
}

// NewObserver creates an Observer writing into store.
func NewObserver(store Store, logger *slog.Logger) *Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Observer{Store: store, Logger: logger, Now: time.Now}
}

var _ api.Observer = (*Observer)(nil)

func (o *Observer) OnStepAdded(ctx context.Context, step api.Step) {
	o.append(ctx, step, api.EventStepAdded, -1, step.Label)
}

func (o *Observer) OnStepMoved(ctx context.Context, step api.Step, index int) {
	o.append(ctx, step, api.EventStepMoved, index, "")
}

func (o *Observer) OnStepRemoved(ctx context.Context, step api.Step) {
	o.append(ctx, step, api.EventStepRemoved, -1, string(step.Status))
}

func (o *Observer) OnStepStarted(ctx context.Context, step api.Step) {
	o.append(ctx, step, api.EventStepStarted, -1, "")
}

func (o *Observer) OnStepPaused(ctx context.Context, step api.Step) {
	o.append(ctx, step, api.EventStepPaused, -1, "")
}

func (o *Observer) OnStepCompleted(ctx context.Context, step api.Step, d time.Duration) {
	o.append(ctx, step, api.EventStepCompleted, -1, d.String())
}

func (o *Observer) OnStepReset(ctx context.Context, step api.Step) {
	o.append(ctx, step, api.EventStepReset, -1, "")
}

func (o *Observer) OnStepFailed(ctx context.Context, step api.Step, reason string) {
	o.append(ctx, step, api.EventStepFailed, -1, reason)
}

func (o *Observer) append(ctx context.Context, step api.Step, typ api.EventType, position int, detail string) {
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}

	ev := api.StepEvent{
		StepID:   step.ID,
		At:       now(),
		Type:     typ,
		Kind:     step.Kind,
		Position: position,
		Detail:   detail,
	}
	if err := o.Store.AppendEvent(ctx, ev); err != nil && o.Logger != nil {
		o.Logger.WarnContext(ctx, "journal_append_failed",
			slog.String("step_id", step.ID),
			slog.String("type", string(typ)),
			slog.Any("error", err),
		)
	}
}
