// Package journal keeps an append-only history of step events for audit and
// debugging. The history is write-mostly: nothing in the workbench reads it
// back to rebuild state.
package journal

import (
	"context"
	"sync"

	"github.com/petrijr/blockflow/pkg/api"
)

// Store is an append-only history store for step events.
type Store interface {
	AppendEvent(ctx context.Context, ev api.StepEvent) error

	// ListEvents returns the events of one step in append order.
	ListEvents(ctx context.Context, stepID string) ([]api.StepEvent, error)

	// ListAll returns every event in append order.
	ListAll(ctx context.Context) ([]api.StepEvent, error)
}

// NoopStore discards all events.
type NoopStore struct{}

func (NoopStore) AppendEvent(ctx context.Context, ev api.StepEvent) error { return nil }
func (NoopStore) ListEvents(ctx context.Context, stepID string) ([]api.StepEvent, error) {
	return nil, nil
}
func (NoopStore) ListAll(ctx context.Context) ([]api.StepEvent, error) { return nil, nil }

// MemoryStore is a goroutine-safe Store backed by a slice.
type MemoryStore struct {
	mu     sync.RWMutex
	events []api.StepEvent
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Ensure the stores implement the interface.
var (
	_ Store = NoopStore{}
	_ Store = (*MemoryStore)(nil)
)

func (s *MemoryStore) AppendEvent(ctx context.Context, ev api.StepEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, ev)
	return nil
}

func (s *MemoryStore) ListEvents(ctx context.Context, stepID string) ([]api.StepEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []api.StepEvent
	for _, ev := range s.events {
		if ev.StepID == stepID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListAll(ctx context.Context) ([]api.StepEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]api.StepEvent, len(s.events))
	copy(out, s.events)
	return out, nil
}
