// Package gesture queues UI gestures so they are applied one at a time, in
// arrival order, by a single dispatcher.
package gesture

import (
	"context"

	"github.com/petrijr/blockflow/pkg/api"
)

// Queue is a FIFO of gestures.
type Queue interface {
	// Enqueue adds a gesture to the queue. It should respect ctx for cancellation.
	Enqueue(ctx context.Context, g api.Gesture) error

	// Dequeue removes and returns the next gesture, blocking until one is
	// available or the context is cancelled.
	Dequeue(ctx context.Context) (*api.Gesture, error)

	// Len returns the approximate number of gestures queued.
	Len() int
}

// InMemoryQueue is a Queue backed by a buffered channel.
// It is safe for concurrent use.
type InMemoryQueue struct {
	ch chan api.Gesture
}

// NewInMemoryQueue creates a new queue with the given capacity.
// A non-positive capacity selects a default of 256.
func NewInMemoryQueue(capacity int) *InMemoryQueue {
	if capacity <= 0 {
		capacity = 256
	}
	return &InMemoryQueue{
		ch: make(chan api.Gesture, capacity),
	}
}

// Ensure InMemoryQueue implements Queue.
var _ Queue = (*InMemoryQueue)(nil)

func (q *InMemoryQueue) Enqueue(ctx context.Context, g api.Gesture) error {
	select {
	case q.ch <- g:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *InMemoryQueue) Dequeue(ctx context.Context) (*api.Gesture, error) {
	select {
	case g := <-q.ch:
		return &g, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *InMemoryQueue) Len() int {
	return len(q.ch)
}
