// Package sequence holds the ordered list of steps on the canvas. It is the
// single source of truth for step data; every other component reads and
// mutates steps through a Store.
package sequence

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/petrijr/blockflow/pkg/api"
)

// StatusPatch describes an execution-state update applied by the engine.
// Nil fields are left untouched.
type StatusPatch struct {
	Status   *api.Status
	Progress *float64

	ActualDuration      *time.Duration
	ClearActualDuration bool

	// Log entries are appended, or replace the whole log when ReplaceLog
	// is set.
	Log        []api.LogEntry
	ReplaceLog bool
}

// Store is a goroutine-safe ordered sequence of steps with publish-on-mutation
// change notifications.
type Store struct {
	mu    sync.RWMutex
	steps []api.Step

	subMu   sync.Mutex
	nextSub int
	subs    map[int]chan struct{}

	hookMu      sync.RWMutex
	removeHooks []func(api.Step)
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		subs: make(map[int]chan struct{}),
	}
}

// Append creates a pending step from t and adds it to the end of the
// sequence.
func (s *Store) Append(t api.Template) api.Step {
	step := api.Step{
		ID:                newID(),
		Kind:              t.Kind,
		Label:             t.Label,
		Icon:              t.Icon,
		Color:             t.Color,
		Description:       t.Description,
		Status:            api.StatusPending,
		Progress:          0,
		EstimatedDuration: t.EstimatedDuration,
		Log:               []api.LogEntry{},
		Runnable:          true,
	}

	s.mu.Lock()
	s.steps = append(s.steps, step)
	s.mu.Unlock()

	s.notify()
	return step.Clone()
}

// MoveBefore moves the step sourceID so it sits immediately before targetID.
// The target position is looked up after the source has been taken out, so
// the result is the same whether the source started above or below the
// target. It reports false and leaves the sequence untouched when the ids
// are equal or either one is absent.
func (s *Store) MoveBefore(sourceID, targetID string) bool {
	if sourceID == targetID {
		return false
	}

	s.mu.Lock()
	src := s.indexLocked(sourceID)
	if src < 0 || s.indexLocked(targetID) < 0 {
		s.mu.Unlock()
		return false
	}

	moving := s.steps[src]
	s.steps = append(s.steps[:src], s.steps[src+1:]...)

	dst := s.indexLocked(targetID)
	s.steps = append(s.steps, api.Step{})
	copy(s.steps[dst+1:], s.steps[dst:])
	s.steps[dst] = moving
	s.mu.Unlock()

	s.notify()
	return true
}

// Remove deletes the step with the given id. Removal hooks run before Remove
// returns, so any timer owned by the step is gone by then.
func (s *Store) Remove(id string) (api.Step, bool) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return api.Step{}, false
	}
	removed := s.steps[i]
	s.steps = append(s.steps[:i], s.steps[i+1:]...)
	s.mu.Unlock()

	s.hookMu.RLock()
	hooks := s.removeHooks
	s.hookMu.RUnlock()
	for _, h := range hooks {
		h(removed.Clone())
	}

	s.notify()
	return removed, true
}

// UpdateDescription replaces the description of a step. Any text, including
// the empty string, is accepted.
func (s *Store) UpdateDescription(id, text string) bool {
	return s.mutate(id, func(st *api.Step) {
		st.Description = text
	})
}

// SetRunnable toggles the execution eligibility of a step.
func (s *Store) SetRunnable(id string, runnable bool) bool {
	return s.mutate(id, func(st *api.Step) {
		st.Runnable = runnable
	})
}

// UpdateStatus merges an execution-state patch into a step.
func (s *Store) UpdateStatus(id string, patch StatusPatch) bool {
	return s.mutate(id, func(st *api.Step) {
		if patch.Status != nil {
			st.Status = *patch.Status
		}
		if patch.Progress != nil {
			st.Progress = *patch.Progress
		}
		if patch.ClearActualDuration {
			st.ActualDuration = nil
		}
		if patch.ActualDuration != nil {
			d := *patch.ActualDuration
			st.ActualDuration = &d
		}
		if patch.ReplaceLog {
			st.Log = make([]api.LogEntry, 0, len(patch.Log))
		}
		st.Log = append(st.Log, patch.Log...)
	})
}

// Get returns a copy of the step with the given id.
func (s *Store) Get(id string) (api.Step, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return api.Step{}, false
	}
	return s.steps[i].Clone(), true
}

// IndexOf returns the position of the step, or -1.
func (s *Store) IndexOf(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(id)
}

// Snapshot returns a deep copy of the sequence in order.
func (s *Store) Snapshot() []api.Step {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]api.Step, len(s.steps))
	for i, st := range s.steps {
		out[i] = st.Clone()
	}
	return out
}

// Len returns the number of steps.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.steps)
}

// Subscribe returns a channel that receives a value after every mutation.
// Notifications coalesce: a slow reader sees at most one pending signal and
// should re-read the store when it wakes. The returned func unsubscribes.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// OnRemove registers a hook invoked synchronously for every removed step.
func (s *Store) OnRemove(fn func(api.Step)) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.removeHooks = append(s.removeHooks, fn)
}

func (s *Store) mutate(id string, fn func(*api.Step)) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	fn(&s.steps[i])
	s.mu.Unlock()

	s.notify()
	return true
}

func (s *Store) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *Store) indexLocked(id string) int {
	for i := range s.steps {
		if s.steps[i].ID == id {
			return i
		}
	}
	return -1
}

// newID returns a time-ordered unique step id.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
