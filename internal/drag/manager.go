// Package drag implements the drag-and-drop session state machine that
// turns raw drag gestures into sequence mutations.
//
// There are two drop surfaces. The canvas accepts new steps dragged from the
// catalog; individual steps accept reorder drops of other steps. A session
// is tagged with where the drag started, which is what resolves a drop into
// either an append or a move.
package drag

import (
	"sync"

	"github.com/petrijr/blockflow/pkg/api"
)

// Sequence is the subset of the step store the manager mutates on drop.
type Sequence interface {
	Append(t api.Template) api.Step
	MoveBefore(sourceID, targetID string) bool
}

type session struct {
	source   api.DragSource
	template api.Template
	step     api.Step

	hoverTargetID string
	overCanvas    bool
}

// Manager tracks at most one in-flight drag session.
type Manager struct {
	mu  sync.Mutex
	seq Sequence
	cur *session
}

// NewManager creates a Manager that applies drops to seq.
func NewManager(seq Sequence) *Manager {
	return &Manager{seq: seq}
}

// BeginFromCatalog opens a session dragging a new step of template t.
// Any session already in flight is replaced.
func (m *Manager) BeginFromCatalog(t api.Template) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cur = &session{source: api.DragFromCatalog, template: t}
}

// BeginFromSequence opens a session reordering an existing step.
// Any session already in flight is replaced.
func (m *Manager) BeginFromSequence(step api.Step) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cur = &session{source: api.DragFromSequence, step: step}
}

// CanvasEnter marks the pointer as over the canvas and returns the drop
// effect the host should advertise.
func (m *Manager) CanvasEnter() api.DropEffect {
	return m.canvasHover()
}

// CanvasOver is CanvasEnter for the repeated dragover event.
func (m *Manager) CanvasOver() api.DropEffect {
	return m.canvasHover()
}

func (m *Manager) canvasHover() api.DropEffect {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cur == nil {
		return api.DropEffectNone
	}
	m.cur.overCanvas = true
	if m.cur.source == api.DragFromCatalog {
		return api.DropEffectCopy
	}
	return api.DropEffectMove
}

// CanvasLeave clears the over-canvas flag, but only when the leave event was
// raised by the canvas surface itself. Leave events bubbling up from nested
// children fire whenever the pointer crosses a child boundary and are
// ignored.
func (m *Manager) CanvasLeave(leftCanvasItself bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cur == nil || !leftCanvasItself {
		return
	}
	m.cur.overCanvas = false
}

// CanvasDrop resolves a drop on the bare canvas. Catalog drags append a new
// step; sequence drags are ignored here because reorders only resolve on
// item targets.
func (m *Manager) CanvasDrop() (api.Step, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cur == nil {
		return api.Step{}, false
	}
	m.cur.overCanvas = false

	if m.cur.source != api.DragFromCatalog {
		return api.Step{}, false
	}
	return m.seq.Append(m.cur.template), true
}

// ItemEnter highlights targetID as the reorder target.
func (m *Manager) ItemEnter(targetID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cur == nil || m.cur.source != api.DragFromSequence || m.cur.step.ID == targetID {
		return
	}
	m.cur.hoverTargetID = targetID
}

// ItemLeave clears the hover target if it is still targetID. A late leave
// from a previous target must not clear a newer one.
func (m *Manager) ItemLeave(targetID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cur == nil || m.cur.hoverTargetID != targetID {
		return
	}
	m.cur.hoverTargetID = ""
}

// ItemDrop resolves a drop on a step. Only sequence drags are accepted; the
// dragged step is moved immediately before targetID using the sequence as it
// is now, not as it was when the drag began. It returns the id of the step
// that moved.
func (m *Manager) ItemDrop(targetID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cur == nil || m.cur.source != api.DragFromSequence {
		return "", false
	}
	m.cur.hoverTargetID = ""

	moved := m.cur.step.ID
	if moved == targetID || !m.seq.MoveBefore(moved, targetID) {
		return "", false
	}
	return moved, true
}

// End closes the session. It is safe to call any number of times.
func (m *Manager) End() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cur = nil
}

// State returns the current session view.
func (m *Manager) State() api.DragState {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cur == nil {
		return api.DragState{}
	}

	st := api.DragState{
		Active:        true,
		Source:        m.cur.source,
		HoverTargetID: m.cur.hoverTargetID,
		OverCanvas:    m.cur.overCanvas,
	}
	switch m.cur.source {
	case api.DragFromCatalog:
		st.Kind = m.cur.template.Kind
	case api.DragFromSequence:
		st.Kind = m.cur.step.Kind
		st.DraggedID = m.cur.step.ID
	}
	return st
}
