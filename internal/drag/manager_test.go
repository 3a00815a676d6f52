package drag

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/petrijr/blockflow/internal/sequence"
	"github.com/petrijr/blockflow/pkg/api"
)

var prep = api.Template{
	Kind:              "SAMPLE_PREP",
	Label:             "Sample Preparation",
	Description:       "Prepare samples",
	EstimatedDuration: 10 * time.Second,
}

func newFixture(t *testing.T, n int) (*Manager, *sequence.Store, []api.Step) {
	t.Helper()

	store := sequence.New()
	steps := make([]api.Step, 0, n)
	for i := 0; i < n; i++ {
		steps = append(steps, store.Append(prep))
	}
	return NewManager(store), store, steps
}

func ids(store *sequence.Store) []string {
	snap := store.Snapshot()
	out := make([]string, len(snap))
	for i, s := range snap {
		out[i] = s.ID
	}
	return out
}

func TestCatalogDrag_AppendsOnCanvasDrop(t *testing.T) {
	m, store, _ := newFixture(t, 0)

	m.BeginFromCatalog(prep)
	require.Equal(t, api.DropEffectCopy, m.CanvasEnter())
	require.Equal(t, api.DropEffectCopy, m.CanvasOver())
	require.True(t, m.State().OverCanvas)

	step, ok := m.CanvasDrop()
	require.True(t, ok)
	require.Equal(t, "SAMPLE_PREP", step.Kind)
	require.Equal(t, 1, store.Len())
	require.False(t, m.State().OverCanvas)

	m.End()
	require.Equal(t, api.DragState{}, m.State())
}

func TestCatalogDrag_RejectedOnItems(t *testing.T) {
	m, store, steps := newFixture(t, 2)
	before := ids(store)

	m.BeginFromCatalog(prep)
	m.ItemEnter(steps[0].ID)
	require.Empty(t, m.State().HoverTargetID)

	require.False(t, dropped(m, steps[0].ID))
	require.Equal(t, before, ids(store))
	m.End()
}

func TestSequenceDrag_CanvasDropIsNoop(t *testing.T) {
	m, store, steps := newFixture(t, 2)
	before := ids(store)

	m.BeginFromSequence(steps[1])
	require.Equal(t, api.DropEffectMove, m.CanvasEnter())

	_, ok := m.CanvasDrop()
	require.False(t, ok)
	require.False(t, m.State().OverCanvas)
	require.Equal(t, before, ids(store))
}

func TestSequenceDrag_ReorderOnItemDrop(t *testing.T) {
	m, store, steps := newFixture(t, 3) // A B C

	m.BeginFromSequence(steps[2])
	st := m.State()
	require.True(t, st.Active)
	require.Equal(t, api.DragFromSequence, st.Source)
	require.Equal(t, steps[2].ID, st.DraggedID)

	m.ItemEnter(steps[0].ID)
	require.Equal(t, steps[0].ID, m.State().HoverTargetID)

	moved, ok := m.ItemDrop(steps[0].ID)
	require.True(t, ok)
	require.Equal(t, steps[2].ID, moved)
	require.Empty(t, m.State().HoverTargetID)
	require.Equal(t, []string{steps[2].ID, steps[0].ID, steps[1].ID}, ids(store))

	m.End()
	m.End()
	require.False(t, m.State().Active)
}

func TestSequenceDrag_DropOnSelf(t *testing.T) {
	m, store, steps := newFixture(t, 2)
	before := ids(store)

	m.BeginFromSequence(steps[0])
	m.ItemEnter(steps[0].ID)
	require.Empty(t, m.State().HoverTargetID, "hovering self is not a target")

	require.False(t, dropped(m, steps[0].ID))
	require.Equal(t, before, ids(store))
}

func TestSequenceDrag_TargetRemovedMidDrag(t *testing.T) {
	m, store, steps := newFixture(t, 3)

	m.BeginFromSequence(steps[0])
	m.ItemEnter(steps[2].ID)
	store.Remove(steps[2].ID)

	require.False(t, dropped(m, steps[2].ID))
	require.Empty(t, m.State().HoverTargetID)
	require.Equal(t, []string{steps[0].ID, steps[1].ID}, ids(store))
}

func TestItemLeave_OnlyClearsMatchingTarget(t *testing.T) {
	m, _, steps := newFixture(t, 3)

	m.BeginFromSequence(steps[0])
	m.ItemEnter(steps[1].ID)
	m.ItemEnter(steps[2].ID)

	// Late leave from the previous target.
	m.ItemLeave(steps[1].ID)
	require.Equal(t, steps[2].ID, m.State().HoverTargetID)

	m.ItemLeave(steps[2].ID)
	require.Empty(t, m.State().HoverTargetID)
}

func TestCanvasLeave_IgnoresBubbledChildLeave(t *testing.T) {
	m, _, _ := newFixture(t, 0)

	m.BeginFromCatalog(prep)
	m.CanvasEnter()

	m.CanvasLeave(false)
	require.True(t, m.State().OverCanvas)

	m.CanvasLeave(true)
	require.False(t, m.State().OverCanvas)
}

func TestBegin_ReplacesExistingSession(t *testing.T) {
	m, _, steps := newFixture(t, 2)

	m.BeginFromSequence(steps[0])
	m.ItemEnter(steps[1].ID)
	m.CanvasEnter()

	m.BeginFromCatalog(prep)
	st := m.State()
	require.Equal(t, api.DragFromCatalog, st.Source)
	require.Empty(t, st.HoverTargetID)
	require.Empty(t, st.DraggedID)
	require.False(t, st.OverCanvas)
	require.Equal(t, "SAMPLE_PREP", st.Kind)
}

func TestGesturesWithoutSession(t *testing.T) {
	m, store, steps := newFixture(t, 1)

	require.Equal(t, api.DropEffectNone, m.CanvasEnter())
	m.CanvasLeave(true)
	m.ItemEnter(steps[0].ID)
	m.ItemLeave(steps[0].ID)

	_, ok := m.CanvasDrop()
	require.False(t, ok)
	require.False(t, dropped(m, steps[0].ID))
	m.End()

	require.Equal(t, 1, store.Len())
	require.Equal(t, api.DragState{}, m.State())
}

func dropped(m *Manager, targetID string) bool {
	_, ok := m.ItemDrop(targetID)
	return ok
}

func TestItemDrop_ReportsStepHeldBySession(t *testing.T) {
	m, store, steps := newFixture(t, 3)

	m.BeginFromSequence(steps[1])
	// A new drag replaces the session before the drop lands.
	m.BeginFromSequence(steps[2])

	moved, ok := m.ItemDrop(steps[0].ID)
	require.True(t, ok)
	require.Equal(t, steps[2].ID, moved)
	require.Equal(t, []string{steps[2].ID, steps[0].ID, steps[1].ID}, ids(store))
}
