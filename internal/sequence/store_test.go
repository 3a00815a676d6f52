package sequence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/petrijr/blockflow/pkg/api"
)

var testTemplate = api.Template{
	Kind:              "SAMPLE_PREP",
	Label:             "Sample Preparation",
	Icon:              "flask",
	Color:             "blue",
	Description:       "Prepare samples",
	EstimatedDuration: 10 * time.Second,
}

// seed appends n steps and returns their ids in order.
func seed(t *testing.T, s *Store, n int) []string {
	t.Helper()

	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, s.Append(testTemplate).ID)
	}
	return ids
}

func order(s *Store) []string {
	snap := s.Snapshot()
	ids := make([]string, len(snap))
	for i, st := range snap {
		ids[i] = st.ID
	}
	return ids
}

func TestAppend_NewPendingStep(t *testing.T) {
	s := New()

	for i := 1; i <= 3; i++ {
		step := s.Append(testTemplate)
		require.Equal(t, i, s.Len())

		require.NotEmpty(t, step.ID)
		require.Equal(t, api.StatusPending, step.Status)
		require.Zero(t, step.Progress)
		require.Empty(t, step.Log)
		require.Nil(t, step.ActualDuration)
		require.True(t, step.Runnable)
		require.Equal(t, testTemplate.Kind, step.Kind)
		require.Equal(t, testTemplate.Description, step.Description)
		require.Equal(t, testTemplate.EstimatedDuration, step.EstimatedDuration)

		last := s.Snapshot()[s.Len()-1]
		require.Equal(t, step.ID, last.ID)
	}
}

func TestAppend_UniqueTimeOrderedIDs(t *testing.T) {
	s := New()
	ids := seed(t, s, 50)

	seen := make(map[string]bool, len(ids))
	for i, id := range ids {
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
		if i > 0 {
			require.Less(t, ids[i-1], id, "ids must sort in creation order")
		}
	}
}

func TestMoveBefore_AllPairs(t *testing.T) {
	const n = 5

	for src := 0; src < n; src++ {
		for dst := 0; dst < n; dst++ {
			if src == dst {
				continue
			}

			s := New()
			ids := seed(t, s, n)

			require.True(t, s.MoveBefore(ids[src], ids[dst]))

			got := order(s)
			require.ElementsMatch(t, ids, got)
			require.Len(t, got, n)

			si := s.IndexOf(ids[src])
			di := s.IndexOf(ids[dst])
			require.Equal(t, di-1, si, "source %d must end immediately before target %d: %v", src, dst, got)

			// Everything else keeps its relative order.
			var rest, restGot []string
			for _, id := range ids {
				if id != ids[src] {
					rest = append(rest, id)
				}
			}
			for _, id := range got {
				if id != ids[src] {
					restGot = append(restGot, id)
				}
			}
			require.Equal(t, rest, restGot)
		}
	}
}

func TestMoveBefore_DownwardUsesTargetPositionAfterRemoval(t *testing.T) {
	s := New()
	ids := seed(t, s, 4) // A B C D

	require.True(t, s.MoveBefore(ids[0], ids[2]))
	require.Equal(t, []string{ids[1], ids[0], ids[2], ids[3]}, order(s))
}

func TestMoveBefore_NoOps(t *testing.T) {
	s := New()
	ids := seed(t, s, 3)
	before := s.Snapshot()

	require.False(t, s.MoveBefore(ids[1], ids[1]))
	require.False(t, s.MoveBefore("missing", ids[1]))
	require.False(t, s.MoveBefore(ids[1], "missing"))

	require.Equal(t, before, s.Snapshot())
}

func TestMoveBefore_SeesIntermediateRemovals(t *testing.T) {
	s := New()
	ids := seed(t, s, 5) // A B C D E

	// The drag of E began when C was at index 2; B is removed mid-drag.
	_, ok := s.Remove(ids[1])
	require.True(t, ok)

	require.True(t, s.MoveBefore(ids[4], ids[2]))
	require.Equal(t, []string{ids[0], ids[4], ids[2], ids[3]}, order(s))
}

func TestRemove_RunsHooksBeforeReturning(t *testing.T) {
	s := New()
	ids := seed(t, s, 2)

	var hooked []string
	s.OnRemove(func(st api.Step) {
		hooked = append(hooked, st.ID)
		_, still := s.Get(st.ID)
		require.False(t, still, "step must be gone when hook runs")
	})

	removed, ok := s.Remove(ids[0])
	require.True(t, ok)
	require.Equal(t, ids[0], removed.ID)
	require.Equal(t, []string{ids[0]}, hooked)
	require.Equal(t, []string{ids[1]}, order(s))

	_, ok = s.Remove(ids[0])
	require.False(t, ok)
	require.Len(t, hooked, 1)
}

func TestUpdateDescription(t *testing.T) {
	s := New()
	ids := seed(t, s, 1)

	require.True(t, s.UpdateDescription(ids[0], ""))
	st, _ := s.Get(ids[0])
	require.Equal(t, "", st.Description)

	require.True(t, s.UpdateDescription(ids[0], "spin at 4000 rpm"))
	st, _ = s.Get(ids[0])
	require.Equal(t, "spin at 4000 rpm", st.Description)

	require.False(t, s.UpdateDescription("missing", "x"))
}

func TestUpdateStatus_MergesPatch(t *testing.T) {
	s := New()
	ids := seed(t, s, 1)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	running := api.StatusRunning
	progress := 42.0
	require.True(t, s.UpdateStatus(ids[0], StatusPatch{
		Status:   &running,
		Progress: &progress,
		Log:      []api.LogEntry{{At: at, Message: "started"}},
	}))

	completed := api.StatusCompleted
	full := 100.0
	d := 7 * time.Second
	require.True(t, s.UpdateStatus(ids[0], StatusPatch{
		Status:         &completed,
		Progress:       &full,
		ActualDuration: &d,
		Log:            []api.LogEntry{{At: at.Add(d), Message: "completed"}},
	}))

	st, _ := s.Get(ids[0])
	require.Equal(t, api.StatusCompleted, st.Status)
	require.Equal(t, 100.0, st.Progress)
	require.NotNil(t, st.ActualDuration)
	require.Equal(t, d, *st.ActualDuration)
	require.Len(t, st.Log, 2)

	pending := api.StatusPending
	zero := 0.0
	require.True(t, s.UpdateStatus(ids[0], StatusPatch{
		Status:              &pending,
		Progress:            &zero,
		ClearActualDuration: true,
		ReplaceLog:          true,
		Log:                 []api.LogEntry{{At: at, Message: "reset"}},
	}))

	st, _ = s.Get(ids[0])
	require.Nil(t, st.ActualDuration)
	require.Equal(t, []api.LogEntry{{At: at, Message: "reset"}}, st.Log)
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	s := New()
	ids := seed(t, s, 1)
	s.UpdateStatus(ids[0], StatusPatch{Log: []api.LogEntry{{Message: "one"}}})

	snap := s.Snapshot()
	snap[0].Log[0].Message = "mutated"
	snap[0].Description = "mutated"

	st, _ := s.Get(ids[0])
	require.Equal(t, "one", st.Log[0].Message)
	require.Equal(t, testTemplate.Description, st.Description)
}

func TestSubscribe_CoalescesNotifications(t *testing.T) {
	s := New()
	ch, cancel := s.Subscribe()
	defer cancel()

	seed(t, s, 3)

	select {
	case <-ch:
	default:
		t.Fatalf("expected a pending notification")
	}
	select {
	case <-ch:
		t.Fatalf("notifications should coalesce")
	default:
	}

	cancel()
	seed(t, s, 1)
	select {
	case <-ch:
		t.Fatalf("no notifications after unsubscribe")
	default:
	}
}

func TestSetRunnable(t *testing.T) {
	s := New()
	ids := seed(t, s, 1)

	require.True(t, s.SetRunnable(ids[0], false))
	st, _ := s.Get(ids[0])
	require.False(t, st.Runnable)
	require.False(t, s.SetRunnable("missing", true))
}
