// Package blockflow is the core of a visual experiment builder: a palette of
// step templates, an ordered sequence of steps the user assembles by drag and
// drop, and a simulated execution engine that runs steps on a timer.
//
// It holds no UI. A host (web view, terminal, test) translates pointer and
// click events into calls on a Workbench and re-renders from its read views.
//
// # Core Concepts
//
//  1. Catalog
//  2. Workbench
//  3. Engine
//  4. LocalRunner
//  5. Observer
//
// # Catalog
//
// A Catalog is the fixed, ordered palette of templates. Each Template carries
// a kind, display fields and an estimated duration. DefaultCatalog returns
// six laboratory steps; LoadCatalog reads a palette from YAML:
//
//	templates:
//	  - kind: CENTRIFUGE
//	    label: Centrifuge
//	    estimated_duration: 8s
//
// # Workbench
//
// A Workbench owns the sequence and the drag session. There are two drop
// surfaces:
//
//   - the canvas, which accepts drags from the palette and appends a new step
//   - each step, which accepts drags from the sequence and moves the dragged
//     step immediately before itself
//
// A drag from one source dropped on the other surface does nothing. Steps are
// removed, edited and toggled with direct calls.
//
// # Engine
//
// Running a step advances its progress every tick (200ms by default) so that
// it reaches 100% after its estimated duration. ToggleRun starts, pauses,
// resumes or resets a step. RunAll runs every pending or failed step in
// order, one at a time. Timers come from a Clock; NewVirtualClock gives tests
// and simulations full control over time.
//
// # LocalRunner
//
// LocalRunner puts a gesture queue and a single dispatcher in front of a
// Workbench so events posted from many goroutines are applied one at a time,
// in arrival order.
//
// # Observer
//
// Observers receive step lifecycle events. LoggingObserver writes them to
// slog, BasicMetrics counts them, and NewJournalObserver records them in a
// Journal (in memory or SQLite) for later inspection.
package blockflow
