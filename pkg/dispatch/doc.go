// Package dispatch applies queued UI gestures to a workbench.
//
// A host UI forwards every drag, drop, click and edit as an api.Gesture.
// Gestures are queued and a Dispatcher pulls them one at a time, so all
// state changes happen in arrival order on a single logical thread even when
// the host delivers events from several goroutines.
//
// RunAll is the one gesture that does not finish immediately: it waits for
// each step to complete in turn. The dispatcher runs it in the background so
// the user can keep pausing, removing and reordering steps while it is in
// flight. Call Wait to block until background runs have returned.
package dispatch
