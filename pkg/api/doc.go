// Package api holds the data types shared by the blockflow packages: step
// templates, steps and their statuses, drag state, gestures, history events
// and the Observer interface with its stock implementations.
//
// Most users interact with the higher-level blockflow package, which
// re-exports these types. The api package exists so that the internal
// packages and the dispatcher can share them without import cycles.
//
// # Observability
//
// Observer receives step lifecycle events from the Workbench and the engine.
// NoopObserver ignores them, LoggingObserver writes them to slog,
// BasicMetrics counts them, and NewCompositeObserver fans out to several.
package api
