package blockflow

import (
	"database/sql"
	"io"
	"log/slog"
	"time"

	"github.com/petrijr/blockflow/internal/catalog"
	"github.com/petrijr/blockflow/internal/clock"
	"github.com/petrijr/blockflow/internal/journal"
	"github.com/petrijr/blockflow/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Status               = api.Status
	Template             = api.Template
	Step                 = api.Step
	LogEntry             = api.LogEntry
	AggregateProgress    = api.AggregateProgress
	DragSource           = api.DragSource
	DragState            = api.DragState
	DropEffect           = api.DropEffect
	Gesture              = api.Gesture
	GestureType          = api.GestureType
	StepEvent            = api.StepEvent
	EventType            = api.EventType
	Observer             = api.Observer
	LoggingObserver      = api.LoggingObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
	CompositeObserver    = api.CompositeObserver
	NoopObserver         = api.NoopObserver

	Catalog      = catalog.Catalog
	Clock        = clock.Clock
	VirtualClock = clock.Virtual
	Journal      = journal.Store
)

// Re-export common observer helpers.

var (
	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
)

// Re-export status values for convenience.

const (
	StatusPending   = api.StatusPending
	StatusRunning   = api.StatusRunning
	StatusPaused    = api.StatusPaused
	StatusCompleted = api.StatusCompleted
	StatusFailed    = api.StatusFailed
)

// Re-export drag vocabulary.

const (
	DragFromCatalog  = api.DragFromCatalog
	DragFromSequence = api.DragFromSequence

	DropEffectNone = api.DropEffectNone
	DropEffectCopy = api.DropEffectCopy
	DropEffectMove = api.DropEffectMove
)

// Re-export journal event types.

const (
	EventStepAdded     = api.EventStepAdded
	EventStepMoved     = api.EventStepMoved
	EventStepRemoved   = api.EventStepRemoved
	EventStepStarted   = api.EventStepStarted
	EventStepPaused    = api.EventStepPaused
	EventStepCompleted = api.EventStepCompleted
	EventStepReset     = api.EventStepReset
	EventStepFailed    = api.EventStepFailed
)

// Re-export gesture types for hosts feeding a LocalRunner.

const (
	GestureDragStartCatalog  = api.GestureDragStartCatalog
	GestureDragStartSequence = api.GestureDragStartSequence
	GestureDragEnterCanvas   = api.GestureDragEnterCanvas
	GestureDragOverCanvas    = api.GestureDragOverCanvas
	GestureDragLeaveCanvas   = api.GestureDragLeaveCanvas
	GestureDropCanvas        = api.GestureDropCanvas
	GestureDragEnterItem     = api.GestureDragEnterItem
	GestureDragLeaveItem     = api.GestureDragLeaveItem
	GestureDropItem          = api.GestureDropItem
	GestureDragEnd           = api.GestureDragEnd
	GestureRemove            = api.GestureRemove
	GestureToggleRun         = api.GestureToggleRun
	GestureRunAll            = api.GestureRunAll
	GestureEditDescription   = api.GestureEditDescription
)

// Re-export catalog errors so callers can match them with errors.Is.

var (
	ErrTemplateNotFound = catalog.ErrTemplateNotFound
	ErrInvalidTemplate  = catalog.ErrInvalidTemplate
	ErrDuplicateKind    = catalog.ErrDuplicateKind
)

// DefaultCatalog returns the built-in laboratory palette.
func DefaultCatalog() *Catalog {
	return catalog.Default()
}

// NewCatalog builds a palette from templates, in order.
func NewCatalog(templates ...Template) (*Catalog, error) {
	return catalog.New(templates...)
}

// LoadCatalog parses a YAML palette definition.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	return catalog.Load(r)
}

// LoadCatalogFile reads a YAML palette definition from path.
func LoadCatalogFile(path string) (*Catalog, error) {
	return catalog.LoadFile(path)
}

// RealClock returns the wall clock.
func RealClock() Clock {
	return clock.Real()
}

// NewVirtualClock returns a clock that only moves through Advance, for
// deterministic simulations and tests.
func NewVirtualClock(start time.Time) *VirtualClock {
	return clock.NewVirtual(start)
}

// NewMemoryJournal returns an in-memory step history.
func NewMemoryJournal() Journal {
	return journal.NewMemoryStore()
}

// NewSQLiteJournal returns a step history stored in db.
func NewSQLiteJournal(db *sql.DB) (Journal, error) {
	s, err := journal.NewSQLiteStore(db)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewJournalObserver returns an Observer appending every step event to j.
// Events are stamped with clk, or the wall clock when clk is nil.
func NewJournalObserver(j Journal, clk Clock, logger *slog.Logger) Observer {
	obs := journal.NewObserver(j, logger)
	if clk != nil {
		obs.Now = clk.Now
	}
	return obs
}
