package journal

import (
	"context"
	"database/sql"
	"time"

	"github.com/petrijr/blockflow/pkg/api"
)

// SQLiteStore stores step events in SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore prepares the schema on db and returns a Store using it.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS step_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			step_id TEXT NOT NULL,
			at INTEGER NOT NULL,
			type TEXT NOT NULL,
			kind TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL DEFAULT -1,
			detail TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_step_events_step_id ON step_events(step_id, id);
	`)
	return err
}

func (s *SQLiteStore) AppendEvent(ctx context.Context, ev api.StepEvent) error {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO step_events (step_id, at, type, kind, position, detail)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ev.StepID,
		at.UnixNano(),
		string(ev.Type),
		ev.Kind,
		ev.Position,
		ev.Detail,
	)
	return err
}

func (s *SQLiteStore) ListEvents(ctx context.Context, stepID string) ([]api.StepEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT step_id, at, type, kind, position, detail
		FROM step_events
		WHERE step_id = ?
		ORDER BY id ASC`, stepID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (s *SQLiteStore) ListAll(ctx context.Context) ([]api.StepEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT step_id, at, type, kind, position, detail
		FROM step_events
		ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]api.StepEvent, error) {
	var out []api.StepEvent
	for rows.Next() {
		var (
			id       string
			atN      int64
			typ      string
			kind     string
			position int
			detail   string
		)
		if err := rows.Scan(&id, &atN, &typ, &kind, &position, &detail); err != nil {
			return nil, err
		}
		out = append(out, api.StepEvent{
			StepID:   id,
			At:       time.Unix(0, atN),
			Type:     api.EventType(typ),
			Kind:     kind,
			Position: position,
			Detail:   detail,
		})
	}
	return out, rows.Err()
}
