// Package history keeps a log of finished focus and break intervals in SQLite.
// Only finished intervals are written; a running countdown is never persisted.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Outcome describes how an interval ended.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeStopped   Outcome = "stopped"
	OutcomeReset     Outcome = "reset"
)

// Fixed-width UTC timestamps keep lexical order equal to time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Session is one finished interval.
type Session struct {
	ID             int64     `json:"id" yaml:"id"`
	Mode           string    `json:"mode" yaml:"mode"`
	Outcome        Outcome   `json:"outcome" yaml:"outcome"`
	PlannedSeconds int       `json:"planned_seconds" yaml:"planned_seconds"`
	ElapsedSeconds int       `json:"elapsed_seconds" yaml:"elapsed_seconds"`
	StartedAt      time.Time `json:"started_at" yaml:"started_at"`
	EndedAt        time.Time `json:"ended_at" yaml:"ended_at"`
}

// ElapsedMinutes returns whole minutes spent in the session.
func (s Session) ElapsedMinutes() int {
	return s.ElapsedSeconds / 60
}

// Summary aggregates sessions over a time window.
type Summary struct {
	FocusSessions int `json:"focus_sessions" yaml:"focus_sessions"`
	BreakSessions int `json:"break_sessions" yaml:"break_sessions"`
	Completed     int `json:"completed" yaml:"completed"`
	FocusMinutes  int `json:"focus_minutes" yaml:"focus_minutes"`
	BreakMinutes  int `json:"break_minutes" yaml:"break_minutes"`
}

// Store is a SQLite-backed session log.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the session log at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// The recorder and the poller share one connection so writes never
	// contend for the database lock.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  mode TEXT NOT NULL,
  outcome TEXT NOT NULL,
  planned_seconds INTEGER NOT NULL,
  elapsed_seconds INTEGER NOT NULL,
  started_at TEXT NOT NULL,
  ended_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_ended_at ON sessions(ended_at);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

// Record appends a session and returns it with its assigned ID.
func (s *Store) Record(ctx context.Context, session Session) (Session, error) {
	if session.Mode == "" {
		return session, errors.New("record session: mode is empty")
	}
	if session.ElapsedSeconds < 0 || session.PlannedSeconds < 0 {
		return session, fmt.Errorf("record session: negative duration (planned=%d elapsed=%d)",
			session.PlannedSeconds, session.ElapsedSeconds)
	}

	const stmt = `
INSERT INTO sessions (mode, outcome, planned_seconds, elapsed_seconds, started_at, ended_at)
VALUES (?, ?, ?, ?, ?, ?);
`
	res, err := s.db.ExecContext(ctx, stmt,
		session.Mode,
		string(session.Outcome),
		session.PlannedSeconds,
		session.ElapsedSeconds,
		session.StartedAt.UTC().Format(timeLayout),
		session.EndedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return session, fmt.Errorf("insert session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return session, fmt.Errorf("session id: %w", err)
	}
	session.ID = id
	return session, nil
}

// Recent returns up to limit sessions, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Session, error) {
	return s.recent(ctx, "", limit)
}

// RecentByMode returns up to limit sessions of one mode, newest first.
func (s *Store) RecentByMode(ctx context.Context, mode string, limit int) ([]Session, error) {
	if mode == "" {
		return nil, errors.New("mode is required")
	}
	return s.recent(ctx, mode, limit)
}

func (s *Store) recent(ctx context.Context, mode string, limit int) ([]Session, error) {
	if limit <= 0 {
		return nil, nil
	}
	const query = `
SELECT id, mode, outcome, planned_seconds, elapsed_seconds, started_at, ended_at
FROM sessions
WHERE ? = '' OR mode = ?
ORDER BY ended_at DESC, id DESC
LIMIT ?;
`
	rows, err := s.db.QueryContext(ctx, query, mode, mode, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var (
			session          Session
			outcome          string
			started, stopped string
		)
		if err := rows.Scan(&session.ID, &session.Mode, &outcome, &session.PlannedSeconds,
			&session.ElapsedSeconds, &started, &stopped); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		session.Outcome = Outcome(outcome)
		if session.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if session.EndedAt, err = time.Parse(timeLayout, stopped); err != nil {
			return nil, fmt.Errorf("parse ended_at: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// Summarize aggregates every session that ended at or after since.
func (s *Store) Summarize(ctx context.Context, since time.Time) (Summary, error) {
	const query = `
SELECT mode,
       COUNT(*),
       COALESCE(SUM(CASE WHEN outcome = 'completed' THEN 1 ELSE 0 END), 0),
       COALESCE(SUM(elapsed_seconds), 0)
FROM sessions
WHERE ended_at >= ?
GROUP BY mode;
`
	rows, err := s.db.QueryContext(ctx, query, since.UTC().Format(timeLayout))
	if err != nil {
		return Summary{}, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	var summary Summary
	for rows.Next() {
		var (
			mode                      string
			count, completed, seconds int
		)
		if err := rows.Scan(&mode, &count, &completed, &seconds); err != nil {
			return Summary{}, fmt.Errorf("scan summary: %w", err)
		}
		summary.Completed += completed
		switch mode {
		case "focus":
			summary.FocusSessions += count
			summary.FocusMinutes += seconds / 60
		case "break":
			summary.BreakSessions += count
			summary.BreakMinutes += seconds / 60
		}
	}
	if err := rows.Err(); err != nil {
		return Summary{}, fmt.Errorf("iterate summary: %w", err)
	}
	return summary, nil
}

// StartOfDay returns local midnight for t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
