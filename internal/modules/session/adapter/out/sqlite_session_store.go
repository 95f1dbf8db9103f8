package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"efforts/internal/modules/session/domain"
	apperrors "efforts/internal/platform/errors"

	_ "modernc.org/sqlite"
)

// SQLiteSessionStore keeps sessions in a single table. Times are stored as
// unix milliseconds so range queries stay numeric.
type SQLiteSessionStore struct {
	db  *sql.DB
	loc *time.Location
}

func NewSQLiteSessionStore(dbPath string, loc *time.Location) (*SQLiteSessionStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if loc == nil {
		loc = time.Local
	}
	store := &SQLiteSessionStore{db: db, loc: loc}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteSessionStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  schema_version INTEGER NOT NULL,
  goals TEXT NOT NULL,
  planned_duration INTEGER NOT NULL,
  actual_duration INTEGER NOT NULL,
  start_time INTEGER NOT NULL,
  end_time INTEGER,
  overtime INTEGER NOT NULL,
  quality TEXT NOT NULL,
  notes TEXT NOT NULL,
  status TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_start_time ON sessions (start_time);
CREATE INDEX IF NOT EXISTS sessions_status ON sessions (status);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteSessionStore) Put(ctx context.Context, session domain.Session) (string, error) {
	const stmt = `
INSERT INTO sessions (id, schema_version, goals, planned_duration, actual_duration, start_time, end_time, overtime, quality, notes, status)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  schema_version=excluded.schema_version,
  goals=excluded.goals,
  planned_duration=excluded.planned_duration,
  actual_duration=excluded.actual_duration,
  start_time=excluded.start_time,
  end_time=excluded.end_time,
  overtime=excluded.overtime,
  quality=excluded.quality,
  notes=excluded.notes,
  status=excluded.status;
`
	var end sql.NullInt64
	if session.EndTime != nil {
		end = sql.NullInt64{Int64: session.EndTime.UnixMilli(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, stmt,
		session.ID,
		domain.SchemaVersion,
		session.Goals,
		session.PlannedDuration,
		session.ActualDuration,
		session.StartTime.UnixMilli(),
		end,
		session.Overtime,
		string(session.Quality),
		session.Notes,
		string(session.Status),
	)
	if err != nil {
		return "", fmt.Errorf("upsert session: %w", err)
	}
	return session.ID, nil
}

const selectColumns = `SELECT id, goals, planned_duration, actual_duration, start_time, end_time, overtime, quality, notes, status FROM sessions`

func (s *SQLiteSessionStore) Get(ctx context.Context, id string) (domain.Session, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	session, err := s.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

func (s *SQLiteSessionStore) GetAll(ctx context.Context) ([]domain.Session, error) {
	return s.query(ctx, "list sessions", selectColumns+` ORDER BY start_time ASC`)
}

func (s *SQLiteSessionStore) GetActive(ctx context.Context) (domain.Session, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE status = ? ORDER BY start_time DESC LIMIT 1`, string(domain.StatusActive))
	session, err := s.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, apperrors.ErrNoActiveSession
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("get active session: %w", err)
	}
	return session, nil
}

func (s *SQLiteSessionStore) GetInRange(ctx context.Context, start, end time.Time) ([]domain.Session, error) {
	return s.query(ctx, "list sessions in range",
		selectColumns+` WHERE status = ? AND start_time >= ? AND start_time <= ? ORDER BY start_time ASC`,
		string(domain.StatusCompleted), start.UnixMilli(), end.UnixMilli(),
	)
}

func (s *SQLiteSessionStore) GetForDay(ctx context.Context, date time.Time) ([]domain.Session, error) {
	start, end := domain.DayBounds(date)
	return s.GetInRange(ctx, start, end)
}

func (s *SQLiteSessionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) query(ctx context.Context, op, stmt string, args ...any) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	sessions := []domain.Session{}
	for rows.Next() {
		session, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sessions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *SQLiteSessionStore) scan(row scanner) (domain.Session, error) {
	var (
		session        domain.Session
		startMs        int64
		endMs          sql.NullInt64
		quality, state string
	)
	err := row.Scan(
		&session.ID,
		&session.Goals,
		&session.PlannedDuration,
		&session.ActualDuration,
		&startMs,
		&endMs,
		&session.Overtime,
		&quality,
		&session.Notes,
		&state,
	)
	if err != nil {
		return domain.Session{}, err
	}
	session.StartTime = time.UnixMilli(startMs).In(s.loc)
	if endMs.Valid {
		end := time.UnixMilli(endMs.Int64).In(s.loc)
		session.EndTime = &end
	}
	session.Quality = domain.Quality(quality)
	session.Status = domain.Status(state)
	return session, nil
}
