package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Storage persists schedules in SQLite.
type Storage struct {
	db *sql.DB
}

// NewStorage opens (and creates when missing) the database at dbPath.
// ":memory:" gives a private in-memory database.
func NewStorage(dbPath string) (*Storage, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." && dir != "/" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath) // modernc.org/sqlite registers "sqlite", not "sqlite3"
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A second connection to ":memory:" would see an empty database.
	db.SetMaxOpenConns(1)

	storage := &Storage{db: db}
	if err := storage.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	return storage, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) initTables() error {
	schedulesSQL := `
	CREATE TABLE IF NOT EXISTS schedules (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		task_kind TEXT NOT NULL,
		task_id TEXT NOT NULL DEFAULT '',
		expression TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		enabled BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`

	if _, err := s.db.Exec(schedulesSQL); err != nil {
		return fmt.Errorf("failed to create schedules table: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_schedules_task ON schedules(task_kind, task_id);",
		"CREATE INDEX IF NOT EXISTS idx_schedules_enabled ON schedules(enabled);",
	}

	for _, indexSQL := range indexes {
		if _, err := s.db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

const scheduleColumns = `id, name, task_kind, task_id, expression, description, enabled, created_at, updated_at`

// Create inserts sch.
func (s *Storage) Create(ctx context.Context, sch *Schedule) error {
	query := `INSERT INTO schedules (` + scheduleColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		sch.ID,
		sch.Name,
		string(sch.TaskKind),
		sch.TaskID,
		sch.Expression,
		sch.Description,
		sch.Enabled,
		formatTime(sch.CreatedAt),
		formatTime(sch.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert schedule: %w", err)
	}
	return nil
}

// Get retrieves a schedule by ID.
func (s *Storage) Get(ctx context.Context, id string) (*Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = ?`

	sch, err := scanSchedule(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to scan schedule: %w", err)
	}
	return sch, nil
}

// List returns the schedules matching filter, newest first.
func (s *Storage) List(ctx context.Context, filter Filter) ([]*Schedule, error) {
	var (
		where []string
		args  []any
	)
	if !filter.IncludeDisabled {
		where = append(where, "enabled = TRUE")
	}
	if filter.TaskKind != "" {
		where = append(where, "task_kind = ?")
		args = append(args, string(filter.TaskKind))
	}
	if filter.TaskID != "" {
		where = append(where, "task_id = ?")
		args = append(args, filter.TaskID)
	}

	query := `SELECT ` + scheduleColumns + ` FROM schedules`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*Schedule
	for rows.Next() {
		sch, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, sch)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedules: %w", err)
	}

	return schedules, nil
}

// Update overwrites every mutable column of sch.
func (s *Storage) Update(ctx context.Context, sch *Schedule) error {
	query := `
	UPDATE schedules SET
		name = ?, task_kind = ?, task_id = ?, expression = ?, description = ?,
		enabled = ?, updated_at = ?
	WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		sch.Name,
		string(sch.TaskKind),
		sch.TaskID,
		sch.Expression,
		sch.Description,
		sch.Enabled,
		formatTime(sch.UpdatedAt),
		sch.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	return expectOneRow(result, sch.ID)
}

// SetEnabled flips the enabled flag.
func (s *Storage) SetEnabled(ctx context.Context, id string, enabled bool, at time.Time) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE schedules SET enabled = ?, updated_at = ? WHERE id = ?",
		enabled, formatTime(at), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule enabled status: %w", err)
	}
	return expectOneRow(result, id)
}

// Delete removes a schedule.
func (s *Storage) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM schedules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return expectOneRow(result, id)
}

func expectOneRow(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (*Schedule, error) {
	sch := &Schedule{}
	var kind, createdAt, updatedAt string

	err := row.Scan(
		&sch.ID,
		&sch.Name,
		&kind,
		&sch.TaskID,
		&sch.Expression,
		&sch.Description,
		&sch.Enabled,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	sch.TaskKind = TaskKind(kind)

	if sch.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if sch.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return sch, nil
}

// Fixed-width so that ORDER BY on the text column is chronological.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}
