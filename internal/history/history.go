// Package history records generation runs in a SQL database: which scene
// was generated for which backend, how long it took, whether it succeeded
// and which extensions its events used.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/conduit-lang/eventc/internal/compiler/codegen"
	"github.com/conduit-lang/eventc/internal/compiler/errors"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
)

// Run is one scene generation
type Run struct {
	ID           uuid.UUID
	Project      string
	Scene        string
	Backend      string
	StartedAt    time.Time
	Duration     time.Duration
	Success      bool
	ErrorCount   int
	WarningCount int
	Extensions   []string
}

// NewRun builds the record of a generation result
func NewRun(project, backend string, result codegen.Result, extensions []string, started time.Time, duration time.Duration) *Run {
	run := &Run{
		ID:         uuid.New(),
		Project:    project,
		Scene:      result.Name,
		Backend:    backend,
		StartedAt:  started,
		Duration:   duration,
		Success:    !result.Failed,
		Extensions: extensions,
	}
	for _, diag := range result.Diagnostics {
		if diag.Severity == errors.SeverityError {
			run.ErrorCount++
		} else {
			run.WarningCount++
		}
	}
	return run
}

// Store manages the generation history table
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to the history database
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite, DriverPgx, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported history driver %q (expected %s, %s or %s)", driver, DriverSQLite, DriverPgx, DriverPostgres)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if driver == DriverSQLite {
		// An in-memory database only lives as long as its connection
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}
	return NewStore(db, driver), nil
}

// NewStore creates a store over an open database
func NewStore(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// placeholder returns the n-th (1-based) bind parameter of the driver
func (s *Store) placeholder(n int) string {
	if s.driver == DriverSQLite {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}

func (s *Store) placeholders(count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = s.placeholder(i + 1)
	}
	return strings.Join(parts, ", ")
}

// Initialize ensures the generation_runs table exists
func (s *Store) Initialize(ctx context.Context) error {
	query := `
CREATE TABLE IF NOT EXISTS generation_runs (
	id VARCHAR(36) PRIMARY KEY,
	project VARCHAR(255) NOT NULL,
	scene VARCHAR(255) NOT NULL,
	backend VARCHAR(16) NOT NULL,
	started_at TIMESTAMP NOT NULL,
	duration_ms BIGINT NOT NULL,
	success BOOLEAN NOT NULL,
	error_count INTEGER NOT NULL DEFAULT 0,
	warning_count INTEGER NOT NULL DEFAULT 0,
	extensions TEXT NOT NULL DEFAULT ''
)`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to initialize history table: %w", err)
	}
	return nil
}

// Record inserts a run, assigning it an id when it has none
func (s *Store) Record(ctx context.Context, run *Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	query := `
INSERT INTO generation_runs (id, project, scene, backend, started_at, duration_ms, success, error_count, warning_count, extensions)
VALUES (` + s.placeholders(10) + `)`
	_, err := s.db.ExecContext(ctx, query,
		run.ID.String(),
		run.Project,
		run.Scene,
		run.Backend,
		run.StartedAt.UTC(),
		run.Duration.Milliseconds(),
		run.Success,
		run.ErrorCount,
		run.WarningCount,
		strings.Join(run.Extensions, ","),
	)
	if err != nil {
		return fmt.Errorf("failed to record run of %s: %w", run.Scene, err)
	}
	return nil
}

const selectRuns = `
SELECT id, project, scene, backend, started_at, duration_ms, success, error_count, warning_count, extensions
FROM generation_runs`

// List returns the most recent runs first. limit <= 0 returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]*Run, error) {
	query := selectRuns + "\nORDER BY started_at DESC"
	var args []any
	if limit > 0 {
		query += "\nLIMIT " + s.placeholder(1)
		args = append(args, limit)
	}
	return s.query(ctx, query, args...)
}

// ListScene returns the most recent runs of one scene first
func (s *Store) ListScene(ctx context.Context, scene string, limit int) ([]*Run, error) {
	query := selectRuns + "\nWHERE scene = " + s.placeholder(1) + "\nORDER BY started_at DESC"
	args := []any{scene}
	if limit > 0 {
		query += "\nLIMIT " + s.placeholder(2)
		args = append(args, limit)
	}
	return s.query(ctx, query, args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		var id, extensions string
		var durationMS int64
		if err := rows.Scan(&id, &run.Project, &run.Scene, &run.Backend, &run.StartedAt, &durationMS,
			&run.Success, &run.ErrorCount, &run.WarningCount, &extensions); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if run.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid run id %q: %w", id, err)
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		if extensions != "" {
			run.Extensions = strings.Split(extensions, ",")
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
