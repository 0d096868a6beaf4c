// Package history records scan runs in PostgreSQL so results can be tracked
// across builds.
package history

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"msgscan/internal/textutil"
)

// DBTX is the subset of pgxpool.Pool used by Store.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists scan runs.
type Store struct {
	db DBTX
}

// NewStore creates a history store on top of db.
func NewStore(db DBTX) *Store {
	return &Store{db: db}
}

// Connect opens and pings a PostgreSQL pool.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}
	log.Debug().Msg("Connected to PostgreSQL")
	return pool, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS msgscan_runs (
		id         BIGSERIAL PRIMARY KEY,
		started_at TIMESTAMPTZ NOT NULL,
		mode       TEXT NOT NULL,
		root       TEXT NOT NULL,
		files      INTEGER NOT NULL,
		failed     INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS msgscan_files (
		run_id      BIGINT NOT NULL REFERENCES msgscan_runs(id) ON DELETE CASCADE,
		path        TEXT NOT NULL,
		sha256      TEXT NOT NULL,
		status      TEXT NOT NULL,
		diagnostics INTEGER NOT NULL,
		PRIMARY KEY (run_id, path)
	)`,
}

// EnsureSchema creates the history tables when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create history table: %w", err)
		}
	}
	return nil
}

// FileRecord is the stored outcome of one file.
type FileRecord struct {
	Path        string
	SHA256      string
	Status      string
	Diagnostics int
	Failed      bool
}

// Run is one invocation of a scan or compare command.
type Run struct {
	StartedAt time.Time
	Mode      string
	Root      string
	Files     []FileRecord
}

// Record inserts run and its files, returning the run id.
func (s *Store) Record(ctx context.Context, run Run) (int64, error) {
	failed := 0
	for _, f := range run.Files {
		if f.Failed {
			failed++
		}
	}

	var runID int64
	err := s.db.QueryRow(ctx,
		`INSERT INTO msgscan_runs (started_at, mode, root, files, failed)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		run.StartedAt, run.Mode, run.Root, len(run.Files), failed,
	).Scan(&runID)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	for _, f := range run.Files {
		_, err := s.db.Exec(ctx,
			`INSERT INTO msgscan_files (run_id, path, sha256, status, diagnostics)
			 VALUES ($1, $2, $3, $4, $5)`,
			runID, f.Path, f.SHA256, f.Status, f.Diagnostics,
		)
		if err != nil {
			return runID, fmt.Errorf("insert file %s: %w", f.Path, err)
		}
	}

	log.Info().Int64("run", runID).Int("files", len(run.Files)).Int("failed", failed).Msg("Scan recorded")
	return runID, nil
}

// FileHash returns the SHA-256 of the file's bytes, or "" if unreadable.
func FileHash(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return textutil.Hash(data)
}
