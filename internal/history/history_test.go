package history

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	sql  string
	args []any
}

type fakeDB struct {
	execs   []execCall
	queries []execCall
	runID   int64
	execErr error
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql, args})
	return pgconn.NewCommandTag("INSERT 0 1"), f.execErr
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.queries = append(f.queries, execCall{sql, args})
	return fakeRow{id: f.runID}
}

type fakeRow struct {
	id int64
}

func (r fakeRow) Scan(dest ...any) error {
	*(dest[0].(*int64)) = r.id
	return nil
}

func TestEnsureSchema(t *testing.T) {
	db := &fakeDB{}
	require.NoError(t, NewStore(db).EnsureSchema(context.Background()))
	require.Len(t, db.execs, 2)
	assert.Contains(t, db.execs[0].sql, "msgscan_runs")
	assert.Contains(t, db.execs[1].sql, "msgscan_files")
}

func TestRecord(t *testing.T) {
	db := &fakeDB{runID: 42}
	started := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	id, err := NewStore(db).Record(context.Background(), Run{
		StartedAt: started,
		Mode:      "scan",
		Root:      "data/text",
		Files: []FileRecord{
			{Path: "a.msg", SHA256: "aa", Status: "OK"},
			{Path: "b.msg", SHA256: "bb", Status: "OK", Diagnostics: 2, Failed: true},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	require.Len(t, db.queries, 1)
	assert.Equal(t, []any{started, "scan", "data/text", 2, 1}, db.queries[0].args)
	require.Len(t, db.execs, 2)
	assert.Equal(t, []any{int64(42), "b.msg", "bb", "OK", 2}, db.execs[1].args)
}

func TestRecord_ExecError(t *testing.T) {
	db := &fakeDB{runID: 1, execErr: errors.New("connection reset")}

	_, err := NewStore(db).Record(context.Background(), Run{Files: []FileRecord{{Path: "a.msg"}}})
	assert.ErrorContains(t, err, "insert file a.msg")
}

func TestFileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.msg")
	require.NoError(t, os.WriteFile(path, []byte("{1}{}{x}\n"), 0644))

	assert.Len(t, FileHash(path), 64)
	assert.Empty(t, FileHash(path+".missing"))
}
