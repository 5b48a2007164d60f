// Package journal records script applications in a local SQLite database.
// The journal is stored in .oraddl/journal.db and is gitignored. It is a
// history log only; nothing reads it back to decide what to execute.
package journal

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hlop3z/oraddl/internal/alerr"

	_ "modernc.org/sqlite" // SQLite driver
)

const (
	// DefaultDir is the default directory name for the journal.
	DefaultDir = ".oraddl"
	// File is the SQLite database file name.
	File = "journal.db"
)

// Status is the outcome of an apply.
type Status string

const (
	StatusApplied Status = "applied"
	StatusFailed  Status = "failed"
	StatusDryRun  Status = "dry_run"
)

// Entry is one recorded apply.
type Entry struct {
	ID        int64
	Root      string // merkle root of the applied commands
	Script    string
	Target    string // database URL with credentials removed
	Revision  string // git revision of the plan files, "" if unknown
	Commands  int
	Executed  int
	Status    Status
	Error     string
	Duration  time.Duration
	AppliedAt time.Time
}

// Journal stores apply history.
type Journal struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex
}

// Open opens or creates the journal database inside dir.
func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, alerr.Wrap(alerr.ErrJournalInit, err, "failed to create journal directory").
			With("path", dir)
	}
	return open(filepath.Join(dir, File))
}

// OpenMemory opens a journal that lives only as long as the process.
func OpenMemory() (*Journal, error) {
	return open(":memory:")
}

func open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, alerr.Wrap(alerr.ErrJournalInit, err, "failed to open journal database").
			With("path", path)
	}
	// a second connection to :memory: would see an empty database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, alerr.Wrap(alerr.ErrJournalInit, err, "failed to connect to journal database").
			With("path", path)
	}

	j := &Journal{db: db, path: path}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

// Close closes the journal database connection.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Path returns the path to the journal database file.
func (j *Journal) Path() string {
	if j == nil {
		return ""
	}
	return j.path
}

func (j *Journal) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS applies (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			root         TEXT NOT NULL,
			script       TEXT NOT NULL,
			target       TEXT NOT NULL,
			revision     TEXT NOT NULL DEFAULT '',
			commands     INTEGER NOT NULL,
			executed     INTEGER NOT NULL,
			status       TEXT NOT NULL,
			error        TEXT NOT NULL DEFAULT '',
			duration_ms  INTEGER NOT NULL,
			applied_at   TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_applies_root ON applies (root);

		CREATE TABLE IF NOT EXISTS journal_meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		INSERT OR REPLACE INTO journal_meta (key, value) VALUES ('version', '1');
	`

	j.mu.Lock()
	defer j.mu.Unlock()

	if _, err := j.db.Exec(schema); err != nil {
		return alerr.Wrap(alerr.ErrJournalInit, err, "failed to initialize journal schema")
	}
	return nil
}

// Record stores e and sets its ID. A zero AppliedAt is set to now.
func (j *Journal) Record(ctx context.Context, e *Entry) error {
	if e.AppliedAt.IsZero() {
		e.AppliedAt = time.Now()
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	res, err := j.db.ExecContext(ctx,
		`INSERT INTO applies (root, script, target, revision, commands, executed, status, error, duration_ms, applied_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Root, e.Script, e.Target, e.Revision, e.Commands, e.Executed, string(e.Status), e.Error,
		e.Duration.Milliseconds(), e.AppliedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return alerr.Wrap(alerr.ErrJournalWrite, err, "failed to record apply").
			With("root", e.Root)
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return alerr.Wrap(alerr.ErrJournalWrite, err, "failed to read apply id")
	}
	return nil
}

// History returns the most recent entries first. A limit <= 0 returns all.
func (j *Journal) History(ctx context.Context, limit int) ([]*Entry, error) {
	query := `SELECT id, root, script, target, revision, commands, executed, status, error, duration_ms, applied_at
		FROM applies ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return j.query(ctx, query, args...)
}

// LastApplied returns the latest successful apply of root, or nil if none.
func (j *Journal) LastApplied(ctx context.Context, root string) (*Entry, error) {
	entries, err := j.query(ctx,
		`SELECT id, root, script, target, revision, commands, executed, status, error, duration_ms, applied_at
		 FROM applies WHERE root = ? AND status = ? ORDER BY id DESC LIMIT 1`,
		root, string(StatusApplied))
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return entries[0], nil
}

func (j *Journal) query(ctx context.Context, query string, args ...any) ([]*Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, alerr.Wrap(alerr.ErrJournalRead, err, "failed to list applies")
	}
	defer rows.Close()

	entries := []*Entry{}
	for rows.Next() {
		var e Entry
		var status, appliedAt string
		var durationMS int64
		if err := rows.Scan(&e.ID, &e.Root, &e.Script, &e.Target, &e.Revision, &e.Commands, &e.Executed,
			&status, &e.Error, &durationMS, &appliedAt); err != nil {
			return nil, alerr.Wrap(alerr.ErrJournalRead, err, "failed to scan apply")
		}
		e.Status = Status(status)
		e.Duration = time.Duration(durationMS) * time.Millisecond
		e.AppliedAt, _ = time.Parse(time.RFC3339Nano, appliedAt)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, alerr.Wrap(alerr.ErrJournalRead, err, "failed to list applies")
	}
	return entries, nil
}

// Clear removes all recorded applies.
func (j *Journal) Clear(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if _, err := j.db.ExecContext(ctx, "DELETE FROM applies"); err != nil {
		return alerr.Wrap(alerr.ErrJournalWrite, err, "failed to clear journal")
	}
	return nil
}
