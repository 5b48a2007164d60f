package testutil

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/sijms/go-ora/v2" // Oracle driver for live tests
	_ "modernc.org/sqlite"         // SQLite driver for offline tests
)

// LiveDatabaseEnv names the variable holding a live Oracle URL for tests.
const LiveDatabaseEnv = "ORADDL_TEST_DATABASE_URL"

// SetupSQLite opens an in-memory SQLite database closed at test cleanup.
// It stands in for Oracle wherever only database/sql behavior matters.
func SetupSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db := open(t, "sqlite", ":memory:")
	// Each :memory: connection is its own database.
	db.SetMaxOpenConns(1)
	return db
}

// OpenOracle connects to the database named by LiveDatabaseEnv. The test is
// skipped in -short mode or when the variable is unset.
func OpenOracle(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("live Oracle test skipped in short mode")
	}
	url := os.Getenv(LiveDatabaseEnv)
	if url == "" {
		t.Skipf("%s not set", LiveDatabaseEnv)
	}
	return open(t, "oracle", url)
}

func open(t *testing.T, driver, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open(driver, dsn)
	if err != nil {
		t.Fatalf("open %s: %v", driver, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Fatalf("ping %s: %v", driver, err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// QueryInt runs a single-value query and fails the test on error.
func QueryInt(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("query %q: %v", query, err)
	}
	return n
}

// QueryString runs a single-value query. NULL reads as "".
func QueryString(t *testing.T, db *sql.DB, query string, args ...any) string {
	t.Helper()
	var s sql.NullString
	if err := db.QueryRow(query, args...).Scan(&s); err != nil {
		t.Fatalf("query %q: %v", query, err)
	}
	return s.String
}

// AssertTableExists fails the test unless the SQLite table exists.
func AssertTableExists(t *testing.T, db *sql.DB, table string) {
	t.Helper()
	if sqliteTables(t, db, table) == 0 {
		t.Errorf("table %q does not exist", table)
	}
}

// AssertTableNotExists fails the test if the SQLite table exists.
func AssertTableNotExists(t *testing.T, db *sql.DB, table string) {
	t.Helper()
	if sqliteTables(t, db, table) != 0 {
		t.Errorf("table %q exists", table)
	}
}

func sqliteTables(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	return QueryInt(t, db, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
}

// AssertRowCount fails the test unless table holds want rows.
func AssertRowCount(t *testing.T, db *sql.DB, table string, want int) {
	t.Helper()
	if got := QueryInt(t, db, "SELECT COUNT(*) FROM "+table); got != want {
		t.Errorf("%s has %d rows, want %d", table, got, want)
	}
}
