package testutil

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/hlop3z/oraddl/internal/alerr"
)

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeSQL collapses whitespace runs into one space and trims the
// result. Case is kept: quoted Oracle identifiers are case-sensitive.
func NormalizeSQL(sql string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(sql, " "))
}

// AssertSQLContains fails the test unless sql contains fragment, ignoring
// differences in whitespace.
func AssertSQLContains(t *testing.T, sql, fragment string) {
	t.Helper()
	if !strings.Contains(NormalizeSQL(sql), NormalizeSQL(fragment)) {
		t.Errorf("SQL does not contain %q:\n%s", NormalizeSQL(fragment), sql)
	}
}

// AssertError fails the test unless err carries code.
func AssertError(t *testing.T, err error, code alerr.Code) {
	t.Helper()
	switch got := alerr.GetErrorCode(err); {
	case err == nil:
		t.Errorf("error = nil, want %s", code)
	case got != code:
		t.Errorf("error code = %s, want %s\nerror: %v", got, code, err)
	}
}

// AssertErrorContains fails the test unless err's message contains substr.
func AssertErrorContains(t *testing.T, err error, substr string) {
	t.Helper()
	if err == nil || !strings.Contains(err.Error(), substr) {
		t.Errorf("error = %v, want it to contain %q", err, substr)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// MustValue returns value, failing the test immediately if err is not nil.
//
//	res := testutil.MustValue(t, gen.Generate(ops, nil))
func MustValue[T any](t *testing.T, value T, err error) T {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return value
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// ReadFile returns the content of path, failing the test if it cannot be read.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
