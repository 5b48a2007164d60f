package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/hlop3z/oraddl/internal/alerr"
)

// -----------------------------------------------------------------------------
// Test Helpers
// -----------------------------------------------------------------------------

// initGitRepo initializes a new git repository in the given directory.
func initGitRepo(t *testing.T, dir string) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	runGitCmd(t, dir, "init")
	runGitCmd(t, dir, "config", "user.email", "test@test.com")
	runGitCmd(t, dir, "config", "user.name", "Test User")
}

// runGitCmd runs a git command in the given directory.
func runGitCmd(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
	return string(out)
}

// createFile creates a file with the given content.
func createFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create file %s: %v", path, err)
	}
}

// -----------------------------------------------------------------------------
// Open
// -----------------------------------------------------------------------------

func TestOpen(t *testing.T) {
	t.Run("subdirectory_of_git_repo", func(t *testing.T) {
		dir := t.TempDir()
		initGitRepo(t, dir)
		subdir := filepath.Join(dir, "plans")
		if err := os.MkdirAll(subdir, 0755); err != nil {
			t.Fatal(err)
		}

		repo, err := Open(subdir)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		want, _ := filepath.EvalSymlinks(dir)
		got, _ := filepath.EvalSymlinks(repo.RootDir())
		if got != want {
			t.Errorf("RootDir() = %q, want %q", got, want)
		}
	})

	t.Run("not_a_repo", func(t *testing.T) {
		if _, err := exec.LookPath("git"); err != nil {
			t.Skip("git not installed")
		}
		_, err := Open(t.TempDir())
		if !alerr.Is(err, alerr.ErrNotGitRepo) {
			t.Errorf("Open() error = %v, want %s", err, alerr.ErrNotGitRepo)
		}
	})
}

// -----------------------------------------------------------------------------
// Plan state
// -----------------------------------------------------------------------------

func TestCheckPlans(t *testing.T) {
	dir := t.TempDir()
	initGitRepo(t, dir)
	plans := filepath.Join(dir, "plans")

	committed := filepath.Join(plans, "001_users.yaml")
	createFile(t, committed, "operations: []\n")
	createFile(t, filepath.Join(plans, "README.md"), "notes")
	runGitCmd(t, dir, "add", ".")
	runGitCmd(t, dir, "commit", "-m", "plans")

	state, err := CheckPlans(plans)
	if err != nil {
		t.Fatalf("CheckPlans() error = %v", err)
	}
	if !state.InGitRepo || state.Revision == "" || state.Dirty() {
		t.Fatalf("clean state = %+v", state)
	}
	if state.RevisionLabel() != state.Revision {
		t.Errorf("RevisionLabel() = %q, want %q", state.RevisionLabel(), state.Revision)
	}

	createFile(t, committed, "operations:\n  - drop_table: {name: t}\n")
	createFile(t, filepath.Join(plans, "002_orders.js"), "createTable({name: 'orders'})\n")
	createFile(t, filepath.Join(plans, "README.md"), "changed notes")

	state, err = CheckPlans(plans)
	if err != nil {
		t.Fatalf("CheckPlans() error = %v", err)
	}
	if len(state.Uncommitted) != 2 {
		t.Fatalf("Uncommitted = %+v, want 2 plan files", state.Uncommitted)
	}
	got := map[string]Status{}
	for _, f := range state.Uncommitted {
		got[filepath.Base(f.Path)] = f.Status
	}
	if got["001_users.yaml"] != StatusModified || got["002_orders.js"] != StatusUntracked {
		t.Errorf("statuses = %v", got)
	}
	if state.RevisionLabel() != state.Revision+"+dirty" {
		t.Errorf("RevisionLabel() = %q", state.RevisionLabel())
	}
	if len(state.Warnings()) != 2 {
		t.Errorf("Warnings() = %v", state.Warnings())
	}
}

func TestCheckPlansOutsideRepo(t *testing.T) {
	state, err := CheckPlans(t.TempDir())
	if err != nil {
		t.Fatalf("CheckPlans() error = %v", err)
	}
	if state.InGitRepo || state.RevisionLabel() != "" || state.Dirty() {
		t.Errorf("state = %+v", state)
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		code string
		want Status
	}{
		{"??", StatusUntracked},
		{" M", StatusModified},
		{"MM", StatusModified},
		{"M ", StatusStaged},
		{"A ", StatusStaged},
		{" D", StatusDeleted},
		{"D ", StatusDeleted},
	}
	for _, tt := range tests {
		if got := parseStatus(tt.code); got != tt.want {
			t.Errorf("parseStatus(%q) = %s, want %s", tt.code, got, tt.want)
		}
	}
}
