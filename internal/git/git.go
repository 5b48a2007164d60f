// Package git reads the state of the repository holding the plan files, so
// an apply can record which revision of the plans it came from.
package git

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/hlop3z/oraddl/internal/alerr"
	"github.com/hlop3z/oraddl/internal/plan"
)

// Status represents the git status of a file.
type Status int

const (
	StatusUnknown Status = iota
	StatusUntracked
	StatusModified
	StatusStaged
	StatusCommitted
	StatusDeleted
)

var statusNames = [...]string{
	StatusUnknown:   "unknown",
	StatusUntracked: "untracked",
	StatusModified:  "modified",
	StatusStaged:    "staged",
	StatusCommitted: "committed",
	StatusDeleted:   "deleted",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return statusNames[StatusUnknown]
	}
	return statusNames[s]
}

// FileStatus holds the status of a specific file.
type FileStatus struct {
	Path   string
	Status Status
}

// Repo provides read-only git operations for a repository.
type Repo struct {
	rootDir string
}

// Open finds the repository containing path. It fails with ErrNotGitRepo
// when path is outside any work tree or git is not installed.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, alerr.Wrap(alerr.EInternalError, err, "failed to resolve path")
	}
	top, err := run(abs, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, alerr.New(alerr.ErrNotGitRepo, "not a git repository").
			With("path", abs)
	}
	return &Repo{rootDir: strings.TrimSpace(top)}, nil
}

// RootDir returns the root directory of the repository.
func (r *Repo) RootDir() string {
	return r.rootDir
}

// Revision returns the abbreviated hash of HEAD, or "" before the first commit.
func (r *Repo) Revision() string {
	out, err := r.runGit("rev-parse", "--short=12", "HEAD")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// UncommittedPlans returns the plan files under dir that differ from HEAD.
func (r *Repo) UncommittedPlans(dir string) ([]FileStatus, error) {
	relDir, err := r.relativePath(dir)
	if err != nil {
		return nil, nil
	}

	// -uall lists files inside untracked directories.
	status, err := r.runGit("status", "--porcelain", "-uall", "--", relDir)
	if err != nil {
		return nil, err
	}

	var files []FileStatus
	for line := range strings.Lines(status) {
		line = strings.TrimRight(line, "\n")
		if len(strings.TrimSpace(line)) < 4 {
			continue
		}

		// "XY path" or "XY old -> new"
		code, path := line[:2], strings.TrimSpace(line[3:])
		if _, renamed, ok := strings.Cut(path, " -> "); ok {
			path = renamed
		}
		if !plan.IsPlanFile(path) {
			continue
		}

		files = append(files, FileStatus{
			Path:   filepath.Join(r.rootDir, filepath.FromSlash(path)),
			Status: parseStatus(code),
		})
	}
	return files, nil
}

func parseStatus(code string) Status {
	switch {
	case code[0] == '?' || code[1] == '?':
		return StatusUntracked
	case code[0] == 'D' || code[1] == 'D':
		return StatusDeleted
	case code[1] == 'M':
		return StatusModified
	case code[0] == 'M' || code[0] == 'A' || code[0] == 'R':
		return StatusStaged
	}
	return StatusModified
}

// relativePath returns the path relative to the repository root.
func (r *Repo) relativePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	relPath, err := filepath.Rel(r.rootDir, absPath)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(relPath), nil
}

func (r *Repo) runGit(args ...string) (string, error) {
	return run(r.rootDir, args...)
}

// run executes git in dir and returns stdout. Failures carry git's stderr
// as the message.
func run(dir string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Stdout, cmd.Stderr = &stdout, &stderr

	if err := cmd.Run(); err != nil {
		return "", alerr.Wrap(alerr.ErrGitOperation, err, strings.TrimSpace(stderr.String())).
			With("command", "git "+strings.Join(args, " "))
	}
	return stdout.String(), nil
}
