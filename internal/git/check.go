package git

import (
	"fmt"
	"path/filepath"
)

// PlanState describes the plan files an apply is about to use.
type PlanState struct {
	InGitRepo   bool
	Revision    string // abbreviated HEAD hash, "" outside a repository
	Uncommitted []FileStatus
}

// Dirty reports whether any plan file differs from the recorded revision.
func (s *PlanState) Dirty() bool {
	return len(s.Uncommitted) > 0
}

// RevisionLabel returns the revision with a "+dirty" suffix when plan files
// are uncommitted, or "" outside a repository.
func (s *PlanState) RevisionLabel() string {
	if !s.InGitRepo || s.Revision == "" {
		return ""
	}
	if s.Dirty() {
		return s.Revision + "+dirty"
	}
	return s.Revision
}

// Warnings returns one line per uncommitted plan file.
func (s *PlanState) Warnings() []string {
	out := make([]string, 0, len(s.Uncommitted))
	for _, f := range s.Uncommitted {
		out = append(out, fmt.Sprintf("%s plan file: %s", f.Status, filepath.Base(f.Path)))
	}
	return out
}

// CheckPlans inspects the repository holding dir. Being outside a
// repository is not an error; the returned state just says so.
func CheckPlans(dir string) (*PlanState, error) {
	repo, err := Open(dir)
	if err != nil {
		return &PlanState{}, nil
	}

	state := &PlanState{InGitRepo: true, Revision: repo.Revision()}
	uncommitted, err := repo.UncommittedPlans(dir)
	if err != nil {
		return nil, err
	}
	state.Uncommitted = uncommitted
	return state, nil
}
