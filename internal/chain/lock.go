package chain

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hlop3z/oraddl/internal/alerr"
)

// LockVersion is the current lockfile format version.
const LockVersion = 1

// LockSuffix is appended to a script path to name its lockfile.
const LockSuffix = ".lock"

// Lock is the checksum record written next to a generated script.
type Lock struct {
	Version  int         `yaml:"version"`
	Script   string      `yaml:"script"`
	Root     string      `yaml:"root"`
	Commands []LockEntry `yaml:"commands"`
}

// LockEntry records one command's checksum.
type LockEntry struct {
	Index    int    `yaml:"index"`
	Kind     string `yaml:"kind,omitempty"`
	Checksum string `yaml:"checksum"`
}

// LockPath returns the lockfile path for a script.
func LockPath(scriptPath string) string {
	return scriptPath + LockSuffix
}

// Lock returns the lockfile content for the chain.
func (c *Chain) Lock(scriptPath string) *Lock {
	l := &Lock{
		Version:  LockVersion,
		Script:   filepath.Base(scriptPath),
		Root:     c.Root,
		Commands: make([]LockEntry, len(c.Links)),
	}
	for i, link := range c.Links {
		l.Commands[i] = LockEntry{Index: link.Index, Kind: link.Kind, Checksum: link.Checksum}
	}
	return l
}

// WriteLock writes l as YAML to path.
func WriteLock(path string, l *Lock) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return alerr.Wrap(alerr.EInternalError, err, "failed to encode lockfile")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return alerr.Wrap(alerr.ErrScriptRead, err, "failed to write lockfile").
			WithFile(path, 0)
	}
	return nil
}

// ReadLock reads a lockfile. Returns nil if the file does not exist.
func ReadLock(path string) (*Lock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, alerr.Wrap(alerr.ErrScriptRead, err, "failed to read lockfile").
			WithFile(path, 0)
	}

	var l Lock
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, alerr.Wrap(alerr.ErrScriptRead, err, "failed to parse lockfile").
			WithFile(path, 0)
	}
	if l.Version != LockVersion {
		return nil, alerr.New(alerr.ErrScriptRead, fmt.Sprintf("unsupported lockfile version %d", l.Version)).
			WithFile(path, 0).
			WithHelp("regenerate the script with `oraddl generate`")
	}
	return &l, nil
}

// -----------------------------------------------------------------------------
// Verification
// -----------------------------------------------------------------------------

// ErrorType categorizes chain errors.
type ErrorType int

const (
	ErrorTampered ErrorType = iota // Command text changed after generation
	ErrorMissing                   // Locked command is absent from the script
	ErrorExtra                     // Script has a command the lock does not know
)

// String returns a short label for the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrorTampered:
		return "tampered"
	case ErrorMissing:
		return "missing"
	case ErrorExtra:
		return "extra"
	}
	return "unknown"
}

// ChainError is one verification finding.
type ChainError struct {
	Type    ErrorType
	Index   int
	Message string
	Details string
}

// VerificationResult is the outcome of comparing a script to its lock.
type VerificationResult struct {
	Valid    bool
	Root     string // computed root
	LockRoot string
	Verified int // commands whose checksums match
	Errors   []ChainError
}

// Verify compares the chain against a lock. Only the first changed command
// is reported as tampered: every later checksum depends on it.
func (c *Chain) Verify(l *Lock) *VerificationResult {
	result := &VerificationResult{Valid: true, Root: c.Root, LockRoot: l.Root}

	n := min(len(c.Links), len(l.Commands))
	for i := 0; i < n; i++ {
		link, entry := c.Links[i], l.Commands[i]
		if link.Checksum == entry.Checksum {
			result.Verified++
			continue
		}
		result.Valid = false
		result.Errors = append(result.Errors, ChainError{
			Type:    ErrorTampered,
			Index:   i,
			Message: fmt.Sprintf("Command %d was modified after generation", i+1),
			Details: fmt.Sprintf("Expected checksum: %s\nActual checksum: %s", entry.Checksum, link.Checksum),
		})
		break
	}

	for i := len(c.Links); i < len(l.Commands); i++ {
		result.Valid = false
		result.Errors = append(result.Errors, ChainError{
			Type:    ErrorMissing,
			Index:   i,
			Message: fmt.Sprintf("Command %d is missing from the script", i+1),
			Details: fmt.Sprintf("Kind: %s", l.Commands[i].Kind),
		})
	}
	for i := len(l.Commands); i < len(c.Links); i++ {
		result.Valid = false
		result.Errors = append(result.Errors, ChainError{
			Type:    ErrorExtra,
			Index:   i,
			Message: fmt.Sprintf("Command %d is not in the lockfile", i+1),
		})
	}

	if c.Root != l.Root && result.Valid {
		result.Valid = false
		result.Errors = append(result.Errors, ChainError{
			Type:    ErrorTampered,
			Index:   -1,
			Message: "Script root does not match the lockfile",
			Details: fmt.Sprintf("Expected root: %s\nActual root: %s", l.Root, c.Root),
		})
	}
	return result
}

// Err converts a failed result into an ErrScriptChecksum error.
func (r *VerificationResult) Err() error {
	if r.Valid {
		return nil
	}
	e := alerr.New(alerr.ErrScriptChecksum, "script does not match its lockfile").
		With("errors", len(r.Errors))
	if len(r.Errors) > 0 && r.Errors[0].Index >= 0 {
		e.With("index", r.Errors[0].Index)
	}
	return e.WithHelp("regenerate the script instead of editing it by hand")
}
