// Package cli provides compiler-style diagnostics and progress output for the
// oraddl command. It decides between colored, plain and JSON output from the
// terminal and environment.
package cli

import (
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

// OutputMode selects the rendering of diagnostics and results.
type OutputMode int

const (
	// ModeTTY renders colors and redraws progress lines in place.
	ModeTTY OutputMode = iota
	// ModePlain renders uncolored, append-only text.
	ModePlain
	// ModeJSON is selected by --json; commands print one JSON document.
	ModeJSON
)

// Config is the process-wide output setting.
type Config struct {
	Mode OutputMode
}

// DefaultConfig detects the mode for stdout. NO_COLOR and TERM=dumb force
// plain output even on a terminal.
func DefaultConfig() *Config {
	return &Config{Mode: detectMode(os.Stdout)}
}

func detectMode(f *os.File) OutputMode {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return ModePlain
	}
	fd := f.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return ModeTTY
	}
	return ModePlain
}

// NewConfigWithMode returns a config fixed to mode.
func NewConfigWithMode(mode OutputMode) *Config {
	return &Config{Mode: mode}
}

func (c *Config) IsTTY() bool  { return c.Mode == ModeTTY }
func (c *Config) IsJSON() bool { return c.Mode == ModeJSON }

var (
	defaultMu  sync.Mutex
	defaultCfg *Config
)

// Default returns the process-wide config, detecting it on first use.
func Default() *Config {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultCfg == nil {
		defaultCfg = DefaultConfig()
	}
	return defaultCfg
}

// SetDefault replaces the process-wide config.
func SetDefault(cfg *Config) {
	defaultMu.Lock()
	defaultCfg = cfg
	defaultMu.Unlock()
}

// EnableColors reports whether styled output is on.
func EnableColors() bool {
	return Default().IsTTY()
}

// WriteJSON encodes v to w with two-space indentation.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
