// Package script reads and writes generated scripts in the SQL*Plus layout:
// each command is followed by a line holding only "/".
package script

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/hlop3z/oraddl/internal/alerr"
)

// Separator ends every command in a script file.
const Separator = "/"

// Render joins command texts into a script.
func Render(commands []string) string {
	var b strings.Builder
	for i, c := range commands {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.TrimRight(c, " \t\r\n"))
		b.WriteString("\n")
		b.WriteString(Separator)
		b.WriteString("\n")
	}
	return b.String()
}

// Parse splits a script back into command texts. Text after the last
// separator is kept as a final command. Blank chunks are dropped.
func Parse(text string) []string {
	commands := []string{}
	var cur []string

	flush := func() {
		chunk := strings.TrimSpace(strings.Join(cur, "\n"))
		if chunk != "" {
			commands = append(commands, chunk)
		}
		cur = cur[:0]
	}

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if strings.TrimSpace(line) == Separator {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return commands
}

// WriteFile renders commands to path, creating parent directories. The file
// is written to a temporary sibling and renamed into place.
func WriteFile(path string, commands []string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return alerr.Wrap(alerr.ErrScriptRead, err, "cannot create script directory").
				With("path", dir)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(Render(commands)), 0o644); err != nil {
		return alerr.Wrap(alerr.ErrScriptRead, err, "cannot write script").
			WithFile(path, 0)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return alerr.Wrap(alerr.ErrScriptRead, err, "cannot write script").
			WithFile(path, 0)
	}
	return nil
}

// ReadFile parses the script at path.
func ReadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, alerr.Wrap(alerr.ErrScriptRead, err, "cannot read script").
			WithFile(path, 0)
	}
	return Parse(string(data)), nil
}
