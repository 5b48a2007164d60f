package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// SourceSnippet is a numbered excerpt of a plan file or SQL statement.
type SourceSnippet struct {
	StartLine int
	Lines     []string
	Marks     []int // lines that get a pointer underneath
	Truncated bool  // more lines follow the excerpt
}

// NewSourceSnippet reads the lines around targetLine from file.
func NewSourceSnippet(file string, targetLine, contextBefore, contextAfter int) (*SourceSnippet, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	startLine := max(targetLine-contextBefore, 1)
	endLine := targetLine + contextAfter

	var lines []string
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum > endLine {
			break
		}
		if lineNum >= startLine {
			lines = append(lines, scanner.Text())
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if targetLine > lineNum {
		return nil, fmt.Errorf("line %d is past the end of %s", targetLine, file)
	}

	return &SourceSnippet{StartLine: startLine, Lines: lines, Marks: []int{targetLine}}, nil
}

// NewTextSnippet keeps the first maxLines lines of text.
func NewTextSnippet(text string, maxLines int) *SourceSnippet {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	s := &SourceSnippet{StartLine: 1, Lines: lines}
	if maxLines > 0 && len(lines) > maxLines {
		s.Lines = lines[:maxLines]
		s.Truncated = true
	}
	return s
}

// Render renders the snippet with a gutter and pointers under marked lines.
func (s *SourceSnippet) Render() string {
	if len(s.Lines) == 0 {
		return ""
	}

	var b strings.Builder
	width := len(fmt.Sprintf("%d", s.StartLine+len(s.Lines)-1))
	gutter := strings.Repeat(" ", width) + " " + Pipe()

	b.WriteString(gutter + "\n")
	for i, line := range s.Lines {
		n := s.StartLine + i
		b.WriteString(LineNum(fmt.Sprintf("%*d", width, n)))
		b.WriteString(" " + Pipe() + " " + line + "\n")

		if s.marked(n) {
			text := strings.TrimLeft(line, " \t")
			indent := len(line) - len(text)
			b.WriteString(gutter + " " + strings.Repeat(" ", indent))
			b.WriteString(Pointer(strings.Repeat("^", max(len(text), 1))))
			b.WriteString("\n")
		}
	}
	if s.Truncated {
		b.WriteString(gutter + " " + Dim("...") + "\n")
	}
	return b.String()
}

func (s *SourceSnippet) marked(line int) bool {
	for _, m := range s.Marks {
		if m == line {
			return true
		}
	}
	return false
}

// RenderFileHeader renders the location header, e.g. "--> plans/001.yaml:15".
func RenderFileHeader(file string, line int) string {
	loc := file
	if line > 0 {
		loc = fmt.Sprintf("%s:%d", file, line)
	}
	return "  " + Arrow() + " " + FilePath(loc) + "\n"
}
