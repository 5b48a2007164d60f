package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/hlop3z/oraddl/internal/ui"
)

// Spinner provides an animated spinner for indeterminate operations.
type Spinner struct {
	message string
	writer  io.Writer
	active  bool
	done    chan struct{}
	mu      sync.Mutex
	frames  []string
	current int
}

// SpinnerFrames are the animation frames for the spinner.
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a new spinner writing to stderr.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		writer:  os.Stderr,
		frames:  SpinnerFrames,
	}
}

// Start begins the spinner animation. Without colors the message is
// printed once instead.
func (s *Spinner) Start() {
	if !EnableColors() {
		fmt.Fprintf(s.writer, "%s...\n", s.message)
		return
	}

	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.done = make(chan struct{})
	s.mu.Unlock()

	go s.spin()
}

func (s *Spinner) spin() {
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			frame := Progress(s.frames[s.current])
			msg := s.message
			s.current = (s.current + 1) % len(s.frames)
			s.mu.Unlock()

			fmt.Fprintf(s.writer, "\r%s %s", frame, msg)
		}
	}
}

// Stop stops the spinner and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	close(s.done)
	width := len(s.message) + 10
	s.mu.Unlock()

	fmt.Fprintf(s.writer, "\r%s\r", strings.Repeat(" ", width))
}

// StopWithSuccess stops the spinner with a success message.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	fmt.Fprintln(s.writer, Done("✓")+" "+message)
}

// StopWithError stops the spinner with an error message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	fmt.Fprintln(s.writer, Failed("✗")+" "+message)
}

// CommandProgress reports the commands of a script as they execute, one
// line per command.
type CommandProgress struct {
	w       io.Writer
	labels  []string
	index   int
	started time.Time
	elapsed time.Duration
	ok      int
	failed  int
}

// NewCommandProgress creates a progress report for commands named by labels.
func NewCommandProgress(w io.Writer, labels []string) *CommandProgress {
	return &CommandProgress{w: w, labels: labels}
}

// Start announces command index.
func (p *CommandProgress) Start(index int) {
	p.index = index
	p.started = time.Now()

	prefix := fmt.Sprintf("  [%d/%d] %s", index+1, len(p.labels), p.labels[index])
	if EnableColors() {
		fmt.Fprint(p.w, prefix+" ")
		return
	}
	fmt.Fprintln(p.w, prefix+"...")
}

// Complete marks the current command as executed.
func (p *CommandProgress) Complete() {
	d := p.finish()
	p.ok++
	if EnableColors() {
		fmt.Fprintf(p.w, "%s %s (%s)\n", p.leader(), Done("done"), ui.FormatDuration(d))
	}
}

// Failed marks the current command as failed.
func (p *CommandProgress) Failed(err error) {
	d := p.finish()
	p.failed++
	if EnableColors() {
		fmt.Fprintf(p.w, "%s %s (%s)\n", p.leader(), Failed("failed"), ui.FormatDuration(d))
		return
	}
	fmt.Fprintf(p.w, "    FAILED: %v\n", err)
}

// Summary prints how many commands ran and the time they took.
func (p *CommandProgress) Summary() {
	line := fmt.Sprintf("Executed %d of %d commands", p.ok, len(p.labels))
	if p.failed > 0 {
		line += fmt.Sprintf(", %d failed", p.failed)
	}
	fmt.Fprintf(p.w, "\n%s in %s\n", line, ui.FormatDuration(p.elapsed))
}

func (p *CommandProgress) finish() time.Duration {
	d := time.Since(p.started)
	p.elapsed += d
	return d
}

// leader pads the label column with dots.
func (p *CommandProgress) leader() string {
	return strings.Repeat(".", max(40-len(p.labels[p.index]), 1))
}
