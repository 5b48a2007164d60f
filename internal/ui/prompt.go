package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm writes a yes/no question to w and reads the answer from r.
// An empty answer selects defaultYes.
func Confirm(r io.Reader, w io.Writer, message string, defaultYes bool) bool {
	suffix := Dim(" (y/N)")
	if defaultYes {
		suffix = Dim(" (Y/n)")
	}
	fmt.Fprint(w, Warning("? ")+message+suffix+Primary(": "))

	line, _ := bufio.NewReader(r).ReadString('\n')
	input := strings.ToLower(strings.TrimSpace(line))
	if input == "" {
		return defaultYes
	}
	return input == "y" || input == "yes"
}
