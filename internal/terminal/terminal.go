// Package terminal provides small helpers for interactive terminal output.
package terminal

import (
	"fmt"
	"io"
	"math"
	"os"
	"unicode/utf8"

	"golang.org/x/term"
)

// IsInteractive reports whether stdout and stdin are both attached to a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

// Width returns the terminal width, or 80 when it cannot be determined.
func Width() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// LinesFor returns how many terminal rows text of textLength characters
// occupies at width.
func LinesFor(textLength, width int) int {
	if width <= 0 {
		width = 80
	}
	lines := int(math.Ceil(float64(textLength) / float64(width)))
	if lines < 1 {
		lines = 1
	}
	return lines
}

// Rows returns how many terminal rows the printed lines occupy at width.
func Rows(width int, lines ...string) int {
	rows := 0
	for _, l := range lines {
		rows += LinesFor(utf8.RuneCountInString(l), width)
	}
	return rows
}

// ClearPreviousLines erases the given previously printed lines, including the
// empty line the cursor moved to afterwards.
func ClearPreviousLines(w io.Writer, lines ...string) {
	linesToClear := Rows(Width(), lines...) + 1
	for i := 0; i < linesToClear; i++ {
		fmt.Fprint(w, "\r\x1b[2K")
		if i < linesToClear-1 {
			fmt.Fprint(w, "\x1b[1A")
		}
	}
}
