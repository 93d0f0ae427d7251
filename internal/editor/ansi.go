package editor

import (
	"fmt"
	"io"
)

// The raw ANSI subset this package authors: cursor positioning,
// erase-to-end-of-line, erase-from-cursor-to-end-of-screen, and
// scroll-up-by-N. Rows and columns are zero-based on the Go side and
// translated to the terminal's 1-based convention here.

func moveCursor(w io.Writer, row, col int) {
	if row < 0 {
		row = 0
	}
	if col < 0 {
		col = 0
	}
	fmt.Fprintf(w, "\x1b[%d;%dH", row+1, col+1)
}

func eraseToEndOfLine(w io.Writer) {
	io.WriteString(w, "\x1b[K")
}

func eraseFromCursorDown(w io.Writer) {
	io.WriteString(w, "\x1b[J")
}

func scrollUp(w io.Writer, n int) {
	if n <= 0 {
		return
	}
	fmt.Fprintf(w, "\x1b[%dS", n)
}

func hideCursor(w io.Writer) {
	io.WriteString(w, "\x1b[?25l")
}

func showCursor(w io.Writer) {
	io.WriteString(w, "\x1b[?25h")
}
