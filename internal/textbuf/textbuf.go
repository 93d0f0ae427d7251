// Package textbuf implements the editor's logical line buffer: an
// ordered sequence of logical lines (no embedded
// newlines) with a (line, byte) cursor that always sits on a
// grapheme-cluster boundary.
package textbuf

import (
	"strings"

	"github.com/mbeacom/duplex/internal/grapheme"
)

// Cursor is a logical (line, byte) position. Byte is always a grapheme
// boundary of Lines()[Line], or equal to its length.
type Cursor struct {
	Line int
	Byte int
}

// Buffer holds the logical lines and cursor. The zero value is not
// usable; construct with New.
type Buffer struct {
	lines []string
	cur   Cursor
}

// New splits content on "\n" into logical lines. An empty content yields
// a single empty line; a Buffer never has zero lines.
func New(content string) *Buffer {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}
	return &Buffer{lines: lines}
}

// Text rejoins the logical lines with "\n", the inverse of New.
func (b *Buffer) Text() string {
	return strings.Join(b.lines, "\n")
}

// LineCount returns the number of logical lines.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Line returns the logical line at i.
func (b *Buffer) Line(i int) string {
	return b.lines[i]
}

// Cursor returns the current cursor position.
func (b *Buffer) Cursor() Cursor {
	return b.cur
}

// SetCursor moves the cursor to (line, byteIdx), clamping line into
// range and snapping byteIdx to the nearest grapheme boundary of the
// target line. Out-of-range indices self-heal rather
// than error.
func (b *Buffer) SetCursor(line, byteIdx int) {
	if line < 0 {
		line = 0
	}
	if line >= len(b.lines) {
		line = len(b.lines) - 1
	}
	l := b.lines[line]
	if byteIdx < 0 {
		byteIdx = 0
	}
	if byteIdx > len(l) {
		byteIdx = len(l)
	}
	b.cur = Cursor{Line: line, Byte: grapheme.BoundaryAt(l, byteIdx)}
}

// Insert inserts s at the cursor and advances the cursor by the length
// of the first grapheme cluster in s. This matches the
// one-grapheme-per-call usage from the key handler: each printable key
// event yields one already-assembled grapheme.
func (b *Buffer) Insert(s string) {
	if s == "" {
		return
	}
	line := b.lines[b.cur.Line]
	pos := grapheme.BoundaryAt(line, b.cur.Byte)
	b.lines[b.cur.Line] = line[:pos] + s + line[pos:]

	adv := len(grapheme.At(s, 0))
	if adv == 0 {
		adv = len(s)
	}
	b.cur.Byte = pos + adv
}

// Backspace deletes the grapheme ending at the cursor, or joins the
// current line onto the previous one if the cursor is at column 0, or is
// a no-op at the very start of the buffer.
func (b *Buffer) Backspace() {
	if b.cur.Byte > 0 {
		line := b.lines[b.cur.Line]
		start := grapheme.Prev(line, b.cur.Byte)
		b.lines[b.cur.Line] = line[:start] + line[b.cur.Byte:]
		b.cur.Byte = start
		return
	}
	if b.cur.Line > 0 {
		prev := b.lines[b.cur.Line-1]
		cur := b.lines[b.cur.Line]
		joinAt := len(prev)
		b.lines[b.cur.Line-1] = prev + cur
		b.lines = append(b.lines[:b.cur.Line], b.lines[b.cur.Line+1:]...)
		b.cur.Line--
		b.cur.Byte = joinAt
	}
}

// Delete deletes the grapheme starting at the cursor, or joins the next
// line onto the current one if the cursor is at end-of-line, or is a
// no-op at the very end of the buffer.
func (b *Buffer) Delete() {
	line := b.lines[b.cur.Line]
	if b.cur.Byte < len(line) {
		end := grapheme.Next(line, b.cur.Byte)
		b.lines[b.cur.Line] = line[:b.cur.Byte] + line[end:]
		return
	}
	if b.cur.Line+1 < len(b.lines) {
		next := b.lines[b.cur.Line+1]
		b.lines[b.cur.Line] = line + next
		b.lines = append(b.lines[:b.cur.Line+1], b.lines[b.cur.Line+2:]...)
	}
}

// SplitAtCursor inserts a new line holding everything after the cursor,
// truncates the current line to everything before it, and moves the
// cursor to the start of the new line.
func (b *Buffer) SplitAtCursor() {
	line := b.lines[b.cur.Line]
	pos := grapheme.BoundaryAt(line, b.cur.Byte)
	before, after := line[:pos], line[pos:]

	newLines := make([]string, 0, len(b.lines)+1)
	newLines = append(newLines, b.lines[:b.cur.Line]...)
	newLines = append(newLines, before, after)
	newLines = append(newLines, b.lines[b.cur.Line+1:]...)
	b.lines = newLines

	b.cur.Line++
	b.cur.Byte = 0
}

// KillToStart drops line[0:byteidx] and moves the cursor to column 0.
func (b *Buffer) KillToStart() {
	line := b.lines[b.cur.Line]
	pos := grapheme.BoundaryAt(line, b.cur.Byte)
	b.lines[b.cur.Line] = line[pos:]
	b.cur.Byte = 0
}
