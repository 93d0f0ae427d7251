package editor

import (
	"unicode"
	"unicode/utf8"

	"github.com/mbeacom/duplex/internal/grapheme"
	"github.com/mbeacom/duplex/internal/keys"
)

// handleKey dispatches one decoded key event. It returns (Event, true)
// for the five keys that surface a high-level event to the embedder;
// every other key is handled entirely within the viewport/buffer and
// returns (Event{}, false).
func (e *Editor) handleKey(kv keys.Event) (Event, bool) {
	switch kv.Key {
	case keys.KeyRune:
		e.insertRune(kv.Rune)
	case keys.KeyTab:
		e.insertRune('\t')
	case keys.KeyEnter:
		e.splitLine()
	case keys.KeyBackspace:
		e.backspace()
	case keys.KeyDelete:
		e.deleteForward()
	case keys.KeyLeft:
		e.moveLeft()
	case keys.KeyRight:
		e.moveRight()
	case keys.KeyUp:
		e.moveUp(1)
	case keys.KeyDown:
		e.moveDown(1)
	case keys.KeyHome, keys.KeyCtrlA:
		e.moveHome()
	case keys.KeyEnd, keys.KeyCtrlE:
		e.moveEnd()
	case keys.KeyPageUp:
		e.moveUp(e.pageSize())
	case keys.KeyPageDown:
		e.moveDown(e.pageSize())
	case keys.KeyCtrlLeft:
		e.moveWordLeft()
	case keys.KeyCtrlRight:
		e.moveWordRight()
	case keys.KeyCtrlUp:
		e.resizeSplit(-3)
	case keys.KeyCtrlDown:
		e.resizeSplit(3)
	case keys.KeyCtrlPageUp:
		e.handleCtrlPageUp()
	case keys.KeyCtrlPageDown:
		e.handleCtrlPageDown()
	case keys.KeyEsc:
		if e.hbActive {
			e.exitScrollback()
		}
	case keys.KeyCtrlL:
		e.printx, e.printy = 0, 0
		e.fullRedraw()
	case keys.KeyCtrlU:
		e.killToStart()
	case keys.KeyCtrlC:
		return Event{Kind: EventCtrlC}, true
	case keys.KeyCtrlD:
		return Event{Kind: EventCtrlD}, true
	case keys.KeyCtrlQ:
		return Event{Kind: EventCtrlQ}, true
	case keys.KeyCtrlX:
		return Event{Kind: EventCtrlX}, true
	case keys.KeyCtrlS:
		return Event{Kind: EventCtrlS}, true
	}
	return Event{}, false
}

// setpos establishes a valid viewport (lofs, curx, cury) for the current
// cursor position, advancing lofs until the caret fits on screen.
func (e *Editor) setpos() {
	cur := e.tb.Cursor()
	line := e.tb.Line(cur.Line)

	if e.looseCursor {
		threshold := e.lofs + e.sizey*longLineHeuristicFactor
		if cur.Byte < threshold {
			e.lofs = 0
		} else {
			e.lofs = grapheme.BoundaryAt(line, e.lofs)
		}
		e.looseCursor = false
	}
	if cur.Byte < e.lofs {
		e.lofs = 0
	}
	for e.expandedWidth(line, e.lofs, cur.Byte) > e.sizex-1 {
		e.lofs = grapheme.Next(line, e.lofs)
	}
	e.curx = e.expandedWidth(line, e.lofs, cur.Byte)
	e.cury = e.printlines + 2 + (cur.Line - e.scrollstart)
}

// expandedWidth returns the display width of line[lofs:to] with tab
// expansion applied relative to the prefix before lofs, using the same
// base formula renderLine renders with so the caret lands on the cell
// the glyph actually occupies.
func (e *Editor) expandedWidth(line string, lofs, to int) int {
	base := grapheme.Width(line[:lofs]) % e.tabstop
	w := 0
	for pos := lofs; pos < to; pos = grapheme.Next(line, pos) {
		if grapheme.At(line, pos) == "\t" {
			w += e.tabstop - ((w + base) % e.tabstop)
		} else {
			w += grapheme.Width(grapheme.At(line, pos))
		}
	}
	return w
}

// ensureCursorVisible adjusts scrollstart minimally so the cursor's line
// is within the visible edit-pane rows.
func (e *Editor) ensureCursorVisible() {
	line := e.tb.Cursor().Line
	rows := e.editRows()
	if line < e.scrollstart {
		e.scrollstart = line
	} else if rows > 0 && line >= e.scrollstart+rows {
		e.scrollstart = line - rows + 1
	}
	if e.scrollstart < 0 {
		e.scrollstart = 0
	}
}

func (e *Editor) fullRedraw() {
	e.ensureCursorVisible()
	e.setpos()
	e.redraw()
}

func (e *Editor) insertRune(r rune) {
	e.tb.Insert(string(r))
	e.looseCursor = false
	e.setpos()
	e.redrawLine(e.tb.Cursor().Line)
}

func (e *Editor) splitLine() {
	e.tb.SplitAtCursor()
	e.looseCursor = false
	e.fullRedraw()
}

func (e *Editor) backspace() {
	before := e.tb.Cursor().Line
	e.tb.Backspace()
	e.looseCursor = false
	if e.tb.Cursor().Line != before {
		e.fullRedraw()
		return
	}
	e.setpos()
	e.redrawLine(e.tb.Cursor().Line)
}

func (e *Editor) deleteForward() {
	before := e.tb.LineCount()
	e.tb.Delete()
	e.looseCursor = false
	if e.tb.LineCount() != before {
		e.fullRedraw()
		return
	}
	e.setpos()
	e.redrawLine(e.tb.Cursor().Line)
}

func (e *Editor) killToStart() {
	e.tb.KillToStart()
	e.looseCursor = false
	e.setpos()
	e.redrawLine(e.tb.Cursor().Line)
}

func (e *Editor) moveLeft() {
	cur := e.tb.Cursor()
	line := e.tb.Line(cur.Line)
	if cur.Byte > 0 {
		e.tb.SetCursor(cur.Line, grapheme.Prev(line, cur.Byte))
	} else if cur.Line > 0 {
		e.tb.SetCursor(cur.Line-1, len(e.tb.Line(cur.Line-1)))
	}
	e.looseCursor = false
	e.setpos()
	moveCursor(e.out, e.cury, e.curx)
}

func (e *Editor) moveRight() {
	cur := e.tb.Cursor()
	line := e.tb.Line(cur.Line)
	if cur.Byte < len(line) {
		e.tb.SetCursor(cur.Line, grapheme.Next(line, cur.Byte))
	} else if cur.Line+1 < e.tb.LineCount() {
		e.tb.SetCursor(cur.Line+1, 0)
	}
	e.looseCursor = false
	e.setpos()
	moveCursor(e.out, e.cury, e.curx)
}

func (e *Editor) moveHome() {
	cur := e.tb.Cursor()
	e.tb.SetCursor(cur.Line, 0)
	e.lofs = 0
	e.looseCursor = false
	e.setpos()
	moveCursor(e.out, e.cury, e.curx)
}

func (e *Editor) moveEnd() {
	cur := e.tb.Cursor()
	e.tb.SetCursor(cur.Line, len(e.tb.Line(cur.Line)))
	e.looseCursor = false
	e.setpos()
	moveCursor(e.out, e.cury, e.curx)
}

func graphemeIsSpace(line string, pos int) bool {
	g := grapheme.At(line, pos)
	if g == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(g)
	return unicode.IsSpace(r)
}

// moveWordLeft: skip whitespace then non-whitespace, crossing a line
// boundary when the current start is reached.
func (e *Editor) moveWordLeft() {
	cur := e.tb.Cursor()
	line := e.tb.Line(cur.Line)
	pos := cur.Byte

	if pos == 0 {
		if cur.Line > 0 {
			e.tb.SetCursor(cur.Line-1, len(e.tb.Line(cur.Line-1)))
		}
		e.looseCursor = false
		e.setpos()
		moveCursor(e.out, e.cury, e.curx)
		return
	}
	for pos > 0 && graphemeIsSpace(line, grapheme.Prev(line, pos)) {
		pos = grapheme.Prev(line, pos)
	}
	for pos > 0 && !graphemeIsSpace(line, grapheme.Prev(line, pos)) {
		pos = grapheme.Prev(line, pos)
	}
	e.tb.SetCursor(cur.Line, pos)
	e.looseCursor = false
	e.setpos()
	moveCursor(e.out, e.cury, e.curx)
}

// moveWordRight: skip non-whitespace then whitespace, crossing a line
// boundary when the current end is reached.
func (e *Editor) moveWordRight() {
	cur := e.tb.Cursor()
	line := e.tb.Line(cur.Line)
	pos := cur.Byte
	n := len(line)

	if pos >= n {
		if cur.Line+1 < e.tb.LineCount() {
			e.tb.SetCursor(cur.Line+1, 0)
		}
		e.looseCursor = false
		e.setpos()
		moveCursor(e.out, e.cury, e.curx)
		return
	}
	for pos < n && !graphemeIsSpace(line, pos) {
		pos = grapheme.Next(line, pos)
	}
	for pos < n && graphemeIsSpace(line, pos) {
		pos = grapheme.Next(line, pos)
	}
	e.tb.SetCursor(cur.Line, pos)
	e.looseCursor = false
	e.setpos()
	moveCursor(e.out, e.cury, e.curx)
}

// moveDown moves the cursor down num lines, collapsing the caret to
// column 0 on the destination line. Scrolling is allowed to continue
// past the bottom of a full buffer: once the cursor is pinned on the
// last line, each further press keeps advancing scrollstart, so the
// last line creeps toward the top pane row instead of the key going
// dead. Only when scrollstart itself reaches the last line does Down
// degrade to an end-of-line move.
func (e *Editor) moveDown(num int) {
	e.looseCursor = true
	cur := e.tb.Cursor()
	last := e.tb.LineCount() - 1

	if cur.Line == last && e.scrollstart == last {
		e.tb.SetCursor(cur.Line, len(e.tb.Line(cur.Line)))
		e.setpos()
		e.redrawLine(cur.Line)
		return
	}

	// The scrollstart calculation sometimes uses a virtual line index:
	// the line number that would be printed on the bottom screen row.
	// The switch occurs when the real bottom line rises above the
	// bottom of the screen.
	t := e.sizey + 2 - (e.cury + e.printlines)
	if t < 0 {
		t = 0
	}
	var virtidx int
	if e.scrollstart <= t {
		virtidx = e.cury - e.printlines - 2
	} else {
		virtidx = e.scrollstart + (e.sizey - e.printlines) - 3
	}

	newLine := cur.Line + num
	if newLine > last {
		newLine = last
	}
	if e.cury+num > e.sizey-1 || newLine == last {
		var s int
		if num > 10 {
			// Page jump: move scrollstart the whole distance.
			s = e.scrollstart + num
		} else {
			// Line step: minimum scrollstart keeping the virtual
			// bottom line on screen.
			s = virtidx + num + e.printlines + 3 - e.sizey
		}
		if s < 0 {
			s = 0
		}
		if s > newLine {
			s = newLine
		}
		e.scrollstart = s
	}

	e.tb.SetCursor(newLine, 0)
	e.setpos()
	e.redraw()
}

// moveUp moves the cursor up num lines, scrolling scrollstart back when
// the caret already sits on the top pane row.
func (e *Editor) moveUp(num int) {
	e.looseCursor = true
	cur := e.tb.Cursor()

	if cur.Line == 0 && e.scrollstart == 0 {
		e.lofs = 0
		e.tb.SetCursor(0, 0)
		e.setpos()
		e.redrawLine(0)
		return
	}

	newLine := cur.Line - num
	if newLine < 0 {
		newLine = 0
	}
	if e.cury == e.printlines+2 || newLine < e.scrollstart {
		e.scrollstart -= num
		if e.scrollstart < 0 {
			e.scrollstart = 0
		}
	}
	if e.scrollstart > newLine {
		e.scrollstart = newLine
	}

	e.tb.SetCursor(newLine, 0)
	e.setpos()
	e.redraw()
}

// resizeSplit changes printlines by delta (Ctrl-Up shrinks by 3,
// Ctrl-Down grows by 3), clamps it, and fully redraws.
func (e *Editor) resizeSplit(delta int) {
	e.printlines = clampPrintlines(e.printlines+delta, e.sizey)
	e.fullRedraw()
}
