package editor

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/mbeacom/duplex/internal/grapheme"
)

// withRenderGuard runs fn while asserting no other render is already in
// flight. In this single-threaded core that can only happen if a
// handler re-enters rendering from inside itself, a correctness bug.
// It is logged rather than surfaced since there is no caller to return
// an error to mid-render.
func (e *Editor) withRenderGuard(fn func()) {
	if e.rendering {
		e.log.Printf("render contention detected")
		return
	}
	e.rendering = true
	defer func() { e.rendering = false }()
	fn()
}

// redraw repaints the separator and the entire visible edit pane, then
// restores the caret.
func (e *Editor) redraw() {
	e.withRenderGuard(func() {
		hideCursor(e.out)
		defer showCursor(e.out)

		moveCursor(e.out, e.printlines, 0)
		eraseFromCursorDown(e.out)
		e.writeSeparator()

		rows := e.editRows()
		cur := e.tb.Cursor().Line
		for i := 0; i < rows; i++ {
			lineidx := e.scrollstart + i
			if lineidx >= e.tb.LineCount() {
				break
			}
			row := e.printlines + 2 + i
			if lineidx == cur {
				e.renderLine(row, lineidx, e.lofs, true)
			} else {
				e.renderLine(row, lineidx, 0, false)
			}
		}
		moveCursor(e.out, e.cury, e.curx)
	})
}

// redrawLine clears and re-renders a single edit-pane row, used for
// in-line insertions/deletions that don't change the line count.
func (e *Editor) redrawLine(lineidx int) {
	row := e.printlines + 2 + (lineidx - e.scrollstart)
	if row < e.printlines+2 || row > e.sizey-1 {
		return
	}
	e.withRenderGuard(func() {
		moveCursor(e.out, row, 0)
		eraseToEndOfLine(e.out)
		e.renderLine(row, lineidx, e.lofs, false)
		moveCursor(e.out, e.cury, e.curx)
	})
}

// renderLine writes lines[lineidx] from byte offset lofs, expanding tabs
// and clipping to sizex-2 cells. markTruncation requests the trailing
// ">" marker in the last column when the line does not fit.
func (e *Editor) renderLine(row, lineidx, lofs int, markTruncation bool) {
	moveCursor(e.out, row, 0)
	line := e.tb.Line(lineidx)
	base := grapheme.Width(line[:lofs]) % e.tabstop

	var sb strings.Builder
	w, pos, n := 0, lofs, len(line)
	truncated := false
	for pos < n {
		g := grapheme.At(line, pos)
		var gw int
		var out string
		if g == "\t" {
			gw = e.tabstop - ((w + base) % e.tabstop)
			out = strings.Repeat("→", gw)
		} else {
			gw = grapheme.Width(g)
			out = g
		}
		if w+gw > e.sizex-2 {
			truncated = true
			break
		}
		sb.WriteString(out)
		w += gw
		pos = grapheme.Next(line, pos)
	}
	e.out.Write([]byte(sb.String()))
	if truncated && markTruncation {
		moveCursor(e.out, row, e.sizex-1)
		e.out.Write([]byte(">"))
	}
}

// writeSeparator renders the full-width separator bar: a decorative
// prefix containing splitPrompt, padded with "=" to sizex.
func (e *Editor) writeSeparator() {
	moveCursor(e.out, e.printlines, 0)
	eraseToEndOfLine(e.out)

	prefix := "== " + e.splitPrompt + " "
	prefix = TruncateToWidth(prefix, e.sizex)
	pad := e.sizex - runewidth.StringWidth(prefix)
	if pad < 0 {
		pad = 0
	}
	e.out.Write([]byte(prefix + strings.Repeat("=", pad)))
}

// TruncateToWidth truncates s to at most width display cells.
func TruncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "")
}
