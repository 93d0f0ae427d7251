package editor

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mbeacom/duplex/internal/grapheme"
	"github.com/mbeacom/duplex/internal/keys"
	"github.com/stretchr/testify/require"
)

func TestHandleKeyInsertAndEnter(t *testing.T) {
	ed, _ := newTestEditor(t, "", 80, 24)

	ed.handleKey(keys.Event{Key: keys.KeyRune, Rune: 'h'})
	ed.handleKey(keys.Event{Key: keys.KeyRune, Rune: 'i'})
	require.Equal(t, "hi", ed.Text())

	ed.handleKey(keys.Event{Key: keys.KeyEnter})
	require.Equal(t, "hi\n", ed.Text())
}

func TestHandleKeyExitEvents(t *testing.T) {
	ed, _ := newTestEditor(t, "", 80, 24)

	cases := map[keys.Key]EventKind{
		keys.KeyCtrlC: EventCtrlC,
		keys.KeyCtrlD: EventCtrlD,
		keys.KeyCtrlQ: EventCtrlQ,
		keys.KeyCtrlX: EventCtrlX,
		keys.KeyCtrlS: EventCtrlS,
	}
	for key, want := range cases {
		ev, ok := ed.handleKey(keys.Event{Key: key})
		require.True(t, ok)
		require.Equal(t, want, ev.Kind)
	}
}

func TestEndOfLineScenario(t *testing.T) {
	ed, _ := newTestEditor(t, "hello\nworld", 80, 24)

	ed.handleKey(keys.Event{Key: keys.KeyEnd})
	require.Equal(t, 5, ed.tb.Cursor().Byte)
	require.Equal(t, 5, ed.curx)

	ed.handleKey(keys.Event{Key: keys.KeyDown})
	require.Equal(t, 1, ed.tb.Cursor().Line)
	require.Equal(t, 0, ed.tb.Cursor().Byte)

	require.Equal(t, "hello\nworld", ed.Text())
}

func TestTabExpansionScenario(t *testing.T) {
	ed, _ := newTestEditor(t, "", 80, 24)

	for _, r := range "abc" {
		ed.handleKey(keys.Event{Key: keys.KeyRune, Rune: r})
	}
	ed.handleKey(keys.Event{Key: keys.KeyTab})
	for _, r := range "de" {
		ed.handleKey(keys.Event{Key: keys.KeyRune, Rune: r})
	}

	require.Equal(t, "abc\tde", ed.Text())
	require.Equal(t, 6, ed.tb.Cursor().Byte)
	require.Equal(t, 6, ed.curx)
}

func TestHomeResetsLofsAfterLongLine(t *testing.T) {
	ed, _ := newTestEditor(t, "", 10, 24)

	for _, r := range "0123456789ABCDE" {
		ed.handleKey(keys.Event{Key: keys.KeyRune, Rune: r})
	}
	require.Equal(t, 15, ed.tb.Cursor().Byte)
	require.LessOrEqual(t, ed.curx, ed.sizex-1)

	ed.handleKey(keys.Event{Key: keys.KeyEnd})
	ed.handleKey(keys.Event{Key: keys.KeyHome})
	require.Equal(t, 0, ed.lofs)
	require.Equal(t, 0, ed.curx)
}

func TestSetposExpandsTabsInCaretColumn(t *testing.T) {
	// The caret column must use the same tab expansion the renderer
	// paints with: "a\tb" at tabstop 4 renders as a→→→b, so end-of-line
	// is cell 5, not the oracle width of 3.
	ed, _ := newTestEditor(t, "a\tb", 80, 24)

	ed.handleKey(keys.Event{Key: keys.KeyEnd})
	require.Equal(t, 3, ed.tb.Cursor().Byte)
	require.Equal(t, 5, ed.curx)
}

func TestMoveWordLeftRight(t *testing.T) {
	ed, _ := newTestEditor(t, "hello world", 80, 24)
	ed.tb.SetCursor(0, len("hello world"))

	ed.moveWordLeft()
	require.Equal(t, len("hello "), ed.tb.Cursor().Byte)

	ed.moveWordLeft()
	require.Equal(t, 0, ed.tb.Cursor().Byte)

	ed.moveWordRight()
	require.Equal(t, len("hello "), ed.tb.Cursor().Byte)
}

func TestMoveUpDownClampAtBounds(t *testing.T) {
	ed, _ := newTestEditor(t, "a\nb\nc", 80, 24)

	ed.moveUp(5)
	require.Equal(t, 0, ed.tb.Cursor().Line)

	ed.moveDown(5)
	require.Equal(t, 2, ed.tb.Cursor().Line)
}

func TestRepeatedDownAtEndOfBufferKeepsScrolling(t *testing.T) {
	lines := make([]string, 30)
	for i := range lines {
		lines[i] = fmt.Sprintf("line%02d", i)
	}
	ed, _ := newTestEditor(t, strings.Join(lines, "\n"), 80, 24)

	last := ed.tb.LineCount() - 1
	for i := 0; i < last; i++ {
		ed.handleKey(keys.Event{Key: keys.KeyDown})
	}
	require.Equal(t, last, ed.tb.Cursor().Line)
	require.Equal(t, ed.sizey-1, ed.cury)

	// With the cursor pinned on the last line, each further press keeps
	// advancing scrollstart so the last line creeps toward the top pane
	// row instead of the key going dead.
	start := ed.scrollstart
	for i := 1; i <= 3; i++ {
		ed.handleKey(keys.Event{Key: keys.KeyDown})
		require.Equal(t, start+i, ed.scrollstart)
		require.Equal(t, last, ed.tb.Cursor().Line)
	}

	for ed.scrollstart < last {
		ed.handleKey(keys.Event{Key: keys.KeyDown})
	}
	require.Equal(t, ed.printlines+2, ed.cury)

	// Fully scrolled: one more Down degrades to an end-of-line move.
	ed.handleKey(keys.Event{Key: keys.KeyDown})
	require.Equal(t, last, ed.scrollstart)
	require.Equal(t, len(ed.tb.Line(last)), ed.tb.Cursor().Byte)
}

func TestResizeSplitClampsToRange(t *testing.T) {
	ed, _ := newTestEditor(t, "", 80, 24)

	for i := 0; i < 20; i++ {
		ed.resizeSplit(-3)
	}
	require.GreaterOrEqual(t, ed.printlines, 24/8)

	for i := 0; i < 20; i++ {
		ed.resizeSplit(3)
	}
	require.LessOrEqual(t, ed.printlines, 24-8)
}

func TestKillToStart(t *testing.T) {
	ed, _ := newTestEditor(t, "hello world", 80, 24)
	ed.tb.SetCursor(0, 6)

	ed.killToStart()
	require.Equal(t, "world", ed.Text())
	require.Equal(t, 0, ed.tb.Cursor().Byte)
}

func TestCursorVisibilityInvariant(t *testing.T) {
	// After setpos, the caret always fits on screen no matter how long
	// the line has grown.
	ed, _ := newTestEditor(t, "", 10, 24)
	for _, r := range "this is a fairly long line of text" {
		ed.handleKey(keys.Event{Key: keys.KeyRune, Rune: r})
	}
	cur := ed.tb.Cursor()
	line := ed.tb.Line(cur.Line)
	require.LessOrEqual(t, grapheme.Width(line[ed.lofs:cur.Byte]), ed.sizex-1)
}
