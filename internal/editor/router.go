package editor

import (
	"bytes"
	"log"
	"sync"

	"github.com/google/uuid"
)

// WriteSink is the producer-facing write handle.
// It is safe for concurrent use by multiple producer goroutines.
type WriteSink struct {
	mu      sync.Mutex
	ch      chan []byte
	staging []byte
	closed  bool
	id      string
	log     *log.Logger
}

func newWriteSink(ch chan []byte, logger *log.Logger) *WriteSink {
	return &WriteSink{ch: ch, id: uuid.NewString(), log: logger}
}

// Write appends p to a local staging buffer and tries to reserve a slot
// in the output channel. On success the staging buffer is swapped into
// the channel and cleared; on a full channel it returns a "would block"
// error and the bytes stay staged, coalescing with the next Write call;
// on a closed sink it returns KindChannelClosed.
func (s *WriteSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.log.Printf("writesink %s: write after channel closed", s.id)
		return 0, newChannelClosedError()
	}

	s.staging = append(s.staging, p...)
	select {
	case s.ch <- s.staging:
		s.staging = nil
	default:
		return len(p), newWouldBlockError()
	}
	return len(p), nil
}

// Flush is a no-op: delivery through the output channel is never
// synchronous.
func (s *WriteSink) Flush() error {
	return nil
}

func (s *WriteSink) markClosed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// writeout appends bytes to the History Buffer unconditionally, then (if
// not currently browsing scrollback) clears from the print cursor and
// forwards to writebuf.
func (e *Editor) writeout(data []byte) {
	e.hist.Append(data)
	if e.hbActive {
		return
	}
	moveCursor(e.out, e.printy, e.printx)
	eraseFromCursorDown(e.out)
	e.writebuf(data)
}

// writebuf emits bytes line-by-line into the print pane, splitting on
// "\n", wrapping long segments at sizex, and scrolling the print pane up
// when printy would exceed printlines-1. After writing, it re-renders
// the separator and edit pane.
func (e *Editor) writebuf(data []byte) {
	e.withRenderGuard(func() {
		hideCursor(e.out)
		for len(data) > 0 {
			nl := bytes.IndexByte(data, '\n')
			var seg []byte
			hasNL := nl >= 0
			if hasNL {
				seg, data = data[:nl], data[nl+1:]
			} else {
				seg, data = data, nil
			}
			for len(seg) > 0 {
				if e.printx >= e.sizex {
					e.printx = 0
					e.printy++
					e.scrollPrintPaneIfNeeded()
				}
				avail := e.sizex - e.printx
				n := len(seg)
				if n > avail {
					n = avail
				}
				moveCursor(e.out, e.printy, e.printx)
				e.out.Write(seg[:n])
				e.printx += n
				seg = seg[n:]
			}
			if hasNL {
				e.printx = 0
				e.printy++
				e.scrollPrintPaneIfNeeded()
			}
		}
		showCursor(e.out)
	})
	e.redraw()
}

func (e *Editor) scrollPrintPaneIfNeeded() {
	if e.printy > e.printlines-1 {
		overflow := e.printy - (e.printlines - 1)
		scrollUp(e.out, overflow)
		e.printy = e.printlines - 1
	}
}

// gatherBackward walks the History Buffer backward from `from`,
// accumulating bytes until either maxLines logical lines (newline- or
// column-terminated) are gathered or absolute index 0 is reached. It
// returns the bytes in forward order, the index it stopped at, and how
// many lines were gathered.
func (e *Editor) gatherBackward(from int64, maxLines int) (data []byte, stop int64, lines int) {
	idx := from
	col := 0
	var rev []byte
	for idx > 0 && lines < maxLines {
		idx--
		b, ok := e.hist.Get(idx)
		if !ok {
			idx++
			break
		}
		rev = append(rev, b)
		if b == '\n' {
			lines++
			col = 0
		} else {
			col++
			if col >= e.sizex {
				lines++
				col = 0
			}
		}
	}
	data = make([]byte, len(rev))
	for i, b := range rev {
		data[len(rev)-1-i] = b
	}
	return data, idx, lines
}

// gatherForward is gatherBackward's mirror image, walking forward from
// `from` up to the live tail.
func (e *Editor) gatherForward(from int64, maxLines int) (data []byte, stop int64, lines int) {
	idx := from
	col := 0
	last := e.hist.LastIndex()
	for idx < last && lines < maxLines {
		b, ok := e.hist.Get(idx)
		if !ok {
			idx++
			continue
		}
		data = append(data, b)
		idx++
		if b == '\n' {
			lines++
			col = 0
		} else {
			col++
			if col >= e.sizex {
				lines++
				col = 0
			}
		}
	}
	return data, idx, lines
}

// handleCtrlPageUp activates scrollback if not already active and paints
// one page upward. If index 0 is reached on a partial fill, it falls
// forward from 0 to show a full first page instead of a short one.
func (e *Editor) handleCtrlPageUp() {
	if !e.hbActive {
		e.hbActive = true
		e.hbEnd = e.hist.LastIndex()
		e.hbStart = e.hbEnd
	} else if e.hbStart == 0 {
		// Already showing the oldest page.
		return
	}

	data, stop, lines := e.gatherBackward(e.hbStart, e.printlines)
	if stop == 0 && lines < e.printlines {
		fdata, end, _ := e.gatherForward(0, e.printlines)
		e.hbStart, e.hbEnd = 0, end
		e.renderScrollbackPage(fdata)
		return
	}
	e.hbEnd = e.hbStart
	e.hbStart = stop
	e.renderScrollbackPage(data)
}

// handleCtrlPageDown advances the scrollback window forward; if fewer
// than a full page remains, it exits scrollback and shows the live tail.
func (e *Editor) handleCtrlPageDown() {
	if !e.hbActive {
		return
	}
	e.hbStart = e.hbEnd
	data, end, lines := e.gatherForward(e.hbStart, e.printlines)
	e.hbEnd = end
	if lines < e.printlines {
		e.exitScrollback()
		return
	}
	e.renderScrollbackPage(data)
}

// exitScrollback leaves history-browsing mode and renders the live tail.
func (e *Editor) exitScrollback() {
	e.hbActive = false
	tail := e.hist.GetRecent(e.printlines * e.sizex)
	e.renderScrollbackPage(tail)
}

// renderScrollbackPage paints a fixed snapshot of history bytes into the
// print pane. Unlike writebuf it never scrolls or advances the live
// printx/printy cursor: scrollback pages are not live output.
func (e *Editor) renderScrollbackPage(data []byte) {
	e.withRenderGuard(func() {
		hideCursor(e.out)
		moveCursor(e.out, 0, 0)
		eraseFromCursorDown(e.out)

		row, col := 0, 0
		for i := 0; i < len(data) && row < e.printlines; i++ {
			b := data[i]
			if b == '\n' {
				row++
				col = 0
				continue
			}
			if col >= e.sizex {
				row++
				col = 0
				if row >= e.printlines {
					break
				}
			}
			moveCursor(e.out, row, col)
			e.out.Write([]byte{b})
			col++
		}
		showCursor(e.out)
	})
	e.redraw()
}
