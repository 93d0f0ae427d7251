// Package editor implements a split-screen terminal editor: an upper
// print pane scrolling asynchronous output above a separator bar, and a
// lower multi-line edit pane below it. It composes internal/grapheme,
// internal/history, internal/textbuf and internal/keys, none of which
// know about the terminal.
package editor

import (
	"io"
	"log"

	"github.com/mbeacom/duplex/internal/history"
	"github.com/mbeacom/duplex/internal/keys"
	"github.com/mbeacom/duplex/internal/textbuf"
)

// EventKind names one of the high-level events NextEvent can return.
type EventKind int

const (
	EventNone EventKind = iota
	EventCtrlC
	EventCtrlD
	EventCtrlQ
	EventCtrlX
	EventCtrlS
)

// Event is a high-level event surfaced to the embedder. All four exit
// variants (CtrlC/D/Q/X) signal "exit" without the core exiting itself;
// the embedder decides what that means.
type Event struct {
	Kind EventKind
}

type keyResult struct {
	ev  keys.Event
	err error
}

// Editor owns the terminal's content but not its raw-mode lifecycle;
// the caller enters and restores raw mode around the Editor's lifetime.
// An Editor is not safe for concurrent use; only the WriteSink returned
// alongside it is meant to be shared across goroutines.
type Editor struct {
	tb   *textbuf.Buffer
	hist *history.Buffer
	dec  *keys.Decoder
	out  io.Writer
	log  *log.Logger

	outCh chan []byte
	sink  *WriteSink
	keyCh chan keyResult
	done  chan struct{}

	tabstop         int
	splitPrompt     string
	printHeightFrac float64

	sizex, sizey   int
	printlines     int
	scrollstart    int
	lofs           int
	curx, cury     int
	printx, printy int
	looseCursor    bool

	hbActive bool
	hbStart  int64
	hbEnd    int64

	rendering bool
}

// New constructs an Editor reading key bytes from r and writing ANSI
// output to w. It does not put the terminal into raw mode; the caller
// does that (and restores it) around the Editor's lifetime.
func New(r io.Reader, w io.Writer, cfg Config) (*Editor, *WriteSink, error) {
	cfg.Validate()

	ch := make(chan []byte, outputChannelCapacity)
	sink := newWriteSink(ch, cfg.Logger)

	e := &Editor{
		tb:              textbuf.New(cfg.Content),
		hist:            history.New(),
		dec:             keys.NewDecoder(r),
		out:             w,
		log:             cfg.Logger,
		outCh:           ch,
		sink:            sink,
		keyCh:           make(chan keyResult, 1),
		done:            make(chan struct{}),
		tabstop:         cfg.TabStop,
		splitPrompt:     cfg.SplitPrompt,
		printHeightFrac: cfg.PrintHeight,
		sizex:           cfg.SizeX,
		sizey:           cfg.SizeY,
	}
	e.printlines = clampPrintlines(int(float64(cfg.SizeY)*cfg.PrintHeight), cfg.SizeY)

	go e.readKeys()

	e.setpos()
	moveCursor(e.out, 0, 0)
	eraseFromCursorDown(e.out)
	e.redraw()

	return e, sink, nil
}

func (e *Editor) readKeys() {
	for {
		ev, err := e.dec.Next()
		select {
		case e.keyCh <- keyResult{ev, err}:
		case <-e.done:
			return
		}
		if err != nil {
			return
		}
	}
}

// NextEvent awaits the first of a decoded key event or a message from
// the output channel. It only returns once a
// high-level Event is produced; all other key presses are handled
// internally (buffer mutation, scrolling, re-render) before the loop
// continues.
func (e *Editor) NextEvent() (Event, error) {
	for {
		select {
		case kr := <-e.keyCh:
			if kr.err != nil {
				return Event{}, newTerminalIOError(kr.err)
			}
			if ev, ok := e.handleKey(kr.ev); ok {
				return ev, nil
			}
		case data, ok := <-e.outCh:
			if !ok {
				return Event{}, newChannelClosedError()
			}
			e.writeout(data)
		}
	}
}

// Flush drains any pending output messages non-blocking and flushes the
// underlying writer if it exposes a Flush method. The write-sink's own
// Flush is a no-op; this is the editor-side drain.
func (e *Editor) Flush() error {
	for {
		select {
		case data, ok := <-e.outCh:
			if !ok {
				return newChannelClosedError()
			}
			e.writeout(data)
		default:
			if f, ok := e.out.(interface{ Flush() error }); ok {
				if err := f.Flush(); err != nil {
					return newTerminalIOError(err)
				}
			}
			return nil
		}
	}
}

// Text returns the current buffer contents joined with "\n".
func (e *Editor) Text() string {
	return e.tb.Text()
}

// Resize updates terminal geometry (e.g. on SIGWINCH), recomputes
// printlines by the original construction-time proportion, and performs
// a full redraw.
func (e *Editor) Resize(sizex, sizey int) {
	e.sizex = sizex
	e.sizey = sizey
	e.printlines = clampPrintlines(int(float64(sizey)*e.printHeightFrac), sizey)
	e.fullRedraw()
}

// Close marks the write sink closed (subsequent producer sends observe
// KindChannelClosed) and leaves the caret on the bottom row so the
// shell prompt lands below the edit pane.
func (e *Editor) Close() error {
	close(e.done)
	e.sink.markClosed()
	moveCursor(e.out, e.sizey-1, 0)
	return nil
}

func clampPrintlines(pl, sizey int) int {
	lo, hi := sizey/8, sizey-8
	if lo > hi {
		lo, hi = hi, lo
	}
	if pl < lo {
		pl = lo
	}
	if pl > hi {
		pl = hi
	}
	return pl
}

func (e *Editor) editRows() int {
	return e.sizey - (e.printlines + 2)
}

func (e *Editor) pageSize() int {
	n := e.sizey - e.printlines - 2
	if n < 1 {
		n = 1
	}
	return n
}
