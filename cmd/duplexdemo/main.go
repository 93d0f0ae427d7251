// Command duplexdemo is a small demonstration binary that wires a real
// terminal to internal/editor: it enters raw mode, constructs the
// editor, starts a goroutine that periodically writes through the
// sink as a stand-in for an asynchronous producer, and runs the event
// loop until the user signals exit.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/mbeacom/duplex/internal/editor"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "duplexdemo: %v. quitting.\n", err)
		os.Exit(1)
	}
	fmt.Printf("duplexdemo: quitting.\n")
}

func run() error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("stdin is not a terminal")
	}

	prevState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer term.Restore(fd, prevState)

	sizex, sizey, err := term.GetSize(fd)
	if err != nil {
		return fmt.Errorf("failed to get terminal size: %w", err)
	}

	cfg := editor.Config{
		Content:     "",
		SplitPrompt: "duplexdemo",
		PrintHeight: 0.6,
		TabStop:     4,
		SizeX:       sizex,
		SizeY:       sizey,
	}

	ed, sink, err := editor.New(os.Stdin, os.Stdout, cfg)
	if err != nil {
		return fmt.Errorf("failed to construct editor: %w", err)
	}
	defer ed.Close()

	watchResize(fd, ed)
	go produce(sink)

	for {
		ev, err := ed.NextEvent()
		if err != nil {
			return err
		}
		switch ev.Kind {
		case editor.EventCtrlC, editor.EventCtrlD, editor.EventCtrlQ, editor.EventCtrlX:
			return nil
		case editor.EventCtrlS:
			// Demo hook for the "save/new" binding; a real embedder
			// would persist ed.Text() here.
		}
	}
}

// watchResize starts a goroutine that recomputes editor geometry on
// SIGWINCH, the usual Go idiom for terminal resize notification since
// there is no portable resize event from the kernel otherwise.
func watchResize(fd int, ed *editor.Editor) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	go func() {
		for range sigCh {
			sizex, sizey, err := term.GetSize(fd)
			if err != nil {
				continue
			}
			ed.Resize(sizex, sizey)
		}
	}()
}

// produce simulates an asynchronous background task emitting output
// through the write-sink, retrying on a full channel.
func produce(sink *editor.WriteSink) {
	tick := time.NewTicker(2 * time.Second)
	defer tick.Stop()

	n := 0
	for range tick.C {
		n++
		msg := []byte(fmt.Sprintf("background task heartbeat #%d\n", n))
		for {
			_, err := sink.Write(msg)
			if err == nil {
				break
			}
			var edErr *editor.Error
			if errors.As(err, &edErr) && edErr.Kind == editor.KindChannelClosed {
				return
			}
			time.Sleep(50 * time.Millisecond)
		}
	}
}
