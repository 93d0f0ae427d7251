package editor

import (
	"io"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mbeacom/duplex/internal/keys"
)

func discardSinkLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestWriteSinkWriteAndFlush(t *testing.T) {
	ed, _ := newTestEditor(t, "", 80, 24)
	n, err := ed.sink.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.NoError(t, ed.sink.Flush())
}

func TestWriteSinkWouldBlockCoalescesStaging(t *testing.T) {
	ch := make(chan []byte, 1)
	sink := newWriteSink(ch, discardSinkLogger())
	ch <- []byte("filler") // occupy the only slot

	_, err := sink.Write([]byte("a"))
	require.Error(t, err)
	var edErr *Error
	require.ErrorAs(t, err, &edErr)
	require.Equal(t, KindMessage, edErr.Kind)
	require.Equal(t, []byte("a"), sink.staging)

	_, err = sink.Write([]byte("b"))
	require.Error(t, err)
	require.Equal(t, []byte("ab"), sink.staging)

	require.Equal(t, []byte("filler"), <-ch) // drain the filler, freeing a slot
	n, err := sink.Write([]byte("c"))
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Nil(t, sink.staging)
	require.Equal(t, []byte("abc"), <-ch)
}

func TestWriteSinkClosedReturnsChannelClosedError(t *testing.T) {
	ed, _ := newTestEditor(t, "", 80, 24)
	ed.sink.markClosed()

	_, err := ed.sink.Write([]byte("x"))
	require.Error(t, err)
	var edErr *Error
	require.ErrorAs(t, err, &edErr)
	require.Equal(t, KindChannelClosed, edErr.Kind)
}

func TestGatherBackwardAndForwardRoundTrip(t *testing.T) {
	ed, _ := newTestEditor(t, "", 80, 24)
	ed.hist.Append([]byte("line1\nline2\nline3\n"))

	data, stop, lines := ed.gatherBackward(ed.hist.LastIndex(), 2)
	require.Equal(t, 2, lines)
	require.Equal(t, "\nline3\n", string(data))

	fdata, end, flines := ed.gatherForward(stop, 2)
	require.Equal(t, 2, flines)
	require.Equal(t, "\nline3\n", string(fdata))
	require.Equal(t, stop+int64(len(fdata)), end)
	require.Equal(t, ed.hist.LastIndex(), end)
}

func TestWriteoutScenarioProducerWritesTwoLines(t *testing.T) {
	ed, _ := newTestEditor(t, "", 80, 24)
	ed.writeout([]byte("line1\nline2\n"))

	require.Equal(t, 0, ed.printx)
	require.Equal(t, 2, ed.printy)
}

func TestWriteoutScenarioPrintPaneOverflowScrolls(t *testing.T) {
	ed, _ := newTestEditor(t, "", 80, 24)
	for i := 0; i < ed.printlines+5; i++ {
		ed.writeout([]byte("x\n"))
	}

	require.Equal(t, ed.printlines-1, ed.printy)
}

func TestCtrlPageUpAtOldestIsNoop(t *testing.T) {
	ed, out := newTestEditor(t, "", 80, 24)
	ed.writeout([]byte("line1\nline2\n"))

	// History is shorter than a page, so the first press falls forward
	// from index 0 and leaves hbStart there.
	ed.handleCtrlPageUp()
	require.True(t, ed.hbActive)
	require.Equal(t, int64(0), ed.hbStart)

	mark := out.Len()
	ed.handleCtrlPageUp()
	require.Equal(t, mark, out.Len())
}

func TestWriteoutScenarioScrollbackThenEsc(t *testing.T) {
	ed, _ := newTestEditor(t, "", 80, 24)
	line := strings.Repeat("a", 78) + "\n"
	for ed.hist.LastIndex() < 10*1024 {
		ed.writeout([]byte(line))
	}

	ed.handleCtrlPageUp()
	require.True(t, ed.hbActive)

	_, ok := ed.handleKey(keys.Event{Key: keys.KeyEsc})
	require.False(t, ok)
	require.False(t, ed.hbActive)
}
