// Package history implements the fixed-capacity scrollback log: an
// append-only byte stream of which only the
// most recent Capacity bytes are retained, addressable by the absolute
// index each byte was appended at.
//
// A Buffer is not safe for concurrent use. It is
// owned exclusively by the editor's event loop; producers never touch it
// directly.
package history

const (
	rows         = 300
	cols         = 160
	bytesPerCell = 4

	// Capacity is the default retention window in bytes:
	// rows * cols * bytes-per-cell of a generous virtual screen.
	Capacity = rows * cols * bytesPerCell
)

// Buffer is a ring of at most Capacity bytes over an infinite logical
// stream. lastIndex is the number of bytes ever appended (the exclusive
// upper bound of valid absolute indices); data is the backing ring and
// writePos is the offset the next appended byte will land at.
type Buffer struct {
	data      []byte
	writePos  int
	lastIndex int64
}

// New returns a Buffer with the default Capacity.
func New() *Buffer {
	return NewWithCapacity(Capacity)
}

// NewWithCapacity returns a Buffer retaining at most capacity bytes. A
// non-positive capacity is treated as 1.
func NewWithCapacity(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{data: make([]byte, capacity)}
}

// Append adds b to the stream, evicting the oldest retained bytes once
// capacity is exceeded.
func (h *Buffer) Append(b []byte) {
	n := len(h.data)
	for _, c := range b {
		h.data[h.writePos] = c
		h.writePos++
		if h.writePos == n {
			h.writePos = 0
		}
		h.lastIndex++
	}
}

// LastIndex returns the exclusive upper bound of currently retained
// absolute indices: the total number of bytes ever appended.
func (h *Buffer) LastIndex() int64 {
	return h.lastIndex
}

// Capacity returns the maximum number of bytes this Buffer retains.
func (h *Buffer) Capacity() int {
	return len(h.data)
}

// oldestRetained returns the smallest absolute index still retrievable.
// Uses saturating subtraction so a Buffer that has never filled to
// capacity reports 0 rather than underflowing.
func (h *Buffer) oldestRetained() int64 {
	cap64 := int64(len(h.data))
	if h.lastIndex <= cap64 {
		return 0
	}
	return h.lastIndex - cap64
}

// Get returns the byte at absolute index idx and true if it is still
// retained, or (0, false) if it has been evicted or was never written.
func (h *Buffer) Get(idx int64) (byte, bool) {
	if idx < h.oldestRetained() || idx >= h.lastIndex {
		return 0, false
	}
	pos := idx % int64(len(h.data))
	return h.data[pos], true
}

// GetRange returns the retained bytes in [start, end), clamped to the
// currently retained window. The returned slice may be shorter than
// end-start if part of the requested range has been evicted.
func (h *Buffer) GetRange(start, end int64) []byte {
	if end > h.lastIndex {
		end = h.lastIndex
	}
	if start < h.oldestRetained() {
		start = h.oldestRetained()
	}
	if end <= start {
		return nil
	}
	out := make([]byte, 0, end-start)
	n := int64(len(h.data))
	for idx := start; idx < end; idx++ {
		out = append(out, h.data[idx%n])
	}
	return out
}

// GetRecent returns the last min(n, retained) bytes in order.
func (h *Buffer) GetRecent(n int) []byte {
	if n <= 0 {
		return nil
	}
	oldest := h.oldestRetained()
	retained := h.lastIndex - oldest
	if int64(n) > retained {
		n = int(retained)
	}
	return h.GetRange(h.lastIndex-int64(n), h.lastIndex)
}
