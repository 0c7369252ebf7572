package splice

import (
	"io"
)

// DefaultBufferSize is the Buffer capacity used when none is requested.
const DefaultBufferSize = 4096

// Buffer is a fixed-capacity byte buffer between one source and one
// destination. start is the index of the first readable byte, end the index
// of the first writable one, with 0 <= start <= end <= capacity. There is
// no wraparound: once the buffer drains completely, both cursors reset to
// zero and the whole capacity is reclaimed.
//
// A Buffer is owned by exactly one Pump and must not be shared.
type Buffer struct {
	data  []byte
	start int
	end   int

	notEmpty Waker
	notFull  Waker
}

// NewBuffer creates a zero-initialized Buffer. A capacity below one selects
// DefaultBufferSize.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = DefaultBufferSize
	}

	return &Buffer{data: make([]byte, capacity)}
}

// Empty reports whether no readable bytes remain.
func (b *Buffer) Empty() bool {
	// strict == would work, but defensive coding
	return b.start >= b.end
}

// Full reports whether no writable space remains.
func (b *Buffer) Full() bool {
	// strict == would work, but defensive coding
	return b.end >= len(b.data)
}

// Buffered returns the number of readable bytes.
func (b *Buffer) Buffered() int {
	return b.end - b.start
}

// FillFrom reads once from src into the writable region. If the buffer is
// full, wake is registered to fire once space frees and ErrNotReady is
// returned. Bytes read are appended behind end; if data became readable,
// the pending "data arrived" waiter is woken. An io.EOF from src marks its
// permanent end-of-input and is passed through together with any bytes read
// before it.
func (b *Buffer) FillFrom(src io.Reader, wake func()) (int, error) {
	if b.Full() {
		b.notFull.Set(wake)
		return 0, ErrNotReady
	}

	n, err := src.Read(b.data[b.end:])
	b.end += n

	if !b.Empty() {
		b.notEmpty.Wake()
	}

	return n, err
}

// DrainTo writes the readable region to dst once. If the buffer is empty,
// wake is registered to fire once data arrives and ErrNotReady is returned.
// Bytes written advance start; a fully drained buffer resets both cursors
// to zero. If writable space remains afterwards, the pending "space freed"
// waiter is woken.
func (b *Buffer) DrainTo(dst io.Writer, wake func()) (int, error) {
	if b.Empty() {
		b.notEmpty.Set(wake)
		return 0, ErrNotReady
	}

	n, err := dst.Write(b.data[b.start:b.end])
	b.start += n

	if b.start == b.end {
		b.start = 0
		b.end = 0
	}

	if !b.Full() {
		b.notFull.Wake()
	}

	return n, err
}
