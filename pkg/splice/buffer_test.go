package splice

import (
	"errors"
	"io"
	"testing"
)

func noWake() {}

func TestBufferCursorReset(t *testing.T) {
	buf := NewBuffer(16)
	src := &mockEndpoint{payload: testPayload(10)}
	dst := &mockEndpoint{}

	if n, err := buf.FillFrom(src, noWake); err != nil || n != 10 {
		t.Fatalf("fill returned %d, %v", n, err)
	}
	if buf.Buffered() != 10 {
		t.Fatalf("buffered %d bytes, not 10", buf.Buffered())
	}

	if n, err := buf.DrainTo(dst, noWake); err != nil || n != 10 {
		t.Fatalf("drain returned %d, %v", n, err)
	}

	if !buf.Empty() {
		t.Error("buffer is not empty after full drain")
	}
	if buf.start != 0 || buf.end != 0 {
		t.Errorf("cursors did not reset, start=%d end=%d", buf.start, buf.end)
	}
}

func TestBufferPartialDrainKeepsCursor(t *testing.T) {
	buf := NewBuffer(16)
	src := &mockEndpoint{payload: testPayload(10)}
	dst := &mockEndpoint{writeChunk: 4}

	if _, err := buf.FillFrom(src, noWake); err != nil {
		t.Fatal(err)
	}

	if n, err := buf.DrainTo(dst, noWake); err != nil || n != 4 {
		t.Fatalf("drain returned %d, %v", n, err)
	}

	if buf.start != 4 || buf.end != 10 {
		t.Errorf("cursors are start=%d end=%d, not 4 and 10", buf.start, buf.end)
	}
	if buf.Buffered() != 6 {
		t.Errorf("buffered %d bytes, not 6", buf.Buffered())
	}
}

func TestBufferFullSuspendsFill(t *testing.T) {
	buf := NewBuffer(8)
	src := &mockEndpoint{payload: testPayload(32)}

	if n, err := buf.FillFrom(src, noWake); err != nil || n != 8 {
		t.Fatalf("fill returned %d, %v", n, err)
	}
	if !buf.Full() {
		t.Fatal("buffer is not full")
	}

	var woken int
	if _, err := buf.FillFrom(src, func() { woken++ }); !errors.Is(err, ErrNotReady) {
		t.Fatalf("fill on full buffer returned %v, not ErrNotReady", err)
	}

	// draining frees space and must fire the registered waiter exactly once
	dst := &mockEndpoint{writeChunk: 2}
	if _, err := buf.DrainTo(dst, noWake); err != nil {
		t.Fatal(err)
	}
	if woken != 1 {
		t.Fatalf("space-freed waiter fired %d times, not once", woken)
	}

	if _, err := buf.DrainTo(dst, noWake); err != nil {
		t.Fatal(err)
	}
	if woken != 1 {
		t.Fatalf("space-freed waiter fired %d times after second drain", woken)
	}
}

func TestBufferEmptySuspendsDrain(t *testing.T) {
	buf := NewBuffer(8)
	dst := &mockEndpoint{}

	var woken int
	if _, err := buf.DrainTo(dst, func() { woken++ }); !errors.Is(err, ErrNotReady) {
		t.Fatalf("drain on empty buffer returned %v, not ErrNotReady", err)
	}

	src := &mockEndpoint{payload: testPayload(4)}
	if _, err := buf.FillFrom(src, noWake); err != nil {
		t.Fatal(err)
	}

	if woken != 1 {
		t.Fatalf("data-arrived waiter fired %d times, not once", woken)
	}
}

func TestBufferBytePreservation(t *testing.T) {
	payload := testPayload(10000)

	buf := NewBuffer(64)
	src := &mockEndpoint{payload: payload, readChunk: 37}
	dst := &mockEndpoint{writeChunk: 13}

	for i := 0; len(dst.sink) < len(payload); i++ {
		if i > 100000 {
			t.Fatal("no progress after 100000 iterations")
		}

		if _, err := buf.FillFrom(src, noWake); err != nil && !errors.Is(err, ErrNotReady) && !errors.Is(err, io.EOF) {
			t.Fatal(err)
		}
		if buf.Buffered() > 64 {
			t.Fatalf("buffer holds %d bytes, capacity is 64", buf.Buffered())
		}
		if _, err := buf.DrainTo(dst, noWake); err != nil && !errors.Is(err, ErrNotReady) {
			t.Fatal(err)
		}
	}

	if string(dst.sink) != string(payload) {
		t.Error("drained bytes differ from the payload")
	}
}

func TestBufferDefaultCapacity(t *testing.T) {
	if buf := NewBuffer(0); len(buf.data) != DefaultBufferSize {
		t.Errorf("capacity is %d, not %d", len(buf.data), DefaultBufferSize)
	}
	if buf := NewBuffer(32); len(buf.data) != 32 {
		t.Errorf("capacity is %d, not 32", len(buf.data))
	}
}
