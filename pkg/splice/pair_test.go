package splice

import (
	"errors"
	"testing"
)

func TestPairRelay(t *testing.T) {
	aPayload := testPayload(10000)
	bPayload := testPayload(4321)

	// a feeds 37-byte chunks, b accepts 4096-byte writes
	a := &mockEndpoint{payload: aPayload, readChunk: 37, writeChunk: 256}
	b := &mockEndpoint{payload: bPayload, readChunk: 100, writeChunk: 4096}

	pair := NewPair(a, b, DefaultBufferSize, func() {})
	stepUntilDone(t, pair.Step)

	if string(b.sink) != string(aPayload) {
		t.Error("bytes relayed from a to b differ from a's payload")
	}
	if string(a.sink) != string(bPayload) {
		t.Error("bytes relayed from b to a differ from b's payload")
	}
	if a.writeClosed != 1 || b.writeClosed != 1 {
		t.Errorf("write sides were closed %d and %d times, not once each",
			a.writeClosed, b.writeClosed)
	}
}

func TestPairBothMustFinish(t *testing.T) {
	// a closes right away while b still has bytes to deliver; the pair
	// is not done before b's direction finished too
	a := &mockEndpoint{}
	b := &mockEndpoint{payload: testPayload(100), readChunk: 7, readStall: true}

	pair := NewPair(a, b, 32, func() {})

	for i := 0; i < 10; i++ {
		if done, err := pair.Step(); done || err != nil {
			t.Fatalf("step returned %t, %v", done, err)
		}
	}

	// a to b is finished, b to a is still streaming
	if pair.aToB.State() != Finished {
		t.Fatalf("a-to-b pump state is %v, not %v", pair.aToB.State(), Finished)
	}
	if pair.bToA.State() != Streaming {
		t.Fatalf("b-to-a pump state is %v, not %v", pair.bToA.State(), Streaming)
	}

	b.readStall = false
	stepUntilDone(t, pair.Step)

	if string(a.sink) != string(testPayload(100)) {
		t.Error("bytes relayed from b to a differ from b's payload")
	}
}

func TestPairFirstErrorWins(t *testing.T) {
	readErr := errors.New("connection reset")

	a := &mockEndpoint{readErr: readErr}
	b := &mockEndpoint{payload: testPayload(50), readStall: true}

	pair := NewPair(a, b, 32, func() {})

	if _, err := pair.Step(); !errors.Is(err, readErr) {
		t.Fatalf("step returned %v, not the read error", err)
	}

	// the other direction is abandoned, not force-drained
	if b.writeClosed != 0 {
		t.Error("the abandoned endpoint was half-closed")
	}
}
