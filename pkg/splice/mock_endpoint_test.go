package splice

import (
	"io"
)

// mockEndpoint is a scripted Endpoint for tests. Reads serve payload in
// chunks of at most readChunk bytes, followed by io.EOF or readErr. Writes
// append to sink, at most writeChunk bytes per call. The stall flags turn
// the respective operation into an ErrNotReady result until cleared.
type mockEndpoint struct {
	payload    []byte
	readChunk  int
	readStall  bool
	readErr    error
	emptyReads int

	sink       []byte
	writeChunk int
	writeStall bool
	writeErr   error

	reads       int
	writeClosed int
}

func (m *mockEndpoint) Read(p []byte) (int, error) {
	if m.readStall {
		return 0, ErrNotReady
	}

	if m.emptyReads > 0 {
		m.emptyReads--
		return 0, nil
	}

	if len(m.payload) == 0 {
		if m.readErr != nil {
			return 0, m.readErr
		}
		return 0, io.EOF
	}

	n := len(m.payload)
	if m.readChunk > 0 && n > m.readChunk {
		n = m.readChunk
	}
	if n > len(p) {
		n = len(p)
	}

	copy(p, m.payload[:n])
	m.payload = m.payload[n:]
	m.reads++

	return n, nil
}

func (m *mockEndpoint) Write(p []byte) (int, error) {
	if m.writeStall {
		return 0, ErrNotReady
	}
	if m.writeErr != nil {
		return 0, m.writeErr
	}

	n := len(p)
	if m.writeChunk > 0 && n > m.writeChunk {
		n = m.writeChunk
	}

	m.sink = append(m.sink, p[:n]...)

	return n, nil
}

func (m *mockEndpoint) CloseWrite() error {
	m.writeClosed++
	return nil
}

// testPayload creates size deterministic, non-repeating-looking bytes.
func testPayload(size int) []byte {
	payload := make([]byte, size)
	for i := range payload {
		payload[i] = byte((i*31 + 7) % 251)
	}
	return payload
}
