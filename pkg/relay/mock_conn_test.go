package relay

import (
	"io"
	"net"
	"sync"

	"github.com/ircpair/ircpair/pkg/splice"
)

type mockAddr string

func (a mockAddr) Network() string { return "mock" }
func (a mockAddr) String() string  { return string(a) }

// mockConn is a scripted Conn for tests, safe for use from the runner's
// goroutine.
type mockConn struct {
	mu sync.Mutex

	payload   []byte
	readChunk int
	readStall bool

	sink        []byte
	writeClosed int
	closed      int

	wake func()
	addr mockAddr
}

func (m *mockConn) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed > 0 {
		return 0, net.ErrClosed
	}
	if m.readStall {
		return 0, splice.ErrNotReady
	}
	if len(m.payload) == 0 {
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

	return n, nil
}

func (m *mockConn) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed > 0 {
		return 0, net.ErrClosed
	}

	m.sink = append(m.sink, p...)

	return len(p), nil
}

func (m *mockConn) CloseWrite() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writeClosed++
	return nil
}

func (m *mockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed++
	return nil
}

func (m *mockConn) SetWake(wake func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.wake = wake
}

func (m *mockConn) RemoteAddr() net.Addr {
	return m.addr
}

func (m *mockConn) sinkBytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]byte(nil), m.sink...)
}

func (m *mockConn) closedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.closed
}
