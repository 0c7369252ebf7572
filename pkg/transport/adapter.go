package transport

import (
	"net"
	"sync"

	"github.com/ircpair/ircpair/pkg/splice"
)

// scratchSize is the Adapter's read scratch capacity per background read.
const scratchSize = 4096

// A Stream is the blocking connection an Adapter wraps: a bidirectional
// byte stream whose write direction can be shut down on its own. Close must
// abort outstanding Read and Write calls.
type Stream interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	CloseWrite() error
	Close() error
}

// An Adapter emulates readiness on top of a blocking Stream. It implements
// splice.Endpoint plus the SetWake, Close and RemoteAddr methods the relay
// scheduler expects from a connection.
type Adapter struct {
	stream Stream
	remote net.Addr

	mu   sync.Mutex
	wake func()

	scratch  []byte
	readOff  int
	readN    int
	readErr  error
	readBusy bool

	writeBuf  []byte
	writeN    int
	writeErr  error
	writeBusy bool
	writeDone bool

	closed bool
}

// NewAdapter wraps stream. The remote address is only carried for logging.
func NewAdapter(stream Stream, remote net.Addr) *Adapter {
	return &Adapter{
		stream:  stream,
		remote:  remote,
		scratch: make([]byte, scratchSize),
	}
}

// SetWake installs the callback fired whenever a background operation
// completed and the endpoint may have become ready again.
func (a *Adapter) SetWake(wake func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.wake = wake
}

// RemoteAddr returns the peer's address.
func (a *Adapter) RemoteAddr() net.Addr {
	return a.remote
}

// Read hands out bytes gathered by the background read, starting one if
// none is outstanding. Without gathered bytes it reports ErrNotReady; the
// wake callback fires once the background read completed.
func (a *Adapter) Read(p []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return 0, net.ErrClosed
	}

	if a.readN > 0 {
		n := copy(p, a.scratch[a.readOff:a.readOff+a.readN])
		a.readOff += n
		a.readN -= n
		return n, nil
	}

	if err := a.readErr; err != nil {
		return 0, err
	}

	if !a.readBusy {
		a.readBusy = true
		go a.backgroundRead()
	}

	return 0, splice.ErrNotReady
}

func (a *Adapter) backgroundRead() {
	n, err := a.stream.Read(a.scratch)

	a.mu.Lock()
	a.readOff = 0
	a.readN = n
	a.readErr = err
	a.readBusy = false
	wake := a.wake
	a.mu.Unlock()

	if wake != nil {
		wake()
	}
}

// Write accepts p by copying it into a private buffer written out in the
// background, reporting ErrNotReady until that write completed. The written
// byte count is handed out on the Write call following completion; p must
// still start with the same bytes then, which holds for a draining Buffer
// whose start cursor only advances on reported bytes.
func (a *Adapter) Write(p []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return 0, net.ErrClosed
	}

	if a.writeDone {
		n, err := a.writeN, a.writeErr
		a.writeDone = false
		a.writeN = 0
		a.writeErr = nil
		return n, err
	}

	if a.writeBusy {
		return 0, splice.ErrNotReady
	}

	a.writeBuf = append(a.writeBuf[:0], p...)
	a.writeBusy = true
	go a.backgroundWrite()

	return 0, splice.ErrNotReady
}

func (a *Adapter) backgroundWrite() {
	n, err := a.stream.Write(a.writeBuf)

	a.mu.Lock()
	a.writeN = n
	a.writeErr = err
	a.writeBusy = false
	a.writeDone = true
	wake := a.wake
	a.mu.Unlock()

	if wake != nil {
		wake()
	}
}

// CloseWrite shuts down the stream's write direction. The pump only calls
// it once the buffer drained, so no background write can be outstanding.
func (a *Adapter) CloseWrite() error {
	return a.stream.CloseWrite()
}

// Close abruptly tears the stream down, aborting outstanding background
// operations.
func (a *Adapter) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()

	return a.stream.Close()
}
