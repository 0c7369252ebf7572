package quic

import (
	"github.com/quic-go/quic-go"

	"github.com/ircpair/ircpair/pkg/transport"
	"github.com/ircpair/ircpair/pkg/transport/quic/internal"
)

// streamConn adapts a QUIC connection's relay stream to the blocking Stream
// the readiness adapter wraps.
type streamConn struct {
	connection quic.Connection
	stream     quic.Stream
}

func (s *streamConn) Read(p []byte) (int, error) {
	return s.stream.Read(p)
}

func (s *streamConn) Write(p []byte) (int, error) {
	return s.stream.Write(p)
}

// CloseWrite finishes the stream's send direction, surfacing as EOF on the
// peer's read side.
func (s *streamConn) CloseWrite() error {
	return s.stream.Close()
}

// Close tears the whole QUIC connection down, aborting blocked stream
// operations.
func (s *streamConn) Close() error {
	return s.connection.CloseWithError(internal.ApplicationShutdown, "relay teardown")
}

var _ transport.Stream = (*streamConn)(nil)
