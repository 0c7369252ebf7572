//go:build !linux
// +build !linux

package tcp

import (
	"net"

	"github.com/ircpair/ircpair/pkg/relay"
	"github.com/ircpair/ircpair/pkg/transport"
)

// connFactory wraps accepted connections in the generic readiness adapter on
// platforms without the epoll reactor.
type connFactory struct{}

func newConnFactory() (*connFactory, error) {
	return &connFactory{}, nil
}

func (f *connFactory) wrap(conn *net.TCPConn) (relay.Conn, error) {
	return transport.NewAdapter(conn, conn.RemoteAddr()), nil
}

func (f *connFactory) close() {}
