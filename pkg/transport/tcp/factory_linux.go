//go:build linux
// +build linux

package tcp

import (
	"net"
	"sync"

	"github.com/ircpair/ircpair/pkg/relay"
	"github.com/ircpair/ircpair/pkg/transport/tcp/internal/poll"
)

// connFactory converts accepted connections into non-blocking raw-socket
// endpoints sharing one epoll reactor.
type connFactory struct {
	reactor *poll.Reactor
	live    sync.WaitGroup
}

func newConnFactory() (*connFactory, error) {
	reactor, err := poll.New()
	if err != nil {
		return nil, err
	}

	return &connFactory{reactor: reactor}, nil
}

func (f *connFactory) wrap(conn *net.TCPConn) (relay.Conn, error) {
	return newFDEndpoint(conn, f)
}

// close releases the reactor once every endpoint built by this factory is
// closed. Endpoints of running pairs keep their wakeups until then.
func (f *connFactory) close() {
	go func() {
		f.live.Wait()
		_ = f.reactor.Close()
	}()
}
