package relay

import (
	"net"

	"github.com/ircpair/ircpair/pkg/splice"
)

// A Conn is a relayable connection as handed in by a transport: a
// splice.Endpoint plus the lifecycle hooks the pair scheduler needs.
//
// SetWake installs the callback a transport must invoke whenever the
// connection may have become ready for I/O again; it is installed before
// the first Read or Write and a transport may drop wakes arriving earlier.
// Close tears the connection down abruptly, aborting outstanding I/O.
type Conn interface {
	splice.Endpoint

	SetWake(wake func())
	RemoteAddr() net.Addr
	Close() error
}
