package tcp

import (
	"net"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ircpair/ircpair/pkg/relay"
)

// Listener accepts TCP connections and submits them to the relay Manager.
type Listener struct {
	listenAddress string
	manager       *relay.Manager

	factory *connFactory
	ln      *net.TCPListener

	stopSyn chan struct{}
	stopAck chan struct{}
}

// NewListener creates a Listener for the given address, e.g., "127.0.0.1:6667".
func NewListener(listenAddress string, manager *relay.Manager) *Listener {
	return &Listener{
		listenAddress: listenAddress,
		manager:       manager,

		stopSyn: make(chan struct{}),
		stopAck: make(chan struct{}),
	}
}

// Start binds the listening socket and spawns the accept loop.
func (listener *Listener) Start() error {
	tcpAddr, err := net.ResolveTCPAddr("tcp", listener.listenAddress)
	if err != nil {
		return err
	}

	ln, err := net.ListenTCP("tcp", tcpAddr)
	if err != nil {
		return err
	}

	factory, err := newConnFactory()
	if err != nil {
		_ = ln.Close()
		return err
	}

	listener.ln = ln
	listener.factory = factory

	go listener.handle()

	log.WithField("address", ln.Addr()).Info("TCP listener started")

	return nil
}

// Addr returns the bound address, useful when listening on port zero.
func (listener *Listener) Addr() net.Addr {
	return listener.ln.Addr()
}

func (listener *Listener) handle() {
	for {
		select {
		case <-listener.stopSyn:
			_ = listener.ln.Close()
			listener.factory.close()

			close(listener.stopAck)

			return

		default:
			if err := listener.ln.SetDeadline(time.Now().Add(50 * time.Millisecond)); err != nil {
				log.WithError(err).Warn("Failed to set deadline on TCP listener")
				continue
			}

			conn, err := listener.ln.AcceptTCP()
			if err != nil {
				continue
			}

			wrapped, err := listener.factory.wrap(conn)
			if err != nil {
				log.WithError(err).WithField("peer", conn.RemoteAddr()).Warn(
					"Failed to prepare accepted connection")
				_ = conn.Close()
				continue
			}

			log.WithField("peer", wrapped.RemoteAddr()).Debug("Accepted TCP connection")

			listener.manager.Submit(wrapped)
		}
	}
}

// Close stops the accept loop and releases the listening socket. Connections
// already handed to the Manager stay up.
func (listener *Listener) Close() error {
	close(listener.stopSyn)
	<-listener.stopAck

	return nil
}
