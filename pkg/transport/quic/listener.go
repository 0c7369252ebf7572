package quic

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/quic-go/quic-go"
	log "github.com/sirupsen/logrus"

	"github.com/ircpair/ircpair/pkg/relay"
	"github.com/ircpair/ircpair/pkg/transport"
	"github.com/ircpair/ircpair/pkg/transport/quic/internal"
)

// streamAcceptTimeout bounds how long an inbound connection may take to open
// its relay stream.
const streamAcceptTimeout = 5 * time.Second

// Listener accepts QUIC connections and submits their first bidirectional
// stream to the relay Manager.
type Listener struct {
	listenAddress string
	manager       *relay.Manager
	listener      *quic.Listener
}

// NewListener creates a Listener for the given UDP address.
func NewListener(listenAddress string, manager *relay.Manager) *Listener {
	return &Listener{
		listenAddress: listenAddress,
		manager:       manager,
	}
}

// Start binds the listening socket and spawns the accept loop.
func (listener *Listener) Start() error {
	log.WithField("address", listener.listenAddress).Info("Starting QUIC listener")

	lst, err := quic.ListenAddr(listener.listenAddress,
		internal.GenerateSimpleListenerTLSConfig(), internal.GenerateQUICConfig())
	if err != nil {
		log.WithError(err).Error("Error creating QUIC listener")
		return err
	}

	listener.listener = lst
	go listener.handle()

	return nil
}

// Addr returns the bound address, useful when listening on port zero.
func (listener *Listener) Addr() net.Addr {
	return listener.listener.Addr()
}

func (listener *Listener) handle() {
	for {
		session, err := listener.listener.Accept(context.Background())
		if err != nil {
			if !(errors.Is(err, context.DeadlineExceeded)) {
				if err.Error() == "quic: Server closed" {
					log.WithField("address", listener.listenAddress).Info("QUIC listener shutting down")
					return
				}

				log.WithFields(log.Fields{
					"address": listener.listenAddress,
					"error":   err,
				}).Error("Unknown error accepting QUIC connection")
			}
		} else {
			log.WithFields(log.Fields{
				"address": listener.listenAddress,
				"peer":    session.RemoteAddr(),
			}).Debug("QUIC listener accepted new connection")

			go listener.handshake(session)
		}
	}
}

// handshake waits for the peer to open its relay stream and hands the
// wrapped connection over.
func (listener *Listener) handshake(session quic.Connection) {
	ctx, cancel := context.WithTimeout(context.Background(), streamAcceptTimeout)
	defer cancel()

	stream, err := session.AcceptStream(ctx)
	if err != nil {
		log.WithFields(log.Fields{
			"peer":  session.RemoteAddr(),
			"error": err,
		}).Warn("Peer did not open a relay stream")

		_ = session.CloseWithError(internal.HandshakeFailed, "no relay stream")

		return
	}

	listener.manager.Submit(transport.NewAdapter(
		&streamConn{connection: session, stream: stream}, session.RemoteAddr()))
}

// Close stops the accept loop and releases the listening socket. Connections
// already handed to the Manager stay up.
func (listener *Listener) Close() error {
	log.WithField("address", listener.listenAddress).Info("Shutting QUIC listener down")
	return listener.listener.Close()
}
