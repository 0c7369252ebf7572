package internal

import "github.com/quic-go/quic-go"

const (
	// ApplicationShutdown is sent when a relayed connection is torn down
	ApplicationShutdown quic.ApplicationErrorCode = 1
	// HandshakeFailed is sent when the peer never opened its stream
	HandshakeFailed quic.ApplicationErrorCode = 2
)
