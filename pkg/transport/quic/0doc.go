// Package quic provides the QUIC listener. Each relayed connection is the
// first bidirectional stream of an inbound QUIC connection, wrapped in the
// generic readiness adapter.
package quic
