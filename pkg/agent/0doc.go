// Package agent provides the daemon's HTTP side channels, currently the
// status agent exposing the relay's runtime counters.
package agent
