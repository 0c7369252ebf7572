// Package tcp provides the plain TCP listener. On Linux accepted
// connections are switched to non-blocking raw sockets driven by an
// edge-triggered epoll reactor; elsewhere they fall back to the generic
// goroutine-backed readiness adapter.
package tcp
