// Package poll provides the edge-triggered epoll reactor waking the Linux
// TCP endpoints. One reactor goroutine multiplexes readiness for all
// registered sockets and fires their wake callbacks; the callbacks must not
// block.
package poll
