//go:build linux
// +build linux

package tcp

import (
	"io"
	"net"
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/ircpair/ircpair/pkg/splice"
)

// fdEndpoint is a non-blocking TCP socket stepped by the relay scheduler and
// woken by the epoll reactor.
type fdEndpoint struct {
	file    *os.File
	fd      int
	factory *connFactory
	remote  net.Addr

	mu   sync.Mutex
	wake func()

	closeOnce sync.Once
	closeErr  error
}

// newFDEndpoint extracts the raw descriptor from conn, switches it to
// non-blocking mode and registers it with the reactor. The original conn is
// closed afterwards; the duplicated descriptor lives on.
func newFDEndpoint(conn *net.TCPConn, factory *connFactory) (*fdEndpoint, error) {
	remote := conn.RemoteAddr()

	file, err := conn.File()
	if err != nil {
		return nil, err
	}
	_ = conn.Close()

	// Fd switches the file back to blocking mode, so flip it afterwards.
	fd := int(file.Fd())
	if err := unix.SetNonblock(fd, true); err != nil {
		_ = file.Close()
		return nil, err
	}

	e := &fdEndpoint{
		file:    file,
		fd:      fd,
		factory: factory,
		remote:  remote,
	}

	factory.live.Add(1)
	if err := factory.reactor.Register(fd, e.onReady); err != nil {
		factory.live.Done()
		_ = file.Close()
		return nil, err
	}

	return e, nil
}

func (e *fdEndpoint) onReady() {
	e.mu.Lock()
	wake := e.wake
	e.mu.Unlock()

	if wake != nil {
		wake()
	}
}

func (e *fdEndpoint) SetWake(wake func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.wake = wake
}

func (e *fdEndpoint) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for {
		n, err := unix.Read(e.fd, p)
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return 0, splice.ErrNotReady
		case err != nil:
			return 0, os.NewSyscallError("read", err)
		case n == 0:
			return 0, io.EOF
		default:
			return n, nil
		}
	}
}

func (e *fdEndpoint) Write(p []byte) (int, error) {
	for {
		n, err := unix.Write(e.fd, p)
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return 0, splice.ErrNotReady
		case err != nil:
			return 0, os.NewSyscallError("write", err)
		default:
			return n, nil
		}
	}
}

// CloseWrite shuts the socket's write direction down, sending a FIN.
func (e *fdEndpoint) CloseWrite() error {
	if err := unix.Shutdown(e.fd, unix.SHUT_WR); err != nil {
		return os.NewSyscallError("shutdown", err)
	}

	return nil
}

func (e *fdEndpoint) Close() error {
	e.closeOnce.Do(func() {
		e.factory.reactor.Unregister(e.fd)
		e.closeErr = e.file.Close()
		e.factory.live.Done()
	})

	return e.closeErr
}

func (e *fdEndpoint) RemoteAddr() net.Addr {
	return e.remote
}
