//go:build linux
// +build linux

package poll

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// Reactor multiplexes edge-triggered readiness over one epoll instance.
type Reactor struct {
	epfd int

	// self-pipe to break out of a blocking wait on Close
	wakeRead  int
	wakeWrite int

	mu        sync.Mutex
	callbacks map[int32]func()
	closed    bool

	closeOnce sync.Once
	closeAck  chan struct{}
}

// New creates a Reactor and starts its wait loop.
func New() (*Reactor, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}

	var pipeFds [2]int
	if err := unix.Pipe2(pipeFds[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		_ = unix.Close(epfd)
		return nil, fmt.Errorf("self-pipe: %w", err)
	}

	r := &Reactor{
		epfd:      epfd,
		wakeRead:  pipeFds[0],
		wakeWrite: pipeFds[1],
		callbacks: make(map[int32]func()),
		closeAck:  make(chan struct{}),
	}

	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(r.wakeRead)}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, r.wakeRead, &ev); err != nil {
		_ = unix.Close(epfd)
		_ = unix.Close(pipeFds[0])
		_ = unix.Close(pipeFds[1])
		return nil, fmt.Errorf("epoll ctl add self-pipe: %w", err)
	}

	go r.wait()

	return r, nil
}

// Register watches fd, edge-triggered, for read and write readiness as well
// as peer hangup. Each readiness transition fires cb once.
func (r *Reactor) Register(fd int, cb func()) error {
	ev := unix.EpollEvent{
		Events: unix.EPOLLIN | unix.EPOLLOUT | unix.EPOLLRDHUP | unix.EPOLLET,
		Fd:     int32(fd),
	}

	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("epoll ctl add: %w", err)
	}

	r.mu.Lock()
	r.callbacks[int32(fd)] = cb
	r.mu.Unlock()

	return nil
}

// Unregister stops watching fd. It must be called before the fd is closed,
// otherwise a reused descriptor number could fire a stale callback.
func (r *Reactor) Unregister(fd int) {
	_ = unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, fd, nil)

	r.mu.Lock()
	delete(r.callbacks, int32(fd))
	r.mu.Unlock()
}

func (r *Reactor) wait() {
	events := make([]unix.EpollEvent, 128)

	for {
		n, err := unix.EpollWait(r.epfd, events, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			close(r.closeAck)
			return
		}

		for i := 0; i < n; i++ {
			if events[i].Fd == int32(r.wakeRead) {
				r.mu.Lock()
				closed := r.closed
				r.mu.Unlock()

				if closed {
					close(r.closeAck)
					return
				}
				continue
			}

			r.mu.Lock()
			cb := r.callbacks[events[i].Fd]
			r.mu.Unlock()

			if cb != nil {
				cb()
			}
		}
	}
}

// Close shuts the wait loop down and releases the epoll instance.
func (r *Reactor) Close() error {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		r.mu.Unlock()

		_, _ = unix.Write(r.wakeWrite, []byte{0})
		<-r.closeAck

		_ = unix.Close(r.epfd)
		_ = unix.Close(r.wakeRead)
		_ = unix.Close(r.wakeWrite)
	})

	return nil
}
