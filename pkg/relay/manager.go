package relay

import (
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
)

// Manager pairs inbound connections first-come, two at a time, and owns the
// lifecycle of the resulting relay pairs.
type Manager struct {
	bufferSize int
	traceLines bool

	stats Stats

	mu      sync.Mutex
	pending Conn
	runners map[*pairRunner]struct{}
	closed  bool

	wg sync.WaitGroup
}

// NewManager creates a Manager relaying through per-direction buffers of
// bufferSize bytes. With traceLines set, relayed IRC lines are logged at
// debug level.
func NewManager(bufferSize int, traceLines bool) *Manager {
	return &Manager{
		bufferSize: bufferSize,
		traceLines: traceLines,
		stats:      Stats{startTime: time.Now()},
		runners:    make(map[*pairRunner]struct{}),
	}
}

// Snapshot returns the current relay counters.
func (m *Manager) Snapshot() StatsSnapshot {
	return m.stats.Snapshot()
}

// Submit hands an accepted connection to the Manager. A connection arriving
// while the waiting slot is empty occupies it; the next one completes the
// pairing, clears the slot and starts the relay. At most one connection is
// ever waiting.
func (m *Manager) Submit(conn Conn) {
	m.mu.Lock()

	if m.closed {
		m.mu.Unlock()

		log.WithField("peer", conn.RemoteAddr()).Debug("Rejecting connection, manager is closed")
		_ = conn.Close()

		return
	}

	if m.pending == nil {
		m.pending = conn
		m.mu.Unlock()

		log.WithField("peer", conn.RemoteAddr()).Info("Connection is waiting for its peer")

		return
	}

	waiting := m.pending
	m.pending = nil

	r := newPairRunner(m, waiting, conn)
	m.runners[r] = struct{}{}
	m.wg.Add(1)

	m.mu.Unlock()

	go r.run()
}

// Close tears the Manager down: the waiting connection, if any, and all
// active pairs are closed abruptly, without draining buffered bytes. Close
// blocks until every pair's scheduler task returned.
func (m *Manager) Close() error {
	var errs *multierror.Error

	m.mu.Lock()
	m.closed = true

	if m.pending != nil {
		if err := m.pending.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
		m.pending = nil
	}

	for r := range m.runners {
		r.stop()
	}
	m.mu.Unlock()

	m.wg.Wait()

	return errs.ErrorOrNil()
}

func (m *Manager) forget(r *pairRunner) {
	m.mu.Lock()
	delete(m.runners, r)
	m.mu.Unlock()
}
