package relay

import (
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/ircpair/ircpair/pkg/splice"
)

// A pairRunner is the scheduler task for one relay pair. It re-invokes the
// pair's step function on every wake, be it transport readiness or an
// internal backpressure transition, until the pair finished or failed.
type pairRunner struct {
	manager *Manager
	a, b    Conn

	wakeCh chan struct{}

	stopOnce sync.Once
	stopCh   chan struct{}
}

func newPairRunner(manager *Manager, a, b Conn) *pairRunner {
	return &pairRunner{
		manager: manager,
		a:       a,
		b:       b,
		wakeCh:  make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
	}
}

// wake re-schedules the runner. Posting into the buffered channel collapses
// bursts; a wake arriving during a step is picked up by the next select, so
// none is lost.
func (r *pairRunner) wake() {
	select {
	case r.wakeCh <- struct{}{}:
	default:
	}
}

// stop aborts the runner; buffered-but-undelivered bytes are lost.
func (r *pairRunner) stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

func (r *pairRunner) run() {
	m := r.manager
	defer m.wg.Done()

	atomic.AddInt64(&m.stats.activePairs, 1)
	atomic.AddInt64(&m.stats.totalPairs, 1)
	defer atomic.AddInt64(&m.stats.activePairs, -1)

	r.a.SetWake(r.wake)
	r.b.SetWake(r.wake)

	var endpointA splice.Endpoint = countingEndpoint{r.a, &m.stats}
	var endpointB splice.Endpoint = countingEndpoint{r.b, &m.stats}
	if m.traceLines {
		endpointA = newSniffer(endpointA, r.a.RemoteAddr())
		endpointB = newSniffer(endpointB, r.b.RemoteAddr())
	}

	pair := splice.NewPair(endpointA, endpointB, m.bufferSize, r.wake)

	entry := log.WithFields(log.Fields{
		"peerA": r.a.RemoteAddr(),
		"peerB": r.b.RemoteAddr(),
	})
	entry.Info("Relay pair started")

steps:
	for {
		done, err := pair.Step()
		if err != nil {
			entry.WithError(err).Warn("Relay pair failed")
			break
		}
		if done {
			entry.Info("Relay pair finished")
			break
		}

		select {
		case <-r.wakeCh:
		case <-r.stopCh:
			entry.Debug("Relay pair torn down")
			break steps
		}
	}

	for _, conn := range []Conn{r.a, r.b} {
		if err := conn.Close(); err != nil {
			entry.WithError(err).Debug("Closing a relayed connection failed")
		}
	}

	m.forget(r)
}
