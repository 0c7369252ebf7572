package relay

import (
	"sync/atomic"
	"time"

	"github.com/ircpair/ircpair/pkg/splice"
)

// Stats carries the Manager's counters. All fields are touched atomically;
// a Stats must not be copied.
type Stats struct {
	startTime time.Time

	activePairs  int64
	totalPairs   int64
	relayedBytes int64
}

// A StatsSnapshot is a consistent-enough copy of the counters for the
// status surface.
type StatsSnapshot struct {
	ActivePairs  int64 `json:"active_pairs"`
	TotalPairs   int64 `json:"total_pairs"`
	RelayedBytes int64 `json:"relayed_bytes"`
	UptimeSecs   int64 `json:"uptime_secs"`
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		ActivePairs:  atomic.LoadInt64(&s.activePairs),
		TotalPairs:   atomic.LoadInt64(&s.totalPairs),
		RelayedBytes: atomic.LoadInt64(&s.relayedBytes),
		UptimeSecs:   int64(time.Since(s.startTime).Seconds()),
	}
}

// countingEndpoint adds delivered byte counts to the relay totals.
type countingEndpoint struct {
	splice.Endpoint

	stats *Stats
}

func (c countingEndpoint) Write(p []byte) (int, error) {
	n, err := c.Endpoint.Write(p)
	if n > 0 {
		atomic.AddInt64(&c.stats.relayedBytes, int64(n))
	}

	return n, err
}
