// Package splice copies raw bytes between pairs of endpoints through
// bounded buffers.
//
// The package follows a cooperative, poll-driven model. A Pump moves bytes
// in one direction between two Endpoints through one fixed-capacity Buffer;
// a Pair composes two independent Pumps, one per direction. Both expose a
// re-entrant Step method which an external scheduler invokes whenever
// progress might be possible. Step never blocks: an Endpoint that cannot
// progress reports ErrNotReady and the scheduler retries after the next
// wake. Wakes come either from transport readiness, signalled through the
// wake callback handed to each Pump, or from internal backpressure
// transitions inside a Buffer.
//
// Every Buffer is owned by exactly one Pump and every Pair is driven by a
// single scheduler task, so the package performs no locking of its own.
// The payload is never inspected; the relay moves opaque bytes.
package splice
