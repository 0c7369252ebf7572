// Package transport adapts real network connections to the non-blocking
// endpoint model of the splice package.
//
// The Adapter turns any blocking byte stream into a splice.Endpoint by
// keeping at most one outstanding read and one outstanding write running in
// background goroutines and reporting splice.ErrNotReady until they
// complete. Completion fires the owner's wake callback, which takes the
// place of a transport readiness notification. Transports with native
// readiness, like the Linux TCP path, implement splice.Endpoint directly
// and skip the Adapter.
package transport
