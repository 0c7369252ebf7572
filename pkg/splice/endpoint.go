package splice

import "errors"

// ErrNotReady is reported by an Endpoint whose underlying transport cannot
// progress right now, and by Buffer operations hitting a full or empty
// buffer. It is never fatal; the operation must be retried after the next
// wake.
var ErrNotReady = errors.New("splice: not ready")

// An Endpoint is one side of a relayed connection. Read and Write follow
// the io.Reader and io.Writer contracts with two additions: instead of
// blocking, both may fail with ErrNotReady, and a Read error of io.EOF
// marks the permanent end-of-input of this side. CloseWrite shuts down the
// write direction only; the read direction may stay open.
type Endpoint interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	CloseWrite() error
}
