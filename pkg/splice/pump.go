package splice

import (
	"errors"
	"io"

	log "github.com/sirupsen/logrus"
)

// State of a Pump's single direction.
type State int

const (
	// Streaming means the source may still produce bytes.
	Streaming State = iota

	// SourceClosed means the source reached its permanent end-of-input;
	// the buffer may still hold unflushed bytes.
	SourceClosed

	// Finished means the buffer drained and the destination's write side
	// has been shut down. Finished is terminal.
	Finished
)

func (s State) String() string {
	switch s {
	case Streaming:
		return "streaming"
	case SourceClosed:
		return "source closed"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// A Pump drives one Buffer between a source and a destination Endpoint,
// owning the EOF and shutdown sequencing for this one direction.
//
// Step is invoked by an external scheduler whenever the pump might be able
// to progress. The wake callback must cause another Step invocation; it is
// fired by the Buffer's backpressure transitions, while transport readiness
// wakes are the scheduler's own concern.
type Pump struct {
	src Endpoint
	dst Endpoint

	buf   *Buffer
	state State
	wake  func()
}

// NewPump creates a Pump moving bytes from src to dst through buf.
func NewPump(src, dst Endpoint, buf *Buffer, wake func()) *Pump {
	return &Pump{
		src:  src,
		dst:  dst,
		buf:  buf,
		wake: wake,
	}
}

// State returns the pump's current state.
func (p *Pump) State() State {
	return p.state
}

// Step attempts to fill the buffer from the source, drain it to the
// destination and, once the closed source's buffer ran dry, half-close the
// destination. It returns true when the pump reached Finished.
//
// Any transport error other than ErrNotReady aborts the pump immediately
// and is returned as its terminal result; no cleanup beyond an already
// performed half-close is attempted.
func (p *Pump) Step() (bool, error) {
	if p.state == Finished {
		return true, nil
	}

	// bytes moving in either stage can unblock the opposite stage, so any
	// progress must lead to another Step invocation
	progressed := false

	if p.state == Streaming {
		n, err := p.buf.FillFrom(p.src, p.wake)
		progressed = progressed || n > 0
		switch {
		case err == nil:

		case errors.Is(err, io.EOF):
			p.state = SourceClosed
			log.WithFields(log.Fields{
				"buffered": p.buf.Buffered(),
			}).Trace("Pump's source reached end-of-input")

		case errors.Is(err, ErrNotReady):
			// full buffer or a source without data; a wake retries

		default:
			return false, err
		}
	}

	n, err := p.buf.DrainTo(p.dst, p.wake)
	progressed = progressed || n > 0
	if err != nil && !errors.Is(err, ErrNotReady) {
		return false, err
	}

	if p.state == SourceClosed && p.buf.Empty() {
		if err := p.dst.CloseWrite(); err != nil {
			return false, err
		}

		p.state = Finished
		log.Trace("Pump finished, destination is half-closed")

		return true, nil
	}

	if progressed {
		p.wake()
	}

	return false, nil
}
