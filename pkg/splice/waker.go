package splice

// A Waker holds at most one pending wake callback for one backpressure
// condition. Registering a callback replaces the previous one, so only the
// most recent caller is guaranteed a wake. A Waker belongs to a single
// scheduler task and must not be shared between goroutines.
type Waker struct {
	f func()
}

// Set registers f to be invoked on the next Wake, dropping a previously
// registered callback.
func (w *Waker) Set(f func()) {
	w.f = f
}

// Wake clears and invokes the registered callback, if any. Each registered
// callback is invoked exactly once.
func (w *Waker) Wake() {
	if f := w.f; f != nil {
		w.f = nil
		f()
	}
}
