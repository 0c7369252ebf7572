package splice

// A Pair relays bytes in both directions between two endpoints through two
// independent Pumps sharing no state. Discarding a Pair stops all progress
// without flushing buffered bytes.
type Pair struct {
	aToB *Pump
	bToA *Pump
}

// NewPair creates a Pair relaying a to b and b to a, each direction through
// its own Buffer of the given capacity. The wake callback must cause
// another Step invocation.
func NewPair(a, b Endpoint, bufferSize int, wake func()) *Pair {
	return &Pair{
		aToB: NewPump(a, b, NewBuffer(bufferSize), wake),
		bToA: NewPump(b, a, NewBuffer(bufferSize), wake),
	}
}

// Step steps both directions; their order is irrelevant as they are
// independent. It reports true only once both pumps finished, letting each
// direction flush and half-close on its own. The first I/O error observed
// is returned as the Pair's terminal result and the other direction is
// abandoned, not force-drained.
func (p *Pair) Step() (bool, error) {
	aDone, err := p.aToB.Step()
	if err != nil {
		return false, err
	}

	bDone, err := p.bToA.Step()
	if err != nil {
		return false, err
	}

	return aDone && bDone, nil
}
