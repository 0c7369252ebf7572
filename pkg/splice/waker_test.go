package splice

import (
	"testing"
)

func TestWakerFiresOnce(t *testing.T) {
	var w Waker
	var fired int

	w.Set(func() { fired++ })

	w.Wake()
	w.Wake()

	if fired != 1 {
		t.Fatalf("callback fired %d times, not once", fired)
	}
}

func TestWakerEmptyWake(t *testing.T) {
	var w Waker

	// must not panic
	w.Wake()
}

func TestWakerReplacement(t *testing.T) {
	var w Waker
	var first, second int

	w.Set(func() { first++ })
	w.Set(func() { second++ })

	w.Wake()

	if first != 0 {
		t.Errorf("replaced callback fired %d times", first)
	}
	if second != 1 {
		t.Errorf("current callback fired %d times, not once", second)
	}
}

func TestWakerReRegistration(t *testing.T) {
	var w Waker
	var fired int

	w.Set(func() { fired++ })
	w.Wake()

	w.Set(func() { fired++ })
	w.Wake()

	if fired != 2 {
		t.Fatalf("callbacks fired %d times, not twice", fired)
	}
}
