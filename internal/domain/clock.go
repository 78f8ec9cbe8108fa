package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source so tests can freeze run timestamps
// via SetClock. Production code uses the real clock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used for run timestamps. Pass nil to
// reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now reads the current run timestamp from the active time source.
func Now() time.Time {
	return clock.Now()
}
