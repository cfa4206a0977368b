package date

import "time"

// Clock is the time source every mutation is stamped with.
// The task set takes one so merges can be simulated with fake clocks.
type Clock interface {
	Now() Time
}

type systemClock struct{}

func (systemClock) Now() Time { return TimeOf(time.Now()) }

// System reads the wall clock.
var System Clock = systemClock{}

// Manual is a Clock that only moves when told to.
type Manual struct {
	t Time
}

func NewManual(t Time) *Manual {
	return &Manual{t: t}
}

func (m *Manual) Now() Time { return m.t }

func (m *Manual) Set(t Time) { m.t = t }

// Advance moves the clock forward by the given number of seconds.
func (m *Manual) Advance(seconds int64) {
	m.t += Time(seconds)
}
