package timer

import "time"

// Stopwatch measures the time since it was created. time.Now carries a
// monotonic clock reading, so Elapsed is never negative, even if the wall
// clock is changed while the stopwatch is running.
type Stopwatch struct {
	StartTime time.Time
}

func NewStopwatch() Stopwatch {
	return Stopwatch{
		StartTime: time.Now(),
	}
}

func (sw Stopwatch) Elapsed() time.Duration {
	return time.Since(sw.StartTime)
}
