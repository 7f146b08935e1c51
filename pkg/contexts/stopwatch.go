package contexts

import "github.com/solidDoWant/quick-timer/pkg/timer"

type StopwatchContext struct {
	timer.Stopwatch
}

func NewStopwatchContext() *StopwatchContext {
	return &StopwatchContext{
		Stopwatch: timer.NewStopwatch(),
	}
}

// Logs the time elapsed when the log call is made, rather than when the
// keyval is created. Useful with deferred log calls.
func (sc *StopwatchContext) Keyval() *DeferredKeyval {
	return NewDeferredKeyval("runtime", func() interface{} {
		return sc.Elapsed()
	})
}
