// Package timer measures how long a block of code takes to run.
//
// The reporting entry points (Timer, Tagged, TimerErr, TaggedErr, Do, DoTagged
// and Block.Eval) run the block, print a single line with the elapsed time, and
// hand back the block's own result. Building with the "release" tag compiles
// them down to a plain call of the block, with no clock reads and no output.
// Adding the "release_also" tag keeps reporting enabled in release builds:
//
//	go build -tags=release               # no timing output
//	go build -tags=release,release_also  # timing output
//
// The silent entry points (Silent, SilentErr and SilentDo) always measure and
// return the elapsed time instead of printing it, regardless of build tags.
//
// Blocks are never recovered or wrapped. A panic leaves the timer exactly as
// it would leave any other function, and an error returned by an Err variant
// is passed back untouched. Nothing is reported for a block that failed.
package timer

import "time"

// Block is the named-argument form of a reporting timer:
//
//	timer.Block[int]{Tag: "sum", Body: func() int { return 1 + 1 }}.Eval()
//
// A nil Tag leaves the block untagged.
type Block[T any] struct {
	Tag  any
	Body func() T
}

// Silent runs block and returns its result together with the elapsed time.
// Nothing is printed.
func Silent[T any](block func() T) (T, time.Duration) {
	sw := NewStopwatch()
	result := block()
	return result, sw.Elapsed()
}

// SilentErr is Silent for blocks that can fail. If the block returns an error,
// it is returned as is along with the block's value and a zero duration.
func SilentErr[T any](block func() (T, error)) (T, time.Duration, error) {
	sw := NewStopwatch()
	result, err := block()
	if err != nil {
		return result, 0, err
	}
	return result, sw.Elapsed(), nil
}

// SilentDo runs a block that produces no value and returns the elapsed time.
func SilentDo(block func()) time.Duration {
	sw := NewStopwatch()
	block()
	return sw.Elapsed()
}

// Adapts a block without a result to the generic helpers.
func noResult(block func()) func() struct{} {
	return func() struct{} {
		block()
		return struct{}{}
	}
}
