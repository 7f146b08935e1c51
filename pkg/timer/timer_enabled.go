//go:build !release || release_also

package timer

// ReportingEnabled is true when the reporting entry points measure and print.
const ReportingEnabled = true

// Timer runs block, prints how long it took, and returns its result.
func Timer[T any](block func() T) T {
	return timed(nil, block)
}

// Tagged is Timer with a tag shown next to the elapsed time. The tag may be a
// string, a function (shown by its name), or anything fmt can print.
func Tagged[T any](tag any, block func() T) T {
	return timed(tag, block)
}

// TimerErr is Timer for blocks that can fail. Nothing is printed when the
// block returns an error, and the error is returned unchanged.
func TimerErr[T any](block func() (T, error)) (T, error) {
	return timedErr(nil, block)
}

// TaggedErr is TimerErr with a tag.
func TaggedErr[T any](tag any, block func() (T, error)) (T, error) {
	return timedErr(tag, block)
}

// Do times a block that produces no value.
func Do(block func()) {
	timed(nil, noResult(block))
}

// DoTagged times a block that produces no value, with a tag.
func DoTagged(tag any, block func()) {
	timed(tag, noResult(block))
}

// Eval runs the block's body, prints how long it took, and returns its result.
func (b Block[T]) Eval() T {
	return timed(b.Tag, b.Body)
}

// All entry points must call this directly so that the reported call site is
// the caller of the entry point.
func timed[T any](tag any, block func() T) T {
	sw := NewStopwatch()
	result := block()
	elapsed := sw.Elapsed()

	file, line := callSite(2)
	report(file, line, tag, elapsed)
	return result
}

func timedErr[T any](tag any, block func() (T, error)) (T, error) {
	sw := NewStopwatch()
	result, err := block()
	if err != nil {
		return result, err
	}
	elapsed := sw.Elapsed()

	file, line := callSite(2)
	report(file, line, tag, elapsed)
	return result, nil
}
