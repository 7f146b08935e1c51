//go:build release && !release_also

package timer

// Release build: the reporting entry points only run the block. Silent entry
// points are unaffected.

// ReportingEnabled is true when the reporting entry points measure and print.
const ReportingEnabled = false

func Timer[T any](block func() T) T {
	return block()
}

func Tagged[T any](_ any, block func() T) T {
	return block()
}

func TimerErr[T any](block func() (T, error)) (T, error) {
	return block()
}

func TaggedErr[T any](_ any, block func() (T, error)) (T, error) {
	return block()
}

func Do(block func()) {
	block()
}

func DoTagged(_ any, block func()) {
	block()
}

func (b Block[T]) Eval() T {
	return b.Body()
}
