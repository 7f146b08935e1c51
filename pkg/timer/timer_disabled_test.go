//go:build release && !release_also

package timer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReportingDisabled(t *testing.T) {
	assert.False(t, ReportingEnabled)
}

func TestReportingEntryPointsArePassThrough(t *testing.T) {
	output := captureReports(t)
	errBlock := errors.New("block failed")

	assert.Equal(t, 2, Timer(func() int { return 1 + 1 }))
	assert.Equal(t, 42, Tagged("sleep", func() int {
		time.Sleep(10 * time.Millisecond)
		return 42
	}))
	assert.Equal(t, "value", Block[string]{Tag: "tag", Body: func() string { return "value" }}.Eval())

	result, err := TimerErr(func() (int, error) { return 1, nil })
	assert.Equal(t, 1, result)
	assert.NoError(t, err)

	result, err = TaggedErr("tag", func() (int, error) { return 2, errBlock })
	assert.Equal(t, 2, result)
	assert.Equal(t, errBlock, err)

	ran := 0
	Do(func() { ran++ })
	DoTagged("tag", func() { ran++ })
	assert.Equal(t, 2, ran)

	assert.Empty(t, output.String())
}

func TestDisabledPanicPropagates(t *testing.T) {
	output := captureReports(t)

	assert.PanicsWithValue(t, "boom", func() {
		Tagged("tag", func() int { panic("boom") })
	})
	assert.Empty(t, output.String())
}

func TestSilentStillMeasures(t *testing.T) {
	output := captureReports(t)

	result, elapsed := Silent(func() int {
		time.Sleep(10 * time.Millisecond)
		return 1
	})

	assert.Equal(t, 1, result)
	assert.GreaterOrEqual(t, elapsed, 10*time.Millisecond)
	assert.Empty(t, output.String())
}
