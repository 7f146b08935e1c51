package timer

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Redirects reports to a buffer for the duration of the test.
func captureReports(t *testing.T) *bytes.Buffer {
	buf := &bytes.Buffer{}
	previous := SetLogger(NewLogger(buf))
	t.Cleanup(func() {
		SetLogger(previous)
	})
	return buf
}

// Gets the line number of the caller.
func currentLine() int {
	_, _, line, _ := runtime.Caller(1)
	return line
}

type stringerTag struct {
	name string
}

func (st *stringerTag) String() string {
	return "stringer " + st.name
}

func loadConfig() {}

func TestSilent(t *testing.T) {
	output := captureReports(t)

	result, elapsed := Silent(func() int {
		return 1 + 1
	})

	assert.Equal(t, 2, result)
	assert.GreaterOrEqual(t, elapsed, time.Duration(0))
	assert.Less(t, elapsed, time.Second)
	assert.Empty(t, output.String())
}

func TestSilentSleep(t *testing.T) {
	output := captureReports(t)

	result, elapsed := Silent(func() int {
		time.Sleep(100 * time.Millisecond)
		return 42
	})

	assert.Equal(t, 42, result)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.Less(t, elapsed, 200*time.Millisecond)
	assert.Empty(t, output.String())
}

func TestSilentErr(t *testing.T) {
	errBlock := errors.New("block failed")

	tests := []struct {
		desc        string
		blockErr    error
		sleep       time.Duration
		expectedVal string
	}{
		{
			desc:        "block succeeds",
			sleep:       10 * time.Millisecond,
			expectedVal: "done",
		},
		{
			desc:        "block fails",
			blockErr:    errBlock,
			expectedVal: "partial",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			output := captureReports(t)

			result, elapsed, err := SilentErr(func() (string, error) {
				time.Sleep(tt.sleep)
				return tt.expectedVal, tt.blockErr
			})

			assert.Equal(t, tt.expectedVal, result)
			assert.Empty(t, output.String())

			if tt.blockErr != nil {
				// The error must not be wrapped
				assert.Equal(t, tt.blockErr, err)
				assert.Zero(t, elapsed)
				return
			}

			assert.NoError(t, err)
			assert.GreaterOrEqual(t, elapsed, tt.sleep)
		})
	}
}

func TestSilentDo(t *testing.T) {
	output := captureReports(t)

	ran := 0
	elapsed := SilentDo(func() {
		ran++
		time.Sleep(10 * time.Millisecond)
	})

	assert.Equal(t, 1, ran)
	assert.GreaterOrEqual(t, elapsed, 10*time.Millisecond)
	assert.Empty(t, output.String())
}

func TestSilentPanicPropagates(t *testing.T) {
	output := captureReports(t)

	assert.PanicsWithValue(t, "boom", func() {
		Silent(func() int {
			panic("boom")
		})
	})
	assert.PanicsWithValue(t, "boom", func() {
		SilentDo(func() {
			panic("boom")
		})
	})
	assert.Empty(t, output.String())
}

func TestStopwatch(t *testing.T) {
	sw := NewStopwatch()
	assert.WithinDuration(t, time.Now(), sw.StartTime, time.Millisecond)

	time.Sleep(10 * time.Millisecond)
	assert.GreaterOrEqual(t, sw.Elapsed(), 10*time.Millisecond)
}

func TestRenderTag(t *testing.T) {
	var nilStringer *stringerTag

	tests := []struct {
		desc     string
		tag      any
		expected string
	}{
		{
			desc: "nil",
		},
		{
			desc: "empty string",
			tag:  "",
		},
		{
			desc:     "string",
			tag:      "A Tag",
			expected: "A Tag",
		},
		{
			desc:     "stringer",
			tag:      &stringerTag{name: "tag"},
			expected: "stringer tag",
		},
		{
			desc:     "nil stringer",
			tag:      nilStringer,
			expected: "<nil>",
		},
		{
			desc:     "function identifier",
			tag:      loadConfig,
			expected: "loadConfig",
		},
		{
			desc:     "integer",
			tag:      42,
			expected: "42",
		},
		{
			desc:     "line breaks are escaped",
			tag:      "first\nsecond\r\n",
			expected: `first\nsecond\r\n`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderTag(tt.tag))
		})
	}
}

func TestFormatReport(t *testing.T) {
	tests := []struct {
		desc     string
		tag      string
		elapsed  time.Duration
		expected string
	}{
		{
			desc:     "untagged",
			elapsed:  1500 * time.Microsecond,
			expected: "in main.go line 12: 1.500 ms",
		},
		{
			desc:     "tagged",
			tag:      "load config",
			elapsed:  2 * time.Second,
			expected: "in main.go line 12 load config: 2000.000 ms",
		},
		{
			desc:     "sub-microsecond",
			tag:      "sum",
			elapsed:  100 * time.Nanosecond,
			expected: "in main.go line 12 sum: 0.000 ms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatReport("main.go", 12, tt.tag, tt.elapsed))
		})
	}
}

func TestCallSite(t *testing.T) {
	expectedLine := currentLine() + 1
	file, line := callSite(0)

	assert.Equal(t, "timer_test.go", file)
	assert.Equal(t, expectedLine, line)
}

func TestSetLogger(t *testing.T) {
	original := reportLogger.Load()
	t.Cleanup(func() {
		reportLogger.Store(original)
	})

	buf := &bytes.Buffer{}
	replacement := NewLogger(buf)

	previous := SetLogger(replacement)
	assert.Same(t, original, previous)
	assert.Same(t, replacement, reportLogger.Load())

	report("main.go", 1, "tag", time.Millisecond)
	assert.Contains(t, buf.String(), "in main.go line 1 tag: 1.000 ms")

	// nil restores a default logger rather than storing nil
	previous = SetLogger(nil)
	assert.Same(t, replacement, previous)
	require.NotNil(t, reportLogger.Load())
	assert.NotSame(t, replacement, reportLogger.Load())
}

func TestNewLoggerPrintsRegardlessOfLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(buf)
	logger.SetLevel(log.FatalLevel)

	logger.Print("in main.go line 1: 1.000 ms")
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func ExampleSilent() {
	result, elapsed := Silent(func() int {
		return 1 + 1
	})

	fmt.Println(result, elapsed >= 0)
	// Output: 2 true
}
