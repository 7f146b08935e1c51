//go:build !release || release_also

package timer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reportTimePattern = regexp.MustCompile(`line \d+( .*)?: \d+\.\d{3} ms`)

// Replaces the line number and elapsed time so that reports from different
// call sites can be compared.
func normalizeReport(report string) string {
	return reportTimePattern.ReplaceAllString(report, "line N$1: X ms")
}

func TestReportingEnabled(t *testing.T) {
	assert.True(t, ReportingEnabled)
}

func TestTimer(t *testing.T) {
	output := captureReports(t)

	expectedLine := currentLine() + 1
	result := Timer(func() int {
		return 1 + 1
	})

	assert.Equal(t, 2, result)
	assert.Equal(t, 1, strings.Count(output.String(), "\n"))
	assert.Regexp(t, fmt.Sprintf(`in timer_enabled_test\.go line %d: \d+\.\d{3} ms`, expectedLine), output.String())
}

func TestTimerSleep(t *testing.T) {
	output := captureReports(t)

	result := Tagged("sleep", func() int {
		time.Sleep(100 * time.Millisecond)
		return 42
	})

	assert.Equal(t, 42, result)

	matches := regexp.MustCompile(`sleep: (\d+)\.\d{3} ms`).FindStringSubmatch(output.String())
	require.Len(t, matches, 2)

	var millis int
	_, err := fmt.Sscan(matches[1], &millis)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, millis, 100)
	assert.Less(t, millis, 200)
}

func TestTagged(t *testing.T) {
	tests := []struct {
		desc        string
		tag         any
		expectedTag string
	}{
		{
			desc:        "string literal",
			tag:         "A Tag",
			expectedTag: "A Tag",
		},
		{
			desc:        "identifier",
			tag:         loadConfig,
			expectedTag: "loadConfig",
		},
		{
			desc:        "stringer",
			tag:         &stringerTag{name: "tag"},
			expectedTag: "stringer tag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			output := captureReports(t)

			result := Tagged(tt.tag, func() string {
				return "value"
			})

			assert.Equal(t, "value", result)
			assert.Equal(t, 1, strings.Count(output.String(), "\n"))
			assert.Regexp(t, regexp.QuoteMeta(" "+tt.expectedTag+": ")+`\d+\.\d{3} ms`, output.String())
		})
	}
}

func TestUntaggedReportHasNoTag(t *testing.T) {
	for _, tag := range []any{nil, ""} {
		output := captureReports(t)

		Tagged(tag, func() int { return 0 })
		assert.Regexp(t, `^in timer_enabled_test\.go line \d+: \d+\.\d{3} ms`, strings.TrimSpace(output.String()))
	}
}

func TestTimerErr(t *testing.T) {
	errBlock := errors.New("block failed")

	tests := []struct {
		desc     string
		tag      any
		blockErr error
	}{
		{
			desc: "untagged success",
		},
		{
			desc: "tagged success",
			tag:  "fetch",
		},
		{
			desc:     "untagged failure",
			blockErr: errBlock,
		},
		{
			desc:     "tagged failure",
			tag:      "fetch",
			blockErr: errBlock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			output := captureReports(t)

			block := func() (int, error) {
				return 7, tt.blockErr
			}

			var result int
			var err error
			if tt.tag == nil {
				result, err = TimerErr(block)
			} else {
				result, err = TaggedErr(tt.tag, block)
			}

			assert.Equal(t, 7, result)
			if tt.blockErr != nil {
				assert.Equal(t, tt.blockErr, err)
				assert.Empty(t, output.String())
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, 1, strings.Count(output.String(), "\n"))
			if tt.tag != nil {
				assert.Contains(t, output.String(), " fetch: ")
			}
		})
	}
}

func TestDo(t *testing.T) {
	output := captureReports(t)

	ran := 0
	Do(func() {
		ran++
	})
	DoTagged("side effect", func() {
		ran++
	})

	assert.Equal(t, 2, ran)
	assert.Equal(t, 2, strings.Count(output.String(), "\n"))
	assert.Contains(t, output.String(), " side effect: ")
}

func TestPanicPropagates(t *testing.T) {
	tests := []struct {
		desc string
		call func()
	}{
		{
			desc: "Timer",
			call: func() { Timer(func() int { panic("boom") }) },
		},
		{
			desc: "Tagged",
			call: func() { Tagged("tag", func() int { panic("boom") }) },
		},
		{
			desc: "TaggedErr",
			call: func() { _, _ = TaggedErr("tag", func() (int, error) { panic("boom") }) },
		},
		{
			desc: "DoTagged",
			call: func() { DoTagged("tag", func() { panic("boom") }) },
		},
		{
			desc: "Block",
			call: func() { Block[int]{Tag: "tag", Body: func() int { panic("boom") }}.Eval() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			output := captureReports(t)

			assert.PanicsWithValue(t, "boom", tt.call)
			assert.Empty(t, output.String())
		})
	}
}

func TestCallShapesAreEquivalent(t *testing.T) {
	body := func() int { return 1 + 1 }

	untagged := map[string]func() int{
		"Timer":         func() int { return Timer(body) },
		"Tagged nil":    func() int { return Tagged(nil, body) },
		"Block no tag":  func() int { return Block[int]{Body: body}.Eval() },
		"Block nil tag": func() int { return Block[int]{Tag: nil, Body: body}.Eval() },
	}
	tagged := map[string]func() int{
		"Tagged":     func() int { return Tagged("Tag", body) },
		"Block":      func() int { return Block[int]{Tag: "Tag", Body: body}.Eval() },
		"TaggedErr":  func() int { result, _ := TaggedErr("Tag", func() (int, error) { return body(), nil }); return result },
		"Identifier": func() int { return Tagged(Tag, body) },
	}

	for groupName, group := range map[string]map[string]func() int{"untagged": untagged, "tagged": tagged} {
		t.Run(groupName, func(t *testing.T) {
			var expectedReport string
			for name, call := range group {
				output := captureReports(t)

				assert.Equal(t, 2, call(), name)
				report := normalizeReport(output.String())
				assert.Contains(t, report, "in timer_enabled_test.go line N", name)

				if expectedReport == "" {
					expectedReport = report
					continue
				}
				assert.Equal(t, expectedReport, report, name)
			}
		})
	}
}

// Used as an identifier tag.
func Tag() {}

func TestConcurrentReports(t *testing.T) {
	output := captureReports(t)

	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := range workers {
		go func() {
			defer wg.Done()
			Tagged(fmt.Sprintf("worker %d", i), func() int { return i })
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(output.String()), "\n")
	require.Len(t, lines, workers)
	for i := range workers {
		assert.Contains(t, output.String(), fmt.Sprintf(" worker %d: ", i))
	}
}
