package timer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

var reportLogger = func() *atomic.Pointer[log.Logger] {
	logger := &atomic.Pointer[log.Logger]{}
	logger.Store(NewLogger(os.Stdout))
	return logger
}()

// NewLogger creates a logger suitable for writing timer reports to w. Reports
// are written at print level, so they are shown regardless of the log level.
func NewLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level: log.InfoLevel,
	})
}

// SetLogger replaces the logger that reports are written to, and returns the
// previous one. Passing nil restores the default logger, which writes to
// standard output.
func SetLogger(logger *log.Logger) *log.Logger {
	if logger == nil {
		logger = NewLogger(os.Stdout)
	}
	return reportLogger.Swap(logger)
}

func report(file string, line int, tag any, elapsed time.Duration) {
	reportLogger.Load().Print(formatReport(file, line, renderTag(tag), elapsed))
}

// Builds a report line, e.g. "in main.go line 12 load config: 1.503 ms".
// The tag is omitted entirely when empty.
func formatReport(file string, line int, tag string, elapsed time.Duration) string {
	location := fmt.Sprintf("in %s line %d", file, line)
	if tag != "" {
		location += " " + tag
	}
	return location + ": " + formatMillis(elapsed)
}

// Milliseconds, with microsecond precision.
func formatMillis(elapsed time.Duration) string {
	return strconv.FormatFloat(float64(elapsed)/float64(time.Millisecond), 'f', 3, 64) + " ms"
}

// Gets the file name and line of a caller. A skip of 0 refers to the function
// calling callSite.
func callSite(skip int) (string, int) {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "???", 0
	}
	return filepath.Base(file), line
}
