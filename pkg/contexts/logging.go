package contexts

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Used when a context is created without a logger. Nothing is written.
var nullLogger = log.NewWithOptions(io.Discard, log.Options{
	Level: log.FatalLevel,
})

type DeferredKeyvalInterface interface {
	Keyval() []interface{}
}

// A keyval whose value is computed when the log call is made.
type DeferredKeyval struct {
	Key   string
	Value func() interface{}
}

func NewDeferredKeyval(key string, value func() interface{}) *DeferredKeyval {
	return &DeferredKeyval{
		Key:   key,
		Value: value,
	}
}

func (dk *DeferredKeyval) Keyval() []interface{} {
	return []interface{}{dk.Key, dk.Value()}
}

type deferredErrorKeyvals struct {
	err *error
}

func (dek *deferredErrorKeyvals) Keyval() []interface{} {
	if dek.err == nil || *dek.err == nil {
		return nil
	}

	return []interface{}{"error", *dek.err}
}

// Creates a keyval for an error that may be set later, typically a named
// return value. The keyval is omitted entirely if the error is nil.
func ErrorKeyvals(err *error) DeferredKeyvalInterface {
	return &deferredErrorKeyvals{err: err}
}

// Wraps a logger with nested step prefixes, e.g. "(2):::(1)", and support for
// deferred keyvals.
type LoggerContext struct {
	*log.Logger
	mu        *sync.RWMutex
	stepCount int
	// The underlying logger always places a ':' after its own prefix, so the
	// prefix is tracked here instead.
	prefix string
}

func NewLoggerContext(logger *log.Logger) *LoggerContext {
	return &LoggerContext{
		Logger: logger,
		mu:     &sync.RWMutex{},
	}
}

func (lc *LoggerContext) child() *LoggerContext {
	newLogger := NewLoggerContext(lc.Logger.With())

	lc.mu.RLock()
	parentPrefix := lc.prefix
	parentStepCount := lc.stepCount
	lc.mu.RUnlock()

	newLogger.prefix = getStepPrefix(parentPrefix, parentStepCount) + ":::"
	return newLogger
}

func (lc *LoggerContext) SetPrefix(prefix string) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.prefix = prefix
}

func (lc *LoggerContext) GetPrefix() string {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return lc.prefix
}

// Adds keyvals to all future log calls. The same logger context is returned.
func (lc *LoggerContext) With(keyvals ...interface{}) *LoggerContext {
	lc.Logger = lc.Logger.With(keyvals...)
	return lc
}

func getStepPrefix(prefix string, stepCount int) string {
	if stepCount > 0 {
		return fmt.Sprintf("%s(%d)", prefix, stepCount)
	}
	return prefix
}

// Creates a new logger context for the next step. Each call increments the
// step number shown in the prefix.
func (lc *LoggerContext) Step() *LoggerContext {
	lc.mu.Lock()
	lc.stepCount++
	prefix := lc.prefix
	stepCount := lc.stepCount
	lc.mu.Unlock()

	newLogger := NewLoggerContext(lc.Logger.With())
	newLogger.prefix = getStepPrefix(prefix, stepCount)
	return newLogger
}

// Expands any deferred keyvals, preserving order.
func processDeferredKeyvals(keyvals []interface{}) []interface{} {
	processedKeyvals := make([]interface{}, 0, len(keyvals))
	for _, keyval := range keyvals {
		if dk, ok := keyval.(DeferredKeyvalInterface); ok {
			processedKeyvals = append(processedKeyvals, dk.Keyval()...)
		} else {
			processedKeyvals = append(processedKeyvals, keyval)
		}
	}
	return processedKeyvals
}

func (lc *LoggerContext) processLogCall(msg interface{}, keyvals []interface{}) (string, []interface{}) {
	formattedMessage := ""
	if msg != nil {
		formattedMessage = fmt.Sprint(msg)
	}

	if prefix := lc.GetPrefix(); prefix != "" {
		formattedMessage = fmt.Sprintf("%s %s", prefix, formattedMessage)
	}
	return formattedMessage, processDeferredKeyvals(keyvals)
}

// The log.Logger methods are overridden so that prefixes and deferred keyvals
// are applied. Only the levels used by this tool are covered.

func (lc *LoggerContext) Debug(msg interface{}, keyvals ...interface{}) {
	lc.Helper() // Needed so that the formatter uses the correct stack frame
	formattedMessage, keyvals := lc.processLogCall(msg, keyvals)
	lc.Logger.Debug(formattedMessage, keyvals...)
}

func (lc *LoggerContext) Info(msg interface{}, keyvals ...interface{}) {
	lc.Helper()
	formattedMessage, keyvals := lc.processLogCall(msg, keyvals)
	lc.Logger.Info(formattedMessage, keyvals...)
}

func (lc *LoggerContext) Warn(msg interface{}, keyvals ...interface{}) {
	lc.Helper()
	formattedMessage, keyvals := lc.processLogCall(msg, keyvals)
	lc.Logger.Warn(formattedMessage, keyvals...)
}

func (lc *LoggerContext) Error(msg interface{}, keyvals ...interface{}) {
	lc.Helper()
	formattedMessage, keyvals := lc.processLogCall(msg, keyvals)
	lc.Logger.Error(formattedMessage, keyvals...)
}
