package contexts

import (
	"context"
	"time"
)

// Values that every command needs while running plan steps or timed
// commands. Grouping them keeps function signatures short.
type Context struct {
	context.Context
	Log       *LoggerContext
	Stopwatch *StopwatchContext
}

func NewContext(ctx context.Context) *Context {
	return &Context{
		Context:   ctx,
		Log:       NewLoggerContext(nullLogger),
		Stopwatch: NewStopwatchContext(),
	}
}

// Important: this is a shallow copy, so the copy shares the logger and
// stopwatch with the original until they are replaced.
func (c *Context) ShallowCopy() *Context {
	copied := *c
	return &copied
}

// Creates a copy of the context that is cancelled after the timeout. A zero
// timeout means the copy can only be cancelled explicitly.
func (c *Context) WithTimeout(timeout time.Duration) (*Context, context.CancelFunc) {
	var ctx context.Context
	var cancel context.CancelFunc
	if timeout == 0 {
		ctx, cancel = context.WithCancel(c.Context)
	} else {
		ctx, cancel = context.WithTimeout(c.Context, timeout)
	}

	copiedCtx := c.ShallowCopy()
	copiedCtx.Context = ctx
	return copiedCtx, cancel
}

func (c *Context) WithLogger(logger *LoggerContext) *Context {
	c.Log = logger
	return c
}

// Creates a context for a nested unit of work, with its own stopwatch and a
// child logger.
func (c *Context) Child() *Context {
	child := c.ShallowCopy()
	child.Log = c.Log.child()
	child.Stopwatch = NewStopwatchContext()
	return child
}
