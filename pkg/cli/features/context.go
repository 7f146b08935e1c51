package features

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/solidDoWant/quick-timer/pkg/contexts"
	"github.com/solidDoWant/quick-timer/pkg/timer"
	"github.com/spf13/cobra"
)

// pflag.Value for log.Level
type logLevelVar struct {
	LogLevel log.Level
}

func (llv *logLevelVar) Set(value string) error {
	level, err := log.ParseLevel(value)
	if err != nil {
		return err
	}

	llv.LogLevel = level
	return nil
}

func (llv *logLevelVar) Type() string {
	return "logLevel"
}

func (llv *logLevelVar) String() string {
	return llv.LogLevel.String()
}

var logFormatters = map[string]log.Formatter{
	"text":   log.TextFormatter,
	"json":   log.JSONFormatter,
	"logfmt": log.LogfmtFormatter,
}

// pflag.Value for log.Formatter
type logFormatVar struct {
	log.Formatter
}

func (lfv *logFormatVar) Set(value string) error {
	formatter, ok := logFormatters[value]
	if !ok {
		return fmt.Errorf("unknown log format: %s", value)
	}

	lfv.Formatter = formatter
	return nil
}

func (lfv *logFormatVar) Type() string {
	return "logFormat"
}

func (lfv *logFormatVar) String() string {
	for name, formatter := range logFormatters {
		if formatter == lfv.Formatter {
			return name
		}
	}
	// If this is hit then the program has a bug.
	return "unknown"
}

type ContextCommandInterface interface {
	ConfigureFlags(cmd *cobra.Command)
	GetCommandContext() (*contexts.Context, context.CancelFunc)
}

// Gives the command the ability to create a context for its execution. The
// context's logger is also used for timer reports, so that they share the
// command's log format.
type ContextCommand struct {
	logLevelVar
	logFormatVar
	Timeout time.Duration
	// If false, the command will not have a timeout, and will not have a timeout flag.
	EnableTimeout bool
	// Where logs and timer reports are written. Defaults to stdout.
	Output io.Writer
}

func NewContextCommand(enableTimeout bool) *ContextCommand {
	return &ContextCommand{
		logLevelVar: logLevelVar{
			LogLevel: log.InfoLevel,
		},
		logFormatVar: logFormatVar{
			Formatter: log.TextFormatter,
		},
		EnableTimeout: enableTimeout,
	}
}

func (ctc *ContextCommand) ConfigureFlags(cmd *cobra.Command) {
	cmd.Flags().Var(&ctc.logLevelVar, "log-level", "Log level (debug, info, warn, error)")
	cmd.Flags().Var(&ctc.logFormatVar, "log-format", "Log format (text, json, logfmt)")

	if ctc.EnableTimeout {
		cmd.Flags().DurationVar(&ctc.Timeout, "timeout", 0, "Maximum time to wait for the command to complete before cancelling it (0 = no timeout)")
	}
}

func (ctc *ContextCommand) getLogOptions() log.Options {
	options := log.Options{
		Level:     ctc.LogLevel,
		Formatter: ctc.Formatter,
	}

	if ctc.LogLevel == log.DebugLevel {
		options.ReportCaller = true
		options.ReportTimestamp = true
	}

	return options
}

func (ctc *ContextCommand) getOutput() io.Writer {
	if ctc.Output == nil {
		return os.Stdout
	}
	return ctc.Output
}

// Get a context suited for a command's primary function. This will include a
// timeout, a signal handler, and a logger that timer reports are routed to
// until the context is cancelled.
func (ctc *ContextCommand) GetCommandContext() (*contexts.Context, context.CancelFunc) {
	sigintCtx, sigintCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	ctx, timeoutCancel := contexts.NewContext(sigintCtx).WithTimeout(ctc.Timeout)

	logOptions := ctc.getLogOptions()
	logger := log.NewWithOptions(ctc.getOutput(), logOptions)
	ctx.WithLogger(contexts.NewLoggerContext(logger))

	// Reports name their own call site, and the logger's caller would always be
	// the timer package
	logOptions.ReportCaller = false
	previousReportLogger := timer.SetLogger(log.NewWithOptions(ctc.getOutput(), logOptions))

	combinedCancel := func() {
		timeoutCancel()
		sigintCancel()
		timer.SetLogger(previousReportLogger)
	}

	return ctx, combinedCancel
}
