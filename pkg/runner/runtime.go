package runner

import (
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/gravitational/trace"
	"github.com/solidDoWant/quick-timer/pkg/contexts"
	"golang.org/x/term"
)

// A command to run, along with where and how to run it.
type Command struct {
	Args []string
	Dir  string
	// Extra environment variables in KEY=value form, added to the current
	// process environment.
	Env []string
}

// Represents a place where commands can run.
type Runtime interface {
	Run(ctx *contexts.Context, cmd Command) error
}

// Runs commands as child processes of this one.
type LocalRuntime struct {
	Stdin  *os.File
	Stdout io.Writer
	Stderr io.Writer
}

func NewLocalRuntime() *LocalRuntime {
	return &LocalRuntime{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Runs the command and waits for it to exit. Stdin is only passed through when
// it is a terminal, so that commands in a non-interactive pipeline do not
// consume input meant for something else.
func (lr *LocalRuntime) Run(ctx *contexts.Context, cmd Command) error {
	if len(cmd.Args) == 0 {
		return trace.BadParameter("no command provided")
	}

	execCmd := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...)
	execCmd.Dir = cmd.Dir
	execCmd.Env = append(os.Environ(), cmd.Env...)
	execCmd.Stdout = lr.Stdout
	execCmd.Stderr = lr.Stderr
	if lr.Stdin != nil && term.IsTerminal(int(lr.Stdin.Fd())) {
		execCmd.Stdin = lr.Stdin
	}

	ctx.Log.Debug("Starting command", "args", cmd.Args, "dir", cmd.Dir)
	err := execCmd.Run()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return trace.Wrap(err, "command %q exited with status %d", cmd.Args[0], exitErr.ExitCode())
	}
	return trace.Wrap(err, "failed to run command %q", cmd.Args[0])
}

// Gets the exit status of a failed command, if it ran to completion.
func ExitCode(err error) (int, bool) {
	var exitErr *exec.ExitError
	if errors.As(trace.Unwrap(err), &exitErr) {
		return exitErr.ExitCode(), true
	}
	return 0, false
}
