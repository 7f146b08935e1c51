package cmd

import (
	"fmt"
	"io"

	"github.com/gravitational/trace"
	"github.com/solidDoWant/quick-timer/pkg/cli/features"
	"github.com/solidDoWant/quick-timer/pkg/timer"
	"github.com/spf13/cobra"
)

type ExampleCommand struct {
	contextCommand *features.ContextCommand
}

func NewExampleCommand() *ExampleCommand {
	return &ExampleCommand{
		contextCommand: features.NewContextCommand(false),
	}
}

// Used as an identifier tag. Reports show it as "warmUp".
func warmUp() {}

// Walks through each way of calling the timer. Reports go to the timer's
// logger, everything else to out.
func runExample(out io.Writer) error {
	work := func() {
		fmt.Fprintln(out, "Doing some work")
	}

	// No tag
	timer.Do(work)
	timer.Block[struct{}]{Body: func() struct{} { work(); return struct{}{} }}.Eval()

	// With a tag
	timer.DoTagged(warmUp, work)
	timer.DoTagged("A Tag", work)
	timer.Block[struct{}]{Tag: warmUp, Body: func() struct{} { work(); return struct{}{} }}.Eval()

	// The block's result is handed back
	result := timer.Tagged("sum", func() int {
		return 1 + 1
	})
	if result != 2 {
		return trace.Errorf("timed block returned %d, expected 2", result)
	}

	// Silent timers never print, in any build, and return the elapsed time instead
	result, elapsed := timer.Silent(func() int {
		work()
		return 1 + 1
	})
	if result != 2 {
		return trace.Errorf("silently timed block returned %d, expected 2", result)
	}
	fmt.Fprintf(out, "Silent block took %s\n", elapsed)

	return nil
}

func (ec *ExampleCommand) run(out io.Writer) error {
	_, cancel := ec.contextCommand.GetCommandContext()
	defer cancel()

	return runExample(out)
}

func (ec *ExampleCommand) ExampleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Show each way of timing a block of code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ec.run(cmd.OutOrStdout())
		},
	}

	ec.contextCommand.ConfigureFlags(cmd)

	return cmd
}

func GetExampleCommand() *cobra.Command {
	return NewExampleCommand().ExampleCommand()
}
