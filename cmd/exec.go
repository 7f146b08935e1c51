package cmd

import (
	"github.com/solidDoWant/quick-timer/pkg/cli/features"
	"github.com/solidDoWant/quick-timer/pkg/runner"
	"github.com/spf13/cobra"
)

type ExecCommand struct {
	contextCommand *features.ContextCommand
	runtime        runner.Runtime
	tag            string
	silent         bool
}

func NewExecCommand() *ExecCommand {
	return &ExecCommand{
		contextCommand: features.NewContextCommand(true),
		runtime:        runner.NewLocalRuntime(),
	}
}

func (ec *ExecCommand) run(args []string) error {
	ctx, cancel := ec.contextCommand.GetCommandContext()
	defer cancel()

	return runner.NewRunner(ec.runtime).Exec(ctx, ec.tag, ec.silent, runner.Command{Args: args})
}

func (ec *ExecCommand) configureFlags(cmd *cobra.Command) {
	ec.contextCommand.ConfigureFlags(cmd)
	cmd.Flags().StringVarP(&ec.tag, "tag", "t", "", "Tag printed next to the elapsed time")
	cmd.Flags().BoolVarP(&ec.silent, "silent", "s", false, "Log the elapsed time instead of printing a timer report")
	// Everything after the program name belongs to the program
	cmd.Flags().SetInterspersed(false)
}

func (ec *ExecCommand) ExecCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec [flags] [--] command [args...]",
		Short: "Run a command and print how long it took",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ec.run(args)
		},
		SilenceUsage: true,
	}

	ec.configureFlags(cmd)

	return cmd
}

func GetExecCommand() *cobra.Command {
	return NewExecCommand().ExecCommand()
}
