package cmd

import (
	"fmt"
	"html"
	"os"

	"github.com/gravitational/trace"
	"github.com/solidDoWant/quick-timer/pkg/constants"
	"github.com/solidDoWant/quick-timer/pkg/runner"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   constants.ToolName,
	Short: "Time commands and blocks of code",
	Long: constants.ToolName + ` prints how long a command took to run, along with the line it
was started from and an optional tag. Failed commands are not reported.`,
}

// Gets the status the process should exit with after err. Commands that ran
// and exited non-zero pass their status through.
func exitCode(err error) int {
	if code, exited := runner.ExitCode(err); exited && code > 0 {
		return code
	}
	return 1
}

func Execute() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(GetExecCommand())
	rootCmd.AddCommand(GetPlanCommand())
	rootCmd.AddCommand(GetExampleCommand())

	if err := rootCmd.Execute(); err != nil {
		report := trace.DebugReport(err)
		// The upstream library HTML escapes template chars, so they need to be
		// "unescaped" for readability here.
		report = html.UnescapeString(report)
		fmt.Fprintln(os.Stderr, report)
		os.Exit(exitCode(err))
	}
}
