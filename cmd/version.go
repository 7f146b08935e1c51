package cmd

import (
	"fmt"

	"github.com/solidDoWant/quick-timer/pkg/constants"
	"github.com/solidDoWant/quick-timer/pkg/timer"
	"github.com/spf13/cobra"
)

func buildType() string {
	if timer.ReportingEnabled {
		return "reporting enabled"
	}
	return "reporting disabled"
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: fmt.Sprintf("Print the %s version number", constants.ToolName),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", constants.Version, buildType())
	},
}
