package cmd

import (
	"bytes"
	"io"

	"github.com/gravitational/trace"
	"github.com/solidDoWant/quick-timer/pkg/cli/features"
	"github.com/solidDoWant/quick-timer/pkg/plan"
	"github.com/solidDoWant/quick-timer/pkg/results"
	"github.com/solidDoWant/quick-timer/pkg/runner"
	"github.com/spf13/cobra"
)

type PlanCommand struct {
	contextCommand *features.ContextCommand
	configFile     features.ConfigFileCommand[plan.Plan]
	runtime        runner.Runtime
	only           []string
	summary        bool
	metricsFile    string
}

func NewPlanCommand() *PlanCommand {
	return &PlanCommand{
		contextCommand: features.NewContextCommand(true),
		runtime:        runner.NewLocalRuntime(),
	}
}

func (pc *PlanCommand) run(outputWriter io.Writer) error {
	ctx, cancel := pc.contextCommand.GetCommandContext()
	defer cancel()

	timingPlan, err := pc.configFile.ReadConfigFile(ctx)
	if err != nil {
		return trace.Wrap(err, "failed to load plan")
	}

	stepResults, err := runner.NewRunner(pc.runtime).RunPlan(ctx, &timingPlan, pc.only)
	errs := []error{trace.Wrap(err, "plan failed")}

	// Partial results from a failed plan are still written out
	if pc.summary {
		errs = append(errs, results.WriteTable(outputWriter, stepResults))
	}

	if pc.metricsFile != "" {
		metrics := results.NewMetrics()
		metrics.Record(stepResults)
		errs = append(errs, metrics.WriteTextfile(pc.metricsFile))
	}

	return trace.NewAggregate(errs...)
}

func (pc *PlanCommand) configureFlags(cmd *cobra.Command) {
	pc.contextCommand.ConfigureFlags(cmd)
	pc.configFile.ConfigureFlags(cmd)
	cmd.Flags().StringSliceVar(&pc.only, "only", nil, "Only run the steps with these tags")
	cmd.Flags().BoolVar(&pc.summary, "summary", false, "Print a table of step results after the plan finishes")
	cmd.Flags().StringVar(&pc.metricsFile, "metrics-file", "", "Write step results to this file in the Prometheus text format")
}

func (pc *PlanCommand) writeSchema(outputWriter io.Writer) error {
	schema, err := pc.configFile.GenerateConfigSchema()
	if err != nil {
		return trace.Wrap(err, "failed to generate plan schema")
	}

	_, err = io.Copy(outputWriter, bytes.NewReader(schema))
	return trace.Wrap(err, "failed to write plan schema")
}

func (pc *PlanCommand) PlanCommand() *cobra.Command {
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Time a list of commands described in a plan file",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the plan, printing how long each step took",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pc.run(cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}
	pc.configureFlags(runCmd)

	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema for plan files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pc.writeSchema(cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	planCmd.AddCommand(runCmd, schemaCmd)
	return planCmd
}

func GetPlanCommand() *cobra.Command {
	return NewPlanCommand().PlanCommand()
}
