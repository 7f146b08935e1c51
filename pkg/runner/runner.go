package runner

import (
	"time"

	"github.com/google/uuid"
	"github.com/gravitational/trace"
	"github.com/solidDoWant/quick-timer/pkg/contexts"
	"github.com/solidDoWant/quick-timer/pkg/plan"
	"github.com/solidDoWant/quick-timer/pkg/timer"
)

// Runs commands with a timer around each one.
type Runner struct {
	runtime Runtime
}

func NewRunner(runtime Runtime) *Runner {
	return &Runner{
		runtime: runtime,
	}
}

// Times a single command. Unless silent, a timer report is printed when the
// command succeeds. Silent runs log the elapsed time instead. Failed commands
// are never reported, matching the timer's behavior.
func (r *Runner) Exec(ctx *contexts.Context, tag string, silent bool, cmd Command) error {
	block := func() (struct{}, error) {
		return struct{}{}, r.runtime.Run(ctx, cmd)
	}

	if !silent {
		_, err := timer.TaggedErr(tag, block)
		return err
	}

	_, elapsed, err := timer.SilentErr(block)
	if err != nil {
		return err
	}

	ctx.Log.Info("Command finished", "tag", tag, "elapsed", elapsed)
	return nil
}

// The outcome of a single plan step.
type StepResult struct {
	Tag string
	// Zero for failed steps.
	Elapsed time.Duration
	Err     error
}

// Runs the selected plan steps in order. A failing step stops the plan unless
// it is marked to continue on error, in which case all failures are returned
// together once the remaining steps have run.
func (r *Runner) RunPlan(ctx *contexts.Context, p *plan.Plan, only []string) (results []StepResult, err error) {
	if err := p.Validate(); err != nil {
		return nil, trace.Wrap(err, "invalid plan")
	}

	steps, err := p.Select(only)
	if err != nil {
		return nil, trace.Wrap(err, "failed to select plan steps")
	}

	// The run ID is added to a new logger so that the caller's is unchanged
	runLog := contexts.NewLoggerContext(ctx.Log.Logger.With("runID", uuid.NewString()))
	runLog.SetPrefix(ctx.Log.GetPrefix())
	ctx = ctx.ShallowCopy().WithLogger(runLog)

	ctx.Log.Info("Running plan", "steps", len(steps))
	defer ctx.Log.Info("Finished running plan", ctx.Stopwatch.Keyval(), contexts.ErrorKeyvals(&err))

	var failures []error
	for _, step := range steps {
		options, err := p.Resolve(step)
		if err != nil {
			return results, trace.Wrap(err, "failed to resolve options for step %q", step.Tag)
		}

		stepCtx := ctx.Child()
		stepCtx.Log = ctx.Log.Step().With("tag", step.Tag)

		result := r.runStep(stepCtx, step, options)
		results = append(results, result)
		if result.Err == nil {
			continue
		}

		if !options.ShouldContinueOnError() {
			return results, trace.Wrap(trace.NewAggregate(append(failures, result.Err)...), "plan stopped at step %q", step.Tag)
		}

		stepCtx.Log.Warn("Step failed, continuing", "error", result.Err)
		failures = append(failures, result.Err)
	}

	return results, trace.Wrap(trace.NewAggregate(failures...), "%d plan step(s) failed", len(failures))
}

func (r *Runner) runStep(ctx *contexts.Context, step plan.Step, options plan.StepOptions) StepResult {
	cmd := Command{
		Args: step.Command,
		Dir:  options.Dir,
		Env:  options.Env,
	}
	result := StepResult{Tag: step.Tag}

	run := func() (struct{}, error) {
		return struct{}{}, r.runtime.Run(ctx, cmd)
	}

	if options.IsSilent() {
		_, result.Elapsed, result.Err = timer.SilentErr(run)
	} else {
		// The inner measurement is kept for the results, in all builds
		_, result.Err = timer.TaggedErr(step.Tag, func() (struct{}, error) {
			var err error
			_, result.Elapsed, err = timer.SilentErr(run)
			return struct{}{}, err
		})
	}

	if result.Err != nil {
		result.Err = trace.Wrap(result.Err, "step %q failed", step.Tag)
		return result
	}

	if options.IsSilent() {
		ctx.Log.Info("Step finished", "elapsed", result.Elapsed)
	}
	return result
}
