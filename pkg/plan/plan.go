package plan

import (
	"dario.cat/mergo"
	"github.com/gravitational/trace"
	"github.com/samber/lo"
)

// Settings shared by every step of a plan. Values set on a step take
// precedence over the plan defaults, including an explicit false or empty list.
type StepOptions struct {
	// Return the elapsed time to the caller instead of printing a timer report.
	Silent *bool `yaml:"silent,omitempty"`
	// Working directory for the command.
	Dir string `yaml:"dir,omitempty"`
	// Extra environment variables in KEY=value form. When set on a step, these
	// replace the plan defaults. An empty list clears them.
	Env []string `yaml:"env,omitempty"`
	// Run the remaining steps even if this step fails.
	ContinueOnError *bool `yaml:"continueOnError,omitempty"`
}

func (so StepOptions) IsSilent() bool {
	return lo.FromPtr(so.Silent)
}

func (so StepOptions) ShouldContinueOnError() bool {
	return lo.FromPtr(so.ContinueOnError)
}

// A single command to time.
type Step struct {
	Tag     string      `yaml:"tag" jsonschema:"required,minLength=1"`
	Command []string    `yaml:"command" jsonschema:"required,minItems=1"`
	Options StepOptions `yaml:"options,omitempty"`
}

// A list of commands that are timed one after another.
type Plan struct {
	Defaults StepOptions `yaml:"defaults,omitempty"`
	Steps    []Step      `yaml:"steps" jsonschema:"required,minItems=1" validate:"min=1"`
}

// Checks constraints that cannot be expressed with struct tags.
func (p *Plan) Validate() error {
	if len(p.Steps) == 0 {
		return trace.BadParameter("plan must contain at least one step")
	}

	for i, step := range p.Steps {
		if step.Tag == "" {
			return trace.BadParameter("step %d is missing a tag", i+1)
		}

		if len(step.Command) == 0 || step.Command[0] == "" {
			return trace.BadParameter("step %q is missing a command", step.Tag)
		}
	}

	tags := lo.Map(p.Steps, func(step Step, _ int) string { return step.Tag })
	if duplicates := lo.FindDuplicates(tags); len(duplicates) > 0 {
		return trace.BadParameter("step tags must be unique, found duplicates: %v", duplicates)
	}

	return nil
}

// Gets the step's options with unset values filled in from the plan defaults.
// Unset means a nil pointer or list; zero values set on the step are kept.
func (p *Plan) Resolve(step Step) (StepOptions, error) {
	resolved := step.Options
	defaults := p.Defaults

	// mergo treats an empty list as unset, so lists are resolved here. The copy
	// keeps resolved options from sharing a backing array with the plan.
	if resolved.Env == nil {
		resolved.Env = defaults.Env
	}
	if resolved.Env != nil {
		resolved.Env = append([]string{}, resolved.Env...)
	}
	defaults.Env = nil

	// Without dereferencing, a set pointer is kept even when it points to false
	err := mergo.Merge(&resolved, defaults, mergo.WithoutDereference)
	return resolved, trace.Wrap(err, "failed to merge plan defaults into step %q", step.Tag)
}

// Gets the steps with the given tags, in plan order. If no tags are given,
// all steps are returned.
func (p *Plan) Select(tags []string) ([]Step, error) {
	if len(tags) == 0 {
		return p.Steps, nil
	}

	planTags := lo.Map(p.Steps, func(step Step, _ int) string { return step.Tag })
	if unknownTags, _ := lo.Difference(tags, planTags); len(unknownTags) > 0 {
		return nil, trace.NotFound("plan has no steps tagged %v", unknownTags)
	}

	return lo.Filter(p.Steps, func(step Step, _ int) bool {
		return lo.Contains(tags, step.Tag)
	}), nil
}
