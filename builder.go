package blockflow

import (
	"errors"
	"fmt"
)

type plannedStep struct {
	kind        string
	description string
	describe    bool
}

// SequenceBuilder provides a fluent API for laying out a sequence without
// going through drag gestures:
//
//	steps, err := blockflow.NewSequence().
//	    Step("SAMPLE_PREP").
//	    StepWithDescription("CENTRIFUGE", "4000 rpm, 10 min").
//	    Step("ANALYSIS").
//	    Apply(wb)
type SequenceBuilder struct {
	steps []plannedStep
}

// NewSequence creates an empty builder.
func NewSequence() *SequenceBuilder {
	return &SequenceBuilder{}
}

// Step appends a step of the given kind with the template's description.
func (b *SequenceBuilder) Step(kind string) *SequenceBuilder {
	if kind == "" {
		panic("blockflow: step kind must not be empty")
	}
	b.steps = append(b.steps, plannedStep{kind: kind})
	return b
}

// StepWithDescription appends a step whose description replaces the
// template's.
func (b *SequenceBuilder) StepWithDescription(kind, description string) *SequenceBuilder {
	if kind == "" {
		panic("blockflow: step kind must not be empty")
	}
	b.steps = append(b.steps, plannedStep{kind: kind, description: description, describe: true})
	return b
}

// Kinds returns the planned kinds in order.
func (b *SequenceBuilder) Kinds() []string {
	out := make([]string, len(b.steps))
	for i, s := range b.steps {
		out[i] = s.kind
	}
	return out
}

// Apply appends the planned steps to wb in order. Every kind is checked
// against the palette first; on error nothing is appended.
func (b *SequenceBuilder) Apply(wb *Workbench) ([]Step, error) {
	var errs []error
	for i, s := range b.steps {
		if _, err := wb.catalog.Lookup(s.kind); err != nil {
			errs = append(errs, fmt.Errorf("step %d: %w", i, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	out := make([]Step, 0, len(b.steps))
	for _, s := range b.steps {
		step, err := wb.Add(s.kind)
		if err != nil {
			return out, err
		}
		if s.describe {
			wb.EditDescription(step.ID, s.description)
			step.Description = s.description
		}
		out = append(out, step)
	}
	return out, nil
}

// MustApply is like Apply but panics on error.
func (b *SequenceBuilder) MustApply(wb *Workbench) []Step {
	steps, err := b.Apply(wb)
	if err != nil {
		panic(err)
	}
	return steps
}
