package scaffold

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedVariant is matched by *UnsupportedVariantError.
	ErrUnsupportedVariant = errors.New("boilerplate type not supported yet")
	// ErrUnsupportedFeature is returned when adding features to an existing project.
	ErrUnsupportedFeature = errors.New("adding features to a boilerplate is not supported yet")
	// ErrAborted marks steps that never ran because an earlier fatal step failed.
	ErrAborted = errors.New("run aborted")
	// errDisabled lets a step report that configuration switched it off.
	errDisabled = errors.New("disabled by configuration")
)

// UnsupportedVariantError is returned for variants without a scaffold plan.
type UnsupportedVariantError struct {
	Variant Variant
}

func (e *UnsupportedVariantError) Error() string {
	return fmt.Sprintf("%s boilerplate is not supported yet", e.Variant)
}

// Is lets errors.Is match ErrUnsupportedVariant.
func (e *UnsupportedVariantError) Is(target error) bool {
	return target == ErrUnsupportedVariant
}

// StepError wraps a failure with the name of the step that produced it.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
