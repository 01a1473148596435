package scaffold

import (
	"context"
	"fmt"
)

// PlanFor returns the scaffold plan for variant, or an
// *UnsupportedVariantError when the variant has none.
func PlanFor(variant Variant) (*Plan, error) {
	switch variant {
	case Express:
		return ExpressPlan(), nil
	case React, ReactTS, Next:
		return nil, &UnsupportedVariantError{Variant: variant}
	default:
		return nil, fmt.Errorf("unknown boilerplate type %q", variant)
	}
}

// Generate places the project and runs the variant's plan. The error is
// non-nil when placement fails, the variant is unsupported, or a fatal step
// failed; in the last case the report is returned as well.
func Generate(ctx context.Context, spec Spec, opts Options) (*Report, error) {
	opts = opts.withDefaults()

	root, err := Place(spec.Location)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("project placed", "root", root, "variant", spec.Variant)

	plan, err := PlanFor(spec.Variant)
	if err != nil {
		return nil, err
	}

	report, err := plan.Run(ctx, &Env{Root: root, Spec: spec, Options: opts})
	if err != nil {
		return nil, err
	}
	return report, report.Err()
}
