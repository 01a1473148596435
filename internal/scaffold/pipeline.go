package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/boiler-labs/boiler/internal/toolexec"
)

// Severity decides whether a failed step stops the run.
type Severity int

const (
	// Fatal failures stop the run.
	Fatal Severity = iota
	// Recoverable failures are reported as warnings and the run continues.
	Recoverable
)

func (s Severity) String() string {
	if s == Recoverable {
		return "recoverable"
	}
	return "fatal"
}

// Status is the outcome of a single step.
type Status int

const (
	// StatusOK means the step ran and succeeded, or was disabled.
	StatusOK Status = iota
	// StatusFailed means the step ran and returned an error.
	StatusFailed
	// StatusSkipped means the step did not run.
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// Options configures a scaffold run.
type Options struct {
	Runner           toolexec.Runner
	Logger           *slog.Logger
	Progress         io.Writer // receives one line per step; nil discards
	PackageManager   string
	GitBinary        string
	InitTimeout      time.Duration
	InstallTimeout   time.Duration
	ParallelInstalls bool
	SkipInstall      bool
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Runner == nil {
		o.Runner = toolexec.NewInvoker(o.Logger)
	}
	if o.Progress == nil {
		o.Progress = io.Discard
	}
	if o.PackageManager == "" {
		o.PackageManager = "npm"
	}
	if o.GitBinary == "" {
		o.GitBinary = "git"
	}
	return o
}

// Env is what a step sees while it runs.
type Env struct {
	Root    string // absolute project root
	Spec    Spec
	Options Options
}

// run executes a synchronous tool command in the project root.
func (e *Env) run(ctx context.Context, program string, timeout time.Duration, args ...string) error {
	return e.Options.Runner.Run(ctx, toolexec.Command{
		Program: program,
		Args:    args,
		Dir:     e.Root,
		Mode:    toolexec.Sync,
		Timeout: timeout,
	}).Err()
}

// Step is one named unit of the pipeline.
type Step struct {
	Name     string
	Severity Severity
	Requires []string // steps that must have succeeded first
	Run      func(ctx context.Context, env *Env) error
}

// StepResult records what happened to a step.
type StepResult struct {
	Name     string
	Severity Severity
	Status   Status
	Err      error
	Note     string
	Duration time.Duration
}

// Plan is an ordered list of steps.
type Plan struct {
	Steps []Step
}

// Check verifies the plan before anything runs: names are unique and every
// requirement names an earlier step.
func (p *Plan) Check() error {
	var errs []error
	seen := make(map[string]bool, len(p.Steps))
	for i, s := range p.Steps {
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("step %d has no name", i))
			continue
		}
		if s.Run == nil {
			errs = append(errs, fmt.Errorf("step %s has no action", s.Name))
		}
		if seen[s.Name] {
			errs = append(errs, fmt.Errorf("step %s is declared twice", s.Name))
		}
		for _, req := range s.Requires {
			if !seen[req] {
				errs = append(errs, fmt.Errorf("step %s requires %s, which does not run before it", s.Name, req))
			}
		}
		seen[s.Name] = true
	}
	return errors.Join(errs...)
}

// Run checks the plan and executes its steps in order. A step whose
// requirement did not succeed is skipped. The first fatal failure or skip
// aborts the run; the remaining steps are recorded with ErrAborted.
func (p *Plan) Run(ctx context.Context, env *Env) (*Report, error) {
	if err := p.Check(); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}

	log := env.Options.Logger
	report := &Report{Root: env.Root}
	outcome := make(map[string]Status, len(p.Steps))
	aborted := false

	for _, s := range p.Steps {
		res := StepResult{Name: s.Name, Severity: s.Severity}

		switch {
		case aborted:
			res.Status = StatusSkipped
			res.Err = ErrAborted
		case ctx.Err() != nil:
			res.Status = StatusSkipped
			res.Err = ErrAborted
			report.cancelled = ctx.Err()
			aborted = true
		default:
			if dep, st, ok := unmet(s.Requires, outcome); !ok {
				res.Status = StatusSkipped
				res.Err = fmt.Errorf("requires %s, which %s", dep, st)
			} else {
				start := time.Now()
				err := s.Run(ctx, env)
				res.Duration = time.Since(start)
				switch {
				case err == nil:
					res.Status = StatusOK
				case errors.Is(err, errDisabled):
					res.Status = StatusSkipped
					res.Note = errDisabled.Error()
				default:
					res.Status = StatusFailed
					res.Err = err
				}
			}
			if res.Err != nil && s.Severity == Fatal {
				aborted = true
			}
		}

		outcome[s.Name] = res.Status
		report.Steps = append(report.Steps, res)
		printProgress(env.Options.Progress, res)

		attrs := []any{"step", res.Name, "status", res.Status, "took", res.Duration.Round(time.Millisecond)}
		switch {
		case res.Err == nil || errors.Is(res.Err, ErrAborted):
			log.Debug("step finished", attrs...)
		case s.Severity == Fatal:
			log.Error("step failed", append(attrs, "error", res.Err)...)
		default:
			log.Warn("step failed", append(attrs, "error", res.Err)...)
		}
	}

	return report, nil
}

// unmet returns the first requirement that did not succeed.
func unmet(requires []string, outcome map[string]Status) (string, Status, bool) {
	for _, req := range requires {
		if st := outcome[req]; st != StatusOK {
			return req, st, false
		}
	}
	return "", StatusOK, true
}

// Report summarizes a run.
type Report struct {
	Root      string
	Steps     []StepResult
	cancelled error
}

// Step returns the result for name.
func (r *Report) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}

// Err joins the fatal failures of the run, or returns nil if there were none.
func (r *Report) Err() error {
	var errs []error
	if r.cancelled != nil {
		errs = append(errs, r.cancelled)
	}
	for _, s := range r.Steps {
		if s.Severity == Fatal && s.Err != nil && !errors.Is(s.Err, ErrAborted) {
			errs = append(errs, &StepError{Step: s.Name, Err: s.Err})
		}
	}
	return errors.Join(errs...)
}

// Warnings returns the recoverable failures of the run.
func (r *Report) Warnings() []error {
	var warns []error
	for _, s := range r.Steps {
		if s.Severity == Recoverable && s.Err != nil && !errors.Is(s.Err, ErrAborted) {
			warns = append(warns, &StepError{Step: s.Name, Err: s.Err})
		}
	}
	return warns
}

func printProgress(w io.Writer, res StepResult) {
	tag := "[ OK ]"
	switch {
	case res.Status == StatusFailed && res.Severity == Fatal:
		tag = "[FAIL]"
	case res.Status == StatusFailed:
		tag = "[WARN]"
	case res.Status == StatusSkipped:
		tag = "[SKIP]"
	}

	line := fmt.Sprintf("  %s %s", tag, res.Name)
	switch {
	case res.Err != nil:
		line += ": " + res.Err.Error()
	case res.Note != "":
		line += " (" + res.Note + ")"
	}
	fmt.Fprintln(w, line)
}
