package scaffold

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func recorder(order *[]string, name string, err error) func(context.Context, *Env) error {
	return func(context.Context, *Env) error {
		*order = append(*order, name)
		return err
	}
}

func testEnv() *Env {
	return &Env{Root: "/nowhere", Options: Options{}.withDefaults()}
}

func TestPlanCheck(t *testing.T) {
	noop := func(context.Context, *Env) error { return nil }

	tests := []struct {
		name    string
		steps   []Step
		wantErr string
	}{
		{
			name:  "valid",
			steps: []Step{{Name: "a", Run: noop}, {Name: "b", Requires: []string{"a"}, Run: noop}},
		},
		{
			name:    "forward requirement",
			steps:   []Step{{Name: "a", Requires: []string{"b"}, Run: noop}, {Name: "b", Run: noop}},
			wantErr: "requires b",
		},
		{
			name:    "unknown requirement",
			steps:   []Step{{Name: "a", Requires: []string{"ghost"}, Run: noop}},
			wantErr: "requires ghost",
		},
		{
			name:    "duplicate",
			steps:   []Step{{Name: "a", Run: noop}, {Name: "a", Run: noop}},
			wantErr: "declared twice",
		},
		{
			name:    "missing action",
			steps:   []Step{{Name: "a"}},
			wantErr: "no action",
		},
		{
			name:    "missing name",
			steps:   []Step{{Run: noop}},
			wantErr: "no name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Plan{Steps: tt.steps}).Check()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Check() error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Check() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestPlanRun_InvalidPlanRunsNothing(t *testing.T) {
	var order []string
	plan := &Plan{Steps: []Step{
		{Name: "a", Run: recorder(&order, "a", nil)},
		{Name: "b", Requires: []string{"c"}, Run: recorder(&order, "b", nil)},
	}}

	if _, err := plan.Run(context.Background(), testEnv()); err == nil {
		t.Fatal("expected invalid plan error")
	}
	if len(order) != 0 {
		t.Errorf("no step should run for an invalid plan, ran %v", order)
	}
}

func TestPlanRun_Order(t *testing.T) {
	var order []string
	plan := &Plan{Steps: []Step{
		{Name: "a", Run: recorder(&order, "a", nil)},
		{Name: "b", Run: recorder(&order, "b", nil)},
		{Name: "c", Requires: []string{"a", "b"}, Run: recorder(&order, "c", nil)},
	}}

	report, err := plan.Run(context.Background(), testEnv())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got := strings.Join(order, ","); got != "a,b,c" {
		t.Errorf("order = %s, want a,b,c", got)
	}
	if report.Err() != nil {
		t.Errorf("Err() = %v, want nil", report.Err())
	}
}

func TestPlanRun_RecoverableFailureContinues(t *testing.T) {
	var order []string
	boom := errors.New("boom")
	plan := &Plan{Steps: []Step{
		{Name: "a", Severity: Recoverable, Run: recorder(&order, "a", boom)},
		{Name: "b", Run: recorder(&order, "b", nil)},
	}}

	report, err := plan.Run(context.Background(), testEnv())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got := strings.Join(order, ","); got != "a,b" {
		t.Errorf("order = %s, want a,b", got)
	}
	if report.Err() != nil {
		t.Errorf("Err() = %v, want nil", report.Err())
	}
	warns := report.Warnings()
	if len(warns) != 1 || !errors.Is(warns[0], boom) {
		t.Errorf("Warnings() = %v, want [boom]", warns)
	}
}

func TestPlanRun_SkipsDependentsOfFailedStep(t *testing.T) {
	var order []string
	plan := &Plan{Steps: []Step{
		{Name: "init", Severity: Recoverable, Run: recorder(&order, "init", errors.New("no npm"))},
		{Name: "extra", Severity: Recoverable, Requires: []string{"init"}, Run: recorder(&order, "extra", nil)},
		{Name: "patch", Requires: []string{"init"}, Run: recorder(&order, "patch", nil)},
		{Name: "after", Run: recorder(&order, "after", nil)},
	}}

	report, err := plan.Run(context.Background(), testEnv())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got := strings.Join(order, ","); got != "init" {
		t.Errorf("order = %s, want only init", got)
	}

	extra, _ := report.Step("extra")
	if extra.Status != StatusSkipped {
		t.Errorf("extra status = %s, want skipped", extra.Status)
	}
	after, _ := report.Step("after")
	if !errors.Is(after.Err, ErrAborted) {
		t.Errorf("after err = %v, want ErrAborted", after.Err)
	}

	var stepErr *StepError
	if !errors.As(report.Err(), &stepErr) || stepErr.Step != "patch" {
		t.Fatalf("Err() = %v, want StepError for patch", report.Err())
	}
	if len(report.Warnings()) != 2 {
		t.Errorf("Warnings() = %v, want init and extra", report.Warnings())
	}
}

func TestPlanRun_FatalFailureAborts(t *testing.T) {
	var order []string
	boom := errors.New("disk full")
	plan := &Plan{Steps: []Step{
		{Name: "a", Run: recorder(&order, "a", boom)},
		{Name: "b", Run: recorder(&order, "b", nil)},
	}}

	report, err := plan.Run(context.Background(), testEnv())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(order) != 1 {
		t.Errorf("only the failing step should run, ran %v", order)
	}
	if !errors.Is(report.Err(), boom) {
		t.Errorf("Err() = %v, want boom", report.Err())
	}
	if len(report.Steps) != 2 {
		t.Errorf("every step should be recorded, got %d", len(report.Steps))
	}
}

func TestPlanRun_Cancelled(t *testing.T) {
	var order []string
	ctx, cancel := context.WithCancel(context.Background())

	plan := &Plan{Steps: []Step{
		{Name: "a", Run: func(context.Context, *Env) error {
			order = append(order, "a")
			cancel()
			return nil
		}},
		{Name: "b", Run: recorder(&order, "b", nil)},
	}}

	report, err := plan.Run(ctx, testEnv())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(order) != 1 {
		t.Errorf("ran %v after cancellation", order)
	}
	if !errors.Is(report.Err(), context.Canceled) {
		t.Errorf("Err() = %v, want context.Canceled", report.Err())
	}
}

func TestPlanRun_DisabledStep(t *testing.T) {
	plan := &Plan{Steps: []Step{
		{Name: "install", Severity: Recoverable, Run: func(context.Context, *Env) error { return errDisabled }},
	}}

	report, err := plan.Run(context.Background(), testEnv())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	res, _ := report.Step("install")
	if res.Status != StatusSkipped || res.Err != nil || res.Note == "" {
		t.Errorf("install result = %+v, want skipped with note", res)
	}
	if len(report.Warnings()) != 0 {
		t.Errorf("a disabled step is not a warning: %v", report.Warnings())
	}
}

func TestPlanRun_Progress(t *testing.T) {
	var buf bytes.Buffer
	env := testEnv()
	env.Options.Progress = &buf

	plan := &Plan{Steps: []Step{
		{Name: "ok-step", Run: func(context.Context, *Env) error { return nil }},
		{Name: "warn-step", Severity: Recoverable, Run: func(context.Context, *Env) error { return errors.New("meh") }},
		{Name: "fail-step", Run: func(context.Context, *Env) error { return errors.New("bad") }},
		{Name: "never", Run: func(context.Context, *Env) error { return nil }},
	}}
	if _, err := plan.Run(context.Background(), env); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"[ OK ] ok-step",
		"[WARN] warn-step: meh",
		"[FAIL] fail-step: bad",
		"[SKIP] never: run aborted",
	} {
		assertContains(t, out, want)
	}
}
