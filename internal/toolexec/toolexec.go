package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Mode selects how a command is executed.
type Mode int

const (
	// Sync waits for the command to finish.
	Sync Mode = iota
	// Detached spawns the command and returns immediately with a Handle.
	Detached
)

func (m Mode) String() string {
	switch m {
	case Sync:
		return "sync"
	case Detached:
		return "detached"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// DefaultWaitDelay bounds how long Wait keeps draining output pipes after the
// child has been killed.
const DefaultWaitDelay = 5 * time.Second

// Command describes one external program invocation.
type Command struct {
	Program string
	Args    []string
	Dir     string        // working directory; empty means the current one
	Mode    Mode
	Timeout time.Duration // zero means no timeout
}

// String renders the command line, e.g. "npm install -D prettier".
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Program
	}
	return c.Program + " " + strings.Join(c.Args, " ")
}

// ExitError reports a command that ran to completion with a non-zero status.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.Code)
}

// Result is the outcome of a finished command.
type Result struct {
	Command  Command
	ExitCode int // -1 when the process never exited normally
	Duration time.Duration
	err      error
}

// Err returns nil on a zero exit status, an *ExitError on a non-zero status,
// and the underlying start, timeout or cancellation error otherwise.
func (r Result) Err() error {
	if r.err != nil {
		return r.err
	}
	if r.ExitCode != 0 {
		return &ExitError{Command: r.Command.String(), Code: r.ExitCode}
	}
	return nil
}

// Failed builds a Result for a command that could not be run at all.
func Failed(c Command, err error) Result {
	return Result{Command: c, ExitCode: -1, err: err}
}

// Exited builds a Result for a command that exited with code.
func Exited(c Command, code int) Result {
	return Result{Command: c, ExitCode: code}
}

// Runner executes commands. Invoker is the production implementation.
type Runner interface {
	Run(ctx context.Context, c Command) Result
	Start(ctx context.Context, c Command) (*Handle, error)
}

// Invoker runs commands as child processes.
type Invoker struct {
	// Stdout and Stderr receive the child's output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
	// WaitDelay overrides DefaultWaitDelay when positive.
	WaitDelay time.Duration
	Logger    *slog.Logger
}

// NewInvoker returns an Invoker that discards child output.
func NewInvoker(logger *slog.Logger) *Invoker {
	return &Invoker{Logger: logger}
}

// Run executes c and waits for it to finish, whatever c.Mode says.
func (inv *Invoker) Run(ctx context.Context, c Command) Result {
	ctx, cancel := withTimeout(ctx, c.Timeout)
	defer cancel()

	cmd := inv.command(ctx, c)
	inv.logger().Debug("running command", "cmd", c.String(), "dir", c.Dir, "mode", Sync)

	start := time.Now()
	err := cmd.Run()
	res := inv.finish(ctx, c, err, time.Since(start))
	return res
}

// Start spawns c without waiting. The returned Handle must be joined with
// Wait; the child is killed if ctx is cancelled or c.Timeout elapses.
func (inv *Invoker) Start(ctx context.Context, c Command) (*Handle, error) {
	ctx, cancel := withTimeout(ctx, c.Timeout)

	cmd := inv.command(ctx, c)
	inv.logger().Debug("starting command", "cmd", c.String(), "dir", c.Dir, "mode", Detached)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("starting %s: %w", c, err)
	}

	h := newHandle(c)
	go func() {
		defer cancel()
		err := cmd.Wait()
		h.complete(inv.finish(ctx, c, err, time.Since(start)))
	}()
	return h, nil
}

func (inv *Invoker) command(ctx context.Context, c Command) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Program, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr
	cmd.WaitDelay = DefaultWaitDelay
	if inv.WaitDelay > 0 {
		cmd.WaitDelay = inv.WaitDelay
	}
	return cmd
}

func (inv *Invoker) finish(ctx context.Context, c Command, err error, took time.Duration) Result {
	res := Result{Command: c, Duration: took}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case ctx.Err() != nil:
		res.ExitCode = -1
		res.err = fmt.Errorf("%s: %w", c, ctx.Err())
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		res.ExitCode = -1
		res.err = fmt.Errorf("running %s: %w", c, err)
	}

	log := inv.logger().With("cmd", c.String(), "exit", res.ExitCode, "took", took.Round(time.Millisecond))
	if e := res.Err(); e != nil {
		log.Debug("command failed", "error", e)
	} else {
		log.Debug("command finished")
	}
	return res
}

func (inv *Invoker) logger() *slog.Logger {
	if inv.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return inv.Logger
}

// Probe runs program synchronously and returns its trimmed stdout. It is
// used for version checks where the output matters.
func Probe(ctx context.Context, program string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, program, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = DefaultWaitDelay

	if err := cmd.Run(); err != nil {
		c := Command{Program: program, Args: args}
		return "", fmt.Errorf("%s: %w (stderr: %s)", c, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}
