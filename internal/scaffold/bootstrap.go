package scaffold

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IgnoreFile is the version control ignore file written at the project root.
const IgnoreFile = ".gitignore"

// Bootstrap step names.
const (
	StepGitignore = "gitignore"
	StepGitInit   = "git-init"
	StepNpmInit   = "npm-init"
)

// EnsureIgnored appends line to root/.gitignore unless it is already present.
// The file is created if missing.
func EnsureIgnored(root, line string) error {
	ignorePath := filepath.Join(root, IgnoreFile)

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", IgnoreFile, err)
	}

	for _, l := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(l) == line {
			return nil
		}
	}

	suffix := line + "\n"
	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		suffix = "\n" + suffix
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening %s for append: %w", IgnoreFile, err)
	}
	defer f.Close()

	if _, err := f.WriteString(suffix); err != nil {
		return fmt.Errorf("writing to %s: %w", IgnoreFile, err)
	}
	return nil
}

// BootstrapSteps initializes version control and the package manifest. All
// three are recoverable; later steps that need the manifest declare it.
func BootstrapSteps(ignored []string) []Step {
	return []Step{
		{
			Name:     StepGitignore,
			Severity: Recoverable,
			Run: func(_ context.Context, env *Env) error {
				for _, line := range ignored {
					if err := EnsureIgnored(env.Root, line); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			Name:     StepGitInit,
			Severity: Recoverable,
			Run: func(ctx context.Context, env *Env) error {
				return env.run(ctx, env.Options.GitBinary, env.Options.InitTimeout, "init")
			},
		},
		{
			Name:     StepNpmInit,
			Severity: Recoverable,
			Run: func(ctx context.Context, env *Env) error {
				return env.run(ctx, env.Options.PackageManager, env.Options.InitTimeout, "init", "-y")
			},
		},
	}
}
