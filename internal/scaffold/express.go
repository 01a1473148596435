package scaffold

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/boiler-labs/boiler/internal/manifest"
	"github.com/boiler-labs/boiler/internal/toolexec"
)

// Express step names, in pipeline order.
const (
	StepFolders    = "folders"
	StepScripts    = "scripts"
	StepEntrypoint = "entrypoint"
	StepConfigs    = "configs"
	StepReadme     = "readme"
	StepInstall    = "install"
	StepRouter     = "router"
	StepMarkers    = "markers"
	StepUtils      = "utils"
)

// ExpressFolders is created before any file is written beneath it.
var ExpressFolders = FolderSet{
	"app",
	"app/models",
	"app/services",
	"app/routes",
	"app/controllers",
	"app/utils",
}

// ExpressMarkerDirs receive a .gitkeep so git tracks them while empty.
var ExpressMarkerDirs = []string{
	"app/models",
	"app/services",
	"app/routes",
	"app/controllers",
	"app/utils",
}

// ExpressScripts are written into package.json in this order.
var ExpressScripts = []manifest.ScriptEntry{
	{Name: "start", Command: "node dist/index.js"},
	{Name: "dev", Command: "nodemon --exec babel-node app/index.js"},
	{Name: "build", Command: "babel app -d dist"},
	{Name: "format", Command: `prettier --write "app/**/*.js"`},
}

// InstallSet is one package manager install invocation.
type InstallSet struct {
	Name     string
	Flags    []string
	Packages []string
}

// ExpressInstalls are run as three separate invocations.
var ExpressInstalls = []InstallSet{
	{Name: "global", Flags: []string{"-g"}, Packages: []string{"nodemon"}},
	{Name: "development", Flags: []string{"-D"}, Packages: []string{
		"@babel/core", "@babel/cli", "@babel/node", "@babel/preset-env", "prettier",
	}},
	{Name: "runtime", Packages: []string{"express", "dotenv", "cors", "morgan"}},
}

var (
	expressEntrypoint = TemplateFile{Path: "app/index.js"}
	expressConfigs    = []TemplateFile{
		{Path: ".prettierrc"},
		{Path: ".env", Mode: 0600},
		{Path: ".babelrc"},
	}
	expressReadme = TemplateFile{Path: "README.md"}
	expressRouter = TemplateFile{Path: "app/routes/index.js"}
	expressUtils  = TemplateFile{Path: "app/utils/index.js"}
)

// ExpressPlan returns the bootstrap steps followed by the express scaffold.
func ExpressPlan() *Plan {
	steps := BootstrapSteps([]string{"node_modules/"})
	steps = append(steps,
		Step{
			Name: StepFolders,
			Run: func(_ context.Context, env *Env) error {
				return ExpressFolders.Create(env.Root)
			},
		},
		Step{
			Name:     StepScripts,
			Requires: []string{StepNpmInit},
			Run: func(_ context.Context, env *Env) error {
				return manifest.PatchFile(filepath.Join(env.Root, manifest.FileName), ExpressScripts)
			},
		},
		writeStep(StepEntrypoint, []string{StepFolders}, expressEntrypoint),
		writeStep(StepConfigs, nil, expressConfigs...),
		writeStep(StepReadme, nil, expressReadme),
		Step{
			Name:     StepInstall,
			Severity: Recoverable,
			Requires: []string{StepScripts},
			Run: func(ctx context.Context, env *Env) error {
				if env.Options.SkipInstall {
					return errDisabled
				}
				return install(ctx, env, ExpressInstalls)
			},
		},
		writeStep(StepRouter, []string{StepFolders}, expressRouter),
		Step{
			Name:     StepMarkers,
			Requires: []string{StepFolders},
			Run: func(_ context.Context, env *Env) error {
				return WriteMarkers(env.Root, ExpressMarkerDirs)
			},
		},
		writeStep(StepUtils, []string{StepFolders}, expressUtils),
	)
	return &Plan{Steps: steps}
}

func writeStep(name string, requires []string, files ...TemplateFile) Step {
	return Step{
		Name:     name,
		Requires: requires,
		Run: func(_ context.Context, env *Env) error {
			data := TemplateData{Title: env.Spec.Title()}
			for _, f := range files {
				if err := WriteTemplate(env.Root, env.Spec.Variant, f, data); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// install spawns one detached package manager process per set. Handles are
// joined before install returns: after each spawn by default, or all at the
// end when ParallelInstalls is set.
func install(ctx context.Context, env *Env, sets []InstallSet) error {
	var (
		group toolexec.Group
		errs  []error
	)
	for _, set := range sets {
		args := append([]string{"install"}, set.Flags...)
		args = append(args, set.Packages...)
		h, err := env.Options.Runner.Start(ctx, toolexec.Command{
			Program: env.Options.PackageManager,
			Args:    args,
			Dir:     env.Root,
			Mode:    toolexec.Detached,
			Timeout: env.Options.InstallTimeout,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("%s dependencies: %w", set.Name, err))
			continue
		}
		group.Add(h)
		if !env.Options.ParallelInstalls {
			errs = append(errs, joinInstalls(&group)...)
		}
	}
	errs = append(errs, joinInstalls(&group)...)
	return errors.Join(errs...)
}

func joinInstalls(g *toolexec.Group) []error {
	var errs []error
	for _, res := range g.Wait() {
		if err := res.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
