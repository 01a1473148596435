package cli

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/boiler-labs/boiler/internal/config"
	"github.com/boiler-labs/boiler/internal/manifest"
	"github.com/boiler-labs/boiler/internal/toolexec"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

const probeTimeout = 10 * time.Second

var (
	checkRuntime  bool
	checkManifest string
)

// nodeVersion reports the installed node version. Tests replace it.
var nodeVersion = func(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	return toolexec.Probe(ctx, "node", "--version")
}

func init() {
	doctorCmd.Flags().BoolVar(&checkRuntime, "check-runtime", false, "Verify git, node and the package manager are available")
	doctorCmd.Flags().StringVar(&checkManifest, "check-manifest", "", "Validate a package.json at the given path")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the tools a scaffold needs are installed",
	Long:  `Run diagnostic checks on the tools boiler invokes and, optionally, on a generated package.json.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		settings := config.Current()

		if !checkRuntime && checkManifest == "" {
			checkRuntime = true
		}

		var failed bool
		if checkRuntime {
			failed = !runRuntimeCheck(cmd.Context(), out, settings)
		}
		if checkManifest != "" {
			if err := runManifestCheck(out, checkManifest); err != nil {
				return err
			}
		}
		if failed {
			return fmt.Errorf("runtime check failed")
		}
		return nil
	},
}

func runRuntimeCheck(ctx context.Context, w io.Writer, settings config.Settings) bool {
	fmt.Fprintln(w, "Runtime check:")
	ok := checkBinary(w, settings.GitBinary)
	ok = checkBinary(w, "node") && ok
	ok = checkBinary(w, settings.PackageManager) && ok
	if !ok {
		return false
	}

	version, err := nodeVersion(ctx)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] node version: %v\n", err)
		return false
	}
	return checkNodeVersion(w, version, settings.NodeConstraint)
}

func checkBinary(w io.Writer, name string) bool {
	path, err := exec.LookPath(name)
	if err != nil {
		fmt.Fprintf(w, "  [MISS] %s not found\n", name)
		return false
	}
	fmt.Fprintf(w, "  [ OK ] %s found at %s\n", name, path)
	return true
}

// checkNodeVersion reports whether version (as printed by `node --version`)
// satisfies constraint.
func checkNodeVersion(w io.Writer, version, constraint string) bool {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] invalid node constraint %q: %v\n", constraint, err)
		return false
	}
	v, err := semver.NewVersion(strings.TrimSpace(version))
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] cannot parse node version %q: %v\n", version, err)
		return false
	}
	if !c.Check(v) {
		fmt.Fprintf(w, "  [FAIL] node %s does not satisfy %s\n", v, constraint)
		return false
	}
	fmt.Fprintf(w, "  [ OK ] node %s satisfies %s\n", v, constraint)
	return true
}

func runManifestCheck(w io.Writer, path string) error {
	fmt.Fprintf(w, "Manifest validation: %s\n", path)

	result, err := manifest.ValidateFile(path)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return fmt.Errorf("manifest validation failed: %w", err)
	}

	if result.Valid {
		data, err := manifest.ReadFile(path)
		if err != nil {
			fmt.Fprintf(w, "  [ OK ] Valid manifest\n")
			return nil
		}
		scripts, _ := manifest.Scripts(data)
		fmt.Fprintf(w, "  [ OK ] Valid manifest: %s (v%s), %d script(s)\n",
			gjson.GetBytes(data, "name").String(),
			gjson.GetBytes(data, "version").String(),
			len(scripts))
		return nil
	}

	fmt.Fprintf(w, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
	for _, issue := range result.Issues {
		if issue.Path != "" {
			fmt.Fprintf(w, "    - %s: %s\n", issue.Path, issue.Message)
		} else {
			fmt.Fprintf(w, "    - %s\n", issue.Message)
		}
	}
	return fmt.Errorf("manifest %s has %d validation issue(s)", path, len(result.Issues))
}
