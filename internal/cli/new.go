package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/boiler-labs/boiler/internal/config"
	"github.com/boiler-labs/boiler/internal/scaffold"
	"github.com/boiler-labs/boiler/internal/toolexec"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	newType  string
	newName  string
	newWhere string
)

// newRunner builds the tool runner for a scaffold run. Tests replace it.
var newRunner = func(log *slog.Logger, out io.Writer) toolexec.Runner {
	inv := toolexec.NewInvoker(log)
	if verbose {
		inv.Stdout = out
		inv.Stderr = out
	}
	return inv
}

func init() {
	newCmd.Flags().StringVarP(&newType, "type", "t", "", "Boilerplate type: express, react, react-ts or next (required)")
	newCmd.Flags().StringVarP(&newName, "name", "n", "", "Project name (required)")
	newCmd.Flags().StringVarP(&newWhere, "where", "w", "", "Where the project is created (default: ./<name>; use . for the current directory)")
	newCmd.Flags().Bool("skip-install", false, "Do not install dependencies")
	_ = newCmd.MarkFlagRequired("type")
	_ = newCmd.MarkFlagRequired("name")
	_ = viper.BindPFlag(config.KeySkipInstall, newCmd.Flags().Lookup("skip-install"))
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a new boilerplate",
	Long: `Generate a new project skeleton.

Examples:
  boiler new --type express --name my-app
  boiler new -t express -n my-app --where .
  boiler new -t express -n acme/api --skip-install`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		variant, err := scaffold.ParseVariant(newType)
		if err != nil {
			return err
		}
		spec, err := scaffold.NewSpec(variant, newName, newWhere)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		settings := config.Current()
		opts := scaffold.Options{
			Runner:           newRunner(logger, cmd.ErrOrStderr()),
			Logger:           logger,
			Progress:         out,
			PackageManager:   settings.PackageManager,
			GitBinary:        settings.GitBinary,
			InitTimeout:      settings.InitTimeout,
			InstallTimeout:   settings.InstallTimeout,
			ParallelInstalls: settings.ParallelInstalls,
			SkipInstall:      settings.SkipInstall,
		}

		fmt.Fprintf(out, "Generating a new %s boilerplate\n", variant)
		report, err := scaffold.Generate(cmd.Context(), spec, opts)
		if errors.Is(err, scaffold.ErrUnsupportedVariant) {
			fmt.Fprintf(out, "The %s boilerplate is not available yet; only express can be generated.\n", variant)
			return err
		}
		if report == nil {
			return err
		}

		printReport(out, spec, report)
		if err != nil {
			return fmt.Errorf("scaffold incomplete: %w", err)
		}

		fmt.Fprintln(out, "\nNext steps:")
		if spec.Location != scaffold.CurrentDir {
			fmt.Fprintf(out, "  1. cd %s\n", spec.Location)
		} else {
			fmt.Fprintln(out, "  1. Stay in this directory")
		}
		if settings.SkipInstall {
			fmt.Fprintf(out, "  2. Run '%s install' to install dependencies\n", settings.PackageManager)
		} else {
			fmt.Fprintln(out, "  2. Review package.json")
		}
		fmt.Fprintf(out, "  3. Run '%s run dev' to start the server\n", settings.PackageManager)
		return nil
	},
}

func printReport(w io.Writer, spec scaffold.Spec, report *scaffold.Report) {
	fmt.Fprintf(w, "\nCreated %s project %s at %s/\n", spec.Variant, spec.Title(), report.Root)
	if warns := report.Warnings(); len(warns) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, warn := range warns {
			fmt.Fprintf(w, "  - %v\n", warn)
		}
	}
}
