package cli

import (
	"fmt"
	"strings"

	"github.com/boiler-labs/boiler/internal/scaffold"
	"github.com/spf13/cobra"
)

var addFeatures []string

func init() {
	addCmd.Flags().StringSliceVarP(&addFeatures, "what", "w", nil, "Features to add")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add features to the current boilerplate",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(addFeatures) == 0 {
			return fmt.Errorf("--what is required")
		}
		return fmt.Errorf("%w: %s", scaffold.ErrUnsupportedFeature, strings.Join(addFeatures, ", "))
	},
}
