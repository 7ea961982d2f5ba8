package commands

import (
	"fmt"
	"os"

	"github.com/goblinsan/fplan/pkg/fplan"
	"github.com/goblinsan/fplan/pkg/output"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().Bool("yaml", false, "Print YAML instead of JSON")
}

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Parse a single .fplan file and print its features",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		defer f.Close()

		features, err := fplan.ParseReader(f)
		if err != nil {
			return err
		}

		format := output.FormatJSON
		if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
			format = output.FormatYAML
		}
		return output.EncodeFeatures(cmd.OutOrStdout(), features, format)
	},
}
