package commands

import (
	"fmt"

	"github.com/goblinsan/fplan/pkg/output"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the plan document",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := output.Schema()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}
