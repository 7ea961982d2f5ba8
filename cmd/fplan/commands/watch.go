package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the plan document whenever the source folder changes",
	Long:  `Equivalent to "build --watch". Output, format and debounce are taken from the build flags or config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd.Context(), true)
	},
}
